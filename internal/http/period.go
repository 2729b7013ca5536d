package http

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Taka-cst/ShiftManager/internal/application"
)

// parseMonthFilter reads the optional year and month query parameters.
// Absent values stay nil; present but non-numeric values are rejected.
func parseMonthFilter(query url.Values) (application.MonthFilter, error) {
	var filter application.MonthFilter

	year, err := optionalInt(query, "year")
	if err != nil {
		return filter, err
	}
	month, err := optionalInt(query, "month")
	if err != nil {
		return filter, err
	}
	filter.Year = year
	filter.Month = month
	return filter, nil
}

func optionalInt(query url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errInvalidPeriod
	}
	return &value, nil
}
