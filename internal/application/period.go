package application

import (
	"time"

	"github.com/Taka-cst/ShiftManager/internal/shifttime"
)

// resolvePeriod turns an optional year/month pair into a date range. A pair
// with only one side set means no filter.
func resolvePeriod(period MonthFilter) (*time.Time, *time.Time, error) {
	if period.Year == nil || period.Month == nil {
		return nil, nil, nil
	}

	vErr := &ValidationError{}
	if *period.Month < 1 || *period.Month > 12 {
		vErr.add("month", "month must be between 1 and 12")
	}
	if *period.Year < 1 || *period.Year > 9999 {
		vErr.add("year", "year is out of range")
	}
	if vErr.HasErrors() {
		return nil, nil, vErr
	}

	from, to := shifttime.MonthRange(*period.Year, time.Month(*period.Month))
	return &from, &to, nil
}
