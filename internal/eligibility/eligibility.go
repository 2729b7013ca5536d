// Package eligibility decides which calendar dates accept new shift requests.
package eligibility

import (
	"strconv"
	"strings"
	"time"
)

// KeyPrefix is shared by every weekday settings row.
const KeyPrefix = "dow_"

// Settings holds the per-weekday flags. A weekday whose flag is false is not
// a class day and rejects new shift requests.
type Settings struct {
	Monday    bool
	Tuesday   bool
	Wednesday bool
	Thursday  bool
	Friday    bool
	Saturday  bool
	Sunday    bool
}

var weekdayKeys = [...]struct {
	day time.Weekday
	key string
}{
	{time.Monday, KeyPrefix + "monday"},
	{time.Tuesday, KeyPrefix + "tuesday"},
	{time.Wednesday, KeyPrefix + "wednesday"},
	{time.Thursday, KeyPrefix + "thursday"},
	{time.Friday, KeyPrefix + "friday"},
	{time.Saturday, KeyPrefix + "saturday"},
	{time.Sunday, KeyPrefix + "sunday"},
}

// Keys lists the settings keys in Monday..Sunday order.
func Keys() []string {
	keys := make([]string, 0, len(weekdayKeys))
	for _, wk := range weekdayKeys {
		keys = append(keys, wk.key)
	}
	return keys
}

// FromKeyValues builds Settings from stored rows. Missing keys and values
// other than "true" leave the weekday disabled.
func FromKeyValues(values map[string]string) Settings {
	var s Settings
	for _, wk := range weekdayKeys {
		raw, ok := values[wk.key]
		if !ok {
			continue
		}
		enabled, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(raw)))
		if err != nil {
			continue
		}
		s.set(wk.day, enabled)
	}
	return s
}

// KeyValues renders all seven flags as storage rows.
func (s Settings) KeyValues() map[string]string {
	out := make(map[string]string, len(weekdayKeys))
	for _, wk := range weekdayKeys {
		out[wk.key] = strconv.FormatBool(s.Enabled(wk.day))
	}
	return out
}

// Enabled reports the flag for the given weekday.
func (s Settings) Enabled(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	case time.Sunday:
		return s.Sunday
	default:
		return false
	}
}

func (s *Settings) set(day time.Weekday, enabled bool) {
	switch day {
	case time.Monday:
		s.Monday = enabled
	case time.Tuesday:
		s.Tuesday = enabled
	case time.Wednesday:
		s.Wednesday = enabled
	case time.Thursday:
		s.Thursday = enabled
	case time.Friday:
		s.Friday = enabled
	case time.Saturday:
		s.Saturday = enabled
	case time.Sunday:
		s.Sunday = enabled
	}
}

// IsEligible reports whether date falls on an enabled weekday. The weekday is
// read from date's own calendar fields.
func IsEligible(date time.Time, s Settings) bool {
	return s.Enabled(date.Weekday())
}
