// Package shifttime converts between stored instants and the JST wall-clock
// strings shown to users.
//
// A shift's calendar date is always supplied separately from its time of day.
// Conversions extract only the hour and minute from their input and recombine
// them with that anchor date, so a UTC day-boundary crossing in the stored
// instant never moves a shift to another day.
package shifttime

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// DateLayout is the wire and storage layout for calendar dates.
	DateLayout = "2006-01-02"
	// ClockLayout is the local wall-clock layout.
	ClockLayout = "15:04"
)

var jst = time.FixedZone("JST", 9*60*60)

var clockPattern = regexp.MustCompile(`^([0-9]{2}):([0-9]{2})$`)

// layouts accepted for full timestamps, tried in order. Layouts without an
// offset are read as JST.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// FormatError reports a time or date string that could not be interpreted.
type FormatError struct {
	Value string
	Kind  string
}

func (e *FormatError) Error() string {
	if e == nil {
		return ""
	}
	kind := e.Kind
	if kind == "" {
		kind = "time"
	}
	return fmt.Sprintf("shifttime: invalid %s format: %q", kind, e.Value)
}

// Location returns the fixed zone every conversion targets.
func Location() *time.Location {
	return jst
}

// ToLocalString renders the instant as "HH:MM" in JST.
func ToLocalString(instant time.Time) string {
	return instant.In(jst).Format(ClockLayout)
}

// ToInstant interprets value as a JST time of day on the anchor's calendar
// date. value is either "HH:MM" or a full ISO-8601 timestamp; for the latter
// only its JST hour and minute are kept.
func ToInstant(value string, anchor time.Time) (time.Time, error) {
	hour, minute, err := clockOf(value)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := anchor.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, jst), nil
}

func clockOf(value string) (int, int, error) {
	if match := clockPattern.FindStringSubmatch(value); match != nil {
		hour, _ := strconv.Atoi(match[1])
		minute, _ := strconv.Atoi(match[2])
		if hour > 23 || minute > 59 {
			return 0, 0, &FormatError{Value: value}
		}
		return hour, minute, nil
	}

	for _, layout := range isoLayouts {
		parsed, err := time.ParseInLocation(layout, value, jst)
		if err != nil {
			continue
		}
		local := parsed.In(jst)
		return local.Hour(), local.Minute(), nil
	}

	return 0, 0, &FormatError{Value: value}
}

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &FormatError{Value: value, Kind: "date"}
	}
	return parsed, nil
}

// FormatDate renders the calendar date of t as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf returns the calendar date of t, as read in t's own location,
// normalised to midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthRange returns the half-open range [first day of month, first day of
// the following month) as calendar dates.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
