package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsEligible(t *testing.T) {
	t.Parallel()

	wednesdayOnly := Settings{Wednesday: true}

	tests := []struct {
		name     string
		date     time.Time
		settings Settings
		want     bool
	}{
		{name: "enabled weekday", date: time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC), settings: wednesdayOnly, want: true},
		{name: "disabled weekday", date: time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), settings: wednesdayOnly, want: false},
		{name: "zero settings reject every day", date: time.Date(2025, 7, 9, 0, 0, 0, 0, time.UTC), settings: Settings{}, want: false},
		{name: "sunday", date: time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC), settings: Settings{Sunday: true}, want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsEligible(tt.date, tt.settings))
		})
	}
}

func TestEnabledUnknownWeekday(t *testing.T) {
	t.Parallel()

	all := Settings{true, true, true, true, true, true, true}
	assert.False(t, all.Enabled(time.Weekday(9)))
}

func TestFromKeyValues(t *testing.T) {
	t.Parallel()

	t.Run("absent keys default to false", func(t *testing.T) {
		t.Parallel()

		s := FromKeyValues(map[string]string{"dow_wednesday": "true"})
		assert.Equal(t, Settings{Wednesday: true}, s)
	})

	t.Run("values are case insensitive and tolerate junk", func(t *testing.T) {
		t.Parallel()

		s := FromKeyValues(map[string]string{
			"dow_monday":  "TRUE",
			"dow_tuesday": "yes",
			"dow_friday":  "false",
			"other_key":   "true",
		})
		assert.Equal(t, Settings{Monday: true}, s)
	})
}

func TestKeyValuesRoundTrip(t *testing.T) {
	t.Parallel()

	s := Settings{Monday: true, Thursday: true, Sunday: true}
	kv := s.KeyValues()

	assert.Len(t, kv, 7)
	assert.Equal(t, "true", kv["dow_monday"])
	assert.Equal(t, "false", kv["dow_tuesday"])
	assert.Equal(t, s, FromKeyValues(kv))
	assert.Equal(t, []string{
		"dow_monday", "dow_tuesday", "dow_wednesday", "dow_thursday",
		"dow_friday", "dow_saturday", "dow_sunday",
	}, Keys())
}
