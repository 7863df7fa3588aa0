package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonForDate(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2023-10-24", "2023-24"}, // opening night
		{"2023-12-25", "2023-24"},
		{"2024-01-15", "2023-24"}, // calendar year rolls, season does not
		{"2024-06-17", "2023-24"}, // finals
		{"2024-09-30", "2023-24"}, // offseason belongs to the prior label
		{"2024-10-01", "2024-25"},
		{"1999-11-02", "1999-00"}, // century rollover
	}

	for _, tt := range tests {
		d, err := time.Parse("2006-01-02", tt.date)
		require.NoError(t, err)
		assert.Equal(t, tt.want, SeasonForDate(d), "date %s", tt.date)
	}
}

func TestCurrentSeason(t *testing.T) {
	now := time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023-24", CurrentSeason(now))
}

func TestSeasonWindow(t *testing.T) {
	start, end, err := SeasonWindow("2023-24")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), end)
}

func TestSeasonWindow_InvalidLabels(t *testing.T) {
	invalid := []string{
		"",
		"2023",
		"2023-2024",
		"23-24",
		"2023-25", // years not consecutive
		"abcd-ef",
	}

	for _, label := range invalid {
		_, _, err := SeasonWindow(label)
		assert.Error(t, err, "label %q should be rejected", label)
	}
}
