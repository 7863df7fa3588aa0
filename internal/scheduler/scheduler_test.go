package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshDates(t *testing.T) {
	s := New(nil, "0 4 * * *", 3)
	s.now = func() time.Time {
		return time.Date(2024, 1, 15, 4, 0, 0, 0, time.UTC)
	}

	dates := s.refreshDates()
	require.Len(t, dates, 3)

	assert.Equal(t, time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC), dates[0])
	assert.Equal(t, time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC), dates[1])
	assert.Equal(t, time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), dates[2], "window ends yesterday")
}

func TestNew_DefaultWindow(t *testing.T) {
	s := New(nil, "0 4 * * *", 0)
	assert.Equal(t, 3, s.windowDays)
}

func TestStart_InvalidCronSpec(t *testing.T) {
	s := New(nil, "not a cron spec", 3)
	assert.Error(t, s.Start())
}
