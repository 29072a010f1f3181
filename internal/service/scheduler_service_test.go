package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("09:30")
	require.NoError(t, err)
	assert.Equal(t, "0 30 9 * * *", spec)

	for _, bad := range []string{"", "9", "24:00", "12:60", "ab:cd", "1:2:3"} {
		_, err := buildDailySpec(bad)
		assert.Errorf(t, err, "%q", bad)
	}
}

func TestSchedulerService_ScheduleReports(t *testing.T) {
	s := NewSchedulerService(time.UTC, zerolog.Nop())

	_, err := s.ScheduleReports("08:00", time.Hour, func() {})
	require.NoError(t, err)
	_, err = s.ScheduleReports("", 5*time.Hour, func() {})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())

	_, err = s.ScheduleReports("", 0, func() {})
	assert.Error(t, err)
	_, err = s.ScheduleReports("25:00", time.Hour, func() {})
	assert.Error(t, err)
}
