package aggregator_test

import (
	"testing"
	"time"

	agg "github.com/sarunhaha/duulair-hybrid-sub002/internal/aggregator"

	"github.com/stretchr/testify/require"
)

func TestDayWindow(t *testing.T) {
	loc := agg.Location(25200) // UTC+7

	start, end, err := agg.DayWindow("2026-08-20", loc)
	require.NoError(t, err)

	require.Equal(t, "2026-08-20T00:00:00+07:00", start.Format(time.RFC3339))
	require.Equal(t, "2026-08-20T23:59:59+07:00", end.Format(time.RFC3339))

	// The whole window converts back to the same UTC span the raw logs are
	// stored in.
	require.Equal(t, "2026-08-19T17:00:00Z", start.UTC().Format(time.RFC3339))
}

func TestDayWindow_InvalidDate(t *testing.T) {
	loc := agg.Location(25200)
	for _, date := range []string{"", "20-08-2026", "2026-13-01", "yesterday"} {
		_, _, err := agg.DayWindow(date, loc)
		require.Error(t, err, "date %q", date)
	}
}

func TestYesterday_CrossesDateLine(t *testing.T) {
	loc := agg.Location(25200)

	// 2026-08-20 18:30 UTC is already 2026-08-21 01:30 in UTC+7, so
	// "yesterday" there is the 20th, not the 19th.
	now := time.Date(2026, 8, 20, 18, 30, 0, 0, time.UTC)
	require.Equal(t, "2026-08-20", agg.Yesterday(now, loc))

	// Earlier the same UTC day it is still the 20th in UTC+7.
	now = time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	require.Equal(t, "2026-08-19", agg.Yesterday(now, loc))
}

func TestValidDate(t *testing.T) {
	require.True(t, agg.ValidDate("2026-02-28"))
	require.False(t, agg.ValidDate("2026-02-30"))
	require.False(t, agg.ValidDate("2026/02/28"))
	require.False(t, agg.ValidDate(""))
}
