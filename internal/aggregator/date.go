package aggregator

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Location builds the fixed-offset zone the aggregation day is defined in.
// Patients log in Thailand local time, so the production offset is 25200
// seconds (UTC+7); it is configurable for tests.
func Location(offsetSeconds int) *time.Location {
	hours := offsetSeconds / 3600
	name := fmt.Sprintf("UTC%+d", hours)
	return time.FixedZone(name, offsetSeconds)
}

// DayWindow returns the inclusive boundaries of the calendar day `date`
// (YYYY-MM-DD) in loc: 00:00:00 through 23:59:59.
func DayWindow(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	start := day
	end := day.Add(24*time.Hour - time.Second)
	return start, end, nil
}

// Yesterday returns the calendar date one day before `now` as seen in loc.
// This is the default aggregation target: the nightly run summarizes the day
// that just ended.
func Yesterday(now time.Time, loc *time.Location) string {
	return now.In(loc).AddDate(0, 0, -1).Format(dateLayout)
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
