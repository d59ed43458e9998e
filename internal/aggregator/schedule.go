package aggregator

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
)

// ExpectedDoses counts how many doses were scheduled across the active
// schedules on the given day.
func ExpectedDoses(schedules []*domain.MedicationSchedule, day time.Time) int {
	weekday := strings.ToLower(day.Weekday().String())
	total := 0
	for _, s := range schedules {
		if scheduleAppliesOn(s, weekday) {
			total += doseCount(s.Times)
		}
	}
	return total
}

// scheduleAppliesOn reports whether the schedule expects doses on the given
// weekday (lowercase day name). Unknown frequency types count as daily so a
// frequency added in the app before the backend catches up still shows up in
// compliance instead of silently dropping to zero scheduled doses.
func scheduleAppliesOn(s *domain.MedicationSchedule, weekday string) bool {
	switch s.FrequencyType {
	case domain.FrequencyDaily:
		return true
	case domain.FrequencySpecificDays:
		return dayListed(s.DaysOfWeek, weekday)
	default:
		return true
	}
}

// dayListed handles both shapes the app has written over time: a JSON array
// of day names and an object keyed by day name.
func dayListed(daysOfWeek json.RawMessage, weekday string) bool {
	if len(daysOfWeek) == 0 {
		return false
	}

	var list []string
	if err := json.Unmarshal(daysOfWeek, &list); err == nil {
		for _, d := range list {
			if strings.ToLower(d) == weekday {
				return true
			}
		}
		return false
	}

	var keyed map[string]any
	if err := json.Unmarshal(daysOfWeek, &keyed); err == nil {
		for d := range keyed {
			if strings.ToLower(d) == weekday {
				return true
			}
		}
	}
	return false
}

// doseCount is len(times) when times is a JSON array, otherwise one dose.
func doseCount(times json.RawMessage) int {
	if len(times) == 0 {
		return 1
	}
	var list []any
	if err := json.Unmarshal(times, &list); err == nil {
		return len(list)
	}
	return 1
}
