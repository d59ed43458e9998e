package aggregator

import (
	"encoding/json"
	"regexp"
	"strconv"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
)

// Reading is one successfully parsed blood-pressure measurement.
type Reading struct {
	Systolic  int
	Diastolic int
	HeartRate *int
}

var (
	// "120/80", with optional whitespace around the slash
	bpValuePattern = regexp.MustCompile(`(\d{2,3})\s*/\s*(\d{2,3})`)
	// trailing pulse annotation: "pulse: 72", "HR 68", "heart rate=70"
	pulsePattern = regexp.MustCompile(`(?i)(?:pulse|hr|heart[_ ]?rate)\s*[:=]?\s*(\d{1,3})`)
)

// ParseReading extracts a blood-pressure reading from a raw log. Structured
// metadata wins; the free-text value is the fallback for rows written by
// older app versions that only stored "120/80 pulse: 72". Returns false when
// the log holds neither, in which case the row is simply skipped.
func ParseReading(log *domain.ActivityLog) (Reading, bool) {
	if r, ok := readingFromMetadata(log.Metadata); ok {
		return r, true
	}
	return readingFromValue(log.Value)
}

func readingFromMetadata(metadata map[string]any) (Reading, bool) {
	systolic, okSys := numericField(metadata, "systolic")
	diastolic, okDia := numericField(metadata, "diastolic")
	if !okSys || !okDia {
		return Reading{}, false
	}

	r := Reading{Systolic: systolic, Diastolic: diastolic}
	if hr, ok := numericField(metadata, "heart_rate"); ok {
		r.HeartRate = &hr
	}
	return r, true
}

func readingFromValue(value string) (Reading, bool) {
	m := bpValuePattern.FindStringSubmatch(value)
	if m == nil {
		return Reading{}, false
	}

	systolic, _ := strconv.Atoi(m[1])
	diastolic, _ := strconv.Atoi(m[2])
	r := Reading{Systolic: systolic, Diastolic: diastolic}

	if pm := pulsePattern.FindStringSubmatch(value); pm != nil {
		if hr, err := strconv.Atoi(pm[1]); err == nil {
			r.HeartRate = &hr
		}
	}
	return r, true
}

// numericField reads a metadata field that may be a JSON number, a string
// holding a number, or absent, depending on which app version wrote the row.
func numericField(metadata map[string]any, key string) (int, bool) {
	if metadata == nil {
		return 0, false
	}
	switch v := metadata[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i, true
		}
	}
	return 0, false
}
