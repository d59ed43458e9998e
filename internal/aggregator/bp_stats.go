package aggregator

import (
	"math"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
)

// BPStats holds the day's blood-pressure aggregates. All fields are nil when
// no readings parsed.
type BPStats struct {
	Count        int
	SystolicAvg  *int
	SystolicMin  *int
	SystolicMax  *int
	DiastolicAvg *int
	DiastolicMin *int
	DiastolicMax *int
	HeartRateAvg *int
	HeartRateMin *int
	HeartRateMax *int
	Status       *string
}

// CalculateBPStats computes avg/min/max over the parsed readings. Systolic
// and diastolic series always have the same length; heart-rate stats only
// cover readings that included a pulse. The status label is derived from the
// averages, not from any single reading.
func CalculateBPStats(readings []Reading) BPStats {
	stats := BPStats{Count: len(readings)}
	if len(readings) == 0 {
		return stats
	}

	systolic := make([]int, 0, len(readings))
	diastolic := make([]int, 0, len(readings))
	var heartRate []int
	for _, r := range readings {
		systolic = append(systolic, r.Systolic)
		diastolic = append(diastolic, r.Diastolic)
		if r.HeartRate != nil {
			heartRate = append(heartRate, *r.HeartRate)
		}
	}

	stats.SystolicAvg, stats.SystolicMin, stats.SystolicMax = seriesStats(systolic)
	stats.DiastolicAvg, stats.DiastolicMin, stats.DiastolicMax = seriesStats(diastolic)
	if len(heartRate) > 0 {
		stats.HeartRateAvg, stats.HeartRateMin, stats.HeartRateMax = seriesStats(heartRate)
	}

	status := classifyBPStatus(*stats.SystolicAvg, *stats.DiastolicAvg)
	stats.Status = &status
	return stats
}

// classifyBPStatus maps averaged systolic/diastolic to a severity label,
// evaluated high to low, first match wins.
func classifyBPStatus(systolicAvg, diastolicAvg int) string {
	switch {
	case systolicAvg >= 180 || diastolicAvg >= 120:
		return domain.BPStatusCrisis
	case systolicAvg >= 140 || diastolicAvg >= 90:
		return domain.BPStatusHigh
	case systolicAvg >= 130 || diastolicAvg >= 80:
		return domain.BPStatusElevated
	default:
		return domain.BPStatusNormal
	}
}

func seriesStats(values []int) (avg, min, max *int) {
	sum := 0
	lo := values[0]
	hi := values[0]
	for _, v := range values {
		sum += v
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	a := int(math.Round(float64(sum) / float64(len(values))))
	return &a, &lo, &hi
}
