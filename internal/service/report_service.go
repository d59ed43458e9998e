package service

import (
	"context"
	"fmt"
	"math"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/repository"

	"go.uber.org/zap"
)

// PeriodTotals are the range-wide aggregates rendered above the charts.
// Averages are taken over days that actually have the underlying data.
type PeriodTotals struct {
	DaysWithData            int      `json:"days_with_data"`
	TotalBPReadings         int      `json:"total_bp_readings"`
	SystolicAvg             *int     `json:"systolic_avg"`
	DiastolicAvg            *int     `json:"diastolic_avg"`
	HeartRateAvg            *int     `json:"heart_rate_avg"`
	MedicationComplianceAvg *float64 `json:"medication_compliance_avg"`
	WaterComplianceAvg      *float64 `json:"water_compliance_avg"`
	TotalWaterIntakeML      int      `json:"total_water_intake_ml"`
	TotalExerciseMinutes    int      `json:"total_exercise_minutes"`
}

// Trend compares the second half of the range against the first half
// (positive systolic delta = pressure rising).
type Trend struct {
	SystolicDelta             *int     `json:"systolic_delta"`
	DiastolicDelta            *int     `json:"diastolic_delta"`
	MedicationComplianceDelta *float64 `json:"medication_compliance_delta"`
	WaterComplianceDelta      *float64 `json:"water_compliance_delta"`
}

// ReportView is the assembled range report served by /summary and fed to
// the CSV/PDF/XLSX exporters.
type ReportView struct {
	PatientID string                 `json:"patient_id"`
	From      string                 `json:"from"`
	To        string                 `json:"to"`
	Days      []*domain.DailySummary `json:"days"`
	Totals    PeriodTotals           `json:"totals"`
	Trend     Trend                  `json:"trend"`
}

// ReportService assembles range views from pre-aggregated daily summaries.
type ReportService struct {
	summaries repository.SummariesRepository
	logger    *zap.Logger
}

func NewReportService(summaries repository.SummariesRepository, logger *zap.Logger) *ReportService {
	return &ReportService{summaries: summaries, logger: logger}
}

// RangeSummary loads the summaries spanning [from, to] and derives the
// period totals and trend deltas. Days the aggregator has not (yet) written
// are simply absent from Days.
func (s *ReportService) RangeSummary(ctx context.Context, patientID, from, to string) (*ReportView, error) {
	days, err := s.summaries.ListRange(ctx, patientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load summaries: %w", err)
	}

	view := &ReportView{
		PatientID: patientID,
		From:      from,
		To:        to,
		Days:      days,
	}
	view.Totals = computeTotals(days)
	view.Trend = computeTrend(days)
	return view, nil
}

func computeTotals(days []*domain.DailySummary) PeriodTotals {
	t := PeriodTotals{}
	var sysSum, sysN, diaSum, diaN, hrSum, hrN int
	var medSum float64
	var medN int
	var waterSum float64
	var waterN int

	for _, d := range days {
		if d.HasData {
			t.DaysWithData++
		}
		t.TotalBPReadings += d.BPReadingsCount
		t.TotalWaterIntakeML += d.WaterIntakeML
		t.TotalExerciseMinutes += d.ExerciseMinutes

		if d.SystolicAvg != nil {
			sysSum += *d.SystolicAvg
			sysN++
		}
		if d.DiastolicAvg != nil {
			diaSum += *d.DiastolicAvg
			diaN++
		}
		if d.HeartRateAvg != nil {
			hrSum += *d.HeartRateAvg
			hrN++
		}
		if d.MedicationCompliancePercent != nil {
			medSum += *d.MedicationCompliancePercent
			medN++
		}
		if d.WaterCompliancePercent != nil {
			waterSum += *d.WaterCompliancePercent
			waterN++
		}
	}

	t.SystolicAvg = intAvg(sysSum, sysN)
	t.DiastolicAvg = intAvg(diaSum, diaN)
	t.HeartRateAvg = intAvg(hrSum, hrN)
	t.MedicationComplianceAvg = floatAvg(medSum, medN)
	t.WaterComplianceAvg = floatAvg(waterSum, waterN)
	return t
}

func computeTrend(days []*domain.DailySummary) Trend {
	if len(days) < 2 {
		return Trend{}
	}
	mid := len(days) / 2
	first := computeTotals(days[:mid])
	second := computeTotals(days[mid:])

	return Trend{
		SystolicDelta:             intDelta(second.SystolicAvg, first.SystolicAvg),
		DiastolicDelta:            intDelta(second.DiastolicAvg, first.DiastolicAvg),
		MedicationComplianceDelta: floatDelta(second.MedicationComplianceAvg, first.MedicationComplianceAvg),
		WaterComplianceDelta:      floatDelta(second.WaterComplianceAvg, first.WaterComplianceAvg),
	}
}

func intAvg(sum, n int) *int {
	if n == 0 {
		return nil
	}
	v := int(math.Round(float64(sum) / float64(n)))
	return &v
}

func floatAvg(sum float64, n int) *float64 {
	if n == 0 {
		return nil
	}
	v := math.Round(sum/float64(n)*100) / 100
	return &v
}

func intDelta(second, first *int) *int {
	if second == nil || first == nil {
		return nil
	}
	v := *second - *first
	return &v
}

func floatDelta(second, first *float64) *float64 {
	if second == nil || first == nil {
		return nil
	}
	v := math.Round((*second-*first)*100) / 100
	return &v
}
