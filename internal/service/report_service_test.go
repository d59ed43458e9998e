package service_test

import (
	"context"
	"testing"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedSummariesRepo struct {
	rows []*domain.DailySummary
	err  error
}

func (f *fixedSummariesRepo) Upsert(context.Context, *domain.DailySummary) error { return nil }

func (f *fixedSummariesRepo) ListRange(context.Context, string, string, string) ([]*domain.DailySummary, error) {
	return f.rows, f.err
}

func day(date string, sys, dia int, medCompliance float64, water int, hasData bool) *domain.DailySummary {
	return &domain.DailySummary{
		PatientID:                   "p1",
		SummaryDate:                 date,
		BPReadingsCount:             1,
		SystolicAvg:                 &sys,
		DiastolicAvg:                &dia,
		MedicationCompliancePercent: &medCompliance,
		WaterIntakeML:               water,
		HasData:                     hasData,
	}
}

func TestRangeSummary_TotalsAndTrend(t *testing.T) {
	repo := &fixedSummariesRepo{rows: []*domain.DailySummary{
		day("2026-08-01", 120, 80, 100, 1500, true),
		day("2026-08-02", 124, 82, 50, 2000, true),
		day("2026-08-03", 130, 84, 100, 1000, true),
		day("2026-08-04", 134, 86, 50, 500, true),
	}}

	svc := service.NewReportService(repo, zap.NewNop())
	view, err := svc.RangeSummary(context.Background(), "p1", "2026-08-01", "2026-08-04")
	require.NoError(t, err)

	require.Equal(t, "p1", view.PatientID)
	require.Len(t, view.Days, 4)

	require.Equal(t, 4, view.Totals.DaysWithData)
	require.Equal(t, 4, view.Totals.TotalBPReadings)
	require.Equal(t, 127, *view.Totals.SystolicAvg) // (120+124+130+134)/4
	require.Equal(t, 83, *view.Totals.DiastolicAvg)
	require.Equal(t, 75.0, *view.Totals.MedicationComplianceAvg)
	require.Equal(t, 5000, view.Totals.TotalWaterIntakeML)

	// Second half (130,134) vs first half (120,124): +10 systolic.
	require.Equal(t, 10, *view.Trend.SystolicDelta)
	require.Equal(t, 4, *view.Trend.DiastolicDelta) // 85 - 81
	require.Equal(t, 0.0, *view.Trend.MedicationComplianceDelta)
}

func TestRangeSummary_EmptyRange(t *testing.T) {
	svc := service.NewReportService(&fixedSummariesRepo{}, zap.NewNop())
	view, err := svc.RangeSummary(context.Background(), "p1", "2026-08-01", "2026-08-31")
	require.NoError(t, err)

	require.Empty(t, view.Days)
	require.Equal(t, 0, view.Totals.DaysWithData)
	require.Nil(t, view.Totals.SystolicAvg)
	require.Nil(t, view.Totals.MedicationComplianceAvg)
	require.Nil(t, view.Trend.SystolicDelta)
}

func TestRangeSummary_SingleDayHasNoTrend(t *testing.T) {
	repo := &fixedSummariesRepo{rows: []*domain.DailySummary{
		day("2026-08-01", 120, 80, 100, 1500, true),
	}}
	svc := service.NewReportService(repo, zap.NewNop())
	view, err := svc.RangeSummary(context.Background(), "p1", "2026-08-01", "2026-08-01")
	require.NoError(t, err)

	require.Nil(t, view.Trend.SystolicDelta)
	require.Equal(t, 120, *view.Totals.SystolicAvg)
}
