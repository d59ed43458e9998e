package aggregator

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/repository"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DailyAggregator computes one DailySummary per patient per day from the raw
// log tables. All dependencies are injected so tests can run it against
// memory fakes.
type DailyAggregator struct {
	activityLogs repository.ActivityLogsRepository
	water        repository.WaterRepository
	medications  repository.MedicationSchedulesRepository
	summaries    repository.SummariesRepository
	kv           store.KV
	loc          *time.Location
	goalCacheTTL time.Duration
	logger       *zap.Logger
}

func NewDailyAggregator(
	activityLogs repository.ActivityLogsRepository,
	water repository.WaterRepository,
	medications repository.MedicationSchedulesRepository,
	summaries repository.SummariesRepository,
	kv store.KV,
	loc *time.Location,
	goalCacheTTL time.Duration,
	logger *zap.Logger,
) *DailyAggregator {
	return &DailyAggregator{
		activityLogs: activityLogs,
		water:        water,
		medications:  medications,
		summaries:    summaries,
		kv:           kv,
		loc:          loc,
		goalCacheTTL: goalCacheTTL,
		logger:       logger,
	}
}

// AggregatePatient builds and persists the summary row for one patient and
// one calendar date (YYYY-MM-DD). The six source fetches are independent and
// issued concurrently; any fetch failure fails the whole patient.
func (a *DailyAggregator) AggregatePatient(ctx context.Context, patientID, date string) (*domain.DailySummary, error) {
	start, end, err := DayWindow(date, a.loc)
	if err != nil {
		return nil, err
	}

	var (
		bpLogs    []*domain.ActivityLog
		waterLogs []*domain.WaterIntakeLog
		waterGoal int
		schedules []*domain.MedicationSchedule
		medLogs   []*domain.ActivityLog
		allLogs   []*domain.ActivityLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bpLogs, err = a.activityLogs.ListByTaskType(gctx, patientID, domain.TaskBloodPressure, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		waterLogs, err = a.water.ListIntake(gctx, patientID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		waterGoal, err = a.fetchWaterGoal(gctx, patientID)
		return err
	})
	g.Go(func() error {
		var err error
		schedules, err = a.medications.ListActive(gctx, patientID)
		return err
	})
	g.Go(func() error {
		var err error
		medLogs, err = a.activityLogs.ListByTaskType(gctx, patientID, domain.TaskMedication, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		allLogs, err = a.activityLogs.ListAll(gctx, patientID, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch data for patient %s: %w", patientID, err)
	}

	summary := a.buildSummary(patientID, date, start, bpLogs, waterLogs, waterGoal, schedules, medLogs, allLogs)

	if err := a.summaries.Upsert(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to persist summary for patient %s: %w", patientID, err)
	}

	a.logger.Debug("Aggregated patient day",
		zap.String("patient_id", patientID),
		zap.String("date", date),
		zap.Int("bp_readings", summary.BPReadingsCount),
		zap.Int("activities", summary.ActivitiesCount),
		zap.Bool("has_data", summary.HasData),
	)
	return summary, nil
}

func (a *DailyAggregator) buildSummary(
	patientID, date string,
	day time.Time,
	bpLogs []*domain.ActivityLog,
	waterLogs []*domain.WaterIntakeLog,
	waterGoal int,
	schedules []*domain.MedicationSchedule,
	medLogs []*domain.ActivityLog,
	allLogs []*domain.ActivityLog,
) *domain.DailySummary {
	s := &domain.DailySummary{
		PatientID:   patientID,
		SummaryDate: date,
	}

	// Blood pressure: unparseable rows are skipped, not errors.
	var readings []Reading
	for _, log := range bpLogs {
		if r, ok := ParseReading(log); ok {
			readings = append(readings, r)
		} else {
			a.logger.Debug("Skipping unparseable BP log",
				zap.String("log_id", log.LogID),
				zap.String("value", log.Value),
			)
		}
	}
	stats := CalculateBPStats(readings)
	s.BPReadingsCount = stats.Count
	s.SystolicAvg, s.SystolicMin, s.SystolicMax = stats.SystolicAvg, stats.SystolicMin, stats.SystolicMax
	s.DiastolicAvg, s.DiastolicMin, s.DiastolicMax = stats.DiastolicAvg, stats.DiastolicMin, stats.DiastolicMax
	s.HeartRateAvg, s.HeartRateMin, s.HeartRateMax = stats.HeartRateAvg, stats.HeartRateMin, stats.HeartRateMax
	s.BPStatus = stats.Status

	// Medication: one log = one dose taken, no slot matching.
	s.MedicationsScheduled = ExpectedDoses(schedules, day)
	s.MedicationsTaken = len(medLogs)
	s.MedicationsMissed = s.MedicationsScheduled - s.MedicationsTaken
	if s.MedicationsMissed < 0 {
		s.MedicationsMissed = 0
	}
	s.MedicationCompliancePercent = compliancePercent(s.MedicationsTaken, s.MedicationsScheduled)

	// Water
	for _, w := range waterLogs {
		s.WaterIntakeML += w.AmountML
	}
	s.WaterGoalML = waterGoal
	s.WaterCompliancePercent = compliancePercent(s.WaterIntakeML, s.WaterGoalML)

	// Activities: every logged action counts, including BP and medication
	// rows; exercise minutes come from metadata with a 30-minute default.
	s.ActivitiesCount = len(allLogs)
	for _, log := range allLogs {
		if log.TaskType != domain.TaskExercise {
			continue
		}
		minutes := 30
		if m, ok := numericField(log.Metadata, "duration_minutes"); ok {
			minutes = m
		} else if m, ok := numericField(log.Metadata, "minutes"); ok {
			minutes = m
		}
		s.ExerciseMinutes += minutes
	}

	s.HasData = s.BPReadingsCount > 0 || s.WaterIntakeML > 0 || s.MedicationsTaken > 0 || s.ActivitiesCount > 0
	return s
}

// fetchWaterGoal reads the patient's goal through the KV cache with DB
// fallback. Cache trouble never fails the aggregation.
func (a *DailyAggregator) fetchWaterGoal(ctx context.Context, patientID string) (int, error) {
	key := "water-goal:" + patientID

	if a.kv != nil {
		if val, err := a.kv.Get(ctx, key); err == nil {
			if goal, convErr := strconv.Atoi(val); convErr == nil {
				return goal, nil
			}
		} else if err != store.ErrMiss {
			a.logger.Debug("Water goal cache read failed",
				zap.String("patient_id", patientID),
				zap.Error(err),
			)
		}
	}

	goal := domain.DefaultWaterGoalML
	g, err := a.water.GetGoal(ctx, patientID)
	if err != nil && err != repository.ErrNotFound {
		return 0, err
	}
	if err == nil {
		goal = g.DailyGoalML
	}

	if a.kv != nil {
		if err := a.kv.Set(ctx, key, strconv.Itoa(goal), a.goalCacheTTL); err != nil {
			a.logger.Debug("Water goal cache write failed",
				zap.String("patient_id", patientID),
				zap.Error(err),
			)
		}
	}
	return goal, nil
}

// compliancePercent is round(actual/expected*100, 2), or nil when there is
// nothing expected.
func compliancePercent(actual, expected int) *float64 {
	if expected <= 0 {
		return nil
	}
	p := math.Round(float64(actual)/float64(expected)*100*100) / 100
	return &p
}
