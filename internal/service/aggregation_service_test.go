package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/aggregator"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/repository"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPatientsRepo struct {
	ids     []string
	listErr error
}

func (s *stubPatientsRepo) ListIDs(context.Context) ([]string, error) {
	return s.ids, s.listErr
}
func (s *stubPatientsRepo) GetByLineUserID(context.Context, string) (*domain.Patient, error) {
	return nil, repository.ErrNotFound
}
func (s *stubPatientsRepo) GetByID(context.Context, string) (*domain.Patient, error) {
	return nil, repository.ErrNotFound
}
func (s *stubPatientsRepo) ListAuthorized(context.Context, string) ([]*domain.Patient, error) {
	return nil, nil
}
func (s *stubPatientsRepo) IsAuthorized(context.Context, string, string) (bool, error) {
	return false, nil
}

// stubActivityLogs fails for the patients listed in failFor, succeeds
// (empty) for everyone else.
type stubActivityLogs struct {
	failFor map[string]error
}

func (s *stubActivityLogs) ListByTaskType(_ context.Context, patientID, _ string, _, _ time.Time) ([]*domain.ActivityLog, error) {
	if err, ok := s.failFor[patientID]; ok {
		return nil, err
	}
	return nil, nil
}

func (s *stubActivityLogs) ListAll(_ context.Context, patientID string, _, _ time.Time) ([]*domain.ActivityLog, error) {
	if err, ok := s.failFor[patientID]; ok {
		return nil, err
	}
	return nil, nil
}

type stubWaterRepo struct{}

func (stubWaterRepo) ListIntake(context.Context, string, time.Time, time.Time) ([]*domain.WaterIntakeLog, error) {
	return nil, nil
}
func (stubWaterRepo) GetGoal(context.Context, string) (*domain.WaterIntakeGoal, error) {
	return nil, repository.ErrNotFound
}

type stubMedsRepo struct{}

func (stubMedsRepo) ListActive(context.Context, string) ([]*domain.MedicationSchedule, error) {
	return nil, nil
}

type recordingSummariesRepo struct {
	mu       sync.Mutex
	upserted []string
}

func (r *recordingSummariesRepo) Upsert(_ context.Context, s *domain.DailySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserted = append(r.upserted, s.PatientID)
	return nil
}

func (r *recordingSummariesRepo) ListRange(context.Context, string, string, string) ([]*domain.DailySummary, error) {
	return nil, nil
}

func newBatchService(patients *stubPatientsRepo, logs *stubActivityLogs, summaries *recordingSummariesRepo) *service.AggregationService {
	agg := aggregator.NewDailyAggregator(
		logs,
		stubWaterRepo{},
		stubMedsRepo{},
		summaries,
		nil, // no cache in tests
		aggregator.Location(25200),
		time.Hour,
		zap.NewNop(),
	)
	return service.NewAggregationService(patients, agg, zap.NewNop())
}

func TestRun_PartialFailureDoesNotAbortBatch(t *testing.T) {
	boom := errors.New("connection reset")
	patients := &stubPatientsRepo{ids: []string{"patient-a", "patient-b", "patient-c"}}
	logs := &stubActivityLogs{failFor: map[string]error{"patient-b": boom}}
	summaries := &recordingSummariesRepo{}

	svc := newBatchService(patients, logs, summaries)
	result, err := svc.Run(context.Background(), "2026-08-20")
	require.NoError(t, err)

	require.Equal(t, "2026-08-20", result.Date)
	require.Equal(t, 2, result.Processed)
	require.Equal(t, 1, result.Errors)
	require.Contains(t, result.ErrorDetails, "patient-b")
	require.Contains(t, result.ErrorDetails["patient-b"], "connection reset")

	require.ElementsMatch(t, []string{"patient-a", "patient-c"}, summaries.upserted)
}

func TestRun_AllPatientsSucceed(t *testing.T) {
	patients := &stubPatientsRepo{ids: []string{"p1", "p2"}}
	summaries := &recordingSummariesRepo{}

	svc := newBatchService(patients, &stubActivityLogs{}, summaries)
	result, err := svc.Run(context.Background(), "2026-08-20")
	require.NoError(t, err)

	require.Equal(t, 2, result.Processed)
	require.Equal(t, 0, result.Errors)
	require.Empty(t, result.ErrorDetails)
}

func TestRun_PatientListFailureIsFatal(t *testing.T) {
	patients := &stubPatientsRepo{listErr: errors.New("database down")}
	svc := newBatchService(patients, &stubActivityLogs{}, &recordingSummariesRepo{})

	_, err := svc.Run(context.Background(), "2026-08-20")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to list patients")
}
