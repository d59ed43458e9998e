package aggregator_test

import (
	"context"
	"sync"
	"time"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/repository"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/store"
)

// In-memory repo fakes for aggregator unit tests. Window filtering is done
// for real so boundary tests mean something.

type fakeActivityLogsRepo struct {
	logs []*domain.ActivityLog
	err  error
}

func (f *fakeActivityLogsRepo) ListByTaskType(_ context.Context, patientID, taskType string, from, to time.Time) ([]*domain.ActivityLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.ActivityLog
	for _, l := range f.logs {
		if l.PatientID == patientID && l.TaskType == taskType && inWindow(l.LoggedAt, from, to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeActivityLogsRepo) ListAll(_ context.Context, patientID string, from, to time.Time) ([]*domain.ActivityLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.ActivityLog
	for _, l := range f.logs {
		if l.PatientID == patientID && inWindow(l.LoggedAt, from, to) {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeWaterRepo struct {
	logs []*domain.WaterIntakeLog
	goal *domain.WaterIntakeGoal
	err  error
}

func (f *fakeWaterRepo) ListIntake(_ context.Context, patientID string, from, to time.Time) ([]*domain.WaterIntakeLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.WaterIntakeLog
	for _, l := range f.logs {
		if l.PatientID == patientID && inWindow(l.LoggedAt, from, to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeWaterRepo) GetGoal(_ context.Context, patientID string) (*domain.WaterIntakeGoal, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.goal == nil || f.goal.PatientID != patientID {
		return nil, repository.ErrNotFound
	}
	return f.goal, nil
}

type fakeMedicationsRepo struct {
	schedules []*domain.MedicationSchedule
	err       error
}

func (f *fakeMedicationsRepo) ListActive(_ context.Context, patientID string) ([]*domain.MedicationSchedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.MedicationSchedule
	for _, s := range f.schedules {
		if s.PatientID == patientID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeSummariesRepo struct {
	mu      sync.Mutex
	rows    map[string]*domain.DailySummary // keyed patient_id|summary_date
	upserts int
	err     error
}

func newFakeSummariesRepo() *fakeSummariesRepo {
	return &fakeSummariesRepo{rows: make(map[string]*domain.DailySummary)}
}

func (f *fakeSummariesRepo) Upsert(_ context.Context, s *domain.DailySummary) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	copied := *s
	f.rows[s.PatientID+"|"+s.SummaryDate] = &copied
	return nil
}

func (f *fakeSummariesRepo) ListRange(_ context.Context, patientID, from, to string) ([]*domain.DailySummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.DailySummary
	for _, s := range f.rows {
		if s.PatientID == patientID && s.SummaryDate >= from && s.SummaryDate <= to {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSummariesRepo) get(patientID, date string) *domain.DailySummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[patientID+"|"+date]
}

type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
