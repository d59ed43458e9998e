package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
)

// ErrNotFound is returned by single-row lookups when no row matches.
var ErrNotFound = errors.New("not found")

// ActivityLogsRepository reads raw event logs (read-only tables owned by the
// LIFF app).
type ActivityLogsRepository interface {
	// ListByTaskType returns the patient's logs of one task type within
	// [from, to], ordered by logged_at.
	ListByTaskType(ctx context.Context, patientID, taskType string, from, to time.Time) ([]*domain.ActivityLog, error)

	// ListAll returns every activity log for the patient within [from, to],
	// regardless of task type.
	ListAll(ctx context.Context, patientID string, from, to time.Time) ([]*domain.ActivityLog, error)
}

// WaterRepository reads water intake logs and the active daily goal.
type WaterRepository interface {
	ListIntake(ctx context.Context, patientID string, from, to time.Time) ([]*domain.WaterIntakeLog, error)

	// GetGoal returns the patient's active goal, or ErrNotFound when none is
	// configured (callers fall back to domain.DefaultWaterGoalML).
	GetGoal(ctx context.Context, patientID string) (*domain.WaterIntakeGoal, error)
}

// MedicationSchedulesRepository reads active medication schedules.
type MedicationSchedulesRepository interface {
	ListActive(ctx context.Context, patientID string) ([]*domain.MedicationSchedule, error)
}

// PatientsRepository reads patients and caregiver links.
type PatientsRepository interface {
	// ListIDs returns every patient id, for the daily batch.
	ListIDs(ctx context.Context) ([]string, error)

	// GetByLineUserID resolves a LINE user to their own patient row, or
	// ErrNotFound when the caller is not a patient.
	GetByLineUserID(ctx context.Context, lineUserID string) (*domain.Patient, error)

	// GetByID returns one patient, or ErrNotFound.
	GetByID(ctx context.Context, patientID string) (*domain.Patient, error)

	// ListAuthorized returns every patient the LINE user may view: their own
	// patient row plus patients linked through an active caregiver row.
	ListAuthorized(ctx context.Context, lineUserID string) ([]*domain.Patient, error)

	// IsAuthorized reports whether the LINE user may view the patient.
	IsAuthorized(ctx context.Context, lineUserID, patientID string) (bool, error)
}

// SummariesRepository owns the daily_summaries table.
type SummariesRepository interface {
	// Upsert writes the summary row for (patient_id, summary_date),
	// overwriting any prior row for the same day.
	Upsert(ctx context.Context, s *domain.DailySummary) error

	// ListRange returns summaries for [from, to] (YYYY-MM-DD, inclusive),
	// ordered by summary_date ascending. Days with no row are simply absent.
	ListRange(ctx context.Context, patientID, from, to string) ([]*domain.DailySummary, error)
}

// AccessLogsRepository owns the report_access_logs audit table.
type AccessLogsRepository interface {
	Insert(ctx context.Context, l *domain.ReportAccessLog) error
}
