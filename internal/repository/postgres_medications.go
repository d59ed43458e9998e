package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
)

// PostgresMedicationSchedulesRepo reads patient_medication_schedules.
type PostgresMedicationSchedulesRepo struct {
	db *sql.DB
}

func NewPostgresMedicationSchedulesRepo(db *sql.DB) *PostgresMedicationSchedulesRepo {
	return &PostgresMedicationSchedulesRepo{db: db}
}

func (r *PostgresMedicationSchedulesRepo) ListActive(ctx context.Context, patientID string) ([]*domain.MedicationSchedule, error) {
	query := `
		SELECT schedule_id, patient_id, medication_name, times, frequency_type, days_of_week, is_active
		FROM patient_medication_schedules
		WHERE patient_id = $1
		  AND is_active = TRUE
	`
	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query medication schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*domain.MedicationSchedule
	for rows.Next() {
		var s domain.MedicationSchedule
		var name sql.NullString
		var times, daysOfWeek []byte

		if err := rows.Scan(&s.ScheduleID, &s.PatientID, &name, &times, &s.FrequencyType, &daysOfWeek, &s.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan medication schedule: %w", err)
		}
		if name.Valid {
			s.MedicationName = name.String
		}
		s.Times = times
		s.DaysOfWeek = daysOfWeek
		schedules = append(schedules, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate medication schedules: %w", err)
	}
	return schedules, nil
}
