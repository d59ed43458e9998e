package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
)

// PostgresPatientsRepo reads patients and patient_caregivers.
type PostgresPatientsRepo struct {
	db *sql.DB
}

func NewPostgresPatientsRepo(db *sql.DB) *PostgresPatientsRepo {
	return &PostgresPatientsRepo{db: db}
}

func (r *PostgresPatientsRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT patient_id FROM patients ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan patient id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patients: %w", err)
	}
	return ids, nil
}

func (r *PostgresPatientsRepo) GetByLineUserID(ctx context.Context, lineUserID string) (*domain.Patient, error) {
	query := `
		SELECT patient_id, line_user_id, display_name, created_at
		FROM patients
		WHERE line_user_id = $1
	`
	var p domain.Patient
	err := r.db.QueryRowContext(ctx, query, lineUserID).Scan(&p.PatientID, &p.LineUserID, &p.DisplayName, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}
	return &p, nil
}

func (r *PostgresPatientsRepo) GetByID(ctx context.Context, patientID string) (*domain.Patient, error) {
	query := `
		SELECT patient_id, line_user_id, display_name, created_at
		FROM patients
		WHERE patient_id = $1
	`
	var p domain.Patient
	err := r.db.QueryRowContext(ctx, query, patientID).Scan(&p.PatientID, &p.LineUserID, &p.DisplayName, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}
	return &p, nil
}

// ListAuthorized returns the caller's own patient row (if any) plus every
// patient with an active caregiver link to the caller.
func (r *PostgresPatientsRepo) ListAuthorized(ctx context.Context, lineUserID string) ([]*domain.Patient, error) {
	query := `
		SELECT DISTINCT p.patient_id, p.line_user_id, p.display_name, p.created_at
		FROM patients p
		LEFT JOIN patient_caregivers pc
		       ON pc.patient_id = p.patient_id
		      AND pc.caregiver_line_id = $1
		      AND pc.status = 'active'
		WHERE p.line_user_id = $1
		   OR pc.caregiver_line_id IS NOT NULL
		ORDER BY p.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, lineUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query authorized patients: %w", err)
	}
	defer rows.Close()

	var patients []*domain.Patient
	for rows.Next() {
		var p domain.Patient
		if err := rows.Scan(&p.PatientID, &p.LineUserID, &p.DisplayName, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate authorized patients: %w", err)
	}
	return patients, nil
}

func (r *PostgresPatientsRepo) IsAuthorized(ctx context.Context, lineUserID, patientID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM patients
			WHERE patient_id = $2 AND line_user_id = $1
		) OR EXISTS (
			SELECT 1 FROM patient_caregivers
			WHERE patient_id = $2 AND caregiver_line_id = $1 AND status = 'active'
		)
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, lineUserID, patientID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check patient authorization: %w", err)
	}
	return ok, nil
}
