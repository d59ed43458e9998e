package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
)

// PostgresWaterRepo reads water_intake_logs and water_intake_goals.
type PostgresWaterRepo struct {
	db *sql.DB
}

func NewPostgresWaterRepo(db *sql.DB) *PostgresWaterRepo {
	return &PostgresWaterRepo{db: db}
}

func (r *PostgresWaterRepo) ListIntake(ctx context.Context, patientID string, from, to time.Time) ([]*domain.WaterIntakeLog, error) {
	query := `
		SELECT log_id, patient_id, amount_ml, logged_at
		FROM water_intake_logs
		WHERE patient_id = $1
		  AND logged_at BETWEEN $2 AND $3
		ORDER BY logged_at
	`
	rows, err := r.db.QueryContext(ctx, query, patientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query water intake logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.WaterIntakeLog
	for rows.Next() {
		var l domain.WaterIntakeLog
		if err := rows.Scan(&l.LogID, &l.PatientID, &l.AmountML, &l.LoggedAt); err != nil {
			return nil, fmt.Errorf("failed to scan water intake log: %w", err)
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate water intake logs: %w", err)
	}
	return logs, nil
}

func (r *PostgresWaterRepo) GetGoal(ctx context.Context, patientID string) (*domain.WaterIntakeGoal, error) {
	query := `
		SELECT patient_id, daily_goal_ml
		FROM water_intake_goals
		WHERE patient_id = $1
		  AND is_active = TRUE
		LIMIT 1
	`
	var g domain.WaterIntakeGoal
	err := r.db.QueryRowContext(ctx, query, patientID).Scan(&g.PatientID, &g.DailyGoalML)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query water goal: %w", err)
	}
	return &g, nil
}
