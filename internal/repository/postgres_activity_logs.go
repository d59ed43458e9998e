package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"

	"go.uber.org/zap"
)

// PostgresActivityLogsRepo reads the activity_logs table.
type PostgresActivityLogsRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresActivityLogsRepo(db *sql.DB, logger *zap.Logger) *PostgresActivityLogsRepo {
	return &PostgresActivityLogsRepo{db: db, logger: logger}
}

const activityLogColumns = `log_id, patient_id, task_type, value, metadata, logged_at`

func (r *PostgresActivityLogsRepo) ListByTaskType(ctx context.Context, patientID, taskType string, from, to time.Time) ([]*domain.ActivityLog, error) {
	query := `
		SELECT ` + activityLogColumns + `
		FROM activity_logs
		WHERE patient_id = $1
		  AND task_type = $2
		  AND logged_at BETWEEN $3 AND $4
		ORDER BY logged_at
	`
	rows, err := r.db.QueryContext(ctx, query, patientID, taskType, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	return r.scanLogs(rows)
}

func (r *PostgresActivityLogsRepo) ListAll(ctx context.Context, patientID string, from, to time.Time) ([]*domain.ActivityLog, error) {
	query := `
		SELECT ` + activityLogColumns + `
		FROM activity_logs
		WHERE patient_id = $1
		  AND logged_at BETWEEN $2 AND $3
		ORDER BY logged_at
	`
	rows, err := r.db.QueryContext(ctx, query, patientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	return r.scanLogs(rows)
}

func (r *PostgresActivityLogsRepo) scanLogs(rows *sql.Rows) ([]*domain.ActivityLog, error) {
	var logs []*domain.ActivityLog
	for rows.Next() {
		var l domain.ActivityLog
		var value sql.NullString
		var metadata []byte

		if err := rows.Scan(&l.LogID, &l.PatientID, &l.TaskType, &value, &metadata, &l.LoggedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		if value.Valid {
			l.Value = value.String
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &l.Metadata); err != nil {
				// Bad metadata should not sink the whole window; the parser
				// falls back to the value text.
				r.logger.Warn("Skipping malformed activity log metadata",
					zap.String("log_id", l.LogID),
					zap.Error(err),
				)
				l.Metadata = nil
			}
		}
		logs = append(logs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity logs: %w", err)
	}
	return logs, nil
}
