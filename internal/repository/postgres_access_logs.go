package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
)

// PostgresAccessLogsRepo owns the report_access_logs audit table.
type PostgresAccessLogsRepo struct {
	db *sql.DB
}

func NewPostgresAccessLogsRepo(db *sql.DB) *PostgresAccessLogsRepo {
	return &PostgresAccessLogsRepo{db: db}
}

func (r *PostgresAccessLogsRepo) Insert(ctx context.Context, l *domain.ReportAccessLog) error {
	query := `
		INSERT INTO report_access_logs (
			access_id, patient_id, caller_line_id, kind, from_date, to_date, accessed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		l.AccessID, l.PatientID, l.CallerLineID, l.Kind, l.FromDate, l.ToDate, l.AccessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert report access log: %w", err)
	}
	return nil
}
