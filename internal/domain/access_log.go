package domain

import "time"

// Report access kinds recorded in the audit trail and used as rate-limit
// buckets.
const (
	AccessView       = "view"
	AccessExportCSV  = "export_csv"
	AccessExportPDF  = "export_pdf"
	AccessExportXLSX = "export_xlsx"
)

// ReportAccessLog is one audit row per authorized report request. Written
// before the data is returned; this is an audit trail, not a cache.
type ReportAccessLog struct {
	AccessID     string    `json:"access_id" db:"access_id"` // UUID
	PatientID    string    `json:"patient_id" db:"patient_id"`
	CallerLineID string    `json:"caller_line_id" db:"caller_line_id"`
	Kind         string    `json:"kind" db:"kind"`
	FromDate     string    `json:"from_date" db:"from_date"` // YYYY-MM-DD
	ToDate       string    `json:"to_date" db:"to_date"`     // YYYY-MM-DD
	AccessedAt   time.Time `json:"accessed_at" db:"accessed_at"`
}
