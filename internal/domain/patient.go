package domain

import "time"

// Patient is the subject of all tracked health data. Each patient is bound to
// exactly one LINE account (the patient logs data through the LIFF app).
type Patient struct {
	PatientID   string    `json:"patient_id" db:"patient_id"`     // UUID, PRIMARY KEY
	LineUserID  string    `json:"line_user_id" db:"line_user_id"` // LINE platform user id, UNIQUE
	DisplayName string    `json:"display_name" db:"display_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PatientCaregiver links a caregiver's LINE account to a patient it may view.
// Rows are managed by the LIFF app; the report service only reads them for
// authorization.
type PatientCaregiver struct {
	PatientID       string `db:"patient_id"`
	CaregiverLineID string `db:"caregiver_line_id"`
	Status          string `db:"status"` // "active" | "revoked"
}
