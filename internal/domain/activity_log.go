package domain

import "time"

// Task types recorded by the LIFF app on activity_logs rows.
const (
	TaskBloodPressure = "blood_pressure"
	TaskMedication    = "medication"
	TaskExercise      = "exercise"
)

// ActivityLog is one raw event logged by a patient (read-only to this
// backend). Value is free text as typed in the LIFF form; Metadata carries
// the structured fields the form managed to capture, loosely typed because
// older app versions wrote different shapes.
type ActivityLog struct {
	LogID     string         `json:"log_id" db:"log_id"`       // UUID
	PatientID string         `json:"patient_id" db:"patient_id"`
	TaskType  string         `json:"task_type" db:"task_type"`
	Value     string         `json:"value" db:"value"`
	Metadata  map[string]any `json:"metadata" db:"metadata"` // JSONB, nullable
	LoggedAt  time.Time      `json:"logged_at" db:"logged_at"`
}
