package domain

import "encoding/json"

// Medication schedule frequency types. Anything else is treated as daily
// when computing expected doses (matches the LIFF app's behavior).
const (
	FrequencyDaily        = "daily"
	FrequencySpecificDays = "specific_days"
)

// MedicationSchedule describes when a patient is expected to take a
// medication. Read-only to this backend; only used to compute how many doses
// were expected on the target day.
//
// Times is a JSONB array of times-of-day (["08:00","20:00"]); older rows may
// hold a scalar, which counts as one dose. DaysOfWeek is either a JSON array
// of lowercase day names or an object keyed by day name, depending on which
// app version wrote the row.
type MedicationSchedule struct {
	ScheduleID     string          `json:"schedule_id" db:"schedule_id"` // UUID
	PatientID      string          `json:"patient_id" db:"patient_id"`
	MedicationName string          `json:"medication_name" db:"medication_name"`
	Times          json.RawMessage `json:"times" db:"times"` // JSONB
	FrequencyType  string          `json:"frequency_type" db:"frequency_type"`
	DaysOfWeek     json.RawMessage `json:"days_of_week" db:"days_of_week"` // JSONB, nullable
	IsActive       bool            `json:"is_active" db:"is_active"`
}
