package domain

import "time"

// Blood pressure status labels derived from the day's averaged readings.
const (
	BPStatusNormal   = "normal"
	BPStatusElevated = "elevated"
	BPStatusHigh     = "high"
	BPStatusCrisis   = "crisis"
)

// DailySummary is the derived per-patient per-day aggregate the report
// service reads instead of scanning raw logs.
//
// Grain: (patient_id, summary_date). Rebuilding a day overwrites the row
// (upsert), so re-running the aggregator for the same date is idempotent.
// Pointer fields are NULL when the day had no underlying data for them.
type DailySummary struct {
	PatientID   string `json:"patient_id" db:"patient_id"`
	SummaryDate string `json:"summary_date" db:"summary_date"` // YYYY-MM-DD

	// Blood pressure
	BPReadingsCount int     `json:"bp_readings_count" db:"bp_readings_count"`
	SystolicAvg     *int    `json:"systolic_avg" db:"systolic_avg"`
	SystolicMin     *int    `json:"systolic_min" db:"systolic_min"`
	SystolicMax     *int    `json:"systolic_max" db:"systolic_max"`
	DiastolicAvg    *int    `json:"diastolic_avg" db:"diastolic_avg"`
	DiastolicMin    *int    `json:"diastolic_min" db:"diastolic_min"`
	DiastolicMax    *int    `json:"diastolic_max" db:"diastolic_max"`
	HeartRateAvg    *int    `json:"heart_rate_avg" db:"heart_rate_avg"`
	HeartRateMin    *int    `json:"heart_rate_min" db:"heart_rate_min"`
	HeartRateMax    *int    `json:"heart_rate_max" db:"heart_rate_max"`
	BPStatus        *string `json:"bp_status" db:"bp_status"`

	// Medication
	MedicationsScheduled        int      `json:"medications_scheduled" db:"medications_scheduled"`
	MedicationsTaken            int      `json:"medications_taken" db:"medications_taken"`
	MedicationsMissed           int      `json:"medications_missed" db:"medications_missed"`
	MedicationCompliancePercent *float64 `json:"medication_compliance_percent" db:"medication_compliance_percent"`

	// Water
	WaterIntakeML          int      `json:"water_intake_ml" db:"water_intake_ml"`
	WaterGoalML            int      `json:"water_goal_ml" db:"water_goal_ml"`
	WaterCompliancePercent *float64 `json:"water_compliance_percent" db:"water_compliance_percent"`

	// Activity
	ActivitiesCount int `json:"activities_count" db:"activities_count"`
	ExerciseMinutes int `json:"exercise_minutes" db:"exercise_minutes"`

	// Reserved: mood tracking aggregates ship with the mood diary feature.
	MoodAvg *float64 `json:"mood_avg" db:"mood_avg"`

	// HasData lets the UI tell "no data logged" apart from "zero compliance".
	HasData bool `json:"has_data" db:"has_data"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
