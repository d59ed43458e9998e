package domain

import "time"

// DefaultWaterGoalML is used when a patient has no active goal row.
const DefaultWaterGoalML = 2000

// WaterIntakeLog is one glass/bottle logged by a patient. Many rows per day;
// the aggregator sums them.
type WaterIntakeLog struct {
	LogID     string    `json:"log_id" db:"log_id"` // UUID
	PatientID string    `json:"patient_id" db:"patient_id"`
	AmountML  int       `json:"amount_ml" db:"amount_ml"`
	LoggedAt  time.Time `json:"logged_at" db:"logged_at"`
}

// WaterIntakeGoal is the single active daily goal for a patient.
type WaterIntakeGoal struct {
	PatientID   string `json:"patient_id" db:"patient_id"`
	DailyGoalML int    `json:"daily_goal_ml" db:"daily_goal_ml"`
}
