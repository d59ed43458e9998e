package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
)

// PostgresSummariesRepo owns the daily_summaries table.
type PostgresSummariesRepo struct {
	db *sql.DB
}

func NewPostgresSummariesRepo(db *sql.DB) *PostgresSummariesRepo {
	return &PostgresSummariesRepo{db: db}
}

// Upsert writes one summary row keyed by (patient_id, summary_date). A
// re-run for the same date overwrites every derived column, which is what
// makes re-aggregation idempotent.
func (r *PostgresSummariesRepo) Upsert(ctx context.Context, s *domain.DailySummary) error {
	query := `
		INSERT INTO daily_summaries (
			patient_id, summary_date,
			bp_readings_count,
			systolic_avg, systolic_min, systolic_max,
			diastolic_avg, diastolic_min, diastolic_max,
			heart_rate_avg, heart_rate_min, heart_rate_max,
			bp_status,
			medications_scheduled, medications_taken, medications_missed,
			medication_compliance_percent,
			water_intake_ml, water_goal_ml, water_compliance_percent,
			activities_count, exercise_minutes,
			mood_avg, has_data, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, NOW()
		)
		ON CONFLICT (patient_id, summary_date)
		DO UPDATE SET
			bp_readings_count = EXCLUDED.bp_readings_count,
			systolic_avg = EXCLUDED.systolic_avg,
			systolic_min = EXCLUDED.systolic_min,
			systolic_max = EXCLUDED.systolic_max,
			diastolic_avg = EXCLUDED.diastolic_avg,
			diastolic_min = EXCLUDED.diastolic_min,
			diastolic_max = EXCLUDED.diastolic_max,
			heart_rate_avg = EXCLUDED.heart_rate_avg,
			heart_rate_min = EXCLUDED.heart_rate_min,
			heart_rate_max = EXCLUDED.heart_rate_max,
			bp_status = EXCLUDED.bp_status,
			medications_scheduled = EXCLUDED.medications_scheduled,
			medications_taken = EXCLUDED.medications_taken,
			medications_missed = EXCLUDED.medications_missed,
			medication_compliance_percent = EXCLUDED.medication_compliance_percent,
			water_intake_ml = EXCLUDED.water_intake_ml,
			water_goal_ml = EXCLUDED.water_goal_ml,
			water_compliance_percent = EXCLUDED.water_compliance_percent,
			activities_count = EXCLUDED.activities_count,
			exercise_minutes = EXCLUDED.exercise_minutes,
			mood_avg = EXCLUDED.mood_avg,
			has_data = EXCLUDED.has_data,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query,
		s.PatientID, s.SummaryDate,
		s.BPReadingsCount,
		nullableInt(s.SystolicAvg), nullableInt(s.SystolicMin), nullableInt(s.SystolicMax),
		nullableInt(s.DiastolicAvg), nullableInt(s.DiastolicMin), nullableInt(s.DiastolicMax),
		nullableInt(s.HeartRateAvg), nullableInt(s.HeartRateMin), nullableInt(s.HeartRateMax),
		nullableString(s.BPStatus),
		s.MedicationsScheduled, s.MedicationsTaken, s.MedicationsMissed,
		nullableFloat(s.MedicationCompliancePercent),
		s.WaterIntakeML, s.WaterGoalML, nullableFloat(s.WaterCompliancePercent),
		s.ActivitiesCount, s.ExerciseMinutes,
		nullableFloat(s.MoodAvg), s.HasData,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily summary: %w", err)
	}
	return nil
}

func (r *PostgresSummariesRepo) ListRange(ctx context.Context, patientID, from, to string) ([]*domain.DailySummary, error) {
	query := `
		SELECT
			patient_id, summary_date,
			bp_readings_count,
			systolic_avg, systolic_min, systolic_max,
			diastolic_avg, diastolic_min, diastolic_max,
			heart_rate_avg, heart_rate_min, heart_rate_max,
			bp_status,
			medications_scheduled, medications_taken, medications_missed,
			medication_compliance_percent,
			water_intake_ml, water_goal_ml, water_compliance_percent,
			activities_count, exercise_minutes,
			mood_avg, has_data, updated_at
		FROM daily_summaries
		WHERE patient_id = $1
		  AND summary_date BETWEEN $2 AND $3
		ORDER BY summary_date
	`
	rows, err := r.db.QueryContext(ctx, query, patientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.DailySummary
	for rows.Next() {
		var s domain.DailySummary
		var sysAvg, sysMin, sysMax, diaAvg, diaMin, diaMax, hrAvg, hrMin, hrMax sql.NullInt64
		var bpStatus sql.NullString
		var medCompliance, waterCompliance, moodAvg sql.NullFloat64

		if err := rows.Scan(
			&s.PatientID, &s.SummaryDate,
			&s.BPReadingsCount,
			&sysAvg, &sysMin, &sysMax,
			&diaAvg, &diaMin, &diaMax,
			&hrAvg, &hrMin, &hrMax,
			&bpStatus,
			&s.MedicationsScheduled, &s.MedicationsTaken, &s.MedicationsMissed,
			&medCompliance,
			&s.WaterIntakeML, &s.WaterGoalML, &waterCompliance,
			&s.ActivitiesCount, &s.ExerciseMinutes,
			&moodAvg, &s.HasData, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan daily summary: %w", err)
		}

		s.SystolicAvg = intPtr(sysAvg)
		s.SystolicMin = intPtr(sysMin)
		s.SystolicMax = intPtr(sysMax)
		s.DiastolicAvg = intPtr(diaAvg)
		s.DiastolicMin = intPtr(diaMin)
		s.DiastolicMax = intPtr(diaMax)
		s.HeartRateAvg = intPtr(hrAvg)
		s.HeartRateMin = intPtr(hrMin)
		s.HeartRateMax = intPtr(hrMax)
		if bpStatus.Valid {
			s.BPStatus = &bpStatus.String
		}
		s.MedicationCompliancePercent = floatPtr(medCompliance)
		s.WaterCompliancePercent = floatPtr(waterCompliance)
		s.MoodAvg = floatPtr(moodAvg)

		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily summaries: %w", err)
	}
	return summaries, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
