package service

import (
	"context"
	"fmt"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/aggregator"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/repository"

	"go.uber.org/zap"
)

// RunResult reports one daily aggregation invocation. Per-patient failures
// are collected, not propagated; the run itself only fails when the patient
// list cannot be fetched at all.
type RunResult struct {
	Date         string            `json:"date"`
	Processed    int               `json:"processed"`
	Errors       int               `json:"errors"`
	ErrorDetails map[string]string `json:"errorDetails,omitempty"`
}

// AggregationService runs the daily batch over all patients.
type AggregationService struct {
	patients   repository.PatientsRepository
	aggregator *aggregator.DailyAggregator
	logger     *zap.Logger
}

func NewAggregationService(
	patients repository.PatientsRepository,
	agg *aggregator.DailyAggregator,
	logger *zap.Logger,
) *AggregationService {
	return &AggregationService{
		patients:   patients,
		aggregator: agg,
		logger:     logger,
	}
}

// Run aggregates every patient for the target date (YYYY-MM-DD). One
// patient's bad data never blocks the rest of the batch; re-running the same
// date overwrites the same rows.
func (s *AggregationService) Run(ctx context.Context, date string) (*RunResult, error) {
	patientIDs, err := s.patients.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	result := &RunResult{Date: date}
	for _, patientID := range patientIDs {
		if _, err := s.aggregator.AggregatePatient(ctx, patientID, date); err != nil {
			s.logger.Error("Patient aggregation failed",
				zap.String("patient_id", patientID),
				zap.String("date", date),
				zap.Error(err),
			)
			result.Errors++
			if result.ErrorDetails == nil {
				result.ErrorDetails = make(map[string]string)
			}
			result.ErrorDetails[patientID] = err.Error()
			continue
		}
		result.Processed++
	}

	s.logger.Info("Daily aggregation finished",
		zap.String("date", date),
		zap.Int("processed", result.Processed),
		zap.Int("errors", result.Errors),
	)
	return result, nil
}
