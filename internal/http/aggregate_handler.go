package httpapi

import (
	"net/http"
	"time"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/aggregator"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/service"

	"go.uber.org/zap"
)

// AggregateHandler exposes the daily aggregation trigger. The external
// scheduler POSTs here once per night; operators POST with an explicit date
// to backfill a single day.
type AggregateHandler struct {
	svc    *service.AggregationService
	loc    *time.Location
	logger *zap.Logger
}

func NewAggregateHandler(svc *service.AggregationService, loc *time.Location, logger *zap.Logger) *AggregateHandler {
	return &AggregateHandler{svc: svc, loc: loc, logger: logger}
}

type aggregateRequest struct {
	Date string `json:"date"`
}

type aggregateResponse struct {
	Success      bool              `json:"success"`
	Date         string            `json:"date"`
	Processed    int               `json:"processed"`
	Errors       int               `json:"errors"`
	ErrorDetails map[string]string `json:"errorDetails,omitempty"`
}

// Run POST /aggregate with optional body {"date": "YYYY-MM-DD"}. Without a
// date the target is yesterday as seen in the aggregation timezone.
func (h *AggregateHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req aggregateRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date := req.Date
	if date == "" {
		date = aggregator.Yesterday(time.Now(), h.loc)
	} else if !aggregator.ValidDate(date) {
		writeError(w, http.StatusBadRequest, "date must be a valid YYYY-MM-DD date")
		return
	}

	h.logger.Info("Daily aggregation triggered", zap.String("date", date))

	result, err := h.svc.Run(r.Context(), date)
	if err != nil {
		// Fatal: could not even list patients. Nothing was processed.
		h.logger.Error("Daily aggregation failed", zap.String("date", date), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, aggregateResponse{
		Success:      true,
		Date:         result.Date,
		Processed:    result.Processed,
		Errors:       result.Errors,
		ErrorDetails: result.ErrorDetails,
	})
}
