package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/domain"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/line"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/repository"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportLimits are the per-caller rolling quotas, one bucket per operation
// kind.
type ReportLimits struct {
	ViewPerWindow   int
	ExportPerWindow int
	Window          time.Duration
}

// ReportHandler serves /summary, /export/*, /patients. Every date-ranged
// request goes through the same chain: parameters, identity, authorization,
// rate limit, audit log, then the handler body.
type ReportHandler struct {
	reports    *service.ReportService
	patients   repository.PatientsRepository
	accessLogs repository.AccessLogsRepository
	resolver   TokenResolver
	limiter    Limiter
	limits     ReportLimits
	logger     *zap.Logger
}

func NewReportHandler(
	reports *service.ReportService,
	patients repository.PatientsRepository,
	accessLogs repository.AccessLogsRepository,
	resolver TokenResolver,
	limiter Limiter,
	limits ReportLimits,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		reports:    reports,
		patients:   patients,
		accessLogs: accessLogs,
		resolver:   resolver,
		limiter:    limiter,
		limits:     limits,
		logger:     logger,
	}
}

// preflight runs the shared validation chain for the date-ranged endpoints.
// On failure the response has already been written and ok is false.
func (h *ReportHandler) preflight(w http.ResponseWriter, r *http.Request, kind string, limit int) (caller *line.Profile, patientID, from, to string, ok bool) {
	ctx := r.Context()

	patientID, from, to, errMessage := parseReportRange(r)
	if errMessage != "" {
		writeError(w, http.StatusBadRequest, errMessage)
		return nil, "", "", "", false
	}

	caller, err := h.resolver.ResolveToken(ctx, bearerToken(r))
	if err != nil {
		if err == line.ErrInvalidToken {
			writeError(w, http.StatusUnauthorized, "invalid access token")
			return nil, "", "", "", false
		}
		h.logger.Error("Token resolution failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to verify identity")
		return nil, "", "", "", false
	}

	authorized, err := h.patients.IsAuthorized(ctx, caller.UserID, patientID)
	if err != nil {
		h.logger.Error("Authorization check failed",
			zap.String("patient_id", patientID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to check authorization")
		return nil, "", "", "", false
	}
	if !authorized {
		h.logger.Warn("Report access denied",
			zap.String("patient_id", patientID),
			zap.String("caller", caller.UserID),
			zap.String("kind", kind),
		)
		writeError(w, http.StatusForbidden, "not authorized to view this patient")
		return nil, "", "", "", false
	}

	allowed, err := h.limiter.Allow(ctx, caller.UserID+":"+kind, limit, h.limits.Window)
	if err != nil {
		h.logger.Error("Rate limit check failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to check rate limit")
		return nil, "", "", "", false
	}
	if !allowed {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return nil, "", "", "", false
	}

	// Audit before data leaves the building; a failed audit fails the
	// request.
	if err := h.accessLogs.Insert(ctx, &domain.ReportAccessLog{
		AccessID:     uuid.NewString(),
		PatientID:    patientID,
		CallerLineID: caller.UserID,
		Kind:         kind,
		FromDate:     from,
		ToDate:       to,
		AccessedAt:   time.Now().UTC(),
	}); err != nil {
		h.logger.Error("Access log write failed",
			zap.String("patient_id", patientID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to record access")
		return nil, "", "", "", false
	}

	return caller, patientID, from, to, true
}

// Summary GET /summary?patientId=&from=&to=
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	_, patientID, from, to, ok := h.preflight(w, r, domain.AccessView, h.limits.ViewPerWindow)
	if !ok {
		return
	}

	view, err := h.reports.RangeSummary(r.Context(), patientID, from, to)
	if err != nil {
		h.logger.Error("Range summary failed",
			zap.String("patient_id", patientID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ExportCSV GET /export/csv?patientId=&from=&to=
func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	_, patientID, from, to, ok := h.preflight(w, r, domain.AccessExportCSV, h.limits.ExportPerWindow)
	if !ok {
		return
	}

	view, err := h.reports.RangeSummary(r.Context(), patientID, from, to)
	if err != nil {
		h.logger.Error("CSV export failed", zap.String("patient_id", patientID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	data, err := GenerateReportCSV(view)
	if err != nil {
		h.logger.Error("CSV rendering failed", zap.String("patient_id", patientID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render export")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", exportFilename(patientID, from, to, "csv"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ExportPDF GET /export/pdf?patientId=&from=&to=
func (h *ReportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	_, patientID, from, to, ok := h.preflight(w, r, domain.AccessExportPDF, h.limits.ExportPerWindow)
	if !ok {
		return
	}

	view, err := h.reports.RangeSummary(r.Context(), patientID, from, to)
	if err != nil {
		h.logger.Error("PDF export failed", zap.String("patient_id", patientID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	patientName := patientID
	if p, err := h.patients.GetByID(r.Context(), patientID); err == nil {
		patientName = p.DisplayName
	}

	data, err := GenerateReportPDF(view, patientName)
	if err != nil {
		h.logger.Error("PDF rendering failed", zap.String("patient_id", patientID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render export")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", exportFilename(patientID, from, to, "pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ExportXLSX GET /export/xlsx?patientId=&from=&to=
func (h *ReportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	_, patientID, from, to, ok := h.preflight(w, r, domain.AccessExportXLSX, h.limits.ExportPerWindow)
	if !ok {
		return
	}

	view, err := h.reports.RangeSummary(r.Context(), patientID, from, to)
	if err != nil {
		h.logger.Error("XLSX export failed", zap.String("patient_id", patientID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	data, err := GenerateReportXLSX(view)
	if err != nil {
		h.logger.Error("XLSX rendering failed", zap.String("patient_id", patientID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render export")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", exportFilename(patientID, from, to, "xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Patients GET /patients lists the patients the caller may view (self plus
// caregiver links). No date range, so no rate limit bucket or audit row.
func (h *ReportHandler) Patients(w http.ResponseWriter, r *http.Request) {
	caller, err := h.resolver.ResolveToken(r.Context(), bearerToken(r))
	if err != nil {
		if err == line.ErrInvalidToken {
			writeError(w, http.StatusUnauthorized, "invalid access token")
			return
		}
		h.logger.Error("Token resolution failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to verify identity")
		return
	}

	patients, err := h.patients.ListAuthorized(r.Context(), caller.UserID)
	if err != nil {
		h.logger.Error("Patient listing failed",
			zap.String("caller", caller.UserID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to list patients")
		return
	}
	if patients == nil {
		patients = []*domain.Patient{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"patients": patients})
}

func exportFilename(patientID, from, to, ext string) string {
	return fmt.Sprintf(`attachment; filename="report_%s_%s_%s.%s"`, patientID, from, to, ext)
}
