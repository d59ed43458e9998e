package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps the standard library mux (no third-party routing dependency)
// and guarantees JSON 404s for unknown paths.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
	r.mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterReportRoutes wires the report service endpoints.
func (r *Router) RegisterReportRoutes(h *ReportHandler) {
	r.Handle("/summary", methodGet(h.Summary))
	r.Handle("/export/csv", methodGet(h.ExportCSV))
	r.Handle("/export/pdf", methodGet(h.ExportPDF))
	r.Handle("/export/xlsx", methodGet(h.ExportXLSX))
	r.Handle("/patients", methodGet(h.Patients))
}

// RegisterAggregateRoutes wires the aggregation trigger.
func (r *Router) RegisterAggregateRoutes(h *AggregateHandler) {
	r.Handle("/aggregate", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.Run(w, req)
	})
}

func methodGet(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h(w, req)
	}
}
