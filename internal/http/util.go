package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"time"
)

const dateLayout = "2006-01-02"

// maxReportRangeDays is the widest report window the UI offers (the "3
// month" view).
const maxReportRangeDays = 90

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// parseReportRange validates patientId/from/to query parameters. The empty
// message means the range is acceptable.
func parseReportRange(r *http.Request) (patientID, from, to, errMessage string) {
	q := r.URL.Query()
	patientID = q.Get("patientId")
	from = q.Get("from")
	to = q.Get("to")

	if patientID == "" || from == "" || to == "" {
		return "", "", "", "patientId, from and to are required"
	}

	fromDay, err := time.Parse(dateLayout, from)
	if err != nil {
		return "", "", "", "from must be a valid YYYY-MM-DD date"
	}
	toDay, err := time.Parse(dateLayout, to)
	if err != nil {
		return "", "", "", "to must be a valid YYYY-MM-DD date"
	}

	if fromDay.After(toDay) {
		return "", "", "", "from must not be after to"
	}
	if int(toDay.Sub(fromDay).Hours()/24) > maxReportRangeDays {
		return "", "", "", "date range must not exceed 90 days"
	}

	return patientID, from, to, ""
}
