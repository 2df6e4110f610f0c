package chi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ringhub/voice-gateway/audit"
)

// getReport handles GET /v1/reports/{day}
// The day is a UTC calendar date: 2006-01-02
func getReport(analyzer *audit.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		day := chi.URLParam(r, "day")
		if _, err := time.Parse(audit.DayFormat, day); err != nil {
			http.Error(w, "day must be formatted as "+audit.DayFormat, http.StatusBadRequest)
			return
		}

		report, err := analyzer.Analyze(r.Context(), day)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
