package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/core"
)

// handleSummary serves one calendar month of aggregates. Missing year or
// month default to the current one.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	var err error
	if q := r.URL.Query().Get("year"); q != "" {
		if year, err = strconv.Atoi(q); err != nil {
			writeError(w, fmt.Errorf("%w: year must be a number", core.ErrInvalidInput))
			return
		}
	}
	if q := r.URL.Query().Get("month"); q != "" {
		if month, err = strconv.Atoi(q); err != nil {
			writeError(w, fmt.Errorf("%w: month must be a number", core.ErrInvalidInput))
			return
		}
	}

	summary, err := s.reports.Summary(r.Context(), ownerFrom(r), year, time.Month(month))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryJSON(summary))
}

// handleTrend serves the trailing month series. The window defaults to 6
// months and accepts 3, 6 or 12.
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	months := 6
	if q := r.URL.Query().Get("months"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, fmt.Errorf("%w: months must be a number", core.ErrInvalidInput))
			return
		}
		months = v
	}

	series, err := s.reports.Trend(r.Context(), ownerFrom(r), months)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]monthSummaryJSON, 0, len(series))
	for _, m := range series {
		out = append(out, toMonthSummaryJSON(m))
	}
	writeJSON(w, http.StatusOK, out)
}
