package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"envelope/internal/core"
)

// errorBody is the uniform error envelope of the API.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON sends v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

// writeError sends an error envelope with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// respondError maps a service error onto an HTTP status and logs server
// faults. Domain violations keep their message; internal errors do not
// leak details to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= 500 {
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, status, "internal error")
		return
	}
	if status == http.StatusNotFound || status == http.StatusConflict {
		slog.WarnContext(r.Context(), "Request rejected",
			"error", err, "method", r.Method, "path", r.URL.Path)
	}
	writeError(w, status, err.Error())
}

// statusForError maps domain sentinel errors to status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrLocked),
		errors.Is(err, core.ErrSessionActive),
		errors.Is(err, core.ErrNonzeroDifference):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidFormat),
		errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCustomInterval),
		errors.Is(err, core.ErrSameCategory),
		errors.Is(err, core.ErrAccountArchived):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// overviewResponse flattens the overview for the wire: the period is
// rendered as its key alongside its resolved date range.
type overviewResponse struct {
	Period            string                       `json:"period"`
	StartDate         core.Date                    `json:"start_date"`
	EndDate           core.Date                    `json:"end_date"`
	Categories        []core.CategoryBudgetSummary `json:"categories"`
	TotalBudgeted     core.Money                   `json:"total_budgeted"`
	TotalActivity     core.Money                   `json:"total_activity"`
	TotalAvailable    core.Money                   `json:"total_available"`
	AvailableToBudget core.Money                   `json:"available_to_budget"`
}

func buildOverviewResponse(ov core.BudgetOverview) overviewResponse {
	return overviewResponse{
		Period:            ov.Period.Key(),
		StartDate:         ov.Period.StartDate(),
		EndDate:           ov.Period.EndDate(),
		Categories:        ov.Categories,
		TotalBudgeted:     ov.TotalBudgeted,
		TotalActivity:     ov.TotalActivity,
		TotalAvailable:    ov.TotalAvailable,
		AvailableToBudget: ov.AvailableToBudget,
	}
}
