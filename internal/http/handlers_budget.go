package http

import (
	"log/slog"
	"net/http"

	"envelope/internal/core"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	period, err := parsePeriodParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ov, err := s.getOverview(r.Context(), period)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, buildOverviewResponse(ov))
}

func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	categoryID := queryID(r, "category_id")
	if categoryID == "" {
		writeError(w, http.StatusBadRequest, "category_id is required")
		return
	}
	period, err := parsePeriodParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	summary, err := s.budget.GetCategorySummary(r.Context(), categoryID, period)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAvailableToBudget(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	period, err := parsePeriodParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	atb, err := s.budget.GetAvailableToBudget(r.Context(), period)
	if err != nil {
		respondError(w, r, err)
		return
	}
	overspent, err := s.budget.GetOverspentCategories(r.Context(), period)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Period            string                       `json:"period"`
		AvailableToBudget core.Money                   `json:"available_to_budget"`
		Overspent         []core.CategoryBudgetSummary `json:"overspent"`
	}{period.Key(), atb, overspent})
}

type assignRequest struct {
	CategoryID string `json:"category_id"`
	Period     string `json:"period"`
	Amount     string `json:"amount"`
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	period, err := parsePeriodField(req.Period)
	if err != nil {
		respondError(w, r, err)
		return
	}
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.budget.AssignToCategory(r.Context(), req.CategoryID, period, amount); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateOverviews()

	slog.InfoContext(r.Context(), "Allocation assigned",
		"category_id", req.CategoryID,
		"period", period.Key(),
		"amount_cents", amount.Cents)

	summary, err := s.budget.GetCategorySummary(r.Context(), req.CategoryID, period)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type moveRequest struct {
	FromCategoryID string `json:"from_category_id"`
	ToCategoryID   string `json:"to_category_id"`
	Period         string `json:"period"`
	Amount         string `json:"amount"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	period, err := parsePeriodField(req.Period)
	if err != nil {
		respondError(w, r, err)
		return
	}
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.budget.MoveBetweenCategories(r.Context(), req.FromCategoryID, req.ToCategoryID, period, amount); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateOverviews()

	slog.InfoContext(r.Context(), "Funds moved",
		"from_category_id", req.FromCategoryID,
		"to_category_id", req.ToCategoryID,
		"period", period.Key(),
		"amount_cents", amount.Cents)

	from, err := s.budget.GetCategorySummary(r.Context(), req.FromCategoryID, period)
	if err != nil {
		respondError(w, r, err)
		return
	}
	to, err := s.budget.GetCategorySummary(r.Context(), req.ToCategoryID, period)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		From core.CategoryBudgetSummary `json:"from"`
		To   core.CategoryBudgetSummary `json:"to"`
	}{from, to})
}

type targetRequest struct {
	CategoryID  string `json:"category_id"`
	Amount      string `json:"amount"`
	CadenceKind string `json:"cadence_kind"`
	CadenceDays int    `json:"cadence_days,omitempty"`
	CadenceDate string `json:"cadence_date,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

func (s *Server) handleTarget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		categoryID := queryID(r, "category_id")
		if categoryID == "" {
			writeError(w, http.StatusBadRequest, "category_id is required")
			return
		}
		target, err := s.budget.GetTarget(r.Context(), categoryID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, target)

	case http.MethodPost, http.MethodPut:
		var req targetRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		amount, err := parseAmountField(req.Amount)
		if err != nil {
			respondError(w, r, err)
			return
		}
		cadence, err := parseCadence(req.CadenceKind, req.CadenceDays, req.CadenceDate)
		if err != nil {
			respondError(w, r, err)
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}

		target, err := s.budget.SetTarget(r.Context(), core.BudgetTarget{
			CategoryID: req.CategoryID,
			Amount:     amount,
			Cadence:    cadence,
			Notes:      req.Notes,
			Active:     active,
		})
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, target)

	case http.MethodDelete:
		categoryID := queryID(r, "category_id")
		if categoryID == "" {
			writeError(w, http.StatusBadRequest, "category_id is required")
			return
		}
		removed, err := s.budget.RemoveTarget(r.Context(), categoryID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		if !removed {
			writeError(w, http.StatusNotFound, "no target for category")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleSuggested(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	categoryID := queryID(r, "category_id")
	if categoryID == "" {
		writeError(w, http.StatusBadRequest, "category_id is required")
		return
	}
	period, err := parsePeriodParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	suggested, err := s.budget.SuggestedForPeriod(r.Context(), categoryID, period)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		CategoryID string     `json:"category_id"`
		Period     string     `json:"period"`
		Suggested  core.Money `json:"suggested"`
	}{categoryID, period.Key(), suggested})
}

type incomeRequest struct {
	Period string `json:"period"`
	Amount string `json:"amount"`
	Notes  string `json:"notes,omitempty"`
}

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		period, err := parsePeriodParam(r)
		if err != nil {
			respondError(w, r, err)
			return
		}
		expectation, err := s.budget.GetExpectedIncome(r.Context(), period)
		if err != nil {
			respondError(w, r, err)
			return
		}
		remaining, _, err := s.budget.RemainingToBudgetFromIncome(r.Context(), period)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Expectation core.IncomeExpectation `json:"expectation"`
			Remaining   core.Money             `json:"remaining"`
			Over        bool                   `json:"over"`
		}{expectation, remaining, remaining.IsNegative()})

	case http.MethodPost, http.MethodPut:
		var req incomeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		period, err := parsePeriodField(req.Period)
		if err != nil {
			respondError(w, r, err)
			return
		}
		amount, err := parseAmountField(req.Amount)
		if err != nil {
			respondError(w, r, err)
			return
		}
		expectation, err := s.budget.SetExpectedIncome(r.Context(), period, amount, req.Notes)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, expectation)

	case http.MethodDelete:
		period, err := parsePeriodParam(r)
		if err != nil {
			respondError(w, r, err)
			return
		}
		removed, err := s.budget.DeleteExpectedIncome(r.Context(), period)
		if err != nil {
			respondError(w, r, err)
			return
		}
		if !removed {
			writeError(w, http.StatusNotFound, "no expected income for period")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
