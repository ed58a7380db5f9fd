package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"envelope/internal/core"
)

type createAccountRequest struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	OnBudget        bool   `json:"on_budget"`
	StartingBalance string `json:"starting_balance,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if id := queryID(r, "id"); id != "" {
			account, err := s.store.GetAccount(r.Context(), id)
			if err != nil {
				respondError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, account)
			return
		}
		accounts, err := s.store.ListAccounts(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, accounts)

	case http.MethodPost:
		var req createAccountRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusUnprocessableEntity, "name is required")
			return
		}
		startingBalance := core.Zero()
		if req.StartingBalance != "" {
			var err error
			startingBalance, err = parseAmountField(req.StartingBalance)
			if err != nil {
				respondError(w, r, err)
				return
			}
		}

		now := time.Now().UTC()
		account := core.Account{
			ID:              uuid.New().String(),
			Name:            req.Name,
			Type:            core.AccountType(req.Type),
			OnBudget:        req.OnBudget,
			StartingBalance: startingBalance,
			Notes:           req.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if account.Type == "" {
			account.Type = core.AccountChecking
		}

		if err := s.store.SaveAccount(r.Context(), account); err != nil {
			respondError(w, r, err)
			return
		}
		s.invalidateOverviews()
		writeJSON(w, http.StatusCreated, account)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type createCategoryRequest struct {
	GroupID   string `json:"group_id,omitempty"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if id := queryID(r, "id"); id != "" {
			category, err := s.store.GetCategory(r.Context(), id)
			if err != nil {
				respondError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, category)
			return
		}
		categories, err := s.store.ListCategories(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, categories)

	case http.MethodPost:
		var req createCategoryRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusUnprocessableEntity, "name is required")
			return
		}

		now := time.Now().UTC()
		category := core.Category{
			ID:        uuid.New().String(),
			GroupID:   req.GroupID,
			Name:      req.Name,
			SortOrder: req.SortOrder,
			Notes:     req.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := s.store.SaveCategory(r.Context(), category); err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, category)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type createCategoryGroupRequest struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order,omitempty"`
}

func (s *Server) handleCategoryGroups(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		groups, err := s.store.ListCategoryGroups(r.Context())
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, groups)

	case http.MethodPost:
		var req createCategoryGroupRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusUnprocessableEntity, "name is required")
			return
		}

		now := time.Now().UTC()
		group := core.CategoryGroup{
			ID:        uuid.New().String(),
			Name:      req.Name,
			SortOrder: req.SortOrder,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := s.store.SaveCategoryGroup(r.Context(), group); err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, group)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
