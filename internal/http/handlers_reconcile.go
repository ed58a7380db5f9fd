package http

import (
	"log/slog"
	"net/http"

	"envelope/internal/services"
)

type reconcileStartRequest struct {
	AccountID        string `json:"account_id"`
	StatementDate    string `json:"statement_date"`
	StatementBalance string `json:"statement_balance"`
	Replace          bool   `json:"replace,omitempty"`
}

func (s *Server) handleReconcileStart(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req reconcileStartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	statementDate, err := parseDateField(req.StatementDate)
	if err != nil {
		respondError(w, r, err)
		return
	}
	statementBalance, err := parseAmountField(req.StatementBalance)
	if err != nil {
		respondError(w, r, err)
		return
	}

	summary, err := s.reconcile.Start(r.Context(), req.AccountID, statementDate, statementBalance, req.Replace)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Reconciliation started",
		"account_id", req.AccountID,
		"statement_date", statementDate.String(),
		"statement_balance_cents", statementBalance.Cents)

	writeJSON(w, http.StatusOK, summary)
}

type reconcileToggleRequest struct {
	AccountID     string `json:"account_id"`
	TransactionID string `json:"transaction_id"`
}

func (s *Server) handleReconcileToggle(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req reconcileToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.reconcile.Toggle(r.Context(), req.AccountID, req.TransactionID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleReconcileSummary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	accountID := queryID(r, "account_id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "account_id is required")
		return
	}

	summary, err := s.reconcile.Summary(r.Context(), accountID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type reconcileCompleteRequest struct {
	AccountID            string `json:"account_id"`
	CreateAdjustment     bool   `json:"create_adjustment,omitempty"`
	AdjustmentCategoryID string `json:"adjustment_category_id,omitempty"`
}

func (s *Server) handleReconcileComplete(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req reconcileCompleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.reconcile.Complete(r.Context(), req.AccountID, services.CompleteOptions{
		CreateAdjustment:     req.CreateAdjustment,
		AdjustmentCategoryID: req.AdjustmentCategoryID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateOverviews()

	slog.InfoContext(r.Context(), "Reconciliation completed",
		"account_id", req.AccountID,
		"reconciled_count", result.ReconciledCount,
		"adjustment_created", result.Adjustment != nil)

	writeJSON(w, http.StatusOK, result)
}

type reconcileCancelRequest struct {
	AccountID string `json:"account_id"`
}

func (s *Server) handleReconcileCancel(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req reconcileCancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.reconcile.Cancel(req.AccountID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
