package http

import (
	"log/slog"
	"net/http"

	"envelope/internal/core"
)

type splitRequest struct {
	CategoryID string `json:"category_id"`
	Amount     string `json:"amount"`
	Memo       string `json:"memo,omitempty"`
}

type createTransactionRequest struct {
	AccountID             string         `json:"account_id"`
	Date                  string         `json:"date"`
	Amount                string         `json:"amount"`
	Payee                 string         `json:"payee,omitempty"`
	CategoryID            string         `json:"category_id,omitempty"`
	Splits                []splitRequest `json:"splits,omitempty"`
	Memo                  string         `json:"memo,omitempty"`
	Status                string         `json:"status,omitempty"`
	TransferTransactionID string         `json:"transfer_transaction_id,omitempty"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if id := queryID(r, "id"); id != "" {
			txn, err := s.transactions.Get(r.Context(), id)
			if err != nil {
				respondError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, txn)
			return
		}
		accountID := queryID(r, "account_id")
		if accountID == "" {
			writeError(w, http.StatusBadRequest, "id or account_id is required")
			return
		}
		txns, err := s.transactions.ListForAccount(r.Context(), accountID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, txns)

	case http.MethodPost:
		var req createTransactionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		txn, err := buildTransaction(req)
		if err != nil {
			respondError(w, r, err)
			return
		}

		created, err := s.transactions.Create(r.Context(), txn)
		if err != nil {
			respondError(w, r, err)
			return
		}
		s.invalidateOverviews()
		writeJSON(w, http.StatusCreated, created)

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func buildTransaction(req createTransactionRequest) (core.Transaction, error) {
	date, err := parseDateField(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	txn := core.Transaction{
		AccountID:             req.AccountID,
		Date:                  date,
		Amount:                amount,
		Payee:                 req.Payee,
		CategoryID:            req.CategoryID,
		Memo:                  req.Memo,
		Status:                core.TransactionStatus(req.Status),
		TransferTransactionID: req.TransferTransactionID,
	}
	for _, sp := range req.Splits {
		splitAmount, err := parseAmountField(sp.Amount)
		if err != nil {
			return core.Transaction{}, err
		}
		txn.Splits = append(txn.Splits, core.Split{
			CategoryID: sp.CategoryID,
			Amount:     splitAmount,
			Memo:       sp.Memo,
		})
	}
	return txn, nil
}

type transactionAmountRequest struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
}

func (s *Server) handleTransactionAmount(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req transactionAmountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		respondError(w, r, err)
		return
	}

	txn, err := s.transactions.UpdateAmount(r.Context(), req.ID, amount)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateOverviews()
	writeJSON(w, http.StatusOK, txn)
}

type transactionCategoryRequest struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
}

func (s *Server) handleTransactionCategory(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req transactionCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txn, err := s.transactions.SetCategory(r.Context(), req.ID, req.CategoryID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateOverviews()
	writeJSON(w, http.StatusOK, txn)
}

type transactionStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (s *Server) handleTransactionStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req transactionStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txn, err := s.transactions.SetStatus(r.Context(), req.ID, core.TransactionStatus(req.Status))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

type transactionIDRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleTransactionDelete(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, http.MethodDelete) {
		return
	}
	var req transactionIDRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.transactions.Delete(r.Context(), req.ID); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateOverviews()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransactionUnlock(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req transactionIDRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txn, err := s.transactions.Unlock(r.Context(), req.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Transaction unlocked",
		"transaction_id", req.ID, "status", string(txn.Status))

	writeJSON(w, http.StatusOK, txn)
}
