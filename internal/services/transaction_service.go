package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"envelope/internal/amqp"
	"envelope/internal/core"
	"envelope/internal/storage"
)

// TransactionService owns the transaction edit surface and enforces the
// reconciled-lock rule: a Reconciled transaction refuses every edit until
// it is explicitly unlocked back to Cleared.
type TransactionService struct {
	store  storage.Store
	budget *BudgetService
	events *amqp.Client
}

func NewTransactionService(store storage.Store, budget *BudgetService, events *amqp.Client) *TransactionService {
	return &TransactionService{store: store, budget: budget, events: events}
}

// Create validates and persists a new transaction. The account and every
// referenced category must exist. New transactions enter as Pending or
// Cleared; Reconciled is only ever reached through reconciliation
// completion.
func (s *TransactionService) Create(ctx context.Context, txn core.Transaction) (core.Transaction, error) {
	now := time.Now().UTC()
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.Status == "" {
		txn.Status = core.StatusPending
	}
	if txn.Status != core.StatusPending && txn.Status != core.StatusCleared {
		return core.Transaction{}, fmt.Errorf("status %q: %w", txn.Status, core.ErrInvalidFormat)
	}
	txn.CreatedAt = now
	txn.UpdatedAt = now

	if err := txn.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if _, err := s.store.GetAccount(ctx, txn.AccountID); err != nil {
		return core.Transaction{}, err
	}
	if txn.CategoryID != "" {
		if _, err := s.store.GetCategory(ctx, txn.CategoryID); err != nil {
			return core.Transaction{}, err
		}
	}
	for _, sp := range txn.Splits {
		if _, err := s.store.GetCategory(ctx, sp.CategoryID); err != nil {
			return core.Transaction{}, err
		}
	}

	if err := s.store.SaveTransaction(ctx, txn); err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.invalidateFor(txn)

	slog.InfoContext(ctx, "Transaction created",
		"id", txn.ID,
		"account_id", txn.AccountID,
		"amount", txn.Amount.String())

	return txn, nil
}

func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *TransactionService) ListForAccount(ctx context.Context, accountID string) ([]core.Transaction, error) {
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.store.ListAccountTransactions(ctx, accountID)
}

// editable loads a transaction and refuses it while reconciled.
func (s *TransactionService) editable(ctx context.Context, id string) (core.Transaction, error) {
	txn, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if txn.Status.IsLocked() {
		return core.Transaction{}, fmt.Errorf("transaction %q: %w", id, core.ErrLocked)
	}
	return txn, nil
}

// UpdateAmount changes the transaction amount. Split transactions refuse
// the edit unless the splits still sum to the new amount.
func (s *TransactionService) UpdateAmount(ctx context.Context, id string, amount core.Money) (core.Transaction, error) {
	txn, err := s.editable(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	txn.Amount = amount
	txn.UpdatedAt = time.Now().UTC()
	if err := txn.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.SaveTransaction(ctx, txn); err != nil {
		return core.Transaction{}, fmt.Errorf("update amount: %w", err)
	}
	s.invalidateFor(txn)
	return txn, nil
}

// SetCategory recategorizes the transaction. Transfers and split
// transactions refuse a direct category.
func (s *TransactionService) SetCategory(ctx context.Context, id, categoryID string) (core.Transaction, error) {
	txn, err := s.editable(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if categoryID != "" {
		if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
			return core.Transaction{}, err
		}
	}
	previous := txn.CategoryID
	txn.CategoryID = categoryID
	txn.UpdatedAt = time.Now().UTC()
	if err := txn.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.SaveTransaction(ctx, txn); err != nil {
		return core.Transaction{}, fmt.Errorf("set category: %w", err)
	}
	if s.budget != nil && previous != "" {
		s.budget.InvalidateCategory(previous)
	}
	s.invalidateFor(txn)
	return txn, nil
}

// SetStatus moves the transaction between Pending and Cleared. Reconciled
// is only ever entered through reconciliation completion, and only left
// through Unlock.
func (s *TransactionService) SetStatus(ctx context.Context, id string, status core.TransactionStatus) (core.Transaction, error) {
	if status != core.StatusPending && status != core.StatusCleared {
		return core.Transaction{}, fmt.Errorf("status %q: %w", status, core.ErrInvalidFormat)
	}
	txn, err := s.editable(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	txn.Status = status
	txn.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveTransaction(ctx, txn); err != nil {
		return core.Transaction{}, fmt.Errorf("set status: %w", err)
	}
	return txn, nil
}

// Delete removes the transaction unless it is reconciled.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	txn, err := s.editable(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.invalidateFor(txn)
	return nil
}

// Unlock is the explicit confirmation that transitions a Reconciled
// transaction back to Cleared so it can be edited. Unlocking an already
// unlocked transaction is a no-op.
func (s *TransactionService) Unlock(ctx context.Context, id string) (core.Transaction, error) {
	txn, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if !txn.Status.IsLocked() {
		return txn, nil
	}
	txn.Status = core.StatusCleared
	txn.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveTransaction(ctx, txn); err != nil {
		return core.Transaction{}, fmt.Errorf("unlock transaction: %w", err)
	}

	if s.events != nil {
		event := amqp.NewBudgetEvent(amqp.EventTransactionUnlocked, txn.ID, "", txn.Amount.Cents)
		if err := s.events.PublishBudgetEvent(ctx, event); err != nil {
			slog.ErrorContext(ctx, "Failed to publish budget event",
				"type", event.Type, "error", err)
		}
	}

	slog.InfoContext(ctx, "Transaction unlocked", "id", txn.ID)
	return txn, nil
}

// invalidateFor drops cached rollover balances for every category the
// transaction touches.
func (s *TransactionService) invalidateFor(txn core.Transaction) {
	if s.budget == nil {
		return
	}
	if len(txn.Splits) > 0 {
		for _, sp := range txn.Splits {
			s.budget.InvalidateCategory(sp.CategoryID)
		}
		return
	}
	if txn.CategoryID != "" {
		s.budget.InvalidateCategory(txn.CategoryID)
	}
}
