package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"envelope/internal/amqp"
	"envelope/internal/core"
	"envelope/internal/storage"
)

const adjustmentPayee = "Reconciliation Adjustment"

// session is the in-memory state of one account's reconciliation. It is
// discarded on cancel and consumed on completion; nothing persists until
// Complete commits.
type session struct {
	statementDate    core.Date
	statementBalance core.Money
	startingBalance  core.Money
	txns             []core.Transaction
	cleared          map[string]bool
}

// ReconciliationSummary is the live view of a session after any toggle.
type ReconciliationSummary struct {
	AccountID        string             `json:"account_id"`
	StatementDate    core.Date          `json:"statement_date"`
	StatementBalance core.Money         `json:"statement_balance"`
	StartingBalance  core.Money         `json:"starting_balance"`
	ClearedBalance   core.Money         `json:"cleared_balance"`
	Difference       core.Money         `json:"difference"`
	Cleared          []core.Transaction `json:"cleared"`
	Uncleared        []core.Transaction `json:"uncleared"`
	CanComplete      bool               `json:"can_complete"`
}

// CompleteOptions controls the nonzero-difference path: when the
// difference is not zero the caller may request a single adjustment
// transaction, optionally categorized.
type CompleteOptions struct {
	CreateAdjustment     bool
	AdjustmentCategoryID string
}

// CompleteResult reports what completion committed.
type CompleteResult struct {
	ReconciledCount int               `json:"reconciled_count"`
	Adjustment      *core.Transaction `json:"adjustment,omitempty"`
}

// ReconcileService drives the per-account reconciliation state machine.
// One session may be active per account at a time.
type ReconcileService struct {
	store  storage.Store
	budget *BudgetService
	events *amqp.Client

	mu       sync.Mutex
	sessions map[string]*session
}

func NewReconcileService(store storage.Store, budget *BudgetService, events *amqp.Client) *ReconcileService {
	return &ReconcileService{
		store:    store,
		budget:   budget,
		events:   events,
		sessions: make(map[string]*session),
	}
}

// Start opens a session for the account. The starting balance is the
// account's starting balance plus everything already reconciled; every
// not-yet-reconciled transaction is loaded for matching. Starting while a
// session is active fails unless replace is set.
func (s *ReconcileService) Start(ctx context.Context, accountID string, statementDate core.Date, statementBalance core.Money, replace bool) (ReconciliationSummary, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return ReconciliationSummary{}, err
	}
	if account.Archived {
		return ReconciliationSummary{}, fmt.Errorf("account %q: %w", accountID, core.ErrAccountArchived)
	}

	s.mu.Lock()
	if _, active := s.sessions[accountID]; active && !replace {
		s.mu.Unlock()
		return ReconciliationSummary{}, fmt.Errorf("account %q: %w", accountID, core.ErrSessionActive)
	}
	s.mu.Unlock()

	txns, err := s.store.ListAccountTransactions(ctx, accountID)
	if err != nil {
		return ReconciliationSummary{}, err
	}

	sess := &session{
		statementDate:    statementDate,
		statementBalance: statementBalance,
		startingBalance:  account.StartingBalance,
		cleared:          make(map[string]bool),
	}
	for _, t := range txns {
		if t.Status == core.StatusReconciled {
			sess.startingBalance = sess.startingBalance.Add(t.Amount)
			continue
		}
		sess.txns = append(sess.txns, t)
		sess.cleared[t.ID] = t.Status == core.StatusCleared
	}

	s.mu.Lock()
	s.sessions[accountID] = sess
	s.mu.Unlock()

	slog.InfoContext(ctx, "Reconciliation session started",
		"account_id", accountID,
		"statement_balance", statementBalance.String(),
		"transactions", len(sess.txns))

	return s.summarize(accountID, sess), nil
}

func (s *ReconcileService) activeSession(accountID string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[accountID]
	if !ok {
		return nil, core.NewNotFound("reconciliation session", accountID)
	}
	return sess, nil
}

// Toggle flips one transaction between Pending and Cleared within the
// session. Reconciled transactions are refused; they require the unlock
// flow.
func (s *ReconcileService) Toggle(ctx context.Context, accountID, txnID string) (ReconciliationSummary, error) {
	sess, err := s.activeSession(accountID)
	if err != nil {
		return ReconciliationSummary{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := sess.cleared[txnID]; !ok {
		if t, err := s.store.GetTransaction(ctx, txnID); err == nil && t.Status.IsLocked() {
			return ReconciliationSummary{}, fmt.Errorf("transaction %q: %w", txnID, core.ErrLocked)
		}
		return ReconciliationSummary{}, core.NewNotFound("transaction", txnID)
	}
	sess.cleared[txnID] = !sess.cleared[txnID]
	return s.summarize(accountID, sess), nil
}

// Summary recomputes the session's cleared balance and difference.
func (s *ReconcileService) Summary(ctx context.Context, accountID string) (ReconciliationSummary, error) {
	sess, err := s.activeSession(accountID)
	if err != nil {
		return ReconciliationSummary{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summarize(accountID, sess), nil
}

// summarize assumes the caller holds no conflicting lock on sess state;
// callers synchronize through s.mu.
func (s *ReconcileService) summarize(accountID string, sess *session) ReconciliationSummary {
	summary := ReconciliationSummary{
		AccountID:        accountID,
		StatementDate:    sess.statementDate,
		StatementBalance: sess.statementBalance,
		StartingBalance:  sess.startingBalance,
		ClearedBalance:   sess.startingBalance,
	}
	for _, t := range sess.txns {
		if sess.cleared[t.ID] {
			summary.ClearedBalance = summary.ClearedBalance.Add(t.Amount)
			summary.Cleared = append(summary.Cleared, t)
		} else {
			summary.Uncleared = append(summary.Uncleared, t)
		}
	}
	summary.Difference = sess.statementBalance.Sub(summary.ClearedBalance)
	summary.CanComplete = summary.Difference.IsZero()
	return summary
}

// Complete commits the session atomically: every Cleared transaction
// becomes Reconciled, toggled-off ones persist as Pending, and the
// account's last-reconciled date and balance are set to the statement
// values. The difference must be zero; the only way to close a nonzero
// difference is a single adjustment transaction dated at the statement
// date, which joins the Reconciled set in the same step. Completing with
// a nonzero difference and no adjustment fails and leaves the session
// open. Only statuses change; reconciliation never touches a
// transaction's amount, date, payee, or category.
func (s *ReconcileService) Complete(ctx context.Context, accountID string, opts CompleteOptions) (CompleteResult, error) {
	sess, err := s.activeSession(accountID)
	if err != nil {
		return CompleteResult{}, err
	}

	s.mu.Lock()
	summary := s.summarize(accountID, sess)
	s.mu.Unlock()

	if !summary.Difference.IsZero() && !opts.CreateAdjustment {
		return CompleteResult{}, fmt.Errorf("difference %s: %w", summary.Difference, core.ErrNonzeroDifference)
	}

	var adjustment *core.Transaction
	if !summary.Difference.IsZero() && opts.CreateAdjustment {
		now := time.Now().UTC()
		adjustment = &core.Transaction{
			ID:         uuid.NewString(),
			AccountID:  accountID,
			Date:       sess.statementDate,
			Amount:     summary.Difference,
			Payee:      adjustmentPayee,
			CategoryID: opts.AdjustmentCategoryID,
			Status:     core.StatusReconciled,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	result := CompleteResult{Adjustment: adjustment}
	err = s.store.WithinTx(ctx, func(tx storage.Store) error {
		now := time.Now().UTC()
		for _, t := range sess.txns {
			fresh, err := tx.GetTransaction(ctx, t.ID)
			if err != nil {
				return err
			}
			if sess.cleared[t.ID] {
				fresh.Status = core.StatusReconciled
				result.ReconciledCount++
			} else {
				fresh.Status = core.StatusPending
			}
			fresh.UpdatedAt = now
			if err := tx.SaveTransaction(ctx, fresh); err != nil {
				return err
			}
		}

		if adjustment != nil {
			if err := tx.SaveTransaction(ctx, *adjustment); err != nil {
				return err
			}
			result.ReconciledCount++
		}

		account, err := tx.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		date := sess.statementDate
		balance := sess.statementBalance
		account.LastReconciledDate = &date
		account.LastReconciledBalance = &balance
		account.UpdatedAt = now
		return tx.SaveAccount(ctx, account)
	})
	if err != nil {
		return CompleteResult{}, fmt.Errorf("complete reconciliation: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, accountID)
	s.mu.Unlock()

	if s.budget != nil && adjustment != nil && adjustment.CategoryID != "" {
		s.budget.InvalidateCategory(adjustment.CategoryID)
	}

	s.publishEvent(ctx, amqp.NewBudgetEvent(amqp.EventReconciliationCompleted, accountID, "", sess.statementBalance.Cents))
	if adjustment != nil {
		event := amqp.NewBudgetEvent(amqp.EventAdjustmentCreated, adjustment.ID, "", adjustment.Amount.Cents)
		event.Detail = fmt.Sprintf("account %s", accountID)
		s.publishEvent(ctx, event)
	}

	slog.InfoContext(ctx, "Reconciliation completed",
		"account_id", accountID,
		"reconciled", result.ReconciledCount,
		"adjustment", adjustment != nil)

	return result, nil
}

// Cancel discards the session. No status change made during the session
// persists.
func (s *ReconcileService) Cancel(accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[accountID]; !ok {
		return core.NewNotFound("reconciliation session", accountID)
	}
	delete(s.sessions, accountID)
	return nil
}

func (s *ReconcileService) publishEvent(ctx context.Context, event *amqp.BudgetEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishBudgetEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget event",
			"type", event.Type, "error", err)
	}
}
