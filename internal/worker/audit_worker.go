// Package worker turns published budget events into audit log rows.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"envelope/internal/amqp"
	"envelope/internal/core"
	"envelope/internal/storage"
)

// AuditWorker consumes budget events and appends them to the audit log.
// The log is append-only and purely observational; it never drives state.
type AuditWorker struct {
	store storage.Store
}

func NewAuditWorker(store storage.Store) *AuditWorker {
	return &AuditWorker{store: store}
}

// HandleEvent appends one budget event to the audit log.
func (w *AuditWorker) HandleEvent(ctx context.Context, event *amqp.BudgetEvent) error {
	entry := storage.AuditEntry{
		Action:     event.Type,
		EntityType: entityTypeFor(event.Type),
		EntityID:   event.EntityID,
		Detail:     detailFor(event),
		OccurredAt: event.Timestamp,
	}

	if err := w.store.AppendAudit(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	slog.InfoContext(ctx, "Audit entry recorded",
		"action", entry.Action,
		"entity_type", entry.EntityType,
		"entity_id", entry.EntityID)

	return nil
}

// StartupCheck verifies the audit store is reachable before consuming, so
// a misconfigured worker fails fast instead of requeueing forever.
func (w *AuditWorker) StartupCheck(ctx context.Context) error {
	entries, err := w.store.ListAudit(ctx, 1)
	if err != nil {
		return fmt.Errorf("audit store not reachable: %w", err)
	}
	if len(entries) > 0 {
		slog.InfoContext(ctx, "Resuming audit log", "last_action", entries[0].Action)
	} else {
		slog.InfoContext(ctx, "Audit log is empty, starting fresh")
	}
	return nil
}

func entityTypeFor(eventType string) string {
	switch eventType {
	case amqp.EventAllocationAssigned, amqp.EventFundsMoved:
		return "category"
	case amqp.EventReconciliationCompleted:
		return "account"
	case amqp.EventAdjustmentCreated, amqp.EventTransactionUnlocked:
		return "transaction"
	default:
		return "unknown"
	}
}

func detailFor(event *amqp.BudgetEvent) string {
	amount := core.FromCents(event.AmountCents)
	detail := amount.Format()
	if event.PeriodKey != "" {
		detail = fmt.Sprintf("%s in %s", detail, event.PeriodKey)
	}
	if event.Detail != "" {
		detail = fmt.Sprintf("%s (%s)", detail, event.Detail)
	}
	return detail
}
