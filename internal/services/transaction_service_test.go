package services

import (
	"context"
	"errors"
	"testing"

	"envelope/internal/core"
	"envelope/internal/storage/memory"
)

func newTransactionFixture(t *testing.T) (*TransactionService, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	if err := store.SaveAccount(ctx, core.Account{
		ID:       "acct-1",
		Name:     "Checking",
		Type:     core.AccountChecking,
		OnBudget: true,
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	for _, c := range []core.Category{
		{ID: "groceries", Name: "Groceries"},
		{ID: "dining", Name: "Dining Out"},
	} {
		if err := store.SaveCategory(ctx, c); err != nil {
			t.Fatalf("seed category: %v", err)
		}
	}
	return NewTransactionService(store, nil, nil), store
}

func TestCreateTransaction(t *testing.T) {
	svc, _ := newTransactionFixture(t)
	ctx := context.Background()

	txn, err := svc.Create(ctx, core.Transaction{
		AccountID:  "acct-1",
		Date:       core.NewDate(2025, 1, 15),
		Amount:     core.FromCents(-2500),
		Payee:      "Corner Market",
		CategoryID: "groceries",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if txn.ID == "" {
		t.Error("created transaction should receive an id")
	}
	if txn.Status != core.StatusPending {
		t.Errorf("default status = %s, want pending", txn.Status)
	}

	_, err = svc.Create(ctx, core.Transaction{
		AccountID:  "nope",
		Date:       core.NewDate(2025, 1, 15),
		Amount:     core.FromCents(-2500),
		CategoryID: "groceries",
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown account error = %v, want ErrNotFound", err)
	}

	_, err = svc.Create(ctx, core.Transaction{
		AccountID: "acct-1",
		Date:      core.NewDate(2025, 1, 15),
		Amount:    core.FromCents(-5000),
		Splits: []core.Split{
			{CategoryID: "groceries", Amount: core.FromCents(-3000)},
			{CategoryID: "dining", Amount: core.FromCents(-1500)},
		},
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("mismatched splits error = %v, want ErrInvalidAmount", err)
	}
}

func TestCreateTransactionStatus(t *testing.T) {
	svc, _ := newTransactionFixture(t)
	ctx := context.Background()

	base := core.Transaction{
		AccountID:  "acct-1",
		Date:       core.NewDate(2025, 1, 15),
		Amount:     core.FromCents(-2500),
		CategoryID: "groceries",
	}

	cleared := base
	cleared.Status = core.StatusCleared
	txn, err := svc.Create(ctx, cleared)
	if err != nil {
		t.Fatalf("create cleared: %v", err)
	}
	if txn.Status != core.StatusCleared {
		t.Errorf("status = %s, want cleared", txn.Status)
	}

	// A transaction cannot be born Reconciled; that would mint a locked
	// transaction outside the reconciliation state machine.
	locked := base
	locked.Status = core.StatusReconciled
	if _, err := svc.Create(ctx, locked); !errors.Is(err, core.ErrInvalidFormat) {
		t.Errorf("create reconciled error = %v, want ErrInvalidFormat", err)
	}

	garbage := base
	garbage.Status = core.TransactionStatus("garbage")
	if _, err := svc.Create(ctx, garbage); !errors.Is(err, core.ErrInvalidFormat) {
		t.Errorf("create garbage status error = %v, want ErrInvalidFormat", err)
	}
}

func TestLockedTransactionRejectsEdit(t *testing.T) {
	svc, store := newTransactionFixture(t)
	ctx := context.Background()

	if err := store.SaveTransaction(ctx, core.Transaction{
		ID:         "t-locked",
		AccountID:  "acct-1",
		Date:       core.NewDate(2025, 1, 10),
		Amount:     core.FromCents(-5000),
		CategoryID: "groceries",
		Status:     core.StatusReconciled,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.UpdateAmount(ctx, "t-locked", core.FromCents(-6000)); !errors.Is(err, core.ErrLocked) {
		t.Errorf("update amount error = %v, want ErrLocked", err)
	}
	if _, err := svc.SetCategory(ctx, "t-locked", "dining"); !errors.Is(err, core.ErrLocked) {
		t.Errorf("set category error = %v, want ErrLocked", err)
	}
	if _, err := svc.SetStatus(ctx, "t-locked", core.StatusPending); !errors.Is(err, core.ErrLocked) {
		t.Errorf("set status error = %v, want ErrLocked", err)
	}
	if err := svc.Delete(ctx, "t-locked"); !errors.Is(err, core.ErrLocked) {
		t.Errorf("delete error = %v, want ErrLocked", err)
	}

	// After the explicit unlock the same edit succeeds.
	unlocked, err := svc.Unlock(ctx, "t-locked")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if unlocked.Status != core.StatusCleared {
		t.Errorf("status after unlock = %s, want cleared", unlocked.Status)
	}

	updated, err := svc.UpdateAmount(ctx, "t-locked", core.FromCents(-6000))
	if err != nil {
		t.Fatalf("update after unlock: %v", err)
	}
	if updated.Amount.Cents != -6000 {
		t.Errorf("amount = %d, want -6000", updated.Amount.Cents)
	}
}

func TestUnlockIsIdempotent(t *testing.T) {
	svc, store := newTransactionFixture(t)
	ctx := context.Background()

	if err := store.SaveTransaction(ctx, core.Transaction{
		ID:        "t-1",
		AccountID: "acct-1",
		Date:      core.NewDate(2025, 1, 10),
		Amount:    core.FromCents(-100),
		Status:    core.StatusCleared,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	txn, err := svc.Unlock(ctx, "t-1")
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if txn.Status != core.StatusCleared {
		t.Errorf("status = %s, want cleared unchanged", txn.Status)
	}

	if _, err := svc.Unlock(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unlock unknown error = %v, want ErrNotFound", err)
	}
}

func TestSetStatus(t *testing.T) {
	svc, store := newTransactionFixture(t)
	ctx := context.Background()

	if err := store.SaveTransaction(ctx, core.Transaction{
		ID:        "t-1",
		AccountID: "acct-1",
		Date:      core.NewDate(2025, 1, 10),
		Amount:    core.FromCents(-100),
		Status:    core.StatusPending,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	txn, err := svc.SetStatus(ctx, "t-1", core.StatusCleared)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if txn.Status != core.StatusCleared {
		t.Errorf("status = %s, want cleared", txn.Status)
	}

	// Reconciled is only entered through reconciliation completion.
	if _, err := svc.SetStatus(ctx, "t-1", core.StatusReconciled); !errors.Is(err, core.ErrInvalidFormat) {
		t.Errorf("set reconciled error = %v, want ErrInvalidFormat", err)
	}
}
