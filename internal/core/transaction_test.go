package core

import (
	"errors"
	"testing"
)

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		txn     Transaction
		wantErr error
	}{
		{
			"categorized",
			Transaction{ID: "t1", AccountID: "a1", Amount: FromCents(-2500), CategoryID: "c1"},
			nil,
		},
		{
			"uncategorized inflow",
			Transaction{ID: "t2", AccountID: "a1", Amount: FromCents(100000)},
			nil,
		},
		{
			"splits sum to amount",
			Transaction{ID: "t3", AccountID: "a1", Amount: FromCents(-5000), Splits: []Split{
				{CategoryID: "c1", Amount: FromCents(-3000)},
				{CategoryID: "c2", Amount: FromCents(-2000)},
			}},
			nil,
		},
		{
			"splits must sum exactly",
			Transaction{ID: "t4", AccountID: "a1", Amount: FromCents(-5000), Splits: []Split{
				{CategoryID: "c1", Amount: FromCents(-3000)},
				{CategoryID: "c2", Amount: FromCents(-1999)},
			}},
			ErrInvalidAmount,
		},
		{
			"category and splits are exclusive",
			Transaction{ID: "t5", AccountID: "a1", Amount: FromCents(-5000), CategoryID: "c1", Splits: []Split{
				{CategoryID: "c2", Amount: FromCents(-5000)},
			}},
			ErrInvalidFormat,
		},
		{
			"split without category",
			Transaction{ID: "t6", AccountID: "a1", Amount: FromCents(-100), Splits: []Split{
				{Amount: FromCents(-100)},
			}},
			ErrInvalidFormat,
		},
		{
			"transfer carries no category",
			Transaction{ID: "t7", AccountID: "a1", Amount: FromCents(-100), TransferTransactionID: "t8"},
			nil,
		},
		{
			"transfer with category fails",
			Transaction{ID: "t9", AccountID: "a1", Amount: FromCents(-100), CategoryID: "c1", TransferTransactionID: "t10"},
			ErrInvalidFormat,
		},
		{
			"missing account",
			Transaction{ID: "t11", Amount: FromCents(-100), CategoryID: "c1"},
			ErrInvalidFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.txn.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategoryAmount(t *testing.T) {
	split := Transaction{ID: "t1", AccountID: "a1", Amount: FromCents(-5000), Splits: []Split{
		{CategoryID: "groceries", Amount: FromCents(-3000)},
		{CategoryID: "household", Amount: FromCents(-2000)},
	}}
	if got := split.CategoryAmount("groceries").Cents; got != -3000 {
		t.Errorf("split portion = %d, want -3000", got)
	}
	if got := split.CategoryAmount("dining").Cents; got != 0 {
		t.Errorf("unrelated category = %d, want 0", got)
	}

	plain := Transaction{ID: "t2", AccountID: "a1", Amount: FromCents(-2500), CategoryID: "groceries"}
	if got := plain.CategoryAmount("groceries").Cents; got != -2500 {
		t.Errorf("categorized amount = %d, want -2500", got)
	}

	transfer := Transaction{ID: "t3", AccountID: "a1", Amount: FromCents(-100), TransferTransactionID: "t4"}
	if got := transfer.CategoryAmount("groceries").Cents; got != 0 {
		t.Errorf("transfer contributed %d, want 0", got)
	}
}

func TestStatusIsLocked(t *testing.T) {
	if StatusPending.IsLocked() || StatusCleared.IsLocked() {
		t.Error("only reconciled transactions are locked")
	}
	if !StatusReconciled.IsLocked() {
		t.Error("reconciled transaction should be locked")
	}
}
