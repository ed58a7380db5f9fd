package core

import "time"

// TransactionStatus is the clearing state of a transaction. Reconciled
// transactions are locked against edits until explicitly unlocked.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusCleared    TransactionStatus = "cleared"
	StatusReconciled TransactionStatus = "reconciled"
)

// IsLocked reports whether edits to the transaction must be refused.
func (s TransactionStatus) IsLocked() bool { return s == StatusReconciled }

// Split assigns a portion of a transaction's amount to one category.
type Split struct {
	CategoryID string `json:"category_id"`
	Amount     Money  `json:"amount"`
	Memo       string `json:"memo,omitempty"`
}

// Transaction is a single ledger entry against an account. Exactly one of
// CategoryID or Splits is set, except transfers, which carry neither.
type Transaction struct {
	ID                    string            `json:"id"`
	AccountID             string            `json:"account_id"`
	Date                  Date              `json:"date"`
	Amount                Money             `json:"amount"`
	Payee                 string            `json:"payee,omitempty"`
	CategoryID            string            `json:"category_id,omitempty"`
	Splits                []Split           `json:"splits,omitempty"`
	Memo                  string            `json:"memo,omitempty"`
	Status                TransactionStatus `json:"status"`
	TransferTransactionID string            `json:"transfer_transaction_id,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// IsTransfer reports whether the transaction is one leg of a transfer.
func (t Transaction) IsTransfer() bool { return t.TransferTransactionID != "" }

// Validate enforces the category/split/transfer invariants. Split amounts
// must sum exactly to the transaction amount; a mismatch fails rather than
// silently truncating.
func (t Transaction) Validate() error {
	if t.AccountID == "" {
		return invalid("transaction account", "", ErrInvalidFormat)
	}
	hasCategory := t.CategoryID != ""
	hasSplits := len(t.Splits) > 0

	if t.IsTransfer() {
		if hasCategory || hasSplits {
			return invalid("transfer transaction", t.ID, ErrInvalidFormat)
		}
		return nil
	}
	if hasCategory && hasSplits {
		return invalid("transaction category", t.ID, ErrInvalidFormat)
	}
	if hasSplits {
		var total Money
		for _, s := range t.Splits {
			if s.CategoryID == "" {
				return invalid("split category", t.ID, ErrInvalidFormat)
			}
			total = total.Add(s.Amount)
		}
		if total != t.Amount {
			return invalid("split total", total.String(), ErrInvalidAmount)
		}
	}
	return nil
}

// CategoryAmount returns how much of this transaction's amount belongs to
// the given category, honoring splits. Transfers never contribute.
func (t Transaction) CategoryAmount(categoryID string) Money {
	if t.IsTransfer() {
		return Zero()
	}
	if len(t.Splits) > 0 {
		var total Money
		for _, s := range t.Splits {
			if s.CategoryID == categoryID {
				total = total.Add(s.Amount)
			}
		}
		return total
	}
	if t.CategoryID == categoryID {
		return t.Amount
	}
	return Zero()
}
