package core

import "time"

// AccountType classifies an account for reporting purposes.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
	AccountCash       AccountType = "cash"
	AccountTracking   AccountType = "tracking"
)

// Account is a real-world money container. Only on-budget accounts feed
// the Available-to-Budget figure.
type Account struct {
	ID                    string      `json:"id"`
	Name                  string      `json:"name"`
	Type                  AccountType `json:"type"`
	OnBudget              bool        `json:"on_budget"`
	Archived              bool        `json:"archived"`
	StartingBalance       Money       `json:"starting_balance"`
	Notes                 string      `json:"notes,omitempty"`
	LastReconciledDate    *Date       `json:"last_reconciled_date,omitempty"`
	LastReconciledBalance *Money      `json:"last_reconciled_balance,omitempty"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}
