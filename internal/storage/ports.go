// Package storage defines the persistence ports the services depend on
// and the SQLite implementation. The memory subpackage provides the
// default in-memory backend.
package storage

import (
	"context"
	"time"

	"envelope/internal/core"
)

// Allocation is one (category, period) assignment of funds.
type Allocation struct {
	CategoryID string     `json:"category_id"`
	PeriodKey  string     `json:"period_key"`
	Amount     core.Money `json:"amount"`
}

// AuditEntry is one append-only record of a budget mutation.
type AuditEntry struct {
	ID         int64     `json:"id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AccountStore interface {
	GetAccount(ctx context.Context, id string) (core.Account, error)
	ListAccounts(ctx context.Context) ([]core.Account, error)
	SaveAccount(ctx context.Context, account core.Account) error
}

type CategoryStore interface {
	GetCategory(ctx context.Context, id string) (core.Category, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	SaveCategory(ctx context.Context, category core.Category) error
	ListCategoryGroups(ctx context.Context) ([]core.CategoryGroup, error)
	SaveCategoryGroup(ctx context.Context, group core.CategoryGroup) error
}

type TransactionStore interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListAccountTransactions(ctx context.Context, accountID string) ([]core.Transaction, error)
	SaveTransaction(ctx context.Context, txn core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
}

type AllocationStore interface {
	// GetAllocation reports the assigned amount and whether an explicit
	// allocation exists for the pair.
	GetAllocation(ctx context.Context, categoryID, periodKey string) (core.Money, bool, error)
	SetAllocation(ctx context.Context, categoryID, periodKey string, amount core.Money) error
	ListAllocations(ctx context.Context) ([]Allocation, error)
}

type TargetStore interface {
	// GetTarget returns the category's target; core.ErrNotFound when none.
	GetTarget(ctx context.Context, categoryID string) (core.BudgetTarget, error)
	SaveTarget(ctx context.Context, target core.BudgetTarget) error
	// DeleteTarget reports whether a target existed.
	DeleteTarget(ctx context.Context, categoryID string) (bool, error)
}

type IncomeStore interface {
	GetExpectedIncome(ctx context.Context, periodKey string) (core.IncomeExpectation, error)
	SaveExpectedIncome(ctx context.Context, income core.IncomeExpectation) error
	DeleteExpectedIncome(ctx context.Context, periodKey string) (bool, error)
}

type AuditStore interface {
	AppendAudit(ctx context.Context, entry AuditEntry) error
	ListAudit(ctx context.Context, limit int) ([]AuditEntry, error)
}

// Store is the full persistence surface. WithinTx runs fn against a view
// of the store where all writes commit or roll back together.
type Store interface {
	AccountStore
	CategoryStore
	TransactionStore
	AllocationStore
	TargetStore
	IncomeStore
	AuditStore

	WithinTx(ctx context.Context, fn func(Store) error) error
	Close() error
}
