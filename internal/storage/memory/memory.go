// Package memory provides the in-memory storage backend. It is the
// default backend and the fixture the service and HTTP tests run against.
package memory

import (
	"context"
	"sort"
	"sync"

	"envelope/internal/core"
	"envelope/internal/storage"
)

type allocKey struct {
	categoryID string
	periodKey  string
}

// Store keeps everything in mutex-guarded maps.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]core.Account
	categories   map[string]core.Category
	groups       map[string]core.CategoryGroup
	transactions map[string]core.Transaction
	allocations  map[allocKey]core.Money
	targets      map[string]core.BudgetTarget
	incomes      map[string]core.IncomeExpectation
	audit        []storage.AuditEntry
	nextAuditID  int64
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]core.Account),
		categories:   make(map[string]core.Category),
		groups:       make(map[string]core.CategoryGroup),
		transactions: make(map[string]core.Transaction),
		allocations:  make(map[allocKey]core.Money),
		targets:      make(map[string]core.BudgetTarget),
		incomes:      make(map[string]core.IncomeExpectation),
		nextAuditID:  1,
	}
}

var _ storage.Store = (*Store)(nil)

// WithinTx runs fn directly against the store. The memory backend offers
// no rollback; partial writes from a failed fn remain visible.
func (s *Store) WithinTx(_ context.Context, fn func(storage.Store) error) error {
	return fn(s)
}

func (s *Store) Close() error { return nil }

// --- accounts ---

func (s *Store) GetAccount(_ context.Context, id string) (core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return core.Account{}, core.NewNotFound("account", id)
	}
	return a, nil
}

func (s *Store) ListAccounts(_ context.Context) ([]core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]core.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

func (s *Store) SaveAccount(_ context.Context, a core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = a
	return nil
}

// --- categories ---

func (s *Store) GetCategory(_ context.Context, id string) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, core.NewNotFound("category", id)
	}
	return c, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	categories := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].SortOrder != categories[j].SortOrder {
			return categories[i].SortOrder < categories[j].SortOrder
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

func (s *Store) SaveCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
	return nil
}

func (s *Store) ListCategoryGroups(_ context.Context) ([]core.CategoryGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups := make([]core.CategoryGroup, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].SortOrder != groups[j].SortOrder {
			return groups[i].SortOrder < groups[j].SortOrder
		}
		return groups[i].Name < groups[j].Name
	})
	return groups, nil
}

func (s *Store) SaveCategoryGroup(_ context.Context, g core.CategoryGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = g
	return nil
}

// --- transactions ---

func copyTransaction(t core.Transaction) core.Transaction {
	if len(t.Splits) > 0 {
		splits := make([]core.Split, len(t.Splits))
		copy(splits, t.Splits)
		t.Splits = splits
	}
	return t
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, core.NewNotFound("transaction", id)
	}
	return copyTransaction(t), nil
}

func (s *Store) listTransactions(filter func(core.Transaction) bool) []core.Transaction {
	var txns []core.Transaction
	for _, t := range s.transactions {
		if filter == nil || filter(t) {
			txns = append(txns, copyTransaction(t))
		}
	}
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.Before(txns[j].Date)
		}
		return txns[i].ID < txns[j].ID
	})
	return txns
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listTransactions(nil), nil
}

func (s *Store) ListAccountTransactions(_ context.Context, accountID string) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listTransactions(func(t core.Transaction) bool { return t.AccountID == accountID }), nil
}

func (s *Store) SaveTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[t.ID] = copyTransaction(t)
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return core.NewNotFound("transaction", id)
	}
	delete(s.transactions, id)
	return nil
}

// --- allocations ---

func (s *Store) GetAllocation(_ context.Context, categoryID, periodKey string) (core.Money, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	amount, ok := s.allocations[allocKey{categoryID, periodKey}]
	return amount, ok, nil
}

func (s *Store) SetAllocation(_ context.Context, categoryID, periodKey string, amount core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allocations[allocKey{categoryID, periodKey}] = amount
	return nil
}

func (s *Store) ListAllocations(_ context.Context) ([]storage.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	allocations := make([]storage.Allocation, 0, len(s.allocations))
	for k, amount := range s.allocations {
		allocations = append(allocations, storage.Allocation{
			CategoryID: k.categoryID,
			PeriodKey:  k.periodKey,
			Amount:     amount,
		})
	}
	sort.Slice(allocations, func(i, j int) bool {
		if allocations[i].CategoryID != allocations[j].CategoryID {
			return allocations[i].CategoryID < allocations[j].CategoryID
		}
		return allocations[i].PeriodKey < allocations[j].PeriodKey
	})
	return allocations, nil
}

// --- targets ---

func (s *Store) GetTarget(_ context.Context, categoryID string) (core.BudgetTarget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.targets[categoryID]
	if !ok {
		return core.BudgetTarget{}, core.NewNotFound("target", categoryID)
	}
	return t, nil
}

func (s *Store) SaveTarget(_ context.Context, t core.BudgetTarget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets[t.CategoryID] = t
	return nil
}

func (s *Store) DeleteTarget(_ context.Context, categoryID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.targets[categoryID]; !ok {
		return false, nil
	}
	delete(s.targets, categoryID)
	return true, nil
}

// --- income expectations ---

func (s *Store) GetExpectedIncome(_ context.Context, periodKey string) (core.IncomeExpectation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inc, ok := s.incomes[periodKey]
	if !ok {
		return core.IncomeExpectation{}, core.NewNotFound("income expectation", periodKey)
	}
	return inc, nil
}

func (s *Store) SaveExpectedIncome(_ context.Context, inc core.IncomeExpectation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes[inc.PeriodKey] = inc
	return nil
}

func (s *Store) DeleteExpectedIncome(_ context.Context, periodKey string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.incomes[periodKey]; !ok {
		return false, nil
	}
	delete(s.incomes, periodKey)
	return true, nil
}

// --- audit log ---

func (s *Store) AppendAudit(_ context.Context, entry storage.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.nextAuditID
	s.nextAuditID++
	s.audit = append(s.audit, entry)
	return nil
}

func (s *Store) ListAudit(_ context.Context, limit int) ([]storage.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]storage.AuditEntry, 0, limit)
	for i := len(s.audit) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, s.audit[i])
	}
	return entries, nil
}
