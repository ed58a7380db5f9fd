// Package services implements the budgeting engine on top of the storage
// ports: allocation and rollover math, reconciliation sessions, and the
// transaction edit guard rails.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"envelope/internal/amqp"
	"envelope/internal/core"
	"envelope/internal/storage"
)

type availKey struct {
	categoryID string
	periodKey  string
}

// BudgetService is the allocation engine: per-category summaries with
// recursive rollover, the global Available-to-Budget figure, assignment
// and inter-category moves, targets, and income comparison.
type BudgetService struct {
	store  storage.Store
	events *amqp.Client

	// memo caches computed available balances per (category, period).
	// Mutations invalidate the affected category so a cached value never
	// disagrees with a from-scratch recomputation.
	mu   sync.Mutex
	memo map[availKey]core.Money
}

func NewBudgetService(store storage.Store, events *amqp.Client) *BudgetService {
	return &BudgetService{
		store:  store,
		events: events,
		memo:   make(map[availKey]core.Money),
	}
}

func (s *BudgetService) memoGet(categoryID, periodKey string) (core.Money, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.memo[availKey{categoryID, periodKey}]
	return v, ok
}

func (s *BudgetService) memoSet(categoryID, periodKey string, v core.Money) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memo[availKey{categoryID, periodKey}] = v
}

// InvalidateCategory drops every cached available balance for the
// category. Called after any mutation that changes its allocations or
// activity.
func (s *BudgetService) InvalidateCategory(categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.memo {
		if k.categoryID == categoryID {
			delete(s.memo, k)
		}
	}
}

// InvalidateAll drops the whole cache. Used when a mutation's affected
// categories are not known precisely, e.g. split edits.
func (s *BudgetService) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memo = make(map[availKey]core.Money)
}

// AssignToCategory sets (overwrites) the allocation for the category and
// period. Negative amounts are permitted; they intentionally reduce the
// category's available funds.
func (s *BudgetService) AssignToCategory(ctx context.Context, categoryID string, period core.BudgetPeriod, amount core.Money) error {
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		return err
	}
	if err := s.store.SetAllocation(ctx, categoryID, period.Key(), amount); err != nil {
		return fmt.Errorf("assign to category: %w", err)
	}
	s.InvalidateCategory(categoryID)

	s.publishEvent(ctx, amqp.NewBudgetEvent(amqp.EventAllocationAssigned, categoryID, period.Key(), amount.Cents))
	return nil
}

// MoveBetweenCategories atomically shifts amount from one category's
// period allocation to another's. It redistributes already-assigned funds
// and therefore never changes the Available-to-Budget figure.
func (s *BudgetService) MoveBetweenCategories(ctx context.Context, fromID, toID string, period core.BudgetPeriod, amount core.Money) error {
	if fromID == toID {
		return fmt.Errorf("move from %q to %q: %w", fromID, toID, core.ErrSameCategory)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("move amount %s: %w", amount, core.ErrInvalidAmount)
	}
	if _, err := s.store.GetCategory(ctx, fromID); err != nil {
		return err
	}
	if _, err := s.store.GetCategory(ctx, toID); err != nil {
		return err
	}

	key := period.Key()
	err := s.store.WithinTx(ctx, func(tx storage.Store) error {
		fromAlloc, _, err := tx.GetAllocation(ctx, fromID, key)
		if err != nil {
			return err
		}
		toAlloc, _, err := tx.GetAllocation(ctx, toID, key)
		if err != nil {
			return err
		}
		if err := tx.SetAllocation(ctx, fromID, key, fromAlloc.Sub(amount)); err != nil {
			return err
		}
		return tx.SetAllocation(ctx, toID, key, toAlloc.Add(amount))
	})
	if err != nil {
		return fmt.Errorf("move between categories: %w", err)
	}
	s.InvalidateCategory(fromID)
	s.InvalidateCategory(toID)

	event := amqp.NewBudgetEvent(amqp.EventFundsMoved, toID, key, amount.Cents)
	event.Detail = fmt.Sprintf("from %s", fromID)
	s.publishEvent(ctx, event)
	return nil
}

// GetCategorySummary computes the budgeted/activity/available triple for
// one category and period.
func (s *BudgetService) GetCategorySummary(ctx context.Context, categoryID string, period core.BudgetPeriod) (core.CategoryBudgetSummary, error) {
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		return core.CategoryBudgetSummary{}, err
	}

	budgeted, _, err := s.store.GetAllocation(ctx, categoryID, period.Key())
	if err != nil {
		return core.CategoryBudgetSummary{}, err
	}

	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.CategoryBudgetSummary{}, err
	}
	allocations, err := s.store.ListAllocations(ctx)
	if err != nil {
		return core.CategoryBudgetSummary{}, err
	}

	available, err := s.available(categoryID, period, allocations, txns)
	if err != nil {
		return core.CategoryBudgetSummary{}, err
	}

	return core.CategoryBudgetSummary{
		CategoryID: categoryID,
		Budgeted:   budgeted,
		Activity:   activityFor(txns, categoryID, period),
		Available:  available,
	}, nil
}

// activityFor sums the category's share of every non-transfer transaction
// dated within the period. Split transactions contribute only the
// matching split portions.
func activityFor(txns []core.Transaction, categoryID string, period core.BudgetPeriod) core.Money {
	total := core.Zero()
	for _, t := range txns {
		if !period.Contains(t.Date) {
			continue
		}
		total = total.Add(t.CategoryAmount(categoryID))
	}
	return total
}

// available rolls the category balance forward: each period contributes
// budgeted + activity on top of the previous period's available, and a
// negative balance carries forward unchanged. The walk starts at the
// first period the category has any allocation or activity in.
func (s *BudgetService) available(categoryID string, period core.BudgetPeriod, allocations []storage.Allocation, txns []core.Transaction) (core.Money, error) {
	budgetedByKey := make(map[string]core.Money)
	earliest, haveData, err := earliestCategoryDate(categoryID, allocations, txns, budgetedByKey)
	if err != nil {
		return core.Zero(), err
	}
	if !haveData {
		return core.Zero(), nil
	}

	total := core.Zero()
	var pending []core.BudgetPeriod
	for p := period; ; p = p.Prev() {
		if v, ok := s.memoGet(categoryID, p.Key()); ok {
			total = v
			break
		}
		if p.EndDate().Before(earliest) {
			break
		}
		pending = append(pending, p)
	}

	for i := len(pending) - 1; i >= 0; i-- {
		p := pending[i]
		total = total.Add(budgetedByKey[p.Key()]).Add(activityFor(txns, categoryID, p))
		s.memoSet(categoryID, p.Key(), total)
	}
	return total, nil
}

// earliestCategoryDate finds the first date the category has an
// allocation or activity on, filling budgetedByKey with its allocations
// along the way.
func earliestCategoryDate(categoryID string, allocations []storage.Allocation, txns []core.Transaction, budgetedByKey map[string]core.Money) (core.Date, bool, error) {
	var earliest core.Date
	have := false
	observe := func(d core.Date) {
		if !have || d.Before(earliest) {
			earliest = d
			have = true
		}
	}

	for _, a := range allocations {
		if a.CategoryID != categoryID {
			continue
		}
		budgetedByKey[a.PeriodKey] = a.Amount
		p, err := core.ParsePeriod(a.PeriodKey)
		if err != nil {
			return core.Date{}, false, fmt.Errorf("allocation period key %q: %w", a.PeriodKey, err)
		}
		observe(p.StartDate())
	}
	for _, t := range txns {
		if transactionTouchesCategory(t, categoryID) {
			observe(t.Date)
		}
	}
	return earliest, have, nil
}

func transactionTouchesCategory(t core.Transaction, categoryID string) bool {
	if t.IsTransfer() {
		return false
	}
	if t.CategoryID == categoryID {
		return true
	}
	for _, sp := range t.Splits {
		if sp.CategoryID == categoryID {
			return true
		}
	}
	return false
}

// GetAvailableToBudget returns the funds not yet assigned to any
// category: cumulative on-budget inflow through the period's end minus
// every allocation for any period starting on or before this one.
// Negative means over-assigned, which is a valid displayable state.
func (s *BudgetService) GetAvailableToBudget(ctx context.Context, period core.BudgetPeriod) (core.Money, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return core.Zero(), err
	}
	onBudget := make(map[string]bool, len(accounts))
	inflow := core.Zero()
	for _, a := range accounts {
		if a.OnBudget {
			onBudget[a.ID] = true
			inflow = inflow.Add(a.StartingBalance)
		}
	}

	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.Zero(), err
	}
	end := period.EndDate()
	for _, t := range txns {
		if t.IsTransfer() || !onBudget[t.AccountID] || t.Date.After(end) {
			continue
		}
		inflow = inflow.Add(t.Amount)
	}

	allocations, err := s.store.ListAllocations(ctx)
	if err != nil {
		return core.Zero(), err
	}
	start := period.StartDate()
	allocated := core.Zero()
	for _, a := range allocations {
		p, err := core.ParsePeriod(a.PeriodKey)
		if err != nil {
			return core.Zero(), fmt.Errorf("allocation period key %q: %w", a.PeriodKey, err)
		}
		if p.StartDate().After(start) {
			continue
		}
		allocated = allocated.Add(a.Amount)
	}

	return inflow.Sub(allocated), nil
}

// GetBudgetOverview assembles every non-archived category's summary for
// the period together with the totals and the ATB figure.
func (s *BudgetService) GetBudgetOverview(ctx context.Context, period core.BudgetPeriod) (core.BudgetOverview, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return core.BudgetOverview{}, err
	}

	overview := core.BudgetOverview{Period: period}
	for _, c := range categories {
		if c.Archived {
			continue
		}
		summary, err := s.GetCategorySummary(ctx, c.ID, period)
		if err != nil {
			return core.BudgetOverview{}, err
		}
		overview.Categories = append(overview.Categories, summary)
		overview.TotalBudgeted = overview.TotalBudgeted.Add(summary.Budgeted)
		overview.TotalActivity = overview.TotalActivity.Add(summary.Activity)
		overview.TotalAvailable = overview.TotalAvailable.Add(summary.Available)
	}

	atb, err := s.GetAvailableToBudget(ctx, period)
	if err != nil {
		return core.BudgetOverview{}, err
	}
	overview.AvailableToBudget = atb
	return overview, nil
}

// GetOverspentCategories lists the categories whose rolled-over balance
// is negative for the period.
func (s *BudgetService) GetOverspentCategories(ctx context.Context, period core.BudgetPeriod) ([]core.CategoryBudgetSummary, error) {
	overview, err := s.GetBudgetOverview(ctx, period)
	if err != nil {
		return nil, err
	}
	var overspent []core.CategoryBudgetSummary
	for _, summary := range overview.Categories {
		if summary.Overspent() {
			overspent = append(overspent, summary)
		}
	}
	return overspent, nil
}

// --- targets ---

func (s *BudgetService) GetTarget(ctx context.Context, categoryID string) (core.BudgetTarget, error) {
	return s.store.GetTarget(ctx, categoryID)
}

// SetTarget creates or replaces the category's single target.
func (s *BudgetService) SetTarget(ctx context.Context, target core.BudgetTarget) (core.BudgetTarget, error) {
	if err := target.Validate(); err != nil {
		return core.BudgetTarget{}, err
	}
	if _, err := s.store.GetCategory(ctx, target.CategoryID); err != nil {
		return core.BudgetTarget{}, err
	}

	now := time.Now().UTC()
	if target.ID == "" {
		target.ID = uuid.NewString()
		target.CreatedAt = now
	}
	if existing, err := s.store.GetTarget(ctx, target.CategoryID); err == nil {
		target.ID = existing.ID
		target.CreatedAt = existing.CreatedAt
	}
	target.UpdatedAt = now

	if err := s.store.SaveTarget(ctx, target); err != nil {
		return core.BudgetTarget{}, fmt.Errorf("set target: %w", err)
	}
	return target, nil
}

// RemoveTarget deletes the category's target, reporting whether one
// existed.
func (s *BudgetService) RemoveTarget(ctx context.Context, categoryID string) (bool, error) {
	return s.store.DeleteTarget(ctx, categoryID)
}

// SuggestedForPeriod projects the category's target onto the period.
func (s *BudgetService) SuggestedForPeriod(ctx context.Context, categoryID string, period core.BudgetPeriod) (core.Money, error) {
	target, err := s.store.GetTarget(ctx, categoryID)
	if err != nil {
		return core.Zero(), err
	}
	return target.CalculateForPeriod(period), nil
}

// --- income comparison ---

func (s *BudgetService) SetExpectedIncome(ctx context.Context, period core.BudgetPeriod, amount core.Money, notes string) (core.IncomeExpectation, error) {
	now := time.Now().UTC()
	income := core.IncomeExpectation{
		ID:        uuid.NewString(),
		PeriodKey: period.Key(),
		Amount:    amount,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, err := s.store.GetExpectedIncome(ctx, period.Key()); err == nil {
		income.ID = existing.ID
		income.CreatedAt = existing.CreatedAt
	}
	if err := s.store.SaveExpectedIncome(ctx, income); err != nil {
		return core.IncomeExpectation{}, fmt.Errorf("set expected income: %w", err)
	}
	return income, nil
}

func (s *BudgetService) GetExpectedIncome(ctx context.Context, period core.BudgetPeriod) (core.IncomeExpectation, error) {
	return s.store.GetExpectedIncome(ctx, period.Key())
}

func (s *BudgetService) DeleteExpectedIncome(ctx context.Context, period core.BudgetPeriod) (bool, error) {
	return s.store.DeleteExpectedIncome(ctx, period.Key())
}

// periodBudgetedTotal sums the allocations assigned to this period alone,
// not cumulatively across periods.
func (s *BudgetService) periodBudgetedTotal(ctx context.Context, period core.BudgetPeriod) (core.Money, error) {
	allocations, err := s.store.ListAllocations(ctx)
	if err != nil {
		return core.Zero(), err
	}
	key := period.Key()
	total := core.Zero()
	for _, a := range allocations {
		if a.PeriodKey == key {
			total = total.Add(a.Amount)
		}
	}
	return total, nil
}

// IsOverExpectedIncome reports whether this period's budgeted total
// exceeds the expected income. Without an expectation it reports false.
func (s *BudgetService) IsOverExpectedIncome(ctx context.Context, period core.BudgetPeriod) (bool, error) {
	income, err := s.store.GetExpectedIncome(ctx, period.Key())
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	budgeted, err := s.periodBudgetedTotal(ctx, period)
	if err != nil {
		return false, err
	}
	return budgeted.Sub(income.Amount).IsPositive(), nil
}

// RemainingToBudgetFromIncome returns expected income minus this period's
// budgeted total. The ok result is false when no expectation is set.
func (s *BudgetService) RemainingToBudgetFromIncome(ctx context.Context, period core.BudgetPeriod) (core.Money, bool, error) {
	income, err := s.store.GetExpectedIncome(ctx, period.Key())
	if errors.Is(err, core.ErrNotFound) {
		return core.Zero(), false, nil
	}
	if err != nil {
		return core.Zero(), false, err
	}
	budgeted, err := s.periodBudgetedTotal(ctx, period)
	if err != nil {
		return core.Zero(), false, err
	}
	return income.Amount.Sub(budgeted), true, nil
}

func (s *BudgetService) publishEvent(ctx context.Context, event *amqp.BudgetEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishBudgetEvent(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish budget event",
			"type", event.Type, "error", err)
		// Don't fail the operation - the mutation is already persisted
	}
}
