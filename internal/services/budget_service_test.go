package services

import (
	"context"
	"errors"
	"testing"

	"envelope/internal/core"
	"envelope/internal/storage/memory"
)

func newBudgetFixture(t *testing.T) (*BudgetService, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	if err := store.SaveAccount(ctx, core.Account{
		ID:              "acct-1",
		Name:            "Checking",
		Type:            core.AccountChecking,
		OnBudget:        true,
		StartingBalance: core.FromCents(100000),
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	if err := store.SaveAccount(ctx, core.Account{
		ID:              "acct-tracking",
		Name:            "Brokerage",
		Type:            core.AccountTracking,
		OnBudget:        false,
		StartingBalance: core.FromCents(999999),
	}); err != nil {
		t.Fatalf("seed tracking account: %v", err)
	}
	for _, c := range []core.Category{
		{ID: "groceries", Name: "Groceries"},
		{ID: "dining", Name: "Dining Out"},
	} {
		if err := store.SaveCategory(ctx, c); err != nil {
			t.Fatalf("seed category: %v", err)
		}
	}
	return NewBudgetService(store, nil), store
}

func seedTxn(t *testing.T, store *memory.Store, id, accountID, categoryID string, date core.Date, cents int64) {
	t.Helper()
	err := store.SaveTransaction(context.Background(), core.Transaction{
		ID:         id,
		AccountID:  accountID,
		Date:       date,
		Amount:     core.FromCents(cents),
		CategoryID: categoryID,
		Status:     core.StatusCleared,
	})
	if err != nil {
		t.Fatalf("seed transaction %s: %v", id, err)
	}
}

func TestRolloverConservation(t *testing.T) {
	svc, store := newBudgetFixture(t)
	ctx := context.Background()

	jan := core.MonthlyPeriod(2025, 1)
	feb := core.MonthlyPeriod(2025, 2)
	mar := core.MonthlyPeriod(2025, 3)

	if err := svc.AssignToCategory(ctx, "groceries", jan, core.FromCents(30000)); err != nil {
		t.Fatalf("assign jan: %v", err)
	}
	if err := svc.AssignToCategory(ctx, "groceries", feb, core.FromCents(20000)); err != nil {
		t.Fatalf("assign feb: %v", err)
	}
	seedTxn(t, store, "t-jan", "acct-1", "groceries", core.NewDate(2025, 1, 15), -12000)
	seedTxn(t, store, "t-feb", "acct-1", "groceries", core.NewDate(2025, 2, 10), -25000)

	// Query out of order to make sure memoization does not skew results.
	marSummary, err := svc.GetCategorySummary(ctx, "groceries", mar)
	if err != nil {
		t.Fatalf("mar summary: %v", err)
	}
	janSummary, err := svc.GetCategorySummary(ctx, "groceries", jan)
	if err != nil {
		t.Fatalf("jan summary: %v", err)
	}
	febSummary, err := svc.GetCategorySummary(ctx, "groceries", feb)
	if err != nil {
		t.Fatalf("feb summary: %v", err)
	}

	if janSummary.Budgeted.Cents != 30000 || janSummary.Activity.Cents != -12000 || janSummary.Available.Cents != 18000 {
		t.Errorf("jan = %+v, want budgeted 30000, activity -12000, available 18000", janSummary)
	}
	if febSummary.Available.Cents != 13000 {
		t.Errorf("feb available = %d, want 13000", febSummary.Available.Cents)
	}
	if marSummary.Budgeted.Cents != 0 || marSummary.Activity.Cents != 0 || marSummary.Available.Cents != 13000 {
		t.Errorf("mar = %+v, want empty period carrying 13000 forward", marSummary)
	}

	// available(P) == available(P-1) + budgeted(P) + activity(P)
	want := janSummary.Available.Add(febSummary.Budgeted).Add(febSummary.Activity)
	if febSummary.Available != want {
		t.Errorf("conservation violated: feb available %d, want %d", febSummary.Available.Cents, want.Cents)
	}
}

func TestRolloverNegativePropagates(t *testing.T) {
	svc, store := newBudgetFixture(t)
	ctx := context.Background()

	jan := core.MonthlyPeriod(2025, 1)
	feb := core.MonthlyPeriod(2025, 2)
	seedTxn(t, store, "t-over", "acct-1", "dining", core.NewDate(2025, 1, 20), -5000)

	janSummary, err := svc.GetCategorySummary(ctx, "dining", jan)
	if err != nil {
		t.Fatalf("jan summary: %v", err)
	}
	if janSummary.Available.Cents != -5000 || !janSummary.Overspent() {
		t.Errorf("jan available = %d, want -5000 overspent", janSummary.Available.Cents)
	}

	if err := svc.AssignToCategory(ctx, "dining", feb, core.FromCents(2000)); err != nil {
		t.Fatalf("assign feb: %v", err)
	}
	febSummary, err := svc.GetCategorySummary(ctx, "dining", feb)
	if err != nil {
		t.Fatalf("feb summary: %v", err)
	}
	if febSummary.Available.Cents != -3000 {
		t.Errorf("feb available = %d, want -3000 (negative carries forward)", febSummary.Available.Cents)
	}
}

func TestSummaryRecomputesAfterMutation(t *testing.T) {
	svc, _ := newBudgetFixture(t)
	ctx := context.Background()
	jan := core.MonthlyPeriod(2025, 1)
	feb := core.MonthlyPeriod(2025, 2)

	if err := svc.AssignToCategory(ctx, "groceries", jan, core.FromCents(10000)); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := svc.GetCategorySummary(ctx, "groceries", feb); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	// Overwrite the January allocation and make sure February reflects it.
	if err := svc.AssignToCategory(ctx, "groceries", jan, core.FromCents(40000)); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	febSummary, err := svc.GetCategorySummary(ctx, "groceries", feb)
	if err != nil {
		t.Fatalf("feb summary: %v", err)
	}
	if febSummary.Available.Cents != 40000 {
		t.Errorf("feb available = %d, want 40000 after reassignment", febSummary.Available.Cents)
	}
}

func TestMoveBetweenCategories(t *testing.T) {
	svc, _ := newBudgetFixture(t)
	ctx := context.Background()
	jan := core.MonthlyPeriod(2025, 1)

	if err := svc.AssignToCategory(ctx, "groceries", jan, core.FromCents(30000)); err != nil {
		t.Fatalf("assign groceries: %v", err)
	}
	if err := svc.AssignToCategory(ctx, "dining", jan, core.FromCents(10000)); err != nil {
		t.Fatalf("assign dining: %v", err)
	}

	before, err := svc.GetAvailableToBudget(ctx, jan)
	if err != nil {
		t.Fatalf("atb before: %v", err)
	}

	if err := svc.MoveBetweenCategories(ctx, "groceries", "dining", jan, core.FromCents(5000)); err != nil {
		t.Fatalf("move: %v", err)
	}

	after, err := svc.GetAvailableToBudget(ctx, jan)
	if err != nil {
		t.Fatalf("atb after: %v", err)
	}
	if before != after {
		t.Errorf("move changed ATB: before %d, after %d", before.Cents, after.Cents)
	}

	groceries, err := svc.GetCategorySummary(ctx, "groceries", jan)
	if err != nil {
		t.Fatalf("groceries summary: %v", err)
	}
	dining, err := svc.GetCategorySummary(ctx, "dining", jan)
	if err != nil {
		t.Fatalf("dining summary: %v", err)
	}
	if groceries.Budgeted.Cents != 25000 {
		t.Errorf("groceries budgeted = %d, want 25000", groceries.Budgeted.Cents)
	}
	if dining.Budgeted.Cents != 15000 {
		t.Errorf("dining budgeted = %d, want 15000", dining.Budgeted.Cents)
	}
}

func TestMoveValidation(t *testing.T) {
	svc, _ := newBudgetFixture(t)
	ctx := context.Background()
	jan := core.MonthlyPeriod(2025, 1)

	tests := []struct {
		name    string
		from    string
		to      string
		cents   int64
		wantErr error
	}{
		{"same category", "groceries", "groceries", 1000, core.ErrSameCategory},
		{"zero amount", "groceries", "dining", 0, core.ErrInvalidAmount},
		{"negative amount", "groceries", "dining", -500, core.ErrInvalidAmount},
		{"unknown source", "nope", "dining", 1000, core.ErrNotFound},
		{"unknown destination", "groceries", "nope", 1000, core.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.MoveBetweenCategories(ctx, tt.from, tt.to, jan, core.FromCents(tt.cents))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("move error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAssignValidation(t *testing.T) {
	svc, _ := newBudgetFixture(t)
	ctx := context.Background()
	jan := core.MonthlyPeriod(2025, 1)

	if err := svc.AssignToCategory(ctx, "nope", jan, core.FromCents(1000)); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("assign unknown category error = %v, want ErrNotFound", err)
	}
	// Negative allocations intentionally reduce available funds.
	if err := svc.AssignToCategory(ctx, "groceries", jan, core.FromCents(-5000)); err != nil {
		t.Errorf("negative assign error = %v, want nil", err)
	}
	summary, err := svc.GetCategorySummary(ctx, "groceries", jan)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Budgeted.Cents != -5000 {
		t.Errorf("budgeted = %d, want -5000", summary.Budgeted.Cents)
	}
}

func TestAvailableToBudget(t *testing.T) {
	svc, store := newBudgetFixture(t)
	ctx := context.Background()
	jan := core.MonthlyPeriod(2025, 1)
	feb := core.MonthlyPeriod(2025, 2)

	seedTxn(t, store, "t-income", "acct-1", "", core.NewDate(2025, 1, 10), 50000)
	seedTxn(t, store, "t-spend", "acct-1", "groceries", core.NewDate(2025, 1, 15), -12000)
	seedTxn(t, store, "t-feb", "acct-1", "", core.NewDate(2025, 2, 5), -10000)
	seedTxn(t, store, "t-offbudget", "acct-tracking", "", core.NewDate(2025, 1, 5), 77777)

	// Transfers redistribute between accounts and never count as inflow.
	if err := store.SaveTransaction(ctx, core.Transaction{
		ID:                    "t-transfer",
		AccountID:             "acct-1",
		Date:                  core.NewDate(2025, 1, 20),
		Amount:                core.FromCents(-7000),
		Status:                core.StatusCleared,
		TransferTransactionID: "t-transfer-other",
	}); err != nil {
		t.Fatalf("seed transfer: %v", err)
	}

	if err := svc.AssignToCategory(ctx, "groceries", jan, core.FromCents(30000)); err != nil {
		t.Fatalf("assign groceries jan: %v", err)
	}
	if err := svc.AssignToCategory(ctx, "dining", jan, core.FromCents(10000)); err != nil {
		t.Fatalf("assign dining jan: %v", err)
	}
	if err := svc.AssignToCategory(ctx, "groceries", feb, core.FromCents(20000)); err != nil {
		t.Fatalf("assign groceries feb: %v", err)
	}

	// 100000 starting + 50000 - 12000, minus January's 40000 assigned.
	// February's allocation starts later and is excluded.
	janATB, err := svc.GetAvailableToBudget(ctx, jan)
	if err != nil {
		t.Fatalf("jan atb: %v", err)
	}
	if janATB.Cents != 98000 {
		t.Errorf("jan ATB = %d, want 98000", janATB.Cents)
	}

	// February adds its own spending and allocation to the running totals.
	febATB, err := svc.GetAvailableToBudget(ctx, feb)
	if err != nil {
		t.Fatalf("feb atb: %v", err)
	}
	if febATB.Cents != 68000 {
		t.Errorf("feb ATB = %d, want 68000", febATB.Cents)
	}
}

func TestAvailableToBudgetOverAssigned(t *testing.T) {
	svc, _ := newBudgetFixture(t)
	ctx := context.Background()
	jan := core.MonthlyPeriod(2025, 1)

	if err := svc.AssignToCategory(ctx, "groceries", jan, core.FromCents(250000)); err != nil {
		t.Fatalf("assign: %v", err)
	}
	atb, err := svc.GetAvailableToBudget(ctx, jan)
	if err != nil {
		t.Fatalf("atb: %v", err)
	}
	if atb.Cents != -150000 {
		t.Errorf("ATB = %d, want -150000 (over-assigned is a valid state)", atb.Cents)
	}
}

func TestBudgetOverview(t *testing.T) {
	svc, store := newBudgetFixture(t)
	ctx := context.Background()
	jan := core.MonthlyPeriod(2025, 1)

	if err := svc.AssignToCategory(ctx, "groceries", jan, core.FromCents(30000)); err != nil {
		t.Fatalf("assign: %v", err)
	}
	seedTxn(t, store, "t-1", "acct-1", "groceries", core.NewDate(2025, 1, 15), -12000)
	seedTxn(t, store, "t-2", "acct-1", "dining", core.NewDate(2025, 1, 16), -4000)

	overview, err := svc.GetBudgetOverview(ctx, jan)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(overview.Categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(overview.Categories))
	}
	if overview.TotalBudgeted.Cents != 30000 {
		t.Errorf("total budgeted = %d, want 30000", overview.TotalBudgeted.Cents)
	}
	if overview.TotalActivity.Cents != -16000 {
		t.Errorf("total activity = %d, want -16000", overview.TotalActivity.Cents)
	}
	if overview.TotalAvailable.Cents != 14000 {
		t.Errorf("total available = %d, want 14000", overview.TotalAvailable.Cents)
	}

	overspent, err := svc.GetOverspentCategories(ctx, jan)
	if err != nil {
		t.Fatalf("overspent: %v", err)
	}
	if len(overspent) != 1 || overspent[0].CategoryID != "dining" {
		t.Errorf("overspent = %+v, want just dining", overspent)
	}
}

func TestTargets(t *testing.T) {
	svc, _ := newBudgetFixture(t)
	ctx := context.Background()

	if _, err := svc.SetTarget(ctx, core.BudgetTarget{
		CategoryID: "groceries",
		Amount:     core.Zero(),
		Cadence:    core.MonthlyCadence(),
		Active:     true,
	}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("zero target error = %v, want ErrInvalidAmount", err)
	}

	if _, err := svc.SetTarget(ctx, core.BudgetTarget{
		CategoryID: "nope",
		Amount:     core.FromCents(1000),
		Cadence:    core.MonthlyCadence(),
		Active:     true,
	}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown category error = %v, want ErrNotFound", err)
	}

	saved, err := svc.SetTarget(ctx, core.BudgetTarget{
		CategoryID: "groceries",
		Amount:     core.FromCents(120000),
		Cadence:    core.YearlyCadence(),
		Active:     true,
	})
	if err != nil {
		t.Fatalf("set target: %v", err)
	}
	if saved.ID == "" {
		t.Error("target should receive an id")
	}

	// A $1,200.00 yearly target suggests exactly $100.00 per month.
	suggested, err := svc.SuggestedForPeriod(ctx, "groceries", core.MonthlyPeriod(2025, 1))
	if err != nil {
		t.Fatalf("suggested: %v", err)
	}
	if suggested.Cents != 10000 {
		t.Errorf("suggested = %d, want 10000", suggested.Cents)
	}

	// Setting again replaces the single target, keeping its identity.
	replaced, err := svc.SetTarget(ctx, core.BudgetTarget{
		CategoryID: "groceries",
		Amount:     core.FromCents(12000),
		Cadence:    core.MonthlyCadence(),
		Active:     true,
	})
	if err != nil {
		t.Fatalf("replace target: %v", err)
	}
	if replaced.ID != saved.ID {
		t.Errorf("replacement changed id from %s to %s", saved.ID, replaced.ID)
	}
	suggested, err = svc.SuggestedForPeriod(ctx, "groceries", core.MonthlyPeriod(2025, 1))
	if err != nil {
		t.Fatalf("suggested after replace: %v", err)
	}
	if suggested.Cents != 12000 {
		t.Errorf("suggested = %d, want 12000 (monthly target unchanged per month)", suggested.Cents)
	}

	existed, err := svc.RemoveTarget(ctx, "groceries")
	if err != nil || !existed {
		t.Errorf("remove = (%v, %v), want (true, nil)", existed, err)
	}
	existed, err = svc.RemoveTarget(ctx, "groceries")
	if err != nil || existed {
		t.Errorf("second remove = (%v, %v), want (false, nil)", existed, err)
	}
}

func TestIncomeComparison(t *testing.T) {
	svc, _ := newBudgetFixture(t)
	ctx := context.Background()
	jan := core.MonthlyPeriod(2025, 1)

	// Without an expectation the helpers report nothing to compare.
	over, err := svc.IsOverExpectedIncome(ctx, jan)
	if err != nil || over {
		t.Errorf("IsOverExpectedIncome = (%v, %v), want (false, nil)", over, err)
	}
	if _, ok, err := svc.RemainingToBudgetFromIncome(ctx, jan); err != nil || ok {
		t.Errorf("remaining without expectation: ok = %v, err = %v", ok, err)
	}

	if _, err := svc.SetExpectedIncome(ctx, jan, core.FromCents(40000), "salary"); err != nil {
		t.Fatalf("set expected income: %v", err)
	}
	if err := svc.AssignToCategory(ctx, "groceries", jan, core.FromCents(30000)); err != nil {
		t.Fatalf("assign: %v", err)
	}

	remaining, ok, err := svc.RemainingToBudgetFromIncome(ctx, jan)
	if err != nil || !ok {
		t.Fatalf("remaining: ok = %v, err = %v", ok, err)
	}
	if remaining.Cents != 10000 {
		t.Errorf("remaining = %d, want 10000", remaining.Cents)
	}
	over, err = svc.IsOverExpectedIncome(ctx, jan)
	if err != nil || over {
		t.Errorf("within income should not be over: (%v, %v)", over, err)
	}

	if err := svc.AssignToCategory(ctx, "dining", jan, core.FromCents(15000)); err != nil {
		t.Fatalf("assign dining: %v", err)
	}
	over, err = svc.IsOverExpectedIncome(ctx, jan)
	if err != nil || !over {
		t.Errorf("45000 budgeted vs 40000 expected should be over: (%v, %v)", over, err)
	}

	existed, err := svc.DeleteExpectedIncome(ctx, jan)
	if err != nil || !existed {
		t.Errorf("delete = (%v, %v), want (true, nil)", existed, err)
	}
}
