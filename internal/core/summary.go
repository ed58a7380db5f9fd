package core

// CategoryBudgetSummary is the derived per-category view for one period.
// It is computed on demand and never persisted.
type CategoryBudgetSummary struct {
	CategoryID string `json:"category_id"`
	Budgeted   Money  `json:"budgeted"`
	Activity   Money  `json:"activity"`
	Available  Money  `json:"available"`
}

// Overspent reports whether the category's rolled-over balance is negative.
func (s CategoryBudgetSummary) Overspent() bool { return s.Available.IsNegative() }

// BudgetOverview aggregates every category's summary for one period
// together with the global figures.
type BudgetOverview struct {
	Period            BudgetPeriod            `json:"period"`
	Categories        []CategoryBudgetSummary `json:"categories"`
	TotalBudgeted     Money                   `json:"total_budgeted"`
	TotalActivity     Money                   `json:"total_activity"`
	TotalAvailable    Money                   `json:"total_available"`
	AvailableToBudget Money                   `json:"available_to_budget"`
}
