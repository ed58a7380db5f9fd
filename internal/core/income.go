package core

import "time"

// IncomeExpectation records the income the user expects for one period,
// compared against that period's budgeted total.
type IncomeExpectation struct {
	ID        string    `json:"id"`
	PeriodKey string    `json:"period_key"`
	Amount    Money     `json:"amount"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
