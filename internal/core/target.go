package core

import (
	"fmt"
	"math"
	"time"
)

// CadenceKind discriminates the TargetCadence variants.
type CadenceKind string

const (
	CadenceWeekly  CadenceKind = "weekly"
	CadenceMonthly CadenceKind = "monthly"
	CadenceYearly  CadenceKind = "yearly"
	CadenceCustom  CadenceKind = "custom"
	CadenceByDate  CadenceKind = "by_date"
)

// TargetCadence is the recurrence rule of a budget target. Days is set
// only for Custom, Date only for ByDate.
type TargetCadence struct {
	Kind CadenceKind `json:"kind"`
	Days int         `json:"days,omitempty"`
	Date Date        `json:"date,omitempty"`
}

func WeeklyCadence() TargetCadence          { return TargetCadence{Kind: CadenceWeekly} }
func MonthlyCadence() TargetCadence         { return TargetCadence{Kind: CadenceMonthly} }
func YearlyCadence() TargetCadence          { return TargetCadence{Kind: CadenceYearly} }
func CustomCadence(days int) TargetCadence  { return TargetCadence{Kind: CadenceCustom, Days: days} }
func ByDateCadence(date Date) TargetCadence { return TargetCadence{Kind: CadenceByDate, Date: date} }

func (c TargetCadence) String() string {
	switch c.Kind {
	case CadenceCustom:
		return fmt.Sprintf("every %d days", c.Days)
	case CadenceByDate:
		return fmt.Sprintf("by %s", c.Date)
	default:
		return string(c.Kind)
	}
}

// BudgetTarget is a recurring funding goal for a single category. At most
// one target exists per category; the allocation engine only reads it.
type BudgetTarget struct {
	ID         string        `json:"id"`
	CategoryID string        `json:"category_id"`
	Amount     Money         `json:"amount"`
	Cadence    TargetCadence `json:"cadence"`
	Notes      string        `json:"notes,omitempty"`
	Active     bool          `json:"active"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (t BudgetTarget) Validate() error {
	if !t.Amount.IsPositive() {
		return invalid("target amount", t.Amount.String(), ErrInvalidAmount)
	}
	if t.Cadence.Kind == CadenceCustom && t.Cadence.Days < 1 {
		return invalid("target cadence", fmt.Sprintf("%d days", t.Cadence.Days), ErrInvalidCustomInterval)
	}
	return nil
}

// roundCents rounds half away from zero.
func roundCents(v float64) Money {
	return FromCents(int64(math.Round(v)))
}

// CalculateForPeriod converts the target's native cadence amount into the
// requested period's scale. Inactive targets contribute nothing.
//
// All conversions round half away from zero, except the Monthly→BiWeekly
// and Yearly→Monthly halvings (integer division, cents truncated) and the
// ByDate remaining-months division, which rounds up so a dated goal is
// never under-funded.
func (t BudgetTarget) CalculateForPeriod(period BudgetPeriod) Money {
	if !t.Active {
		return Zero()
	}
	amount := float64(t.Amount.Cents)
	days := float64(period.Days())

	switch t.Cadence.Kind {
	case CadenceWeekly:
		switch period.Kind {
		case PeriodWeekly:
			return t.Amount
		case PeriodBiWeekly:
			return FromCents(t.Amount.Cents * 2)
		case PeriodMonthly:
			return roundCents(amount * days / 7)
		default:
			return roundCents(amount * days / 7)
		}

	case CadenceMonthly:
		switch period.Kind {
		case PeriodMonthly:
			return t.Amount
		case PeriodWeekly:
			return roundCents(amount / 4.33)
		case PeriodBiWeekly:
			return FromCents(t.Amount.Cents / 2)
		default:
			return roundCents(amount * days / 30)
		}

	case CadenceYearly:
		switch period.Kind {
		case PeriodMonthly:
			return FromCents(t.Amount.Cents / 12)
		case PeriodWeekly:
			return roundCents(amount / 52)
		case PeriodBiWeekly:
			return roundCents(amount / 26)
		default:
			return roundCents(amount * days / 365)
		}

	case CadenceCustom:
		return roundCents(amount * days / float64(t.Cadence.Days))

	case CadenceByDate:
		due := t.Cadence.Date
		if due.Before(period.StartDate()) {
			return Zero()
		}
		if period.Contains(due) {
			return t.Amount
		}
		months := monthsBetween(period.StartDate(), due)
		if months <= 0 {
			return t.Amount
		}
		perMonth := t.Amount.Cents / int64(months)
		if t.Amount.Cents%int64(months) != 0 {
			perMonth++
		}
		return FromCents(perMonth)
	}
	return Zero()
}

// monthsBetween counts whole calendar months from a to b, ignoring the
// day of month.
func monthsBetween(a, b Date) int {
	return (b.Year()-a.Year())*12 + (b.Month() - a.Month())
}
