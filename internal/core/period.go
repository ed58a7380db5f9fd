package core

import (
	"fmt"
	"strconv"
	"strings"
)

// PeriodKind discriminates the BudgetPeriod variants.
type PeriodKind string

const (
	PeriodMonthly  PeriodKind = "monthly"
	PeriodWeekly   PeriodKind = "weekly"
	PeriodBiWeekly PeriodKind = "biweekly"
	PeriodCustom   PeriodKind = "custom"
)

// BudgetPeriod is a tagged union over the supported period variants.
// Which fields are meaningful depends on Kind:
//
//	Monthly:  Year, Month
//	Weekly:   Year, Week (ISO week, Monday–Sunday)
//	BiWeekly: Start (14-day window)
//	Custom:   Start, End (inclusive)
type BudgetPeriod struct {
	Kind  PeriodKind `json:"kind"`
	Year  int        `json:"year,omitempty"`
	Month int        `json:"month,omitempty"`
	Week  int        `json:"week,omitempty"`
	Start Date       `json:"start,omitempty"`
	End   Date       `json:"end,omitempty"`
}

func MonthlyPeriod(year, month int) BudgetPeriod {
	return BudgetPeriod{Kind: PeriodMonthly, Year: year, Month: month}
}

func WeeklyPeriod(year, week int) BudgetPeriod {
	return BudgetPeriod{Kind: PeriodWeekly, Year: year, Week: week}
}

func BiWeeklyPeriod(start Date) BudgetPeriod {
	return BudgetPeriod{Kind: PeriodBiWeekly, Start: start}
}

func CustomPeriod(start, end Date) BudgetPeriod {
	return BudgetPeriod{Kind: PeriodCustom, Start: start, End: end}
}

// CurrentMonth returns the monthly period containing today.
func CurrentMonth() BudgetPeriod {
	today := Today()
	return MonthlyPeriod(today.Year(), today.Month())
}

// isoWeekStart returns the Monday of the given ISO week.
// January 4 always falls in ISO week 1.
func isoWeekStart(year, week int) Date {
	jan4 := NewDate(year, 1, 4)
	weekday := int(jan4.Time.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	week1Monday := jan4.AddDays(1 - weekday)
	return week1Monday.AddDays((week - 1) * 7)
}

// isoWeeksInYear returns 52 or 53: the ISO week number of December 28,
// which is always in the last week of its year.
func isoWeeksInYear(year int) int {
	_, w := NewDate(year, 12, 28).Time.ISOWeek()
	return w
}

// StartDate returns the first day of the period.
func (p BudgetPeriod) StartDate() Date {
	switch p.Kind {
	case PeriodMonthly:
		return NewDate(p.Year, p.Month, 1)
	case PeriodWeekly:
		return isoWeekStart(p.Year, p.Week)
	case PeriodBiWeekly:
		return p.Start
	default:
		return p.Start
	}
}

// EndDate returns the last day of the period, inclusive.
func (p BudgetPeriod) EndDate() Date {
	switch p.Kind {
	case PeriodMonthly:
		firstOfNext := NewDate(p.Year, p.Month, 1).Time.AddDate(0, 1, 0)
		return Date{Time: firstOfNext}.AddDays(-1)
	case PeriodWeekly:
		return p.StartDate().AddDays(6)
	case PeriodBiWeekly:
		return p.Start.AddDays(13)
	default:
		return p.End
	}
}

// Contains reports whether the date falls inside the period.
func (p BudgetPeriod) Contains(d Date) bool {
	return !d.Before(p.StartDate()) && !d.After(p.EndDate())
}

// Days returns the period length in days, inclusive of both endpoints.
func (p BudgetPeriod) Days() int {
	return p.StartDate().DaysUntil(p.EndDate()) + 1
}

// Next returns the immediately following period of the same variant,
// with no gap or overlap.
func (p BudgetPeriod) Next() BudgetPeriod {
	switch p.Kind {
	case PeriodMonthly:
		if p.Month == 12 {
			return MonthlyPeriod(p.Year+1, 1)
		}
		return MonthlyPeriod(p.Year, p.Month+1)
	case PeriodWeekly:
		if p.Week >= isoWeeksInYear(p.Year) {
			return WeeklyPeriod(p.Year+1, 1)
		}
		return WeeklyPeriod(p.Year, p.Week+1)
	case PeriodBiWeekly:
		return BiWeeklyPeriod(p.Start.AddDays(14))
	default:
		length := p.Start.DaysUntil(p.End)
		return CustomPeriod(p.End.AddDays(1), p.End.AddDays(length+1))
	}
}

// Prev returns the immediately preceding period; exact inverse of Next.
func (p BudgetPeriod) Prev() BudgetPeriod {
	switch p.Kind {
	case PeriodMonthly:
		if p.Month == 1 {
			return MonthlyPeriod(p.Year-1, 12)
		}
		return MonthlyPeriod(p.Year, p.Month-1)
	case PeriodWeekly:
		if p.Week == 1 {
			return WeeklyPeriod(p.Year-1, isoWeeksInYear(p.Year-1))
		}
		return WeeklyPeriod(p.Year, p.Week-1)
	case PeriodBiWeekly:
		return BiWeeklyPeriod(p.Start.AddDays(-14))
	default:
		length := p.Start.DaysUntil(p.End)
		return CustomPeriod(p.Start.AddDays(-length-1), p.Start.AddDays(-1))
	}
}

// Before orders periods by start date, across variants.
func (p BudgetPeriod) Before(other BudgetPeriod) bool {
	return p.StartDate().Before(other.StartDate())
}

// Equal compares variant and identifying fields.
func (p BudgetPeriod) Equal(other BudgetPeriod) bool {
	if p.Kind != other.Kind {
		return false
	}
	switch p.Kind {
	case PeriodMonthly:
		return p.Year == other.Year && p.Month == other.Month
	case PeriodWeekly:
		return p.Year == other.Year && p.Week == other.Week
	case PeriodBiWeekly:
		return p.Start.Equal(other.Start)
	default:
		return p.Start.Equal(other.Start) && p.End.Equal(other.End)
	}
}

// Key returns a stable identifier used as a storage key.
func (p BudgetPeriod) Key() string { return p.String() }

func (p BudgetPeriod) String() string {
	switch p.Kind {
	case PeriodMonthly:
		return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
	case PeriodWeekly:
		return fmt.Sprintf("%04d-W%02d", p.Year, p.Week)
	case PeriodBiWeekly:
		return fmt.Sprintf("%s..%s", p.Start, p.Start.AddDays(13))
	default:
		return fmt.Sprintf("%s..%s", p.Start, p.End)
	}
}

// ParsePeriod parses a period string. Recognized forms, in order:
//
//	"2025-W03"                 ISO week
//	"2025-01-01..2025-01-15"   custom range
//	"2025-01"                  calendar month
func ParsePeriod(s string) (BudgetPeriod, error) {
	orig := s
	s = strings.TrimSpace(s)

	if strings.Contains(s, "W") {
		parts := strings.SplitN(s, "-W", 2)
		if len(parts) == 2 {
			year, errY := strconv.Atoi(parts[0])
			week, errW := strconv.Atoi(parts[1])
			if errY != nil || errW != nil {
				return BudgetPeriod{}, invalid("period", orig, ErrInvalidFormat)
			}
			return WeeklyPeriod(year, week), nil
		}
	}

	if strings.Contains(s, "..") {
		parts := strings.SplitN(s, "..", 2)
		if len(parts) == 2 {
			start, errS := ParseDate(parts[0])
			end, errE := ParseDate(parts[1])
			if errS != nil || errE != nil {
				return BudgetPeriod{}, invalid("period", orig, ErrInvalidFormat)
			}
			return CustomPeriod(start, end), nil
		}
	}

	parts := strings.Split(s, "-")
	if len(parts) == 2 {
		year, errY := strconv.Atoi(parts[0])
		month, errM := strconv.Atoi(parts[1])
		if errY != nil || errM != nil {
			return BudgetPeriod{}, invalid("period", orig, ErrInvalidFormat)
		}
		if month < 1 || month > 12 {
			return BudgetPeriod{}, invalid("period", orig, ErrInvalidMonth)
		}
		return MonthlyPeriod(year, month), nil
	}

	return BudgetPeriod{}, invalid("period", orig, ErrInvalidFormat)
}
