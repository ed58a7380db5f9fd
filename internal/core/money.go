// Package core holds the domain types of the budgeting engine: exact
// integer-cent money, budget periods, recurring targets, and the account,
// category and transaction records the services operate on.
//
// All monetary values are integer minor units. Nothing in this package
// ever touches floating point except target cadence projection, whose
// rounding rules are pinned down in target.go.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is a monetary amount in signed minor units (cents).
type Money struct {
	Cents int64
}

func FromCents(cents int64) Money { return Money{Cents: cents} }

func Zero() Money { return Money{} }

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }
func (m Money) Neg() Money        { return Money{Cents: -m.Cents} }

func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

func (m Money) IsZero() bool     { return m.Cents == 0 }
func (m Money) IsPositive() bool { return m.Cents > 0 }
func (m Money) IsNegative() bool { return m.Cents < 0 }

// Sum folds a slice of amounts into a single total.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// ParseMoney parses a money amount from user input.
//
// Accepted forms: "10.50", "-10.50", "$10.50", "10" (whole units), "10.5".
// A single fraction digit is scaled by ten; anything past the second
// fraction digit is dropped without rounding, so "12.999" parses to 12.99.
func ParseMoney(s string) (Money, error) {
	orig := s
	s = strings.TrimSpace(s)

	negative := false
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		negative = true
		s = rest
	}
	s = strings.TrimPrefix(s, "$")

	var cents int64
	if strings.Contains(s, ".") {
		parts := strings.Split(s, ".")
		if len(parts) != 2 {
			return Zero(), invalid("amount", orig, ErrInvalidFormat)
		}

		units, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil || strings.HasPrefix(parts[0], "-") {
			return Zero(), invalid("amount", orig, ErrInvalidFormat)
		}

		frac := parts[1]
		var fracCents int64
		switch len(frac) {
		case 0:
			fracCents = 0
		case 1:
			d, err := strconv.ParseInt(frac, 10, 64)
			if err != nil {
				return Zero(), invalid("amount", orig, ErrInvalidFormat)
			}
			fracCents = d * 10
		default:
			d, err := strconv.ParseInt(frac[:2], 10, 64)
			if err != nil {
				return Zero(), invalid("amount", orig, ErrInvalidFormat)
			}
			fracCents = d
		}

		cents = units*100 + fracCents
	} else {
		units, err := strconv.ParseInt(s, 10, 64)
		if err != nil || strings.HasPrefix(s, "-") {
			return Zero(), invalid("amount", orig, ErrInvalidFormat)
		}
		cents = units * 100
	}

	if negative {
		cents = -cents
	}
	return Money{Cents: cents}, nil
}

// MarshalJSON renders the amount as a bare integer of minor units.
func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, m.Cents, 10), nil
}

// UnmarshalJSON accepts a bare integer of minor units.
func (m *Money) UnmarshalJSON(b []byte) error {
	cents, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return invalid("amount", string(b), ErrInvalidFormat)
	}
	m.Cents = cents
	return nil
}

// Format renders the amount with a currency symbol and exactly two
// fraction digits, e.g. "$10.50", "-$0.05".
func (m Money) Format() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func (m Money) String() string { return m.Format() }
