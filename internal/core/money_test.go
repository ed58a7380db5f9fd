package core

import (
	"errors"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"plain decimal", "10.50", 1050},
		{"negative", "-10.50", -1050},
		{"currency symbol", "$10.50", 1050},
		{"negative with symbol", "-$10.50", -1050},
		{"integer is whole units", "10", 1000},
		{"negative integer", "-7", -700},
		{"one fraction digit scales by ten", "10.5", 1050},
		{"empty fraction", "10.", 1000},
		{"third digit dropped not rounded", "12.999", 1299},
		{"long fraction truncated", "0.129999", 12},
		{"zero", "0", 0},
		{"zero decimal", "0.00", 0},
		{"whitespace trimmed", "  3.25 ", 325},
		{"negative cent", "-0.01", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if err != nil {
				t.Fatalf("ParseMoney(%q) error: %v", tt.input, err)
			}
			if got.Cents != tt.want {
				t.Errorf("ParseMoney(%q) = %d cents, want %d", tt.input, got.Cents, tt.want)
			}
		})
	}
}

func TestParseMoneyInvalid(t *testing.T) {
	inputs := []string{"", "abc", "10.5.0", "1..0", "$", "10.x", "--5", "-$-5", "1,50"}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseMoney(input); !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("ParseMoney(%q) error = %v, want ErrInvalidFormat", input, err)
			}
		})
	}
}

func TestMoneyFormat(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1050, "$10.50"},
		{-1050, "-$10.50"},
		{5, "$0.05"},
		{-5, "-$0.05"},
		{0, "$0.00"},
		{100000, "$1000.00"},
		{123456789, "$1234567.89"},
	}
	for _, tt := range tests {
		if got := FromCents(tt.cents).Format(); got != tt.want {
			t.Errorf("FromCents(%d).Format() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 99, -99, 100, 1050, -1050, 99999, -99999, 1234567890, -1234567890}
	for _, c := range cases {
		m := FromCents(c)
		parsed, err := ParseMoney(m.Format())
		if err != nil {
			t.Fatalf("ParseMoney(%q) error: %v", m.Format(), err)
		}
		if parsed != m {
			t.Errorf("round trip of %d cents via %q gave %d", c, m.Format(), parsed.Cents)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := FromCents(1050)
	b := FromCents(-300)

	if got := a.Add(b); got.Cents != 750 {
		t.Errorf("Add = %d, want 750", got.Cents)
	}
	if got := a.Sub(b); got.Cents != 1350 {
		t.Errorf("Sub = %d, want 1350", got.Cents)
	}
	if got := b.Neg(); got.Cents != 300 {
		t.Errorf("Neg = %d, want 300", got.Cents)
	}
	if got := b.Abs(); got.Cents != 300 {
		t.Errorf("Abs = %d, want 300", got.Cents)
	}
	if got := Sum(a, b, FromCents(50)); got.Cents != 800 {
		t.Errorf("Sum = %d, want 800", got.Cents)
	}
	if !Zero().IsZero() || !a.IsPositive() || !b.IsNegative() {
		t.Error("predicates disagree with values")
	}
}
