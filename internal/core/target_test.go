package core

import (
	"errors"
	"testing"
)

func activeTarget(amount Money, cadence TargetCadence) BudgetTarget {
	return BudgetTarget{
		ID:         "t1",
		CategoryID: "c1",
		Amount:     amount,
		Cadence:    cadence,
		Active:     true,
	}
}

func TestTargetValidate(t *testing.T) {
	tests := []struct {
		name    string
		target  BudgetTarget
		wantErr error
	}{
		{"valid monthly", activeTarget(FromCents(12000), MonthlyCadence()), nil},
		{"zero amount", activeTarget(Zero(), MonthlyCadence()), ErrInvalidAmount},
		{"negative amount", activeTarget(FromCents(-100), WeeklyCadence()), ErrInvalidAmount},
		{"custom zero days", activeTarget(FromCents(1000), CustomCadence(0)), ErrInvalidCustomInterval},
		{"custom one day ok", activeTarget(FromCents(1000), CustomCadence(1)), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalculateForPeriod(t *testing.T) {
	tests := []struct {
		name   string
		target BudgetTarget
		period BudgetPeriod
		want   int64
	}{
		{"monthly to monthly unchanged", activeTarget(FromCents(12000), MonthlyCadence()), MonthlyPeriod(2025, 1), 12000},
		{"yearly to monthly integer division", activeTarget(FromCents(120000), YearlyCadence()), MonthlyPeriod(2025, 1), 10000},
		{"yearly to monthly truncates", activeTarget(FromCents(100001), YearlyCadence()), MonthlyPeriod(2025, 1), 8333},
		{"yearly to weekly", activeTarget(FromCents(120000), YearlyCadence()), WeeklyPeriod(2025, 3), 2308},
		{"yearly to biweekly", activeTarget(FromCents(120000), YearlyCadence()), BiWeeklyPeriod(NewDate(2025, 3, 10)), 4615},
		{"yearly to custom", activeTarget(FromCents(120000), YearlyCadence()), CustomPeriod(NewDate(2025, 1, 1), NewDate(2025, 3, 14)), 24000},

		{"weekly to weekly unchanged", activeTarget(FromCents(7000), WeeklyCadence()), WeeklyPeriod(2025, 3), 7000},
		{"weekly to biweekly doubles", activeTarget(FromCents(7000), WeeklyCadence()), BiWeeklyPeriod(NewDate(2025, 3, 10)), 14000},
		{"weekly to january", activeTarget(FromCents(7000), WeeklyCadence()), MonthlyPeriod(2025, 1), 31000},
		{"weekly to leap february", activeTarget(FromCents(7000), WeeklyCadence()), MonthlyPeriod(2024, 2), 29000},
		{"weekly to custom", activeTarget(FromCents(7000), WeeklyCadence()), CustomPeriod(NewDate(2025, 1, 1), NewDate(2025, 1, 10)), 10000},

		{"monthly to weekly", activeTarget(FromCents(10000), MonthlyCadence()), WeeklyPeriod(2025, 3), 2309},
		{"monthly to biweekly truncates", activeTarget(FromCents(10001), MonthlyCadence()), BiWeeklyPeriod(NewDate(2025, 3, 10)), 5000},
		{"monthly to custom", activeTarget(FromCents(10000), MonthlyCadence()), CustomPeriod(NewDate(2025, 1, 1), NewDate(2025, 1, 15)), 5000},

		{"custom cadence scales by days", activeTarget(FromCents(5000), CustomCadence(10)), MonthlyPeriod(2025, 2), 14000},
		{"custom cadence to weekly", activeTarget(FromCents(5000), CustomCadence(10)), WeeklyPeriod(2025, 3), 3500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.target.CalculateForPeriod(tt.period)
			if got.Cents != tt.want {
				t.Errorf("CalculateForPeriod = %d cents, want %d", got.Cents, tt.want)
			}
		})
	}
}

func TestCalculateForPeriodByDate(t *testing.T) {
	target := activeTarget(FromCents(100000), ByDateCadence(NewDate(2025, 6, 15)))

	tests := []struct {
		name   string
		period BudgetPeriod
		want   int64
	}{
		{"date inside period is due in full", MonthlyPeriod(2025, 6), 100000},
		{"date before period is zero", MonthlyPeriod(2025, 7), 0},
		{"three months out rounds up", MonthlyPeriod(2025, 3), 33334},
		{"one month out", MonthlyPeriod(2025, 5), 100000},
		{"after period end but same month is full", CustomPeriod(NewDate(2025, 6, 1), NewDate(2025, 6, 10)), 100000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := target.CalculateForPeriod(tt.period)
			if got.Cents != tt.want {
				t.Errorf("CalculateForPeriod(%s) = %d cents, want %d", tt.period, got.Cents, tt.want)
			}
		})
	}
}

func TestCalculateForPeriodInactive(t *testing.T) {
	target := activeTarget(FromCents(12000), MonthlyCadence())
	target.Active = false
	if got := target.CalculateForPeriod(MonthlyPeriod(2025, 1)); !got.IsZero() {
		t.Errorf("inactive target projected %s, want zero", got)
	}
}
