package http

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"envelope/internal/core"
)

func TestParsePeriodParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/budget/overview?period=2025-01", nil)
	period, err := parsePeriodParam(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if period.Key() != "2025-01" {
		t.Errorf("period = %q, want 2025-01", period.Key())
	}

	// Absent parameter defaults to the current month.
	r = httptest.NewRequest("GET", "/api/v1/budget/overview", nil)
	period, err = parsePeriodParam(r)
	if err != nil {
		t.Fatalf("parse default: %v", err)
	}
	if !period.Equal(core.CurrentMonth()) {
		t.Errorf("default period = %q, want current month", period.Key())
	}

	r = httptest.NewRequest("GET", "/api/v1/budget/overview?period=garbage", nil)
	if _, err := parsePeriodParam(r); !errors.Is(err, core.ErrInvalidFormat) {
		t.Errorf("error = %v, want ErrInvalidFormat", err)
	}
}

func TestParseCadence(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		days    int
		date    string
		want    core.CadenceKind
		wantErr bool
	}{
		{"weekly", "weekly", 0, "", core.CadenceWeekly, false},
		{"monthly", "monthly", 0, "", core.CadenceMonthly, false},
		{"yearly", "yearly", 0, "", core.CadenceYearly, false},
		{"custom", "custom", 10, "", core.CadenceCustom, false},
		{"by date", "by_date", 0, "2025-06-15", core.CadenceByDate, false},
		{"by date bad date", "by_date", 0, "June 15", "", true},
		{"unknown kind", "fortnightly", 0, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cadence, err := parseCadence(tt.kind, tt.days, tt.date)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if cadence.Kind != tt.want {
				t.Errorf("kind = %q, want %q", cadence.Kind, tt.want)
			}
			if tt.want == core.CadenceCustom && cadence.Days != tt.days {
				t.Errorf("days = %d, want %d", cadence.Days, tt.days)
			}
		})
	}
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v1/budget/assign",
		strings.NewReader(`{"category_id":"a"}{"category_id":"b"}`))

	var req assignRequest
	if err := decodeJSON(r, &req); err == nil {
		t.Error("expected an error for a second JSON document")
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.NewNotFound("category", "x"), 404},
		{core.ErrLocked, 409},
		{core.ErrSessionActive, 409},
		{core.ErrNonzeroDifference, 409},
		{core.ErrSameCategory, 422},
		{core.ErrInvalidAmount, 422},
		{core.ErrAccountArchived, 422},
		{errors.New("disk on fire"), 500},
	}
	for _, tt := range tests {
		if got := statusForError(tt.err); got != tt.want {
			t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
