package amqp

import (
	"testing"
	"time"
)

func TestNewBudgetEvent(t *testing.T) {
	event := NewBudgetEvent(EventAllocationAssigned, "cat-1", "2025-01", 12000)

	if event.Type != EventAllocationAssigned {
		t.Errorf("Type = %v, want %v", event.Type, EventAllocationAssigned)
	}
	if event.EntityID != "cat-1" {
		t.Errorf("EntityID = %v, want cat-1", event.EntityID)
	}
	if event.PeriodKey != "2025-01" {
		t.Errorf("PeriodKey = %v, want 2025-01", event.PeriodKey)
	}
	if event.AmountCents != 12000 {
		t.Errorf("AmountCents = %v, want 12000", event.AmountCents)
	}
	if event.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(event.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestBudgetEvent_JSON(t *testing.T) {
	timestamp := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	event := &BudgetEvent{
		Type:        EventFundsMoved,
		EntityID:    "cat-2",
		PeriodKey:   "2025-01",
		AmountCents: 2500,
		Detail:      "from cat-1",
		Timestamp:   timestamp,
	}

	jsonBytes, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := BudgetEventFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("BudgetEventFromJSON() error = %v", err)
	}

	if parsed.Type != event.Type {
		t.Errorf("Parsed Type = %v, want %v", parsed.Type, event.Type)
	}
	if parsed.EntityID != event.EntityID {
		t.Errorf("Parsed EntityID = %v, want %v", parsed.EntityID, event.EntityID)
	}
	if parsed.AmountCents != event.AmountCents {
		t.Errorf("Parsed AmountCents = %v, want %v", parsed.AmountCents, event.AmountCents)
	}
	if parsed.Detail != event.Detail {
		t.Errorf("Parsed Detail = %v, want %v", parsed.Detail, event.Detail)
	}
	if !parsed.Timestamp.Equal(event.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, event.Timestamp)
	}
}

func TestBudgetEvent_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"amount_cents": "not_a_number"}`)

	if _, err := BudgetEventFromJSON(invalidJSON); err == nil {
		t.Error("BudgetEventFromJSON() should fail with invalid JSON")
	}
}
