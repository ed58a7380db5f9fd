package amqp

import (
	"encoding/json"
	"time"
)

// Budget event types published by the services and consumed by the audit
// worker.
const (
	EventAllocationAssigned      = "allocation_assigned"
	EventFundsMoved              = "funds_moved"
	EventReconciliationCompleted = "reconciliation_completed"
	EventAdjustmentCreated       = "adjustment_created"
	EventTransactionUnlocked     = "transaction_unlocked"
)

// BudgetEvent is a lightweight audit record of one budget mutation. The
// worker appends it to the audit log as-is; it never drives state.
type BudgetEvent struct {
	Type        string    `json:"type"`
	EntityID    string    `json:"entity_id"`
	PeriodKey   string    `json:"period_key,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Detail      string    `json:"detail,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewBudgetEvent(eventType, entityID, periodKey string, amountCents int64) *BudgetEvent {
	return &BudgetEvent{
		Type:        eventType,
		EntityID:    entityID,
		PeriodKey:   periodKey,
		AmountCents: amountCents,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *BudgetEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// BudgetEventFromJSON creates an event from JSON bytes.
func BudgetEventFromJSON(data []byte) (*BudgetEvent, error) {
	var event BudgetEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
