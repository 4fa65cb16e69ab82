package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names a ledger change.
type EventType string

const (
	ExpenseAdded   EventType = "expense.added"
	ExpenseDeleted EventType = "expense.deleted"
	BudgetUpdated  EventType = "budget.updated"
)

// Event is a lightweight ledger change notification. It carries ids only;
// consumers read the current state back from the ledger.
type Event struct {
	Type        EventType `json:"type"`
	ExpenseID   int64     `json:"expense_id,omitempty"`
	AmountCents int64     `json:"amount_cents,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewExpenseAddedEvent(id int64) Event {
	return Event{Type: ExpenseAdded, ExpenseID: id, Timestamp: time.Now().UTC()}
}

func NewExpenseDeletedEvent(id int64) Event {
	return Event{Type: ExpenseDeleted, ExpenseID: id, Timestamp: time.Now().UTC()}
}

func NewBudgetUpdatedEvent(cents int64) Event {
	return Event{Type: BudgetUpdated, AmountCents: cents, Timestamp: time.Now().UTC()}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes and checks an event.
func EventFromJSON(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, err
	}
	switch ev.Type {
	case ExpenseAdded, ExpenseDeleted:
		if ev.ExpenseID <= 0 {
			return Event{}, fmt.Errorf("%s event without expense id", ev.Type)
		}
	case BudgetUpdated:
	default:
		return Event{}, fmt.Errorf("unknown event type %q", ev.Type)
	}
	return ev, nil
}
