package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents what happened to an entity
type EventType string

const (
	EventTypeCreated     EventType = "created"
	EventTypeUpdated     EventType = "updated"
	EventTypeDeleted     EventType = "deleted"
	EventTypeContributed EventType = "contributed"
	EventTypeWithdrawn   EventType = "withdrawn"
	EventTypeInvalidated EventType = "invalidated"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeTransaction    EntityType = "transaction"
	EntityTypeExpense        EntityType = "expense"
	EntityTypeSavingsGoal    EntityType = "savings_goal"
	EntityTypeSalarySchedule EntityType = "salary_schedule"
	EntityTypeProfile        EntityType = "profile"
	EntityTypeSummary        EntityType = "summary"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string     `json:"type"`      // Combined type e.g. "expense.created"
	Entity    EntityType `json:"entity"`    // Entity type e.g. "expense"
	Payload   any        `json:"payload"`   // Full entity data
	Timestamp time.Time  `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload any) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// InvalidatesSummary reports whether clients should refetch the safe-to-spend summary
// and calendar after receiving e. Every write to a snapshot collection does.
func (e Event) InvalidatesSummary() bool {
	switch e.Entity {
	case EntityTypeTransaction, EntityTypeExpense, EntityTypeSavingsGoal,
		EntityTypeSalarySchedule, EntityTypeProfile:
		return true
	}
	return false
}

// TransactionCreated creates a transaction.created event
func TransactionCreated(payload any) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

// TransactionUpdated creates a transaction.updated event
func TransactionUpdated(payload any) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

// TransactionDeleted creates a transaction.deleted event
func TransactionDeleted(payload any) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

func ExpenseCreated(payload any) Event {
	return NewEvent(EventTypeCreated, EntityTypeExpense, payload)
}

func ExpenseUpdated(payload any) Event {
	return NewEvent(EventTypeUpdated, EntityTypeExpense, payload)
}

func ExpenseDeleted(payload any) Event {
	return NewEvent(EventTypeDeleted, EntityTypeExpense, payload)
}

func SavingsGoalCreated(payload any) Event {
	return NewEvent(EventTypeCreated, EntityTypeSavingsGoal, payload)
}

func SavingsGoalUpdated(payload any) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSavingsGoal, payload)
}

func SavingsGoalDeleted(payload any) Event {
	return NewEvent(EventTypeDeleted, EntityTypeSavingsGoal, payload)
}

// SavingsGoalContributed creates a savings_goal.contributed event carrying the updated goal
func SavingsGoalContributed(payload any) Event {
	return NewEvent(EventTypeContributed, EntityTypeSavingsGoal, payload)
}

// SavingsGoalWithdrawn creates a savings_goal.withdrawn event carrying the updated goal
func SavingsGoalWithdrawn(payload any) Event {
	return NewEvent(EventTypeWithdrawn, EntityTypeSavingsGoal, payload)
}

func SalaryScheduleUpdated(payload any) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSalarySchedule, payload)
}

func SalaryScheduleDeleted(payload any) Event {
	return NewEvent(EventTypeDeleted, EntityTypeSalarySchedule, payload)
}

func ProfileUpdated(payload any) Event {
	return NewEvent(EventTypeUpdated, EntityTypeProfile, payload)
}

// SummaryInvalidated creates a summary.invalidated event. The payload names the
// entity whose change made the last summary stale.
func SummaryInvalidated(cause EntityType) Event {
	return NewEvent(EventTypeInvalidated, EntityTypeSummary, map[string]string{"cause": string(cause)})
}
