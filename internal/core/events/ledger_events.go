package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeExpenseRecorded = "expense.recorded"
	EventTypeExpenseRejected = "expense.rejected"
	EventTypeBudgetExceeded  = "budget.exceeded"
	EventTypeSessionEnded    = "session.ended"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type ExpenseRecordedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	ExpenseID string `json:"expense_id"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Category  string `json:"category"`
	Spent     string `json:"spent"`
}

func NewExpenseRecordedEvent(sessionID, expenseID, name, amount, category, spent string) *ExpenseRecordedEvent {
	return &ExpenseRecordedEvent{
		BaseEvent: newBase(EventTypeExpenseRecorded, map[string]interface{}{
			"session_id": sessionID,
			"expense_id": expenseID,
			"name":       name,
			"amount":     amount,
			"category":   category,
			"spent":      spent,
		}),
		SessionID: sessionID,
		ExpenseID: expenseID,
		Name:      name,
		Amount:    amount,
		Category:  category,
		Spent:     spent,
	}
}

type ExpenseRejectedEvent struct {
	BaseEvent
	SessionID string   `json:"session_id"`
	Code      string   `json:"code"`
	Fields    []string `json:"fields,omitempty"`
	Reason    string   `json:"reason"`
}

func NewExpenseRejectedEvent(sessionID, code string, fields []string, reason string) *ExpenseRejectedEvent {
	return &ExpenseRejectedEvent{
		BaseEvent: newBase(EventTypeExpenseRejected, map[string]interface{}{
			"session_id": sessionID,
			"code":       code,
			"fields":     fields,
			"reason":     reason,
		}),
		SessionID: sessionID,
		Code:      code,
		Fields:    fields,
		Reason:    reason,
	}
}

type BudgetExceededEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	Spent     string `json:"spent"`
	Ceiling   string `json:"ceiling"`
	Overage   string `json:"overage"`
}

func NewBudgetExceededEvent(sessionID, spent, ceiling, overage string) *BudgetExceededEvent {
	return &BudgetExceededEvent{
		BaseEvent: newBase(EventTypeBudgetExceeded, map[string]interface{}{
			"session_id": sessionID,
			"spent":      spent,
			"ceiling":    ceiling,
			"overage":    overage,
		}),
		SessionID: sessionID,
		Spent:     spent,
		Ceiling:   ceiling,
		Overage:   overage,
	}
}

const (
	SessionEndReasonClosed  = "closed"
	SessionEndReasonExpired = "expired"
)

type SessionEndedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
	Entries   int    `json:"entries"`
	Spent     string `json:"spent"`
	Reason    string `json:"reason"`
}

func NewSessionEndedEvent(sessionID string, entries int, spent, reason string) *SessionEndedEvent {
	return &SessionEndedEvent{
		BaseEvent: newBase(EventTypeSessionEnded, map[string]interface{}{
			"session_id": sessionID,
			"entries":    entries,
			"spent":      spent,
			"reason":     reason,
		}),
		SessionID: sessionID,
		Entries:   entries,
		Spent:     spent,
		Reason:    reason,
	}
}
