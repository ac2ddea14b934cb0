package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/budget-ledger/internal"
)

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

// Notification is a user-facing message derived from a ledger event.
type Notification struct {
	SessionID string            `json:"session_id"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
}

// NotificationFor maps an event to the message shown to the user. ok is
// false for events that produce no message.
func NotificationFor(event Event) (n Notification, ok bool) {
	switch e := event.(type) {
	case *ExpenseRecordedEvent:
		return Notification{SessionID: e.SessionID, Level: LevelSuccess, Message: "Expense added successfully"}, true
	case *ExpenseRejectedEvent:
		msg := "Could not add expense"
		switch internal.ErrorCode(e.Code) {
		case internal.ErrCodeMissingField:
			msg = "Please fill in all fields"
		case internal.ErrCodeInvalidAmount:
			msg = "Please enter a valid amount"
		case internal.ErrCodeInvalidCategory:
			msg = "Please choose a valid category"
		}
		return Notification{SessionID: e.SessionID, Level: LevelError, Message: msg}, true
	case *BudgetExceededEvent:
		return Notification{
			SessionID: e.SessionID,
			Level:     LevelWarning,
			Message:   fmt.Sprintf("Budget exceeded by %s", e.Overage),
		}, true
	}
	return Notification{}, false
}

// Notifier turns ledger events into notifications, logs them and hands
// them to an optional sink.
type Notifier struct {
	logger *slog.Logger
	sink   func(Notification)
}

func NewNotifier(logger *slog.Logger, sink func(Notification)) *Notifier {
	return &Notifier{logger: logger, sink: sink}
}

// Register subscribes the notifier to every ledger event type.
func (n *Notifier) Register(bus *EventBus) {
	for _, t := range []string{EventTypeExpenseRecorded, EventTypeExpenseRejected, EventTypeBudgetExceeded} {
		bus.Subscribe(t, n.Handle)
	}
}

func (n *Notifier) Handle(_ context.Context, event Event) error {
	notification, ok := NotificationFor(event)
	if !ok {
		return nil
	}

	n.logger.Info("notification",
		"session_id", notification.SessionID,
		"level", notification.Level,
		"message", notification.Message,
		"event_id", event.EventID())

	if n.sink != nil {
		n.sink(notification)
	}
	return nil
}
