package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/core"
	"fintrack/internal/events"
)

// UserGetter resolves the account behind an alert.
type UserGetter interface {
	GetUser(ctx context.Context, id int64) (core.User, error)
}

// Notifier delivers a rendered alert to its recipient.
type Notifier interface {
	Notify(ctx context.Context, user core.User, subject, body string) error
}

// AlertWorker turns budget alert messages into user notifications.
type AlertWorker struct {
	users    UserGetter
	notifier Notifier
}

func NewAlertWorker(users UserGetter, notifier Notifier) *AlertWorker {
	return &AlertWorker{
		users:    users,
		notifier: notifier,
	}
}

// HandleAlert processes a single budget alert message. A missing user is
// dropped without error so the delivery is not requeued forever.
func (w *AlertWorker) HandleAlert(ctx context.Context, msg *events.BudgetAlertMessage) error {
	slog.InfoContext(ctx, "Processing budget alert",
		"user_id", msg.UserID,
		"budget_id", msg.BudgetID,
		"category", msg.Category,
		"status", msg.Status)

	user, err := w.users.GetUser(ctx, msg.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Dropping alert for unknown user", "user_id", msg.UserID)
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	subject, body := renderAlert(msg)
	if err := w.notifier.Notify(ctx, user, subject, body); err != nil {
		return fmt.Errorf("notify user %d: %w", user.ID, err)
	}

	return nil
}

func renderAlert(msg *events.BudgetAlertMessage) (subject, body string) {
	limit := core.Money{Cents: msg.LimitCents}
	spent := core.Money{Cents: msg.SpentCents}

	switch msg.Status {
	case "over":
		subject = fmt.Sprintf("Budget exceeded: %s", msg.Category)
	default:
		subject = fmt.Sprintf("Budget almost used up: %s", msg.Category)
	}

	body = fmt.Sprintf("You have spent %.2f of your %.2f %s budget (%.0f%%).",
		spent.Float(), limit.Float(), msg.Category, msg.Percentage)
	return subject, body
}

// LogNotifier is the default delivery channel: it records the notification
// in the structured log. An email or push channel can replace it without
// touching the worker.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, user core.User, subject, body string) error {
	slog.InfoContext(ctx, "Budget notification",
		"user_id", user.ID,
		"email", user.Email,
		"subject", subject,
		"body", body)
	return nil
}
