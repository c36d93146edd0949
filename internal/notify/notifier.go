package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/platform/email"
	"github.com/phrazzld/duesoon/internal/platform/logger"
	"github.com/phrazzld/duesoon/internal/redact"
)

// DeliveryResult is the outcome of one reminder. Err is nil on success.
type DeliveryResult struct {
	Recipient  string
	Title      string
	Provider   string
	StatusCode int
	MessageID  string
	Err        error
}

// OK reports whether the message was accepted by the provider.
func (r DeliveryResult) OK() bool {
	return r.Err == nil
}

// Notifier composes and sends reminders.
type Notifier struct {
	composer *Composer
	sender   email.Sender
	logger   *slog.Logger
}

// NewNotifier creates a Notifier. If logger is nil, the default logger is used.
func NewNotifier(composer *Composer, sender email.Sender, logger *slog.Logger) *Notifier {
	if composer == nil || sender == nil {
		panic("composer and sender cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		composer: composer,
		sender:   sender,
		logger:   logger.With(slog.String("component", "notifier")),
	}
}

// Notify sends exactly one email for task. It never panics on provider
// failure; the error is returned in the result.
func (n *Notifier) Notify(ctx context.Context, task domain.DueTask, suggestion string) DeliveryResult {
	log := logger.FromContextOrDefault(ctx, n.logger).With(
		slog.String("recipient", task.AssigneeEmail),
		slog.String("title", task.Title))

	result := DeliveryResult{Recipient: task.AssigneeEmail, Title: task.Title}

	msg, err := n.composer.Compose(task, suggestion)
	if err != nil {
		log.Error("failed to compose reminder", redact.ErrorAttr(err))
		result.Err = fmt.Errorf("compose: %w", err)
		return result
	}

	receipt, err := n.sender.Send(ctx, msg)
	result.Provider = receipt.Provider
	result.StatusCode = receipt.StatusCode
	result.MessageID = receipt.MessageID
	if err != nil {
		log.Error("failed to send reminder",
			slog.Int("status_code", receipt.StatusCode),
			redact.ErrorAttr(err))
		result.Err = err
		return result
	}

	log.Info("reminder sent",
		slog.String("provider", receipt.Provider),
		slog.Int("status_code", receipt.StatusCode),
		slog.String("message_id", receipt.MessageID))
	return result
}
