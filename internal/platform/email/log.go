package email

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/platform/logger"
)

// LogSender writes messages to the logger instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender. If logger is nil, the default logger is used.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With(slog.String("component", "log_sender"))}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, msg domain.Notification) (Receipt, error) {
	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}

	id := uuid.NewString()
	logger.FromContextOrDefault(ctx, s.logger).Info("email not sent (log provider)",
		slog.String("message_id", id),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("plain_text", msg.PlainText))

	return Receipt{Provider: "log", StatusCode: 202, MessageID: id}, nil
}
