package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/platform/logger"
	"github.com/phrazzld/duesoon/internal/redact"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridEndpoint = "/v3/mail/send"

// SendGridSender sends through the SendGrid v3 mail API.
type SendGridSender struct {
	client *sendgrid.Client
	from   Address
	logger *slog.Logger
}

// NewSendGridSender creates a sender. host may be empty for the default API host.
func NewSendGridSender(apiKey, host string, from Address, logger *slog.Logger) (*SendGridSender, error) {
	if apiKey == "" || from.Email == "" {
		return nil, fmt.Errorf("%w: sendgrid requires an API key and a from address", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	request := sendgrid.GetRequest(apiKey, sendGridEndpoint, host)
	request.Method = "POST"

	return &SendGridSender{
		client: &sendgrid.Client{Request: request},
		from:   from,
		logger: logger.With(slog.String("component", "sendgrid")),
	}, nil
}

// Send implements Sender. Any status outside 2xx is an error.
func (s *SendGridSender) Send(ctx context.Context, msg domain.Notification) (Receipt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(s.from.Name, s.from.Email),
		msg.Subject,
		mail.NewEmail(msg.ToName, msg.To),
		msg.PlainText,
		msg.HTML,
	)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		log.Error("sendgrid request failed", redact.ErrorAttr(err))
		return Receipt{Provider: "sendgrid"}, fmt.Errorf("sendgrid send failed: %w", err)
	}

	receipt := Receipt{Provider: "sendgrid", StatusCode: response.StatusCode}
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		receipt.MessageID = ids[0]
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		log.Error("sendgrid rejected message",
			slog.Int("status_code", response.StatusCode),
			slog.String("body", response.Body))
		return receipt, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, response.StatusCode, response.Body)
	}

	return receipt, nil
}
