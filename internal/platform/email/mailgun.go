package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/platform/logger"
	"github.com/phrazzld/duesoon/internal/redact"
)

// MailgunSender sends through the Mailgun messages API.
type MailgunSender struct {
	mg     *mailgun.MailgunImpl
	from   string
	logger *slog.Logger
}

// NewMailgunSender creates a sender. apiBase may be empty for the default US region.
func NewMailgunSender(domainName, apiKey, apiBase string, from Address, logger *slog.Logger) (*MailgunSender, error) {
	if domainName == "" || apiKey == "" || from.Email == "" {
		return nil, fmt.Errorf("%w: mailgun requires a domain, an API key and a from address", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	mg := mailgun.NewMailgun(domainName, apiKey)
	if apiBase != "" {
		mg.SetAPIBase(apiBase)
	}

	return &MailgunSender{
		mg:     mg,
		from:   formatAddress(from.Name, from.Email),
		logger: logger.With(slog.String("component", "mailgun")),
	}, nil
}

// Send implements Sender.
func (s *MailgunSender) Send(ctx context.Context, msg domain.Notification) (Receipt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}

	message := s.mg.NewMessage(s.from, msg.Subject, msg.PlainText, formatAddress(msg.ToName, msg.To))
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}

	_, id, err := s.mg.Send(ctx, message)
	if err != nil {
		log.Error("mailgun send failed", redact.ErrorAttr(err))
		return Receipt{Provider: "mailgun"}, fmt.Errorf("mailgun send failed: %w", err)
	}

	return Receipt{Provider: "mailgun", MessageID: id}, nil
}

func formatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return (&mail.Address{Name: name, Address: addr}).String()
}
