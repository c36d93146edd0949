package email

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/duesoon/internal/config"
)

// Provider names accepted in email.provider.
const (
	ProviderSendGrid = "sendgrid"
	ProviderMailgun  = "mailgun"
	ProviderLog      = "log"
)

// NewSender returns the Sender selected by cfg.Provider.
func NewSender(cfg config.EmailConfig, logger *slog.Logger) (Sender, error) {
	from := Address{Name: cfg.FromName, Email: cfg.FromAddress}

	switch cfg.Provider {
	case ProviderSendGrid, "":
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridHost, from, logger)
	case ProviderMailgun:
		return NewMailgunSender(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunAPIBase, from, logger)
	case ProviderLog:
		return NewLogSender(logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
