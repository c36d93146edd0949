package email

import (
	"context"
	"errors"

	"github.com/phrazzld/duesoon/internal/domain"
)

var (
	// ErrInvalidConfig is returned when a provider is missing required settings.
	ErrInvalidConfig = errors.New("invalid email configuration")

	// ErrUnexpectedStatus is returned when a provider answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status from email provider")
)

// Receipt describes an accepted message.
type Receipt struct {
	Provider   string
	// StatusCode is the provider's HTTP status. The Mailgun client does not
	// expose it, so Mailgun receipts leave it zero.
	StatusCode int
	MessageID  string
}

// Sender submits one notification to an email provider.
type Sender interface {
	Send(ctx context.Context, msg domain.Notification) (Receipt, error)
}

// Address is a sender identity.
type Address struct {
	Name  string
	Email string
}
