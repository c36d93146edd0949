package domain

import "strings"

// Notification is a composed reminder email for a single assignee. It is
// built per task and handed straight to an email sender.
type Notification struct {
	To        string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

// Validate checks that the notification can be delivered.
func (n Notification) Validate() error {
	if strings.TrimSpace(n.To) == "" {
		return ErrEmptyRecipient
	}
	if strings.TrimSpace(n.Subject) == "" {
		return ErrEmptyContent
	}
	if strings.TrimSpace(n.PlainText) == "" && strings.TrimSpace(n.HTML) == "" {
		return ErrEmptyContent
	}
	return nil
}
