// Package email delivers composed reminder notifications through a
// transactional email provider. SendGrid is the default; Mailgun and a
// log-only sender for dry runs are also available. NewSender picks one from
// configuration.
package email
