// Package notify composes one reminder email per due task and hands it to an
// email.Sender. Each delivery is independent: a failure is reported in the
// DeliveryResult and never stops the caller from sending the next one.
package notify
