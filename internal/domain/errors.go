package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidDeadline is returned when a deadline cannot be parsed.
	ErrInvalidDeadline = errors.New("invalid deadline")

	// ErrInvalidContact is returned when a contact fails validation.
	ErrInvalidContact = errors.New("invalid contact")

	// ErrInvalidTaskStatus is returned when a task status is not one of the
	// values accepted by the schema.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidPriority is returned when a task priority is not one of the
	// values accepted by the schema.
	ErrInvalidPriority = errors.New("invalid task priority")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyRecipient is returned when a notification has no recipient.
	ErrEmptyRecipient = errors.New("notification recipient cannot be empty")
)
