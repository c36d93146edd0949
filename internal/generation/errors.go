package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when the model call fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate text")

	// ErrInvalidResponse is returned when the model reply is missing or empty
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the prompt or reply due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyBatch is returned when a prompt is requested for no tasks
	ErrEmptyBatch = errors.New("no tasks to build a prompt from")
)
