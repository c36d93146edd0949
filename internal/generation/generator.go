package generation

import "context"

// Generator is the boundary between the reminder pipeline and an external
// text-generation service.
type Generator interface {
	// GenerateText sends prompt to the model and returns its trimmed reply.
	// It returns an error wrapping one of the package's sentinel errors.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
