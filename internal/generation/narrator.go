package generation

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/platform/logger"
	"github.com/phrazzld/duesoon/internal/redact"
)

// SuggestionResult is the outcome of one generation attempt. On failure Text
// is empty and Err holds the reason.
type SuggestionResult struct {
	Text string
	Err  error
}

// OK reports whether a suggestion was produced.
func (r SuggestionResult) OK() bool {
	return r.Err == nil
}

// Narrator asks a Generator for the supplementary note shared by a batch.
type Narrator struct {
	generator Generator
	leadDays  int
	logger    *slog.Logger
}

// NewNarrator creates a Narrator. If logger is nil, the default logger is used.
func NewNarrator(generator Generator, leadDays int, logger *slog.Logger) *Narrator {
	if generator == nil {
		panic("generator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Narrator{
		generator: generator,
		leadDays:  leadDays,
		logger:    logger.With(slog.String("component", "narrator")),
	}
}

// Suggest builds the prompt for batch and calls the generator once. An empty
// batch makes no call. Failures are returned in the result, never panicked.
func (n *Narrator) Suggest(ctx context.Context, batch domain.DueTaskBatch) SuggestionResult {
	log := logger.FromContextOrDefault(ctx, n.logger)

	if batch.IsEmpty() {
		return SuggestionResult{Err: ErrEmptyBatch}
	}

	p, err := BuildPrompt(batch, n.leadDays)
	if err != nil {
		log.Error("failed to build prompt", redact.ErrorAttr(err))
		return SuggestionResult{Err: err}
	}

	start := time.Now()
	text, err := n.generator.GenerateText(ctx, p)
	if err != nil {
		log.Error("generation failed, continuing without a suggestion",
			redact.ErrorAttr(err),
			slog.Int("task_count", len(batch)),
			slog.Duration("duration", time.Since(start)))
		return SuggestionResult{Err: err}
	}

	log.Info("generated suggestion",
		slog.Int("task_count", len(batch)),
		slog.Int("length", len(text)),
		slog.Duration("duration", time.Since(start)))
	return SuggestionResult{Text: text}
}
