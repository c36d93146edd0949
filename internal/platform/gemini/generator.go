package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/duesoon/internal/config"
	"github.com/phrazzld/duesoon/internal/generation"
	"github.com/phrazzld/duesoon/internal/platform/logger"
	"github.com/phrazzld/duesoon/internal/redact"
	"google.golang.org/genai"
)

// contentGenerator is the subset of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Generator implements generation.Generator on the Gemini API.
type Generator struct {
	logger *slog.Logger
	models contentGenerator
	model  string
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Gemini client from cfg.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(client.Models, cfg.ModelName, logger), nil
}

func newGenerator(models contentGenerator, model string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		logger: logger.With(slog.String("component", "gemini"), slog.String("model", model)),
		models: models,
		model:  model,
	}
}

// GenerateText implements generation.Generator.GenerateText.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	log.Debug("making Gemini API call", slog.Int("prompt_length", len(prompt)))
	start := time.Now()

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		log.Error("Gemini API call failed",
			redact.ErrorAttr(err),
			slog.Duration("duration", time.Since(start)))
		return "", fmt.Errorf("%w: %w", generation.ErrGenerationFailed, err)
	}

	text, err := extractText(resp)
	if err != nil {
		log.Warn("unusable Gemini response", redact.ErrorAttr(err))
		return "", err
	}

	log.Debug("Gemini API call successful",
		slog.Int("response_length", len(text)),
		slog.Duration("duration", time.Since(start)))
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" &&
		fb.BlockReason != genai.BlockedReasonUnspecified {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, fb.BlockReason)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}
	c := resp.Candidates[0]
	if c == nil {
		return "", fmt.Errorf("%w: nil candidate", generation.ErrInvalidResponse)
	}
	if c.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response blocked by safety filters", generation.ErrContentBlocked)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty text", generation.ErrInvalidResponse)
	}
	return text, nil
}

