// Package generation wraps the langchaingo Gemini client behind the
// domain.TextGenerator port.
package generation

import (
	"context"
	"fmt"

	"vidquiz/internal/config"
	"vidquiz/internal/domain"
	"vidquiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// GeminiGenerator implements domain.TextGenerator using Google's
// generative-language API through langchaingo.
type GeminiGenerator struct {
	llm       *googleai.GoogleAI
	modelName string
}

// NewGeminiGenerator creates a new instance of GeminiGenerator.
func NewGeminiGenerator(ctx context.Context, cfg config.GeminiConfig) (domain.TextGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini model name cannot be empty")
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logger.Get().Info("GeminiGenerator initialized", zap.String("model", cfg.Model))
	return &GeminiGenerator{llm: llm, modelName: cfg.Model}, nil
}

// Generate sends the prompt and returns the raw model text. A single blocking
// call: no retry, no caching, timeout left to the request context and the
// transport default. Any upstream failure is wrapped as a generation-service
// error with the provider message attached.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(0.2),
	)
	if err != nil {
		logger.Get().Error("Gemini call failed", zap.Error(err), zap.String("model", g.modelName))
		return "", domain.NewGenerationServiceError(err)
	}
	return completion, nil
}

var _ domain.TextGenerator = (*GeminiGenerator)(nil)
