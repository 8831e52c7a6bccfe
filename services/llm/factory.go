package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmadluay9/movie-recommendation-chatbot/config"
	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
)

// New builds the configured provider and wraps it with Guard. A missing
// credential does not fail here; every call of the returned model reports
// it instead.
func New(ctx context.Context, cfg config.LLMConfig) (ChatModel, error) {
	var (
		model ChatModel
		err   error
	)
	switch cfg.Provider {
	case "openai", "":
		model, err = NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model)
	case "gemini":
		model, err = NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model)
	case "claude":
		model, err = NewClaude(cfg.AnthropicAPIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
	if errors.Is(err, ErrMissingAPIKey) {
		log := logging.With("llm")
		log.Warn().Str("provider", cfg.Provider).Msg("no api key configured; model calls will fail")
		model, err = unavailableModel{name: cfg.Provider, err: err}, nil
	}
	if err != nil {
		return nil, err
	}
	return Guard(model, GuardOptions{
		MaxAttempts:       cfg.MaxAttempts,
		Timeout:           cfg.Timeout,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}), nil
}

// unavailableModel fails every call with the construction error.
type unavailableModel struct {
	name string
	err  error
}

func (m unavailableModel) Name() string { return m.name + ":unavailable" }

func (m unavailableModel) Generate(context.Context, Request) (string, error) {
	return "", m.err
}
