// Package responder answers a question from retrieved catalog context and
// the conversation so far.
package responder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/index"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/llm"
)

const DefaultTopK = 4

// ErrEmptyQuery is returned for a blank question.
var ErrEmptyQuery = errors.New("query must not be empty")

// Options tunes retrieval and generation.
type Options struct {
	TopK int
	// ContextTokenBudget caps the retrieved context; zero disables it.
	ContextTokenBudget int
	Temperature        float64
	MaxTokens          int
}

// Responder combines an index, a chat model and the prompt template.
type Responder struct {
	model  llm.ChatModel
	opts   Options
	tokens tokenCounter
	log    zerolog.Logger
}

func New(model llm.ChatModel, opts Options) *Responder {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	return &Responder{
		model:  model,
		opts:   opts,
		tokens: newTokenCounter(),
		log:    logging.With("responder"),
	}
}

// Respond retrieves context for question, renders the prompt with history
// and asks the model. The reply is returned unmodified in Body.
func (r *Responder) Respond(ctx context.Context, ix index.Index, history []models.ChatMessage, question string) (*models.Recommendation, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuery
	}

	hits, err := ix.Search(ctx, question, r.opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	sources := make([]string, len(hits))
	for i, h := range hits {
		sources[i] = h.Text
	}
	sources = r.tokens.fitBudget(sources, r.opts.ContextTokenBudget)

	prompt := renderPrompt(strings.Join(sources, "\n\n"), formatHistory(history), question)
	r.log.Debug().
		Int("hits", len(hits)).
		Int("context_items", len(sources)).
		Int("history_turns", len(history)).
		Int("prompt_tokens", r.tokens.count(prompt)).
		Msg("prompt assembled")

	body, err := r.model.Generate(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: r.opts.Temperature,
		MaxTokens:   r.opts.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate response: %w", err)
	}

	return &models.Recommendation{
		Body:        body,
		PosterPaths: ExtractPosterPaths(body),
		Sources:     sources,
	}, nil
}
