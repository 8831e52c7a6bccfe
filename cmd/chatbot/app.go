package main

import (
	"context"
	"fmt"

	"github.com/ahmadluay9/movie-recommendation-chatbot/config"
	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/database"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/catalog"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/conversations"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/index"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/llm"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/recommend"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/responder"
)

// application holds the wired services shared by the commands.
type application struct {
	recommend     *recommend.Service
	conversations *conversations.Service
	db            *database.DB
}

func (a *application) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func newCatalogClient(c *config.Config) *catalog.Client {
	return catalog.NewClient(catalog.Options{
		APIKey:          c.Catalog.APIKey,
		BaseURL:         c.Catalog.BaseURL,
		Language:        c.Catalog.Language,
		Timeout:         c.Catalog.Timeout,
		BreakerFailures: uint32(c.Catalog.BreakerFailures),
		BreakerCooldown: c.Catalog.BreakerCooldown,
	})
}

// newFetchOnly wires just enough of the pipeline to list the catalog.
func newFetchOnly(c *config.Config) *recommend.Service {
	return recommend.NewService(recommend.Options{
		Catalog:      newCatalogClient(c),
		Synthesizer:  catalog.NewSynthesizer(c.Catalog.IncludeOverview),
		ImageBaseURL: c.Catalog.ImageBaseURL,
		PosterSize:   c.Catalog.PosterSize,
	})
}

// newApplication wires the full pipeline: catalog, index builder, chat
// model, responder and the conversation store.
func newApplication(ctx context.Context, c *config.Config) (*application, error) {
	builder, err := index.NewBuilderFromConfig(ctx, c.Index, c.LLM)
	if err != nil {
		return nil, fmt.Errorf("index builder: %w", err)
	}

	model, err := llm.New(ctx, c.LLM)
	if err != nil {
		return nil, fmt.Errorf("chat model: %w", err)
	}

	db, err := database.NewDB(database.Config{DatabasePath: c.Storage.DatabasePath})
	if err != nil {
		return nil, err
	}
	convs := conversations.NewService(
		database.NewConversationRepository(db.Connection()),
		c.Chat.HistoryTurns,
		c.Chat.SessionTTL,
	)

	svc := recommend.NewService(recommend.Options{
		Catalog:     newCatalogClient(c),
		Synthesizer: catalog.NewSynthesizer(c.Catalog.IncludeOverview),
		Builder:     builder,
		Responder: responder.New(model, responder.Options{
			TopK:               c.Index.TopK,
			ContextTokenBudget: c.Chat.ContextTokenBudget,
			Temperature:        c.LLM.Temperature,
			MaxTokens:          c.LLM.MaxTokens,
		}),
		Memory:       convs,
		ImageBaseURL: c.Catalog.ImageBaseURL,
		PosterSize:   c.Catalog.PosterSize,
		NewSessionID: conversations.NewSessionID,
	})

	return &application{recommend: svc, conversations: convs, db: db}, nil
}
