// Package recommend runs the fetch, index and respond pipeline for one
// request at a time.
package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/metrics"
	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/catalog"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/index"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/responder"
)

type catalogFetcher interface {
	Fetch(ctx context.Context, kind models.Kind) ([]models.CatalogItem, error)
}

type indexBuilder interface {
	Build(ctx context.Context, records []string) (index.Index, error)
}

type answerer interface {
	Respond(ctx context.Context, ix index.Index, history []models.ChatMessage, question string) (*models.Recommendation, error)
}

type chatMemory interface {
	History(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	Record(ctx context.Context, sessionID string, kind models.Kind, question, answer string) error
}

// Options wires the pipeline stages.
type Options struct {
	Catalog     catalogFetcher
	Synthesizer *catalog.Synthesizer
	Builder     indexBuilder
	Responder   answerer
	// Memory may be nil; requests are then stateless.
	Memory       chatMemory
	ImageBaseURL string
	PosterSize   string
	// NewSessionID issues ids for requests that arrive without one.
	NewSessionID func() string
}

// Service is the recommendation pipeline. Every call fetches the catalog
// anew and builds a private index that is discarded afterwards.
type Service struct {
	catalog      catalogFetcher
	synth        *catalog.Synthesizer
	builder      indexBuilder
	responder    answerer
	memory       chatMemory
	imageBaseURL string
	posterSize   string
	newSessionID func() string
	log          zerolog.Logger
}

func NewService(opts Options) *Service {
	s := &Service{
		catalog:      opts.Catalog,
		synth:        opts.Synthesizer,
		builder:      opts.Builder,
		responder:    opts.Responder,
		memory:       opts.Memory,
		imageBaseURL: opts.ImageBaseURL,
		posterSize:   opts.PosterSize,
		newSessionID: opts.NewSessionID,
		log:          logging.With("recommend"),
	}
	if s.synth == nil {
		s.synth = catalog.NewSynthesizer(true)
	}
	if s.newSessionID == nil {
		s.newSessionID = func() string { return "" }
	}
	return s
}

// Fetch returns the enriched catalog for the raw kind ("movie", "tv", ...).
func (s *Service) Fetch(ctx context.Context, rawKind string) ([]models.EnrichedItem, error) {
	kind, err := catalog.ParseKind(rawKind)
	if err != nil {
		return nil, err
	}
	return s.fetch(ctx, kind)
}

func (s *Service) fetch(ctx context.Context, kind models.Kind) ([]models.EnrichedItem, error) {
	start := time.Now()
	items, err := s.catalog.Fetch(ctx, kind)
	metrics.RecordStage("fetch", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	metrics.SetCatalogItems(string(kind), len(items))

	enriched := s.synth.Enrich(items)
	for i := range enriched {
		enriched[i].PosterURL = catalog.PosterURL(s.imageBaseURL, s.posterSize, enriched[i].PosterPath)
	}
	return enriched, nil
}

// Recommend answers one question against the current catalog for the
// requested kind. Chat history is read before and written after a
// successful answer.
func (s *Service) Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendResult, error) {
	kind, err := catalog.ParseKind(req.User)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, responder.ErrEmptyQuery
	}

	items, err := s.fetch(ctx, kind)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ix, err := s.builder.Build(ctx, catalog.Records(items))
	metrics.RecordStage("index", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	defer func() {
		if err := ix.Close(); err != nil {
			s.log.Warn().Err(err).Msg("failed to release index")
		}
	}()

	sessionID := strings.TrimSpace(req.SessionID)
	resumed := sessionID != ""
	if !resumed {
		sessionID = s.newSessionID()
	}

	history := []models.ChatMessage{}
	if s.memory != nil && resumed {
		if history, err = s.memory.History(ctx, sessionID); err != nil {
			return nil, fmt.Errorf("load chat history: %w", err)
		}
	}

	start = time.Now()
	rec, err := s.responder.Respond(ctx, ix, history, req.Query)
	metrics.RecordStage("respond", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if s.memory != nil && sessionID != "" {
		if err := s.memory.Record(ctx, sessionID, kind, req.Query, rec.Body); err != nil {
			s.log.Warn().Err(err).Str("session", sessionID).Msg("failed to store chat turn")
		}
	}
	metrics.RecordRecommendation(string(kind))

	urls := make([]string, 0, len(rec.PosterPaths))
	for _, p := range rec.PosterPaths {
		urls = append(urls, catalog.PosterURL(s.imageBaseURL, s.posterSize, p))
	}

	s.log.Info().
		Str("kind", string(kind)).
		Int("items", len(items)).
		Int("posters", len(rec.PosterPaths)).
		Msg("recommendation served")

	return &models.RecommendResult{
		Result:      rec.Body,
		PosterPaths: rec.PosterPaths,
		PosterURLs:  urls,
		SessionID:   sessionID,
		Kind:        kind,
		Items:       len(items),
	}, nil
}
