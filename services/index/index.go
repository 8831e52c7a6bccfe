// Package index builds a searchable vector index over context records.
package index

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
)

// SearchType selects how hits are ranked.
type SearchType string

const (
	SearchSimilarity SearchType = "similarity"
	SearchMMR        SearchType = "mmr"
)

// Hit is one retrieved chunk. Position is the index of the source record in
// the slice passed to Build.
type Hit struct {
	Text     string  `json:"text"`
	Score    float32 `json:"score"`
	Position int     `json:"position"`
}

// Index answers nearest-neighbour queries over one build. It is read-only
// and safe for concurrent use.
type Index interface {
	Search(ctx context.Context, query string, k int) ([]Hit, error)
	Len() int
	Close() error
}

// Options configures a Builder.
type Options struct {
	Splitter   *Splitter
	Embedder   Embedder
	Stores     StoreFactory
	SearchType SearchType
	// FetchK is the candidate pool size for MMR.
	FetchK    int
	MMRLambda float32
}

// Builder turns record lists into fresh indexes. Nothing is shared between
// builds.
type Builder struct {
	splitter   *Splitter
	embedder   Embedder
	stores     StoreFactory
	searchType SearchType
	fetchK     int
	lambda     float32
	log        zerolog.Logger
}

func NewBuilder(opts Options) *Builder {
	b := &Builder{
		splitter:   opts.Splitter,
		embedder:   opts.Embedder,
		stores:     opts.Stores,
		searchType: opts.SearchType,
		fetchK:     opts.FetchK,
		lambda:     opts.MMRLambda,
		log:        logging.With("index"),
	}
	if b.splitter == nil {
		b.splitter = NewSplitter()
	}
	if b.embedder == nil {
		b.embedder = NewHashingEmbedder(DefaultHashingDimensions)
	}
	if b.stores == nil {
		b.stores = MemoryStoreFactory
	}
	if b.searchType == "" {
		b.searchType = SearchSimilarity
	}
	if b.fetchK <= 0 {
		b.fetchK = 20
	}
	if b.lambda <= 0 || b.lambda > 1 {
		b.lambda = 0.5
	}
	return b
}

// Build chunks every record, embeds the chunks and loads them into a new
// store. An empty record list gives a valid index with no entries.
func (b *Builder) Build(ctx context.Context, records []string) (Index, error) {
	start := time.Now()

	var docs []Document
	for pos, record := range records {
		for _, chunk := range b.splitter.Split(record) {
			docs = append(docs, Document{Text: chunk, Position: pos})
		}
	}

	store, err := b.stores(ctx)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	if len(docs) > 0 {
		texts := make([]string, len(docs))
		for i, d := range docs {
			texts[i] = d.Text
		}
		vectors, err := b.embedder.Embed(ctx, texts)
		if err == nil {
			err = checkVectors(texts, vectors)
		}
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("embed records: %w", err)
		}
		if err := store.Add(ctx, docs, vectors); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("load vector store: %w", err)
		}
	}

	b.log.Info().
		Int("records", len(records)).
		Int("chunks", len(docs)).
		Str("embedder", b.embedder.Name()).
		Dur("duration", time.Since(start)).
		Msg("built index")

	return &vectorIndex{
		store:      store,
		embedder:   b.embedder,
		searchType: b.searchType,
		fetchK:     b.fetchK,
		lambda:     b.lambda,
	}, nil
}

type vectorIndex struct {
	store      VectorStore
	embedder   Embedder
	searchType SearchType
	fetchK     int
	lambda     float32
}

func (ix *vectorIndex) Len() int { return ix.store.Len() }

func (ix *vectorIndex) Close() error { return ix.store.Close() }

// Search returns at most k hits, best first.
func (ix *vectorIndex) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	if k <= 0 || ix.store.Len() == 0 {
		return []Hit{}, nil
	}
	vectors, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if err := checkVectors([]string{query}, vectors); err != nil {
		return nil, err
	}
	qv := vectors[0]

	var matches []Match
	if ix.searchType == SearchMMR {
		candidates, err := ix.store.Query(ctx, qv, max(ix.fetchK, k))
		if err != nil {
			return nil, err
		}
		matches = maximalMarginalRelevance(qv, candidates, k, ix.lambda)
	} else {
		matches, err = ix.store.Query(ctx, qv, k)
		if err != nil {
			return nil, err
		}
	}

	hits := make([]Hit, len(matches))
	for i, m := range matches {
		hits[i] = Hit{Text: m.Text, Score: m.Score, Position: m.Position}
	}
	return hits, nil
}
