package index

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/ahmadluay9/movie-recommendation-chatbot/config"
)

// NewEmbedder builds the configured embedder wrapped in batching and, when a
// cache directory is set, the on-disk vector cache. Provider credentials are
// shared with the chat model configuration.
func NewEmbedder(ctx context.Context, ic config.IndexConfig, lc config.LLMConfig) (Embedder, error) {
	var (
		base Embedder
		err  error
	)
	switch ic.Embedder {
	case "openai":
		base = NewOpenAIEmbedder(lc.OpenAIAPIKey, lc.OpenAIBaseURL, ic.EmbedModel, ic.EmbedDimensions)
	case "gemini":
		base, err = NewGeminiEmbedder(ctx, lc.GeminiAPIKey, ic.EmbedModel, ic.EmbedDimensions)
	case "ollama":
		base, err = NewOllamaEmbedder(ic.OllamaHost, ic.EmbedModel, nil)
	case "hashing", "":
		// The hashing embedder is cheap enough that caching it only adds I/O.
		return NewHashingEmbedder(ic.EmbedDimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedder %q", ic.Embedder)
	}
	if err != nil {
		return nil, err
	}

	embedder := Embedder(NewBatchEmbedder(base, ic.EmbedBatchSize, ic.EmbedConcurrency))
	if ic.CacheDir != "" {
		embedder = NewCachedEmbedder(embedder, afero.NewOsFs(), ic.CacheDir, DefaultEmbeddingTTL)
	}
	return embedder, nil
}

// NewBuilderFromConfig wires splitter, embedder and store from configuration.
func NewBuilderFromConfig(ctx context.Context, ic config.IndexConfig, lc config.LLMConfig) (*Builder, error) {
	embedder, err := NewEmbedder(ctx, ic, lc)
	if err != nil {
		return nil, err
	}
	var stores StoreFactory = MemoryStoreFactory
	if ic.Store == "qdrant" {
		stores = QdrantStoreFactory(QdrantConfig{
			Host:   ic.QdrantHost,
			Port:   ic.QdrantPort,
			APIKey: ic.QdrantAPIKey,
			UseTLS: ic.QdrantTLS,
		})
	}
	return NewBuilder(Options{
		Splitter:   NewSplitter(WithChunkSize(ic.ChunkSize), WithOverlap(ic.ChunkOverlap)),
		Embedder:   embedder,
		Stores:     stores,
		SearchType: SearchType(ic.SearchType),
		FetchK:     ic.FetchK,
		MMRLambda:  float32(ic.MMRLambda),
	}), nil
}
