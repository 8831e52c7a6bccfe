package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadluay9/movie-recommendation-chatbot/config"
)

func TestNewEmbedderDefaultsToHashing(t *testing.T) {
	cfg := config.Default()

	e, err := NewEmbedder(context.Background(), cfg.Index, cfg.LLM)
	require.NoError(t, err)
	assert.IsType(t, &HashingEmbedder{}, e)
}

func TestNewEmbedderOllamaUsesMiniLM(t *testing.T) {
	cfg := config.Default()
	cfg.Index.Embedder = "ollama"
	cfg.Index.CacheDir = ""

	e, err := NewEmbedder(context.Background(), cfg.Index, cfg.LLM)
	require.NoError(t, err)
	assert.Equal(t, "ollama:all-minilm", e.Name())

	cleared, err := ClearCache(e)
	require.NoError(t, err)
	assert.False(t, cleared)
}
