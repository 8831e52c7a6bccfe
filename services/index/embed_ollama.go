package index

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

const (
	DefaultOllamaHost       = "http://localhost:11434"
	DefaultOllamaEmbedModel = "all-minilm"
)

// OllamaEmbedder runs a local embedding model (all-minilm by default)
// through an Ollama server.
type OllamaEmbedder struct {
	client *api.Client
	model  string
}

func NewOllamaEmbedder(host, model string, httpClient *http.Client) (*OllamaEmbedder, error) {
	if host == "" {
		host = DefaultOllamaHost
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if model == "" {
		model = DefaultOllamaEmbedModel
	}
	return &OllamaEmbedder{client: api.NewClient(u, httpClient), model: model}, nil
}

func (e *OllamaEmbedder) Name() string { return "ollama:" + e.model }

func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	resp, err := e.client.Embed(ctx, &api.EmbedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}
	return resp.Embeddings, checkVectors(texts, resp.Embeddings)
}
