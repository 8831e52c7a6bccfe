package index

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// Embedder turns texts into vectors, one per text and in the same order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Name identifies the model; vectors from different names are not
	// comparable.
	Name() string
}

// ErrEmptyEmbedding is returned when a provider answers with fewer vectors
// than texts or with an empty vector.
var ErrEmptyEmbedding = errors.New("embedding provider returned no vector")

func checkVectors(texts []string, vectors [][]float32) error {
	if len(vectors) != len(texts) {
		return fmt.Errorf("%w: want %d vectors, got %d", ErrEmptyEmbedding, len(texts), len(vectors))
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("%w: text %d", ErrEmptyEmbedding, i)
		}
	}
	return nil
}

// BatchEmbedder splits large inputs into batches and embeds them on a
// bounded worker pool. Output order matches input order.
type BatchEmbedder struct {
	inner       Embedder
	batchSize   int
	concurrency int
}

func NewBatchEmbedder(inner Embedder, batchSize, concurrency int) *BatchEmbedder {
	if batchSize <= 0 {
		batchSize = 64
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchEmbedder{inner: inner, batchSize: batchSize, concurrency: concurrency}
}

func (b *BatchEmbedder) Name() string { return b.inner.Name() }

func (b *BatchEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if len(texts) <= b.batchSize {
		vectors, err := b.inner.Embed(ctx, texts)
		if err != nil {
			return nil, err
		}
		return vectors, checkVectors(texts, vectors)
	}

	out := make([][]float32, len(texts))
	var mu sync.Mutex
	p := pool.New().
		WithMaxGoroutines(b.concurrency).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for start := 0; start < len(texts); start += b.batchSize {
		end := min(start+b.batchSize, len(texts))
		batch := texts[start:end]
		offset := start
		p.Go(func(ctx context.Context) error {
			vectors, err := b.inner.Embed(ctx, batch)
			if err != nil {
				return fmt.Errorf("embed batch at %d: %w", offset, err)
			}
			if err := checkVectors(batch, vectors); err != nil {
				return err
			}
			mu.Lock()
			copy(out[offset:], vectors)
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
