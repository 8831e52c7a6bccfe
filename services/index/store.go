package index

import (
	"context"
	"math"
	"sort"
	"sync"
)

// Document is one embedded chunk and the position of the record it came
// from.
type Document struct {
	Text     string
	Position int
}

// Match is a stored document returned by a vector query, best first.
type Match struct {
	Document
	Score  float32
	Vector []float32
}

// VectorStore holds the vectors of a single build.
type VectorStore interface {
	Add(ctx context.Context, docs []Document, vectors [][]float32) error
	Query(ctx context.Context, vector []float32, k int) ([]Match, error)
	Len() int
	Close() error
}

// StoreFactory opens an empty store for a new build.
type StoreFactory func(ctx context.Context) (VectorStore, error)

// MemoryStore is a brute-force cosine store kept in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	docs    []Document
	vectors [][]float32
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// MemoryStoreFactory opens a fresh MemoryStore per build.
func MemoryStoreFactory(context.Context) (VectorStore, error) {
	return NewMemoryStore(), nil
}

func (m *MemoryStore) Add(_ context.Context, docs []Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return ErrEmptyEmbedding
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, docs...)
	for _, v := range vectors {
		m.vectors = append(m.vectors, normalize(v))
	}
	return nil
}

func (m *MemoryStore) Query(ctx context.Context, vector []float32, k int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.docs) == 0 {
		return []Match{}, nil
	}
	q := normalize(vector)
	matches := make([]Match, len(m.docs))
	for i := range m.docs {
		matches[i] = Match{Document: m.docs[i], Score: dot(q, m.vectors[i]), Vector: m.vectors[i]}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *MemoryStore) Close() error { return nil }

func dot(a, b []float32) float32 {
	n := min(len(a), len(b))
	var s float32
	for i := 0; i < n; i++ {
		s += a[i] * b[i]
	}
	return s
}

func normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if norm == 0 {
		return out
	}
	scale := float32(1 / math.Sqrt(norm))
	for i, x := range v {
		out[i] = x * scale
	}
	return out
}

// maximalMarginalRelevance picks k of the candidates, trading similarity to
// the query (lambda 1) against diversity from already picked ones (lambda 0).
func maximalMarginalRelevance(query []float32, candidates []Match, k int, lambda float32) []Match {
	if k <= 0 || len(candidates) == 0 {
		return []Match{}
	}
	q := normalize(query)
	vecs := make([][]float32, len(candidates))
	for i, c := range candidates {
		vecs[i] = normalize(c.Vector)
	}
	picked := make([]int, 0, k)
	used := make([]bool, len(candidates))
	for len(picked) < k && len(picked) < len(candidates) {
		best, bestScore := -1, float32(math.Inf(-1))
		for i := range candidates {
			if used[i] {
				continue
			}
			redundancy := float32(math.Inf(-1))
			for _, j := range picked {
				redundancy = max(redundancy, dot(vecs[i], vecs[j]))
			}
			if len(picked) == 0 {
				redundancy = 0
			}
			score := lambda*dot(q, vecs[i]) - (1-lambda)*redundancy
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		used[best] = true
		picked = append(picked, best)
	}
	out := make([]Match, len(picked))
	for i, idx := range picked {
		out[i] = candidates[idx]
	}
	return out
}
