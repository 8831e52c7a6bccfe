package index

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
)

const DefaultEmbeddingTTL = 30 * 24 * time.Hour

// fileCache stores one JSON file per key. Entries expire after a TTL that
// is staggered per key so a batch written together does not expire together.
type fileCache struct {
	fs  afero.Fs
	dir string
	ttl time.Duration
}

func newFileCache(fs afero.Fs, dir string, ttl time.Duration) *fileCache {
	return &fileCache{fs: fs, dir: dir, ttl: ttl}
}

// jitteredTTL adds up to a tenth of the base TTL, derived from the key hash.
func (c *fileCache) jitteredTTL(key string) time.Duration {
	span := c.ttl / 10
	if span <= 0 {
		return c.ttl
	}
	h := sha256.Sum256([]byte(key))
	n := binary.BigEndian.Uint64(h[:8])
	return c.ttl + time.Duration(n%uint64(span))
}

func (c *fileCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *fileCache) get(key string, v any) bool {
	path := c.path(key)
	fi, err := c.fs.Stat(path)
	if err != nil {
		return false
	}
	if c.ttl > 0 && time.Since(fi.ModTime()) > c.jitteredTTL(key) {
		_ = c.fs.Remove(path)
		return false
	}
	f, err := c.fs.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v) == nil
}

func (c *fileCache) set(key string, v any) error {
	if err := c.fs.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	path := c.path(key)
	tmp := path + ".tmp"
	f, err := c.fs.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(v); err != nil {
		f.Close()
		_ = c.fs.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = c.fs.Remove(tmp)
		return err
	}
	return c.fs.Rename(tmp, path)
}

// clear drops every cached entry.
func (c *fileCache) clear() error {
	entries, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		_ = c.fs.Remove(filepath.Join(c.dir, entry.Name()))
	}
	return nil
}

// CachedEmbedder memoizes vectors on disk keyed by model name and text.
// Only texts missing from the cache reach the wrapped embedder.
type CachedEmbedder struct {
	inner Embedder
	cache *fileCache
	log   zerolog.Logger
}

func NewCachedEmbedder(inner Embedder, fs afero.Fs, dir string, ttl time.Duration) *CachedEmbedder {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &CachedEmbedder{
		inner: inner,
		cache: newFileCache(fs, dir, ttl),
		log:   logging.With("embedding-cache"),
	}
}

func (c *CachedEmbedder) Name() string { return c.inner.Name() }

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(c.inner.Name() + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var (
		missing    []string
		missingIdx []int
	)
	for i, text := range texts {
		var v []float32
		if c.cache.get(c.key(text), &v) && len(v) > 0 {
			out[i] = v
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vectors, err := c.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if err := checkVectors(missing, vectors); err != nil {
		return nil, err
	}
	for j, v := range vectors {
		out[missingIdx[j]] = v
		if err := c.cache.set(c.key(missing[j]), v); err != nil {
			c.log.Warn().Err(err).Msg("failed to write embedding cache entry")
		}
	}
	c.log.Debug().Int("hits", len(texts)-len(missing)).Int("misses", len(missing)).Msg("embedded texts")
	return out, nil
}

// Clear removes every cached vector.
func (c *CachedEmbedder) Clear() error {
	return c.cache.clear()
}

// ClearCache empties the vector cache behind e. It reports false when e
// does not cache.
func ClearCache(e Embedder) (bool, error) {
	c, ok := e.(*CachedEmbedder)
	if !ok {
		return false, nil
	}
	return true, c.Clear()
}
