package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts.BaseURL = srv.URL
	if opts.APIKey == "" {
		opts.APIKey = "test-token"
	}
	return NewClient(opts)
}

func TestFetchMoviesRequestShape(t *testing.T) {
	body := fixture(t, "now_playing.json")
	var seen *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}, Options{Language: "en_US"})

	items, err := client.Fetch(context.Background(), models.KindMovie)
	require.NoError(t, err)
	require.NotNil(t, seen)

	assert.Equal(t, "/movie/now_playing", seen.URL.Path)
	assert.Equal(t, "en-US", seen.URL.Query().Get("language"))
	assert.Equal(t, "1", seen.URL.Query().Get("page"))
	assert.Equal(t, "Bearer test-token", seen.Header.Get("Authorization"))
	assert.Equal(t, "application/json", seen.Header.Get("Accept"))

	require.Len(t, items, 3)
	assert.Equal(t, "Kingdom of the Planet of the Apes", items[0].Title)
	assert.Equal(t, "2024-05-08", items[0].ReleaseDate)
	assert.Equal(t, []int{28}, items[0].GenreIDs)
	assert.Equal(t, "/abc123.jpg", items[0].PosterPath)
	assert.Equal(t, models.KindMovie, items[0].Kind)

	assert.Equal(t, "Untitled Project", items[1].Title)
	assert.Empty(t, items[1].PosterPath)
	assert.NotNil(t, items[1].GenreIDs)
	assert.Empty(t, items[1].GenreIDs)

	assert.Equal(t, []int{9999}, items[2].GenreIDs)
}

func TestFetchSeriesUsesNameAndFirstAirDate(t *testing.T) {
	body := fixture(t, "airing_today.json")
	var path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write(body)
	}, Options{})

	items, err := client.Fetch(context.Background(), models.KindSeries)
	require.NoError(t, err)
	assert.Equal(t, "/tv/airing_today", path)
	require.Len(t, items, 1)
	assert.Equal(t, "Starlight Harbor", items[0].Title)
	assert.Equal(t, "2019-03-14", items[0].ReleaseDate)
	assert.Equal(t, []string{"US"}, items[0].OriginCountry)
	assert.Equal(t, models.KindSeries, items[0].Kind)
}

func TestFetchEmptyResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"results":[],"total_pages":0,"total_results":0}`))
	}, Options{})

	items, err := client.Fetch(context.Background(), models.KindMovie)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFetchInvalidKindMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}, Options{})

	_, err := client.Fetch(context.Background(), models.Kind("anime"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidKind))
	assert.Zero(t, hits.Load())
}

func TestFetchNonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
	}, Options{})

	_, err := client.Fetch(context.Background(), models.KindMovie)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusUnauthorized, fe.StatusCode)
	assert.Contains(t, fe.Body, "Invalid API key")
	assert.Contains(t, err.Error(), "status code 401")
	assert.True(t, IsAuthError(err))
}

func TestFetchMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	}, Options{})

	_, err := client.Fetch(context.Background(), models.KindMovie)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode catalog response")
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, Options{BreakerFailures: 2, BreakerCooldown: time.Minute})

	for i := 0; i < 2; i++ {
		_, err := client.Fetch(context.Background(), models.KindMovie)
		require.Error(t, err)
	}
	_, err := client.Fetch(context.Background(), models.KindMovie)
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load())
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}, Options{BreakerFailures: 1, BreakerCooldown: time.Minute})

	for i := 0; i < 3; i++ {
		_, err := client.Fetch(context.Background(), models.KindMovie)
		require.True(t, IsAuthError(err))
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestNormalizeLanguage(t *testing.T) {
	cases := map[string]string{
		"":       "en-US",
		"en":     "en-US",
		"en_US":  "en-US",
		"pt-br":  "pt-BR",
		"de-DE":  "de-DE",
		"!!nope": "en-US",
	}
	for input, want := range cases {
		assert.Equal(t, want, normalizeLanguage(input), "input %q", input)
	}
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("tv")
	require.NoError(t, err)
	assert.Equal(t, models.KindSeries, kind)

	_, err = ParseKind("podcast")
	assert.ErrorIs(t, err, ErrInvalidKind)
}
