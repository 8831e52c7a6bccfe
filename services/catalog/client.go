// Package catalog fetches now playing / airing today pages from TMDB and
// turns them into context records for retrieval.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/text/language"

	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "en-US"

	maxErrorBody = 4 << 10
)

// endpoints lists the single page fetched per kind.
var endpoints = map[models.Kind]string{
	models.KindMovie:  "/movie/now_playing",
	models.KindSeries: "/tv/airing_today",
}

// Options configures a Client.
type Options struct {
	APIKey     string
	BaseURL    string
	Language   string
	Timeout    time.Duration
	HTTPClient *http.Client

	// BreakerFailures consecutive transport or 5xx failures open the
	// breaker for BreakerCooldown. Zero disables the breaker.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// Client is a minimal TMDB client for the two listing endpoints.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	httpc    *http.Client
	breaker  *gobreaker.CircuitBreaker[[]byte]
	log      zerolog.Logger
}

func NewClient(opts Options) *Client {
	httpc := opts.HTTPClient
	if httpc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpc = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		apiKey:   strings.TrimSpace(opts.APIKey),
		baseURL:  baseURL,
		language: normalizeLanguage(opts.Language),
		httpc:    httpc,
		log:      logging.With("catalog"),
	}
	if opts.BreakerFailures > 0 {
		threshold := opts.BreakerFailures
		c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:    "tmdb",
			Timeout: opts.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			IsSuccessful: breakerSuccess,
			OnStateChange: func(name string, from, to gobreaker.State) {
				c.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("catalog breaker state changed")
			},
		})
	}
	return c
}

// breakerSuccess counts client errors as successes; only transport
// failures and 5xx answers should trip the breaker.
func breakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode < http.StatusInternalServerError
	}
	return false
}

// normalizeLanguage canonicalizes a locale to TMDB's "ll-CC" form.
func normalizeLanguage(lang string) string {
	lang = strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if lang == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return DefaultLanguage
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	return base.String() + "-" + region.String()
}

// ParseKind is models.ParseKind returning ErrInvalidKind on failure.
func ParseKind(value string) (models.Kind, error) {
	kind, ok := models.ParseKind(value)
	if !ok {
		return "", fmt.Errorf("%w: got %q", ErrInvalidKind, value)
	}
	return kind, nil
}

// Fetch returns page 1 of the listing for kind in upstream order. It makes
// exactly one request and never retries.
func (c *Client) Fetch(ctx context.Context, kind models.Kind) ([]models.CatalogItem, error) {
	endpoint, ok := endpoints[kind]
	if !ok {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidKind, string(kind))
	}

	q := url.Values{}
	q.Set("language", c.language)
	q.Set("page", "1")
	u := c.baseURL + endpoint + "?" + q.Encode()

	var (
		body []byte
		err  error
	)
	if c.breaker != nil {
		body, err = c.breaker.Execute(func() ([]byte, error) { return c.get(ctx, u) })
	} else {
		body, err = c.get(ctx, u)
	}
	if err != nil {
		c.log.Error().Err(err).Str("kind", string(kind)).Msg("catalog fetch failed")
		return nil, err
	}

	var page tmdbPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	items := make([]models.CatalogItem, 0, len(page.Results))
	for _, r := range page.Results {
		items = append(items, r.toItem(kind))
	}
	c.log.Info().Str("kind", string(kind)).Int("items", len(items)).Msg("fetched catalog page")
	return items, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.log.Debug().Str("url", u).Msg("GET")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}
	return body, nil
}

type tmdbPage struct {
	Page         int          `json:"page"`
	Results      []tmdbResult `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

type tmdbResult struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Name             string   `json:"name"`
	OriginalTitle    string   `json:"original_title"`
	OriginalName     string   `json:"original_name"`
	ReleaseDate      string   `json:"release_date"`
	FirstAirDate     string   `json:"first_air_date"`
	GenreIDs         []int    `json:"genre_ids"`
	PosterPath       *string  `json:"poster_path"`
	BackdropPath     *string  `json:"backdrop_path"`
	Popularity       float64  `json:"popularity"`
	Overview         string   `json:"overview"`
	OriginalLanguage string   `json:"original_language"`
	Adult            bool     `json:"adult"`
	Video            bool     `json:"video"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	OriginCountry    []string `json:"origin_country"`
}

func (r tmdbResult) toItem(kind models.Kind) models.CatalogItem {
	item := models.CatalogItem{
		Kind:             kind,
		ID:               r.ID,
		GenreIDs:         r.GenreIDs,
		Popularity:       r.Popularity,
		Overview:         r.Overview,
		OriginalLanguage: r.OriginalLanguage,
		Adult:            r.Adult,
		Video:            r.Video,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		OriginCountry:    r.OriginCountry,
	}
	if item.GenreIDs == nil {
		item.GenreIDs = []int{}
	}
	if r.PosterPath != nil {
		item.PosterPath = *r.PosterPath
	}
	if r.BackdropPath != nil {
		item.BackdropPath = *r.BackdropPath
	}
	if kind == models.KindSeries {
		item.Title = r.Name
		item.OriginalTitle = r.OriginalName
		item.ReleaseDate = r.FirstAirDate
	} else {
		item.Title = r.Title
		item.OriginalTitle = r.OriginalTitle
		item.ReleaseDate = r.ReleaseDate
	}
	return item
}
