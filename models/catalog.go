package models

import (
	"encoding/json"
	"strings"
)

// Kind is the catalog content category.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// ParseKind maps the spellings used by clients ("movie", "tv", "series",
// "TV Show") to a Kind. ok is false for anything else.
func ParseKind(value string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie", "movies":
		return KindMovie, true
	case "tv", "series", "tv show", "tvshow", "show":
		return KindSeries, true
	default:
		return "", false
	}
}

// Valid reports whether k is one of the recognized categories.
func (k Kind) Valid() bool {
	return k == KindMovie || k == KindSeries
}

// CatalogItem is one entry of a now playing / airing today page.
// Title and ReleaseDate hold "title"/"release_date" for movies and
// "name"/"first_air_date" for series.
type CatalogItem struct {
	Kind        Kind    `json:"-"`
	ID          int64   `json:"id"`
	Title       string  `json:"-"`
	ReleaseDate string  `json:"-"` // YYYY-MM-DD, may be empty
	GenreIDs    []int   `json:"genre_ids"`
	PosterPath  string  `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
	Overview    string  `json:"overview"`

	OriginalTitle    string   `json:"-"`
	OriginalLanguage string   `json:"original_language,omitempty"`
	BackdropPath     string   `json:"backdrop_path,omitempty"`
	Adult            bool     `json:"adult"`
	Video            bool     `json:"video,omitempty"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
	OriginCountry    []string `json:"origin_country,omitempty"`
}

// TitleLabel is the upstream field name holding the item's title.
func (k Kind) TitleLabel() string {
	if k == KindSeries {
		return "name"
	}
	return "title"
}

// DateLabel is the upstream field name holding the item's release date.
func (k Kind) DateLabel() string {
	if k == KindSeries {
		return "first_air_date"
	}
	return "release_date"
}

// OriginalTitleLabel is the upstream field name holding the original title.
func (k Kind) OriginalTitleLabel() string {
	if k == KindSeries {
		return "original_name"
	}
	return "original_title"
}

// EnrichedItem is a CatalogItem with resolved genre names and its
// synthesized context record.
type EnrichedItem struct {
	CatalogItem
	GenreNames   []string `json:"genre"`
	CombinedInfo string   `json:"combined_info"`
	PosterURL    string   `json:"poster_url,omitempty"`
}

// MarshalJSON renders the record with the kind-specific field names the
// catalog uses, so /fetch mirrors the upstream shape plus the derived fields.
func (e EnrichedItem) MarshalJSON() ([]byte, error) {
	type plain EnrichedItem
	base, err := json.Marshal(plain(e))
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	extra := map[string]string{
		e.Kind.TitleLabel():         e.Title,
		e.Kind.DateLabel():          e.ReleaseDate,
		e.Kind.OriginalTitleLabel(): e.OriginalTitle,
	}
	for key, value := range extra {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		fields[key] = raw
	}
	kind, _ := json.Marshal(e.Kind)
	fields["kind"] = kind
	if e.GenreNames == nil {
		fields["genre"] = json.RawMessage("[]")
	}
	return json.Marshal(fields)
}
