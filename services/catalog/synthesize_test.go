package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
)

func TestResolveGenres(t *testing.T) {
	assert.Equal(t, []string{"Action", "Unknown", "Animation"}, ResolveGenres([]int{28, 99999, 16}))
	assert.Equal(t, []string{"Drama", "Drama"}, ResolveGenres([]int{18, 18}))

	empty := ResolveGenres(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSynthesizeMovie(t *testing.T) {
	s := NewSynthesizer(true)
	out := s.Enrich([]models.CatalogItem{
		{Kind: models.KindMovie, Title: "Kingdom of the Planet of the Apes", ReleaseDate: "2024-05-08", GenreIDs: []int{28}, PosterPath: "/abc123.jpg", Popularity: 2458.15, Overview: "Apes rule."},
		{Kind: models.KindMovie, Title: "Untitled Project", GenreIDs: []int{}, Popularity: 12.5},
		{Kind: models.KindMovie, Title: "The Mystery", ReleaseDate: "2024-04-30", GenreIDs: []int{9999}, PosterPath: "/zzz999.png", Popularity: 40, Overview: "Quiet."},
	})
	require.Len(t, out, 3)

	assert.Equal(t,
		"title: Kingdom of the Planet of the Apes, release_date: 2024-05-08, genre: [Action], poster_path: /abc123.jpg, popularity: 2458.15, overview: Apes rule.",
		out[0].CombinedInfo)
	assert.Equal(t,
		"title: Untitled Project, release_date: N/A, genre: [], poster_path: N/A, popularity: 12.5, overview: N/A",
		out[1].CombinedInfo)
	assert.Equal(t, []string{"Unknown"}, out[2].GenreNames)
	assert.Contains(t, out[2].CombinedInfo, "genre: [Unknown]")
	assert.Contains(t, out[2].CombinedInfo, "popularity: 40,")
}

func TestSynthesizeSeriesLabels(t *testing.T) {
	s := NewSynthesizer(true)
	record := s.Synthesize(models.EnrichedItem{
		CatalogItem: models.CatalogItem{Kind: models.KindSeries, Title: "Starlight Harbor", ReleaseDate: "2019-03-14", PosterPath: "/sh001.jpg", Popularity: 310.2},
		GenreNames:  []string{"Sci-Fi & Fantasy", "Drama"},
	})
	assert.Equal(t,
		"name: Starlight Harbor, first_air_date: 2019-03-14, genre: [Sci-Fi & Fantasy Drama], poster_path: /sh001.jpg, popularity: 310.2, overview: N/A",
		record)
}

func TestSynthesizeUnknownKindUsesMovieFields(t *testing.T) {
	s := NewSynthesizer(false)
	record := s.Synthesize(models.EnrichedItem{
		CatalogItem: models.CatalogItem{Kind: models.Kind("anime"), Title: "Akira", ReleaseDate: "1988-07-16", Popularity: 12},
		GenreNames:  []string{"Animation"},
	})
	assert.Equal(t, "title: Akira, release_date: 1988-07-16, genre: [Animation], poster_path: N/A, popularity: 12", record)
}

func TestSynthesizeWithoutOverview(t *testing.T) {
	s := NewSynthesizer(false)
	record := s.Synthesize(models.EnrichedItem{
		CatalogItem: models.CatalogItem{Kind: models.KindMovie, Title: "X", Overview: "secret"},
	})
	assert.NotContains(t, record, "secret")
	assert.NotContains(t, ParseContextRecord(record), "overview")
}

func TestParseContextRecordRoundTrip(t *testing.T) {
	s := NewSynthesizer(true)
	item := models.EnrichedItem{
		CatalogItem: models.CatalogItem{
			Kind:        models.KindMovie,
			Title:       "Kingdom of the Planet of the Apes",
			ReleaseDate: "2024-05-08",
			PosterPath:  "/abc123.jpg",
			Popularity:  2458.15,
			Overview:    "Several generations in the future, apes rule.",
		},
		GenreNames: []string{"Action", "Science Fiction"},
	}
	fields := ParseContextRecord(s.Synthesize(item))

	assert.Equal(t, "Kingdom of the Planet of the Apes", fields["title"])
	assert.Equal(t, "2024-05-08", fields["release_date"])
	assert.Equal(t, "[Action Science Fiction]", fields["genre"])
	assert.Equal(t, "/abc123.jpg", fields["poster_path"])
	assert.Equal(t, "2458.15", fields["popularity"])
	assert.Equal(t, "Several generations in the future, apes rule.", fields["overview"])
}

func TestRecordsKeepsOrder(t *testing.T) {
	items := []models.EnrichedItem{{CombinedInfo: "a"}, {CombinedInfo: "b"}}
	assert.Equal(t, []string{"a", "b"}, Records(items))
	assert.Empty(t, Records(nil))
}

func TestPosterURL(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc123.jpg", PosterURL("", "", "/abc123.jpg"))
	assert.Equal(t, "https://img.example/t/p/w780/abc123.jpg", PosterURL("https://img.example/t/p/", "w780", "/abc123.jpg"))
	assert.Equal(t, "", PosterURL("", "w500", ""))

	assert.True(t, ValidPosterPath("/kqjL17yufvn9OVLyXYpvtyrFfak.jpg"))
	assert.False(t, ValidPosterPath("/../etc/passwd"))
	assert.False(t, ValidPosterPath("abc.jpg"))
	assert.True(t, ValidPosterSize("original"))
	assert.False(t, ValidPosterSize("w9999"))
}
