package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/catalog"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/index"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/llm"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/responder"
)

type fakeCatalog struct {
	items []models.CatalogItem
	err   error
	kinds []models.Kind
}

func (f *fakeCatalog) Fetch(_ context.Context, kind models.Kind) ([]models.CatalogItem, error) {
	f.kinds = append(f.kinds, kind)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.CatalogItem, len(f.items))
	for i, it := range f.items {
		it.Kind = kind
		out[i] = it
	}
	return out, nil
}

type fakeMemory struct {
	history  []models.ChatMessage
	recorded []string
	asked    []string
}

func (m *fakeMemory) History(_ context.Context, id string) ([]models.ChatMessage, error) {
	m.asked = append(m.asked, id)
	return m.history, nil
}

func (m *fakeMemory) Record(_ context.Context, id string, _ models.Kind, q, a string) error {
	m.recorded = append(m.recorded, id+"|"+q+"|"+a)
	return nil
}

var fixtureItems = []models.CatalogItem{
	{ID: 1, Title: "Kingdom of the Planet of the Apes", ReleaseDate: "2024-05-08", GenreIDs: []int{28}, PosterPath: "/abc123.jpg", Popularity: 2458.15, Overview: "Apes rule."},
	{ID: 2, Title: "Untitled Project", GenreIDs: []int{}, Popularity: 12.5},
	{ID: 3, Title: "The Mystery", ReleaseDate: "2024-04-30", GenreIDs: []int{9999}, PosterPath: "/zzz999.png", Popularity: 40},
}

func newTestService(t *testing.T, cat *fakeCatalog, model llm.ChatModel, memory chatMemory) *Service {
	t.Helper()
	opts := Options{
		Catalog:      cat,
		Builder:      index.NewBuilder(index.Options{}),
		Responder:    responder.New(model, responder.Options{TopK: 3}),
		ImageBaseURL: "https://image.tmdb.org/t/p",
		PosterSize:   "w500",
		NewSessionID: func() string { return "generated" },
	}
	if memory != nil {
		opts.Memory = memory
	}
	return NewService(opts)
}

func TestFetchEnrichesInOrder(t *testing.T) {
	cat := &fakeCatalog{items: fixtureItems}
	svc := newTestService(t, cat, nil, nil)

	items, err := svc.Fetch(context.Background(), "movie")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, []string{"Action"}, items[0].GenreNames)
	assert.Equal(t, []string{}, items[1].GenreNames)
	assert.Equal(t, []string{"Unknown"}, items[2].GenreNames)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc123.jpg", items[0].PosterURL)
	assert.Empty(t, items[1].PosterURL)
	assert.Contains(t, items[1].CombinedInfo, "poster_path: N/A")
}

func TestFetchTVAlias(t *testing.T) {
	cat := &fakeCatalog{items: fixtureItems[:1]}
	svc := newTestService(t, cat, nil, nil)

	items, err := svc.Fetch(context.Background(), "tv")
	require.NoError(t, err)
	assert.Equal(t, []models.Kind{models.KindSeries}, cat.kinds)
	assert.Contains(t, items[0].CombinedInfo, "name: Kingdom of the Planet of the Apes")
}

func TestFetchInvalidKind(t *testing.T) {
	cat := &fakeCatalog{}
	svc := newTestService(t, cat, nil, nil)

	_, err := svc.Fetch(context.Background(), "anime")
	assert.ErrorIs(t, err, catalog.ErrInvalidKind)
	assert.Empty(t, cat.kinds)
}

func TestRecommendHappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	model := llm.NewMockChatModel(ctrl)
	model.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("1.  - Title: Kingdom of the Planet of the Apes\n    - Poster Path: /abc123.jpg", nil)

	memory := &fakeMemory{}
	svc := newTestService(t, &fakeCatalog{items: fixtureItems}, model, memory)

	res, err := svc.Recommend(context.Background(), models.RecommendRequest{User: "movie", Query: "an action movie"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/abc123.jpg"}, res.PosterPaths)
	assert.Equal(t, []string{"https://image.tmdb.org/t/p/w500/abc123.jpg"}, res.PosterURLs)
	assert.Equal(t, "generated", res.SessionID)
	assert.Equal(t, models.KindMovie, res.Kind)
	assert.Equal(t, 3, res.Items)
	assert.Empty(t, memory.asked, "a new session has no history to load")
	require.Len(t, memory.recorded, 1)
	assert.Contains(t, memory.recorded[0], "generated|an action movie|")
}

func TestRecommendReplaysHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	model := llm.NewMockChatModel(ctrl)
	var prompt string
	model.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req llm.Request) (string, error) {
		prompt = req.Messages[0].Content
		return "No poster here.", nil
	})

	memory := &fakeMemory{history: []models.ChatMessage{
		{Role: models.RoleUser, Content: "something scary"},
		{Role: models.RoleAssistant, Content: "Try The Mystery"},
	}}
	svc := newTestService(t, &fakeCatalog{items: fixtureItems}, model, memory)

	res, err := svc.Recommend(context.Background(), models.RecommendRequest{User: "movie", Query: "and another?", SessionID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", res.SessionID)
	assert.Equal(t, []string{"abc"}, memory.asked)
	assert.Contains(t, prompt, "Human: something scary\nAI: Try The Mystery")
	assert.Empty(t, res.PosterPaths)
	assert.NotNil(t, res.PosterURLs)
}

func TestRecommendBlankSessionIDIsNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	model := llm.NewMockChatModel(ctrl)
	model.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("Try Dune.", nil).Times(2)

	memory := &fakeMemory{}
	svc := newTestService(t, &fakeCatalog{items: fixtureItems}, model, memory)

	res, err := svc.Recommend(context.Background(), models.RecommendRequest{User: "movie", Query: "q", SessionID: "   "})
	require.NoError(t, err)
	assert.Equal(t, "generated", res.SessionID)
	assert.Empty(t, memory.asked, "a blank id must not load history")

	res, err = svc.Recommend(context.Background(), models.RecommendRequest{User: "movie", Query: "q", SessionID: "  abc  "})
	require.NoError(t, err)
	assert.Equal(t, "abc", res.SessionID)
	assert.Equal(t, []string{"abc"}, memory.asked)
}

func TestRecommendEmptyCatalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	model := llm.NewMockChatModel(ctrl)
	model.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("Nothing new today.", nil)

	svc := newTestService(t, &fakeCatalog{}, model, nil)
	res, err := svc.Recommend(context.Background(), models.RecommendRequest{User: "movie", Query: "anything"})
	require.NoError(t, err)
	assert.Zero(t, res.Items)
	assert.Equal(t, "Nothing new today.", res.Result)
}

func TestRecommendCatalogFailureStopsPipeline(t *testing.T) {
	ctrl := gomock.NewController(t)
	model := llm.NewMockChatModel(ctrl)

	fetchErr := &catalog.FetchError{StatusCode: 401, Body: "invalid key"}
	svc := newTestService(t, &fakeCatalog{err: fetchErr}, model, nil)

	_, err := svc.Recommend(context.Background(), models.RecommendRequest{User: "tv", Query: "q"})
	require.Error(t, err)
	assert.True(t, catalog.IsAuthError(err))
}

func TestRecommendValidatesInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	model := llm.NewMockChatModel(ctrl)
	cat := &fakeCatalog{items: fixtureItems}
	svc := newTestService(t, cat, model, nil)

	_, err := svc.Recommend(context.Background(), models.RecommendRequest{User: "books", Query: "q"})
	assert.ErrorIs(t, err, catalog.ErrInvalidKind)

	_, err = svc.Recommend(context.Background(), models.RecommendRequest{User: "movie", Query: "  "})
	assert.ErrorIs(t, err, responder.ErrEmptyQuery)
	assert.Empty(t, cat.kinds)
}

func TestRecommendModelFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	model := llm.NewMockChatModel(ctrl)
	model.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", errors.New("quota exceeded"))

	memory := &fakeMemory{}
	svc := newTestService(t, &fakeCatalog{items: fixtureItems}, model, memory)
	_, err := svc.Recommend(context.Background(), models.RecommendRequest{User: "movie", Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Empty(t, memory.recorded)
}
