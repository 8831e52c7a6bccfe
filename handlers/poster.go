package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/catalog"
)

const maxPosterBytes = 10 << 20

// PosterHandler proxies TMDB poster images so browsers only talk to this
// backend.
type PosterHandler struct {
	BaseURL string
	Client  *http.Client
	log     zerolog.Logger
}

func NewPosterHandler(baseURL string, client *http.Client) *PosterHandler {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if baseURL == "" {
		baseURL = catalog.DefaultImageBaseURL
	}
	return &PosterHandler{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
		log:     logging.With("handlers"),
	}
}

// Poster answers GET /poster/{size}/{file}.
func (h *PosterHandler) Poster(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	size, file := vars["size"], "/"+vars["file"]

	if !catalog.ValidPosterSize(size) {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("unsupported poster size %q", size))
		return
	}
	if !catalog.ValidPosterPath(file) {
		writeDetail(w, http.StatusBadRequest, "invalid poster path")
		return
	}

	data, status, err := h.download(r.Context(), catalog.PosterURL(h.BaseURL, size, file))
	if err != nil {
		h.log.Warn().Err(err).Str("poster", file).Msg("poster download failed")
		if status == http.StatusNotFound {
			writeDetail(w, http.StatusNotFound, "poster not found")
			return
		}
		writeDetail(w, http.StatusBadGateway, "poster unavailable")
		return
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		writeDetail(w, http.StatusBadGateway, "upstream returned "+mt.String())
		return
	}

	w.Header().Set("Content-Type", mt.String())
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *PosterHandler) download(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("poster request: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPosterBytes+1))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if len(data) > maxPosterBytes {
		return nil, resp.StatusCode, fmt.Errorf("poster exceeds %d bytes", maxPosterBytes)
	}
	return data, resp.StatusCode, nil
}
