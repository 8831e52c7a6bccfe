package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/recommend"
)

const rootMessage = "Movie / TV Show Recommendation ChatBot"

type catalogService interface {
	Fetch(ctx context.Context, rawKind string) ([]models.EnrichedItem, error)
}

var _ catalogService = (*recommend.Service)(nil)

type CatalogHandler struct {
	Service catalogService
}

func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{Service: service}
}

// Root answers GET / with a fixed liveness message.
func (h *CatalogHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": rootMessage})
}

// Fetch answers GET /fetch/{kind} with the enriched catalog. Every failure,
// including upstream errors, is reported as 400.
func (h *CatalogHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]

	items, err := h.Service.Fetch(r.Context(), kind)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if items == nil {
		items = []models.EnrichedItem{}
	}
	writeJSON(w, http.StatusOK, items)
}
