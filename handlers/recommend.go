package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ahmadluay9/movie-recommendation-chatbot/api"
	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/recommend"
)

const maxRecommendBody = 64 << 10

type recommendService interface {
	Recommend(ctx context.Context, req models.RecommendRequest) (*models.RecommendResult, error)
}

var _ recommendService = (*recommend.Service)(nil)

type RecommendHandler struct {
	Service  recommendService
	validate *validator.Validate
	log      zerolog.Logger
}

func NewRecommendHandler(service recommendService) *RecommendHandler {
	return &RecommendHandler{
		Service:  service,
		validate: validator.New(),
		log:      logging.With("handlers"),
	}
}

// Recommend answers POST /recommend.
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var body models.RecommendRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRecommendBody))
	if err := dec.Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if body.SessionID == "" {
		body.SessionID = api.SessionID(r)
	}
	if err := h.validate.Struct(body); err != nil {
		writeDetail(w, http.StatusBadRequest, validationDetail(err))
		return
	}

	result, err := h.Service.Recommend(r.Context(), body)
	if err != nil {
		h.log.Warn().Err(err).Str("user", body.User).Msg("recommendation failed")
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if result.SessionID != "" {
		w.Header().Set(api.SessionHeader, result.SessionID)
	}
	writeJSON(w, http.StatusOK, result)
}

// validationDetail names the offending JSON fields.
func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: failed %q", jsonFieldName(fe.Field()), fe.Tag()))
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

func jsonFieldName(field string) string {
	switch field {
	case "User":
		return "user"
	case "Query":
		return "query"
	case "SessionID":
		return "session_id"
	}
	return strings.ToLower(field)
}
