package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
	"github.com/ahmadluay9/movie-recommendation-chatbot/services/conversations"
)

type sessionService interface {
	Messages(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	Delete(ctx context.Context, sessionID string) error
}

var _ sessionService = (*conversations.Service)(nil)

type SessionsHandler struct {
	Service sessionService
}

func NewSessionsHandler(service sessionService) *SessionsHandler {
	return &SessionsHandler{Service: service}
}

// Messages answers GET /sessions/{id}/messages.
func (h *SessionsHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.Service.Messages(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, conversations.ErrSessionNotFound) {
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// Delete answers DELETE /sessions/{id}.
func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Service.Delete(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, conversations.ErrSessionNotFound) {
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
