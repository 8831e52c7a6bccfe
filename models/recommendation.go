package models

import "time"

// RecommendRequest is the body of POST /recommend.
type RecommendRequest struct {
	User      string `json:"user" validate:"required"`  // content kind
	Query     string `json:"query" validate:"required"` // free text question
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=128"`
}

// Recommendation is the structured responder output. PosterPaths are the
// relative TMDB paths quoted by the model, in the order they appear.
type Recommendation struct {
	Body        string   `json:"result"`
	PosterPaths []string `json:"poster_paths"`
	Sources     []string `json:"-"`
}

// RecommendResult is the response of POST /recommend.
type RecommendResult struct {
	Result      string   `json:"result"`
	PosterPaths []string `json:"poster_paths"`
	PosterURLs  []string `json:"poster_urls"`
	SessionID   string   `json:"session_id"`
	Kind        Kind     `json:"kind"`
	Items       int      `json:"items"`
}

// ChatRole is the speaker of a conversation turn.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
	RoleSystem    ChatRole = "system"
)

// ChatMessage is one stored conversation turn.
type ChatMessage struct {
	ID        int64     `json:"id,omitempty"`
	SessionID string    `json:"sessionId"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
