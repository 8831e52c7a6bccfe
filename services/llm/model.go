// Package llm hides the chat model providers behind one interface.
package llm

//go:generate mockgen -source=model.go -destination=mock_model.go -package=llm

import (
	"context"
	"errors"
)

// Role of a message in a chat request.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one prior or current chat turn.
type Message struct {
	Role    Role
	Content string
}

// Request is a provider independent completion request. System carries the
// instructions; Messages alternate user and assistant turns and end with a
// user turn.
type Request struct {
	System      string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// ChatModel generates one reply for a request.
type ChatModel interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

var (
	ErrEmptyResponse   = errors.New("model returned an empty response")
	ErrMissingAPIKey   = errors.New("model api key not configured")
	ErrUnknownProvider = errors.New("unknown model provider")
)
