// Package conversations keeps per-session chat memory.
package conversations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/database"
	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	// DefaultHistoryTurns is how many question/answer pairs are replayed.
	DefaultHistoryTurns = 10

	// DefaultSessionTTL is how long an idle session is kept.
	DefaultSessionTTL = 24 * time.Hour

	cleanupInterval = time.Hour
)

// Repository is the storage the service needs.
type Repository interface {
	TouchSession(ctx context.Context, id, kind string, now time.Time) error
	GetSession(ctx context.Context, id string) (*database.ChatSession, error)
	AppendMessages(ctx context.Context, msgs ...models.ChatMessage) error
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error)
	DeleteSession(ctx context.Context, id string) (bool, error)
	DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int64, error)
	CountSessions(ctx context.Context) (int, error)
}

// Service stores question/answer turns per session and replays the most
// recent ones as chat history.
type Service struct {
	repo         Repository
	historyTurns int
	ttl          time.Duration
	now          func() time.Time
	log          zerolog.Logger
}

// NewService creates the service. historyTurns < 0 and ttl <= 0 fall back to
// the defaults; historyTurns == 0 disables history replay.
func NewService(repo Repository, historyTurns int, ttl time.Duration) *Service {
	if historyTurns < 0 {
		historyTurns = DefaultHistoryTurns
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		repo:         repo,
		historyTurns: historyTurns,
		ttl:          ttl,
		now:          time.Now,
		log:          logging.With("conversations"),
	}
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// History returns the replayable turns of a session, oldest first. Unknown
// sessions have no history.
func (s *Service) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	if strings.TrimSpace(sessionID) == "" || s.historyTurns == 0 {
		return []models.ChatMessage{}, nil
	}
	return s.repo.RecentMessages(ctx, sessionID, s.historyTurns*2)
}

// Record appends one question and its answer to the session, creating the
// session on first use.
func (s *Service) Record(ctx context.Context, sessionID string, kind models.Kind, question, answer string) error {
	now := s.now().UTC()
	if err := s.repo.TouchSession(ctx, sessionID, string(kind), now); err != nil {
		return err
	}
	return s.repo.AppendMessages(ctx,
		models.ChatMessage{SessionID: sessionID, Role: models.RoleUser, Content: question, CreatedAt: now},
		models.ChatMessage{SessionID: sessionID, Role: models.RoleAssistant, Content: answer, CreatedAt: now},
	)
}

// Messages returns every stored turn of a session.
func (s *Service) Messages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return s.repo.RecentMessages(ctx, sessionID, 0)
}

// Delete forgets a session.
func (s *Service) Delete(ctx context.Context, sessionID string) error {
	deleted, err := s.repo.DeleteSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSessionNotFound
	}
	return nil
}

// Cleanup removes sessions idle for longer than the TTL.
func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	return s.repo.DeleteIdleSessions(ctx, s.now().Add(-s.ttl))
}

// Count returns the number of stored sessions.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.CountSessions(ctx)
}

// Run removes idle sessions periodically until ctx is done.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Cleanup(ctx)
			if err != nil {
				s.log.Warn().Err(err).Msg("session cleanup failed")
				continue
			}
			if n > 0 {
				remaining, _ := s.Count(ctx)
				s.log.Info().Int64("removed", n).Int("remaining", remaining).Msg("removed idle sessions")
			}
		}
	}
}
