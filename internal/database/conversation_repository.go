package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
)

// ChatSession is a row of chat_sessions.
type ChatSession struct {
	ID        string
	Kind      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConversationRepository persists chat sessions and their messages.
type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// TouchSession creates the session if missing and bumps its updated_at.
// A non-empty kind replaces the stored one.
func (r *ConversationRepository) TouchSession(ctx context.Context, id, kind string, now time.Time) error {
	now = now.UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, kind, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			updated_at = excluded.updated_at,
			kind = CASE WHEN excluded.kind = '' THEN chat_sessions.kind ELSE excluded.kind END`,
		id, kind, now, now)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// GetSession returns the session or nil when it does not exist.
func (r *ConversationRepository) GetSession(ctx context.Context, id string) (*ChatSession, error) {
	var s ChatSession
	err := r.db.QueryRowContext(ctx,
		`SELECT id, kind, created_at, updated_at FROM chat_sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.Kind, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// AppendMessages stores messages in order inside one transaction. Every
// message must belong to an existing session.
func (r *ConversationRepository) AppendMessages(ctx context.Context, msgs ...models.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chat_messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare append: %w", err)
	}
	defer stmt.Close()

	for _, m := range msgs {
		if _, err := stmt.ExecContext(ctx, m.SessionID, string(m.Role), m.Content, m.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("append message: %w", err)
		}
	}
	return tx.Commit()
}

// RecentMessages returns up to limit of the newest messages of a session in
// chronological order. limit <= 0 returns all of them.
func (r *ConversationRepository) RecentMessages(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	query := `SELECT id, session_id, role, content, created_at FROM chat_messages
		WHERE session_id = ? ORDER BY id DESC`
	args := []any{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	msgs := []models.ChatMessage{}
	for rows.Next() {
		var (
			m    models.ChatMessage
			role string
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Role = models.ChatRole(role)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// DeleteSession removes a session and, by cascade, its messages.
func (r *ConversationRepository) DeleteSession(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteIdleSessions removes sessions not updated since cutoff.
func (r *ConversationRepository) DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chat_sessions WHERE updated_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete idle sessions: %w", err)
	}
	return res.RowsAffected()
}

// CountSessions returns the number of stored sessions.
func (r *ConversationRepository) CountSessions(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}
