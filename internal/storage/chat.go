package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChatSession is one conversation thread for a profile.
type ChatSession struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatMessage is a single message in a session. Role is "user" or "ai";
// AI replies are produced by an external inference service and posted back
// through the same append path.
type ChatMessage struct {
	ID        int64     `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateChatSession opens a new session for a profile.
func (db *DB) CreateChatSession(ctx context.Context, profileID uuid.UUID, title string) (*ChatSession, error) {
	var s ChatSession
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO chat_sessions (id, profile_id, title)
		VALUES ($1, $2, $3)
		RETURNING id, profile_id, title, created_at, updated_at`,
		uuid.New(), profileID, title).
		Scan(&s.ID, &s.ProfileID, &s.Title, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating chat session: %w", err)
	}
	return &s, nil
}

// ListChatSessions returns a profile's sessions, most recently active
// first.
func (db *DB) ListChatSessions(ctx context.Context, profileID uuid.UUID) ([]ChatSession, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, profile_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE profile_id = $1
		ORDER BY updated_at DESC`, profileID)
	if err != nil {
		return nil, fmt.Errorf("listing chat sessions: %w", err)
	}
	defer rows.Close()

	var out []ChatSession
	for rows.Next() {
		var s ChatSession
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.Title, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetChatSession fetches a session by ID.
func (db *DB) GetChatSession(ctx context.Context, id uuid.UUID) (*ChatSession, error) {
	var s ChatSession
	err := db.Pool.QueryRow(ctx, `
		SELECT id, profile_id, title, created_at, updated_at
		FROM chat_sessions WHERE id = $1`, id).
		Scan(&s.ID, &s.ProfileID, &s.Title, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("fetching chat session %s: %w", id, err)
	}
	return &s, nil
}

// AppendChatMessage stores a message and bumps the session's updated_at so
// the session list stays ordered by activity.
func (db *DB) AppendChatMessage(ctx context.Context, sessionID uuid.UUID, role, content string) (*ChatMessage, error) {
	if role != "user" && role != "ai" {
		return nil, fmt.Errorf("invalid chat role %q", role)
	}

	var m ChatMessage
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO chat_messages (session_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, session_id, role, content, created_at`,
		sessionID, role, content).
		Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("appending chat message: %w", err)
	}

	if _, err := db.Pool.Exec(ctx,
		`UPDATE chat_sessions SET updated_at = NOW() WHERE id = $1`, sessionID); err != nil {
		return nil, fmt.Errorf("touching chat session: %w", err)
	}
	return &m, nil
}

// ListChatMessages returns a session's messages oldest first.
func (db *DB) ListChatMessages(ctx context.Context, sessionID uuid.UUID) ([]ChatMessage, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing chat messages: %w", err)
	}
	defer rows.Close()

	var out []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteChatSession removes a session and its messages (cascade).
func (db *DB) DeleteChatSession(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting chat session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("chat session %s not found", id)
	}
	return nil
}
