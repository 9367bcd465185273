package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zenfocus/internal/model"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns the user's history in chronological ascending order.
func (r *SessionRepository) List(ctx context.Context, userID string) ([]model.Session, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, mode, duration, completed_at
		 FROM sessions
		 WHERE user_id = ?
		 ORDER BY completed_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.Session, 0)
	for rows.Next() {
		var session model.Session
		if err := rows.Scan(&session.ID, &session.Mode, &session.Duration, &session.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) Create(ctx context.Context, userID string, session model.Session) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, user_id, mode, duration, completed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.ID,
		userID,
		session.Mode,
		session.Duration,
		session.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}
