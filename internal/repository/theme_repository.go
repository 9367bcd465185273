package repository

import (
	"context"
	"database/sql"
	"fmt"
)

type ThemeRepository struct {
	db *sql.DB
}

func NewThemeRepository(db *sql.DB) *ThemeRepository {
	return &ThemeRepository{db: db}
}

func (r *ThemeRepository) Get(ctx context.Context, userID string) (string, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT current_theme FROM themes WHERE user_id = ?`,
		userID,
	)

	var theme string
	err := row.Scan(&theme)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get theme: %w", err)
	}
	return theme, nil
}

func (r *ThemeRepository) Upsert(ctx context.Context, userID, theme string) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO themes (user_id, current_theme)
		 VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET current_theme = excluded.current_theme`,
		userID,
		theme,
	)
	if err != nil {
		return fmt.Errorf("upsert theme: %w", err)
	}
	return nil
}
