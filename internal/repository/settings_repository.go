package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zenfocus/internal/model"
)

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context, userID string) (*model.Settings, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT focus_duration, short_break_duration, long_break_duration, daily_goal_hours
		 FROM settings
		 WHERE user_id = ?`,
		userID,
	)

	var settings model.Settings
	err := row.Scan(
		&settings.FocusDuration,
		&settings.ShortBreakDuration,
		&settings.LongBreakDuration,
		&settings.DailyGoalHours,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &settings, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, userID string, settings model.Settings) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO settings (user_id, focus_duration, short_break_duration, long_break_duration, daily_goal_hours)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			focus_duration = excluded.focus_duration,
			short_break_duration = excluded.short_break_duration,
			long_break_duration = excluded.long_break_duration,
			daily_goal_hours = excluded.daily_goal_hours`,
		userID,
		settings.FocusDuration,
		settings.ShortBreakDuration,
		settings.LongBreakDuration,
		settings.DailyGoalHours,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
