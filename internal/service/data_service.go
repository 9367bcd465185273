package service

import (
	"context"

	"github.com/google/uuid"

	apperrors "zenfocus/internal/errors"
	"zenfocus/internal/model"
	"zenfocus/internal/repository"
)

// DataService owns the per-user persisted entities: settings, tasks,
// session history and theme. The timer itself lives on the client; the
// server only stores what the client tells it.
type DataService struct {
	settingsRepo *repository.SettingsRepository
	taskRepo     *repository.TaskRepository
	sessionRepo  *repository.SessionRepository
	themeRepo    *repository.ThemeRepository
}

func NewDataService(
	settingsRepo *repository.SettingsRepository,
	taskRepo *repository.TaskRepository,
	sessionRepo *repository.SessionRepository,
	themeRepo *repository.ThemeRepository,
) *DataService {
	return &DataService{
		settingsRepo: settingsRepo,
		taskRepo:     taskRepo,
		sessionRepo:  sessionRepo,
		themeRepo:    themeRepo,
	}
}

// GetSettings returns the user's settings, falling back to defaults when the
// user has never saved any.
func (s *DataService) GetSettings(ctx context.Context, userID string) (*model.Settings, *apperrors.APIError) {
	settings, err := s.settingsRepo.Get(ctx, userID)
	if err == repository.ErrNotFound {
		defaults := model.DefaultSettings()
		return &defaults, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to get settings")
	}
	return settings, nil
}

func (s *DataService) UpdateSettings(ctx context.Context, userID string, settings model.Settings) *apperrors.APIError {
	if !settings.Validate() {
		return apperrors.BadRequest("invalid_settings", "all durations and the daily goal must be positive")
	}
	if err := s.settingsRepo.Upsert(ctx, userID, settings); err != nil {
		return apperrors.Internal("failed to update settings")
	}
	return nil
}

func (s *DataService) ListTasks(ctx context.Context, userID string) ([]model.Task, *apperrors.APIError) {
	tasks, err := s.taskRepo.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list tasks")
	}
	return tasks, nil
}

// CreateTask stores a client-created task. The client supplies the id so the
// optimistic local copy and the server row share identity; a missing id is
// filled in server-side.
func (s *DataService) CreateTask(ctx context.Context, userID string, task model.Task) (string, *apperrors.APIError) {
	if task.Title == "" {
		return "", apperrors.BadRequest("invalid_title", "title is required")
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if err := s.taskRepo.Create(ctx, userID, task); err != nil {
		return "", apperrors.Internal("failed to create task")
	}
	return task.ID, nil
}

func (s *DataService) UpdateTask(ctx context.Context, userID, taskID string, patch repository.TaskPatch) (int64, *apperrors.APIError) {
	if patch.Title == nil && patch.Completed == nil {
		return 0, apperrors.BadRequest("no_fields", "no fields to update")
	}
	changed, err := s.taskRepo.Update(ctx, userID, taskID, patch)
	if err != nil {
		return 0, apperrors.Internal("failed to update task")
	}
	return changed, nil
}

func (s *DataService) DeleteTask(ctx context.Context, userID, taskID string) (int64, *apperrors.APIError) {
	changed, err := s.taskRepo.Delete(ctx, userID, taskID)
	if err != nil {
		return 0, apperrors.Internal("failed to delete task")
	}
	return changed, nil
}

// ListSessions returns the user's history, chronological ascending.
func (s *DataService) ListSessions(ctx context.Context, userID string) ([]model.Session, *apperrors.APIError) {
	sessions, err := s.sessionRepo.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list sessions")
	}
	return sessions, nil
}

func (s *DataService) RecordSession(ctx context.Context, userID string, session model.Session) (string, *apperrors.APIError) {
	if !model.ValidMode(session.Mode) {
		return "", apperrors.BadRequest("invalid_mode", "mode must be one of focus, shortBreak, longBreak")
	}
	if session.Duration <= 0 {
		return "", apperrors.BadRequest("invalid_duration", "duration must be positive seconds")
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := s.sessionRepo.Create(ctx, userID, session); err != nil {
		return "", apperrors.Internal("failed to record session")
	}
	return session.ID, nil
}

func (s *DataService) GetTheme(ctx context.Context, userID string) (string, *apperrors.APIError) {
	theme, err := s.themeRepo.Get(ctx, userID)
	if err == repository.ErrNotFound {
		return model.ThemeNature, nil
	}
	if err != nil {
		return "", apperrors.Internal("failed to get theme")
	}
	return theme, nil
}

func (s *DataService) UpdateTheme(ctx context.Context, userID, theme string) *apperrors.APIError {
	if theme == "" {
		return apperrors.BadRequest("invalid_theme", "theme is required")
	}
	if err := s.themeRepo.Upsert(ctx, userID, theme); err != nil {
		return apperrors.Internal("failed to update theme")
	}
	return nil
}
