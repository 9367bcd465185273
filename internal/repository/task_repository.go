package repository

import (
	"context"
	"database/sql"
	"fmt"

	"zenfocus/internal/model"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskPatch carries a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

func (r *TaskRepository) List(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, title, completed, created_at
		 FROM tasks
		 WHERE user_id = ?
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var task model.Task
		var completed int
		if err := rows.Scan(&task.ID, &task.Title, &completed, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task.Completed = completed != 0
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, userID string, task model.Task) error {
	completed := 0
	if task.Completed {
		completed = 1
	}
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO tasks (id, user_id, title, completed, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		task.ID,
		userID,
		task.Title,
		completed,
		task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of patch and returns the number of rows
// changed (0 when the task does not exist or belongs to another user).
func (r *TaskRepository) Update(ctx context.Context, userID, taskID string, patch TaskPatch) (int64, error) {
	set := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)

	if patch.Title != nil {
		set = append(set, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Completed != nil {
		completed := 0
		if *patch.Completed {
			completed = 1
		}
		set = append(set, "completed = ?")
		args = append(args, completed)
	}
	if len(set) == 0 {
		return 0, nil
	}

	query := "UPDATE tasks SET " + set[0]
	for _, clause := range set[1:] {
		query += ", " + clause
	}
	query += " WHERE id = ? AND user_id = ?"
	args = append(args, taskID, userID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update task: %w", err)
	}
	changed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update task rows affected: %w", err)
	}
	return changed, nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID string) (int64, error) {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`,
		taskID,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete task: %w", err)
	}
	changed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete task rows affected: %w", err)
	}
	return changed, nil
}
