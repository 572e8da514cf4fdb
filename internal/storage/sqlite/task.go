package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aanand-mishra/taskflow-api/internal/types"
)

const taskColumns = "id, user_id, title, description, completed, priority, category, due_date, created_at, updated_at"

func scanTask(row rowScanner) (types.Task, error) {
	var (
		task        types.Task
		description sql.NullString
		dueDate     sql.NullString
		priority    string
		category    string
	)
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&task.Completed,
		&priority,
		&category,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return types.Task{}, err
	}
	if description.Valid {
		task.Description = &description.String
	}
	if dueDate.Valid {
		task.DueDate = &dueDate.String
	}
	task.Priority = types.Priority(priority)
	task.Category = types.Category(category)
	return task, nil
}

// CreateTask inserts a task owned by userID.
func (s *SQLite) CreateTask(ctx context.Context, in types.TaskCreate, userID uuid.UUID) (types.Task, error) {
	task := in.NewTask(uuid.New(), userID, timestamp())

	_, err := s.Db.ExecContext(ctx,
		"INSERT INTO tasks ("+taskColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		task.ID.String(),
		task.UserID.String(),
		task.Title,
		task.Description,
		task.Completed,
		string(task.Priority),
		string(task.Category),
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return types.Task{}, fmt.Errorf("CreateTask: exec: %w", err)
	}
	return task, nil
}

// GetTaskByID matches on both id and owner.
func (s *SQLite) GetTaskByID(ctx context.Context, id, userID uuid.UUID) (*types.Task, error) {
	row := s.Db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ? AND user_id = ? LIMIT 1",
		id.String(), userID.String(),
	)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetTaskByID: scan: %w", err)
	}
	return &task, nil
}

func (s *SQLite) GetUserTasks(ctx context.Context, userID uuid.UUID) ([]types.Task, error) {
	rows, err := s.Db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = ? ORDER BY created_at DESC, rowid DESC",
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("GetUserTasks: query: %w", err)
	}
	defer rows.Close()

	tasks := make([]types.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("GetUserTasks: scan row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetUserTasks: rows iteration: %w", err)
	}
	return tasks, nil
}

// GetUserStats counts in the database; no task rows are loaded.
func (s *SQLite) GetUserStats(ctx context.Context, userID uuid.UUID) (types.TaskStats, error) {
	var stats types.TaskStats
	err := s.Db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0)
		 FROM tasks WHERE user_id = ?`,
		userID.String(),
	).Scan(&stats.Total, &stats.Completed)
	if err != nil {
		return types.TaskStats{}, fmt.Errorf("GetUserStats: scan: %w", err)
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

func (s *SQLite) UpdateTask(ctx context.Context, id, userID uuid.UUID, update types.TaskUpdate) (*types.Task, error) {
	task, err := s.GetTaskByID(ctx, id, userID)
	if err != nil || task == nil {
		return nil, err
	}

	update.Apply(task)
	task.UpdatedAt = timestamp()

	_, err = s.Db.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, description = ?, completed = ?, priority = ?, category = ?, due_date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		task.Title,
		task.Description,
		task.Completed,
		string(task.Priority),
		string(task.Category),
		task.DueDate,
		task.UpdatedAt,
		id.String(),
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("UpdateTask: exec: %w", err)
	}
	return task, nil
}

func (s *SQLite) DeleteTask(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result, err := s.Db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND user_id = ?",
		id.String(), userID.String(),
	)
	if err != nil {
		return false, fmt.Errorf("DeleteTask: exec: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("DeleteTask: rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *SQLite) DeleteUserTasks(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := s.Db.ExecContext(ctx, "DELETE FROM tasks WHERE user_id = ?", userID.String())
	if err != nil {
		return 0, fmt.Errorf("DeleteUserTasks: exec: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteUserTasks: rows affected: %w", err)
	}
	return n, nil
}
