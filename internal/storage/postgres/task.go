package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aanand-mishra/taskflow-api/internal/types"
)

const taskColumns = "id, user_id, title, description, completed, priority, category, due_date, created_at, updated_at"

func scanTask(row pgx.Row) (types.Task, error) {
	var (
		task     types.Task
		priority string
		category string
	)
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&priority,
		&category,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return types.Task{}, err
	}
	task.Priority = types.Priority(priority)
	task.Category = types.Category(category)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return task, nil
}

func (p *Postgres) CreateTask(ctx context.Context, in types.TaskCreate, userID uuid.UUID) (types.Task, error) {
	task := in.NewTask(uuid.New(), userID, timestamp())

	_, err := p.pool.Exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
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

func (p *Postgres) GetTaskByID(ctx context.Context, id, userID uuid.UUID) (*types.Task, error) {
	row := p.pool.QueryRow(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1 AND user_id = $2",
		id.String(), userID.String(),
	)
	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetTaskByID: scan: %w", err)
	}
	return &task, nil
}

func (p *Postgres) GetUserTasks(ctx context.Context, userID uuid.UUID) ([]types.Task, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = $1 ORDER BY created_at DESC, id DESC",
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

func (p *Postgres) GetUserStats(ctx context.Context, userID uuid.UUID) (types.TaskStats, error) {
	var stats types.TaskStats
	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0)
		 FROM tasks WHERE user_id = $1`,
		userID.String(),
	).Scan(&stats.Total, &stats.Completed)
	if err != nil {
		return types.TaskStats{}, fmt.Errorf("GetUserStats: scan: %w", err)
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

func (p *Postgres) UpdateTask(ctx context.Context, id, userID uuid.UUID, update types.TaskUpdate) (*types.Task, error) {
	task, err := p.GetTaskByID(ctx, id, userID)
	if err != nil || task == nil {
		return nil, err
	}

	update.Apply(task)
	task.UpdatedAt = timestamp()

	_, err = p.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, priority = $4, category = $5, due_date = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9`,
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

func (p *Postgres) DeleteTask(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := p.pool.Exec(ctx,
		"DELETE FROM tasks WHERE id = $1 AND user_id = $2",
		id.String(), userID.String(),
	)
	if err != nil {
		return false, fmt.Errorf("DeleteTask: exec: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (p *Postgres) DeleteUserTasks(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := p.pool.Exec(ctx, "DELETE FROM tasks WHERE user_id = $1", userID.String())
	if err != nil {
		return 0, fmt.Errorf("DeleteUserTasks: exec: %w", err)
	}
	return tag.RowsAffected(), nil
}
