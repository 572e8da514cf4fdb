// Package storage defines the contracts that any database backend must
// satisfy to work with this application.
//
// Handlers (HTTP layer) depend only on these interfaces, never on a
// concrete database. Two backends implement them: storage/sqlite (the
// default, a single file on disk) and storage/postgres.
//
// ABSENCE IS NOT AN ERROR:
// ────────────────────────
// A lookup that matches nothing returns (nil, nil), and a delete that
// matches nothing returns (false, nil). A non-nil error always means the
// store itself failed, or a constraint was violated (ErrConflict).
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/aanand-mishra/taskflow-api/internal/types"
)

// ErrConflict is returned when a write violates a unique constraint, for
// example two students racing to claim the same email.
var ErrConflict = errors.New("unique constraint violated")

// StudentStorage is the persisted collection of students.
type StudentStorage interface {
	// CreateStudent inserts a new row and returns it with its generated
	// id and timestamps.
	CreateStudent(ctx context.Context, in types.StudentCreate) (types.Student, error)

	// GetStudents returns every student, newest first. Never nil.
	GetStudents(ctx context.Context) ([]types.Student, error)

	GetStudentByID(ctx context.Context, id int64) (*types.Student, error)

	// GetStudentByEmail is an exact, case-sensitive match.
	GetStudentByEmail(ctx context.Context, email string) (*types.Student, error)

	// UpdateStudent applies only the fields present in update and bumps
	// updated_at.
	UpdateStudent(ctx context.Context, id int64, update types.StudentUpdate) (*types.Student, error)

	DeleteStudent(ctx context.Context, id int64) (bool, error)

	// DeleteStudents removes every row and reports how many were removed.
	DeleteStudents(ctx context.Context) (int64, error)
}

// TaskStorage is the persisted collection of tasks. Every method takes the
// owner's id and filters on it in the query itself, so a task owned by
// someone else looks exactly like a task that does not exist.
type TaskStorage interface {
	CreateTask(ctx context.Context, in types.TaskCreate, userID uuid.UUID) (types.Task, error)
	GetTaskByID(ctx context.Context, id, userID uuid.UUID) (*types.Task, error)

	// GetUserTasks returns the user's tasks, newest first. Never nil.
	GetUserTasks(ctx context.Context, userID uuid.UUID) ([]types.Task, error)

	GetUserStats(ctx context.Context, userID uuid.UUID) (types.TaskStats, error)
	UpdateTask(ctx context.Context, id, userID uuid.UUID, update types.TaskUpdate) (*types.Task, error)
	DeleteTask(ctx context.Context, id, userID uuid.UUID) (bool, error)
	DeleteUserTasks(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Storage is everything a backend provides.
type Storage interface {
	StudentStorage
	TaskStorage

	// Close releases the underlying connection pool.
	Close() error
}
