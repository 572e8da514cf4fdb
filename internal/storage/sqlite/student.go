package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aanand-mishra/taskflow-api/internal/storage"
	"github.com/aanand-mishra/taskflow-api/internal/types"
)

// Explicitly list columns; scanStudent reads them in this order.
const studentColumns = "id, name, email, age, created_at, updated_at"

func scanStudent(row rowScanner) (types.Student, error) {
	var student types.Student
	err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.Age,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	return student, err
}

// CreateStudent inserts a new row into the students table.
func (s *SQLite) CreateStudent(ctx context.Context, in types.StudentCreate) (types.Student, error) {
	now := timestamp()

	result, err := s.Db.ExecContext(ctx,
		"INSERT INTO students (name, email, age, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		in.Name, in.Email, in.Age, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Student{}, fmt.Errorf("CreateStudent: %w", storage.ErrConflict)
		}
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	// LastInsertId returns the auto-generated primary key of the new row.
	id, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return types.Student{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Age:       in.Age,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetStudents returns all student rows, newest first.
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	rows, err := s.Db.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM students ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

func (s *SQLite) GetStudentByID(ctx context.Context, id int64) (*types.Student, error) {
	return s.getStudent(ctx, "GetStudentByID", "id = ?", id)
}

func (s *SQLite) GetStudentByEmail(ctx context.Context, email string) (*types.Student, error) {
	return s.getStudent(ctx, "GetStudentByEmail", "email = ?", email)
}

// getStudent fetches at most one row. sql.ErrNoRows is the sentinel for
// "nothing matched" and becomes (nil, nil).
func (s *SQLite) getStudent(ctx context.Context, op, where string, arg any) (*types.Student, error) {
	row := s.Db.QueryRowContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE "+where+" LIMIT 1", arg,
	)
	student, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: scan: %w", op, err)
	}
	return &student, nil
}

// UpdateStudent loads the row, applies the fields present in update, and
// writes it back.
func (s *SQLite) UpdateStudent(ctx context.Context, id int64, update types.StudentUpdate) (*types.Student, error) {
	student, err := s.GetStudentByID(ctx, id)
	if err != nil || student == nil {
		return nil, err
	}

	update.Apply(student)
	student.UpdatedAt = timestamp()

	_, err = s.Db.ExecContext(ctx,
		"UPDATE students SET name = ?, email = ?, age = ?, updated_at = ? WHERE id = ?",
		student.Name, student.Email, student.Age, student.UpdatedAt, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("UpdateStudent: %w", storage.ErrConflict)
		}
		return nil, fmt.Errorf("UpdateStudent: exec: %w", err)
	}

	return student, nil
}

// DeleteStudent removes a student row by primary key and reports whether
// one existed.
func (s *SQLite) DeleteStudent(ctx context.Context, id int64) (bool, error) {
	result, err := s.Db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("DeleteStudent: exec: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("DeleteStudent: rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *SQLite) DeleteStudents(ctx context.Context) (int64, error) {
	result, err := s.Db.ExecContext(ctx, "DELETE FROM students")
	if err != nil {
		return 0, fmt.Errorf("DeleteStudents: exec: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteStudents: rows affected: %w", err)
	}
	return n, nil
}
