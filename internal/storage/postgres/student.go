package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aanand-mishra/taskflow-api/internal/storage"
	"github.com/aanand-mishra/taskflow-api/internal/types"
)

const studentColumns = "id, name, email, age, created_at, updated_at"

func scanStudent(row pgx.Row) (types.Student, error) {
	var student types.Student
	err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.Age,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	student.CreatedAt = student.CreatedAt.UTC()
	student.UpdatedAt = student.UpdatedAt.UTC()
	return student, err
}

func (p *Postgres) CreateStudent(ctx context.Context, in types.StudentCreate) (types.Student, error) {
	now := timestamp()

	row := p.pool.QueryRow(ctx, `
		INSERT INTO students (name, email, age, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+studentColumns,
		in.Name, in.Email, in.Age, now, now,
	)
	student, err := scanStudent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Student{}, fmt.Errorf("CreateStudent: %w", storage.ErrConflict)
		}
		return types.Student{}, fmt.Errorf("CreateStudent: insert: %w", err)
	}
	return student, nil
}

func (p *Postgres) GetStudents(ctx context.Context) ([]types.Student, error) {
	rows, err := p.pool.Query(ctx,
		"SELECT "+studentColumns+" FROM students ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

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

func (p *Postgres) GetStudentByID(ctx context.Context, id int64) (*types.Student, error) {
	return p.getStudent(ctx, "GetStudentByID", "id = $1", id)
}

func (p *Postgres) GetStudentByEmail(ctx context.Context, email string) (*types.Student, error) {
	return p.getStudent(ctx, "GetStudentByEmail", "email = $1", email)
}

func (p *Postgres) getStudent(ctx context.Context, op, where string, arg any) (*types.Student, error) {
	row := p.pool.QueryRow(ctx,
		"SELECT "+studentColumns+" FROM students WHERE "+where+" LIMIT 1", arg,
	)
	student, err := scanStudent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: scan: %w", op, err)
	}
	return &student, nil
}

func (p *Postgres) UpdateStudent(ctx context.Context, id int64, update types.StudentUpdate) (*types.Student, error) {
	student, err := p.GetStudentByID(ctx, id)
	if err != nil || student == nil {
		return nil, err
	}

	update.Apply(student)
	student.UpdatedAt = timestamp()

	_, err = p.pool.Exec(ctx,
		"UPDATE students SET name = $1, email = $2, age = $3, updated_at = $4 WHERE id = $5",
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

func (p *Postgres) DeleteStudent(ctx context.Context, id int64) (bool, error) {
	tag, err := p.pool.Exec(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("DeleteStudent: exec: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (p *Postgres) DeleteStudents(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, "DELETE FROM students")
	if err != nil {
		return 0, fmt.Errorf("DeleteStudents: exec: %w", err)
	}
	return tag.RowsAffected(), nil
}
