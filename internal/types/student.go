// Package types holds all shared data structures (models and request
// schemas) used across the application. Keeping them in one place prevents
// import cycles: handlers and storage backends can all import types without
// depending on each other.
package types

import "time"

// Student represents a student record as stored and as returned by the API.
type Student struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudentCreate is the body of POST /api/v1/students.
//
// The validate:"..." tags are checked by go-playground/validator; see
// Validate in validate.go.
type StudentCreate struct {
	Name  string `json:"name"  validate:"required,min=1,max=255"`
	Email string `json:"email" validate:"required,max=255"`
	Age   int    `json:"age"   validate:"required,min=1,max=150"`
}

// StudentUpdate is the body of PUT /api/v1/students/{id}. Only the fields
// the client actually sent are applied.
type StudentUpdate struct {
	Name  Optional[string] `json:"name"  validate:"omitnil,min=1,max=255"`
	Email Optional[string] `json:"email" validate:"omitnil,max=255"`
	Age   Optional[int]    `json:"age"   validate:"omitnil,min=1,max=150"`
}

// NullFields lists the JSON names of fields sent as an explicit null.
// Every student column is NOT NULL, so the handler rejects these.
func (u StudentUpdate) NullFields() []string {
	var fields []string
	if u.Name.Null {
		fields = append(fields, "name")
	}
	if u.Email.Null {
		fields = append(fields, "email")
	}
	if u.Age.Null {
		fields = append(fields, "age")
	}
	return fields
}

// Apply copies every present field of u onto s. UpdatedAt is left to the
// caller.
func (u StudentUpdate) Apply(s *Student) {
	if u.Name.Present() {
		s.Name = u.Name.Value
	}
	if u.Email.Present() {
		s.Email = u.Email.Value
	}
	if u.Age.Present() {
		s.Age = u.Age.Value
	}
}
