package types

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validator.ValidationErrors, got %v", err)
	}
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field()] = e.ActualTag()
	}
	return fields
}

func TestValidate_TaskCreate(t *testing.T) {
	bad := Priority("asap")

	if err := Validate(TaskCreate{Title: "ok"}); err != nil {
		t.Fatalf("minimal task should be valid: %v", err)
	}

	fields := fieldErrors(t, Validate(TaskCreate{Title: "", Priority: &bad}))
	if fields["title"] != "required" {
		t.Fatalf("expected title required, got %v", fields)
	}
	if fields["priority"] != "oneof" {
		t.Fatalf("expected priority oneof, got %v", fields)
	}
}

func TestValidate_OptionalFieldsSkippedWhenAbsentOrNull(t *testing.T) {
	tests := []struct {
		name   string
		update TaskUpdate
	}{
		{"empty", TaskUpdate{}},
		{"null title", TaskUpdate{Title: Null[string]()}},
		{"null priority", TaskUpdate{Priority: Null[Priority]()}},
		{"valid values", TaskUpdate{Title: Some("x"), Priority: Some(PriorityLow), Completed: Some(false)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := Validate(tc.update); err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
		})
	}
}

func TestValidate_OptionalFieldsCheckedWhenPresent(t *testing.T) {
	fields := fieldErrors(t, Validate(TaskUpdate{
		Title:    Some(""),
		Category: Some(Category("chores")),
	}))
	if fields["title"] != "min" || fields["category"] != "oneof" {
		t.Fatalf("unexpected field errors: %v", fields)
	}

	fields = fieldErrors(t, Validate(StudentUpdate{Age: Some(0)}))
	if fields["age"] != "min" {
		t.Fatalf("unexpected field errors: %v", fields)
	}
}

func TestTaskCreate_NewTask(t *testing.T) {
	id, user := uuid.New(), uuid.New()
	now := time.Now().UTC()
	high := PriorityHigh

	task := TaskCreate{Title: "t", Priority: &high}.NewTask(id, user, now)

	if task.ID != id || task.UserID != user || task.Completed {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.Priority != PriorityHigh || task.Category != CategoryPersonal {
		t.Fatalf("unexpected enums: %+v", task)
	}
	if !task.CreatedAt.Equal(now) || !task.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected timestamps: %+v", task)
	}
}
