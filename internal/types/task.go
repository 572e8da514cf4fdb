package types

import (
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Category string

const (
	CategoryPersonal  Category = "personal"
	CategoryWork      Category = "work"
	CategoryShopping  Category = "shopping"
	CategoryHealth    Category = "health"
	CategoryFinance   Category = "finance"
	CategoryEducation Category = "education"
	CategoryOther     Category = "other"
)

// Task is a todo item owned by exactly one user.
type Task struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	Category    Category  `json:"category"`
	DueDate     *string   `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskCreate is the body of POST /api/v1/tasks. The owner is never taken
// from the body.
type TaskCreate struct {
	Title       string    `json:"title"       validate:"required,min=1,max=500"`
	Description *string   `json:"description" validate:"omitnil,max=5000"`
	Priority    *Priority `json:"priority"    validate:"omitempty,oneof=low medium high urgent"`
	Category    *Category `json:"category"    validate:"omitempty,oneof=personal work shopping health finance education other"`
	DueDate     *string   `json:"due_date"`
}

// NewTask builds the entity to insert for userID, filling defaults for an
// absent or empty priority and category.
func (c TaskCreate) NewTask(id, userID uuid.UUID, now time.Time) Task {
	task := Task{
		ID:          id,
		UserID:      userID,
		Title:       c.Title,
		Description: c.Description,
		Completed:   false,
		Priority:    PriorityMedium,
		Category:    CategoryPersonal,
		DueDate:     c.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.Priority != nil && *c.Priority != "" {
		task.Priority = *c.Priority
	}
	if c.Category != nil && *c.Category != "" {
		task.Category = *c.Category
	}
	return task
}

// TaskUpdate is the body of PUT /api/v1/tasks/{id}. Fields that are absent
// or null are left untouched.
type TaskUpdate struct {
	Title       Optional[string]   `json:"title"       validate:"omitnil,min=1,max=500"`
	Description Optional[string]   `json:"description" validate:"omitnil,max=5000"`
	Completed   Optional[bool]     `json:"completed"`
	Priority    Optional[Priority] `json:"priority"    validate:"omitnil,oneof=low medium high urgent"`
	Category    Optional[Category] `json:"category"    validate:"omitnil,oneof=personal work shopping health finance education other"`
	DueDate     Optional[string]   `json:"due_date"`
}

// Apply copies every present, non-null field of u onto t.
func (u TaskUpdate) Apply(t *Task) {
	if u.Title.Present() {
		t.Title = u.Title.Value
	}
	if u.Description.Present() {
		description := u.Description.Value
		t.Description = &description
	}
	if u.Completed.Present() {
		t.Completed = u.Completed.Value
	}
	if u.Priority.Present() {
		t.Priority = u.Priority.Value
	}
	if u.Category.Present() {
		t.Category = u.Category.Value
	}
	if u.DueDate.Present() {
		dueDate := u.DueDate.Value
		t.DueDate = &dueDate
	}
}

// TaskStats summarises one user's tasks.
type TaskStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}
