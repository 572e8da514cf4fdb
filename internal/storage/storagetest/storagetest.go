// Package storagetest is a behavioural test suite shared by every
// storage.Storage backend. A backend's own _test.go calls Run with a
// constructor that returns a fresh, empty store.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aanand-mishra/taskflow-api/internal/storage"
	"github.com/aanand-mishra/taskflow-api/internal/types"
)

// tick separates writes so created_at / updated_at differ even on a store
// with coarse timestamps.
const tick = 5 * time.Millisecond

// Run executes the suite. newStore must return an empty store; it is
// called once per subtest.
func Run(t *testing.T, newStore func(t *testing.T) storage.Storage) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Storage)
	}{
		{"CreateThenGetStudent", testCreateThenGetStudent},
		{"DuplicateEmailIsConflict", testDuplicateEmailIsConflict},
		{"GetStudentByEmail", testGetStudentByEmail},
		{"GetStudentsNewestFirst", testGetStudentsNewestFirst},
		{"PartialStudentUpdate", testPartialStudentUpdate},
		{"UpdateMissingStudent", testUpdateMissingStudent},
		{"UpdateStudentToTakenEmail", testUpdateStudentToTakenEmail},
		{"DeleteStudentTwice", testDeleteStudentTwice},
		{"DeleteAllStudents", testDeleteAllStudents},
		{"CreateTaskDefaults", testCreateTaskDefaults},
		{"TaskOwnershipIsolation", testTaskOwnershipIsolation},
		{"UserTasksNewestFirst", testUserTasksNewestFirst},
		{"UserStats", testUserStats},
		{"UpdateTaskExplicitFalse", testUpdateTaskExplicitFalse},
		{"UpdateTaskSkipsAbsentAndNull", testUpdateTaskSkipsAbsentAndNull},
		{"DeleteUserTasks", testDeleteUserTasks},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			tc.fn(t, s)
		})
	}
}

func mustCreateStudent(t *testing.T, s storage.Storage, name, email string, age int) types.Student {
	t.Helper()
	student, err := s.CreateStudent(context.Background(), types.StudentCreate{Name: name, Email: email, Age: age})
	if err != nil {
		t.Fatalf("CreateStudent(%q): %v", email, err)
	}
	return student
}

func mustCreateTask(t *testing.T, s storage.Storage, title string, owner uuid.UUID) types.Task {
	t.Helper()
	task, err := s.CreateTask(context.Background(), types.TaskCreate{Title: title}, owner)
	if err != nil {
		t.Fatalf("CreateTask(%q): %v", title, err)
	}
	return task
}

func testCreateThenGetStudent(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	created := mustCreateStudent(t, s, "Rakesh", "rakesh@test.com", 35)

	if created.ID == 0 {
		t.Fatal("expected a server-assigned id")
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("expected equal non-zero timestamps, got %v / %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := s.GetStudentByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetStudentByID: %v", err)
	}
	if got == nil {
		t.Fatal("expected student, got nil")
	}
	if got.Name != "Rakesh" || got.Email != "rakesh@test.com" || got.Age != 35 {
		t.Fatalf("fields mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) || !got.UpdatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("timestamps mismatch: stored %+v, returned %+v", got, created)
	}

	missing, err := s.GetStudentByID(ctx, created.ID+1000)
	if err != nil {
		t.Fatalf("GetStudentByID(missing): %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing id, got %+v", missing)
	}
}

func testDuplicateEmailIsConflict(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	mustCreateStudent(t, s, "A", "same@test.com", 20)

	_, err := s.CreateStudent(ctx, types.StudentCreate{Name: "B", Email: "same@test.com", Age: 21})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	students, err := s.GetStudents(ctx)
	if err != nil {
		t.Fatalf("GetStudents: %v", err)
	}
	if len(students) != 1 {
		t.Fatalf("expected exactly 1 student, got %d", len(students))
	}
}

func testGetStudentByEmail(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	created := mustCreateStudent(t, s, "Priya", "Priya@Test.com", 22)

	got, err := s.GetStudentByEmail(ctx, "Priya@Test.com")
	if err != nil {
		t.Fatalf("GetStudentByEmail: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("expected student %d, got %+v", created.ID, got)
	}

	other, err := s.GetStudentByEmail(ctx, "priya@test.com")
	if err != nil {
		t.Fatalf("GetStudentByEmail(lowercase): %v", err)
	}
	if other != nil {
		t.Fatalf("expected case-sensitive miss, got %+v", other)
	}
}

func testGetStudentsNewestFirst(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	empty, err := s.GetStudents(ctx)
	if err != nil {
		t.Fatalf("GetStudents(empty): %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}

	first := mustCreateStudent(t, s, "First", "first@test.com", 20)
	time.Sleep(tick)
	second := mustCreateStudent(t, s, "Second", "second@test.com", 21)

	students, err := s.GetStudents(ctx)
	if err != nil {
		t.Fatalf("GetStudents: %v", err)
	}
	if len(students) != 2 || students[0].ID != second.ID || students[1].ID != first.ID {
		t.Fatalf("expected [%d %d], got %+v", second.ID, first.ID, students)
	}
}

func testPartialStudentUpdate(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	created := mustCreateStudent(t, s, "Rakesh", "rakesh@test.com", 35)
	time.Sleep(tick)

	updated, err := s.UpdateStudent(ctx, created.ID, types.StudentUpdate{Age: types.Some(30)})
	if err != nil {
		t.Fatalf("UpdateStudent: %v", err)
	}
	if updated == nil {
		t.Fatal("expected updated student, got nil")
	}
	if updated.Age != 30 || updated.Name != "Rakesh" || updated.Email != "rakesh@test.com" {
		t.Fatalf("unexpected fields after update: %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Fatalf("expected updated_at to move forward: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}

	stored, err := s.GetStudentByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetStudentByID: %v", err)
	}
	if stored.Age != 30 || !stored.UpdatedAt.Equal(updated.UpdatedAt) {
		t.Fatalf("update not persisted: %+v", stored)
	}
}

func testUpdateMissingStudent(t *testing.T, s storage.Storage) {
	got, err := s.UpdateStudent(context.Background(), 424242, types.StudentUpdate{Name: types.Some("x")})
	if err != nil {
		t.Fatalf("UpdateStudent: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing student, got %+v", got)
	}
}

func testUpdateStudentToTakenEmail(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	mustCreateStudent(t, s, "A", "a@test.com", 20)
	b := mustCreateStudent(t, s, "B", "b@test.com", 21)

	_, err := s.UpdateStudent(ctx, b.ID, types.StudentUpdate{Email: types.Some("a@test.com")})
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func testDeleteStudentTwice(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	created := mustCreateStudent(t, s, "Gone", "gone@test.com", 40)

	deleted, err := s.DeleteStudent(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}
	if !deleted {
		t.Fatal("expected first delete to succeed")
	}

	deleted, err = s.DeleteStudent(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteStudent(second): %v", err)
	}
	if deleted {
		t.Fatal("expected second delete to report not found")
	}
}

func testDeleteAllStudents(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	mustCreateStudent(t, s, "A", "a@test.com", 20)
	mustCreateStudent(t, s, "B", "b@test.com", 21)
	mustCreateStudent(t, s, "C", "c@test.com", 22)

	n, err := s.DeleteStudents(ctx)
	if err != nil {
		t.Fatalf("DeleteStudents: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected count 3, got %d", n)
	}

	students, err := s.GetStudents(ctx)
	if err != nil {
		t.Fatalf("GetStudents: %v", err)
	}
	if len(students) != 0 {
		t.Fatalf("expected no students, got %d", len(students))
	}
}

func testCreateTaskDefaults(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	owner := uuid.New()

	task := mustCreateTask(t, s, "Buy milk", owner)
	if task.ID == uuid.Nil {
		t.Fatal("expected a generated task id")
	}
	if task.UserID != owner {
		t.Fatalf("expected owner %s, got %s", owner, task.UserID)
	}
	if task.Completed || task.Priority != types.PriorityMedium || task.Category != types.CategoryPersonal {
		t.Fatalf("unexpected defaults: %+v", task)
	}
	if task.Description != nil || task.DueDate != nil {
		t.Fatalf("expected nil optional fields: %+v", task)
	}

	high := types.PriorityHigh
	work := types.CategoryWork
	description := "quarterly numbers"
	dueDate := "2026-12-31"
	custom, err := s.CreateTask(ctx, types.TaskCreate{
		Title:       "Report",
		Description: &description,
		Priority:    &high,
		Category:    &work,
		DueDate:     &dueDate,
	}, owner)
	if err != nil {
		t.Fatalf("CreateTask(custom): %v", err)
	}

	got, err := s.GetTaskByID(ctx, custom.ID, owner)
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if got == nil {
		t.Fatal("expected task, got nil")
	}
	if got.Priority != types.PriorityHigh || got.Category != types.CategoryWork {
		t.Fatalf("enum fields not stored: %+v", got)
	}
	if got.Description == nil || *got.Description != description || got.DueDate == nil || *got.DueDate != dueDate {
		t.Fatalf("optional fields not stored: %+v", got)
	}
	if !got.CreatedAt.Equal(custom.CreatedAt) {
		t.Fatalf("created_at mismatch: %v vs %v", got.CreatedAt, custom.CreatedAt)
	}
}

func testTaskOwnershipIsolation(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()
	task := mustCreateTask(t, s, "Alice only", alice)

	got, err := s.GetTaskByID(ctx, task.ID, bob)
	if err != nil {
		t.Fatalf("GetTaskByID(bob): %v", err)
	}
	if got != nil {
		t.Fatalf("bob must not see alice's task: %+v", got)
	}

	updated, err := s.UpdateTask(ctx, task.ID, bob, types.TaskUpdate{Title: types.Some("hijacked")})
	if err != nil {
		t.Fatalf("UpdateTask(bob): %v", err)
	}
	if updated != nil {
		t.Fatalf("bob must not update alice's task: %+v", updated)
	}

	deleted, err := s.DeleteTask(ctx, task.ID, bob)
	if err != nil {
		t.Fatalf("DeleteTask(bob): %v", err)
	}
	if deleted {
		t.Fatal("bob must not delete alice's task")
	}

	bobTasks, err := s.GetUserTasks(ctx, bob)
	if err != nil {
		t.Fatalf("GetUserTasks(bob): %v", err)
	}
	if len(bobTasks) != 0 {
		t.Fatalf("expected bob to have no tasks, got %d", len(bobTasks))
	}

	n, err := s.DeleteUserTasks(ctx, bob)
	if err != nil {
		t.Fatalf("DeleteUserTasks(bob): %v", err)
	}
	if n != 0 {
		t.Fatalf("expected bob's bulk delete to remove nothing, got %d", n)
	}

	still, err := s.GetTaskByID(ctx, task.ID, alice)
	if err != nil {
		t.Fatalf("GetTaskByID(alice): %v", err)
	}
	if still == nil || still.Title != "Alice only" {
		t.Fatalf("alice's task changed: %+v", still)
	}
}

func testUserTasksNewestFirst(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	owner := uuid.New()

	empty, err := s.GetUserTasks(ctx, owner)
	if err != nil {
		t.Fatalf("GetUserTasks(empty): %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}

	older := mustCreateTask(t, s, "older", owner)
	time.Sleep(tick)
	newer := mustCreateTask(t, s, "newer", owner)
	mustCreateTask(t, s, "someone else", uuid.New())

	tasks, err := s.GetUserTasks(ctx, owner)
	if err != nil {
		t.Fatalf("GetUserTasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != newer.ID || tasks[1].ID != older.ID {
		t.Fatalf("expected [newer older], got %+v", tasks)
	}
}

func testUserStats(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	owner := uuid.New()

	stats, err := s.GetUserStats(ctx, owner)
	if err != nil {
		t.Fatalf("GetUserStats(empty): %v", err)
	}
	if stats != (types.TaskStats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}

	a := mustCreateTask(t, s, "a", owner)
	mustCreateTask(t, s, "b", owner)
	mustCreateTask(t, s, "c", owner)
	mustCreateTask(t, s, "other user", uuid.New())

	if _, err := s.UpdateTask(ctx, a.ID, owner, types.TaskUpdate{Completed: types.Some(true)}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	stats, err = s.GetUserStats(ctx, owner)
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	want := types.TaskStats{Total: 3, Completed: 1, Pending: 2}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
	if stats.Total != stats.Completed+stats.Pending || stats.Pending < 0 {
		t.Fatalf("stats invariant broken: %+v", stats)
	}
}

func testUpdateTaskExplicitFalse(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	owner := uuid.New()
	task := mustCreateTask(t, s, "toggle", owner)

	done, err := s.UpdateTask(ctx, task.ID, owner, types.TaskUpdate{Completed: types.Some(true)})
	if err != nil {
		t.Fatalf("UpdateTask(true): %v", err)
	}
	if done == nil || !done.Completed {
		t.Fatalf("expected completed=true, got %+v", done)
	}

	undone, err := s.UpdateTask(ctx, task.ID, owner, types.TaskUpdate{Completed: types.Some(false)})
	if err != nil {
		t.Fatalf("UpdateTask(false): %v", err)
	}
	if undone == nil || undone.Completed {
		t.Fatalf("expected completed=false, got %+v", undone)
	}

	stored, err := s.GetTaskByID(ctx, task.ID, owner)
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if stored.Completed {
		t.Fatal("explicit false was not persisted")
	}
}

func testUpdateTaskSkipsAbsentAndNull(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	owner := uuid.New()
	description := "keep me"
	created, err := s.CreateTask(ctx, types.TaskCreate{Title: "original", Description: &description}, owner)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	time.Sleep(tick)

	updated, err := s.UpdateTask(ctx, created.ID, owner, types.TaskUpdate{
		Title:       types.Null[string](),
		Description: types.Null[string](),
		Priority:    types.Some(types.PriorityUrgent),
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if updated.Title != "original" {
		t.Fatalf("null title must be ignored, got %q", updated.Title)
	}
	if updated.Description == nil || *updated.Description != description {
		t.Fatalf("null description must be ignored, got %v", updated.Description)
	}
	if updated.Priority != types.PriorityUrgent || updated.Category != types.CategoryPersonal {
		t.Fatalf("unexpected enums: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("expected updated_at > created_at: %+v", updated)
	}
}

func testDeleteUserTasks(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()
	mustCreateTask(t, s, "a", owner)
	mustCreateTask(t, s, "b", owner)
	keep := mustCreateTask(t, s, "c", other)

	n, err := s.DeleteUserTasks(ctx, owner)
	if err != nil {
		t.Fatalf("DeleteUserTasks: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected count 2, got %d", n)
	}

	got, err := s.GetTaskByID(ctx, keep.ID, other)
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if got == nil {
		t.Fatal("another user's task was deleted")
	}

	single := mustCreateTask(t, s, "single", owner)
	deleted, err := s.DeleteTask(ctx, single.ID, owner)
	if err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to succeed")
	}
	deleted, err = s.DeleteTask(ctx, single.ID, owner)
	if err != nil {
		t.Fatalf("DeleteTask(second): %v", err)
	}
	if deleted {
		t.Fatal("expected second delete to report not found")
	}
}
