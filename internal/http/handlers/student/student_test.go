package student

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aanand-mishra/taskflow-api/internal/config"
	"github.com/aanand-mishra/taskflow-api/internal/storage"
	"github.com/aanand-mishra/taskflow-api/internal/storage/sqlite"
	"github.com/aanand-mishra/taskflow-api/internal/types"
	"github.com/aanand-mishra/taskflow-api/internal/utils/response"
)

func newStore(t *testing.T) *sqlite.SQLite {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.Path = filepath.Join(t.TempDir(), "students.db")
	s, err := sqlite.New(cfg)
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newMux(s storage.StudentStorage) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/students", New(s))
	mux.HandleFunc("GET /api/v1/students", GetList(s))
	mux.HandleFunc("DELETE /api/v1/students", DeleteAll(s))
	mux.HandleFunc("GET /api/v1/students/{id}", GetByID(s))
	mux.HandleFunc("PUT /api/v1/students/{id}", Update(s))
	mux.HandleFunc("DELETE /api/v1/students/{id}", Delete(s))
	return mux
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestCreate(t *testing.T) {
	mux := newMux(newStore(t))

	rec := do(t, mux, http.MethodPost, "/api/v1/students", `{"name":"Rakesh","email":"rakesh@test.com","age":35}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[types.Student](t, rec)
	if created.ID == 0 || created.Name != "Rakesh" || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected student: %+v", created)
	}

	dup := do(t, mux, http.MethodPost, "/api/v1/students", `{"name":"Other","email":"rakesh@test.com","age":20}`)
	if dup.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", dup.Code)
	}
	if body := decode[response.Response](t, dup); body.Error != msgEmailTaken {
		t.Fatalf("unexpected duplicate message: %+v", body)
	}

	list := do(t, mux, http.MethodGet, "/api/v1/students", "")
	if students := decode[[]types.Student](t, list); len(students) != 1 {
		t.Fatalf("expected 1 student after duplicate attempt, got %d", len(students))
	}
}

func TestCreate_BadInput(t *testing.T) {
	mux := newMux(newStore(t))

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty body", "", "request body is empty"},
		{"malformed", `{"name":`, "invalid request body"},
		{"missing name", `{"email":"a@test.com","age":20}`, "field name is required"},
		{"age too high", `{"name":"A","email":"a@test.com","age":151}`, "field age must be at most 150"},
		{"age zero", `{"name":"A","email":"a@test.com","age":0}`, "field age is required"},
		{"long name", `{"name":"` + strings.Repeat("x", 256) + `","email":"a@test.com","age":20}`, "field name must be at most 255 characters long"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodPost, "/api/v1/students", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			body := decode[response.Response](t, rec)
			if !strings.Contains(body.Error, tc.wantErr) {
				t.Fatalf("expected error containing %q, got %q", tc.wantErr, body.Error)
			}
		})
	}
}

func TestGetByID(t *testing.T) {
	s := newStore(t)
	mux := newMux(s)
	created, err := s.CreateStudent(context.Background(), types.StudentCreate{Name: "A", Email: "a@test.com", Age: 20})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	rec := do(t, mux, http.MethodGet, "/api/v1/students/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[types.Student](t, rec); got.ID != created.ID || got.Email != "a@test.com" {
		t.Fatalf("unexpected student: %+v", got)
	}

	if rec := do(t, mux, http.MethodGet, "/api/v1/students/999", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := do(t, mux, http.MethodGet, "/api/v1/students/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-integer id, got %d", rec.Code)
	}
}

func TestUpdate(t *testing.T) {
	s := newStore(t)
	mux := newMux(s)
	ctx := context.Background()
	a, err := s.CreateStudent(ctx, types.StudentCreate{Name: "A", Email: "a@test.com", Age: 20})
	if err != nil {
		t.Fatalf("CreateStudent(a): %v", err)
	}
	if _, err := s.CreateStudent(ctx, types.StudentCreate{Name: "B", Email: "b@test.com", Age: 21}); err != nil {
		t.Fatalf("CreateStudent(b): %v", err)
	}

	rec := do(t, mux, http.MethodPut, "/api/v1/students/1", `{"age":30}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[types.Student](t, rec)
	if got.Age != 30 || got.Name != a.Name || got.Email != a.Email {
		t.Fatalf("partial update touched other fields: %+v", got)
	}

	// Re-sending your own email is not a conflict.
	if rec := do(t, mux, http.MethodPut, "/api/v1/students/1", `{"email":"a@test.com"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for own email, got %d", rec.Code)
	}

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"email taken", "/api/v1/students/1", `{"email":"b@test.com"}`, http.StatusBadRequest},
		{"null field", "/api/v1/students/1", `{"name":null}`, http.StatusBadRequest},
		{"empty name", "/api/v1/students/1", `{"name":""}`, http.StatusBadRequest},
		{"age out of range", "/api/v1/students/1", `{"age":200}`, http.StatusBadRequest},
		{"missing student", "/api/v1/students/999", `{"age":30}`, http.StatusNotFound},
		{"bad id", "/api/v1/students/x", `{"age":30}`, http.StatusBadRequest},
		{"empty body", "/api/v1/students/1", ``, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodPut, tc.path, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	mux := newMux(s)
	if _, err := s.CreateStudent(context.Background(), types.StudentCreate{Name: "A", Email: "a@test.com", Age: 20}); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	rec := do(t, mux, http.MethodDelete, "/api/v1/students/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body for 204, got %q", rec.Body.String())
	}

	if rec := do(t, mux, http.MethodDelete, "/api/v1/students/1", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestDeleteAll(t *testing.T) {
	s := newStore(t)
	mux := newMux(s)
	ctx := context.Background()
	for _, email := range []string{"a@test.com", "b@test.com"} {
		if _, err := s.CreateStudent(ctx, types.StudentCreate{Name: "X", Email: email, Age: 20}); err != nil {
			t.Fatalf("CreateStudent(%s): %v", email, err)
		}
	}

	rec := do(t, mux, http.MethodDelete, "/api/v1/students", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decode[struct {
		Message string `json:"message"`
		Count   int64  `json:"count"`
	}](t, rec)
	if body.Count != 2 || body.Message != "Deleted 2 students" {
		t.Fatalf("unexpected body: %+v", body)
	}

	list := do(t, mux, http.MethodGet, "/api/v1/students", "")
	if strings.TrimSpace(list.Body.String()) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", list.Body.String())
	}
}

// conflictStore simulates losing the email race: the pre-check sees no
// owner, then the INSERT hits the unique constraint.
type conflictStore struct {
	storage.StudentStorage
}

func (conflictStore) GetStudentByEmail(context.Context, string) (*types.Student, error) {
	return nil, nil
}

func (conflictStore) CreateStudent(context.Context, types.StudentCreate) (types.Student, error) {
	return types.Student{}, storage.ErrConflict
}

func TestCreate_ConstraintRaceIsBadRequest(t *testing.T) {
	mux := newMux(conflictStore{})

	rec := do(t, mux, http.MethodPost, "/api/v1/students", `{"name":"A","email":"a@test.com","age":20}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decode[response.Response](t, rec); body.Error != msgEmailTaken {
		t.Fatalf("unexpected message: %+v", body)
	}
}

type failingStore struct {
	storage.StudentStorage
}

func (failingStore) GetStudents(context.Context) ([]types.Student, error) {
	return nil, errors.New("disk on fire")
}

func TestGetList_StoreFailureIs500(t *testing.T) {
	rec := do(t, newMux(failingStore{}), http.MethodGet, "/api/v1/students", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
