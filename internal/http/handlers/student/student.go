// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// To inject the storage dependency, each exported function is a factory:
// it is called ONCE at startup with the storage and returns the handler
// that runs on EVERY request.
//
//	router.HandleFunc("POST /api/v1/students", student.New(storage))
package student

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/taskflow-api/internal/storage"
	"github.com/aanand-mishra/taskflow-api/internal/types"
	"github.com/aanand-mishra/taskflow-api/internal/utils/request"
	"github.com/aanand-mishra/taskflow-api/internal/utils/response"
)

const (
	msgEmailTaken = "a student with this email already exists"
	msgNotFound   = "student not found"
)

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/v1/students
//
// Request body:
//
//	{ "name": "Rakesh", "email": "rakesh@test.com", "age": 35 }
//
// Responses:
//
//	201 Created      — the stored student, with id and timestamps
//	400 Bad Request  — empty/malformed body, failed validation, email taken
//	500 Internal     — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var in types.StudentCreate
		if !request.DecodeValid(w, r, &in) {
			return
		}

		// The UNIQUE constraint is the real guard; this look-up only
		// saves a failed INSERT in the common case.
		existing, err := storage.GetStudentByEmail(r.Context(), in.Email)
		if err != nil {
			serverError(w, "error checking student email", err)
			return
		}
		if existing != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.Message(msgEmailTaken))
			return
		}

		student, err := storage.CreateStudent(r.Context(), in)
		if err != nil {
			writeWriteError(w, "error creating student", err)
			return
		}

		slog.Info("student created", slog.Int64("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/v1/students
// Returns every student, newest first. An empty store yields [] (not null).
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		students, err := storage.GetStudents(r.Context())
		if err != nil {
			serverError(w, "error getting students", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/v1/students/{id}
//
//	200 OK           — the student
//	400 Bad Request  — id is not an integer
//	404 Not Found    — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id))

		student, err := storage.GetStudentByID(r.Context(), id)
		if err != nil {
			serverError(w, "error getting student", err)
			return
		}
		if student == nil {
			response.WriteJSON(w, http.StatusNotFound, response.Message(msgNotFound))
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/v1/students/{id}
// Applies a PARTIAL update: only the keys present in the body change.
//
//	{ "age": 30 }   → name and email are left as they are
//
// Responses:
//
//	200 OK           — the updated student
//	400 Bad Request  — bad id/body, failed validation, null field, email
//	                   owned by another student
//	404 Not Found    — no student with that id
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))

		var update types.StudentUpdate
		if !request.DecodeValid(w, r, &update) {
			return
		}
		if nulls := update.NullFields(); len(nulls) > 0 {
			response.WriteJSON(w, http.StatusBadRequest,
				response.Message(fmt.Sprintf("field %s cannot be null", nulls[0])))
			return
		}

		if update.Email.Present() {
			existing, err := storage.GetStudentByEmail(r.Context(), update.Email.Value)
			if err != nil {
				serverError(w, "error checking student email", err)
				return
			}
			if existing != nil && existing.ID != id {
				response.WriteJSON(w, http.StatusBadRequest, response.Message(msgEmailTaken))
				return
			}
		}

		student, err := storage.UpdateStudent(r.Context(), id, update)
		if err != nil {
			writeWriteError(w, "error updating student", err)
			return
		}
		if student == nil {
			response.WriteJSON(w, http.StatusNotFound, response.Message(msgNotFound))
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, student)
	}
}

// Delete handles DELETE /api/v1/students/{id}: 204 on success, 404 if absent.
func Delete(storage storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id))

		deleted, err := storage.DeleteStudent(r.Context(), id)
		if err != nil {
			serverError(w, "error deleting student", err)
			return
		}
		if !deleted {
			response.WriteJSON(w, http.StatusNotFound, response.Message(msgNotFound))
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.NoContent(w)
	}
}

// DeleteAll handles DELETE /api/v1/students.
//
//	{ "message": "Deleted 3 students", "count": 3 }
func DeleteAll(storage storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("deleting all students")

		count, err := storage.DeleteStudents(r.Context())
		if err != nil {
			serverError(w, "error deleting students", err)
			return
		}

		slog.Info("students deleted", slog.Int64("count", count))
		response.WriteJSON(w, http.StatusOK, map[string]any{
			"message": fmt.Sprintf("Deleted %d students", count),
			"count":   count,
		})
	}
}

// parseID reads the {id} path segment. On failure it writes the 400 itself.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.Message("invalid id: must be an integer"))
		return 0, false
	}
	return id, true
}

// writeWriteError maps a failed create/update. Losing a race for an email
// surfaces as storage.ErrConflict and gets the same 400 as the pre-check.
func writeWriteError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, storage.ErrConflict) {
		response.WriteJSON(w, http.StatusBadRequest, response.Message(msgEmailTaken))
		return
	}
	serverError(w, msg, err)
}

func serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}
