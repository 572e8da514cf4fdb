// Package task contains the HTTP handlers for the Task resource.
//
// Every route is mounted behind auth.Verifier.Middleware, and every handler
// passes the caller's user id into the storage call. A task owned by
// another user is reported exactly like a missing one (404).
package task

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/aanand-mishra/taskflow-api/internal/auth"
	"github.com/aanand-mishra/taskflow-api/internal/storage"
	"github.com/aanand-mishra/taskflow-api/internal/types"
	"github.com/aanand-mishra/taskflow-api/internal/utils/request"
	"github.com/aanand-mishra/taskflow-api/internal/utils/response"
)

const msgNotFound = "task not found"

// New handles POST /api/v1/tasks.
//
//	{ "title": "Buy milk", "priority": "high", "due_date": "2026-11-01" }
//
// The owner is always the caller; a user_id in the body is ignored.
func New(storage storage.TaskStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		slog.Info("creating a task", slog.String("user_id", userID.String()))

		var in types.TaskCreate
		if !request.DecodeValid(w, r, &in) {
			return
		}

		task, err := storage.CreateTask(r.Context(), in, userID)
		if err != nil {
			serverError(w, "error creating task", err)
			return
		}

		slog.Info("task created", slog.String("id", task.ID.String()))
		response.WriteJSON(w, http.StatusCreated, task)
	}
}

// GetList handles GET /api/v1/tasks: the caller's tasks, newest first.
func GetList(storage storage.TaskStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		slog.Info("getting tasks", slog.String("user_id", userID.String()))

		tasks, err := storage.GetUserTasks(r.Context(), userID)
		if err != nil {
			serverError(w, "error getting tasks", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, tasks)
	}
}

// Stats handles GET /api/v1/tasks/stats.
//
//	{ "total": 3, "completed": 1, "pending": 2 }
func Stats(storage storage.TaskStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		stats, err := storage.GetUserStats(r.Context(), userID)
		if err != nil {
			serverError(w, "error getting task stats", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, stats)
	}
}

// GetByID handles GET /api/v1/tasks/{id}.
func GetByID(storage storage.TaskStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		task, err := storage.GetTaskByID(r.Context(), id, userID)
		if err != nil {
			serverError(w, "error getting task", err)
			return
		}
		if task == nil {
			response.WriteJSON(w, http.StatusNotFound, response.Message(msgNotFound))
			return
		}

		response.WriteJSON(w, http.StatusOK, task)
	}
}

// Update handles PUT /api/v1/tasks/{id}. Keys that are absent or null are
// left unchanged; {"completed": false} is a real update.
func Update(storage storage.TaskStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a task", slog.String("id", id.String()))

		var update types.TaskUpdate
		if !request.DecodeValid(w, r, &update) {
			return
		}

		task, err := storage.UpdateTask(r.Context(), id, userID, update)
		if err != nil {
			serverError(w, "error updating task", err)
			return
		}
		if task == nil {
			response.WriteJSON(w, http.StatusNotFound, response.Message(msgNotFound))
			return
		}

		response.WriteJSON(w, http.StatusOK, task)
	}
}

// Delete handles DELETE /api/v1/tasks/{id}.
func Delete(storage storage.TaskStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a task", slog.String("id", id.String()))

		deleted, err := storage.DeleteTask(r.Context(), id, userID)
		if err != nil {
			serverError(w, "error deleting task", err)
			return
		}
		if !deleted {
			response.WriteJSON(w, http.StatusNotFound, response.Message(msgNotFound))
			return
		}

		response.NoContent(w)
	}
}

// DeleteAll handles DELETE /api/v1/tasks: removes only the caller's tasks.
func DeleteAll(storage storage.TaskStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting all tasks", slog.String("user_id", userID.String()))

		count, err := storage.DeleteUserTasks(r.Context(), userID)
		if err != nil {
			serverError(w, "error deleting tasks", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]any{
			"message": fmt.Sprintf("Deleted %d tasks", count),
			"count":   count,
		})
	}
}

// callerID fails closed: a route wired without the auth middleware answers
// 401 rather than serving an unscoped request.
func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(auth.ErrMissingToken))
		return uuid.Nil, false
	}
	return userID, true
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.Message("invalid id: must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
}
