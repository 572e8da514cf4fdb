// Package router builds the application's http.Handler: every route,
// plus the middleware chain around them.
package router

import (
	"net/http"

	"github.com/aanand-mishra/taskflow-api/internal/auth"
	"github.com/aanand-mishra/taskflow-api/internal/http/handlers/health"
	"github.com/aanand-mishra/taskflow-api/internal/http/handlers/student"
	"github.com/aanand-mishra/taskflow-api/internal/http/handlers/task"
	"github.com/aanand-mishra/taskflow-api/internal/http/middleware"
	"github.com/aanand-mishra/taskflow-api/internal/storage"
)

// Version is reported by GET /.
const Version = "1.0.0"

// New registers all routes on a Go 1.22+ ServeMux.
//
// Route table:
//
//	GET    /                          → service health
//	GET    /api/health                → API health
//	POST   /api/v1/students           → create a student
//	GET    /api/v1/students           → list students
//	DELETE /api/v1/students           → delete every student
//	GET    /api/v1/students/{id}      → get one student
//	PUT    /api/v1/students/{id}      → partially update a student
//	DELETE /api/v1/students/{id}      → delete a student
//	POST   /api/v1/tasks              → create a task          (auth)
//	GET    /api/v1/tasks              → list caller's tasks    (auth)
//	DELETE /api/v1/tasks              → delete caller's tasks  (auth)
//	GET    /api/v1/tasks/stats        → caller's task counts   (auth)
//	GET    /api/v1/tasks/{id}         → get one task           (auth)
//	PUT    /api/v1/tasks/{id}         → partially update       (auth)
//	DELETE /api/v1/tasks/{id}         → delete a task          (auth)
//
// Collection routes also match with a trailing slash.
func New(store storage.Storage, verifier *auth.Verifier) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", health.Root(Version))
	mux.HandleFunc("GET /api/health", health.API())

	collection(mux, "POST /api/v1/students", student.New(store))
	collection(mux, "GET /api/v1/students", student.GetList(store))
	collection(mux, "DELETE /api/v1/students", student.DeleteAll(store))
	mux.Handle("GET /api/v1/students/{id}", student.GetByID(store))
	mux.Handle("PUT /api/v1/students/{id}", student.Update(store))
	mux.Handle("DELETE /api/v1/students/{id}", student.Delete(store))

	protect := verifier.Middleware
	collection(mux, "POST /api/v1/tasks", protect(task.New(store)))
	collection(mux, "GET /api/v1/tasks", protect(task.GetList(store)))
	collection(mux, "DELETE /api/v1/tasks", protect(task.DeleteAll(store)))
	mux.Handle("GET /api/v1/tasks/stats", protect(task.Stats(store)))
	mux.Handle("GET /api/v1/tasks/{id}", protect(task.GetByID(store)))
	mux.Handle("PUT /api/v1/tasks/{id}", protect(task.Update(store)))
	mux.Handle("DELETE /api/v1/tasks/{id}", protect(task.Delete(store)))

	return middleware.Logger(middleware.Recover(mux))
}

// collection registers pattern both as-is and with a trailing slash.
func collection(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, h)
	mux.Handle(pattern+"/{$}", h)
}
