package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskdeck/internal/api"
	apiMiddleware "github.com/phrazzld/taskdeck/internal/api/middleware"
	"github.com/phrazzld/taskdeck/internal/api/shared"
)

// apiPrefix is optional: every API route is also served without it.
const apiPrefix = "/api"

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() (http.Handler, error) {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(apiMiddleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	maxBody := app.config.Server.MaxBodyBytes
	authHandler := api.NewAuthHandler(app.authenticator, maxBody, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, maxBody, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.authenticator)

	staticHandler, err := api.NewStaticHandler(app.config.Server.StaticDir, app.logger)
	if err != nil {
		return nil, err
	}

	apiRoutes := func(r chi.Router) {
		// Public
		r.Post("/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/logout", authHandler.Logout)

			r.Get("/tasks", taskHandler.ListTasks)
			r.Post("/tasks", taskHandler.CreateTask)
			r.Put("/tasks", taskHandler.UpdateTask)
			r.Delete("/tasks", taskHandler.DeleteTask)
			r.Put("/tasks/{id}", taskHandler.UpdateTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)

			r.Get("/projects", taskHandler.ListProjects)
		})
	}

	r.Route(apiPrefix, apiRoutes)
	r.Group(apiRoutes)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if isAPIPath(r.URL.Path) || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
			return
		}
		staticHandler.ServeHTTP(w, r)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r, nil
}

func isAPIPath(path string) bool {
	return path == apiPrefix || strings.HasPrefix(path, apiPrefix+"/")
}
