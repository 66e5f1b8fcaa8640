// Package router sets up all HTTP routes and middleware chains for the
// TemplateKit server. Read routes for the template catalog require a
// session; write routes add CSRF; taxonomy, stats, and settings routes
// are admin only.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"templatekit/internal/handlers"
	"templatekit/internal/middleware"
	"templatekit/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(
	sessionStore *session.Store,
	auth *handlers.Auth,
	templates *handlers.Templates,
	categories *handlers.Categories,
	stats *handlers.Stats,
	settings *handlers.Settings,
	loginLimiter *middleware.RateLimiter,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check, no auth, no CSRF.
	r.Get("/health", healthHandler)

	r.With(loginLimiter.Middleware).Post("/login", auth.Login)
	r.Post("/logout", auth.Logout)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Use(middleware.RequireAuth)

		r.Get("/me", auth.Me)

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", templates.List)
			r.Get("/search", templates.Search)
			r.Get("/{id}", templates.Get)
			r.Get("/{id}/usage", templates.Usage)
			r.Post("/{id}/apply", templates.Apply)
			r.Post("/{id}/duplicate", templates.Duplicate)

			// Template management is admin only.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", templates.Create)
				r.Put("/{id}", templates.Update)
				r.Delete("/{id}", templates.Delete)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", categories.List)
			r.Get("/icons", categories.Icons)
			r.Get("/{id}", categories.Get)
			r.Post("/", categories.Create)
			r.Put("/{id}", categories.Update)
			r.Delete("/{id}", categories.Delete)
		})

		r.Route("/stats", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/summary", stats.Summary)
			r.Get("/most-used", stats.MostUsed)
			r.Get("/recent", stats.Recent)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", settings.Get)
			r.Put("/", settings.Update)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
