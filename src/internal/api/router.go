package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a new HTTP router with all API endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(Logger)
	r.Use(PrivateSubnetOnly)
	r.Use(JSONContentType)

	r.Get("/health", h.CheckHealth)

	r.Route("/api/v1", func(r chi.Router) {
		// Compiled documents
		r.Get("/rules/{family}", h.GetRules)
		r.Get("/sets", h.GetSets)

		r.Get("/status", h.GetStatus)
		r.Get("/check", h.Check)

		// Lifecycle
		r.Post("/apply", h.Apply)
		r.Post("/save", h.Save)
		r.Post("/commit", h.Commit)
		r.Post("/rollback", h.Rollback)
		r.Post("/reset", h.Reset)
	})

	return r
}
