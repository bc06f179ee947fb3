// Package api exposes the projection engine over HTTP for the surrounding
// application. The engine stays pure; this layer only decodes configurations,
// runs projections, and round-trips named configuration blocks through the
// store.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/projection", h.RunProjection)

		r.Route("/configs", func(r chi.Router) {
			r.Get("/", h.ListConfigs)
			r.Get("/{name}", h.GetConfig)
			r.Put("/{name}", h.PutConfig)
			r.Delete("/{name}", h.DeleteConfig)
			r.Post("/{name}/projection", h.ProjectStored)
		})
	})

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
