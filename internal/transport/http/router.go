package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petcarehq/petcare/internal/config"
	"github.com/petcarehq/petcare/internal/transport/http/handlers"
	"github.com/petcarehq/petcare/internal/transport/http/middleware"
)

// NewRouter mounts every route. Authorization is layered: the public
// group, the authenticated group, and the admin group. Ownership checks
// beyond the role gate live in the services.
func NewRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	petHandler *handlers.PetHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	authenticate := middleware.Authenticate(cfg.JWTSecret)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register-owner", authHandler.RegisterOwner)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/auth/me", authHandler.Me)
			r.Get("/users/me", authHandler.Me)
			r.Put("/users/me", userHandler.UpdateMe)

			r.Get("/pets/my-pets", petHandler.MyPets)
			r.Get("/pets/owner/{ownerId}", petHandler.ListByOwner)
			r.Get("/pets/{id}", petHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate, middleware.RequireAdmin)

			r.Post("/admin/users/vets", userHandler.CreateVet)
			r.Get("/admin/users/vets", userHandler.ListVets)
			r.Get("/admin/users/vets/{id}", userHandler.GetVet)
			r.Get("/admin/users", userHandler.ListUsers)
			r.Put("/admin/users/{id}", userHandler.UpdateUser)

			r.Get("/pets", petHandler.List)
			r.Post("/pets", petHandler.Create)
			r.Put("/pets/{id}", petHandler.Update)
			r.Delete("/pets/{id}", petHandler.Delete)
			r.Post("/pets/{id}/assign", petHandler.Assign)
		})
	})

	return r
}
