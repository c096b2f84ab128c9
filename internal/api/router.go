package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eventmanager/admin-bff/internal/api/handlers"
	"github.com/eventmanager/admin-bff/internal/config"
	"github.com/eventmanager/admin-bff/internal/logger"
	"github.com/eventmanager/admin-bff/internal/session"
	"github.com/eventmanager/admin-bff/middleware"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config    *config.Config
	Sessions  session.Store
	Identity  middleware.IdentityChecker
	Auth      *handlers.AuthHandler
	Events    *handlers.EventsHandler
	Places    *handlers.PlacesHandler
	ViaCEP    *handlers.ViaCEPHandler
	Readiness *handlers.ReadinessHandler
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Replace default chi Logger with our structured logger
	r.Use(middleware.RequestLogger(logger.Log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Metrics)
	r.Use(middleware.Tracing("admin-bff"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{d.Config.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/healthz", d.Readiness.Healthz)
	r.Get("/api/readyz", d.Readiness.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/login", d.Auth.Login)
	r.Get("/auth/callback", d.Auth.Callback)

	// The public lookup fans out to a third party, so it gets its own
	// per-IP budget.
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(
			30,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
		r.Get("/api/viacep/{cep}", d.ViaCEP.Lookup)
	})

	gate := &middleware.AuthGate{
		Sessions:   d.Sessions,
		Identity:   d.Identity,
		CookieName: d.Config.SessionCookie,
		LoginPath:  "/login",
	}

	r.Group(func(r chi.Router) {
		r.Use(gate.Middleware)

		r.Post("/logout", d.Auth.Logout)
		r.Get("/api/auth/me", d.Auth.Me)

		r.Route("/api/events", func(r chi.Router) {
			r.Get("/", d.Events.List)
			r.Get("/{id}", d.Events.Get)
			r.Post("/create", d.Events.Create)
			r.Put("/update/{id}", d.Events.Update)
			r.Delete("/delete/{id}", d.Events.Delete)
		})

		r.Route("/api/places", func(r chi.Router) {
			r.Get("/", d.Places.List)
			r.Get("/available", d.Places.Available)
			r.Get("/{id}", d.Places.Get)
			r.Post("/create", d.Places.Create)
			r.Put("/update/{id}", d.Places.Update)
			r.Delete("/delete/{id}", d.Places.Delete)
		})
	})

	return r
}
