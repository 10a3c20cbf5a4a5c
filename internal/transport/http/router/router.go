package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mbressan/identity-service/internal/transport/http/handlers"
	"github.com/mbressan/identity-service/internal/transport/http/middleware"
	"github.com/mbressan/identity-service/internal/transport/http/response"
)

// Deps wires the handlers and cross-cutting middleware into routes.
type Deps struct {
	Account *handlers.Account
	Health  *handlers.Health

	Guard func(http.Handler) http.Handler

	// Limiter is optional; nil disables rate limiting.
	Limiter middleware.RateLimiter
}

// New builds the HTTP routing table.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(chimw.Timeout(30 * time.Second))

	loginRL := middleware.RateLimitFixedWindow(d.Limiter, middleware.FixedWindowConfig{
		RouteKey: "login",
		Limit:    10,
		Window:   time.Minute,
	}, response.WriteError)
	forgotRL := middleware.RateLimitFixedWindow(d.Limiter, middleware.FixedWindowConfig{
		RouteKey: "forgot",
		Limit:    5,
		Window:   time.Minute,
	}, response.WriteError)
	registerRL := middleware.RateLimitFixedWindow(d.Limiter, middleware.FixedWindowConfig{
		RouteKey: "register",
		Limit:    5,
		Window:   time.Minute,
	}, response.WriteError)
	refreshRL := middleware.RateLimitFixedWindow(d.Limiter, middleware.FixedWindowConfig{
		RouteKey: "refresh",
		Limit:    30,
		Window:   time.Minute,
	}, response.WriteError)

	r.Get("/healthz", d.Health.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.With(registerRL).Post("/register", d.Account.Register)
	r.Get("/register/confirmation/{token}", d.Account.ConfirmRegistration)

	r.With(loginRL).Post("/login", d.Account.Login)
	r.With(refreshRL).Post("/refresh", d.Account.Refresh)

	r.With(forgotRL).Post("/forgot", d.Account.Forgot)
	r.Get("/forgot/confirmation/{token}", d.Account.ValidateReset)
	r.Post("/forgot/confirmation/{token}", d.Account.ResetPassword)

	r.Group(func(g chi.Router) {
		g.Use(d.Guard)
		g.Get("/me", d.Account.Me)
	})

	return r
}
