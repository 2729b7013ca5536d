package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries the handlers and cross-cutting dependencies the
// router mounts. Nil handlers leave their routes unregistered.
type RouterConfig struct {
	Auth            *AuthHandler
	Users           *UserHandler
	ShiftRequests   *ShiftRequestHandler
	ConfirmedShifts *ConfirmedShiftHandler
	Settings        *SettingsHandler

	Tokens  TokenValidator
	Metrics *Metrics
	Logger  *slog.Logger
}

// NewRouter builds the API routes under /api/v1 plus /health and /metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := defaultLogger(cfg.Logger)
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		newResponder(logger).writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	requireAuth := RequireAuth(cfg.Tokens, logger)
	requireAdmin := RequireAdmin(logger)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.Auth != nil {
			r.Post("/auth/register", cfg.Auth.Register)
			r.Post("/auth/login", cfg.Auth.Login)
			r.With(requireAuth).Get("/auth/me", cfg.Auth.Me)
		}

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			if cfg.ShiftRequests != nil {
				r.Route("/shift-requests", func(r chi.Router) {
					r.Get("/", cfg.ShiftRequests.List)
					r.Post("/", cfg.ShiftRequests.Create)
					r.Get("/{requestID}", cfg.ShiftRequests.Get)
					r.Put("/{requestID}", cfg.ShiftRequests.Update)
					r.Delete("/{requestID}", cfg.ShiftRequests.Delete)
				})
			}

			if cfg.ConfirmedShifts != nil {
				r.Get("/confirmed-shifts", cfg.ConfirmedShifts.ListOwn)
				r.Get("/confirmed-shifts/all", cfg.ConfirmedShifts.ListAll)
			}

			if cfg.Settings != nil {
				r.Get("/settings/dow", cfg.Settings.Current)
			}

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireAdmin)

				if cfg.ShiftRequests != nil {
					r.Get("/shift-requests", cfg.ShiftRequests.ListAll)
				}
				if cfg.ConfirmedShifts != nil {
					r.Post("/confirmed-shifts", cfg.ConfirmedShifts.Create)
					r.Put("/confirmed-shifts/{shiftID}", cfg.ConfirmedShifts.Update)
					r.Delete("/confirmed-shifts/{shiftID}", cfg.ConfirmedShifts.Delete)
				}
				if cfg.Users != nil {
					r.Get("/users", cfg.Users.List)
					r.Delete("/users/{userID}", cfg.Users.Delete)
				}
				if cfg.Settings != nil {
					r.Get("/settings/dow", cfg.Settings.Get)
					r.Put("/settings/dow", cfg.Settings.Update)
				}
			})
		})
	})

	return r
}
