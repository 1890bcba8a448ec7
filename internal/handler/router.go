package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/internal/observability"
	"github.com/vasapolrittideah/account-api/internal/usecase"
)

// NewRouter assembles the HTTP surface of the service.
func NewRouter(
	logger *zerolog.Logger,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	authUsecase usecase.AuthUsecase,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(observability.RequestID)
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.Metrics)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(RequireGuest(authUsecase, logger))

		r.Post("/auth/sign-up", authHandler.SignUp)
		r.Post("/auth/sign-in", authHandler.SignIn)
		r.Post("/auth/password/reset", authHandler.ResetPassword)
		r.Post("/auth/password/new/{accessToken}", authHandler.NewPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth(authUsecase, logger))

		r.Get("/auth/sign-out", authHandler.SignOut)
	})

	r.Get("/user/verification/{accessToken}", userHandler.Verification)

	return r
}
