package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/internal/usecase"
)

// UserHandler serves the user-facing verification endpoint.
type UserHandler struct {
	verificationUsecase usecase.VerificationUsecase
	logger              *zerolog.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(verificationUsecase usecase.VerificationUsecase, logger *zerolog.Logger) *UserHandler {
	return &UserHandler{
		verificationUsecase: verificationUsecase,
		logger:              logger,
	}
}

// Verification handles GET /user/verification/{accessToken}.
func (h *UserHandler) Verification(w http.ResponseWriter, r *http.Request) {
	tokenValue := chi.URLParam(r, "accessToken")
	if tokenValue == "" {
		respondStatus(w, http.StatusForbidden)
		return
	}

	if err := h.verificationUsecase.ConfirmEmail(r.Context(), tokenValue); err != nil {
		if errors.Is(err, usecase.ErrVerificationInvalid) {
			respondStatus(w, http.StatusForbidden)
			return
		}

		h.logger.Error().Err(err).Msg("failed to confirm email")
		respondStatus(w, http.StatusInternalServerError)
		return
	}

	respondOK(w, nil)
}
