package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/internal/observability"
	"github.com/vasapolrittideah/account-api/internal/usecase"
	sharedvalidator "github.com/vasapolrittideah/account-api/shared/validator"
)

// AuthHandler serves the authentication and password reset endpoints.
type AuthHandler struct {
	authUsecase          usecase.AuthUsecase
	passwordResetUsecase usecase.PasswordResetUsecase
	validate             *validator.Validate
	trans                ut.Translator
	logger               *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	passwordResetUsecase usecase.PasswordResetUsecase,
	validate *validator.Validate,
	trans ut.Translator,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase:          authUsecase,
		passwordResetUsecase: passwordResetUsecase,
		validate:             validate,
		trans:                trans,
		logger:               logger,
	}
}

// SignUp handles POST /auth/sign-up.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	accessToken, err := h.authUsecase.SignUp(r.Context(), usecase.SignUpParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		observability.SignUpsTotal.WithLabelValues("failure").Inc()

		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			respondStatus(w, http.StatusConflict)
			return
		}

		h.logger.Error().Err(err).Msg("failed to sign up")
		respondStatus(w, http.StatusInternalServerError)
		return
	}

	observability.SignUpsTotal.WithLabelValues("success").Inc()
	observability.OneTimeTokensIssuedTotal.WithLabelValues("verification").Inc()

	respondOK(w, AccessTokenResponse{AccessToken: accessToken})
}

// SignIn handles POST /auth/sign-in.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	accessToken, err := h.authUsecase.SignIn(r.Context(), usecase.SignInParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		observability.SignInsTotal.WithLabelValues("failure").Inc()

		// Unknown email and wrong password map to the same status so the
		// response does not reveal which emails are registered.
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			respondStatus(w, http.StatusNotFound)
			return
		}

		h.logger.Error().Err(err).Msg("failed to sign in")
		respondStatus(w, http.StatusInternalServerError)
		return
	}

	observability.SignInsTotal.WithLabelValues("success").Inc()

	respondOK(w, AccessTokenResponse{AccessToken: accessToken})
}

// SignOut handles GET /auth/sign-out. It runs behind RequireAuth, so the
// session token in the context has already been authenticated.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, ok := SessionTokenFromContext(r.Context())
	if !ok {
		respondStatus(w, http.StatusForbidden)
		return
	}

	if err := h.authUsecase.SignOut(r.Context(), token); err != nil {
		if errors.Is(err, usecase.ErrInvalidSession) {
			respondStatus(w, http.StatusForbidden)
			return
		}

		h.logger.Error().Err(err).Msg("failed to sign out")
		respondStatus(w, http.StatusInternalServerError)
		return
	}

	respondOK(w, nil)
}

// ResetPassword handles POST /auth/password/reset.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.passwordResetUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			respondStatus(w, http.StatusNotFound)
			return
		}

		h.logger.Error().Err(err).Msg("failed to request password reset")
		respondStatus(w, http.StatusInternalServerError)
		return
	}

	observability.OneTimeTokensIssuedTotal.WithLabelValues("password_reset").Inc()

	respondOK(w, nil)
}

// NewPassword handles POST /auth/password/new/{accessToken}.
func (h *AuthHandler) NewPassword(w http.ResponseWriter, r *http.Request) {
	tokenValue := chi.URLParam(r, "accessToken")
	if tokenValue == "" {
		respondStatus(w, http.StatusBadRequest)
		return
	}

	var req NewPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	email, err := h.passwordResetUsecase.SetNewPassword(r.Context(), tokenValue, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrResetTokenInvalid):
			respondStatus(w, http.StatusBadRequest)
		case errors.Is(err, usecase.ErrUserNotFound):
			respondStatus(w, http.StatusNotFound)
		default:
			h.logger.Error().Err(err).Msg("failed to set new password")
			respondStatus(w, http.StatusInternalServerError)
		}
		return
	}

	respondOK(w, NewPasswordResponse{Email: email})
}

func (h *AuthHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondStatus(w, http.StatusBadRequest)
		return false
	}

	if err := h.validate.Struct(req); err != nil {
		h.logger.Debug().Str("reason", sharedvalidator.Translate(err, h.trans)).Msg("invalid request payload")
		respondStatus(w, http.StatusBadRequest)
		return false
	}

	return true
}
