package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/internal/usecase"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	sessionTokenKey
)

// RequireAuth admits only requests carrying a valid, non-revoked session
// token and stores the resolved user id and the token literal in the context.
func RequireAuth(authUsecase usecase.AuthUsecase, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respondStatus(w, http.StatusForbidden)
				return
			}

			userID, err := authUsecase.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, usecase.ErrInvalidSession) {
					respondStatus(w, http.StatusForbidden)
					return
				}

				logger.Error().Err(err).Msg("failed to authenticate request")
				respondStatus(w, http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, sessionTokenKey, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireGuest rejects requests made with a still-valid session; the sign-up,
// sign-in and password reset endpoints only serve unauthenticated callers.
func RequireGuest(authUsecase usecase.AuthUsecase, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			_, err := authUsecase.Authenticate(r.Context(), token)
			switch {
			case err == nil:
				respondStatus(w, http.StatusForbidden)
			case errors.Is(err, usecase.ErrInvalidSession):
				next.ServeHTTP(w, r)
			default:
				logger.Error().Err(err).Msg("failed to check session for guest route")
				respondStatus(w, http.StatusInternalServerError)
			}
		})
	}
}

// UserIDFromContext returns the authenticated user id set by RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok
}

// SessionTokenFromContext returns the presented session token set by
// RequireAuth.
func SessionTokenFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionTokenKey).(string)
	return v, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}
