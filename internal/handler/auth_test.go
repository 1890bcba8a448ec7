package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/account-api/internal/usecase"
	sharedvalidator "github.com/vasapolrittideah/account-api/shared/validator"
)

type stubAuthUsecase struct {
	signUpFn       func(ctx context.Context, params usecase.SignUpParams) (string, error)
	signInFn       func(ctx context.Context, params usecase.SignInParams) (string, error)
	signOutFn      func(ctx context.Context, token string) error
	authenticateFn func(ctx context.Context, token string) (string, error)
}

func (s *stubAuthUsecase) SignUp(ctx context.Context, params usecase.SignUpParams) (string, error) {
	return s.signUpFn(ctx, params)
}

func (s *stubAuthUsecase) SignIn(ctx context.Context, params usecase.SignInParams) (string, error) {
	return s.signInFn(ctx, params)
}

func (s *stubAuthUsecase) SignOut(ctx context.Context, token string) error {
	return s.signOutFn(ctx, token)
}

func (s *stubAuthUsecase) Authenticate(ctx context.Context, token string) (string, error) {
	if s.authenticateFn == nil {
		return "", usecase.ErrInvalidSession
	}

	return s.authenticateFn(ctx, token)
}

type stubPasswordResetUsecase struct {
	requestFn func(ctx context.Context, email string) error
	setFn     func(ctx context.Context, tokenValue, newPassword string) (string, error)
}

func (s *stubPasswordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	return s.requestFn(ctx, email)
}

func (s *stubPasswordResetUsecase) SetNewPassword(ctx context.Context, tokenValue, newPassword string) (string, error) {
	return s.setFn(ctx, tokenValue, newPassword)
}

type stubVerificationUsecase struct {
	confirmFn func(ctx context.Context, tokenValue string) error
}

func (s *stubVerificationUsecase) ConfirmEmail(ctx context.Context, tokenValue string) error {
	return s.confirmFn(ctx, tokenValue)
}

func newTestRouter(
	t *testing.T,
	authUC usecase.AuthUsecase,
	resetUC usecase.PasswordResetUsecase,
	verifyUC usecase.VerificationUsecase,
) *chi.Mux {
	t.Helper()

	logger := zerolog.Nop()
	validate, trans := sharedvalidator.New()

	return NewRouter(
		&logger,
		NewAuthHandler(authUC, resetUC, validate, trans, &logger),
		NewUserHandler(verifyUC, &logger),
		authUC,
	)
}

func doJSON(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	return payload
}

func TestSignUpEndpoint(t *testing.T) {
	seen := map[string]bool{}
	authUC := &stubAuthUsecase{
		signUpFn: func(_ context.Context, params usecase.SignUpParams) (string, error) {
			if seen[params.Email] {
				return "", usecase.ErrEmailAlreadyExists
			}
			seen[params.Email] = true
			return "issued-token", nil
		},
	}
	router := newTestRouter(t, authUC, &stubPasswordResetUsecase{}, &stubVerificationUsecase{})

	body := `{"email":"a@x.com","password":"password1","confirmPassword":"password1"}`

	rec := doJSON(t, router, http.MethodPost, "/auth/sign-up", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeEnvelope(t, rec)
	data, ok := payload["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "issued-token", data["accessToken"])

	// An immediate identical sign-up conflicts.
	rec = doJSON(t, router, http.MethodPost, "/auth/sign-up", body, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignUpEndpointPasswordMismatch(t *testing.T) {
	authUC := &stubAuthUsecase{
		signUpFn: func(context.Context, usecase.SignUpParams) (string, error) {
			t.Fatal("usecase must not be reached on invalid payload")
			return "", nil
		},
	}
	router := newTestRouter(t, authUC, &stubPasswordResetUsecase{}, &stubVerificationUsecase{})

	body := `{"email":"a@x.com","password":"password1","confirmPassword":"different1"}`

	rec := doJSON(t, router, http.MethodPost, "/auth/sign-up", body, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignInEndpointInvalidCredentials(t *testing.T) {
	authUC := &stubAuthUsecase{
		signInFn: func(context.Context, usecase.SignInParams) (string, error) {
			return "", usecase.ErrInvalidCredentials
		},
	}
	router := newTestRouter(t, authUC, &stubPasswordResetUsecase{}, &stubVerificationUsecase{})

	rec := doJSON(t, router, http.MethodPost, "/auth/sign-in",
		`{"email":"a@x.com","password":"wrong-password"}`, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignOutEndpoint(t *testing.T) {
	var revokedToken string
	authUC := &stubAuthUsecase{
		authenticateFn: func(_ context.Context, token string) (string, error) {
			if token == "live-token" && revokedToken != token {
				return "user-1", nil
			}
			return "", usecase.ErrInvalidSession
		},
		signOutFn: func(_ context.Context, token string) error {
			revokedToken = token
			return nil
		},
	}
	router := newTestRouter(t, authUC, &stubPasswordResetUsecase{}, &stubVerificationUsecase{})

	headers := map[string]string{"Authorization": "Bearer live-token"}

	rec := doJSON(t, router, http.MethodGet, "/auth/sign-out", "", headers)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "live-token", revokedToken)

	// The revoked token no longer passes the auth guard.
	rec = doJSON(t, router, http.MethodGet, "/auth/sign-out", "", headers)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSignOutEndpointWithoutToken(t *testing.T) {
	router := newTestRouter(t, &stubAuthUsecase{}, &stubPasswordResetUsecase{}, &stubVerificationUsecase{})

	rec := doJSON(t, router, http.MethodGet, "/auth/sign-out", "", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGuestGuardRejectsAuthenticatedCaller(t *testing.T) {
	authUC := &stubAuthUsecase{
		authenticateFn: func(_ context.Context, token string) (string, error) {
			if token == "live-token" {
				return "user-1", nil
			}
			return "", usecase.ErrInvalidSession
		},
		signInFn: func(context.Context, usecase.SignInParams) (string, error) {
			return "issued-token", nil
		},
	}
	router := newTestRouter(t, authUC, &stubPasswordResetUsecase{}, &stubVerificationUsecase{})

	rec := doJSON(t, router, http.MethodPost, "/auth/sign-in",
		`{"email":"a@x.com","password":"password1"}`,
		map[string]string{"Authorization": "Bearer live-token"})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestNewPasswordEndpoint(t *testing.T) {
	resetUC := &stubPasswordResetUsecase{
		setFn: func(_ context.Context, tokenValue, _ string) (string, error) {
			if tokenValue != "valid-token" {
				return "", usecase.ErrResetTokenInvalid
			}
			return "a@x.com", nil
		},
	}
	router := newTestRouter(t, &stubAuthUsecase{}, resetUC, &stubVerificationUsecase{})

	body := `{"password":"password2","confirmPassword":"password2"}`

	rec := doJSON(t, router, http.MethodPost, "/auth/password/new/valid-token", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeEnvelope(t, rec)
	data, ok := payload["data"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "a@x.com", data["email"])

	// Unknown and expired tokens share the same ambiguous response.
	rec = doJSON(t, router, http.MethodPost, "/auth/password/new/bogus-token", body, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerificationEndpoint(t *testing.T) {
	consumed := false
	verifyUC := &stubVerificationUsecase{
		confirmFn: func(_ context.Context, tokenValue string) error {
			if consumed || tokenValue != "valid-token" {
				return usecase.ErrVerificationInvalid
			}
			consumed = true
			return nil
		},
	}
	router := newTestRouter(t, &stubAuthUsecase{}, &stubPasswordResetUsecase{}, verifyUC)

	rec := doJSON(t, router, http.MethodGet, "/user/verification/unknown-token", "", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/user/verification/valid-token", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// A second identical call fails: the token was consumed.
	rec = doJSON(t, router, http.MethodGet, "/user/verification/valid-token", "", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
