package usecase

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/account-api/internal/config"
	"github.com/vasapolrittideah/account-api/internal/model"
	"github.com/vasapolrittideah/account-api/internal/repository"
	"github.com/vasapolrittideah/account-api/shared/auth"
	"github.com/vasapolrittideah/account-api/shared/clock"
	"github.com/vasapolrittideah/account-api/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	// SignUp creates an unverified user, mints a verification token, fires the
	// verification email and returns a session access token; the user is
	// logged in before verifying.
	SignUp(ctx context.Context, params SignUpParams) (string, error)

	// SignIn returns a session access token for valid credentials.
	SignIn(ctx context.Context, params SignInParams) (string, error)

	// SignOut revokes the exact presented token for the remainder of its
	// lifetime. It fails when the revocation could not be durably recorded.
	SignOut(ctx context.Context, token string) error

	// Authenticate resolves a session token to the signing user id, rejecting
	// revoked tokens. A denylist read failure fails closed.
	Authenticate(ctx context.Context, token string) (string, error)
}

// SignUpParams defines the parameters for user registration.
type SignUpParams struct {
	Email    string
	Password string
}

// SignInParams defines the parameters for user login.
type SignInParams struct {
	Email    string
	Password string
}

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or revoked session")
)

type authUsecase struct {
	userRepo    repository.UserRepository
	tokenRepo   repository.OneTimeTokenRepository
	revocations repository.RevokedTokenStore
	jwtAuth     *auth.JWTAuthenticator
	userMail    UserMailer
	clock       clock.Clock
	cfg         *config.Config
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	tokenRepo repository.OneTimeTokenRepository,
	revocations repository.RevokedTokenStore,
	jwtAuth *auth.JWTAuthenticator,
	userMail UserMailer,
	clk clock.Clock,
	cfg *config.Config,
) AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		revocations: revocations,
		jwtAuth:     jwtAuth,
		userMail:    userMail,
		clock:       clk,
		cfg:         cfg,
	}
}

func (u *authUsecase) SignUp(ctx context.Context, params SignUpParams) (string, error) {
	email := normalizeEmail(params.Email)

	exists, err := u.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrEmailAlreadyExists
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return "", err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Email:        email,
		PasswordHash: passwordHash,
		Verified:     false,
	})
	if err != nil {
		// The unique index catches sign-ups racing past the existence check.
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrEmailAlreadyExists
		}

		return "", err
	}

	token, err := u.tokenRepo.CreateToken(ctx, repository.CreateTokenParams{
		UserID:  user.ID,
		Purpose: model.PurposeVerification,
		TTL:     u.cfg.Token.VerificationTTL(),
		Email:   email,
	})
	if err != nil {
		return "", err
	}

	if err := u.userRepo.AddVerificationRef(ctx, user.ID.Hex(), token.ID); err != nil {
		return "", err
	}

	accessToken, err := u.jwtAuth.IssueSessionToken(user.ID.Hex())
	if err != nil {
		return "", err
	}

	u.userMail.SendVerification(email, token.Value)

	return accessToken, nil
}

func (u *authUsecase) SignIn(ctx context.Context, params SignInParams) (string, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(params.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrInvalidCredentials
		}

		return "", err
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return "", err
	} else if !ok {
		return "", ErrInvalidCredentials
	}

	return u.jwtAuth.IssueSessionToken(user.ID.Hex())
}

func (u *authUsecase) SignOut(ctx context.Context, token string) error {
	claims, err := u.jwtAuth.VerifySessionToken(token)
	if err != nil {
		return ErrInvalidSession
	}

	// The denylist entry only needs to outlive the token itself.
	ttl := claims.ExpiresAt.Time.Sub(u.clock.Now())
	if ttl <= 0 {
		return nil
	}

	return u.revocations.Revoke(ctx, token, claims.UserID, ttl)
}

func (u *authUsecase) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := u.jwtAuth.VerifySessionToken(token)
	if err != nil {
		return "", ErrInvalidSession
	}

	revoked, err := u.revocations.IsRevoked(ctx, token)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrInvalidSession
	}

	return claims.UserID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
