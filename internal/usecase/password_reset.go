package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/account-api/internal/config"
	"github.com/vasapolrittideah/account-api/internal/model"
	"github.com/vasapolrittideah/account-api/internal/repository"
	"github.com/vasapolrittideah/account-api/shared/security"
)

// PasswordResetUsecase defines the business logic for password reset
// operations.
type PasswordResetUsecase interface {
	// RequestPasswordReset mints a reset token for the account behind email
	// and sends it out-of-band. Earlier pending reset tokens stay valid;
	// consuming any of them later invalidates the whole set.
	RequestPasswordReset(ctx context.Context, email string) error

	// SetNewPassword consumes a reset token: it replaces the password hash,
	// deletes every reset token the user has, and returns the account email.
	SetNewPassword(ctx context.Context, tokenValue, newPassword string) (string, error)
}

var (
	// ErrResetTokenInvalid covers unknown, expired and already-consumed reset
	// tokens alike so a caller cannot probe which values ever existed.
	ErrResetTokenInvalid = errors.New("password reset token is invalid or has expired")

	ErrUserNotFound = errors.New("user not found")
)

type passwordResetUsecase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.OneTimeTokenRepository
	userMail  UserMailer
	cfg       *config.Config
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	tokenRepo repository.OneTimeTokenRepository,
	userMail UserMailer,
	cfg *config.Config,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		userMail:  userMail,
		cfg:       cfg,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}

		return err
	}

	ttl := u.cfg.Token.PasswordResetTTL()

	token, err := u.tokenRepo.CreateToken(ctx, repository.CreateTokenParams{
		UserID:  user.ID,
		Purpose: model.PurposePasswordReset,
		TTL:     ttl,
	})
	if err != nil {
		return err
	}

	if err := u.userRepo.AddResetPasswordRef(ctx, user.ID.Hex(), token.ID); err != nil {
		return err
	}

	u.userMail.SendPasswordReset(user.Email, token.Value, ttl)

	return nil
}

func (u *passwordResetUsecase) SetNewPassword(
	ctx context.Context,
	tokenValue, newPassword string,
) (string, error) {
	token, err := u.tokenRepo.FindValid(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrResetTokenInvalid
		}

		return "", err
	}
	if token.Purpose != model.PurposePasswordReset {
		return "", ErrResetTokenInvalid
	}

	user, err := u.userRepo.GetUser(ctx, token.UserID.Hex())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// The account vanished while the token was pending; drop the
			// orphaned tokens instead of leaving them live until expiry.
			if cleanupErr := u.tokenRepo.DeleteAllForUser(ctx, token.UserID, model.PurposePasswordReset); cleanupErr != nil {
				return "", cleanupErr
			}

			return "", ErrUserNotFound
		}

		return "", err
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return "", err
	}

	updated, err := u.userRepo.UpdatePassword(ctx, user.ID.Hex(), passwordHash)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrUserNotFound
		}

		return "", err
	}

	// Single-use guarantee: the consumed token and every sibling from
	// repeated reset requests go away together.
	if err := u.tokenRepo.DeleteAllForUser(ctx, token.UserID, model.PurposePasswordReset); err != nil {
		return "", err
	}

	u.userMail.SendPasswordResetConfirmation(updated.Email)

	return updated.Email, nil
}
