package usecase

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/account-api/internal/model"
	"github.com/vasapolrittideah/account-api/internal/repository"
)

// VerificationUsecase defines the business logic for email verification.
type VerificationUsecase interface {
	// ConfirmEmail consumes a verification token: it marks the owning user
	// verified, sets the email address the token carries, and deletes every
	// pending verification token for that user.
	ConfirmEmail(ctx context.Context, tokenValue string) error
}

// ErrVerificationInvalid covers unknown, expired and already-consumed
// verification tokens alike.
var ErrVerificationInvalid = errors.New("verification token is invalid or has expired")

type verificationUsecase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.OneTimeTokenRepository
	userMail  UserMailer
}

// NewVerificationUsecase creates a new instance of VerificationUsecase.
func NewVerificationUsecase(
	userRepo repository.UserRepository,
	tokenRepo repository.OneTimeTokenRepository,
	userMail UserMailer,
) VerificationUsecase {
	return &verificationUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		userMail:  userMail,
	}
}

func (u *verificationUsecase) ConfirmEmail(ctx context.Context, tokenValue string) error {
	token, err := u.tokenRepo.FindValid(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrVerificationInvalid
		}

		return err
	}
	if token.Purpose != model.PurposeVerification {
		return ErrVerificationInvalid
	}

	user, err := u.userRepo.MarkVerifiedAndSetEmail(ctx, token.UserID.Hex(), token.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrVerificationInvalid
		}

		return err
	}

	if err := u.tokenRepo.DeleteAllForUser(ctx, token.UserID, model.PurposeVerification); err != nil {
		return err
	}

	u.userMail.SendVerifiedConfirmation(user.Email)

	return nil
}
