package usecase

import "time"

// UserMailer sends account lifecycle emails. Implementations are best-effort:
// they must never block the calling flow and must swallow their own failures.
type UserMailer interface {
	SendVerification(email, token string)
	SendPasswordReset(email, token string, expiresIn time.Duration)
	SendVerifiedConfirmation(email string)
	SendPasswordResetConfirmation(email string)
}
