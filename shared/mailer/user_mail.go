package mailer

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// UserMail sends account lifecycle emails. Every send is best-effort: it runs
// in the background and failures are logged, never returned, so a slow or
// unreachable SMTP server cannot block the request that triggered the mail.
type UserMail struct {
	mailer    *Mailer
	logger    *zerolog.Logger
	clientURL string
}

// NewUserMail creates a new UserMail instance. clientURL is the base URL of
// the frontend that hosts the verification and password reset pages.
func NewUserMail(mailer *Mailer, logger *zerolog.Logger, clientURL string) *UserMail {
	return &UserMail{
		mailer:    mailer,
		logger:    logger,
		clientURL: clientURL,
	}
}

// SendVerification sends the email address verification mail carrying the
// opaque one-time token.
func (m *UserMail) SendVerification(email, token string) {
	link := fmt.Sprintf("%s/user/verification/%s", m.clientURL, token)
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>Please confirm your email address by clicking the link below:</p>

		<p><a href="%s">%s</a></p>

		<p>If you did not create an account, you can safely ignore this email.</p>
	`, link, link)

	m.sendAsync(email, "Verification", htmlBody)
}

// SendPasswordReset sends the password reset mail with the opaque one-time
// token embedded in the reset URL.
func (m *UserMail) SendPasswordReset(email, token string, expiresIn time.Duration) {
	link := fmt.Sprintf("%s/auth/password/new/%s", m.clientURL, token)
	htmlBody := fmt.Sprintf(`
		<p>Hi,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s for your security.</p>
		<p>If you did not request a password reset, you can safely ignore this email.</p>
	`, link, link, expiresIn)

	m.sendAsync(email, "Password Reset Request", htmlBody)
}

// SendVerifiedConfirmation confirms that the email address has been verified.
func (m *UserMail) SendVerifiedConfirmation(email string) {
	htmlBody := `
		<p>Hi,</p>
		<p>Your email address has been successfully verified.</p>
	`

	m.sendAsync(email, "Successfully Verified", htmlBody)
}

// SendPasswordResetConfirmation confirms that the password has been changed.
func (m *UserMail) SendPasswordResetConfirmation(email string) {
	htmlBody := `
		<p>Hi,</p>
		<p>Your password has been successfully updated.</p>
		<p>If you did not change your password, please reset it immediately.</p>
	`

	m.sendAsync(email, "Successfully Updated Password", htmlBody)
}

func (m *UserMail) sendAsync(email, subject, htmlBody string) {
	go func() {
		if err := m.mailer.SendHTML([]string{email}, subject, htmlBody); err != nil {
			m.logger.Error().Err(err).Str("subject", subject).Msg("failed to send email")
		}
	}()
}
