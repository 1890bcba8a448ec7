package handler

// SignUpRequest is the payload for POST /auth/sign-up.
type SignUpRequest struct {
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// SignInRequest is the payload for POST /auth/sign-in.
type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordRequest is the payload for POST /auth/password/reset.
type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// NewPasswordRequest is the payload for POST /auth/password/new/{accessToken}.
type NewPasswordRequest struct {
	Password        string `json:"password"        validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// AccessTokenResponse carries the session token returned by sign-up and
// sign-in.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// NewPasswordResponse carries the email of the account whose password was
// just changed.
type NewPasswordResponse struct {
	Email string `json:"email"`
}
