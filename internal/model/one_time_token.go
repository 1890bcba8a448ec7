package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// TokenPurpose distinguishes verification tokens from password reset tokens
// sharing the same storage shape.
type TokenPurpose string

const (
	PurposeVerification  TokenPurpose = "verification"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// OneTimeToken is an opaque, time-bounded, single-use credential delivered
// out-of-band by email. Email is set for verification tokens only and carries
// the address the token confirms, which may differ from the user's current one.
type OneTimeToken struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Value     string        `bson:"value"`
	UserID    bson.ObjectID `bson:"user_id"`
	Purpose   TokenPurpose  `bson:"purpose"`
	Email     string        `bson:"email,omitempty"`
	ExpiresAt time.Time     `bson:"expires_at"`
	CreatedAt time.Time     `bson:"created_at"`
	UpdatedAt time.Time     `bson:"updated_at"`
}
