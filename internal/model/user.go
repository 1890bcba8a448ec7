package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents an account holder. Verified starts false and flips true
// only when a valid verification token is consumed. The token stores own the
// pending tokens themselves; the user record only keeps references to them.
type User struct {
	ID             bson.ObjectID   `bson:"_id,omitempty"`
	Email          string          `bson:"email"`
	PasswordHash   string          `bson:"password_hash"`
	Verified       bool            `bson:"verified"`
	Verifications  []bson.ObjectID `bson:"verifications,omitempty"`
	ResetPasswords []bson.ObjectID `bson:"reset_passwords,omitempty"`
	CreatedAt      time.Time       `bson:"created_at"`
	UpdatedAt      time.Time       `bson:"updated_at"`
}
