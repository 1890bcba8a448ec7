package model

import "time"

// RevokedToken is a denylist entry for a session token invalidated before its
// natural expiry. The entry only needs to live as long as the token itself.
type RevokedToken struct {
	Key       string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}
