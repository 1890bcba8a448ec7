package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/account-api/internal/model"
	"github.com/vasapolrittideah/account-api/shared/clock"
)

// RevokedTokenStore is a denylist of session tokens invalidated before their
// natural expiry. Both operations surface storage errors to the caller: a
// sign-out must not report success when the entry could not be recorded, and
// an authentication check fails closed when the store cannot answer.
type RevokedTokenStore interface {
	// Revoke records that token is no longer honored, for ttl. Safe to call
	// repeatedly for the same token; last write wins with the same value.
	Revoke(ctx context.Context, token, userID string, ttl time.Duration) error

	IsRevoked(ctx context.Context, token string) (bool, error)
}

const (
	revokedTokenCollection = "revoked_tokens"
	revokedTokenKeyPrefix  = "expiredToken:"
)

type revokedTokenMongoRepository struct {
	db    *mongo.Database
	clock clock.Clock
}

// NewRevokedTokenMongoRepository creates a MongoDB-backed denylist. Entries
// are reaped by a TTL index once the token they shadow has expired anyway.
func NewRevokedTokenMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
	clk clock.Clock,
) RevokedTokenStore {
	collection := db.Collection(revokedTokenCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create revoked token indexes")
	}

	return &revokedTokenMongoRepository{
		db:    db,
		clock: clk,
	}
}

func (r *revokedTokenMongoRepository) Revoke(
	ctx context.Context,
	token, userID string,
	ttl time.Duration,
) error {
	now := r.clock.Now()
	entry := &model.RevokedToken{
		Key:       revokedTokenKeyPrefix + token,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.db.Collection(revokedTokenCollection).ReplaceOne(
		ctx,
		bson.M{"_id": entry.Key},
		entry,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *revokedTokenMongoRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	// The TTL reaper runs periodically, so an expired entry may still be
	// present; the expiry filter keeps it from being honored.
	filter := bson.M{
		"_id":        revokedTokenKeyPrefix + token,
		"expires_at": bson.M{"$gte": r.clock.Now()},
	}

	count, err := r.db.Collection(revokedTokenCollection).CountDocuments(
		ctx,
		filter,
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
