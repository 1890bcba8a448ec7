package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/account-api/internal/model"
	"github.com/vasapolrittideah/account-api/shared/clock"
)

// OneTimeTokenRepository defines persistence for verification and password
// reset tokens. Creating a token never invalidates earlier tokens of the same
// purpose; consumption deletes them all at once via DeleteAllForUser.
type OneTimeTokenRepository interface {
	// CreateToken generates a fresh opaque token value and persists it with
	// expiry = now + params.TTL.
	CreateToken(ctx context.Context, params CreateTokenParams) (*model.OneTimeToken, error)

	// FindValid returns the token only while it is unexpired. An expired and a
	// never-issued value both yield mongo.ErrNoDocuments; callers cannot tell
	// the two apart.
	FindValid(ctx context.Context, value string) (*model.OneTimeToken, error)

	// DeleteAllForUser removes every token of the given purpose owned by the
	// user. Deleting zero rows is not an error.
	DeleteAllForUser(ctx context.Context, userID bson.ObjectID, purpose model.TokenPurpose) error

	// DeleteExpiredTokens removes expired rows that were never looked up.
	DeleteExpiredTokens(ctx context.Context) (int64, error)
}

// CreateTokenParams defines the parameters for minting a one-time token.
type CreateTokenParams struct {
	UserID  bson.ObjectID
	Purpose model.TokenPurpose
	TTL     time.Duration
	Email   string
}

const oneTimeTokenCollection = "one_time_tokens"

type oneTimeTokenMongoRepository struct {
	db    *mongo.Database
	clock clock.Clock
}

// NewOneTimeTokenMongoRepository creates a new MongoDB repository for
// one-time tokens.
func NewOneTimeTokenMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
	clk clock.Clock,
) OneTimeTokenRepository {
	collection := db.Collection(oneTimeTokenCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "value", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "purpose", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create one-time token indexes")
	}

	return &oneTimeTokenMongoRepository{
		db:    db,
		clock: clk,
	}
}

func (r *oneTimeTokenMongoRepository) CreateToken(
	ctx context.Context,
	params CreateTokenParams,
) (*model.OneTimeToken, error) {
	value, err := newTokenValue()
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	token := &model.OneTimeToken{
		Value:     value,
		UserID:    params.UserID,
		Purpose:   params.Purpose,
		Email:     params.Email,
		ExpiresAt: now.Add(params.TTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := r.db.Collection(oneTimeTokenCollection).InsertOne(ctx, token)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		token.ID = objectID
	}

	return token, nil
}

func (r *oneTimeTokenMongoRepository) FindValid(
	ctx context.Context,
	value string,
) (*model.OneTimeToken, error) {
	filter := bson.M{
		"value":      value,
		"expires_at": bson.M{"$gte": r.clock.Now()},
	}

	var token model.OneTimeToken
	err := r.db.Collection(oneTimeTokenCollection).FindOne(ctx, filter).Decode(&token)
	if err != nil {
		return nil, err
	}

	return &token, nil
}

func (r *oneTimeTokenMongoRepository) DeleteAllForUser(
	ctx context.Context,
	userID bson.ObjectID,
	purpose model.TokenPurpose,
) error {
	filter := bson.M{
		"user_id": userID,
		"purpose": purpose,
	}

	_, err := r.db.Collection(oneTimeTokenCollection).DeleteMany(ctx, filter)
	return err
}

func (r *oneTimeTokenMongoRepository) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	filter := bson.M{
		"expires_at": bson.M{"$lt": r.clock.Now()},
	}

	result, err := r.db.Collection(oneTimeTokenCollection).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}

	return result.DeletedCount, nil
}

// newTokenValue returns a 256-bit random opaque token encoded as hex. The
// entropy makes collisions with existing values astronomically unlikely, so no
// retry-on-collision is attempted.
func newTokenValue() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}
