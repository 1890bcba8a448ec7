package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/account-api/internal/model"
)

// UserRepository defines the interface for user-related database operations.
// Lookups that match nothing return mongo.ErrNoDocuments.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id string, passwordHash string) (*model.User, error)

	// MarkVerifiedAndSetEmail sets verified=true and the email carried by the
	// consumed verification token in a single update.
	MarkVerifiedAndSetEmail(ctx context.Context, id string, email string) (*model.User, error)

	AddVerificationRef(ctx context.Context, id string, tokenID bson.ObjectID) error
	AddResetPasswordRef(ctx context.Context, id string, tokenID bson.ObjectID) error
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := r.db.Collection(userCollection).CountDocuments(
		ctx,
		bson.M{"email": email},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *userMongoRepository) UpdatePassword(
	ctx context.Context,
	id string,
	passwordHash string,
) (*model.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{"password_hash": passwordHash})
}

func (r *userMongoRepository) MarkVerifiedAndSetEmail(
	ctx context.Context,
	id string,
	email string,
) (*model.User, error) {
	return r.findOneAndSet(ctx, id, bson.M{"verified": true, "email": email})
}

func (r *userMongoRepository) AddVerificationRef(
	ctx context.Context,
	id string,
	tokenID bson.ObjectID,
) error {
	return r.pushRef(ctx, id, "verifications", tokenID)
}

func (r *userMongoRepository) AddResetPasswordRef(
	ctx context.Context,
	id string,
	tokenID bson.ObjectID,
) error {
	return r.pushRef(ctx, id, "reset_passwords", tokenID)
}

func (r *userMongoRepository) findOneAndSet(
	ctx context.Context,
	id string,
	fields bson.M,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	fields["updated_at"] = time.Now()

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) pushRef(
	ctx context.Context,
	id string,
	field string,
	tokenID bson.ObjectID,
) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.db.Collection(userCollection).UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{
			"$push": bson.M{field: tokenID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}
