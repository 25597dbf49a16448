package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/stories-api/internal/model"
)

// ProfileRepository defines the interface for profile-related database operations.
type ProfileRepository interface {
	GetProfileByUserID(ctx context.Context, userID string) (*model.Profile, error)
	UpsertProfile(ctx context.Context, userID string, params UpsertProfileParams) (*model.Profile, error)
	DeleteProfileByUserID(ctx context.Context, userID string) error
}

// UpsertProfileParams defines the optional profile fields to set.
// Nil fields keep their stored value.
type UpsertProfileParams struct {
	Bio            *string
	ContactNumber  *string
	ProfilePicture *string
	HashTags       []string
}

const profileCollection = "profiles"

type profileMongoRepository struct {
	db *mongo.Database
}

func NewProfileMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) ProfileRepository {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := db.Collection(profileCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Fatal().Err(err).Msg("failed to create profile indexes")
	}

	return &profileMongoRepository{db: db}
}

func (r *profileMongoRepository) GetProfileByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	objectID, err := objectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	var profile model.Profile
	if err := r.db.Collection(profileCollection).FindOne(ctx, bson.M{"user_id": objectID}).Decode(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileMongoRepository) UpsertProfile(
	ctx context.Context,
	userID string,
	params UpsertProfileParams,
) (*model.Profile, error) {
	objectID, err := objectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	set := bson.M{"updated_at": now}
	setOnInsert := bson.M{"created_at": now}

	// Fields not being set still need defaults on insert.
	if params.Bio != nil {
		set["bio"] = *params.Bio
	} else {
		setOnInsert["bio"] = ""
	}
	if params.ContactNumber != nil {
		set["contact_number"] = *params.ContactNumber
	} else {
		setOnInsert["contact_number"] = ""
	}
	if params.ProfilePicture != nil {
		set["profile_picture"] = *params.ProfilePicture
	} else {
		setOnInsert["profile_picture"] = ""
	}
	if params.HashTags != nil {
		set["hash_tags"] = params.HashTags
	} else {
		setOnInsert["hash_tags"] = bson.A{}
	}

	var profile model.Profile
	err = r.db.Collection(profileCollection).FindOneAndUpdate(
		ctx,
		bson.M{"user_id": objectID},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&profile)
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileMongoRepository) DeleteProfileByUserID(ctx context.Context, userID string) error {
	objectID, err := objectIDFromHex(userID)
	if err != nil {
		return err
	}

	_, err = r.db.Collection(profileCollection).DeleteOne(ctx, bson.M{"user_id": objectID})
	return err
}
