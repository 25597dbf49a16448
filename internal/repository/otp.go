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

// OTPRepository stores at most one outstanding password reset code per email.
type OTPRepository interface {
	// UpsertOTP replaces any outstanding code for email.
	UpsertOTP(ctx context.Context, email, code string, expiresAt time.Time) error

	// GetOTPByEmail retrieves the outstanding code for email.
	GetOTPByEmail(ctx context.Context, email string) (*model.OTP, error)

	// MarkOTPVerified records that the code for email passed verification.
	MarkOTPVerified(ctx context.Context, email string, at time.Time) error

	// DeleteOTPByEmail removes the code for email. Deleting a missing code is not an error.
	DeleteOTPByEmail(ctx context.Context, email string) error
}

const otpCollection = "otps"

type otpMongoRepository struct {
	db *mongo.Database
}

// NewOTPMongoRepository creates a new MongoDB repository for password reset codes.
func NewOTPMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) OTPRepository {
	collection := db.Collection(otpCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create otp indexes")
	}

	return &otpMongoRepository{db: db}
}

func (r *otpMongoRepository) UpsertOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"code":       code,
			"expires_at": expiresAt,
			"updated_at": now,
		},
		"$unset":       bson.M{"verified_at": ""},
		"$setOnInsert": bson.M{"created_at": now},
	}

	_, err := r.db.Collection(otpCollection).UpdateOne(
		ctx,
		bson.M{"email": email},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (r *otpMongoRepository) GetOTPByEmail(ctx context.Context, email string) (*model.OTP, error) {
	var otp model.OTP
	if err := r.db.Collection(otpCollection).FindOne(ctx, bson.M{"email": email}).Decode(&otp); err != nil {
		return nil, err
	}

	return &otp, nil
}

func (r *otpMongoRepository) MarkOTPVerified(ctx context.Context, email string, at time.Time) error {
	_, err := r.db.Collection(otpCollection).UpdateOne(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"verified_at": at, "updated_at": at}},
	)
	return err
}

func (r *otpMongoRepository) DeleteOTPByEmail(ctx context.Context, email string) error {
	_, err := r.db.Collection(otpCollection).DeleteOne(ctx, bson.M{"email": email})
	return err
}
