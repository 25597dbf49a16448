package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/stories-api/internal/model"
)

// NotificationRepository defines the interface for notification-related database operations.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *model.Notification) (*model.Notification, error)
	ListNotifications(ctx context.Context, recipientID string) ([]*model.Notification, error)
	// MarkAllAsRead flags every unread notification of the recipient as read and
	// returns how many were changed.
	MarkAllAsRead(ctx context.Context, recipientID string) (int64, error)
}

const notificationCollection = "notifications"

type notificationMongoRepository struct {
	db *mongo.Database
}

func NewNotificationMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) NotificationRepository {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "is_read", Value: 1}},
		},
	}

	if _, err := db.Collection(notificationCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Fatal().Err(err).Msg("failed to create notification indexes")
	}

	return &notificationMongoRepository{db: db}
}

func (r *notificationMongoRepository) CreateNotification(
	ctx context.Context,
	notification *model.Notification,
) (*model.Notification, error) {
	notification.CreatedAt = time.Now()

	result, err := r.db.Collection(notificationCollection).InsertOne(ctx, notification)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		notification.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return notification, nil
}

func (r *notificationMongoRepository) ListNotifications(
	ctx context.Context,
	recipientID string,
) ([]*model.Notification, error) {
	objectID, err := objectIDFromHex(recipientID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.db.Collection(notificationCollection).Find(
		ctx,
		bson.M{"recipient": objectID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	notifications := make([]*model.Notification, 0)
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *notificationMongoRepository) MarkAllAsRead(ctx context.Context, recipientID string) (int64, error) {
	objectID, err := objectIDFromHex(recipientID)
	if err != nil {
		return 0, err
	}

	result, err := r.db.Collection(notificationCollection).UpdateMany(
		ctx,
		bson.M{"recipient": objectID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, err
	}

	return result.ModifiedCount, nil
}
