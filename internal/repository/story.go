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

// StoryRepository defines the interface for story-related database operations.
type StoryRepository interface {
	CreateStory(ctx context.Context, story *model.Story) (*model.Story, error)
	GetStory(ctx context.Context, id string) (*model.Story, error)
	ListStories(ctx context.Context, params FilterStoriesParams) ([]*model.Story, error)
	AddLike(ctx context.Context, id string, userID bson.ObjectID) (*model.Story, error)
	RemoveLike(ctx context.Context, id string, userID bson.ObjectID) (*model.Story, error)
	SetPromotion(ctx context.Context, id string, until time.Time) (*model.Story, error)
	DeleteStory(ctx context.Context, id string) (*model.Story, error)
}

// FilterStoriesParams narrows the stories returned by ListStories, newest first.
// A zero Limit returns every match.
type FilterStoriesParams struct {
	Author *string
	Limit  uint64
	Offset uint64
}

const storyCollection = "stories"

type storyMongoRepository struct {
	db *mongo.Database
}

func NewStoryMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) StoryRepository {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "expiry_date", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	if _, err := db.Collection(storyCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Fatal().Err(err).Msg("failed to create story indexes")
	}

	return &storyMongoRepository{db: db}
}

func (r *storyMongoRepository) CreateStory(ctx context.Context, story *model.Story) (*model.Story, error) {
	now := time.Now()
	story.CreatedAt = now
	story.ExpiryDate = now.Add(model.StoryLifetime)
	if story.Likes == nil {
		story.Likes = []bson.ObjectID{}
	}

	result, err := r.db.Collection(storyCollection).InsertOne(ctx, story)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		story.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return story, nil
}

func (r *storyMongoRepository) GetStory(ctx context.Context, id string) (*model.Story, error) {
	objectID, err := objectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var story model.Story
	if err := r.db.Collection(storyCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&story); err != nil {
		return nil, err
	}

	return &story, nil
}

func (r *storyMongoRepository) ListStories(ctx context.Context, params FilterStoriesParams) ([]*model.Story, error) {
	filter := bson.M{}
	if params.Author != nil {
		authorID, err := objectIDFromHex(*params.Author)
		if err != nil {
			return nil, err
		}
		filter["author"] = authorID
	}

	findOptions := paginate(options.Find(), params.Limit, params.Offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.db.Collection(storyCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}

	stories := make([]*model.Story, 0)
	if err := cursor.All(ctx, &stories); err != nil {
		return nil, err
	}

	return stories, nil
}

func (r *storyMongoRepository) AddLike(ctx context.Context, id string, userID bson.ObjectID) (*model.Story, error) {
	return r.updateStory(ctx, id, bson.M{"$addToSet": bson.M{"likes": userID}})
}

func (r *storyMongoRepository) RemoveLike(ctx context.Context, id string, userID bson.ObjectID) (*model.Story, error) {
	return r.updateStory(ctx, id, bson.M{"$pull": bson.M{"likes": userID}})
}

func (r *storyMongoRepository) SetPromotion(ctx context.Context, id string, until time.Time) (*model.Story, error) {
	return r.updateStory(ctx, id, bson.M{"$set": bson.M{"promotion_expiry": until}})
}

func (r *storyMongoRepository) DeleteStory(ctx context.Context, id string) (*model.Story, error) {
	objectID, err := objectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var story model.Story
	if err := r.db.Collection(storyCollection).FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&story); err != nil {
		return nil, err
	}

	return &story, nil
}

func (r *storyMongoRepository) updateStory(ctx context.Context, id string, update bson.M) (*model.Story, error) {
	objectID, err := objectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var story model.Story
	err = r.db.Collection(storyCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&story)
	if err != nil {
		return nil, err
	}

	return &story, nil
}
