package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/stories-api/internal/model"
	"github.com/vasapolrittideah/stories-api/internal/repository"
	"github.com/vasapolrittideah/stories-api/shared/storage"
)

// StoryUsecase defines the story feed operations.
type StoryUsecase interface {
	CreateStory(ctx context.Context, actor Actor, params CreateStoryParams) (*model.Story, error)
	ListStories(ctx context.Context, page Page) ([]*model.Story, error)
	ListUserStories(ctx context.Context, authorID string, page Page) ([]*model.Story, error)
	LikeStory(ctx context.Context, actor Actor, storyID string) (int, error)
	UnlikeStory(ctx context.Context, actor Actor, storyID string) (int, error)
	PromoteStory(ctx context.Context, actor Actor, storyID string, until time.Time) (*model.Story, error)
	DeleteStory(ctx context.Context, actor Actor, storyID string) error
}

type CreateStoryParams struct {
	MediaType       string
	Caption         string
	PromotionExpiry *time.Time
	Media           io.Reader
}

const storyMediaDir = "stories"

type storyUsecase struct {
	storyRepo        repository.StoryRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	files            FileStore
	logger           *zerolog.Logger
}

func NewStoryUsecase(
	storyRepo repository.StoryRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	files FileStore,
	logger *zerolog.Logger,
) StoryUsecase {
	return &storyUsecase{
		storyRepo:        storyRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		files:            files,
		logger:           logger,
	}
}

func (u *storyUsecase) CreateStory(ctx context.Context, actor Actor, params CreateStoryParams) (*model.Story, error) {
	authorID, err := bson.ObjectIDFromHex(actor.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	mediaURL, err := u.files.Save(storyMediaDir, params.Media, storage.MediaTypes)
	if err != nil {
		return nil, err
	}

	story, err := u.storyRepo.CreateStory(ctx, &model.Story{
		Author:          authorID,
		MediaType:       params.MediaType,
		Caption:         params.Caption,
		MediaURL:        mediaURL,
		PromotionExpiry: params.PromotionExpiry,
	})
	if err != nil {
		u.removeFile(mediaURL)
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	return story, nil
}

func (u *storyUsecase) ListStories(ctx context.Context, page Page) ([]*model.Story, error) {
	stories, err := u.storyRepo.ListStories(ctx, repository.FilterStoriesParams{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}

func (u *storyUsecase) ListUserStories(ctx context.Context, authorID string, page Page) ([]*model.Story, error) {
	stories, err := u.storyRepo.ListStories(ctx, repository.FilterStoriesParams{
		Author: &authorID,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to list user stories: %w", err)
	}
	return stories, nil
}

func (u *storyUsecase) LikeStory(ctx context.Context, actor Actor, storyID string) (int, error) {
	story, err := u.getStory(ctx, storyID)
	if err != nil {
		return 0, err
	}

	liker, err := u.userRepo.GetUser(ctx, actor.UserID)
	if err != nil {
		if isNotFound(err) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to get user: %w", err)
	}

	if story.LikedBy(liker.ID) {
		return 0, ErrAlreadyLiked
	}

	updated, err := u.storyRepo.AddLike(ctx, storyID, liker.ID)
	if err != nil {
		if isNotFound(err) {
			return 0, ErrStoryNotFound
		}
		return 0, fmt.Errorf("failed to like story: %w", err)
	}

	if _, err := u.notificationRepo.CreateNotification(ctx, &model.Notification{
		Type:      model.NotificationLike,
		Recipient: story.Author,
		Sender:    liker.ID,
		Post:      &story.ID,
		Message:   fmt.Sprintf("%s liked your story.", liker.Name),
	}); err != nil {
		u.logger.Warn().Err(err).Str("story_id", storyID).Msg("failed to create like notification")
	}

	return len(updated.Likes), nil
}

func (u *storyUsecase) UnlikeStory(ctx context.Context, actor Actor, storyID string) (int, error) {
	story, err := u.getStory(ctx, storyID)
	if err != nil {
		return 0, err
	}

	userID, err := bson.ObjectIDFromHex(actor.UserID)
	if err != nil || !story.LikedBy(userID) {
		return 0, ErrNotLiked
	}

	updated, err := u.storyRepo.RemoveLike(ctx, storyID, userID)
	if err != nil {
		if isNotFound(err) {
			return 0, ErrStoryNotFound
		}
		return 0, fmt.Errorf("failed to unlike story: %w", err)
	}

	return len(updated.Likes), nil
}

func (u *storyUsecase) PromoteStory(
	ctx context.Context,
	actor Actor,
	storyID string,
	until time.Time,
) (*model.Story, error) {
	if _, err := u.getStory(ctx, storyID); err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	story, err := u.storyRepo.SetPromotion(ctx, storyID, until)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to promote story: %w", err)
	}

	return story, nil
}

func (u *storyUsecase) DeleteStory(ctx context.Context, actor Actor, storyID string) error {
	story, err := u.getStory(ctx, storyID)
	if err != nil {
		return err
	}

	if !actor.CanManage(story.Author.Hex()) {
		return ErrForbidden
	}

	if _, err := u.storyRepo.DeleteStory(ctx, storyID); err != nil {
		if isNotFound(err) {
			return ErrStoryNotFound
		}
		return fmt.Errorf("failed to delete story: %w", err)
	}

	u.removeFile(story.MediaURL)

	return nil
}

func (u *storyUsecase) getStory(ctx context.Context, storyID string) (*model.Story, error) {
	story, err := u.storyRepo.GetStory(ctx, storyID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return story, nil
}

func (u *storyUsecase) removeFile(path string) {
	if path == "" {
		return
	}
	if err := u.files.Remove(path); err != nil {
		u.logger.Warn().Err(err).Str("path", path).Msg("failed to remove story media")
	}
}
