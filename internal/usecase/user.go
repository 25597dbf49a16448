package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/stories-api/internal/model"
	"github.com/vasapolrittideah/stories-api/internal/repository"
	"github.com/vasapolrittideah/stories-api/shared/storage"
)

// FileStore persists uploaded media.
type FileStore interface {
	Save(dir string, r io.Reader, allowed []string) (string, error)
	Remove(path string) error
}

// UserUsecase covers account administration and public profiles.
type UserUsecase interface {
	ListUsers(ctx context.Context, page Page) ([]*model.User, error)
	SearchUsers(ctx context.Context, query string, page Page) ([]*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, actor Actor, id string, params UpdateUserParams) (*model.User, error)
	DeleteUser(ctx context.Context, actor Actor, id string) error
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, actor Actor, userID string, params UpdateProfileParams) (*model.Profile, error)
}

type UpdateUserParams struct {
	Name   string
	Age    int
	Gender string
	Role   string
}

// UpdateProfileParams holds the profile changes. Nil or empty fields are left as they are.
type UpdateProfileParams struct {
	Bio           *string
	ContactNumber *string
	HashTags      []string
	Picture       io.Reader
}

const profilePictureDir = "profiles"

type userUsecase struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	files       FileStore
	logger      *zerolog.Logger
}

func NewUserUsecase(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	files FileStore,
	logger *zerolog.Logger,
) UserUsecase {
	return &userUsecase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		files:       files,
		logger:      logger,
	}
}

func (u *userUsecase) ListUsers(ctx context.Context, page Page) ([]*model.User, error) {
	users, err := u.userRepo.ListUsers(ctx, repository.FilterUsersParams{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (u *userUsecase) SearchUsers(ctx context.Context, query string, page Page) ([]*model.User, error) {
	sortBy := "name"
	users, err := u.userRepo.ListUsers(ctx, repository.FilterUsersParams{
		Query:  &query,
		Limit:  page.Limit,
		Offset: page.Offset,
		SortBy: &sortBy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

func (u *userUsecase) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (u *userUsecase) UpdateUser(
	ctx context.Context,
	actor Actor,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	if !actor.CanManage(id) {
		return nil, ErrForbidden
	}

	// Only admins may change roles.
	if !actor.IsAdmin() && params.Role != model.RoleUser {
		return nil, ErrForbidden
	}

	user, err := u.userRepo.UpdateUser(ctx, id, repository.UpdateUserParams{
		Name:   &params.Name,
		Age:    &params.Age,
		Gender: &params.Gender,
		Role:   &params.Role,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (u *userUsecase) DeleteUser(ctx context.Context, actor Actor, id string) error {
	if !actor.CanManage(id) {
		return ErrForbidden
	}

	if _, err := u.userRepo.DeleteUser(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	profile, err := u.profileRepo.GetProfileByUserID(ctx, id)
	if err != nil {
		if !isNotFound(err) {
			u.logger.Warn().Err(err).Str("user_id", id).Msg("failed to load profile of deleted user")
		}
		return nil
	}

	if err := u.profileRepo.DeleteProfileByUserID(ctx, id); err != nil {
		u.logger.Warn().Err(err).Str("user_id", id).Msg("failed to delete profile of deleted user")
	}
	u.removeFile(profile.ProfilePicture)

	return nil
}

func (u *userUsecase) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := u.profileRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (u *userUsecase) UpdateProfile(
	ctx context.Context,
	actor Actor,
	userID string,
	params UpdateProfileParams,
) (*model.Profile, error) {
	if !actor.CanManage(userID) {
		return nil, ErrForbidden
	}

	if _, err := u.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	upsert := repository.UpsertProfileParams{
		Bio:           emptyAsNil(params.Bio),
		ContactNumber: emptyAsNil(params.ContactNumber),
	}
	if len(params.HashTags) > 0 {
		upsert.HashTags = params.HashTags
	}

	var oldPicture string
	if params.Picture != nil {
		path, err := u.files.Save(profilePictureDir, params.Picture, storage.ImageTypes)
		if err != nil {
			return nil, err
		}
		upsert.ProfilePicture = &path

		if existing, err := u.profileRepo.GetProfileByUserID(ctx, userID); err == nil {
			oldPicture = existing.ProfilePicture
		}
	}

	profile, err := u.profileRepo.UpsertProfile(ctx, userID, upsert)
	if err != nil {
		if upsert.ProfilePicture != nil {
			u.removeFile(*upsert.ProfilePicture)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	u.removeFile(oldPicture)

	return profile, nil
}

func (u *userUsecase) removeFile(path string) {
	if path == "" {
		return
	}
	if err := u.files.Remove(path); err != nil {
		u.logger.Warn().Err(err).Str("path", path).Msg("failed to remove file")
	}
}

func emptyAsNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
