package handler

import (
	"context"
	"io"
	"time"

	"github.com/vasapolrittideah/stories-api/internal/model"
	"github.com/vasapolrittideah/stories-api/internal/usecase"
)

type stubAuth struct {
	usecase.AuthUsecase
	login    func(ctx context.Context, params usecase.LoginParams) (*usecase.AuthResult, error)
	register func(ctx context.Context, params usecase.RegisterParams) (*usecase.AuthResult, error)
}

func (s *stubAuth) Login(ctx context.Context, params usecase.LoginParams) (*usecase.AuthResult, error) {
	return s.login(ctx, params)
}

func (s *stubAuth) Register(ctx context.Context, params usecase.RegisterParams) (*usecase.AuthResult, error) {
	return s.register(ctx, params)
}

type stubPasswordReset struct {
	requestErr error
	verifyErr  error
	resetErr   error

	requested []string
}

func (s *stubPasswordReset) RequestPasswordReset(_ context.Context, email string) error {
	s.requested = append(s.requested, email)
	return s.requestErr
}

func (s *stubPasswordReset) VerifyOTP(context.Context, string, string) error {
	return s.verifyErr
}

func (s *stubPasswordReset) ResetPassword(context.Context, string, string) error {
	return s.resetErr
}

type stubUsers struct {
	usecase.UserUsecase
	listUsers     func(ctx context.Context, page usecase.Page) ([]*model.User, error)
	searchUsers   func(ctx context.Context, query string, page usecase.Page) ([]*model.User, error)
	getUser       func(ctx context.Context, id string) (*model.User, error)
	updateUser    func(ctx context.Context, actor usecase.Actor, id string, params usecase.UpdateUserParams) (*model.User, error)
	deleteUser    func(ctx context.Context, actor usecase.Actor, id string) error
	getProfile    func(ctx context.Context, userID string) (*model.Profile, error)
	updateProfile func(ctx context.Context, actor usecase.Actor, userID string, params usecase.UpdateProfileParams) (*model.Profile, error)
}

func (s *stubUsers) ListUsers(ctx context.Context, page usecase.Page) ([]*model.User, error) {
	return s.listUsers(ctx, page)
}

func (s *stubUsers) SearchUsers(ctx context.Context, query string, page usecase.Page) ([]*model.User, error) {
	return s.searchUsers(ctx, query, page)
}

func (s *stubUsers) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.getUser(ctx, id)
}

func (s *stubUsers) UpdateUser(
	ctx context.Context,
	actor usecase.Actor,
	id string,
	params usecase.UpdateUserParams,
) (*model.User, error) {
	return s.updateUser(ctx, actor, id, params)
}

func (s *stubUsers) DeleteUser(ctx context.Context, actor usecase.Actor, id string) error {
	return s.deleteUser(ctx, actor, id)
}

func (s *stubUsers) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	return s.getProfile(ctx, userID)
}

func (s *stubUsers) UpdateProfile(
	ctx context.Context,
	actor usecase.Actor,
	userID string,
	params usecase.UpdateProfileParams,
) (*model.Profile, error) {
	return s.updateProfile(ctx, actor, userID, params)
}

type stubStories struct {
	usecase.StoryUsecase
	createStory     func(ctx context.Context, actor usecase.Actor, params usecase.CreateStoryParams) (*model.Story, error)
	listStories     func(ctx context.Context, page usecase.Page) ([]*model.Story, error)
	listUserStories func(ctx context.Context, authorID string, page usecase.Page) ([]*model.Story, error)
	likeStory       func(ctx context.Context, actor usecase.Actor, storyID string) (int, error)
	unlikeStory     func(ctx context.Context, actor usecase.Actor, storyID string) (int, error)
	promoteStory    func(ctx context.Context, actor usecase.Actor, storyID string, until time.Time) (*model.Story, error)
}

func (s *stubStories) CreateStory(ctx context.Context, actor usecase.Actor, params usecase.CreateStoryParams) (*model.Story, error) {
	return s.createStory(ctx, actor, params)
}

func (s *stubStories) ListStories(ctx context.Context, page usecase.Page) ([]*model.Story, error) {
	return s.listStories(ctx, page)
}

func (s *stubStories) ListUserStories(ctx context.Context, authorID string, page usecase.Page) ([]*model.Story, error) {
	return s.listUserStories(ctx, authorID, page)
}

func (s *stubStories) LikeStory(ctx context.Context, actor usecase.Actor, storyID string) (int, error) {
	return s.likeStory(ctx, actor, storyID)
}

func (s *stubStories) UnlikeStory(ctx context.Context, actor usecase.Actor, storyID string) (int, error) {
	return s.unlikeStory(ctx, actor, storyID)
}

func (s *stubStories) PromoteStory(
	ctx context.Context,
	actor usecase.Actor,
	storyID string,
	until time.Time,
) (*model.Story, error) {
	return s.promoteStory(ctx, actor, storyID, until)
}

type stubNotifications struct {
	notifications []*model.Notification
	marked        []string
}

func (s *stubNotifications) ListNotifications(context.Context, usecase.Actor) ([]*model.Notification, error) {
	return s.notifications, nil
}

func (s *stubNotifications) MarkAllAsRead(_ context.Context, actor usecase.Actor) (int64, error) {
	s.marked = append(s.marked, actor.UserID)
	return int64(len(s.notifications)), nil
}

func readAll(r io.Reader) string {
	b, _ := io.ReadAll(r)
	return string(b)
}
