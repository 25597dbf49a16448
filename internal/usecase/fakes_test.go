package usecase

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/stories-api/internal/model"
	"github.com/vasapolrittideah/stories-api/internal/repository"
)

var nopLogger = zerolog.Nop()

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[bson.ObjectID]*model.User

	getErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[bson.ObjectID]*model.User{}}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "duplicate key"}}}
		}
	}

	user.ID = bson.NewObjectID()
	cp := *user
	f.users[user.ID] = &cp
	return user, nil
}

func (f *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}
	u, ok := f.users[objectID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, id string, p repository.UpdateUserParams) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}
	u, ok := f.users[objectID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}
	u, ok := f.users[objectID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	delete(f.users, objectID)
	return u, nil
}

func (f *fakeUserRepo) ListUsers(_ context.Context, p repository.FilterUsersParams) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*model.User, 0, len(f.users))
	for _, u := range f.users {
		if p.Query != nil && !strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(*p.Query)) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *model.User) int { return strings.Compare(a.Email, b.Email) })
	return pageOf(out, p.Limit, p.Offset), nil
}

func pageOf[T any](items []T, limit, offset uint64) []T {
	if offset >= uint64(len(items)) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < uint64(len(items)) {
		items = items[:limit]
	}
	return items
}

type fakeOTPRepo struct {
	mu   sync.Mutex
	otps map[string]*model.OTP
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{otps: map[string]*model.OTP{}}
}

func (f *fakeOTPRepo) UpsertOTP(_ context.Context, email, code string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.otps[email] = &model.OTP{Email: email, Code: code, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeOTPRepo) GetOTPByEmail(_ context.Context, email string) (*model.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.otps[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOTPRepo) MarkOTPVerified(_ context.Context, email string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if o, ok := f.otps[email]; ok {
		o.VerifiedAt = &at
	}
	return nil
}

func (f *fakeOTPRepo) DeleteOTPByEmail(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.otps, email)
	return nil
}

func (f *fakeOTPRepo) has(email string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.otps[email]
	return ok
}

type fakeProfileRepo struct {
	profiles map[string]*model.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*model.Profile{}}
}

func (f *fakeProfileRepo) GetProfileByUserID(_ context.Context, userID string) (*model.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) UpsertProfile(
	_ context.Context,
	userID string,
	params repository.UpsertProfileParams,
) (*model.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		uid, err := bson.ObjectIDFromHex(userID)
		if err != nil {
			return nil, repository.ErrInvalidID
		}
		p = &model.Profile{ID: bson.NewObjectID(), UserID: uid, HashTags: []string{}}
		f.profiles[userID] = p
	}
	if params.Bio != nil {
		p.Bio = *params.Bio
	}
	if params.ContactNumber != nil {
		p.ContactNumber = *params.ContactNumber
	}
	if params.ProfilePicture != nil {
		p.ProfilePicture = *params.ProfilePicture
	}
	if params.HashTags != nil {
		p.HashTags = params.HashTags
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) DeleteProfileByUserID(_ context.Context, userID string) error {
	delete(f.profiles, userID)
	return nil
}

type fakeStoryRepo struct {
	stories map[string]*model.Story
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{stories: map[string]*model.Story{}}
}

func (f *fakeStoryRepo) CreateStory(_ context.Context, story *model.Story) (*model.Story, error) {
	story.ID = bson.NewObjectID()
	story.CreatedAt = time.Now()
	story.ExpiryDate = story.CreatedAt.Add(model.StoryLifetime)
	cp := *story
	f.stories[story.ID.Hex()] = &cp
	return story, nil
}

func (f *fakeStoryRepo) GetStory(_ context.Context, id string) (*model.Story, error) {
	s, ok := f.stories[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *s
	cp.Likes = append([]bson.ObjectID(nil), s.Likes...)
	return &cp, nil
}

func (f *fakeStoryRepo) ListStories(_ context.Context, p repository.FilterStoriesParams) ([]*model.Story, error) {
	out := make([]*model.Story, 0)
	for _, s := range f.stories {
		if p.Author != nil && s.Author.Hex() != *p.Author {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *model.Story) int { return strings.Compare(b.ID.Hex(), a.ID.Hex()) })
	return pageOf(out, p.Limit, p.Offset), nil
}

func (f *fakeStoryRepo) AddLike(ctx context.Context, id string, userID bson.ObjectID) (*model.Story, error) {
	s, ok := f.stories[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if !s.LikedBy(userID) {
		s.Likes = append(s.Likes, userID)
	}
	return f.GetStory(ctx, id)
}

func (f *fakeStoryRepo) RemoveLike(ctx context.Context, id string, userID bson.ObjectID) (*model.Story, error) {
	s, ok := f.stories[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	kept := s.Likes[:0]
	for _, l := range s.Likes {
		if l != userID {
			kept = append(kept, l)
		}
	}
	s.Likes = kept
	return f.GetStory(ctx, id)
}

func (f *fakeStoryRepo) SetPromotion(ctx context.Context, id string, until time.Time) (*model.Story, error) {
	s, ok := f.stories[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	s.PromotionExpiry = &until
	return f.GetStory(ctx, id)
}

func (f *fakeStoryRepo) DeleteStory(_ context.Context, id string) (*model.Story, error) {
	s, ok := f.stories[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	delete(f.stories, id)
	return s, nil
}

type fakeNotificationRepo struct {
	notifications []*model.Notification
}

func (f *fakeNotificationRepo) CreateNotification(
	_ context.Context,
	n *model.Notification,
) (*model.Notification, error) {
	n.ID = bson.NewObjectID()
	n.CreatedAt = time.Now()
	f.notifications = append(f.notifications, n)
	return n, nil
}

func (f *fakeNotificationRepo) ListNotifications(_ context.Context, recipientID string) ([]*model.Notification, error) {
	out := make([]*model.Notification, 0)
	for _, n := range f.notifications {
		if n.Recipient.Hex() == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(_ context.Context, recipientID string) (int64, error) {
	var changed int64
	for _, n := range f.notifications {
		if n.Recipient.Hex() == recipientID && !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed, nil
}

type sentEmail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentEmail
	err  error
}

func (m *fakeMailer) SendSimple(to []string, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

type fakeFileStore struct {
	saved   []string
	removed []string
	saveErr error
}

func (f *fakeFileStore) Save(dir string, r io.Reader, _ []string) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	path := "uploads/" + dir + "/" + bson.NewObjectID().Hex()
	f.saved = append(f.saved, path)
	return path, nil
}

func (f *fakeFileStore) Remove(path string) error {
	f.removed = append(f.removed, path)
	return nil
}

type fakeLimiter struct {
	allow bool
	err   error
}

func (l fakeLimiter) Allow(context.Context, string) (bool, error) {
	return l.allow, l.err
}

type fakeTokens struct{}

func (fakeTokens) GenerateToken(userID, role string) (string, error) {
	if userID == "" {
		return "", errors.New("empty subject")
	}
	return "token-" + userID + "-" + role, nil
}

func updateName(name string) repository.UpdateUserParams {
	return repository.UpdateUserParams{Name: &name}
}
