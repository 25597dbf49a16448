package usecase

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/stories-api/internal/model"
	"github.com/vasapolrittideah/stories-api/internal/repository"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailAlreadyInUse   = errors.New("email address is already in use")
	ErrUserNotFound        = errors.New("user not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired otp")
	ErrWeakPassword        = errors.New("password does not satisfy the password policy")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrForbidden           = errors.New("forbidden")
	ErrStoryNotFound       = errors.New("story not found")
	ErrAlreadyLiked        = errors.New("story already liked")
	ErrNotLiked            = errors.New("story not liked yet")
)

// isNotFound reports whether a repository error means the document does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, repository.ErrInvalidID)
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// CanManage reports whether the actor may modify resources owned by ownerID.
func (a Actor) CanManage(ownerID string) bool {
	return a.UserID == ownerID || a.IsAdmin()
}
