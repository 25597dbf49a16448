package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/stories-api/internal/model"
	"github.com/vasapolrittideah/stories-api/internal/repository"
	"github.com/vasapolrittideah/stories-api/shared/security"
)

// TokenIssuer signs bearer tokens for an account.
type TokenIssuer interface {
	GenerateToken(userID, role string) (string, error)
}

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Age      int
	Gender   string
	Role     string
}

// AuthResult is returned on a successful login or registration.
type AuthResult struct {
	Token string
	User  *model.User
}

type authUsecase struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

func NewAuthUsecase(userRepo repository.UserRepository, tokens TokenIssuer) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	user, err := u.userRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	return u.issue(user)
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: passwordHash,
		Age:          params.Age,
		Gender:       params.Gender,
		Role:         params.Role,
		Status:       model.StatusActive,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailAlreadyInUse
		}

		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u.issue(user)
}

func (u *authUsecase) issue(user *model.User) (*AuthResult, error) {
	token, err := u.tokens.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user}, nil
}
