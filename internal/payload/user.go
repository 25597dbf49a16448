package payload

import (
	"time"

	"github.com/vasapolrittideah/stories-api/internal/model"
)

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,password_policy"`
	Age      int    `json:"age"      validate:"required,min=13,max=120"`
	Gender   string `json:"gender"   validate:"required,oneof=man woman other"`
	Role     string `json:"role"     validate:"required,oneof=admin user"`
}

type UpdateUserRequest struct {
	Name   string `json:"name"   validate:"required,min=1,max=50"`
	Age    int    `json:"age"    validate:"required,min=13,max=120"`
	Gender string `json:"gender" validate:"required,oneof=man woman other"`
	Role   string `json:"role"   validate:"required,oneof=admin user"`
}

// UpdateProfileRequest is decoded from a multipart form.
type UpdateProfileRequest struct {
	Bio           string   `json:"bio"           validate:"max=160"`
	ContactNumber string   `json:"contactNumber" validate:"omitempty,contact_number"`
	HashTags      []string `json:"hashTags"      validate:"max=10,dive,hashtag"`
}

// UserResponse is the sanitized view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Age:       u.Age,
		Gender:    u.Gender,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

func NewUserResponses(users []*model.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

type ProfileResponse struct {
	UserID         string   `json:"userId"`
	Bio            string   `json:"bio"`
	ProfilePicture string   `json:"profilePicture"`
	ContactNumber  string   `json:"contactNumber"`
	HashTags       []string `json:"hashTags"`
}

func NewProfileResponse(p *model.Profile) *ProfileResponse {
	hashTags := p.HashTags
	if hashTags == nil {
		hashTags = []string{}
	}

	return &ProfileResponse{
		UserID:         p.UserID.Hex(),
		Bio:            p.Bio,
		ProfilePicture: p.ProfilePicture,
		ContactNumber:  p.ContactNumber,
		HashTags:       hashTags,
	}
}
