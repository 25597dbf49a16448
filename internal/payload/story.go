package payload

import (
	"time"

	"github.com/vasapolrittideah/stories-api/internal/model"
)

// CreateStoryRequest is decoded from a multipart form; the media file travels next to it.
type CreateStoryRequest struct {
	MediaType       string     `json:"mediaType"       validate:"required,oneof=image video"`
	Caption         string     `json:"caption"         validate:"max=2200"`
	PromotionExpiry *time.Time `json:"promotionExpiry"`
}

type PromoteStoryRequest struct {
	PromotionExpiry time.Time `json:"promotionExpiry" validate:"required"`
}

type StoryResponse struct {
	ID              string     `json:"id"`
	Author          string     `json:"author"`
	MediaType       string     `json:"mediaType"`
	Caption         string     `json:"caption,omitempty"`
	MediaURL        string     `json:"mediaUrl"`
	Likes           []string   `json:"likes"`
	ExpiryDate      time.Time  `json:"expiryDate"`
	PromotionExpiry *time.Time `json:"promotionExpiry,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func NewStoryResponse(s *model.Story) *StoryResponse {
	likes := make([]string, 0, len(s.Likes))
	for _, id := range s.Likes {
		likes = append(likes, id.Hex())
	}

	return &StoryResponse{
		ID:              s.ID.Hex(),
		Author:          s.Author.Hex(),
		MediaType:       s.MediaType,
		Caption:         s.Caption,
		MediaURL:        s.MediaURL,
		Likes:           likes,
		ExpiryDate:      s.ExpiryDate,
		PromotionExpiry: s.PromotionExpiry,
		CreatedAt:       s.CreatedAt,
	}
}

func NewStoryResponses(stories []*model.Story) []*StoryResponse {
	out := make([]*StoryResponse, 0, len(stories))
	for _, s := range stories {
		out = append(out, NewStoryResponse(s))
	}
	return out
}

type LikesResponse struct {
	Likes int `json:"likes"`
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Recipient string    `json:"recipient"`
	Sender    string    `json:"sender"`
	Post      string    `json:"post,omitempty"`
	Message   string    `json:"message,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewNotificationResponses(notifications []*model.Notification) []*NotificationResponse {
	out := make([]*NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp := &NotificationResponse{
			ID:        n.ID.Hex(),
			Type:      n.Type,
			Recipient: n.Recipient.Hex(),
			Sender:    n.Sender.Hex(),
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if n.Post != nil {
			resp.Post = n.Post.Hex()
		}
		out = append(out, resp)
	}
	return out
}
