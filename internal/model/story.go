package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"

	// StoryLifetime is how long a story stays visible before the TTL index removes it.
	StoryLifetime = 24 * time.Hour
)

// Story is a time-limited post.
type Story struct {
	ID              bson.ObjectID   `bson:"_id,omitempty"`
	Author          bson.ObjectID   `bson:"author"`
	MediaType       string          `bson:"media_type"`
	Caption         string          `bson:"caption,omitempty"`
	MediaURL        string          `bson:"media_url"`
	Likes           []bson.ObjectID `bson:"likes"`
	ExpiryDate      time.Time       `bson:"expiry_date"`
	PromotionExpiry *time.Time      `bson:"promotion_expiry,omitempty"`
	CreatedAt       time.Time       `bson:"created_at"`
}

// LikedBy reports whether userID is among the story's likes.
func (s *Story) LikedBy(userID bson.ObjectID) bool {
	for _, id := range s.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
