package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Profile holds the public, optional details of a user.
type Profile struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	UserID         bson.ObjectID `bson:"user_id"`
	Bio            string        `bson:"bio"`
	ProfilePicture string        `bson:"profile_picture"`
	ContactNumber  string        `bson:"contact_number"`
	HashTags       []string      `bson:"hash_tags"`
	CreatedAt      time.Time     `bson:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at"`
}
