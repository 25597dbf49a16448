package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
)

type Notification struct {
	ID        bson.ObjectID  `bson:"_id,omitempty"`
	Type      string         `bson:"type"`
	Recipient bson.ObjectID  `bson:"recipient"`
	Sender    bson.ObjectID  `bson:"sender"`
	Post      *bson.ObjectID `bson:"post,omitempty"`
	Message   string         `bson:"message,omitempty"`
	IsRead    bool           `bson:"is_read"`
	CreatedAt time.Time      `bson:"created_at"`
}
