package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// OTP is the single outstanding password reset code of an email address.
type OTP struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	Email      string        `bson:"email"`
	Code       string        `bson:"code"`
	ExpiresAt  time.Time     `bson:"expires_at"`
	VerifiedAt *time.Time    `bson:"verified_at,omitempty"`
	CreatedAt  time.Time     `bson:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at"`
}

// Expired reports whether the code is past its expiry at now.
func (o *OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
