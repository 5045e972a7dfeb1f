package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserStatusActive = "active"
	// UserStatusPlaceholder marks a soft account created during checkout for
	// a phone number that never registered. It upgrades on real registration.
	UserStatusPlaceholder = "placeholder"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Phone     string             `bson:"phone" json:"phone"`
	Role      string             `bson:"role" json:"role"`
	Status    string             `bson:"status" json:"status"`
	Address   []Address          `bson:"address" json:"address"`
	FCMToken  string             `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
