package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings is a singleton: exactly one document lives in the settings
// collection, created lazily on first read or write.
type Settings struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DeliveryCharge float64            `bson:"delivery_charge" json:"delivery_charge"`
	PlatformFee    float64            `bson:"platform_fee" json:"platform_fee"`
	// ProfitMargin is the legacy global markup percent. The tag-margin
	// policy superseded it; only the category-margin policy still reads it.
	ProfitMargin float64   `bson:"profit_margin" json:"profit_margin"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
