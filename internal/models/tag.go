package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tag carries a percent markup. A tag named "mrp" (case-insensitive) is
// special: it tells the pricing policy to sell at the product's mrp_price
// instead of applying margin arithmetic.
type Tag struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Margin    float64            `bson:"margin" json:"margin"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
