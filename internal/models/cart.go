package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one product+quantity entry. The price fields are a display
// cache only: every read path recomputes them from the current catalog
// before responding, so stored values are never treated as truth.
type CartLine struct {
	ProductID       primitive.ObjectID `bson:"product" json:"product"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	Price           float64            `bson:"price" json:"price"`
	DiscountedPrice float64            `bson:"discounted_price" json:"discounted_price"`
	FinalPrice      float64            `bson:"final_price" json:"final_price"`
	Weight          float64            `bson:"weight" json:"weight"`
	Unit            Unit               `bson:"unit" json:"unit"`
}

type Cart struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DeviceID       string             `bson:"deviceId" json:"deviceId"`
	Products       []CartLine         `bson:"cart_products" json:"cart_products"`
	SubTotal       float64            `bson:"sub_total" json:"sub_total"`
	Discount       float64            `bson:"discount" json:"discount"`
	DeliveryCharge float64            `bson:"delivery_charge" json:"delivery_charge"`
	PlatformFee    float64            `bson:"platform_fee" json:"platform_fee"`
	GrandTotal     float64            `bson:"grand_total" json:"grand_total"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LineIndex returns the position of productID in the cart, or -1.
func (c *Cart) LineIndex(productID primitive.ObjectID) int {
	for i, line := range c.Products {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
