package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Stage string

const (
	StagePending   Stage = "pending"
	StageCurrent   Stage = "current"
	StageCompleted Stage = "completed"
)

const (
	StatusPending         = "pending"
	StatusAccepted        = "accepted"
	StatusReadyToDeliver  = "ready-to-deliver"
	StatusOnTheWay        = "on-the-way"
	StatusDelivered       = "delivered"
	StatusCanceled        = "canceled"
	StatusRejected        = "rejected"
	StatusReturn          = "return"
	StatusFailedToDeliver = "failed-to-deliver"
	StatusCompleted       = "completed"
)

// FailedStatusSlugs are collapsed into a single synthetic "Canceled" entry
// in the customer-facing order view. The admin view keeps them raw.
var FailedStatusSlugs = []string{
	StatusRejected,
	StatusCanceled,
	StatusReturn,
	StatusFailedToDeliver,
}

func IsFailedStatus(slug string) bool {
	for _, s := range FailedStatusSlugs {
		if s == slug {
			return true
		}
	}
	return false
}

type OrderStatus struct {
	Name      string    `bson:"name" json:"name"`
	Slug      string    `bson:"slug" json:"slug"`
	Stage     Stage     `bson:"stage" json:"stage"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DefaultStatusTimeline builds the fixed 9-stage timeline a fresh order
// starts with: "pending" current, everything else pending.
func DefaultStatusTimeline(now time.Time) []OrderStatus {
	return []OrderStatus{
		{Name: "Pending", Slug: StatusPending, Stage: StageCurrent, UpdatedAt: now},
		{Name: "Accepted", Slug: StatusAccepted, Stage: StagePending, UpdatedAt: now},
		{Name: "Ready to Deliver", Slug: StatusReadyToDeliver, Stage: StagePending, UpdatedAt: now},
		{Name: "On the Way", Slug: StatusOnTheWay, Stage: StagePending, UpdatedAt: now},
		{Name: "Delivered", Slug: StatusDelivered, Stage: StagePending, UpdatedAt: now},
		{Name: "Canceled", Slug: StatusCanceled, Stage: StagePending, UpdatedAt: now},
		{Name: "Rejected", Slug: StatusRejected, Stage: StagePending, UpdatedAt: now},
		{Name: "Failed to deliver", Slug: StatusFailedToDeliver, Stage: StagePending, UpdatedAt: now},
		{Name: "Completed", Slug: StatusCompleted, Stage: StagePending, UpdatedAt: now},
	}
}

type Address struct {
	Label    string `bson:"label,omitempty" json:"label,omitempty"`
	Street   string `bson:"street" json:"street"`
	Area     string `bson:"area" json:"area"`
	Division string `bson:"division,omitempty" json:"division,omitempty"`
	District string `bson:"district,omitempty" json:"district,omitempty"`
}

// OrderItem is a frozen pricing snapshot taken at checkout. Nothing here is
// recomputed from catalog state afterwards; the admin price-correction
// endpoint is the single sanctioned mutation.
type OrderItem struct {
	ProductID       primitive.ObjectID `bson:"product" json:"product"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	BasePrice       float64            `bson:"base_price" json:"base_price"`
	SellingPrice    float64            `bson:"selling_price" json:"selling_price"`
	DiscountedPrice float64            `bson:"discounted_price" json:"discounted_price"`
	TotalPrice      float64            `bson:"total_price" json:"total_price"`
	PurchasePrice   float64            `bson:"purchase_price" json:"purchase_price"`
	Weight          float64            `bson:"weight" json:"weight"`
	Unit            Unit               `bson:"unit" json:"unit"`
}

type Order struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID            string             `bson:"order_id" json:"order_id"`
	Name               string             `bson:"name" json:"name"`
	Phone              string             `bson:"phone" json:"phone"`
	DeviceID           string             `bson:"deviceId,omitempty" json:"deviceId,omitempty"`
	PaymentMethod      string             `bson:"payment_method" json:"payment_method"`
	Address            Address            `bson:"address" json:"address"`
	Items              []OrderItem        `bson:"items" json:"items"`
	SubTotal           float64            `bson:"sub_total" json:"sub_total"`
	Discount           float64            `bson:"discount" json:"discount"`
	DeliveryCharge     float64            `bson:"delivery_charge" json:"delivery_charge"`
	PlatformFee        float64            `bson:"platform_fee" json:"platform_fee"`
	GrandTotal         float64            `bson:"grand_total" json:"grand_total"`
	TotalPurchasePrice float64            `bson:"total_purchase_price" json:"total_purchase_price"`
	Profit             float64            `bson:"profit" json:"profit"`
	Status             []OrderStatus      `bson:"status" json:"status"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CurrentStatus returns the single entry whose stage is "current".
func (o *Order) CurrentStatus() *OrderStatus {
	for i := range o.Status {
		if o.Status[i].Stage == StageCurrent {
			return &o.Status[i]
		}
	}
	return nil
}

// ItemIndex returns the position of productID in the order items, or -1.
func (o *Order) ItemIndex(productID primitive.ObjectID) int {
	for i, item := range o.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
