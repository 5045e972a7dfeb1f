package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldChange records one field-level diff inside a product audit entry.
type FieldChange struct {
	Field    string      `bson:"field" json:"field"`
	OldValue interface{} `bson:"oldValue" json:"oldValue"`
	NewValue interface{} `bson:"newValue" json:"newValue"`
}

// ProductLog is an append-only audit record written on every product create
// and update. Entries are never mutated after insert.
type ProductLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Action    string             `bson:"action" json:"action"`
	Changes   []FieldChange      `bson:"changes" json:"changes"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
