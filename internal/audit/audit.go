// Package audit writes append-only field-level diffs for catalog mutations.
// The product handlers call Record deliberately after a successful write;
// nothing here hooks into the persistence layer implicitly.
package audit

import (
	"context"
	"log"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bazarapi/internal/models"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
)

// DiffProducts compares the fields an admin can edit and returns one
// FieldChange per difference. Timestamps are excluded.
func DiffProducts(before, after models.Product) []models.FieldChange {
	changes := make([]models.FieldChange, 0)

	add := func(field string, oldValue, newValue interface{}) {
		if !reflect.DeepEqual(oldValue, newValue) {
			changes = append(changes, models.FieldChange{
				Field:    field,
				OldValue: oldValue,
				NewValue: newValue,
			})
		}
	}

	add("name", before.Name, after.Name)
	add("description", before.Description, after.Description)
	add("price", before.Price, after.Price)
	add("mrp_price", before.MRPPrice, after.MRPPrice)
	add("discount", before.Discount, after.Discount)
	add("tags", before.Tags, after.Tags)
	add("categories", before.Categories, after.Categories)
	add("weight", before.Weight, after.Weight)
	add("unit", before.Unit, after.Unit)
	add("stock", before.Stock, after.Stock)
	add("is_published", before.IsPublished, after.IsPublished)

	return changes
}

// Record inserts one audit entry. Failures are logged and swallowed: audit
// writes never fail the mutation that triggered them.
func Record(ctx context.Context, db *mongo.Database, productID primitive.ObjectID, action string, changes []models.FieldChange) {
	if action == ActionUpdate && len(changes) == 0 {
		return
	}

	entry := models.ProductLog{
		ProductID: productID,
		Action:    action,
		Changes:   changes,
		CreatedAt: time.Now(),
	}

	if _, err := db.Collection("product_logs").InsertOne(ctx, entry); err != nil {
		log.Println("[AUDIT] insert failed:", err)
	}
}
