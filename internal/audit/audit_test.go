package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazarapi/internal/models"
)

func TestDiffProductsRecordsChangedFieldsOnly(t *testing.T) {
	tagID := primitive.NewObjectID()

	before := models.Product{
		Name:     models.LocalizedText{En: "Hilsa Fish"},
		Price:    650,
		Discount: 5,
		Stock:    20,
		Unit:     models.UnitKg,
	}
	after := before
	after.Price = 700
	after.Tags = []primitive.ObjectID{tagID}

	changes := DiffProducts(before, after)

	assert.Len(t, changes, 2)
	fields := []string{changes[0].Field, changes[1].Field}
	assert.Contains(t, fields, "price")
	assert.Contains(t, fields, "tags")
}

func TestDiffProductsIdenticalIsEmpty(t *testing.T) {
	p := models.Product{Name: models.LocalizedText{En: "Beef"}, Price: 780}
	assert.Empty(t, DiffProducts(p, p))
}
