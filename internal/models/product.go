package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocalizedText holds the bilingual name/description pair used across the
// catalog (English + Bangla).
type LocalizedText struct {
	En string `bson:"en" json:"en"`
	Bn string `bson:"bn,omitempty" json:"bn,omitempty"`
}

type Unit string

const (
	UnitPiece Unit = "piece"
	UnitLitre Unit = "litre"
	UnitKg    Unit = "kg"
	UnitGram  Unit = "gram"
)

func ValidUnit(u string) bool {
	switch Unit(u) {
	case UnitPiece, UnitLitre, UnitKg, UnitGram:
		return true
	}
	return false
}

type Product struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        LocalizedText        `bson:"name" json:"name"`
	Description LocalizedText        `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64              `bson:"price" json:"price"`
	MRPPrice    float64              `bson:"mrp_price,omitempty" json:"mrp_price,omitempty"`
	Discount    float64              `bson:"discount" json:"discount"`
	Tags        []primitive.ObjectID `bson:"tags,omitempty" json:"tags,omitempty"`
	Categories  []primitive.ObjectID `bson:"categories,omitempty" json:"categories,omitempty"`
	Weight      float64              `bson:"weight" json:"weight"`
	Unit        Unit                 `bson:"unit" json:"unit"`
	Stock       int                  `bson:"stock" json:"stock"`
	IsPublished bool                 `bson:"is_published" json:"is_published"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}
