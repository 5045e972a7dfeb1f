package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bazarapi/internal/models"
	"bazarapi/internal/pricing"
)

// resolvedProduct is a product joined with the tag and category state the
// price engine consults. Always read fresh: there is no caching layer, so
// every pricing pass sees current catalog truth.
type resolvedProduct struct {
	Product       models.Product
	Tags          []models.Tag
	CategorySlugs []string
}

// resolveProducts fetches the given products plus their tags and categories
// in three $in queries. Products that no longer exist are simply absent
// from the result; the caller decides whether that skips or fails.
func resolveProducts(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID) (map[primitive.ObjectID]resolvedProduct, error) {
	resolved := make(map[primitive.ObjectID]resolvedProduct, len(ids))
	if len(ids) == 0 {
		return resolved, nil
	}

	cursor, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	tagIDs := make([]primitive.ObjectID, 0)
	categoryIDs := make([]primitive.ObjectID, 0)
	for _, p := range products {
		tagIDs = append(tagIDs, p.Tags...)
		categoryIDs = append(categoryIDs, p.Categories...)
	}

	tagsByID, err := fetchTags(ctx, db, tagIDs)
	if err != nil {
		return nil, err
	}
	slugsByID, err := fetchCategorySlugs(ctx, db, categoryIDs)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		rp := resolvedProduct{Product: p}
		for _, id := range p.Tags {
			if tag, ok := tagsByID[id]; ok {
				rp.Tags = append(rp.Tags, tag)
			}
		}
		for _, id := range p.Categories {
			if slug, ok := slugsByID[id]; ok {
				rp.CategorySlugs = append(rp.CategorySlugs, slug)
			}
		}
		resolved[p.ID] = rp
	}
	return resolved, nil
}

func fetchTags(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Tag, error) {
	byID := make(map[primitive.ObjectID]models.Tag, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	cursor, err := db.Collection("tags").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var tags []models.Tag
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, err
	}
	for _, tag := range tags {
		byID[tag.ID] = tag
	}
	return byID, nil
}

func fetchCategorySlugs(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	byID := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	cursor, err := db.Collection("categories").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	for _, category := range categories {
		byID[category.ID] = category.Slug
	}
	return byID, nil
}

// pricingInput shapes one resolved product for the price engine.
func pricingInput(rp resolvedProduct, settings models.Settings) pricing.ProductPricing {
	in := pricing.ProductPricing{
		BasePrice:       rp.Product.Price,
		MRPPrice:        rp.Product.MRPPrice,
		DiscountPercent: rp.Product.Discount,
		ProfitMargin:    settings.ProfitMargin,
		CategorySlugs:   rp.CategorySlugs,
	}
	for _, tag := range rp.Tags {
		in.Tags = append(in.Tags, pricing.TagMargin{Name: tag.Name, Margin: tag.Margin})
	}
	return in
}

// loadSettings returns the singleton, creating a zero-valued document on
// first access.
func loadSettings(ctx context.Context, db *mongo.Database) (models.Settings, error) {
	var settings models.Settings
	err := db.Collection("settings").FindOne(ctx, bson.M{}).Decode(&settings)
	if err == nil {
		return settings, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Settings{}, err
	}

	now := time.Now()
	settings = models.Settings{CreatedAt: now, UpdatedAt: now}
	res, insertErr := db.Collection("settings").InsertOne(ctx, settings)
	if insertErr != nil {
		return models.Settings{}, insertErr
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		settings.ID = id
	}
	return settings, nil
}
