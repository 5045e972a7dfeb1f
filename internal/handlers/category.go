package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bazarapi/internal/models"
)

type createCategoryRequest struct {
	Name models.LocalizedText `json:"name" binding:"required"`
	Slug string               `json:"slug"`
}

func CreateCategory(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /we/categories"
		defer handlePanic(c, route)

		var req createCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name.En) == "" {
			respondWithError(c, http.StatusBadRequest, route, "category name is required")
			return
		}

		slug := strings.TrimSpace(req.Slug)
		if slug == "" {
			slug = slugify(req.Name.En)
		}

		category := models.Category{
			Name:      req.Name,
			Slug:      slug,
			IsActive:  true,
			CreatedAt: time.Now(),
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		res, err := db.Collection("categories").InsertOne(ctx, category)
		if err != nil {
			respondError(c, route, err)
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			category.ID = id
		}

		c.JSON(http.StatusCreated, category)
	}
}

func GetCategories(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		filter := bson.M{"isActive": true}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name.en": bson.M{"$regex": search, "$options": "i"}},
				{"name.bn": bson.M{"$regex": search, "$options": "i"}},
				{"slug": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		var categories []models.Category
		envelope, err := paginate(ctx, c, db.Collection("categories"), filter, bson.D{{Key: "createdAt", Value: -1}}, &categories)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, envelope)
	}
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
