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

type createTagRequest struct {
	Name   string   `json:"name" binding:"required"`
	Margin *float64 `json:"margin" binding:"required"`
}

func CreateTag(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /we/tags"
		defer handlePanic(c, route)

		var req createTagRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "name and margin are required")
			return
		}
		if *req.Margin < 0 {
			respondWithError(c, http.StatusBadRequest, route, "margin must be a non-negative number")
			return
		}

		tag := models.Tag{
			Name:      strings.TrimSpace(req.Name),
			Margin:    *req.Margin,
			CreatedAt: time.Now(),
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		res, err := db.Collection("tags").InsertOne(ctx, tag)
		if err != nil {
			respondError(c, route, err)
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			tag.ID = id
		}

		c.JSON(http.StatusCreated, tag)
	}
}

func GetTags(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /tags"
		defer handlePanic(c, route)

		filter := bson.M{}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["name"] = bson.M{"$regex": search, "$options": "i"}
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		var tags []models.Tag
		envelope, err := paginate(ctx, c, db.Collection("tags"), filter, bson.D{{Key: "createdAt", Value: -1}}, &tags)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, envelope)
	}
}
