package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetSettings reads the singleton, creating a zero-valued document on first
// access.
func GetSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /we/settings"
		defer handlePanic(c, route)

		ctx, cancel := storeCtx(c)
		defer cancel()

		settings, err := loadSettings(ctx, db)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, settings)
	}
}

type updateSettingsRequest struct {
	DeliveryCharge *float64 `json:"delivery_charge"`
	PlatformFee    *float64 `json:"platform_fee"`
	ProfitMargin   *float64 `json:"profit_margin"`
}

// UpdateSettings merges the provided fields into the singleton. Absent
// fields are no-ops, not resets to zero.
func UpdateSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /we/settings"
		defer handlePanic(c, route)

		var req updateSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		settings, err := loadSettings(ctx, db)
		if err != nil {
			respondError(c, route, err)
			return
		}

		if req.DeliveryCharge != nil {
			settings.DeliveryCharge = *req.DeliveryCharge
		}
		if req.PlatformFee != nil {
			settings.PlatformFee = *req.PlatformFee
		}
		if req.ProfitMargin != nil {
			settings.ProfitMargin = *req.ProfitMargin
		}
		settings.UpdatedAt = time.Now()

		_, err = db.Collection("settings").UpdateOne(ctx, bson.M{"_id": settings.ID}, bson.M{
			"$set": bson.M{
				"delivery_charge": settings.DeliveryCharge,
				"platform_fee":    settings.PlatformFee,
				"profit_margin":   settings.ProfitMargin,
				"updatedAt":       settings.UpdatedAt,
			},
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, settings)
	}
}
