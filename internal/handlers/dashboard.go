package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bazarapi/internal/models"
	"bazarapi/internal/pricing"
)

// GetDashboardStats aggregates order, product and user figures for the
// requested date range, defaulting to today.
func GetDashboardStats(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /we/dashboard"
		defer handlePanic(c, route)

		startDate, endDate := parseDateRange(c)

		ctx, cancel := storeCtx(c)
		defer cancel()

		inRange := bson.M{"createdAt": bson.M{"$gte": startDate, "$lte": endDate}}

		var orders []models.Order
		cursor, err := db.Collection("orders").Find(ctx, inRange)
		if err != nil {
			respondError(c, route, err)
			return
		}
		if err := cursor.All(ctx, &orders); err != nil {
			respondError(c, route, err)
			return
		}

		totalOrderAmount := 0.0
		for _, order := range orders {
			totalOrderAmount += order.GrandTotal
		}

		completedAmount, purchaseAmount, completedCount, err := sumByCurrentStatus(
			ctx, db, []string{models.StatusDelivered, models.StatusCompleted}, startDate, endDate,
		)
		if err != nil {
			respondError(c, route, err)
			return
		}
		_, _, canceledCount, err := sumByCurrentStatus(ctx, db, models.FailedStatusSlugs, startDate, endDate)
		if err != nil {
			respondError(c, route, err)
			return
		}
		_, _, pendingCount, err := sumByCurrentStatus(ctx, db, []string{models.StatusPending}, startDate, endDate)
		if err != nil {
			respondError(c, route, err)
			return
		}

		totalProducts, err := db.Collection("products").CountDocuments(ctx, bson.M{})
		if err != nil {
			respondError(c, route, err)
			return
		}
		activeUsers, err := db.Collection("users").CountDocuments(ctx, bson.M{
			"status":    models.UserStatusActive,
			"createdAt": bson.M{"$gte": startDate, "$lte": endDate},
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": gin.H{
				"total":                len(orders),
				"totalAmount":          pricing.RoundMoney(totalOrderAmount),
				"completedAmount":      pricing.RoundMoney(completedAmount),
				"grossProfit":          pricing.RoundMoney(completedAmount - purchaseAmount),
				"totalCompletedOrders": completedCount,
				"canceledCount":        canceledCount,
				"totalPendingOrders":   pendingCount,
			},
			"products": gin.H{"total": totalProducts},
			"users":    gin.H{"activeCreatedInRange": activeUsers},
			"meta":     gin.H{"startDate": startDate, "endDate": endDate},
		})
	}
}

func parseDateRange(c *gin.Context) (time.Time, time.Time) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)

	if raw := c.Query("startDate"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			start = parsed
		}
	}
	if raw := c.Query("endDate"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			end = parsed.Add(24*time.Hour - time.Nanosecond)
		}
	}
	return start, end
}

// sumByCurrentStatus totals grand_total and purchase price over orders
// whose current status is one of slugs and that were touched in the range.
func sumByCurrentStatus(ctx context.Context, db *mongo.Database, slugs []string, start, end time.Time) (grandTotal, purchaseTotal float64, count int, err error) {
	filter := bson.M{
		"status": bson.M{"$elemMatch": bson.M{
			"slug":  bson.M{"$in": slugs},
			"stage": models.StageCurrent,
		}},
		"updatedAt": bson.M{"$gte": start, "$lte": end},
	}

	cursor, err := db.Collection("orders").Find(ctx, filter)
	if err != nil {
		return 0, 0, 0, err
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return 0, 0, 0, err
	}

	for _, order := range orders {
		grandTotal += order.GrandTotal
		purchaseTotal += order.TotalPurchasePrice
	}
	return grandTotal, purchaseTotal, len(orders), nil
}
