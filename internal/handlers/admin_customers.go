package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bazarapi/internal/models"
	"bazarapi/internal/pricing"
)

type customerSummary struct {
	ID            primitive.ObjectID `json:"_id"`
	Name          string             `json:"name"`
	Phone         string             `json:"phone"`
	Status        string             `json:"status"`
	TotalOrders   int64              `json:"total_orders"`
	TotalAmount   float64            `json:"total_amount"`
	LastOrderDate *time.Time         `json:"last_order_date"`
}

// GetCustomerOrderSummary pages through customer accounts and joins each
// page against an order aggregation keyed by phone: order count, lifetime
// amount, last order date.
func GetCustomerOrderSummary(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /we/customers"
		defer handlePanic(c, route)

		filter := bson.M{"role": "user"}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			safe := regexp.QuoteMeta(search)
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": safe, "$options": "i"}},
				{"phone": bson.M{"$regex": safe, "$options": "i"}},
			}
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		var users []models.User
		envelope, err := paginate(ctx, c, db.Collection("users"), filter, bson.D{{Key: "createdAt", Value: -1}}, &users)
		if err != nil {
			respondError(c, route, err)
			return
		}

		phones := make([]string, 0, len(users))
		for _, user := range users {
			phones = append(phones, user.Phone)
		}

		type orderGroup struct {
			Phone         string    `bson:"_id"`
			TotalOrders   int64     `bson:"total_orders"`
			TotalAmount   float64   `bson:"total_amount"`
			LastOrderDate time.Time `bson:"last_order_date"`
		}

		groups := map[string]orderGroup{}
		if len(phones) > 0 {
			cursor, err := db.Collection("orders").Aggregate(ctx, mongo.Pipeline{
				{{Key: "$match", Value: bson.M{"phone": bson.M{"$in": phones}}}},
				{{Key: "$group", Value: bson.M{
					"_id":             "$phone",
					"total_orders":    bson.M{"$sum": 1},
					"total_amount":    bson.M{"$sum": "$grand_total"},
					"last_order_date": bson.M{"$max": "$createdAt"},
				}}},
			})
			if err != nil {
				respondError(c, route, err)
				return
			}
			var results []orderGroup
			if err := cursor.All(ctx, &results); err != nil {
				respondError(c, route, err)
				return
			}
			for _, group := range results {
				groups[group.Phone] = group
			}
		}

		summaries := make([]customerSummary, 0, len(users))
		for _, user := range users {
			summary := customerSummary{
				ID:     user.ID,
				Name:   user.Name,
				Phone:  user.Phone,
				Status: user.Status,
			}
			if group, ok := groups[user.Phone]; ok {
				summary.TotalOrders = group.TotalOrders
				summary.TotalAmount = pricing.RoundMoney(group.TotalAmount)
				last := group.LastOrderDate
				summary.LastOrderDate = &last
			}
			summaries = append(summaries, summary)
		}
		envelope.Results = summaries

		c.JSON(http.StatusOK, envelope)
	}
}
