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

/* =========================
   ADMIN LISTING
========================= */

// GetAllOrders is the admin listing: search by phone or order_id plus an
// optional current-status filter, paginated.
func GetAllOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /we/orders"
		defer handlePanic(c, route)

		filter := bson.M{}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"phone": bson.M{"$regex": search, "$options": "i"}},
				{"order_id": bson.M{"$regex": search, "$options": "i"}},
			}
		}
		if status := c.Query("status"); status != "" {
			filter["status"] = bson.M{"$elemMatch": bson.M{
				"slug":  status,
				"stage": models.StageCurrent,
			}}
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		var orders []models.Order
		envelope, err := paginate(ctx, c, db.Collection("orders"), filter, bson.D{{Key: "createdAt", Value: -1}}, &orders)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, envelope)
	}
}

/* =========================
   ADMIN ORDER DETAILS
========================= */

// GetAdminOrderDetails returns the raw order: full status history untouched
// and the stored snapshot prices, purchase price included.
func GetAdminOrderDetails(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /we/orders/:orderId"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			respondError(c, route, errInvalidObjectID)
			return
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, route, errOrderNotFound)
				return
			}
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

/* =========================
   STATUS TRANSITION
========================= */

type updateStatusRequest struct {
	NewStatus string `json:"newStatus" binding:"required"`
}

func UpdateOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /we/orders/:orderId"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			respondError(c, route, errInvalidObjectID)
			return
		}

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, route, errOrderNotFound)
				return
			}
			respondError(c, route, err)
			return
		}

		updated, err := applyStatusTransition(order.Status, req.NewStatus, time.Now())
		if err != nil {
			respondError(c, route, err)
			return
		}
		order.Status = updated

		_, err = db.Collection("orders").UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{
			"$set": bson.M{"status": updated, "updatedAt": time.Now()},
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Order status updated successfully",
			"order":   order,
		})
	}
}

/* =========================
   LINE CORRECTION
========================= */

type editOrderItemRequest struct {
	ProductID     string  `json:"product_id" binding:"required"`
	Weight        float64 `json:"weight"`
	Unit          string  `json:"unit"`
	TotalPrice    float64 `json:"total_price"`
	PurchasePrice float64 `json:"purchase_price"`
}

// EditOrderItem is the single sanctioned mutation of frozen order lines:
// after physically re-weighing an item, an admin corrects weight, unit and
// the two price fields, and the order-level totals are re-derived from the
// corrected lines.
func EditOrderItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /we/orders/:orderId/edit"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			respondError(c, route, errInvalidObjectID)
			return
		}

		var req editOrderItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}
		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondError(c, route, errInvalidObjectID)
			return
		}
		if req.Unit != "" && !models.ValidUnit(req.Unit) {
			respondWithError(c, http.StatusBadRequest, route, "invalid unit")
			return
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		var order models.Order
		if err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, route, errOrderNotFound)
				return
			}
			respondError(c, route, err)
			return
		}

		idx := order.ItemIndex(productID)
		if idx < 0 {
			respondWithError(c, http.StatusNotFound, route, "product not found in order")
			return
		}

		order.Items[idx].Weight = req.Weight
		if req.Unit != "" {
			order.Items[idx].Unit = models.Unit(req.Unit)
		}
		order.Items[idx].TotalPrice = req.TotalPrice
		order.Items[idx].PurchasePrice = req.PurchasePrice

		totals := editedTotals(order.Items, order.DeliveryCharge, order.PlatformFee)
		order.SubTotal = totals.SubTotal
		order.Discount = totals.Discount
		order.TotalPurchasePrice = totals.TotalPurchasePrice
		order.GrandTotal = totals.GrandTotal
		order.Profit = totals.Profit
		order.UpdatedAt = time.Now()

		_, err = db.Collection("orders").UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{
			"$set": bson.M{
				"items":                order.Items,
				"sub_total":            order.SubTotal,
				"discount":             order.Discount,
				"total_purchase_price": order.TotalPurchasePrice,
				"grand_total":          order.GrandTotal,
				"profit":               order.Profit,
				"updatedAt":            order.UpdatedAt,
			},
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Order item updated successfully",
			"order":   order,
		})
	}
}

/* =========================
   DELETE
========================= */

func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /we/orders/:orderId"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			respondError(c, route, errInvalidObjectID)
			return
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		result, err := db.Collection("orders").DeleteOne(ctx, bson.M{"_id": orderID})
		if err != nil {
			respondError(c, route, err)
			return
		}
		if result.DeletedCount == 0 {
			respondError(c, route, errOrderNotFound)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}
