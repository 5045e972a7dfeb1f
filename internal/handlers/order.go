package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bazarapi/internal/middleware"
	"bazarapi/internal/models"
	"bazarapi/internal/notify"
	"bazarapi/internal/pricing"
)

/* =========================
   REQUEST DTOs
========================= */

type placeOrderRequest struct {
	Name          string         `json:"name" binding:"required"`
	Phone         string         `json:"phone" binding:"required"`
	Address       models.Address `json:"address" binding:"required"`
	CartID        string         `json:"cart_id" binding:"required"`
	PaymentMethod string         `json:"payment_method" binding:"required"`
}

/* =========================
   PLACE ORDER
========================= */

// PlaceOrder converts a cart into an order with permanently frozen prices.
// Stock decrement, counter allocation, order insert and cart delete all run
// in one session transaction, so a failure partway leaves nothing applied.
func PlaceOrder(db *mongo.Database, policy pricing.Policy, notifier notify.Notifier, notifyTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /order"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		cartID, err := primitive.ObjectIDFromHex(req.CartID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid cart ID")
			return
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondError(c, route, err)
			return
		}
		defer session.EndSession(ctx)

		var order models.Order
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			built, err := placeOrderTx(sessCtx, db, policy, req, cartID)
			if err != nil {
				return nil, err
			}
			order = *built
			return nil, nil
		})
		if err != nil {
			respondError(c, route, err)
			return
		}

		log.Printf("[%s] order %s placed by %s", route, order.OrderID, order.Phone)
		notifyAdmins(db, notifier, notifyTimeout, &order)

		c.JSON(http.StatusCreated, gin.H{
			"message": "Order placed successfully",
			"order":   order,
		})
	}
}

func placeOrderTx(sessCtx mongo.SessionContext, db *mongo.Database, policy pricing.Policy, req placeOrderRequest, cartID primitive.ObjectID) (*models.Order, error) {
	var cart models.Cart
	if err := db.Collection("carts").FindOne(sessCtx, bson.M{"_id": cartID}).Decode(&cart); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errCartNotFound
		}
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Products))
	for _, line := range cart.Products {
		ids = append(ids, line.ProductID)
	}
	resolved, err := resolveProducts(sessCtx, db, ids)
	if err != nil {
		return nil, err
	}

	// Checkout rejects the whole order when any line references a product
	// that has disappeared from the catalog.
	inputs := make([]orderLineInput, 0, len(cart.Products))
	settings, err := loadSettings(sessCtx, db)
	if err != nil {
		return nil, err
	}
	for _, line := range cart.Products {
		rp, ok := resolved[line.ProductID]
		if !ok {
			return nil, productNotFoundError{ProductID: line.ProductID}
		}
		inputs = append(inputs, orderLineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Weight:    rp.Product.Weight,
			Unit:      rp.Product.Unit,
			Pricing:   pricingInput(rp, settings),
		})
	}

	if err := findOrCreateUser(sessCtx, db, req.Name, req.Phone, req.Address); err != nil {
		return nil, err
	}

	items := buildOrderItems(policy, inputs)
	totals := placementTotals(items, settings.DeliveryCharge, settings.PlatformFee)

	// Stock may go negative; there is no floor.
	for _, item := range items {
		_, err := db.Collection("products").UpdateOne(
			sessCtx,
			bson.M{"_id": item.ProductID},
			bson.M{"$inc": bson.M{"stock": -item.Quantity}},
		)
		if err != nil {
			return nil, err
		}
	}

	orderID, err := nextOrderID(sessCtx, db)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := models.Order{
		OrderID:            orderID,
		Name:               req.Name,
		Phone:              req.Phone,
		DeviceID:           cart.DeviceID,
		PaymentMethod:      req.PaymentMethod,
		Address:            req.Address,
		Items:              items,
		SubTotal:           totals.SubTotal,
		Discount:           totals.Discount,
		DeliveryCharge:     settings.DeliveryCharge,
		PlatformFee:        settings.PlatformFee,
		GrandTotal:         totals.GrandTotal,
		TotalPurchasePrice: totals.TotalPurchasePrice,
		Profit:             totals.Profit,
		Status:             models.DefaultStatusTimeline(now),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	res, err := db.Collection("orders").InsertOne(sessCtx, order)
	if err != nil {
		return nil, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}

	if _, err := db.Collection("carts").DeleteOne(sessCtx, bson.M{"_id": cartID}); err != nil {
		return nil, err
	}
	return &order, nil
}

// nextOrderID allocates a human-readable sequential id from an atomic
// counter document. The $inc runs inside the placement transaction, so
// concurrent checkouts cannot observe the same value.
func nextOrderID(ctx context.Context, db *mongo.Database) (string, error) {
	res := db.Collection("counters").FindOneAndUpdate(
		ctx,
		bson.M{"_id": "order_id"},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&counter); err != nil {
		return "", err
	}
	return strconv.FormatInt(counter.Seq, 10), nil
}

// findOrCreateUser looks up the account for the ordering phone number and,
// when none exists, creates a placeholder one pending real registration.
func findOrCreateUser(ctx context.Context, db *mongo.Database, name, phone string, address models.Address) error {
	err := db.Collection("users").FindOne(ctx, bson.M{"phone": phone}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	now := time.Now()
	_, err = db.Collection("users").InsertOne(ctx, models.User{
		Name:      name,
		Phone:     phone,
		Role:      "user",
		Status:    models.UserStatusPlaceholder,
		Address:   []models.Address{address},
		CreatedAt: now,
		UpdatedAt: now,
	})
	return err
}

// notifyAdmins pushes a new-order message to every admin holding a
// registration token. Strictly best-effort: failures are logged, never
// retried, never surfaced to the caller.
func notifyAdmins(db *mongo.Database, notifier notify.Notifier, timeout time.Duration, order *models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cursor, err := db.Collection("users").Find(ctx, bson.M{
		"role":      "admin",
		"fcm_token": bson.M{"$exists": true, "$ne": ""},
	})
	if err != nil {
		log.Println("[NOTIFY] admin lookup failed:", err)
		return
	}
	var admins []models.User
	if err := cursor.All(ctx, &admins); err != nil {
		log.Println("[NOTIFY] admin decode failed:", err)
		return
	}

	for _, admin := range admins {
		msg := notify.Message{
			Token: admin.FCMToken,
			Title: "New Order Placed!",
			Body:  fmt.Sprintf("Order #%s placed by %s", order.OrderID, order.Name),
			Data: map[string]string{
				"order_id": order.ID.Hex(),
				"type":     "order_placed",
			},
		}
		if err := notifier.Send(ctx, msg); err != nil {
			log.Println("[NOTIFY] push failed:", err)
		}
	}
}

/* =========================
   CUSTOMER LISTING
========================= */

type orderListEntry struct {
	ID         primitive.ObjectID `json:"_id"`
	OrderID    string             `json:"order_id"`
	CreatedAt  time.Time          `json:"createdAt"`
	Status     string             `json:"status"`
	GrandTotal float64            `json:"grand_total"`
}

// GetOrders lists the authenticated customer's orders, newest first, with
// optional order_id and current-status filters.
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		phone := middleware.PhoneFromContext(c)
		if phone == "" {
			respondWithError(c, http.StatusUnauthorized, route, "phone number missing from token")
			return
		}

		filter := bson.M{"phone": phone}
		if orderID := c.Query("order_id"); orderID != "" {
			filter["order_id"] = orderID
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

		entries := make([]orderListEntry, 0, len(orders))
		for i := range orders {
			entry := orderListEntry{
				ID:         orders[i].ID,
				OrderID:    orders[i].OrderID,
				CreatedAt:  orders[i].CreatedAt,
				Status:     "unknown",
				GrandTotal: orders[i].GrandTotal,
			}
			if current := orders[i].CurrentStatus(); current != nil {
				entry.Status = current.Name
			}
			entries = append(entries, entry)
		}
		envelope.Results = entries

		c.JSON(http.StatusOK, envelope)
	}
}

/* =========================
   CUSTOMER ORDER DETAILS
========================= */

// GetOrderDetails returns the frozen snapshot of one order. Prices come
// from the stored items, never from the live catalog, and the failure
// slugs collapse into one synthetic "Canceled" entry for display.
func GetOrderDetails(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:orderId"
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

		order.Status = collapseFailedStatuses(order.Status, time.Now())
		c.JSON(http.StatusOK, order)
	}
}
