package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bazarapi/internal/middleware"
	"bazarapi/internal/models"
	"bazarapi/internal/pricing"
)

/* =========================
   REQUEST DTOs
========================= */

type cartLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

type upsertCartRequest struct {
	DeviceID string            `json:"deviceId"`
	Cart     []cartLineRequest `json:"cart" binding:"required"`
}

type cartSummary struct {
	ID             primitive.ObjectID `json:"_id"`
	DeviceID       string             `json:"deviceId"`
	Products       []models.CartLine  `json:"cart_products"`
	SubTotal       float64            `json:"sub_total"`
	Discount       float64            `json:"discount"`
	DeliveryCharge float64            `json:"delivery_charge"`
	PlatformFee    float64            `json:"platform_fee"`
	GrandTotal     float64            `json:"grand_total"`
}

func summarize(cart *models.Cart) cartSummary {
	return cartSummary{
		ID:             cart.ID,
		DeviceID:       cart.DeviceID,
		Products:       cart.Products,
		SubTotal:       cart.SubTotal,
		Discount:       cart.Discount,
		DeliveryCharge: cart.DeliveryCharge,
		PlatformFee:    cart.PlatformFee,
		GrandTotal:     cart.GrandTotal,
	}
}

/* =========================
   UPSERT LINES
========================= */

// AddOrUpdateCart handles POST /cart. A request without a deviceId gets a
// fresh one so anonymous clients can adopt an identity from the response.
func AddOrUpdateCart(db *mongo.Database, policy pricing.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart"
		defer handlePanic(c, route)

		var req upsertCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		deviceID := strings.TrimSpace(req.DeviceID)
		if deviceID == "" {
			deviceID = uuid.NewString()
		}

		changes := make(map[primitive.ObjectID]int, len(req.Cart))
		changeIDs := make([]primitive.ObjectID, 0, len(req.Cart))
		for _, line := range req.Cart {
			if line.ProductID == "" || line.Quantity == nil || *line.Quantity < 0 {
				respondError(c, route, errInvalidQuantity)
				return
			}
			productID, err := primitive.ObjectIDFromHex(line.ProductID)
			if err != nil {
				respondError(c, route, errInvalidQuantity)
				return
			}
			changes[productID] = *line.Quantity
			changeIDs = append(changeIDs, productID)
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		// Products being added or updated must still exist in the catalog.
		resolved, err := resolveProducts(ctx, db, changeIDs)
		if err != nil {
			respondError(c, route, err)
			return
		}
		for _, id := range changeIDs {
			if _, ok := resolved[id]; !ok && changes[id] > 0 {
				respondError(c, route, productNotFoundError{ProductID: id})
				return
			}
		}

		cart, err := loadOrCreateCart(ctx, db, deviceID)
		if err != nil {
			respondError(c, route, err)
			return
		}

		for _, id := range changeIDs {
			applyQuantityChange(cart, id, changes[id])
		}

		if err := recalcCart(ctx, db, cart, policy, middleware.PhoneFromContext(c)); err != nil {
			respondError(c, route, err)
			return
		}
		if err := persistCart(ctx, db, cart); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Cart updated",
			"cart":    summarize(cart),
		})
	}
}

/* =========================
   GET CART
========================= */

func GetCart(db *mongo.Database, policy pricing.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		deviceID := strings.TrimSpace(c.Query("deviceId"))
		if deviceID == "" {
			respondError(c, route, errMissingDeviceID)
			return
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		var cart models.Cart
		err := db.Collection("carts").FindOne(ctx, bson.M{"deviceId": deviceID}).Decode(&cart)
		if err == mongo.ErrNoDocuments || (err == nil && len(cart.Products) == 0) {
			c.JSON(http.StatusOK, gin.H{"message": "Cart is empty", "cart": nil})
			return
		}
		if err != nil {
			respondError(c, route, err)
			return
		}

		if err := recalcCart(ctx, db, &cart, policy, middleware.PhoneFromContext(c)); err != nil {
			respondError(c, route, err)
			return
		}
		// Stored totals are a display cache; refresh them on the way out.
		if err := persistCart(ctx, db, &cart); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, summarize(&cart))
	}
}

/* =========================
   DELETE LINE
========================= */

func DeleteCartItem(db *mongo.Database, policy pricing.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/:deviceId/product/:productId"
		defer handlePanic(c, route)

		deviceID := strings.TrimSpace(c.Param("deviceId"))
		productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
		if err != nil {
			respondError(c, route, errInvalidObjectID)
			return
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		var cart models.Cart
		if err := db.Collection("carts").FindOne(ctx, bson.M{"deviceId": deviceID}).Decode(&cart); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, route, errCartNotFound)
				return
			}
			respondError(c, route, err)
			return
		}

		idx := cart.LineIndex(productID)
		if idx < 0 {
			respondError(c, route, errLineNotFound)
			return
		}
		cart.Products = append(cart.Products[:idx], cart.Products[idx+1:]...)

		if err := recalcCart(ctx, db, &cart, policy, middleware.PhoneFromContext(c)); err != nil {
			respondError(c, route, err)
			return
		}
		if err := persistCart(ctx, db, &cart); err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Product removed from cart",
			"cart":    summarize(&cart),
		})
	}
}

/* =========================
   CART RECOMPUTE
========================= */

func loadOrCreateCart(ctx context.Context, db *mongo.Database, deviceID string) (*models.Cart, error) {
	var cart models.Cart
	err := db.Collection("carts").FindOne(ctx, bson.M{"deviceId": deviceID}).Decode(&cart)
	if err == nil {
		return &cart, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}
	return &models.Cart{
		DeviceID:  deviceID,
		Products:  []models.CartLine{},
		CreatedAt: time.Now(),
	}, nil
}

// recalcCart re-resolves every line against the live catalog, reprices it,
// and recomputes the aggregate totals. Lines whose product has been deleted
// from the catalog are dropped with a log line rather than failing the
// read. A first-order identity has its delivery charge waived.
func recalcCart(ctx context.Context, db *mongo.Database, cart *models.Cart, policy pricing.Policy, phone string) error {
	ids := make([]primitive.ObjectID, 0, len(cart.Products))
	for _, line := range cart.Products {
		ids = append(ids, line.ProductID)
	}

	resolved, err := resolveProducts(ctx, db, ids)
	if err != nil {
		return err
	}
	settings, err := loadSettings(ctx, db)
	if err != nil {
		return err
	}

	kept := cart.Products[:0]
	for i := range cart.Products {
		line := cart.Products[i]
		rp, ok := resolved[line.ProductID]
		if !ok {
			log.Printf("[CART] dropping line for deleted product %s", line.ProductID.Hex())
			continue
		}
		priceCartLine(policy, pricingInput(rp, settings), rp.Product, &line)
		kept = append(kept, line)
	}
	cart.Products = kept

	deliveryCharge := settings.DeliveryCharge
	prior, err := hasPriorOrder(ctx, db, cart.DeviceID, phone)
	if err != nil {
		return err
	}
	if !prior {
		deliveryCharge = 0
	}

	cart.DeliveryCharge = deliveryCharge
	cart.PlatformFee = settings.PlatformFee
	cart.SubTotal, cart.Discount, cart.GrandTotal = cartTotals(cart.Products, deliveryCharge, settings.PlatformFee)
	cart.UpdatedAt = time.Now()
	return nil
}

// hasPriorOrder reports whether this identity (device, or the authenticated
// phone when present) has ever placed an order. First-timers get the
// delivery charge waived as a promotion.
func hasPriorOrder(ctx context.Context, db *mongo.Database, deviceID, phone string) (bool, error) {
	identity := []bson.M{{"deviceId": deviceID}}
	if phone != "" {
		identity = append(identity, bson.M{"phone": phone})
	}

	count, err := db.Collection("orders").CountDocuments(ctx, bson.M{"$or": identity})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func persistCart(ctx context.Context, db *mongo.Database, cart *models.Cart) error {
	filter := bson.M{"deviceId": cart.DeviceID}
	update := bson.M{
		"$set": bson.M{
			"cart_products":   cart.Products,
			"sub_total":       cart.SubTotal,
			"discount":        cart.Discount,
			"delivery_charge": cart.DeliveryCharge,
			"platform_fee":    cart.PlatformFee,
			"grand_total":     cart.GrandTotal,
			"updatedAt":       cart.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"deviceId":  cart.DeviceID,
			"createdAt": cart.CreatedAt,
		},
	}

	res, err := db.Collection("carts").FindOneAndUpdate(
		ctx, filter, update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Raw()
	if err != nil {
		return err
	}
	if id, lookupErr := res.LookupErr("_id"); lookupErr == nil {
		if oid, ok := id.ObjectIDOK(); ok {
			cart.ID = oid
		}
	}
	return nil
}
