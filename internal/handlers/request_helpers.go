package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const storeTimeout = 5 * time.Second

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func ensureDBConnection(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// storeCtx is the per-call timeout every Mongo operation runs under.
func storeCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), storeTimeout)
}

/* =========================
   TYPED ERRORS
========================= */

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product " + e.ProductID.Hex() + " not found"
}

var (
	errCartNotFound     = errors.New("cart not found")
	errOrderNotFound    = errors.New("order not found")
	errLineNotFound     = errors.New("product not found in cart")
	errUnknownStatus    = errors.New("invalid order status")
	errOrderIDConflict  = errors.New("order id conflict")
	errInvalidObjectID  = errors.New("invalid id")
	errInvalidQuantity  = errors.New("invalid productId or quantity")
	errMissingDeviceID  = errors.New("deviceId is required")
	errSettingsNotFound = errors.New("settings not found")
)

// respondError maps typed failures to their status codes; anything
// unclassified is a 500 with the message passed through.
func respondError(c *gin.Context, route string, err error) {
	var notFound productNotFoundError
	switch {
	case errors.As(err, &notFound):
		respondWithError(c, http.StatusNotFound, route, notFound.Error())
	case errors.Is(err, errCartNotFound),
		errors.Is(err, errOrderNotFound),
		errors.Is(err, errLineNotFound),
		errors.Is(err, errSettingsNotFound):
		respondWithError(c, http.StatusNotFound, route, err.Error())
	case errors.Is(err, errUnknownStatus),
		errors.Is(err, errInvalidObjectID),
		errors.Is(err, errInvalidQuantity),
		errors.Is(err, errMissingDeviceID):
		respondWithError(c, http.StatusBadRequest, route, err.Error())
	case errors.Is(err, errOrderIDConflict), mongo.IsDuplicateKeyError(err):
		respondWithError(c, http.StatusConflict, route, errOrderIDConflict.Error())
	default:
		respondWithError(c, http.StatusInternalServerError, route, err.Error())
	}
}
