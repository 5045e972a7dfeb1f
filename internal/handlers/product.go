package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bazarapi/internal/audit"
	"bazarapi/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type productPayload struct {
	Name        models.LocalizedText  `json:"name"`
	Description *models.LocalizedText `json:"description"`
	Price       *float64              `json:"price"`
	MRPPrice    *float64              `json:"mrp_price"`
	Discount    *float64              `json:"discount"`
	Tags        *[]string             `json:"tags"`
	Categories  *[]string             `json:"categories"`
	Weight      *float64              `json:"weight"`
	Unit        *string               `json:"unit"`
	Stock       *int                  `json:"stock"`
	IsPublished *bool                 `json:"is_published"`
}

func parseObjectIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, value := range raw {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(value))
		if err != nil {
			return nil, errInvalidObjectID
		}
		ids = append(ids, id)
	}
	return ids, nil
}

/* =========================
   CREATE
========================= */

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /we/products"
		defer handlePanic(c, route)

		var req productPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Name.En) == "" {
			respondWithError(c, http.StatusBadRequest, route, "name required")
			return
		}
		if req.Price == nil || *req.Price <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "invalid price")
			return
		}
		if req.Discount != nil && (*req.Discount < 0 || *req.Discount > 100) {
			respondWithError(c, http.StatusBadRequest, route, "discount must be between 0 and 100")
			return
		}

		now := time.Now()
		product := models.Product{
			Name:        req.Name,
			Price:       *req.Price,
			Unit:        models.UnitKg,
			IsPublished: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.MRPPrice != nil {
			product.MRPPrice = *req.MRPPrice
		}
		if req.Discount != nil {
			product.Discount = *req.Discount
		}
		if req.Weight != nil {
			product.Weight = *req.Weight
		}
		if req.Stock != nil {
			product.Stock = *req.Stock
		}
		if req.IsPublished != nil {
			product.IsPublished = *req.IsPublished
		}
		if req.Unit != nil {
			if !models.ValidUnit(*req.Unit) {
				respondWithError(c, http.StatusBadRequest, route, "invalid unit")
				return
			}
			product.Unit = models.Unit(*req.Unit)
		}
		if req.Tags != nil {
			ids, err := parseObjectIDs(*req.Tags)
			if err != nil {
				respondError(c, route, err)
				return
			}
			product.Tags = ids
		}
		if req.Categories != nil {
			ids, err := parseObjectIDs(*req.Categories)
			if err != nil {
				respondError(c, route, err)
				return
			}
			product.Categories = ids
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			respondError(c, route, err)
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}

		audit.Record(ctx, db, product.ID, audit.ActionCreate, audit.DiffProducts(models.Product{}, product))

		c.JSON(http.StatusCreated, product)
	}
}

/* =========================
   UPDATE
========================= */

// UpdateProduct patches the provided fields and writes a field-level audit
// entry for the diff. Absent fields are left alone.
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /we/products/:id"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, route, errInvalidObjectID)
			return
		}

		var req productPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		var before models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&before); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, route, productNotFoundError{ProductID: productID})
				return
			}
			respondError(c, route, err)
			return
		}

		after := before
		if strings.TrimSpace(req.Name.En) != "" || strings.TrimSpace(req.Name.Bn) != "" {
			after.Name = req.Name
		}
		if req.Description != nil {
			after.Description = *req.Description
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				respondWithError(c, http.StatusBadRequest, route, "invalid price")
				return
			}
			after.Price = *req.Price
		}
		if req.MRPPrice != nil {
			after.MRPPrice = *req.MRPPrice
		}
		if req.Discount != nil {
			if *req.Discount < 0 || *req.Discount > 100 {
				respondWithError(c, http.StatusBadRequest, route, "discount must be between 0 and 100")
				return
			}
			after.Discount = *req.Discount
		}
		if req.Weight != nil {
			after.Weight = *req.Weight
		}
		if req.Stock != nil {
			after.Stock = *req.Stock
		}
		if req.IsPublished != nil {
			after.IsPublished = *req.IsPublished
		}
		if req.Unit != nil {
			if !models.ValidUnit(*req.Unit) {
				respondWithError(c, http.StatusBadRequest, route, "invalid unit")
				return
			}
			after.Unit = models.Unit(*req.Unit)
		}
		if req.Tags != nil {
			ids, err := parseObjectIDs(*req.Tags)
			if err != nil {
				respondError(c, route, err)
				return
			}
			after.Tags = ids
		}
		if req.Categories != nil {
			ids, err := parseObjectIDs(*req.Categories)
			if err != nil {
				respondError(c, route, err)
				return
			}
			after.Categories = ids
		}
		after.UpdatedAt = time.Now()

		update := bson.M{"$set": bson.M{
			"name":         after.Name,
			"description":  after.Description,
			"price":        after.Price,
			"mrp_price":    after.MRPPrice,
			"discount":     after.Discount,
			"tags":         after.Tags,
			"categories":   after.Categories,
			"weight":       after.Weight,
			"unit":         after.Unit,
			"stock":        after.Stock,
			"is_published": after.IsPublished,
			"updatedAt":    after.UpdatedAt,
		}}
		if _, err := db.Collection("products").UpdateOne(ctx, bson.M{"_id": productID}, update); err != nil {
			respondError(c, route, err)
			return
		}

		audit.Record(ctx, db, productID, audit.ActionUpdate, audit.DiffProducts(before, after))

		c.JSON(http.StatusOK, after)
	}
}

/* =========================
   PUBLIC LISTING
========================= */

// GetProducts lists published products with optional category and search
// filters.
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		filter := bson.M{"is_published": true}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			if id, err := primitive.ObjectIDFromHex(category); err == nil {
				filter["categories"] = id
			}
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name.en": bson.M{"$regex": search, "$options": "i"}},
				{"name.bn": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		ctx, cancel := storeCtx(c)
		defer cancel()

		var products []models.Product
		envelope, err := paginate(ctx, c, db.Collection("products"), filter, bson.D{{Key: "createdAt", Value: -1}}, &products)
		if err != nil {
			respondError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, envelope)
	}
}
