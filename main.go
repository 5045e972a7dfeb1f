package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bazarapi/internal/config"
	"bazarapi/internal/database"
	"bazarapi/internal/handlers"
	"bazarapi/internal/middleware"
	"bazarapi/internal/notify"
	"bazarapi/internal/pricing"
)

func main() {
	config.Load()

	policy, err := pricing.ForName(config.AppEnv.PricingPolicy)
	if err != nil {
		log.Fatal(err)
	}
	log.Println("pricing policy:", policy.Name())

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("cart index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}

	var notifier notify.Notifier = notify.LogNotifier{}

	r := gin.Default()
	r.Use(cors.Default())

	// public catalog
	r.GET("/products", handlers.GetProducts(db))
	r.GET("/categories", handlers.GetCategories(db))
	r.GET("/tags", handlers.GetTags(db))

	// cart (anonymous device identity; an authed token refines the
	// delivery-waiver check but is not required)
	r.POST("/cart", handlers.AddOrUpdateCart(db, policy))
	r.GET("/cart", handlers.GetCart(db, policy))
	r.DELETE("/cart/:deviceId/product/:productId", handlers.DeleteCartItem(db, policy))

	// checkout
	r.POST("/order", handlers.PlaceOrder(db, policy, notifier, config.AppEnv.NotifyTimeout))
	r.GET("/orders/:orderId", handlers.GetOrderDetails(db))

	user := r.Group("/")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("/orders", handlers.GetOrders(db))
	}

	admin := r.Group("/we")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.GET("/orders/:orderId", handlers.GetAdminOrderDetails(db))
		admin.PATCH("/orders/:orderId", handlers.UpdateOrderStatus(db))
		admin.PUT("/orders/:orderId/edit", handlers.EditOrderItem(db))
		admin.DELETE("/orders/:orderId", handlers.DeleteOrder(db))

		admin.POST("/products", handlers.CreateProduct(db))
		admin.PUT("/products/:id", handlers.UpdateProduct(db))

		admin.POST("/categories", handlers.CreateCategory(db))
		admin.POST("/tags", handlers.CreateTag(db))

		admin.GET("/settings", handlers.GetSettings(db))
		admin.PUT("/settings", handlers.UpdateSettings(db))

		admin.GET("/dashboard", handlers.GetDashboardStats(db))
		admin.GET("/customers", handlers.GetCustomerOrderSummary(db))
	}

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal(err)
	}
}
