package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureCartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	deviceIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "deviceId", Value: 1}},
		Options: options.Index().
			SetName("deviceId_unique").
			SetUnique(true),
	}

	_, err := db.Collection("carts").Indexes().CreateOne(ctx, deviceIndex)
	if err != nil {
		log.Println("EnsureCartIndexes: deviceId index error:", err)
		return err
	}
	return nil
}

// EnsureOrderIndexes makes order_id collisions surface as duplicate-key
// errors instead of silently storing two orders with the same number.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	orderIDIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "order_id", Value: 1}},
		Options: options.Index().
			SetName("order_id_unique").
			SetUnique(true),
	}
	if _, err := indexes.CreateOne(ctx, orderIDIndex); err != nil {
		log.Println("EnsureOrderIndexes: order_id index error:", err)
		return err
	}

	phoneIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().SetName("phone_index"),
	}
	if _, err := indexes.CreateOne(ctx, phoneIndex); err != nil {
		log.Println("EnsureOrderIndexes: phone index error:", err)
		return err
	}
	return nil
}

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	phoneIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "phone", Value: 1}},
		Options: options.Index().
			SetName("phone_unique").
			SetUnique(true),
	}

	_, err := db.Collection("users").Indexes().CreateOne(ctx, phoneIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: phone index error:", err)
		return err
	}
	return nil
}
