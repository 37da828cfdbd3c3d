// server/internal/database/mongo.go
package database

import (
	"context"
	"time"

	"warehouse-pickup-api-server/config"
	"warehouse-pickup-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect mở kết nối MongoDB và ping để chắc chắn server sẵn sàng.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client.Database(cfg.DBName), nil
}

// EnsureIndexes tạo các index bắt buộc cho tính đúng đắn:
// khóa công khai duy nhất, số gate duy nhất, và guard chống trùng
// sales order đang hoạt động (partial unique index).
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	requestIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "requestID", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "salesOrderNumber", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": models.ActiveStatuses},
				}),
		},
		{
			Keys: bson.D{{Key: "assignedGateID", Value: 1}, {Key: "status", Value: 1}},
		},
	}
	if _, err := db.Collection("pickup_requests").Indexes().CreateMany(ctx, requestIndexes); err != nil {
		return err
	}

	gateIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "gateID", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "gateNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("gates").Indexes().CreateMany(ctx, gateIndexes); err != nil {
		return err
	}

	if _, err := db.Collection("business_hours").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "dayOfWeek", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
