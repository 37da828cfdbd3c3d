// server/internal/database/seeder.go
package database

import (
	"context"
	"log"
	"time"

	"warehouse-pickup-api-server/internal/auth"
	"warehouse-pickup-api-server/internal/hours"
	"warehouse-pickup-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedAdmin tạo tài khoản admin mặc định nếu chưa có.
func SeedAdmin(ctx context.Context, db *mongo.Database) error {
	userCollection := db.Collection("users")
	adminEmail := "admin@example.com"

	// Kiểm tra xem admin đã tồn tại chưa
	count, err := userCollection.CountDocuments(ctx, bson.M{"email": adminEmail})
	if err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin already exists. Seeding skipped.")
		return nil
	}

	log.Println("Admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword("adminpassword") // Đặt một password mặc định
	if err != nil {
		return err
	}

	admin := models.StaffUser{
		Email:     adminEmail,
		Name:      "Warehouse Admin",
		Password:  hashedPassword,
		Role:      "admin",
		Status:    "active",
		CreatedAt: time.Now(),
	}

	_, err = userCollection.InsertOne(ctx, admin)
	if err != nil {
		return err
	}

	log.Println("Admin seeded successfully.")
	return nil
}

// SeedBusinessHours ghi lịch mặc định (T2-T6 08:00-17:00) khi collection rỗng.
func SeedBusinessHours(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("business_hours")

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding default business hours...")
	rows := hours.DefaultWeek()
	docs := make([]interface{}, len(rows))
	for i, row := range rows {
		docs[i] = row
	}
	_, err = collection.InsertMany(ctx, docs)
	return err
}
