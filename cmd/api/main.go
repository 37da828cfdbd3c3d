// server/cmd/api/main.go
package main

import (
	"context"
	"log"
	"time"

	"warehouse-pickup-api-server/config"
	"warehouse-pickup-api-server/internal/api/routes"
	"warehouse-pickup-api-server/internal/auth"
	"warehouse-pickup-api-server/internal/database"
	"warehouse-pickup-api-server/internal/hours"
	"warehouse-pickup-api-server/internal/netsuite"
	"warehouse-pickup-api-server/internal/queue"
	"warehouse-pickup-api-server/internal/s3"
	"warehouse-pickup-api-server/internal/socket"

	"github.com/joho/godotenv"
)

func main() {
	// .env chỉ dùng khi dev; production cấu hình qua biến môi trường thật.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// 1. Load configuration
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	auth.SetSecret(cfg.JWT.Secret)

	tokenTTL := 24 * time.Hour
	if cfg.JWT.Expiration != "" {
		d, err := time.ParseDuration(cfg.JWT.Expiration)
		if err != nil {
			log.Fatalf("Invalid jwt.expiration %q: %v", cfg.JWT.Expiration, err)
		}
		tokenTTL = d
	}

	// 2. Kết nối MongoDB, đảm bảo index và dữ liệu khởi tạo
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	if err := database.SeedAdmin(ctx, db); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	if err := database.SeedBusinessHours(ctx, db); err != nil {
		log.Fatalf("Failed to seed business hours: %v", err)
	}

	// 3. Khởi tạo WebSocket hub và queue engine
	wsHub := socket.NewHub()
	store := database.NewMongoStore(db)
	engine := queue.NewEngine(store, wsHub, queue.PriorityOrder(cfg.Queue.PriorityOrder))

	// 4. Các service phụ trợ
	hoursService, err := hours.NewService(cfg.Warehouse.Timezone)
	if err != nil {
		log.Fatalf("Failed to load warehouse timezone: %v", err)
	}
	validator := netsuite.NewValidator(cfg.NetSuite.ValidationURL)
	if cfg.NetSuite.ValidationURL == "" {
		log.Println("NETSUITE_VALIDATION_URL not set, order validation runs in dev mode")
	}

	var s3Uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		s3Uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			log.Fatalf("Failed to initialize S3 uploader: %v", err)
		}
	} else {
		log.Println("S3 bucket not configured, proof photo upload disabled")
	}

	// 5. Truyền tất cả các thành phần cần thiết vào router
	router := routes.SetupRouter(cfg, db, engine, validator, hoursService, s3Uploader, wsHub, tokenTTL)

	// 6. Start server
	log.Printf("Starting API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
