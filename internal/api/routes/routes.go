// server/internal/api/routes/routes.go
package routes

import (
	"time"

	"warehouse-pickup-api-server/config"
	"warehouse-pickup-api-server/internal/api/handlers"
	"warehouse-pickup-api-server/internal/api/middleware"
	"warehouse-pickup-api-server/internal/hours"
	"warehouse-pickup-api-server/internal/netsuite"
	"warehouse-pickup-api-server/internal/queue"
	"warehouse-pickup-api-server/internal/s3"
	"warehouse-pickup-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter nhận vào các thành phần phụ thuộc và thiết lập các route
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	engine *queue.Engine,
	validator *netsuite.Validator,
	hoursService *hours.Service,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
	tokenTTL time.Duration,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Khởi tạo các handlers
	requestHandler := &handlers.RequestHandler{Engine: engine, Validator: validator, S3Uploader: s3Uploader}
	queueHandler := &handlers.QueueHandler{Engine: engine}
	gateHandler := &handlers.GateHandler{Engine: engine}
	hoursHandler := &handlers.HoursHandler{DB: db, Service: hoursService}
	estimateHandler := &handlers.EstimateHandler{Engine: engine}
	userHandler := &handlers.UserHandler{DB: db, TokenTTL: tokenTTL}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	apiV1 := router.Group("/api/v1")
	{
		// Route cho WebSocket (dashboard staff, token trong query string)
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		// === CÁC ROUTE KHÔNG YÊU CẦU XÁC THỰC ===

		// Nhóm API authentication
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}

		// Nhóm API công khai cho khách hàng
		public := apiV1.Group("/")
		{
			public.POST("/requests", requestHandler.Submit)
			public.GET("/requests/:id", requestHandler.GetRequest)
			public.GET("/business-hours", hoursHandler.GetStatus)
			public.GET("/wait-estimate", estimateHandler.GetWaitEstimate)
		}

		// === CÁC ROUTE YÊU CẦU XÁC THỰC (PROTECTED) ===

		// Nhóm API nghiệp vụ cho staff và admin
		staff := apiV1.Group("/")
		staff.Use(middleware.Authenticate())
		staff.Use(middleware.Authorize("admin", "staff"))
		{
			requests := staff.Group("/requests")
			{
				requests.GET("/", requestHandler.ListRequests)
				requests.POST("/:id/approve", requestHandler.Approve)
				requests.POST("/:id/proof-photo", requestHandler.UploadProofPhoto)
			}

			// Các thao tác chuyển trạng thái hàng đợi
			q := staff.Group("/queue")
			{
				q.POST("/assign", queueHandler.AssignToQueue)
				q.POST("/priority", queueHandler.SetPriority)
				q.POST("/priority/clear", queueHandler.ClearPriority)
				q.POST("/reorder", queueHandler.ReorderQueue)
				q.POST("/move", queueHandler.MoveToGate)
				q.POST("/start", queueHandler.StartProcessing)
				q.POST("/revert", queueHandler.RevertToQueue)
				q.POST("/complete", queueHandler.CompleteRequest)
				q.POST("/cancel", queueHandler.CancelRequest)
			}

			staff.GET("/gates", gateHandler.ListGates)
		}

		// Nhóm API quản trị, yêu cầu vai trò "admin"
		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate())
		admin.Use(middleware.Authorize("admin"))
		{
			// User management
			admin.POST("/users", userHandler.CreateUser)
			admin.GET("/users", userHandler.ListUsers)

			// Gate management (CRUD)
			gates := admin.Group("/gates")
			{
				gates.POST("/", gateHandler.CreateGate)
				gates.PUT("/:id", gateHandler.RenameGate)
				gates.PATCH("/:id/active", gateHandler.SetGateActive)
				gates.DELETE("/:id", gateHandler.DeleteGate)
			}

			// Business hours
			admin.GET("/business-hours", hoursHandler.GetSchedule)
			admin.PUT("/business-hours", hoursHandler.UpdateSchedule)
		}
	}

	return router
}
