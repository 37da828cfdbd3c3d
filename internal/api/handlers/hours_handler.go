// server/internal/api/handlers/hours_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"warehouse-pickup-api-server/internal/hours"
	"warehouse-pickup-api-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HoursHandler struct {
	DB      *mongo.Database
	Service *hours.Service
}

// GetStatus trả về trạng thái mở cửa hiện tại cho form gửi yêu cầu. Lỗi đọc
// lịch thì coi như đang đóng cửa cho an toàn.
func (h *HoursHandler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	rows, err := h.loadWeek(ctx)
	if err != nil {
		c.JSON(http.StatusOK, hours.Status{
			IsOpen:  false,
			Message: "Unable to check business hours. Please try again later.",
		})
		return
	}
	c.JSON(http.StatusOK, h.Service.Evaluate(rows, time.Now()))
}

// GetSchedule trả về lịch cả tuần cho trang cài đặt (admin).
func (h *HoursHandler) GetSchedule(c *gin.Context) {
	rows, err := h.loadWeek(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query business hours"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

type ScheduleBody struct {
	Days []models.BusinessHours `json:"days" binding:"required,min=1,max=7,dive"`
}

// UpdateSchedule ghi đè lịch theo dayOfWeek (admin).
func (h *HoursHandler) UpdateSchedule(c *gin.Context) {
	var req ScheduleBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, d := range req.Days {
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dayOfWeek must be between 0 and 6"})
			return
		}
	}

	ctx := c.Request.Context()
	collection := h.DB.Collection("business_hours")
	for _, d := range req.Days {
		_, err := collection.UpdateOne(ctx,
			bson.M{"dayOfWeek": d.DayOfWeek},
			bson.M{"$set": bson.M{
				"isClosed":  d.IsClosed,
				"openTime":  d.OpenTime,
				"closeTime": d.CloseTime,
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update business hours"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *HoursHandler) loadWeek(ctx context.Context) ([]models.BusinessHours, error) {
	cursor, err := h.DB.Collection("business_hours").Find(ctx,
		bson.M{}, options.Find().SetSort(bson.M{"dayOfWeek": 1}))
	if err != nil {
		return nil, err
	}
	var rows []models.BusinessHours
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
