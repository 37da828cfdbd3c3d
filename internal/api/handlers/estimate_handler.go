// server/internal/api/handlers/estimate_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"warehouse-pickup-api-server/internal/estimate"
	"warehouse-pickup-api-server/internal/queue"

	"github.com/gin-gonic/gin"
)

type EstimateHandler struct {
	Engine *queue.Engine
}

// GetWaitEstimate ước lượng thời gian chờ cho một vị trí trong hàng dựa trên
// 10 lần pickup hoàn tất gần nhất. Chưa đủ dữ liệu thì trả 204.
func (h *EstimateHandler) GetWaitEstimate(c *gin.Context) {
	position, err := strconv.Atoi(c.Query("position"))
	if err != nil || position < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "position must be a positive integer"})
		return
	}

	completions, err := h.Engine.Store().RecentCompletions(c.Request.Context(), 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query completed pickups"})
		return
	}

	r, ok := estimate.ForPosition(completions, position)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, r)
}
