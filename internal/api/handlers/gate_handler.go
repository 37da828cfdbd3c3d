// server/internal/api/handlers/gate_handler.go
package handlers

import (
	"net/http"

	"warehouse-pickup-api-server/internal/models"
	"warehouse-pickup-api-server/internal/queue"

	"github.com/gin-gonic/gin"
)

type GateHandler struct {
	Engine *queue.Engine
}

type GateBody struct {
	GateNumber int `json:"gateNumber" binding:"required,min=1"`
}

type GateActiveBody struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ListGates trả về các gate theo thứ tự số, kèm số request đang xếp hàng.
func (h *GateHandler) ListGates(c *gin.Context) {
	ctx := c.Request.Context()

	gates, err := h.Engine.Store().Gates(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query gates"})
		return
	}
	requests, err := h.Engine.Store().Requests(ctx, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query requests"})
		return
	}

	counts := make(map[string]int)
	for _, r := range requests {
		if r.Status == models.StatusInQueue {
			counts[r.AssignedGateID]++
		}
	}
	for i := range gates {
		gates[i].QueueCount = counts[gates[i].GateID]
	}

	c.JSON(http.StatusOK, gates)
}

// CreateGate thêm một gate mới (admin).
func (h *GateHandler) CreateGate(c *gin.Context) {
	var req GateBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	gate, err := h.Engine.CreateGate(c.Request.Context(), req.GateNumber)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gate)
}

// RenameGate đổi số của một gate (admin).
func (h *GateHandler) RenameGate(c *gin.Context) {
	var req GateBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Engine.RenameGate(c.Request.Context(), c.Param("id"), req.GateNumber); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// SetGateActive bật/tắt một gate. Gate còn hàng đợi thì không tắt được.
func (h *GateHandler) SetGateActive(c *gin.Context) {
	var req GateActiveBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Engine.SetGateActive(c.Request.Context(), c.Param("id"), *req.IsActive); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// DeleteGate xóa gate khi hàng đợi trống và không có request đang xử lý.
func (h *GateHandler) DeleteGate(c *gin.Context) {
	if err := h.Engine.DeleteGate(c.Request.Context(), c.Param("id")); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
