// server/internal/api/handlers/queue_handler.go
package handlers

import (
	"net/http"

	"warehouse-pickup-api-server/internal/queue"

	"github.com/gin-gonic/gin"
)

// QueueHandler exposes every queue transition as a named remote call. All
// validation and atomicity lives in the engine; the handler only binds ids
// and maps outcomes.
type QueueHandler struct {
	Engine *queue.Engine
}

// --- Structs cho Request Body ---

type RequestRef struct {
	RequestID string `json:"requestId" binding:"required"`
}

type AssignRequest struct {
	RequestID string `json:"requestId" binding:"required"`
	GateID    string `json:"gateId" binding:"required"`
}

type ReorderRequest struct {
	GateID            string   `json:"gateId" binding:"required"`
	OrderedRequestIDs []string `json:"orderedRequestIds" binding:"required"`
}

// --- Handlers ---

// AssignToQueue đưa một request vào hàng đợi của gate và trả về vị trí.
func (h *QueueHandler) AssignToQueue(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	position, err := h.Engine.AssignToQueue(c.Request.Context(), req.RequestID, req.GateID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "position": position})
}

// SetPriority gắn cờ ưu tiên và chuyển request lên khối ưu tiên.
func (h *QueueHandler) SetPriority(c *gin.Context) {
	var req RequestRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.SetPriority(c.Request.Context(), req.RequestID); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ClearPriority bỏ cờ ưu tiên, giữ nguyên vị trí hiện tại.
func (h *QueueHandler) ClearPriority(c *gin.Context) {
	var req RequestRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.ClearPriority(c.Request.Context(), req.RequestID); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ReorderQueue áp thứ tự kéo-thả từ dashboard lên hàng đợi của gate.
func (h *QueueHandler) ReorderQueue(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.ReorderQueue(c.Request.Context(), req.GateID, req.OrderedRequestIDs); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// MoveToGate chuyển một request đang xếp hàng sang gate khác.
func (h *QueueHandler) MoveToGate(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	position, err := h.Engine.MoveToGate(c.Request.Context(), req.RequestID, req.GateID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "position": position})
}

// StartProcessing bắt đầu phục vụ request ở đầu hàng đợi.
func (h *QueueHandler) StartProcessing(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.StartProcessing(c.Request.Context(), req.RequestID, req.GateID); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// RevertToQueue trả một request đang xử lý về đúng vị trí cũ trong hàng đợi.
func (h *QueueHandler) RevertToQueue(c *gin.Context) {
	var req RequestRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	position, err := h.Engine.RevertToQueue(c.Request.Context(), req.RequestID)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "position": position})
}

// CompleteRequest đánh dấu pickup hoàn tất.
func (h *QueueHandler) CompleteRequest(c *gin.Context) {
	var req RequestRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.CompleteRequest(c.Request.Context(), req.RequestID); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// CancelRequest hủy một request chưa ở trạng thái kết thúc.
func (h *QueueHandler) CancelRequest(c *gin.Context) {
	var req RequestRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Engine.CancelRequest(c.Request.Context(), req.RequestID); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
