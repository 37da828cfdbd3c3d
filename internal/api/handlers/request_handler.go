// server/internal/api/handlers/request_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"warehouse-pickup-api-server/internal/models"
	"warehouse-pickup-api-server/internal/netsuite"
	"warehouse-pickup-api-server/internal/queue"
	"warehouse-pickup-api-server/internal/s3"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	orderNumberPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	phonePattern       = regexp.MustCompile(`^[0-9+\-() ]+$`)
)

type RequestHandler struct {
	Engine     *queue.Engine
	Validator  *netsuite.Validator
	S3Uploader *s3.Uploader
}

type SubmitRequestBody struct {
	SalesOrderNumber string `json:"salesOrderNumber" binding:"required,max=50"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
}

// Submit nhận yêu cầu pickup từ khách: kiểm tra dữ liệu vào, chặn đơn trùng,
// xác thực đơn với NetSuite rồi tạo request ở trạng thái pending.
func (h *RequestHandler) Submit(c *gin.Context) {
	var req SubmitRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !orderNumberPattern.MatchString(req.SalesOrderNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sales order number format"})
		return
	}
	if req.Phone != "" && !phonePattern.MatchString(req.Phone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid phone number format"})
		return
	}

	ctx := c.Request.Context()

	// Kiểm tra đơn trùng trước để trả message thân thiện; engine sẽ kiểm tra
	// lại lần nữa khi ghi.
	existing, err := h.Engine.Store().ActiveRequestByOrder(ctx, req.SalesOrderNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing requests"})
		return
	}
	if existing != nil {
		statusLabel := string(existing.Status)
		if existing.Status == models.StatusInQueue {
			statusLabel = "in the queue"
		}
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("A pickup request for order %s is already %s.", existing.SalesOrderNumber, statusLabel),
			"code":  "DUPLICATE_ORDER",
		})
		return
	}

	order, err := h.Validator.ValidateOrder(ctx, req.SalesOrderNumber, req.Email)
	if err != nil {
		h.respondValidationError(c, err)
		return
	}

	newRequest := &models.PickupRequest{
		RequestID:        uuid.New().String(),
		SalesOrderNumber: req.SalesOrderNumber,
		CustomerEmail:    req.Email,
		CustomerPhone:    req.Phone,
		CompanyName:      order.CompanyName,
		ItemCount:        order.ItemCount,
		PONumber:         order.PONumber,
		EmailFlagged:     !order.EmailMatch,
		CreatedAt:        time.Now(),
	}
	if err := h.Engine.SubmitRequest(ctx, newRequest); err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"requestId": newRequest.RequestID,
		"message":   "Your pickup request has been submitted. A staff member will review it shortly.",
	})
}

func (h *RequestHandler) respondValidationError(c *gin.Context, err error) {
	var rejection *netsuite.RejectionError
	switch {
	case errors.Is(err, netsuite.ErrOrderNotFound):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Sales order not found. Please check the order number and try again.",
		})
	case errors.As(err, &rejection):
		c.JSON(http.StatusBadRequest, gin.H{"error": rejection.Message})
	case errors.Is(err, netsuite.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error":     "Validation is taking too long. Please try again.",
			"retryable": true,
		})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "Unable to validate order. Please try again later.",
			"retryable": true,
		})
	}
}

// GetRequest trả về trạng thái một request cho trang theo dõi của khách.
func (h *RequestHandler) GetRequest(c *gin.Context) {
	r, err := h.Engine.Store().RequestByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ListRequests trả về danh sách request cho dashboard (mới nhất trước).
// Mặc định ẩn các request đã kết thúc; ?includeTerminal=true để xem tất cả.
func (h *RequestHandler) ListRequests(c *gin.Context) {
	includeTerminal := c.Query("includeTerminal") == "true"
	requests, err := h.Engine.Store().Requests(c.Request.Context(), includeTerminal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query requests"})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// Approve chuyển request từ pending sang approved sau khi staff đối chiếu.
func (h *RequestHandler) Approve(c *gin.Context) {
	if err := h.Engine.ApproveRequest(c.Request.Context(), c.Param("id")); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// UploadProofPhoto nhận ảnh bàn giao hàng, upload lên S3 và gắn URL vào
// request đã hoàn tất.
func (h *RequestHandler) UploadProofPhoto(c *gin.Context) {
	if h.S3Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo storage is not configured"})
		return
	}
	requestID := c.Param("id")

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo file is required"})
		return
	}
	defer file.Close()

	objectKey := fmt.Sprintf("proof-photos/%s/%s", requestID, header.Filename)
	url, err := h.S3Uploader.UploadFile(c.Request.Context(), file, objectKey, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo", "details": err.Error()})
		return
	}

	if err := h.Engine.AttachProofPhoto(c.Request.Context(), requestID, url); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "photoURL": url})
}
