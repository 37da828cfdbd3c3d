// server/internal/api/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"warehouse-pickup-api-server/internal/queue"

	"github.com/gin-gonic/gin"
)

// respondEngineError maps every engine failure to a distinguishable HTTP
// outcome. The "code" field is stable for clients; the message is for humans.
func respondEngineError(c *gin.Context, err error) {
	type outcome struct {
		status int
		code   string
	}
	known := []struct {
		err error
		out outcome
	}{
		{queue.ErrNotFound, outcome{http.StatusNotFound, "NOT_FOUND"}},
		{queue.ErrInvalidTransition, outcome{http.StatusConflict, "INVALID_TRANSITION"}},
		{queue.ErrNotAtHead, outcome{http.StatusConflict, "NOT_AT_HEAD"}},
		{queue.ErrGateBusy, outcome{http.StatusConflict, "GATE_BUSY"}},
		{queue.ErrGateInactive, outcome{http.StatusConflict, "GATE_INACTIVE"}},
		{queue.ErrSetMismatch, outcome{http.StatusConflict, "SET_MISMATCH"}},
		{queue.ErrAlreadyTerminal, outcome{http.StatusConflict, "ALREADY_TERMINAL"}},
		{queue.ErrNotProcessing, outcome{http.StatusConflict, "NOT_PROCESSING"}},
		{queue.ErrGateQueueNotEmpty, outcome{http.StatusConflict, "GATE_QUEUE_NOT_EMPTY"}},
		{queue.ErrDuplicateGateNumber, outcome{http.StatusConflict, "DUPLICATE_GATE_NUMBER"}},
		{queue.ErrDuplicateOrder, outcome{http.StatusConflict, "DUPLICATE_ORDER"}},
	}
	for _, k := range known {
		if errors.Is(err, k.err) {
			c.JSON(k.out.status, gin.H{"error": err.Error(), "code": k.out.code})
			return
		}
	}
	if errors.Is(err, queue.ErrQueueCorrupt) {
		// Structural invariant violation: abort loudly, never fix forward.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": "QUEUE_CORRUPT"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error", "details": err.Error()})
}
