package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"warehouse-pickup-api-server/internal/netsuite"
	"warehouse-pickup-api-server/internal/queue"

	"github.com/gin-gonic/gin"
)

func newRecorder(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// submitRouter runs the public submit endpoint with the dev-mode validator,
// which accepts every order.
func submitRouter(t *testing.T) (*gin.Engine, *queue.Engine) {
	t.Helper()
	engine := queue.NewEngine(queue.NewMemStore(), nil, queue.PriorityFIFO)
	h := &RequestHandler{Engine: engine, Validator: netsuite.NewValidator("")}

	router := gin.New()
	router.POST("/api/v1/requests", h.Submit)
	router.GET("/api/v1/requests/:id", h.GetRequest)
	return router, engine
}

func TestSubmitEndpoint(t *testing.T) {
	router, _ := submitRouter(t)

	w := post(t, router, "/api/v1/requests", gin.H{
		"salesOrderNumber": "SO-12345",
		"email":            "buyer@example.com",
		"phone":            "+1 (555) 010-0199",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["requestId"] == "" || got["requestId"] == nil {
		t.Error("response has no requestId")
	}

	// The request is immediately readable through the public tracking route.
	id, _ := got["requestId"].(string)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/requests/"+id, nil)
	rec := newRecorder(router, req)
	if rec.Code != http.StatusOK {
		t.Errorf("tracking status = %d", rec.Code)
	}
	if tracked := decode(t, rec); tracked["status"] != "pending" {
		t.Errorf("tracked status = %v, want pending", tracked["status"])
	}
}

func TestSubmitEndpointRejectsBadInput(t *testing.T) {
	router, _ := submitRouter(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing order number", gin.H{"email": "a@b.com"}},
		{"order number with spaces", gin.H{"salesOrderNumber": "SO 123", "email": "a@b.com"}},
		{"order number too long", gin.H{
			"salesOrderNumber": "A-VERY-LONG-ORDER-NUMBER-THAT-GOES-PAST-FIFTY-CHARACTERS",
			"email":            "a@b.com",
		}},
		{"bad email", gin.H{"salesOrderNumber": "SO-1", "email": "not-an-email"}},
		{"bad phone", gin.H{"salesOrderNumber": "SO-1", "email": "a@b.com", "phone": "call me"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := post(t, router, "/api/v1/requests", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestSubmitEndpointDuplicateOrder(t *testing.T) {
	router, _ := submitRouter(t)

	body := gin.H{"salesOrderNumber": "SO-777", "email": "a@b.com"}
	if w := post(t, router, "/api/v1/requests", body); w.Code != http.StatusCreated {
		t.Fatalf("first submit status = %d", w.Code)
	}
	w := post(t, router, "/api/v1/requests", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("second submit status = %d, want 409", w.Code)
	}
	if got := decode(t, w); got["code"] != "DUPLICATE_ORDER" {
		t.Errorf("code = %v", got["code"])
	}
}
