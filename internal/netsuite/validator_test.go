package netsuite

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestValidateOrderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req lambdaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.SalesOrderNumber != "SO-1001" || req.Email != "buyer@example.com" {
			t.Errorf("payload = %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"order_data": map[string]any{
				"company_name":   "Acme Freight",
				"item_count":     12,
				"po_number":      "PO-88",
				"customer_email": "buyer@example.com",
			},
			"email_match": true,
		})
	}))
	defer srv.Close()

	v := NewValidator(srv.URL)
	order, err := v.ValidateOrder(context.Background(), "SO-1001", "buyer@example.com")
	if err != nil {
		t.Fatalf("ValidateOrder: %v", err)
	}
	if order.CompanyName != "Acme Freight" || order.ItemCount != 12 || order.PONumber != "PO-88" {
		t.Errorf("order = %+v", order)
	}
	if !order.EmailMatch {
		t.Error("EmailMatch = false, want true")
	}
}

func TestValidateOrderNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	v := NewValidator(srv.URL)
	if _, err := v.ValidateOrder(context.Background(), "SO-MISSING", "a@b.com"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestValidateOrderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "This order has already been fulfilled.",
		})
	}))
	defer srv.Close()

	v := NewValidator(srv.URL)
	_, err := v.ValidateOrder(context.Background(), "SO-1", "a@b.com")
	var rejection *RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("err = %v, want RejectionError", err)
	}
	if rejection.Message != "This order has already been fulfilled." {
		t.Errorf("message = %q", rejection.Message)
	}
}

func TestValidateOrderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewValidator(srv.URL)
	if _, err := v.ValidateOrder(context.Background(), "SO-1", "a@b.com"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestValidateOrderTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	v := NewValidator(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := v.ValidateOrder(ctx, "SO-1", "a@b.com"); !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestValidateOrderDevMode(t *testing.T) {
	v := NewValidator("")
	order, err := v.ValidateOrder(context.Background(), "SO-anything", "dev@example.com")
	if err != nil {
		t.Fatalf("ValidateOrder: %v", err)
	}
	if order.CompanyName != "Test Company" || !order.EmailMatch {
		t.Errorf("dev mode order = %+v", order)
	}
}
