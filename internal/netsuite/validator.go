// internal/netsuite/validator.go
package netsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

// validationTimeout is a hard deadline on the Lambda call. Exceeding it fails
// the submission with a retryable error and mutates nothing.
const validationTimeout = 10 * time.Second

var (
	// ErrOrderNotFound: the order number does not exist in NetSuite.
	ErrOrderNotFound = errors.New("netsuite: sales order not found")
	// ErrTimeout: the validation service did not answer in time. Retryable.
	ErrTimeout = errors.New("netsuite: validation timed out")
	// ErrUnavailable: transport failure or 5xx. Retryable.
	ErrUnavailable = errors.New("netsuite: validation service unavailable")
)

// RejectionError is a business-rule rejection from the validation service,
// carrying its user-facing message.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("netsuite: order rejected: %s", e.Message)
}

// Order is the validated order data used to enrich a pickup request.
type Order struct {
	CompanyName   string
	ItemCount     int
	PONumber      string
	CustomerEmail string
	// EmailMatch reports whether the submitter's email matched the order's
	// customer email; mismatches flag the request for staff review.
	EmailMatch bool
}

type lambdaRequest struct {
	SalesOrderNumber string `json:"sales_order_number"`
	Email            string `json:"email"`
}

type lambdaResponse struct {
	Success   bool `json:"success"`
	OrderData *struct {
		CompanyName   string  `json:"company_name"`
		ItemCount     int     `json:"item_count"`
		PONumber      *string `json:"po_number"`
		CustomerEmail *string `json:"customer_email"`
	} `json:"order_data"`
	EmailMatch *bool  `json:"email_match"`
	Error      string `json:"error"`
}

// Validator checks submitted orders against the NetSuite validation Lambda.
type Validator struct {
	URL    string
	Client *http.Client
}

func NewValidator(url string) *Validator {
	return &Validator{
		URL:    url,
		Client: &http.Client{Timeout: validationTimeout},
	}
}

// ValidateOrder confirms the order exists and matches the submitter.
// When no URL is configured (local development) validation is skipped and a
// mock order is returned.
func (v *Validator) ValidateOrder(ctx context.Context, salesOrderNumber, email string) (*Order, error) {
	if v.URL == "" {
		log.Println("NetSuite validation URL not set - skipping order validation (dev mode)")
		return &Order{
			CompanyName:   "Test Company",
			ItemCount:     5,
			PONumber:      "PO-DEV-001",
			CustomerEmail: email,
			EmailMatch:    true,
		}, nil
	}

	body, err := json.Marshal(lambdaRequest{SalesOrderNumber: salesOrderNumber, Email: email})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, validationTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Printf("Order validation timed out: %s", salesOrderNumber)
			return nil, ErrTimeout
		}
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrOrderNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnavailable
	}

	var parsed lambdaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, ErrUnavailable
	}
	if !parsed.Success || parsed.OrderData == nil {
		msg := parsed.Error
		if msg == "" {
			msg = "Order validation failed. Please check your order number."
		}
		return nil, &RejectionError{Message: msg}
	}

	order := &Order{
		CompanyName: parsed.OrderData.CompanyName,
		ItemCount:   parsed.OrderData.ItemCount,
	}
	if parsed.OrderData.PONumber != nil {
		order.PONumber = *parsed.OrderData.PONumber
	}
	if parsed.OrderData.CustomerEmail != nil {
		order.CustomerEmail = *parsed.OrderData.CustomerEmail
	}
	if parsed.EmailMatch != nil {
		order.EmailMatch = *parsed.EmailMatch
	}
	return order, nil
}
