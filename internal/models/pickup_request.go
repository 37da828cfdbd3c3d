// internal/models/pickup_request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PickupStatus is the lifecycle state of a pickup request.
// Values match the legacy database CHECK constraint.
type PickupStatus string

const (
	StatusPending    PickupStatus = "pending"
	StatusApproved   PickupStatus = "approved"
	StatusInQueue    PickupStatus = "in_queue"
	StatusProcessing PickupStatus = "processing"
	StatusCompleted  PickupStatus = "completed"
	StatusCancelled  PickupStatus = "cancelled"
)

// ActiveStatuses are the non-terminal states. A sales order may have at most
// one request in any of these states at a time.
var ActiveStatuses = []PickupStatus{StatusPending, StatusApproved, StatusInQueue, StatusProcessing}

func (s PickupStatus) Active() bool {
	return s == StatusPending || s == StatusApproved || s == StatusInQueue || s == StatusProcessing
}

func (s PickupStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// PickupRequest is a customer pickup request and its queue bookkeeping.
//
// Which nullable fields are set is determined by Status alone:
// AssignedGateID is non-empty exactly for in_queue and processing,
// QueuePosition is non-nil exactly for in_queue,
// ProcessingStartedAt is non-nil exactly for processing,
// CompletedAt is non-nil exactly for completed.
// The queue engine is the only writer and keeps this consistent.
type PickupRequest struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RequestID        string             `bson:"requestID" json:"id"` // public UUID
	SalesOrderNumber string             `bson:"salesOrderNumber" json:"sales_order_number"`
	CustomerEmail    string             `bson:"customerEmail" json:"customer_email"`
	CustomerPhone    string             `bson:"customerPhone,omitempty" json:"customer_phone,omitempty"`
	CompanyName      string             `bson:"companyName,omitempty" json:"company_name,omitempty"`
	ItemCount        int                `bson:"itemCount" json:"item_count"`
	PONumber         string             `bson:"poNumber,omitempty" json:"po_number,omitempty"`
	// EmailFlagged marks requests whose submitter email did not match the
	// order system's customer email. Staff review these before approving.
	EmailFlagged bool `bson:"emailFlagged" json:"email_flagged"`

	Status         PickupStatus `bson:"status" json:"status"`
	AssignedGateID string       `bson:"assignedGateID,omitempty" json:"assigned_gate_id,omitempty"`
	QueuePosition  *int         `bson:"queuePosition,omitempty" json:"queue_position,omitempty"`

	IsPriority       bool       `bson:"isPriority" json:"is_priority"`
	PriorityMarkedAt *time.Time `bson:"priorityMarkedAt,omitempty" json:"priority_marked_at,omitempty"`

	// HeldPosition remembers the slot vacated by a start-processing so a
	// revert can put the request back where it was.
	HeldPosition        *int       `bson:"heldPosition,omitempty" json:"-"`
	ProcessingStartedAt *time.Time `bson:"processingStartedAt,omitempty" json:"processing_started_at,omitempty"`
	CompletedAt         *time.Time `bson:"completedAt,omitempty" json:"completed_at,omitempty"`
	ProofPhotoURL       string     `bson:"proofPhotoURL,omitempty" json:"proof_photo_url,omitempty"`
	CreatedAt           time.Time  `bson:"createdAt" json:"created_at"`
}

// Position returns the queue position or 0 when the request is not queued.
func (r *PickupRequest) Position() int {
	if r.QueuePosition == nil {
		return 0
	}
	return *r.QueuePosition
}
