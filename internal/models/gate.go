// internal/models/gate.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Gate struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	GateID     string             `bson:"gateID" json:"id"` // public UUID
	GateNumber int                `bson:"gateNumber" json:"gate_number"`
	IsActive   bool               `bson:"isActive" json:"is_active"`
	CreatedAt  time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updated_at"`

	// QueueCount is derived on read: number of in_queue requests assigned here.
	QueueCount int `bson:"-" json:"queue_count"`
}
