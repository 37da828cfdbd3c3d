// internal/socket/event.go
package socket

import "warehouse-pickup-api-server/internal/models"

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

const (
	TableRequests = "pickup_requests"
	TableGates    = "gates"
)

// Event is one committed change to a request or a gate, fanned out to every
// connected viewer. Delivery is at-least-once and consumers must not rely on
// ordering across independent commits: mirrors merge by id and fall back to a
// full resync when they suspect a gap.
type Event struct {
	Table   string                `json:"table"`
	Type    EventType             `json:"type"`
	Request *models.PickupRequest `json:"request,omitempty"`
	Gate    *models.Gate          `json:"gate,omitempty"`
}
