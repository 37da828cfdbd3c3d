// internal/queue/store.go
package queue

import (
	"context"

	"warehouse-pickup-api-server/internal/models"
)

// ChangeSet is everything one engine operation writes. A Store must persist
// the whole set atomically: either every document lands or none do.
type ChangeSet struct {
	// Requests are full documents upserted by public RequestID.
	Requests []models.PickupRequest
	// Gates are full documents upserted by public GateID.
	Gates []models.Gate
	// DeleteGateIDs are gates removed outright.
	DeleteGateIDs []string
}

// Empty reports whether the change set touches nothing; stores skip the
// write entirely in that case.
func (cs ChangeSet) Empty() bool {
	return len(cs.Requests) == 0 && len(cs.Gates) == 0 && len(cs.DeleteGateIDs) == 0
}

// Store is the durable record behind the engine. The engine serializes all
// writes per gate, so implementations only need atomicity for Apply, not
// their own queue-level locking.
type Store interface {
	// RequestByID returns ErrNotFound when absent.
	RequestByID(ctx context.Context, requestID string) (*models.PickupRequest, error)
	// ActiveRequestByOrder finds a non-terminal request for a sales order,
	// or nil when none exists.
	ActiveRequestByOrder(ctx context.Context, salesOrderNumber string) (*models.PickupRequest, error)
	// Requests lists all requests, newest first. Terminal requests are
	// included only when includeTerminal is set.
	Requests(ctx context.Context, includeTerminal bool) ([]models.PickupRequest, error)
	// InsertRequest stores a brand-new request document.
	InsertRequest(ctx context.Context, r *models.PickupRequest) error

	// GateByID returns ErrNotFound when absent.
	GateByID(ctx context.Context, gateID string) (*models.Gate, error)
	// GateByNumber returns nil when no gate has the number.
	GateByNumber(ctx context.Context, number int) (*models.Gate, error)
	// Gates lists all gates ordered by gate number.
	Gates(ctx context.Context) ([]models.Gate, error)

	// Queue lists a gate's in_queue requests ordered by position.
	Queue(ctx context.Context, gateID string) ([]models.PickupRequest, error)
	// ProcessingAt returns the request processing at a gate, or nil.
	ProcessingAt(ctx context.Context, gateID string) (*models.PickupRequest, error)

	// RecentCompletions returns up to limit completed requests, most
	// recently completed first.
	RecentCompletions(ctx context.Context, limit int) ([]models.PickupRequest, error)

	// Apply persists a change set atomically.
	Apply(ctx context.Context, cs ChangeSet) error
}
