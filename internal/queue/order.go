// internal/queue/order.go
package queue

import (
	"fmt"

	"warehouse-pickup-api-server/internal/models"
)

// PriorityOrder controls where a newly flagged or newly arriving priority
// request lands inside the priority prefix. The legacy call sites never pinned
// this down, so it is a documented configuration choice rather than a
// hard-coded behavior.
type PriorityOrder string

const (
	// PriorityFIFO places new priority arrivals behind earlier ones
	// (ordered by the time the flag was set). Default.
	PriorityFIFO PriorityOrder = "fifo"
	// PriorityLIFO places new priority arrivals at the very front.
	PriorityLIFO PriorityOrder = "lifo"
)

// insertIndex returns the slice index at which a request should enter the
// given queue. Non-priority requests always append. Priority requests enter
// the priority prefix according to the configured order.
func insertIndex(q []models.PickupRequest, priority bool, order PriorityOrder) int {
	if !priority {
		return len(q)
	}
	if order == PriorityLIFO {
		return 0
	}
	// FIFO: immediately after the last currently-priority request.
	idx := 0
	for i, r := range q {
		if r.IsPriority {
			idx = i + 1
		}
	}
	return idx
}

// insertAt returns a new slice with r inserted at idx. idx beyond the end
// appends.
func insertAt(q []models.PickupRequest, idx int, r models.PickupRequest) []models.PickupRequest {
	if idx > len(q) {
		idx = len(q)
	}
	out := make([]models.PickupRequest, 0, len(q)+1)
	out = append(out, q[:idx]...)
	out = append(out, r)
	out = append(out, q[idx:]...)
	return out
}

// removeID returns a new slice without the request whose RequestID matches,
// and whether it was present.
func removeID(q []models.PickupRequest, requestID string) ([]models.PickupRequest, bool) {
	out := make([]models.PickupRequest, 0, len(q))
	found := false
	for _, r := range q {
		if r.RequestID == requestID {
			found = true
			continue
		}
		out = append(out, r)
	}
	return out, found
}

// renumber assigns positions 1..N following slice order and returns the
// requests whose stored position actually changed. Callers persist exactly
// those in the same change set as the triggering status mutation, so
// contiguity is never observable as violated.
func renumber(q []models.PickupRequest) []models.PickupRequest {
	changed := make([]models.PickupRequest, 0, len(q))
	for i := range q {
		want := i + 1
		if q[i].QueuePosition == nil || *q[i].QueuePosition != want {
			pos := want
			q[i].QueuePosition = &pos
			changed = append(changed, q[i])
		}
	}
	return changed
}

// checkContiguous verifies positions read from the store form exactly 1..N.
// The slice must already be sorted by position.
func checkContiguous(q []models.PickupRequest) error {
	for i, r := range q {
		if r.QueuePosition == nil || *r.QueuePosition != i+1 {
			return fmt.Errorf("%w: gate %s slot %d holds position %v",
				ErrQueueCorrupt, r.AssignedGateID, i+1, r.QueuePosition)
		}
	}
	return nil
}
