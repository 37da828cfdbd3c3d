// internal/queue/errors.go
package queue

import "errors"

// Every engine operation fails with one of these, so callers can map each
// outcome to a distinct user-facing response instead of a generic failure.
var (
	// ErrInvalidTransition: the request's current status does not allow the
	// attempted operation.
	ErrInvalidTransition = errors.New("queue: invalid transition for current status")
	// ErrNotAtHead: only the request at position 1 may start processing.
	ErrNotAtHead = errors.New("queue: request is not at the head of its queue")
	// ErrGateBusy: the gate already has a request in processing.
	ErrGateBusy = errors.New("queue: gate is already processing another request")
	// ErrGateInactive: the target gate is disabled.
	ErrGateInactive = errors.New("queue: gate is inactive")
	// ErrSetMismatch: a reorder payload does not match the gate's current
	// in_queue membership (stale client state).
	ErrSetMismatch = errors.New("queue: reorder payload does not match current queue")
	// ErrAlreadyTerminal: the request is already completed or cancelled.
	ErrAlreadyTerminal = errors.New("queue: request is already in a terminal state")
	// ErrNotProcessing: revert requires the request to be in processing.
	ErrNotProcessing = errors.New("queue: request is not processing")
	// ErrNotFound: no request or gate with the given id.
	ErrNotFound = errors.New("queue: not found")
	// ErrGateQueueNotEmpty: a gate cannot be deactivated or deleted while
	// requests are queued at it.
	ErrGateQueueNotEmpty = errors.New("queue: gate still has queued requests")
	// ErrDuplicateGateNumber: another gate already has this number.
	ErrDuplicateGateNumber = errors.New("queue: gate number already exists")
	// ErrDuplicateOrder: an active request already exists for this sales order.
	ErrDuplicateOrder = errors.New("queue: active request already exists for this order")
	// ErrQueueCorrupt: positions read from the store are not contiguous.
	// This is a programmer error or a foreign writer; the operation aborts
	// instead of repairing forward.
	ErrQueueCorrupt = errors.New("queue: positions are not contiguous")
)
