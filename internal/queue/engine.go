// internal/queue/engine.go
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"warehouse-pickup-api-server/internal/models"
	"warehouse-pickup-api-server/internal/socket"

	"github.com/google/uuid"
)

// Publisher receives one change event per document committed by the engine.
// Delivery is best-effort and happens after the commit.
type Publisher interface {
	Broadcast(ev socket.Event)
}

// Engine is the sole writer of request and gate state. Every public operation
// runs as one atomic unit: it takes the affected gate's lock, re-reads current
// state, validates preconditions, computes the complete new ordering, and
// persists all touched documents in a single Store.Apply.
type Engine struct {
	store Store
	pub   Publisher
	order PriorityOrder

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// adminMu serializes gate create/rename so the gate-number uniqueness
	// check and the write are one unit.
	adminMu sync.Mutex
}

func NewEngine(store Store, pub Publisher, order PriorityOrder) *Engine {
	if order != PriorityLIFO {
		order = PriorityFIFO
	}
	return &Engine{
		store: store,
		pub:   pub,
		order: order,
		locks: make(map[string]*sync.Mutex),
	}
}

// Store exposes the engine's backing store for read-only callers.
func (e *Engine) Store() Store { return e.store }

func (e *Engine) gateLock(gateID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[gateID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[gateID] = l
	}
	return l
}

// lockGate serializes all queue reads-modify-writes for one gate.
func (e *Engine) lockGate(gateID string) func() {
	l := e.gateLock(gateID)
	l.Lock()
	return l.Unlock
}

// lockGates takes two gate locks in a fixed global order (ascending gate id)
// so two simultaneous moves in opposite directions cannot deadlock.
func (e *Engine) lockGates(a, b string) func() {
	if b < a {
		a, b = b, a
	}
	la, lb := e.gateLock(a), e.gateLock(b)
	la.Lock()
	lb.Lock()
	return func() {
		lb.Unlock()
		la.Unlock()
	}
}

// lockRequestGate locks the gate the request is assigned to and returns the
// request as re-read under that lock. The gate id has to come from a read
// taken before any lock is held, so a concurrent move may relocate the request
// in between; in that case the wrong gate's lock was acquired and the
// acquisition is retried against the request's current gate. An unassigned
// request is returned with a no-op unlock.
func (e *Engine) lockRequestGate(ctx context.Context, requestID string) (*models.PickupRequest, func(), error) {
	for {
		r, err := e.store.RequestByID(ctx, requestID)
		if err != nil {
			return nil, nil, err
		}
		gateID := r.AssignedGateID
		if gateID == "" {
			return r, func() {}, nil
		}
		unlock := e.lockGate(gateID)
		r, err = e.store.RequestByID(ctx, requestID)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if r.AssignedGateID == gateID {
			return r, unlock, nil
		}
		unlock()
	}
}

func (e *Engine) publishRequests(rs ...models.PickupRequest) {
	if e.pub == nil {
		return
	}
	for i := range rs {
		r := rs[i]
		e.pub.Broadcast(socket.Event{Table: socket.TableRequests, Type: socket.EventUpdate, Request: &r})
	}
}

func (e *Engine) publishGate(t socket.EventType, g models.Gate) {
	if e.pub == nil {
		return
	}
	e.pub.Broadcast(socket.Event{Table: socket.TableGates, Type: t, Gate: &g})
}

// mergeChanged collects touched requests, keeping the last write per id.
func mergeChanged(dst map[string]models.PickupRequest, rs ...models.PickupRequest) {
	for _, r := range rs {
		dst[r.RequestID] = r
	}
}

func changedSlice(m map[string]models.PickupRequest) []models.PickupRequest {
	out := make([]models.PickupRequest, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	return out
}

// SubmitRequest records a brand-new customer request in pending status.
// External order validation happens before this is called.
func (e *Engine) SubmitRequest(ctx context.Context, r *models.PickupRequest) error {
	existing, err := e.store.ActiveRequestByOrder(ctx, r.SalesOrderNumber)
	if err != nil {
		return fmt.Errorf("check duplicate order: %w", err)
	}
	if existing != nil {
		return ErrDuplicateOrder
	}

	if r.RequestID == "" {
		r.RequestID = uuid.New().String()
	}
	r.Status = models.StatusPending
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if err := e.store.InsertRequest(ctx, r); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	if e.pub != nil {
		e.pub.Broadcast(socket.Event{Table: socket.TableRequests, Type: socket.EventInsert, Request: r})
	}
	return nil
}

// ApproveRequest moves a pending request to approved.
func (e *Engine) ApproveRequest(ctx context.Context, requestID string) error {
	r, err := e.store.RequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if r.Status.Terminal() {
		return ErrAlreadyTerminal
	}
	if r.Status != models.StatusPending {
		return ErrInvalidTransition
	}
	r.Status = models.StatusApproved
	if err := e.store.Apply(ctx, ChangeSet{Requests: []models.PickupRequest{*r}}); err != nil {
		return fmt.Errorf("apply approve: %w", err)
	}
	e.publishRequests(*r)
	return nil
}

// AssignToQueue puts a pending or approved request into a gate's queue and
// returns the assigned position. Non-priority requests append to the tail;
// requests already flagged priority enter the priority prefix.
func (e *Engine) AssignToQueue(ctx context.Context, requestID, gateID string) (int, error) {
	if _, err := e.store.GateByID(ctx, gateID); err != nil {
		return 0, err
	}
	unlock := e.lockGate(gateID)
	defer unlock()

	r, err := e.store.RequestByID(ctx, requestID)
	if err != nil {
		return 0, err
	}
	g, err := e.store.GateByID(ctx, gateID)
	if err != nil {
		return 0, err
	}
	if r.Status != models.StatusPending && r.Status != models.StatusApproved {
		return 0, ErrInvalidTransition
	}
	if !g.IsActive {
		return 0, ErrGateInactive
	}

	q, err := e.store.Queue(ctx, gateID)
	if err != nil {
		return 0, err
	}
	if err := checkContiguous(q); err != nil {
		return 0, err
	}

	r.Status = models.StatusInQueue
	r.AssignedGateID = gateID
	r.HeldPosition = nil
	r.ProcessingStartedAt = nil
	if r.IsPriority && r.PriorityMarkedAt == nil {
		now := time.Now()
		r.PriorityMarkedAt = &now
	}

	idx := insertIndex(q, r.IsPriority, e.order)
	newQ := insertAt(q, idx, *r)
	changed := map[string]models.PickupRequest{}
	mergeChanged(changed, renumber(newQ)...)
	mergeChanged(changed, newQ[idx]) // status and gate changed even if position did not

	if err := e.store.Apply(ctx, ChangeSet{Requests: changedSlice(changed)}); err != nil {
		return 0, fmt.Errorf("apply assign: %w", err)
	}
	e.publishRequests(changedSlice(changed)...)
	return idx + 1, nil
}

// SetPriority flags an in_queue request and relocates it to the end of the
// priority prefix (front of it under LIFO ordering). Requests behind the new
// slot shift back by one; numbering stays contiguous.
func (e *Engine) SetPriority(ctx context.Context, requestID string) error {
	r, unlock, err := e.lockRequestGate(ctx, requestID)
	if err != nil {
		return err
	}
	defer unlock()
	if r.Status != models.StatusInQueue {
		return ErrInvalidTransition
	}

	q, err := e.store.Queue(ctx, r.AssignedGateID)
	if err != nil {
		return err
	}
	if err := checkContiguous(q); err != nil {
		return err
	}

	rest, found := removeID(q, requestID)
	if !found {
		return ErrNotFound
	}
	now := time.Now()
	r.IsPriority = true
	r.PriorityMarkedAt = &now

	idx := insertIndex(rest, true, e.order)
	newQ := insertAt(rest, idx, *r)
	changed := map[string]models.PickupRequest{}
	mergeChanged(changed, renumber(newQ)...)
	mergeChanged(changed, newQ[idx])

	if err := e.store.Apply(ctx, ChangeSet{Requests: changedSlice(changed)}); err != nil {
		return fmt.Errorf("apply set priority: %w", err)
	}
	e.publishRequests(changedSlice(changed)...)
	return nil
}

// ClearPriority drops the flag without relocating the request. Priority is
// advisory for insertion, not continuously enforced, so the request keeps its
// current slot and later priority insertions will simply pass it.
func (e *Engine) ClearPriority(ctx context.Context, requestID string) error {
	r, unlock, err := e.lockRequestGate(ctx, requestID)
	if err != nil {
		return err
	}
	defer unlock()
	if r.Status != models.StatusInQueue {
		return ErrInvalidTransition
	}
	r.IsPriority = false
	r.PriorityMarkedAt = nil
	if err := e.store.Apply(ctx, ChangeSet{Requests: []models.PickupRequest{*r}}); err != nil {
		return fmt.Errorf("apply clear priority: %w", err)
	}
	e.publishRequests(*r)
	return nil
}

// ReorderQueue assigns positions 1..N following the caller-supplied order,
// typically from a drag-and-drop. The payload must contain exactly the gate's
// current in_queue ids; anything else means the client reordered stale state
// and the whole operation is refused.
func (e *Engine) ReorderQueue(ctx context.Context, gateID string, orderedIDs []string) error {
	if _, err := e.store.GateByID(ctx, gateID); err != nil {
		return err
	}
	unlock := e.lockGate(gateID)
	defer unlock()

	q, err := e.store.Queue(ctx, gateID)
	if err != nil {
		return err
	}
	if err := checkContiguous(q); err != nil {
		return err
	}
	if len(orderedIDs) != len(q) {
		return ErrSetMismatch
	}
	byID := make(map[string]models.PickupRequest, len(q))
	for _, r := range q {
		byID[r.RequestID] = r
	}

	newQ := make([]models.PickupRequest, 0, len(q))
	for _, id := range orderedIDs {
		r, ok := byID[id]
		if !ok {
			return ErrSetMismatch
		}
		delete(byID, id) // catches duplicate ids in the payload
		newQ = append(newQ, r)
	}

	changed := renumber(newQ)
	if len(changed) == 0 {
		return nil
	}
	if err := e.store.Apply(ctx, ChangeSet{Requests: changed}); err != nil {
		return fmt.Errorf("apply reorder: %w", err)
	}
	e.publishRequests(changed...)
	return nil
}

// MoveToGate transfers an in_queue request to another active gate: the old
// gate's queue compacts, and the request appends to (or priority-enters) the
// new gate's queue. Returns the new position.
func (e *Engine) MoveToGate(ctx context.Context, requestID, newGateID string) (int, error) {
	r, err := e.store.RequestByID(ctx, requestID)
	if err != nil {
		return 0, err
	}
	if r.Status != models.StatusInQueue {
		return 0, ErrInvalidTransition
	}
	oldGateID := r.AssignedGateID
	if oldGateID == newGateID {
		return 0, ErrInvalidTransition
	}
	if _, err := e.store.GateByID(ctx, newGateID); err != nil {
		return 0, err
	}

	unlock := e.lockGates(oldGateID, newGateID)
	defer unlock()

	r, err = e.store.RequestByID(ctx, requestID)
	if err != nil {
		return 0, err
	}
	// Re-validate under the locks: the request may have started processing,
	// finished, or moved while we waited.
	if r.Status != models.StatusInQueue || r.AssignedGateID != oldGateID {
		return 0, ErrInvalidTransition
	}
	newGate, err := e.store.GateByID(ctx, newGateID)
	if err != nil {
		return 0, err
	}
	if !newGate.IsActive {
		return 0, ErrGateInactive
	}

	oldQ, err := e.store.Queue(ctx, oldGateID)
	if err != nil {
		return 0, err
	}
	if err := checkContiguous(oldQ); err != nil {
		return 0, err
	}
	newQ, err := e.store.Queue(ctx, newGateID)
	if err != nil {
		return 0, err
	}
	if err := checkContiguous(newQ); err != nil {
		return 0, err
	}

	rest, found := removeID(oldQ, requestID)
	if !found {
		return 0, ErrNotFound
	}
	r.AssignedGateID = newGateID
	r.HeldPosition = nil

	idx := insertIndex(newQ, r.IsPriority, e.order)
	dest := insertAt(newQ, idx, *r)

	changed := map[string]models.PickupRequest{}
	mergeChanged(changed, renumber(rest)...)
	mergeChanged(changed, renumber(dest)...)
	mergeChanged(changed, dest[idx])

	if err := e.store.Apply(ctx, ChangeSet{Requests: changedSlice(changed)}); err != nil {
		return 0, fmt.Errorf("apply move: %w", err)
	}
	e.publishRequests(changedSlice(changed)...)
	return idx + 1, nil
}

// StartProcessing begins service for the head of a gate's queue. The vacated
// position 1 is remembered on the request so a revert can restore it, and the
// rest of the queue shifts down to start at 1 again.
func (e *Engine) StartProcessing(ctx context.Context, requestID, gateID string) error {
	if _, err := e.store.GateByID(ctx, gateID); err != nil {
		return err
	}
	unlock := e.lockGate(gateID)
	defer unlock()

	r, err := e.store.RequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if r.AssignedGateID != gateID {
		return ErrInvalidTransition
	}
	// Busy check comes before the status check so the loser of a race on the
	// same head request observes GateBusy, not a generic transition error.
	busy, err := e.store.ProcessingAt(ctx, gateID)
	if err != nil {
		return err
	}
	if busy != nil {
		return ErrGateBusy
	}
	if r.Status != models.StatusInQueue {
		return ErrInvalidTransition
	}
	if r.Position() != 1 {
		return ErrNotAtHead
	}

	q, err := e.store.Queue(ctx, gateID)
	if err != nil {
		return err
	}
	if err := checkContiguous(q); err != nil {
		return err
	}

	now := time.Now()
	held := r.Position()
	r.Status = models.StatusProcessing
	r.ProcessingStartedAt = &now
	r.HeldPosition = &held
	r.QueuePosition = nil

	rest, _ := removeID(q, requestID)
	changed := map[string]models.PickupRequest{}
	mergeChanged(changed, renumber(rest)...)
	mergeChanged(changed, *r)

	if err := e.store.Apply(ctx, ChangeSet{Requests: changedSlice(changed)}); err != nil {
		return fmt.Errorf("apply start processing: %w", err)
	}
	e.publishRequests(changedSlice(changed)...)
	return nil
}

// RevertToQueue puts a processing request back into its gate's queue at the
// position it vacated, shifting current occupants of that slot and beyond
// back by one. If the queue shrank in the meantime the request re-enters at
// the tail. Returns the restored position.
func (e *Engine) RevertToQueue(ctx context.Context, requestID string) (int, error) {
	r, unlock, err := e.lockRequestGate(ctx, requestID)
	if err != nil {
		return 0, err
	}
	defer unlock()
	if r.Status != models.StatusProcessing {
		return 0, ErrNotProcessing
	}

	q, err := e.store.Queue(ctx, r.AssignedGateID)
	if err != nil {
		return 0, err
	}
	if err := checkContiguous(q); err != nil {
		return 0, err
	}

	idx := len(q)
	if r.HeldPosition != nil && *r.HeldPosition-1 < idx {
		idx = *r.HeldPosition - 1
	}
	r.Status = models.StatusInQueue
	r.ProcessingStartedAt = nil
	r.HeldPosition = nil

	newQ := insertAt(q, idx, *r)
	changed := map[string]models.PickupRequest{}
	mergeChanged(changed, renumber(newQ)...)
	mergeChanged(changed, newQ[idx])

	if err := e.store.Apply(ctx, ChangeSet{Requests: changedSlice(changed)}); err != nil {
		return 0, fmt.Errorf("apply revert: %w", err)
	}
	e.publishRequests(changedSlice(changed)...)
	return idx + 1, nil
}

// CompleteRequest finishes an in_queue or processing request. The former
// gate's queue compacts in the same change set.
func (e *Engine) CompleteRequest(ctx context.Context, requestID string) error {
	return e.finishRequest(ctx, requestID, models.StatusCompleted)
}

// CancelRequest cancels any non-terminal request. When the request was
// queued, the gate's remaining positions compact atomically with the status
// flip; this holds for every call site, not just the dashboard.
func (e *Engine) CancelRequest(ctx context.Context, requestID string) error {
	return e.finishRequest(ctx, requestID, models.StatusCancelled)
}

func (e *Engine) finishRequest(ctx context.Context, requestID string, terminal models.PickupStatus) error {
	r, unlock, err := e.lockRequestGate(ctx, requestID)
	if err != nil {
		return err
	}
	defer unlock()
	if err := validateFinish(r.Status, terminal); err != nil {
		return err
	}

	changed := map[string]models.PickupRequest{}
	if r.Status == models.StatusInQueue {
		q, err := e.store.Queue(ctx, r.AssignedGateID)
		if err != nil {
			return err
		}
		if err := checkContiguous(q); err != nil {
			return err
		}
		rest, _ := removeID(q, requestID)
		mergeChanged(changed, renumber(rest)...)
	}

	r.Status = terminal
	r.AssignedGateID = ""
	r.QueuePosition = nil
	r.ProcessingStartedAt = nil
	r.HeldPosition = nil
	if terminal == models.StatusCompleted {
		now := time.Now()
		r.CompletedAt = &now
	}
	mergeChanged(changed, *r)

	if err := e.store.Apply(ctx, ChangeSet{Requests: changedSlice(changed)}); err != nil {
		return fmt.Errorf("apply %s: %w", terminal, err)
	}
	e.publishRequests(changedSlice(changed)...)
	return nil
}

func validateFinish(current, terminal models.PickupStatus) error {
	if current.Terminal() {
		return ErrAlreadyTerminal
	}
	if terminal == models.StatusCompleted &&
		current != models.StatusInQueue && current != models.StatusProcessing {
		return ErrInvalidTransition
	}
	return nil
}

// AttachProofPhoto records the S3 URL of the handover photo taken at
// completion.
func (e *Engine) AttachProofPhoto(ctx context.Context, requestID, url string) error {
	r, err := e.store.RequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if r.Status != models.StatusCompleted {
		return ErrInvalidTransition
	}
	r.ProofPhotoURL = url
	if err := e.store.Apply(ctx, ChangeSet{Requests: []models.PickupRequest{*r}}); err != nil {
		return fmt.Errorf("apply proof photo: %w", err)
	}
	e.publishRequests(*r)
	return nil
}

// CreateGate registers a new active gate with a unique human-facing number.
func (e *Engine) CreateGate(ctx context.Context, number int) (*models.Gate, error) {
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	existing, err := e.store.GateByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateGateNumber
	}
	now := time.Now()
	g := models.Gate{
		GateID:     uuid.New().String(),
		GateNumber: number,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.store.Apply(ctx, ChangeSet{Gates: []models.Gate{g}}); err != nil {
		return nil, fmt.Errorf("apply create gate: %w", err)
	}
	e.publishGate(socket.EventInsert, g)
	return &g, nil
}

// RenameGate changes a gate's number.
func (e *Engine) RenameGate(ctx context.Context, gateID string, number int) error {
	e.adminMu.Lock()
	defer e.adminMu.Unlock()

	g, err := e.store.GateByID(ctx, gateID)
	if err != nil {
		return err
	}
	other, err := e.store.GateByNumber(ctx, number)
	if err != nil {
		return err
	}
	if other != nil && other.GateID != gateID {
		return ErrDuplicateGateNumber
	}
	g.GateNumber = number
	g.UpdatedAt = time.Now()
	if err := e.store.Apply(ctx, ChangeSet{Gates: []models.Gate{*g}}); err != nil {
		return fmt.Errorf("apply rename gate: %w", err)
	}
	e.publishGate(socket.EventUpdate, *g)
	return nil
}

// SetGateActive enables or disables a gate. Disabling is refused while
// requests are queued at it.
func (e *Engine) SetGateActive(ctx context.Context, gateID string, active bool) error {
	unlock := e.lockGate(gateID)
	defer unlock()

	g, err := e.store.GateByID(ctx, gateID)
	if err != nil {
		return err
	}
	if !active {
		q, err := e.store.Queue(ctx, gateID)
		if err != nil {
			return err
		}
		if len(q) > 0 {
			return ErrGateQueueNotEmpty
		}
	}
	g.IsActive = active
	g.UpdatedAt = time.Now()
	if err := e.store.Apply(ctx, ChangeSet{Gates: []models.Gate{*g}}); err != nil {
		return fmt.Errorf("apply gate active: %w", err)
	}
	e.publishGate(socket.EventUpdate, *g)
	return nil
}

// DeleteGate removes a gate outright. Refused while requests are queued.
func (e *Engine) DeleteGate(ctx context.Context, gateID string) error {
	unlock := e.lockGate(gateID)
	defer unlock()

	g, err := e.store.GateByID(ctx, gateID)
	if err != nil {
		return err
	}
	q, err := e.store.Queue(ctx, gateID)
	if err != nil {
		return err
	}
	if len(q) > 0 {
		return ErrGateQueueNotEmpty
	}
	busy, err := e.store.ProcessingAt(ctx, gateID)
	if err != nil {
		return err
	}
	if busy != nil {
		return ErrGateQueueNotEmpty
	}
	if err := e.store.Apply(ctx, ChangeSet{DeleteGateIDs: []string{gateID}}); err != nil {
		return fmt.Errorf("apply delete gate: %w", err)
	}
	e.publishGate(socket.EventDelete, *g)
	return nil
}
