// internal/queue/memstore.go
package queue

import (
	"context"
	"sort"
	"sync"

	"warehouse-pickup-api-server/internal/models"
)

// MemStore is an in-memory Store used by tests and by local development
// without a MongoDB. Apply swaps every touched document under one mutex, so
// a change set is observed all-or-nothing just like the Mongo transaction.
type MemStore struct {
	mu       sync.RWMutex
	requests map[string]models.PickupRequest
	gates    map[string]models.Gate
	seq      int // insertion order tiebreak for newest-first listings
	order    map[string]int
}

func NewMemStore() *MemStore {
	return &MemStore{
		requests: make(map[string]models.PickupRequest),
		gates:    make(map[string]models.Gate),
		order:    make(map[string]int),
	}
}

func (s *MemStore) RequestByID(ctx context.Context, requestID string) (*models.PickupRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemStore) ActiveRequestByOrder(ctx context.Context, salesOrderNumber string) (*models.PickupRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.requests {
		if r.SalesOrderNumber == salesOrderNumber && r.Status.Active() {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

func (s *MemStore) Requests(ctx context.Context, includeTerminal bool) ([]models.PickupRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PickupRequest, 0, len(s.requests))
	for _, r := range s.requests {
		if !includeTerminal && r.Status.Terminal() {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return s.order[out[i].RequestID] > s.order[out[j].RequestID]
	})
	return out, nil
}

func (s *MemStore) InsertRequest(ctx context.Context, r *models.PickupRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.order[r.RequestID] = s.seq
	s.requests[r.RequestID] = *r
	return nil
}

func (s *MemStore) GateByID(ctx context.Context, gateID string) (*models.Gate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.gates[gateID]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

func (s *MemStore) GateByNumber(ctx context.Context, number int) (*models.Gate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.gates {
		if g.GateNumber == number {
			out := g
			return &out, nil
		}
	}
	return nil, nil
}

func (s *MemStore) Gates(ctx context.Context) ([]models.Gate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Gate, 0, len(s.gates))
	for _, g := range s.gates {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GateNumber < out[j].GateNumber })
	return out, nil
}

func (s *MemStore) Queue(ctx context.Context, gateID string) ([]models.PickupRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PickupRequest, 0)
	for _, r := range s.requests {
		if r.Status == models.StatusInQueue && r.AssignedGateID == gateID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position() < out[j].Position() })
	return out, nil
}

func (s *MemStore) ProcessingAt(ctx context.Context, gateID string) (*models.PickupRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.requests {
		if r.Status == models.StatusProcessing && r.AssignedGateID == gateID {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

func (s *MemStore) RecentCompletions(ctx context.Context, limit int) ([]models.PickupRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PickupRequest, 0)
	for _, r := range s.requests {
		if r.Status == models.StatusCompleted && r.CompletedAt != nil {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(*out[j].CompletedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemStore) Apply(ctx context.Context, cs ChangeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range cs.Requests {
		if _, ok := s.order[r.RequestID]; !ok {
			s.seq++
			s.order[r.RequestID] = s.seq
		}
		s.requests[r.RequestID] = r
	}
	for _, g := range cs.Gates {
		s.gates[g.GateID] = g
	}
	for _, id := range cs.DeleteGateIDs {
		delete(s.gates, id)
	}
	return nil
}
