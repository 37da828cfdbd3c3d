// internal/mirror/mirror.go
package mirror

import (
	"sort"
	"sync"

	"warehouse-pickup-api-server/internal/models"
	"warehouse-pickup-api-server/internal/socket"
)

// Mirror is a viewer-local projection of requests and gates, kept current by
// the change-event feed plus full resyncs. It is a hint, not a source of
// truth: deltas merge by primary key and are safe to apply in any order, and
// after any suspected gap the subscriber replaces the whole projection with a
// fresh read.
type Mirror struct {
	mu       sync.RWMutex
	requests map[string]models.PickupRequest
	gates    map[string]models.Gate
	// insertion sequence, newest-first listings match the legacy dashboard
	seq   int
	order map[string]int
}

func New() *Mirror {
	return &Mirror{
		requests: make(map[string]models.PickupRequest),
		gates:    make(map[string]models.Gate),
		order:    make(map[string]int),
	}
}

// ApplyEvent merges one change event into the projection. INSERT adds or
// replaces by id, UPDATE replaces by id, DELETE removes by id. UPDATE or
// DELETE for an unknown id is a deliberate no-op: the INSERT may simply not
// have arrived yet.
func (m *Mirror) ApplyEvent(ev socket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch ev.Table {
	case socket.TableRequests:
		if ev.Request == nil {
			return
		}
		id := ev.Request.RequestID
		switch ev.Type {
		case socket.EventInsert:
			m.trackRequest(id)
			m.requests[id] = *ev.Request
		case socket.EventUpdate:
			if _, known := m.requests[id]; !known {
				return
			}
			m.requests[id] = *ev.Request
		case socket.EventDelete:
			delete(m.requests, id)
			delete(m.order, id)
		}
	case socket.TableGates:
		if ev.Gate == nil {
			return
		}
		id := ev.Gate.GateID
		switch ev.Type {
		case socket.EventInsert:
			m.gates[id] = *ev.Gate
		case socket.EventUpdate:
			if _, known := m.gates[id]; !known {
				return
			}
			m.gates[id] = *ev.Gate
		case socket.EventDelete:
			delete(m.gates, id)
		}
	}
}

func (m *Mirror) trackRequest(id string) {
	if _, ok := m.order[id]; !ok {
		m.seq++
		m.order[id] = m.seq
	}
}

// ResyncRequests replaces the request projection wholesale with a
// ground-truth read.
func (m *Mirror) ResyncRequests(rs []models.PickupRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[string]models.PickupRequest, len(rs))
	m.order = make(map[string]int, len(rs))
	m.seq = 0
	// Resync payloads arrive newest first; preserve that as insertion order.
	for i := len(rs) - 1; i >= 0; i-- {
		r := rs[i]
		m.trackRequest(r.RequestID)
		m.requests[r.RequestID] = r
	}
}

// ResyncGates replaces the gate projection wholesale.
func (m *Mirror) ResyncGates(gs []models.Gate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gates = make(map[string]models.Gate, len(gs))
	for _, g := range gs {
		m.gates[g.GateID] = g
	}
}

// RequestByID returns a copy of one request.
func (m *Mirror) RequestByID(id string) (models.PickupRequest, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requests[id]
	return r, ok
}

// Requests lists all mirrored requests, newest first.
func (m *Mirror) Requests() []models.PickupRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.PickupRequest, 0, len(m.requests))
	for _, r := range m.requests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return m.order[out[i].RequestID] > m.order[out[j].RequestID]
	})
	return out
}

// QueueFor lists a gate's in_queue requests ordered by position.
func (m *Mirror) QueueFor(gateID string) []models.PickupRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.PickupRequest, 0)
	for _, r := range m.requests {
		if r.Status == models.StatusInQueue && r.AssignedGateID == gateID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position() < out[j].Position() })
	return out
}

// Processing lists requests currently being served, ordered by gate number.
func (m *Mirror) Processing() []models.PickupRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.PickupRequest, 0)
	for _, r := range m.requests {
		if r.Status == models.StatusProcessing {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		gi, gj := m.gates[out[i].AssignedGateID], m.gates[out[j].AssignedGateID]
		return gi.GateNumber < gj.GateNumber
	})
	return out
}

// Gates lists mirrored gates sorted by gate number, with queue counts derived
// from the mirrored requests.
func (m *Mirror) Gates() []models.Gate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int)
	for _, r := range m.requests {
		if r.Status == models.StatusInQueue {
			counts[r.AssignedGateID]++
		}
	}
	out := make([]models.Gate, 0, len(m.gates))
	for _, g := range m.gates {
		g.QueueCount = counts[g.GateID]
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GateNumber < out[j].GateNumber })
	return out
}
