package mirror

import (
	"testing"

	"warehouse-pickup-api-server/internal/models"
	"warehouse-pickup-api-server/internal/socket"
)

func request(id string, status models.PickupStatus) models.PickupRequest {
	return models.PickupRequest{RequestID: id, Status: status}
}

func insertEvent(r models.PickupRequest) socket.Event {
	return socket.Event{Table: socket.TableRequests, Type: socket.EventInsert, Request: &r}
}

func updateEvent(r models.PickupRequest) socket.Event {
	return socket.Event{Table: socket.TableRequests, Type: socket.EventUpdate, Request: &r}
}

func deleteEvent(r models.PickupRequest) socket.Event {
	return socket.Event{Table: socket.TableRequests, Type: socket.EventDelete, Request: &r}
}

func TestApplyEventMergesByID(t *testing.T) {
	m := New()

	m.ApplyEvent(insertEvent(request("a", models.StatusPending)))
	m.ApplyEvent(insertEvent(request("b", models.StatusPending)))

	got, ok := m.RequestByID("a")
	if !ok || got.Status != models.StatusPending {
		t.Fatalf("after insert: %+v ok=%v", got, ok)
	}

	// UPDATE replaces the whole row.
	m.ApplyEvent(updateEvent(request("a", models.StatusApproved)))
	if got, _ := m.RequestByID("a"); got.Status != models.StatusApproved {
		t.Errorf("after update status = %s, want approved", got.Status)
	}

	// A repeated INSERT for a known id also replaces; deltas may be delivered
	// more than once.
	m.ApplyEvent(insertEvent(request("a", models.StatusInQueue)))
	if got, _ := m.RequestByID("a"); got.Status != models.StatusInQueue {
		t.Errorf("after re-insert status = %s, want in_queue", got.Status)
	}

	m.ApplyEvent(deleteEvent(request("a", models.StatusInQueue)))
	if _, ok := m.RequestByID("a"); ok {
		t.Error("request survived DELETE")
	}
	if len(m.Requests()) != 1 {
		t.Errorf("requests = %d, want 1", len(m.Requests()))
	}
}

func TestApplyEventUnknownIDIsNoOp(t *testing.T) {
	m := New()

	// UPDATE before the INSERT arrived: ignore rather than resurrect.
	m.ApplyEvent(updateEvent(request("ghost", models.StatusApproved)))
	if _, ok := m.RequestByID("ghost"); ok {
		t.Error("UPDATE for unknown id created a row")
	}

	m.ApplyEvent(deleteEvent(request("ghost", models.StatusApproved)))
	if len(m.Requests()) != 0 {
		t.Errorf("requests = %d, want 0", len(m.Requests()))
	}
}

func TestRequestsNewestFirst(t *testing.T) {
	m := New()
	m.ApplyEvent(insertEvent(request("old", models.StatusPending)))
	m.ApplyEvent(insertEvent(request("new", models.StatusPending)))

	got := m.Requests()
	if len(got) != 2 || got[0].RequestID != "new" || got[1].RequestID != "old" {
		t.Errorf("order = %v", []string{got[0].RequestID, got[1].RequestID})
	}
}

func TestResyncReplacesWholesale(t *testing.T) {
	m := New()
	m.ApplyEvent(insertEvent(request("stale", models.StatusPending)))

	// The resync payload is ground truth: rows absent from it disappear.
	m.ResyncRequests([]models.PickupRequest{
		request("b", models.StatusApproved),
		request("a", models.StatusPending),
	})

	if _, ok := m.RequestByID("stale"); ok {
		t.Error("stale row survived resync")
	}
	got := m.Requests()
	if len(got) != 2 || got[0].RequestID != "b" || got[1].RequestID != "a" {
		t.Errorf("resynced order = %+v", got)
	}
}

func TestQueueForAndProcessing(t *testing.T) {
	m := New()
	m.ResyncGates([]models.Gate{
		{GateID: "g1", GateNumber: 1, IsActive: true},
		{GateID: "g2", GateNumber: 2, IsActive: true},
	})

	two, one := 2, 1
	m.ResyncRequests([]models.PickupRequest{
		{RequestID: "q2", Status: models.StatusInQueue, AssignedGateID: "g1", QueuePosition: &two},
		{RequestID: "q1", Status: models.StatusInQueue, AssignedGateID: "g1", QueuePosition: &one},
		{RequestID: "p2", Status: models.StatusProcessing, AssignedGateID: "g2"},
		{RequestID: "p1", Status: models.StatusProcessing, AssignedGateID: "g1"},
		{RequestID: "done", Status: models.StatusCompleted},
	})

	q := m.QueueFor("g1")
	if len(q) != 2 || q[0].RequestID != "q1" || q[1].RequestID != "q2" {
		t.Errorf("QueueFor = %+v", q)
	}

	p := m.Processing()
	if len(p) != 2 || p[0].RequestID != "p1" || p[1].RequestID != "p2" {
		t.Errorf("Processing = %+v", p)
	}

	gates := m.Gates()
	if len(gates) != 2 {
		t.Fatalf("gates = %d, want 2", len(gates))
	}
	if gates[0].QueueCount != 2 || gates[1].QueueCount != 0 {
		t.Errorf("queue counts = %d, %d", gates[0].QueueCount, gates[1].QueueCount)
	}
}

func TestGateEvents(t *testing.T) {
	m := New()
	g := models.Gate{GateID: "g1", GateNumber: 1, IsActive: true}
	m.ApplyEvent(socket.Event{Table: socket.TableGates, Type: socket.EventInsert, Gate: &g})

	renamed := g
	renamed.GateNumber = 7
	m.ApplyEvent(socket.Event{Table: socket.TableGates, Type: socket.EventUpdate, Gate: &renamed})
	if gates := m.Gates(); len(gates) != 1 || gates[0].GateNumber != 7 {
		t.Errorf("gates after update = %+v", gates)
	}

	m.ApplyEvent(socket.Event{Table: socket.TableGates, Type: socket.EventDelete, Gate: &renamed})
	if gates := m.Gates(); len(gates) != 0 {
		t.Errorf("gates after delete = %+v", gates)
	}
}
