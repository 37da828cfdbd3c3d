// internal/mirror/subscriber.go
package mirror

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"warehouse-pickup-api-server/internal/socket"

	"github.com/gorilla/websocket"
)

// Status is the connection-state signal exposed to the viewer.
type Status string

const (
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
)

const (
	// pingPeriod must be comfortably below the server's 30s read deadline.
	pingPeriod     = 15 * time.Second
	reconnectDelay = 3 * time.Second
)

// Subscriber maintains a Mirror over the live change feed. On every
// (re)connect it discards the delta-built state and performs one full resync,
// which is treated as ground truth — events lost while disconnected or
// backgrounded can therefore never leave the projection permanently stale.
type Subscriber struct {
	url    string
	mirror *Mirror
	// resync reads authoritative state and replaces the mirror's contents.
	resync func(context.Context) error
	dialer *websocket.Dialer

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

func NewSubscriber(url string, m *Mirror, resync func(context.Context) error) *Subscriber {
	return &Subscriber{
		url:    url,
		mirror: m,
		resync: resync,
		dialer: websocket.DefaultDialer,
	}
}

// Subscribe starts the feed. onStatus receives every connection-state change;
// onEvent (optional) fires after each applied delta so a renderer can repaint.
// Calling Subscribe while already running is a no-op.
func (s *Subscriber) Subscribe(onStatus func(Status), onEvent func(socket.Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true
	go s.run(ctx, onStatus, onEvent)
}

// Unsubscribe tears down the live feed immediately. Safe to call multiple
// times and never blocks on the network.
func (s *Subscriber) Unsubscribe() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancel()
	s.running = false
}

func (s *Subscriber) run(ctx context.Context, onStatus func(Status), onEvent func(socket.Event)) {
	notify := func(st Status) {
		if onStatus != nil {
			onStatus(st)
		}
	}

	for {
		if ctx.Err() != nil {
			notify(StatusDisconnected)
			return
		}
		notify(StatusConnecting)

		conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
		if err != nil {
			notify(StatusError)
			if !sleepCtx(ctx, reconnectDelay) {
				notify(StatusDisconnected)
				return
			}
			continue
		}

		// Resync first: anything missed while away is healed here, and the
		// deltas that follow only have to keep us current from this point.
		if err := s.resync(ctx); err != nil {
			log.Printf("Mirror resync failed: %v", err)
			conn.Close()
			notify(StatusError)
			if !sleepCtx(ctx, reconnectDelay) {
				notify(StatusDisconnected)
				return
			}
			continue
		}
		notify(StatusConnected)

		s.readLoop(ctx, conn, onEvent)
		conn.Close()
		notify(StatusDisconnected)

		if !sleepCtx(ctx, reconnectDelay) {
			return
		}
	}
}

func (s *Subscriber) readLoop(ctx context.Context, conn *websocket.Conn, onEvent func(socket.Event)) {
	done := make(chan struct{})
	defer close(done)

	// The server drops connections that stay silent past its read deadline,
	// so keep pinging while we read. Also force the read below to fail fast
	// on Unsubscribe.
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				deadline := time.Now().Add(5 * time.Second)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return
				}
			case <-ctx.Done():
				conn.Close()
				return
			case <-done:
				return
			}
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				log.Printf("Feed connection lost: %v", err)
			}
			return
		}
		var ev socket.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			log.Printf("Ignoring malformed feed event: %v", err)
			continue
		}
		s.mirror.ApplyEvent(ev)
		if onEvent != nil {
			onEvent(ev)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
