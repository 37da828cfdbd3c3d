// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// client bọc một kết nối với mutex riêng: gorilla chỉ cho phép một writer
// tại một thời điểm trên mỗi connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(message []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// Hub quản lý tất cả các client WebSocket.
type Hub struct {
	// clients là một map để lưu trữ các kết nối, key là connection ID.
	clients map[string]*client
	// mu là một Mutex để đảm bảo an toàn khi truy cập map clients từ nhiều goroutine.
	mu sync.RWMutex
}

// NewHub tạo một Hub mới.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
	}
}

// Register thêm một client mới vào Hub.
func (h *Hub) Register(connID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[connID] = &client{conn: conn}
	log.Printf("WebSocket client registered: %s", connID)
}

// Unregister xóa một client khỏi Hub.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[connID]; ok {
		delete(h.clients, connID)
		log.Printf("WebSocket client unregistered: %s", connID)
	}
}

// Send gửi một tin nhắn đến một client cụ thể.
func (h *Hub) Send(connID string, message []byte) error {
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()

	if !ok {
		// Không tìm thấy client (có thể đã offline), không coi đây là lỗi nghiêm trọng.
		log.Printf("WebSocket client not found, could not send message: %s", connID)
		return nil
	}

	return c.write(message)
}

// Broadcast gửi một change event đến tất cả các client đang kết nối.
// Best-effort: một client lỗi không chặn các client còn lại; client bị mất
// event sẽ tự resync khi reconnect.
func (h *Hub) Broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to marshal change event: %v", err)
		return
	}

	h.mu.RLock()
	targets := make(map[string]*client, len(h.clients))
	for id, c := range h.clients {
		targets[id] = c
	}
	h.mu.RUnlock()

	for connID, c := range targets {
		if err := c.write(payload); err != nil {
			log.Printf("Broadcast to %s failed: %v", connID, err)
		}
	}
}
