package announcements

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
)

// Hub pushes the active announcement list to connected websocket clients.
// Every push is the full replacement list, so clients never reconcile
// deltas and a missed frame heals on the next one.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]struct{}
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		conns: make(map[*websocket.Conn]struct{}),
		log:   log,
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		_ = conn.Close()
	}
}

// Broadcast sends the list to every client, dropping connections that fail
// to take the write.
func (h *Hub) Broadcast(items []*model.Announcement) {
	payload, err := json.Marshal(map[string]any{
		"type":          "announcements",
		"announcements": items,
	})
	if err != nil {
		h.log.Warn("marshal announcement frame", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(h.conns, conn)
			_ = conn.Close()
		}
	}
}

// SendTo delivers the list to a single freshly connected client.
func (h *Hub) SendTo(conn *websocket.Conn, items []*model.Announcement) error {
	payload, err := json.Marshal(map[string]any{
		"type":          "announcements",
		"announcements": items,
	})
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
