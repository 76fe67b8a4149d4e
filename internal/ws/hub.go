package ws

import (
	"log"
	"sync"

	"roomchat-service/internal/models"
	"roomchat-service/internal/observability"
)

// Hub tracks which sessions are subscribed to which room and fans events out
// to them. Rooms exist only while they have members.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Session]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Session]bool)}
}

// Join registers a session under a room. Idempotent per session.
func (h *Hub) Join(room string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Session]bool)
	}
	h.rooms[room][s] = true
}

// Leave removes a session from a room. No-op if already absent, which covers
// disconnect races.
func (h *Hub) Leave(room string, s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[room]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Members reports the current number of sessions in a room.
func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast delivers an event to every session in the room, including the
// sender. The member set is snapshotted so no lock is held during delivery.
// A session whose outbound queue cannot accept the event is logged, closed
// and skipped; one bad connection never blocks the room.
func (h *Hub) Broadcast(room string, event models.RoomEvent) {
	h.mu.RLock()
	members := make([]*Session, 0, len(h.rooms[room]))
	for s := range h.rooms[room] {
		members = append(members, s)
	}
	h.mu.RUnlock()

	for _, s := range members {
		if !s.enqueueEvent(event) {
			log.Printf("broadcast skip room=%s conn=%s kind=%s", room, s.info.ConnID, event.Kind)
			observability.IncBroadcastSkip(room)
			s.Close("outbound queue unavailable")
		}
	}
}
