package ws

import "sync"

// Hub tracks all live client sessions.
type Hub struct {
	mu       sync.Mutex
	sessions map[*Session]struct{}
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[*Session]struct{})}
}

func (h *Hub) Add(s *Session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s)
	h.mu.Unlock()
	s.Close()
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Broadcast delivers an incremental event to every live session.
func (h *Hub) Broadcast(msg []byte) {
	for _, s := range h.snapshot() {
		s.Deliver(msg)
	}
}

// BroadcastExcept delivers to every live session but the sender; fog and
// camera events originate from the GM, whose own client already applied them
// optimistically.
func (h *Hub) BroadcastExcept(sender *Session, msg []byte) {
	for _, s := range h.snapshot() {
		if s != sender {
			s.Deliver(msg)
		}
	}
}

// Each visits every session outside the hub lock; used to push snapshots
// after a map change.
func (h *Hub) Each(fn func(*Session)) {
	for _, s := range h.snapshot() {
		fn(s)
	}
}

func (h *Hub) snapshot() []*Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Session, 0, len(h.sessions))
	for s := range h.sessions {
		out = append(out, s)
	}
	return out
}
