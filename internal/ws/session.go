package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/fogtable/fogtable/internal/protocol"
)

type State int

const (
	Disconnected State = iota
	AwaitingSnapshot
	Live
)

func (s State) String() string {
	switch s {
	case AwaitingSnapshot:
		return "awaiting-snapshot"
	case Live:
		return "live"
	default:
		return "disconnected"
	}
}

// Conn is the slice of a websocket connection the session writer needs.
// *websocket.Conn satisfies it.
type Conn interface {
	Write(ctx context.Context, typ websocket.MessageType, p []byte) error
	Close(code websocket.StatusCode, reason string) error
}

const (
	writeTimeout = 3 * time.Second
	outboxSize   = 64
)

// Session owns the outbound half of one client connection and its place in
// the sync state machine: a new session awaits a snapshot, a snapshot makes
// it live, a map change sends it back to awaiting. Incremental events only
// flow to live sessions; everything a session missed while not live is
// covered by the next snapshot.
type Session struct {
	Role protocol.Role

	conn Conn

	mu    sync.Mutex
	state State

	out  chan []byte
	done chan struct{}
}

func NewSession(conn Conn, role protocol.Role) *Session {
	s := &Session{
		Role:  role,
		conn:  conn,
		state: AwaitingSnapshot,
		out:   make(chan []byte, outboxSize),
		done:  make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SendSnapshot enqueues a snapshot message and marks the session live.
func (s *Session) SendSnapshot(msg []byte) bool {
	s.mu.Lock()
	if s.state == Disconnected {
		s.mu.Unlock()
		return false
	}
	s.state = Live
	s.mu.Unlock()
	return s.enqueue(msg)
}

// Deliver enqueues an incremental event; it is dropped unless the session is
// live. Dropping is safe: a non-live session gets a fresh snapshot before it
// sees incremental traffic again.
func (s *Session) Deliver(msg []byte) bool {
	s.mu.Lock()
	live := s.state == Live
	s.mu.Unlock()
	if !live {
		return false
	}
	return s.enqueue(msg)
}

// Send enqueues a message regardless of sync state; used for map-change
// notices that must reach even a session that is between snapshots.
func (s *Session) Send(msg []byte) bool {
	s.mu.Lock()
	dead := s.state == Disconnected
	s.mu.Unlock()
	if dead {
		return false
	}
	return s.enqueue(msg)
}

// AwaitSnapshot invalidates the session's live state, typically because the
// active map changed.
func (s *Session) AwaitSnapshot() {
	s.mu.Lock()
	if s.state == Live {
		s.state = AwaitingSnapshot
	}
	s.mu.Unlock()
}

// Close transitions to Disconnected and stops the writer. Safe to call more
// than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == Disconnected {
		s.mu.Unlock()
		return
	}
	s.state = Disconnected
	s.mu.Unlock()
	close(s.done)
	_ = s.conn.Close(websocket.StatusNormalClosure, "")
}

// enqueue never blocks; a full outbox drops the message. Camera updates are
// throttled upstream and fog actions survive via snapshot catch-up, so a
// slow reader degrades instead of stalling the GM.
func (s *Session) enqueue(msg []byte) bool {
	select {
	case s.out <- msg:
		return true
	case <-s.done:
		return false
	default:
		return false
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case msg := <-s.out:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := s.conn.Write(ctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}
