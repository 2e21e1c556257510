package main

import (
	"sync"
	"time"

	"github.com/fogtable/fogtable/internal/protocol"
	"github.com/fogtable/fogtable/internal/ws"
)

// cameraThrottle coalesces camera updates into at most one broadcast per
// window per map, keeping only the newest update. The camera is absolute
// state, so dropped intermediates are harmless.
type cameraThrottle struct {
	window time.Duration
	emit   func(sender *ws.Session, u protocol.CameraUpdate)

	mu      sync.Mutex
	streams map[string]*throttleState
}

type throttleState struct {
	lastSent time.Time
	pending  *pendingCamera
	armed    bool
}

type pendingCamera struct {
	sender *ws.Session
	update protocol.CameraUpdate
}

func newCameraThrottle(window time.Duration, emit func(*ws.Session, protocol.CameraUpdate)) *cameraThrottle {
	return &cameraThrottle{
		window:  window,
		emit:    emit,
		streams: make(map[string]*throttleState),
	}
}

// Offer emits immediately when the map's window is open, otherwise replaces
// the pending update and arms a trailing flush.
func (t *cameraThrottle) Offer(sender *ws.Session, u protocol.CameraUpdate) {
	t.mu.Lock()
	st := t.streams[u.MapID]
	if st == nil {
		st = &throttleState{}
		t.streams[u.MapID] = st
	}
	now := time.Now()
	if !st.armed && now.Sub(st.lastSent) >= t.window {
		st.lastSent = now
		t.mu.Unlock()
		t.emit(sender, u)
		return
	}
	st.pending = &pendingCamera{sender: sender, update: u}
	if !st.armed {
		st.armed = true
		delay := t.window - now.Sub(st.lastSent)
		if delay < 0 {
			delay = 0
		}
		mapID := u.MapID
		time.AfterFunc(delay, func() { t.flush(mapID) })
	}
	t.mu.Unlock()
}

func (t *cameraThrottle) flush(mapID string) {
	t.mu.Lock()
	st := t.streams[mapID]
	if st == nil || st.pending == nil {
		if st != nil {
			st.armed = false
		}
		t.mu.Unlock()
		return
	}
	p := *st.pending
	st.pending = nil
	st.armed = false
	st.lastSent = time.Now()
	t.mu.Unlock()
	t.emit(p.sender, p.update)
}
