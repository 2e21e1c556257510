package main

import (
	"sync"
	"testing"
	"time"

	"github.com/fogtable/fogtable/internal/protocol"
	"github.com/fogtable/fogtable/internal/ws"
)

type cameraRecorder struct {
	mu   sync.Mutex
	seen []protocol.CameraUpdate
}

func (r *cameraRecorder) emit(_ *ws.Session, u protocol.CameraUpdate) {
	r.mu.Lock()
	r.seen = append(r.seen, u)
	r.mu.Unlock()
}

func (r *cameraRecorder) updates() []protocol.CameraUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.CameraUpdate, len(r.seen))
	copy(out, r.seen)
	return out
}

func TestCameraThrottleCoalescesBurst(t *testing.T) {
	rec := &cameraRecorder{}
	th := newCameraThrottle(40*time.Millisecond, rec.emit)

	for i := 1; i <= 5; i++ {
		th.Offer(nil, protocol.CameraUpdate{MapID: "m1", Scale: float64(i)})
	}

	got := rec.updates()
	if len(got) != 1 {
		t.Fatalf("expected one immediate emit, got %d", len(got))
	}
	if got[0].Scale != 1 {
		t.Fatalf("first emit should be the leading update, got scale %v", got[0].Scale)
	}

	time.Sleep(120 * time.Millisecond)
	got = rec.updates()
	if len(got) != 2 {
		t.Fatalf("expected a single trailing flush, got %d emits", len(got))
	}
	if got[1].Scale != 5 {
		t.Fatalf("trailing flush should carry the newest update, got scale %v", got[1].Scale)
	}
}

func TestCameraThrottleTracksMapsIndependently(t *testing.T) {
	rec := &cameraRecorder{}
	th := newCameraThrottle(50*time.Millisecond, rec.emit)

	th.Offer(nil, protocol.CameraUpdate{MapID: "m1", Scale: 1})
	th.Offer(nil, protocol.CameraUpdate{MapID: "m2", Scale: 2})

	got := rec.updates()
	if len(got) != 2 {
		t.Fatalf("updates for distinct maps should not throttle each other, got %d emits", len(got))
	}
}

func TestCameraThrottleReopensAfterWindow(t *testing.T) {
	rec := &cameraRecorder{}
	th := newCameraThrottle(20*time.Millisecond, rec.emit)

	th.Offer(nil, protocol.CameraUpdate{MapID: "m1", Scale: 1})
	time.Sleep(60 * time.Millisecond)
	th.Offer(nil, protocol.CameraUpdate{MapID: "m1", Scale: 2})

	got := rec.updates()
	if len(got) != 2 {
		t.Fatalf("expected immediate emit after an idle window, got %d emits", len(got))
	}
	if got[1].Scale != 2 {
		t.Fatalf("unexpected second emit: %+v", got[1])
	}
}
