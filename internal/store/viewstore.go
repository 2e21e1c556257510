package store

import (
	"sync"

	"github.com/fogtable/fogtable/internal/protocol"
)

// ViewStore keeps the last known GM camera view per map. It is populated on
// every camera update, read when a client fetches a snapshot, and dropped
// when a map is deleted. Staleness is acceptable: the next GM update
// overwrites it, and the state is fully reconstructible from that update, so
// there is no other teardown.
type ViewStore struct {
	mu    sync.RWMutex
	views map[string]protocol.ViewState
}

func NewViewStore() *ViewStore {
	return &ViewStore{views: make(map[string]protocol.ViewState)}
}

func (v *ViewStore) Put(mapID string, view protocol.ViewState) {
	if mapID == "" {
		return
	}
	v.mu.Lock()
	v.views[mapID] = view
	v.mu.Unlock()
}

func (v *ViewStore) Get(mapID string) (protocol.ViewState, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	view, ok := v.views[mapID]
	return view, ok
}

func (v *ViewStore) Drop(mapID string) {
	v.mu.Lock()
	delete(v.views, mapID)
	v.mu.Unlock()
}

// Attach copies the last known view onto a record, if one exists.
func (v *ViewStore) Attach(rec protocol.MapRecord) protocol.MapRecord {
	if view, ok := v.Get(rec.ID); ok {
		rec.ViewState = &view
	}
	return rec
}
