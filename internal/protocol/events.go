package protocol

import (
	"github.com/fogtable/fogtable/internal/fog"
	"github.com/fogtable/fogtable/internal/geometry"
)

// Event types carried on the live channel. Delivery is at-least-once and
// ordering is only guaranteed within one event type.
const (
	EventSnapshot     = "snapshot"
	EventFogAction    = "fog-action"
	EventCameraUpdate = "camera-update"
	EventMapChange    = "map-change"
)

type EventEnvelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Snapshot is the catch-up payload sent when a client joins, reconnects, or
// the active map changes. A nil Map means "no active map"; that is an idle
// state, not an error.
type Snapshot struct {
	Map *MapRecord `json:"map"`
}

type FogAction struct {
	MapID  string     `json:"mapId"`
	Action fog.Action `json:"action"`
}

type CameraUpdate struct {
	MapID           string       `json:"mapId"`
	Scale           float64      `json:"scale"`
	Position        geometry.Vec `json:"position"`
	ContainerWidth  float64      `json:"containerWidth"`
	ContainerHeight float64      `json:"containerHeight"`
}

func (c CameraUpdate) ViewState() ViewState {
	return ViewState{
		Scale:           c.Scale,
		Position:        c.Position,
		ContainerWidth:  c.ContainerWidth,
		ContainerHeight: c.ContainerHeight,
	}
}

// MapChange announces that the active map switched (or was deleted, in which
// case MapID is empty). It invalidates all pending state for the previous
// map; receivers must re-snapshot.
type MapChange struct {
	MapID string `json:"mapId,omitempty"`
}
