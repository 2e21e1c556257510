package protocol

import (
	"time"

	"github.com/fogtable/fogtable/internal/fog"
	"github.com/fogtable/fogtable/internal/geometry"
)

type MapType string

const (
	MapTypeImage MapType = "image"
	MapTypeVideo MapType = "video"
)

type SoundCategory string

const (
	SoundAmbient SoundCategory = "ambient"
	SoundSFX     SoundCategory = "sfx"
)

// MapRecord is a stored map and its fog history. At most one record is
// active across the whole store at any time.
type MapRecord struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      MapType    `json:"type"`
	URL       string     `json:"url"`
	FowInfo   fog.Log    `json:"fowInfo"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	ViewState *ViewState `json:"viewState,omitempty"`
}

type SoundRecord struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	URL       string        `json:"url"`
	Category  SoundCategory `json:"category"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ViewState is the GM's last broadcast camera framing for one map. Container
// dimensions let a player recompute the GM's cover rect before letterboxing
// the whole frame into its own window.
type ViewState struct {
	Scale           float64      `json:"scale"`
	Position        geometry.Vec `json:"position"`
	ContainerWidth  float64      `json:"containerWidth,omitempty"`
	ContainerHeight float64      `json:"containerHeight,omitempty"`
}
