package protocol

import "encoding/json"

// Intents are client-to-server messages on the live channel. Fog and camera
// intents reuse the event payload shapes; the GM is the only client expected
// to send them.
const (
	IntentJoinGame     = "join-game"
	IntentFogAction    = EventFogAction
	IntentCameraUpdate = EventCameraUpdate
	IntentMapChange    = EventMapChange
)

type IntentEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type Role string

const (
	RoleGM     Role = "gm"
	RolePlayer Role = "player"
)

type JoinGame struct {
	Role Role `json:"role"`
}
