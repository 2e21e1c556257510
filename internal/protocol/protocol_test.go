package protocol

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fogtable/fogtable/internal/fog"
)

// Clients written against the original backend send actions in this exact
// shape; the Go server must keep accepting them unchanged.
func TestFogActionWireFormatIsStable(t *testing.T) {
	raw := `{"mapId":"m1","action":{"tool":"brush","points":[0.5,0.5,0.6,0.55],"size":0.05,"id":"1716-abc","normalized":true}}`

	var evt FogAction
	if err := json.Unmarshal([]byte(raw), &evt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if evt.MapID != "m1" || evt.Action.Tool != fog.ToolBrush {
		t.Fatalf("unexpected decode: %+v", evt)
	}
	if !evt.Action.Normalized || evt.Action.PointCount() != 2 {
		t.Fatalf("geometry lost in decode: %+v", evt.Action)
	}

	out, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"mapId"`, `"tool"`, `"points"`, `"size"`, `"id"`, `"normalized"`} {
		if !strings.Contains(string(out), key) {
			t.Fatalf("wire format lost key %s: %s", key, out)
		}
	}
}

func TestBoundaryActionOmitsGeometryOnTheWire(t *testing.T) {
	out, err := json.Marshal(fog.Action{Tool: fog.ToolFill, ID: "f1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "points") || strings.Contains(string(out), "size") {
		t.Fatalf("boundary action must not carry geometry fields: %s", out)
	}
}

func TestSnapshotCarriesViewStateAndFogLog(t *testing.T) {
	rec := MapRecord{
		ID:      "m1",
		Name:    "crypt",
		Type:    MapTypeImage,
		URL:     "/uploads/crypt.png",
		FowInfo: fog.Log{{Tool: fog.ToolFill, ID: "f"}},
		ViewState: &ViewState{
			Scale:           1.5,
			ContainerWidth:  1280,
			ContainerHeight: 720,
		},
	}
	out, err := json.Marshal(Snapshot{Map: &rec})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"fowInfo"`, `"isActive"`, `"viewState"`, `"containerWidth"`} {
		if !strings.Contains(string(out), key) {
			t.Fatalf("snapshot missing key %s: %s", key, out)
		}
	}

	empty, err := json.Marshal(Snapshot{})
	if err != nil {
		t.Fatalf("marshal empty: %v", err)
	}
	if string(empty) != `{"map":null}` {
		t.Fatalf("no-active-map snapshot must be explicit: %s", empty)
	}
}
