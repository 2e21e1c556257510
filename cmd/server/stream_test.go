package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/fogtable/fogtable/internal/fog"
	"github.com/fogtable/fogtable/internal/protocol"
)

func dialStream(ctx context.Context, t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial stream: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func sendIntent(ctx context.Context, t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal intent payload: %v", err)
	}
	msg, err := json.Marshal(protocol.IntentEnvelope{Type: typ, Payload: raw})
	if err != nil {
		t.Fatalf("marshal intent: %v", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
		t.Fatalf("write intent: %v", err)
	}
}

func readEvent(ctx context.Context, t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read event: %v", err)
	}
	var env struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	return env.Type, env.Payload
}

func readSnapshot(ctx context.Context, t *testing.T, conn *websocket.Conn) protocol.Snapshot {
	t.Helper()
	typ, payload := readEvent(ctx, t, conn)
	if typ != protocol.EventSnapshot {
		t.Fatalf("expected snapshot, got %q", typ)
	}
	var snap protocol.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func TestStreamJoinDeliversSnapshot(t *testing.T) {
	_, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	m := createTestMap(t, h, "dungeon")
	if rec := doJSON(t, h, http.MethodPut, "/api/maps/"+m.ID+"/activate", nil); rec.Code != http.StatusOK {
		t.Fatalf("activate: status %d", rec.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	player := dialStream(ctx, t, srv)
	sendIntent(ctx, t, player, protocol.IntentJoinGame, protocol.JoinGame{Role: protocol.RolePlayer})

	snap := readSnapshot(ctx, t, player)
	if snap.Map == nil || snap.Map.ID != m.ID {
		t.Fatalf("snapshot should carry the active map, got %+v", snap.Map)
	}
}

func TestStreamJoinWithoutActiveMap(t *testing.T) {
	_, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	player := dialStream(ctx, t, srv)
	sendIntent(ctx, t, player, protocol.IntentJoinGame, protocol.JoinGame{Role: protocol.RolePlayer})

	if snap := readSnapshot(ctx, t, player); snap.Map != nil {
		t.Fatalf("expected null-map snapshot, got %+v", snap.Map)
	}
}

func TestStreamFogRelayDeduplicates(t *testing.T) {
	_, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	m := createTestMap(t, h, "dungeon")
	if rec := doJSON(t, h, http.MethodPut, "/api/maps/"+m.ID+"/activate", nil); rec.Code != http.StatusOK {
		t.Fatalf("activate: status %d", rec.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gm := dialStream(ctx, t, srv)
	sendIntent(ctx, t, gm, protocol.IntentJoinGame, protocol.JoinGame{Role: protocol.RoleGM})
	readSnapshot(ctx, t, gm)

	player := dialStream(ctx, t, srv)
	sendIntent(ctx, t, player, protocol.IntentJoinGame, protocol.JoinGame{Role: protocol.RolePlayer})
	readSnapshot(ctx, t, player)

	first := fog.Action{Tool: fog.ToolBrush, Points: []float64{0.2, 0.2}, Size: 0.05, ID: "f1", Normalized: true}
	second := fog.Action{Tool: fog.ToolBrush, Points: []float64{0.6, 0.6}, Size: 0.05, ID: "f2", Normalized: true}

	sendIntent(ctx, t, gm, protocol.IntentFogAction, protocol.FogAction{MapID: m.ID, Action: first})
	sendIntent(ctx, t, gm, protocol.IntentFogAction, protocol.FogAction{MapID: m.ID, Action: first})
	sendIntent(ctx, t, gm, protocol.IntentFogAction, protocol.FogAction{MapID: m.ID, Action: second})

	typ, payload := readEvent(ctx, t, player)
	if typ != protocol.EventFogAction {
		t.Fatalf("expected fog-action, got %q", typ)
	}
	var relayed protocol.FogAction
	if err := json.Unmarshal(payload, &relayed); err != nil {
		t.Fatalf("decode fog-action: %v", err)
	}
	if relayed.Action.ID != "f1" {
		t.Fatalf("expected f1 first, got %q", relayed.Action.ID)
	}

	typ, payload = readEvent(ctx, t, player)
	if typ != protocol.EventFogAction {
		t.Fatalf("expected fog-action, got %q", typ)
	}
	if err := json.Unmarshal(payload, &relayed); err != nil {
		t.Fatalf("decode fog-action: %v", err)
	}
	if relayed.Action.ID != "f2" {
		t.Fatalf("duplicate should be suppressed, got %q", relayed.Action.ID)
	}

	rec := doJSON(t, h, http.MethodGet, "/api/maps/"+m.ID, nil)
	var stored protocol.MapRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &stored); err != nil {
		t.Fatalf("decode map: %v", err)
	}
	if len(stored.FowInfo) != 2 {
		t.Fatalf("exactly two actions should persist, got %d", len(stored.FowInfo))
	}
}

func TestStreamMapChangePushesFreshSnapshot(t *testing.T) {
	_, h := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	a := createTestMap(t, h, "first")
	b := createTestMap(t, h, "second")
	if rec := doJSON(t, h, http.MethodPut, "/api/maps/"+a.ID+"/activate", nil); rec.Code != http.StatusOK {
		t.Fatalf("activate: status %d", rec.Code)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	player := dialStream(ctx, t, srv)
	sendIntent(ctx, t, player, protocol.IntentJoinGame, protocol.JoinGame{Role: protocol.RolePlayer})
	if snap := readSnapshot(ctx, t, player); snap.Map == nil || snap.Map.ID != a.ID {
		t.Fatalf("expected snapshot for first map")
	}

	if rec := doJSON(t, h, http.MethodPut, "/api/maps/"+b.ID+"/activate", nil); rec.Code != http.StatusOK {
		t.Fatalf("activate: status %d", rec.Code)
	}

	typ, payload := readEvent(ctx, t, player)
	if typ != protocol.EventMapChange {
		t.Fatalf("expected map-change, got %q", typ)
	}
	var change protocol.MapChange
	if err := json.Unmarshal(payload, &change); err != nil {
		t.Fatalf("decode map-change: %v", err)
	}
	if change.MapID != b.ID {
		t.Fatalf("map-change should name the new map, got %q", change.MapID)
	}

	if snap := readSnapshot(ctx, t, player); snap.Map == nil || snap.Map.ID != b.ID {
		t.Fatalf("fresh snapshot should carry the new map")
	}
}
