package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/coder/websocket"

	"github.com/fogtable/fogtable/internal/protocol"
	"github.com/fogtable/fogtable/internal/store"
	"github.com/fogtable/fogtable/internal/ws"
)

func (s *server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}
	sess := ws.NewSession(conn, protocol.RolePlayer)
	s.hub.Add(sess)
	go s.readLoop(conn, sess)
}

func (s *server) readLoop(conn *websocket.Conn, sess *ws.Session) {
	defer s.hub.Remove(sess)
	ctx := context.Background()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var env protocol.IntentEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		switch env.Type {
		case protocol.IntentJoinGame:
			var req protocol.JoinGame
			if err := json.Unmarshal(env.Payload, &req); err != nil {
				continue
			}
			if req.Role == protocol.RoleGM {
				sess.Role = protocol.RoleGM
			}
			snap, err := s.snapshotEvent(ctx)
			if err != nil {
				log.Printf("snapshot: %v", err)
				continue
			}
			sess.SendSnapshot(snap)

		case protocol.IntentFogAction:
			var req protocol.FogAction
			if err := json.Unmarshal(env.Payload, &req); err != nil || req.MapID == "" {
				continue
			}
			if err := req.Action.Validate(); err != nil {
				log.Printf("rejected fog action: %v", err)
				continue
			}
			s.mu.Lock()
			_, fresh := s.ledger.Apply(nil, req.Action)
			s.mu.Unlock()
			if !fresh {
				continue
			}
			if _, err := s.maps.AppendFow(ctx, req.MapID, req.Action); err != nil {
				log.Printf("append fog action: %v", err)
			}
			msg, err := json.Marshal(protocol.EventEnvelope{Type: protocol.EventFogAction, Payload: req})
			if err != nil {
				continue
			}
			s.hub.BroadcastExcept(sess, msg)

		case protocol.IntentCameraUpdate:
			var req protocol.CameraUpdate
			if err := json.Unmarshal(env.Payload, &req); err != nil || req.MapID == "" {
				continue
			}
			s.views.Put(req.MapID, req.ViewState())
			s.throttle.Offer(sess, req)

		case protocol.IntentMapChange:
			var req protocol.MapChange
			if err := json.Unmarshal(env.Payload, &req); err != nil {
				continue
			}
			s.announceMapChange(ctx, req.MapID)
		}
	}
}

func (s *server) broadcastCamera(sender *ws.Session, u protocol.CameraUpdate) {
	msg, err := json.Marshal(protocol.EventEnvelope{Type: protocol.EventCameraUpdate, Payload: u})
	if err != nil {
		return
	}
	s.hub.BroadcastExcept(sender, msg)
}

// snapshotEvent builds the catch-up message from the current active map. A
// missing active map yields a null-map snapshot, the idle state.
func (s *server) snapshotEvent(ctx context.Context) ([]byte, error) {
	var snap protocol.Snapshot
	rec, err := s.maps.ActiveMap(ctx)
	switch {
	case err == nil:
		rec = s.views.Attach(rec)
		snap.Map = &rec
	case errors.Is(err, store.ErrNotFound):
	default:
		return nil, err
	}
	return json.Marshal(protocol.EventEnvelope{Type: protocol.EventSnapshot, Payload: snap})
}

// announceMapChange invalidates every session, tells it the map switched, and
// pushes a fresh snapshot. An empty mapID means no map is active anymore.
func (s *server) announceMapChange(ctx context.Context, mapID string) {
	s.mu.Lock()
	s.ledger.Reset()
	if mapID != "" {
		if rec, err := s.maps.GetMap(ctx, mapID); err == nil {
			s.ledger.Seed(rec.FowInfo)
		}
	}
	s.mu.Unlock()

	change, err := json.Marshal(protocol.EventEnvelope{Type: protocol.EventMapChange, Payload: protocol.MapChange{MapID: mapID}})
	if err != nil {
		return
	}
	s.hub.Each(func(sess *ws.Session) {
		sess.AwaitSnapshot()
		sess.Send(change)
	})

	snap, err := s.snapshotEvent(ctx)
	if err != nil {
		log.Printf("snapshot: %v", err)
		return
	}
	s.hub.Each(func(sess *ws.Session) {
		sess.SendSnapshot(snap)
	})
}
