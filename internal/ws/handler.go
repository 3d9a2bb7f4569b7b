package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"pokeduel/internal/registry"
	"pokeduel/internal/room"
	"pokeduel/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	// Turn-based play means long idle stretches between reads.
	readTimeout = 10 * time.Minute
)

// Handler upgrades a connection and shuttles intents to the registry and
// room actors. One reader loop per connection plus one writer goroutine
// draining the outbox the rooms broadcast into.
func Handler(reg *registry.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := randID(8)
		out := make(chan types.ServerMessage, 8)
		log := logger.With(zap.String("conn", connID))

		// Disconnect for any reason means leaving whatever room we sat in.
		defer func() { reg.Inbox() <- registry.Leave{ConnID: connID} }()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case msg := <-out:
					payload, err := json.Marshal(msg)
					if err != nil {
						continue
					}
					ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				out <- types.ServerMessage{Type: types.EvtError, Error: "bad json"}
				continue
			}

			handleIntent(reg, connID, out, cm, log)
		}
	}
}

func handleIntent(reg *registry.Registry, connID string, out chan types.ServerMessage, cm types.ClientMessage, log *zap.Logger) {
	switch cm.Type {
	case types.MsgCreateRoom:
		reply := make(chan registry.JoinReply, 1)
		reg.Inbox() <- registry.CreateRoom{ConnID: connID, Outbox: out, Reply: reply}
		if res := <-reply; res.Err != nil {
			out <- types.ServerMessage{Type: types.EvtError, Error: res.Err.Error()}
		}

	case types.MsgJoinRoom:
		reply := make(chan registry.JoinReply, 1)
		reg.Inbox() <- registry.JoinRoom{Code: cm.RoomCode, ConnID: connID, Outbox: out, Reply: reply}
		if res := <-reply; res.Err != nil {
			out <- types.ServerMessage{Type: types.EvtError, Error: res.Err.Error()}
		}

	case types.MsgLeaveRoom:
		reg.Inbox() <- registry.Leave{ConnID: connID}

	case types.MsgSelectPiece:
		if rm := routeToRoom(reg, connID); rm != nil {
			rm.Inbox() <- room.Select{ConnID: connID, PieceID: cm.PieceID}
		} else {
			out <- types.ServerMessage{Type: types.EvtError, Error: "not in a room"}
		}

	case types.MsgMovePiece:
		if rm := routeToRoom(reg, connID); rm != nil {
			rm.Inbox() <- room.Move{ConnID: connID, PieceID: cm.PieceID, TargetSpotID: cm.TargetSpotID}
		} else {
			out <- types.ServerMessage{Type: types.EvtError, Error: "not in a room"}
		}

	default:
		log.Debug("unknown intent", zap.String("type", cm.Type))
		out <- types.ServerMessage{Type: types.EvtError, Error: "unknown type"}
	}
}

func routeToRoom(reg *registry.Registry, connID string) *room.Room {
	reply := make(chan *room.Room, 1)
	reg.Inbox() <- registry.Route{ConnID: connID, Reply: reply}
	return <-reply
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
