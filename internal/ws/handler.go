// Package ws is the websocket transport. Each connection subscribes to one
// room and receives the same view updates the SSE stream carries; frames
// sent by the client are dispatched as game actions.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hexfront/hexfront-backend/internal/hub"
	"github.com/hexfront/hexfront-backend/internal/room"
	"github.com/hexfront/hexfront-backend/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	readTimeout  = 60 * time.Second
)

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		rm, err := h.Resolve(r.Context(), code)
		if err != nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan types.RoomView, 8)
		clientID := uuid.NewString()

		rm.Inbox() <- room.Subscribe{ClientID: clientID, Outbox: out}
		defer func() { rm.Inbox() <- room.Unsubscribe{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for view := range out {
				view := view
				msg := types.ServerMessage{Type: "update", Room: &view}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (Unsubscribe in defer):
				return
			}

			var req types.ActionRequest
			if err := json.Unmarshal(data, &req); err != nil {
				writeError(writeCtx, conn, "bad json")
				continue
			}

			reply := make(chan room.DispatchReply, 1)
			rm.Inbox() <- room.Dispatch{PlayerID: req.PlayerID, Action: req.Action, Reply: reply}
			if res := <-reply; res.Err != nil {
				log.Debug("ws action rejected",
					zap.String("room", code),
					zap.String("player", req.PlayerID),
					zap.Error(res.Err))
				writeError(writeCtx, conn, res.Err.Error())
			}
			// Success needs no direct reply; the broadcast carries the new
			// state to every subscriber, this connection included.
		}
	}
}

func writeError(parent context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "error", Error: msg})
	ctx, cancel := context.WithTimeout(parent, writeTimeout)
	defer cancel()
	_ = conn.Write(ctx, websocket.MessageText, payload)
}
