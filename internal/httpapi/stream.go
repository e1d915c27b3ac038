package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hexfront/hexfront-backend/internal/hub"
	"github.com/hexfront/hexfront-backend/internal/room"
	"github.com/hexfront/hexfront-backend/internal/types"
)

// StreamRoom serves the server-push stream as SSE. Updates arrive from the
// room actor's broadcast; a version check suppresses redundant payloads,
// and a periodic comment keeps intermediaries from closing the idle
// connection. Clients without SSE support poll the read endpoint instead.
func StreamRoom(h *hub.Hub, keepAlive time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeErrorStatus(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}
		rm, err := h.Resolve(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		out := make(chan types.RoomView, 8)
		clientID := uuid.NewString()
		rm.Inbox() <- room.Subscribe{ClientID: clientID, Outbox: out}
		defer func() { rm.Inbox() <- room.Unsubscribe{ClientID: clientID} }()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		lastVersion := int64(-1)
		for {
			select {
			case <-r.Context().Done():
				return

			case <-ticker.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()

			case view, open := <-out:
				if !open {
					// Room shut down underneath us.
					fmt.Fprint(w, "event: error\ndata: {\"message\":\"room closed\"}\n\n")
					flusher.Flush()
					return
				}
				if view.Version == lastVersion {
					continue
				}
				lastVersion = view.Version
				payload, err := json.Marshal(view)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: update\ndata: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}
