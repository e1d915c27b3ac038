package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hexfront/hexfront-backend/internal/hub"
	"github.com/hexfront/hexfront-backend/internal/ws"
)

// SetupRoutes builds the router with the hub injected into every handler.
func SetupRoutes(h *hub.Hub, log *zap.Logger, pollInterval time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/rooms", CreateRoom(h, log))
	r.Route("/rooms/{code}", func(r chi.Router) {
		r.Get("/", ReadRoom(h))
		r.Post("/join", JoinRoom(h))
		r.Post("/ready", ReadyRoom(h))
		r.Post("/start", StartRoom(h))
		r.Post("/actions", DispatchAction(h))
		r.Get("/stream", StreamRoom(h, pollInterval))
	})
	r.Get("/ws", ws.Handler(h, log))
	r.Get("/healthz", Healthz)
	return r
}
