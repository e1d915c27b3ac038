// Package hub is the registry actor that owns every live room actor,
// keyed by room code. Rooms are fully independent; the hub only
// creates, finds, and removes them.
package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hexfront/hexfront-backend/internal/cards"
	"github.com/hexfront/hexfront-backend/internal/room"
	"github.com/hexfront/hexfront-backend/internal/store"
	"github.com/hexfront/hexfront-backend/internal/types"
)

// sweepInterval paces the reaping of finished rooms. A room seen finished
// on two consecutive sweeps is shut down; its record stays in the store.
const sweepInterval = 5 * time.Minute

type HubMsg interface{ isHubMsg() }

// EnsureRoom spawns an actor for the given record unless one already
// exists; either way the live actor comes back on Reply.
type EnsureRoom struct {
	Record *store.Room
	Reply  chan *room.Room
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room // nil when no live actor exists
}

type RemoveRoom struct {
	Code string
}

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox    chan HubMsg
	rooms    map[string]*room.Room
	finished map[string]bool // rooms seen finished on the previous sweep
	store    store.Store
	source   cards.Source
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, st store.Store, source cards.Source, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		rooms:    make(map[string]*room.Room),
		finished: make(map[string]bool),
		store:    st,
		source:   source,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Store exposes the persistence backend so transports can fall back to a
// direct read (or revive a room actor after a restart).
func (h *Hub) Store() store.Store { return h.store }

func (h *Hub) loop() {
	sweep := time.NewTicker(sweepInterval)
	defer sweep.Stop()
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case <-sweep.C:
			h.reapFinished()

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				if r := h.rooms[msg.Record.Code]; r != nil {
					msg.Reply <- r
					break
				}
				r, err := room.New(h.ctx, msg.Record, h.store, h.source, h.log)
				if err != nil {
					h.log.Error("spawn room failed",
						zap.String("room", msg.Record.Code), zap.Error(err))
					msg.Reply <- nil
					break
				}
				h.rooms[msg.Record.Code] = r
				msg.Reply <- r

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code]

			case RemoveRoom:
				if r := h.rooms[msg.Code]; r != nil {
					r.Inbox() <- room.Shutdown{}
					delete(h.rooms, msg.Code)
					delete(h.finished, msg.Code)
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for code, r := range h.rooms {
		r.Inbox() <- room.Shutdown{}
		delete(h.rooms, code)
	}
	h.cancel()
}

// reapFinished shuts down actors for matches that ended at least one full
// sweep ago. The stored record survives; only the goroutine and its
// subscriber channels are released.
func (h *Hub) reapFinished() {
	for code, r := range h.rooms {
		reply := make(chan types.RoomView, 1)
		r.Inbox() <- room.GetView{Reply: reply}
		v := <-reply
		if v.Status != store.StatusFinished {
			delete(h.finished, code)
			continue
		}
		if !h.finished[code] {
			h.finished[code] = true
			continue
		}
		r.Inbox() <- room.Shutdown{}
		delete(h.rooms, code)
		delete(h.finished, code)
		h.log.Info("reaped finished room", zap.String("room", code))
	}
}

// Resolve finds the live actor for code, reviving it from storage when the
// process has restarted since the room was created.
func (h *Hub) Resolve(ctx context.Context, code string) (*room.Room, error) {
	reply := make(chan *room.Room, 1)
	h.inbox <- GetRoom{Code: code, Reply: reply}
	if r := <-reply; r != nil {
		return r, nil
	}

	rec, err := h.store.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	h.inbox <- EnsureRoom{Record: rec, Reply: reply}
	r := <-reply
	if r == nil {
		return nil, store.ErrNotFound
	}
	return r, nil
}
