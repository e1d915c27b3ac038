// Package room runs one actor goroutine per live room. The actor owns the
// room row and the deserialized game state, so the whole
// seat-check / engine-call / persist / broadcast sequence is serialized per
// room by construction. Concurrent clients talk to the inbox; nothing else
// touches the state.
package room

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hexfront/hexfront-backend/internal/cards"
	"github.com/hexfront/hexfront-backend/internal/engine"
	"github.com/hexfront/hexfront-backend/internal/store"
	"github.com/hexfront/hexfront-backend/internal/types"
)

var (
	ErrForbidden        = errors.New("not this seat's turn")
	ErrNotMember        = errors.New("player is not seated in this room")
	ErrRoomFull         = errors.New("room is full")
	ErrDuplicateFaction = errors.New("faction already taken")
	ErrWrongStatus      = errors.New("room is not in the required status")
	ErrNotHost          = errors.New("only the host can start the room")
	ErrNotAllReady      = errors.New("all seats must be filled and ready")
)

type Msg interface{ isRoomMsg() }

type Join struct {
	PlayerID    string
	DisplayName string
	FactionID   string
	DeckID      string
	Reply       chan JoinReply
}

type Ready struct {
	PlayerID string
	Reply    chan error
}

type Start struct {
	PlayerID string
	Reply    chan DispatchReply
}

type Dispatch struct {
	PlayerID string
	Action   types.Action
	Reply    chan DispatchReply
}

type Subscribe struct {
	ClientID string
	Outbox   chan types.RoomView
}

type Unsubscribe struct{ ClientID string }

type GetView struct {
	Reply chan types.RoomView
}

type Shutdown struct{}

func (Join) isRoomMsg()        {}
func (Ready) isRoomMsg()       {}
func (Start) isRoomMsg()       {}
func (Dispatch) isRoomMsg()    {}
func (Subscribe) isRoomMsg()   {}
func (Unsubscribe) isRoomMsg() {}
func (GetView) isRoomMsg()     {}
func (Shutdown) isRoomMsg()    {}

type JoinReply struct {
	Seat int
	Err  error
}

type DispatchReply struct {
	State *engine.WireState
	Err   error
}

// Room is the per-room actor.
type Room struct {
	inbox   chan Msg
	rec     *store.Room
	state   *engine.State // nil until the room starts
	clients map[string]chan types.RoomView

	store  store.Store
	source cards.Source
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New spawns the actor for an existing room record. A record loaded with
// serialized state (server restart mid-match) is rehydrated before the
// loop starts.
func New(parent context.Context, rec *store.Room, st store.Store, source cards.Source, log *zap.Logger) (*Room, error) {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		inbox:   make(chan Msg, 64),
		rec:     rec.Clone(),
		clients: make(map[string]chan types.RoomView),
		store:   st,
		source:  source,
		log:     log.With(zap.String("room", rec.Code)),
		ctx:     ctx,
		cancel:  cancel,
	}
	if len(rec.State) > 0 {
		s, err := engine.UnmarshalState(rec.State)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("rehydrate room %s: %w", rec.Code, err)
		}
		r.state = &s
	}
	go r.loop()
	return r, nil
}

// Inbox exposes the actor's mailbox to transports and tests.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				seat, err := r.handleJoin(msg)
				msg.Reply <- JoinReply{Seat: seat, Err: err}

			case Ready:
				msg.Reply <- r.handleReady(msg.PlayerID)

			case Start:
				ws, err := r.handleStart(msg.PlayerID)
				msg.Reply <- DispatchReply{State: ws, Err: err}

			case Dispatch:
				ws, err := r.handleDispatch(msg.PlayerID, msg.Action)
				msg.Reply <- DispatchReply{State: ws, Err: err}

			case Subscribe:
				r.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- r.view()

			case Unsubscribe:
				// Closing here releases writers ranging over the outbox;
				// the actor is the channel's only sender.
				if ch, ok := r.clients[msg.ClientID]; ok {
					close(ch)
					delete(r.clients, msg.ClientID)
				}

			case GetView:
				msg.Reply <- r.view()

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}

func (r *Room) broadcast() {
	v := r.view()
	for id, ch := range r.clients {
		select {
		case ch <- v:
		default:
			// Slow client: drop it rather than stall the room.
			close(ch)
			delete(r.clients, id)
		}
	}
}

func (r *Room) view() types.RoomView {
	v := types.RoomView{
		Status:    r.rec.Status,
		Mode:      r.rec.Mode,
		Version:   r.rec.Version,
		UpdatedAt: r.rec.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Players:   append([]store.RoomPlayer(nil), r.rec.Players...),
	}
	if r.state != nil {
		ws := r.state.ToWire()
		v.GameState = &ws
	}
	return v
}

func (r *Room) handleJoin(msg Join) (int, error) {
	if r.rec.Status != store.StatusWaiting {
		return -1, ErrWrongStatus
	}
	// Rejoin is idempotent: the seat is simply returned.
	if seat := r.rec.SeatOf(msg.PlayerID); seat >= 0 {
		return seat, nil
	}
	if len(r.rec.Players) >= r.rec.Mode {
		return -1, ErrRoomFull
	}
	for _, p := range r.rec.Players {
		if p.FactionID == msg.FactionID {
			return -1, ErrDuplicateFaction
		}
	}

	seat := len(r.rec.Players)
	r.rec.Players = append(r.rec.Players, store.RoomPlayer{
		RoomCode:    r.rec.Code,
		Seat:        seat,
		PlayerID:    msg.PlayerID,
		DisplayName: msg.DisplayName,
		FactionID:   msg.FactionID,
		DeckID:      msg.DeckID,
	})
	if err := r.persist(); err != nil {
		r.rec.Players = r.rec.Players[:seat]
		return -1, err
	}
	r.log.Info("player joined", zap.String("player", msg.PlayerID), zap.Int("seat", seat))
	r.broadcast()
	return seat, nil
}

func (r *Room) handleReady(playerID string) error {
	if r.rec.Status != store.StatusWaiting {
		return ErrWrongStatus
	}
	seat := r.rec.SeatOf(playerID)
	if seat < 0 {
		return ErrNotMember
	}
	if r.rec.Players[seat].IsReady {
		return nil
	}
	r.rec.Players[seat].IsReady = true
	if err := r.persist(); err != nil {
		r.rec.Players[seat].IsReady = false
		return err
	}
	r.broadcast()
	return nil
}

func (r *Room) handleStart(playerID string) (*engine.WireState, error) {
	if r.rec.Status != store.StatusWaiting {
		return nil, ErrWrongStatus
	}
	if playerID != r.rec.HostPlayerID {
		return nil, ErrNotHost
	}
	if len(r.rec.Players) != r.rec.Mode {
		return nil, ErrNotAllReady
	}
	for _, p := range r.rec.Players {
		if !p.IsReady {
			return nil, ErrNotAllReady
		}
	}

	matchPlayers := make([]engine.MatchPlayer, 0, len(r.rec.Players))
	for _, p := range r.rec.Players {
		recs, err := r.source.FactionChampions(p.FactionID)
		if err != nil {
			return nil, err
		}
		deck := cards.BuildDeck(p.FactionID, recs, r.rec.Seed+int64(p.Seat))
		matchPlayers = append(matchPlayers, engine.MatchPlayer{
			ID:          p.PlayerID,
			FactionID:   p.FactionID,
			FactionName: factionName(p.FactionID),
			Deck:        deck,
		})
	}

	s, err := engine.NewMatch(matchPlayers, r.rec.Seed)
	if err != nil {
		return nil, err
	}

	prevStatus := r.rec.Status
	r.rec.Status = store.StatusPlaying
	r.state = &s
	if err := r.persistState(); err != nil {
		r.rec.Status = prevStatus
		r.state = nil
		return nil, err
	}
	r.log.Info("match started", zap.Int("players", len(matchPlayers)))
	r.broadcast()
	ws := s.ToWire()
	return &ws, nil
}

func (r *Room) handleDispatch(playerID string, action types.Action) (*engine.WireState, error) {
	if r.rec.Status != store.StatusPlaying || r.state == nil {
		return nil, ErrWrongStatus
	}
	seat := r.rec.SeatOf(playerID)
	if seat < 0 {
		return nil, ErrNotMember
	}
	cmd, err := toCommand(action, seat)
	if err != nil {
		return nil, err
	}
	// Any seated player may continue their own hand-off; everything else
	// is gated to the active seat.
	if cmd.Type != engine.CmdInterstitialContinue && seat != r.state.CurrentPlayerIndex {
		return nil, ErrForbidden
	}

	next, err := engine.Apply(*r.state, cmd)
	if err != nil {
		return nil, err
	}

	prev := r.state
	prevStatus := r.rec.Status
	r.state = &next
	if next.Phase == engine.PhaseVictory {
		r.rec.Status = store.StatusFinished
	}
	if err := r.persistState(); err != nil {
		r.state = prev
		r.rec.Status = prevStatus
		return nil, err
	}

	r.log.Info("action applied",
		zap.String("player", playerID),
		zap.Int("seat", seat),
		zap.String("action", string(cmd.Type)),
		zap.String("phase", string(next.Phase)))
	r.broadcast()
	ws := next.ToWire()
	return &ws, nil
}

// persistState serializes the current engine state into the record and
// saves.
func (r *Room) persistState() error {
	data, err := engine.MarshalState(*r.state)
	if err != nil {
		return err
	}
	prev := r.rec.State
	r.rec.State = data
	if err := r.persist(); err != nil {
		r.rec.State = prev
		return err
	}
	return nil
}

func (r *Room) persist() error {
	if err := r.store.SaveRoom(r.ctx, r.rec); err != nil {
		r.log.Error("persist failed", zap.Error(err))
		return err
	}
	return nil
}

// toCommand maps a wire action to an engine command bound to the caller's
// seat.
func toCommand(a types.Action, seat int) (engine.Command, error) {
	cmd := engine.Command{
		PlayerIndex: seat,
		CardIDs:     a.CardIDs,
		CardID:      a.CardID,
		From:        a.From,
		To:          a.To,
		Position:    a.Position,
		Target:      a.Target,
	}
	switch a.Type {
	case "draft":
		cmd.Type = engine.CmdDraft
	case "place":
		cmd.Type = engine.CmdPlace
	case "move":
		cmd.Type = engine.CmdMove
	case "attack":
		cmd.Type = engine.CmdAttack
	case "deploy":
		cmd.Type = engine.CmdDeploy
	case "ability":
		cmd.Type = engine.CmdAbility
	case "endTurn":
		cmd.Type = engine.CmdEndTurn
	case "interstitialContinue":
		cmd.Type = engine.CmdInterstitialContinue
	default:
		return engine.Command{}, fmt.Errorf("%w: unknown action type %q", engine.ErrUnsupportedCommand, a.Type)
	}
	return cmd, nil
}

func factionName(id string) string {
	if id == "" {
		return ""
	}
	return strings.ToUpper(id[:1]) + id[1:]
}
