package httpapi

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hexfront/hexfront-backend/internal/engine"
	"github.com/hexfront/hexfront-backend/internal/hub"
	"github.com/hexfront/hexfront-backend/internal/room"
	"github.com/hexfront/hexfront-backend/internal/store"
	"github.com/hexfront/hexfront-backend/internal/types"
)

// GenerateCode produces a short human-shareable room code.
func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNPQRSTUVWXYZ23456789"

	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(b[:]) &^ (1 << 63))
}

func CreateRoom(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorStatus(w, http.StatusBadRequest, "bad json")
			return
		}
		var mode int
		switch req.Mode {
		case "2p":
			mode = 2
		case "3p":
			mode = 3
		default:
			writeErrorStatus(w, http.StatusBadRequest, "mode must be 2p or 3p")
			return
		}
		if req.PlayerID == "" || req.FactionID == "" {
			writeErrorStatus(w, http.StatusBadRequest, "playerId and factionId are required")
			return
		}

		rec := &store.Room{
			Mode:          mode,
			Status:        store.StatusWaiting,
			HostPlayerID:  req.PlayerID,
			HostFactionID: req.FactionID,
			Seed:          randomSeed(),
			Players: []store.RoomPlayer{{
				Seat:        0,
				PlayerID:    req.PlayerID,
				DisplayName: req.DisplayName,
				FactionID:   req.FactionID,
				DeckID:      req.DeckID,
				IsReady:     true, // the host is ready by hosting
			}},
		}

		// Codes can collide; regenerate until the insert lands.
		for attempt := 0; ; attempt++ {
			code, err := GenerateCode()
			if err != nil {
				writeErrorStatus(w, http.StatusInternalServerError, "failed to generate code")
				return
			}
			rec.Code = code
			rec.Players[0].RoomCode = code
			err = h.Store().CreateRoom(r.Context(), rec)
			if err == nil {
				break
			}
			if !errors.Is(err, store.ErrAlreadyExists) || attempt >= 5 {
				log.Error("create room failed", zap.Error(err))
				writeErrorStatus(w, http.StatusInternalServerError, "failed to create room")
				return
			}
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.EnsureRoom{Record: rec, Reply: reply}
		if <-reply == nil {
			writeErrorStatus(w, http.StatusInternalServerError, "failed to open room")
			return
		}

		log.Info("room created", zap.String("room", rec.Code), zap.Int("mode", mode))
		writeJSON(w, http.StatusCreated, types.CreateRoomResponse{RoomID: rec.Code})
	}
}

func JoinRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.JoinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorStatus(w, http.StatusBadRequest, "bad json")
			return
		}
		if req.PlayerID == "" || req.FactionID == "" {
			writeErrorStatus(w, http.StatusBadRequest, "playerId and factionId are required")
			return
		}
		rm, err := h.Resolve(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}

		reply := make(chan room.JoinReply, 1)
		rm.Inbox() <- room.Join{
			PlayerID:    req.PlayerID,
			DisplayName: req.DisplayName,
			FactionID:   req.FactionID,
			DeckID:      req.DeckID,
			Reply:       reply,
		}
		res := <-reply
		if res.Err != nil {
			writeError(w, res.Err)
			return
		}
		writeJSON(w, http.StatusOK, types.JoinResponse{OK: true, Seat: res.Seat})
	}
}

func ReadyRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.PlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorStatus(w, http.StatusBadRequest, "bad json")
			return
		}
		rm, err := h.Resolve(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}

		reply := make(chan error, 1)
		rm.Inbox() <- room.Ready{PlayerID: req.PlayerID, Reply: reply}
		if err := <-reply; err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, types.ActionResponse{OK: true})
	}
}

func StartRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.PlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorStatus(w, http.StatusBadRequest, "bad json")
			return
		}
		rm, err := h.Resolve(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}

		reply := make(chan room.DispatchReply, 1)
		rm.Inbox() <- room.Start{PlayerID: req.PlayerID, Reply: reply}
		res := <-reply
		if res.Err != nil {
			writeError(w, res.Err)
			return
		}
		writeJSON(w, http.StatusOK, types.ActionResponse{OK: true, GameState: res.State})
	}
}

func DispatchAction(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErrorStatus(w, http.StatusBadRequest, "bad json")
			return
		}
		rm, err := h.Resolve(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}

		reply := make(chan room.DispatchReply, 1)
		rm.Inbox() <- room.Dispatch{PlayerID: req.PlayerID, Action: req.Action, Reply: reply}
		res := <-reply
		if res.Err != nil {
			writeError(w, res.Err)
			return
		}
		writeJSON(w, http.StatusOK, types.ActionResponse{OK: true, GameState: res.State})
	}
}

func ReadRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm, err := h.Resolve(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}

		reply := make(chan types.RoomView, 1)
		rm.Inbox() <- room.GetView{Reply: reply}
		writeJSON(w, http.StatusOK, <-reply)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg})
}

// writeError maps sentinel errors onto the HTTP status taxonomy:
// 400 validation/phase, 403 turn or membership violations, 404 unknown
// rooms, 409 status conflicts, 500 everything unexpected.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound) || errors.Is(err, engine.ErrUnknownPlayer):
		status = http.StatusNotFound
	case errors.Is(err, room.ErrForbidden) || errors.Is(err, room.ErrNotMember) ||
		errors.Is(err, room.ErrNotHost) || errors.Is(err, engine.ErrWrongTurn):
		status = http.StatusForbidden
	case errors.Is(err, room.ErrWrongStatus) || errors.Is(err, room.ErrRoomFull) ||
		errors.Is(err, room.ErrDuplicateFaction) || errors.Is(err, room.ErrNotAllReady) ||
		errors.Is(err, engine.ErrGameCompleted) || errors.Is(err, store.ErrVersionConflict):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrWrongPhase) || errors.Is(err, engine.ErrInvalidSelection) ||
		errors.Is(err, engine.ErrInvalidPlacement) || errors.Is(err, engine.ErrInvalidMove) ||
		errors.Is(err, engine.ErrInvalidAttack) || errors.Is(err, engine.ErrDeployUnavailable) ||
		errors.Is(err, engine.ErrInvalidAbilityUsage) || errors.Is(err, engine.ErrUnsupportedCommand):
		status = http.StatusBadRequest
	}
	writeErrorStatus(w, status, err.Error())
}
