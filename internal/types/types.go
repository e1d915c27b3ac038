// Package types holds the client-facing wire shapes shared by the HTTP
// and websocket transports.
package types

import (
	"github.com/hexfront/hexfront-backend/internal/board"
	"github.com/hexfront/hexfront-backend/internal/engine"
	"github.com/hexfront/hexfront-backend/internal/store"
)

// Action is one tagged gameplay intent. Only the fields the given type
// needs are set; the room layer binds it to a seat before the engine sees
// it.
type Action struct {
	Type     string           `json:"type"` // draft|place|move|attack|deploy|ability|endTurn|interstitialContinue
	CardIDs  []string         `json:"cardIds,omitempty"`
	CardID   string           `json:"cardId,omitempty"`
	From     *board.HexCoord  `json:"from,omitempty"`
	To       *board.HexCoord  `json:"to,omitempty"`
	Position *board.HexCoord  `json:"position,omitempty"`
	Target   *board.HexCoord  `json:"target,omitempty"`
}

// ActionRequest is the body of POST /rooms/{code}/actions and of websocket
// client frames.
type ActionRequest struct {
	PlayerID string `json:"playerId"`
	Action   Action `json:"action"`
}

// CreateRoomRequest creates a room; the caller becomes the host in seat 0.
type CreateRoomRequest struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName,omitempty"`
	FactionID   string `json:"factionId"`
	Mode        string `json:"mode"` // "2p" | "3p"
	DeckID      string `json:"deckId,omitempty"`
}

type CreateRoomResponse struct {
	RoomID string `json:"roomId"`
}

type JoinRequest struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName,omitempty"`
	FactionID   string `json:"factionId"`
	DeckID      string `json:"deckId,omitempty"`
}

type JoinResponse struct {
	OK   bool `json:"ok"`
	Seat int  `json:"seat"`
}

type PlayerRequest struct {
	PlayerID string `json:"playerId"`
}

// RoomView is the read model served by the room read endpoint and pushed
// on every stream update.
type RoomView struct {
	Status    string             `json:"status"`
	Mode      int                `json:"mode"`
	Version   int64              `json:"version"`
	UpdatedAt string             `json:"updatedAt"`
	Players   []store.RoomPlayer `json:"players"`
	GameState *engine.WireState  `json:"gameState,omitempty"`
}

type ActionResponse struct {
	OK        bool              `json:"ok"`
	GameState *engine.WireState `json:"gameState,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ServerMessage is one websocket frame to the client.
type ServerMessage struct {
	Type  string    `json:"type"` // "update" | "error"
	Room  *RoomView `json:"room,omitempty"`
	Error string    `json:"error,omitempty"`
}
