// Package store persists rooms and their seats. The game state rides along
// as an opaque wire-JSON blob; the engine owns its meaning. Saves are
// guarded by an optimistic version check so two writers can never silently
// overwrite each other.
package store

import (
	"context"
	"errors"
	"time"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

var (
	ErrNotFound        = errors.New("room not found")
	ErrAlreadyExists   = errors.New("room already exists")
	ErrVersionConflict = errors.New("room version conflict")
)

// Room is the authoritative multiplayer container row. Version increments
// on every save and doubles as the change signal for streaming clients.
type Room struct {
	Code          string `gorm:"primaryKey;size:8" json:"code"`
	Mode          int    `gorm:"not null" json:"mode"`
	Status        string `gorm:"size:16;not null;index" json:"status"`
	HostPlayerID  string `gorm:"size:64;not null" json:"hostPlayerId"`
	HostFactionID string `gorm:"size:64" json:"hostFactionId"`
	Seed          int64  `json:"seed"`
	// State holds the serialized engine state; empty until the room starts.
	State     []byte       `gorm:"type:jsonb" json:"state,omitempty"`
	Version   int64        `gorm:"not null" json:"version"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Players   []RoomPlayer `gorm:"foreignKey:RoomCode;references:Code" json:"players"`
}

// RoomPlayer binds a human identity to a seat. Seat numbers map 1:1 onto
// the engine's player indexes.
type RoomPlayer struct {
	RoomCode    string `gorm:"primaryKey;size:8" json:"-"`
	Seat        int    `gorm:"primaryKey" json:"seat"`
	PlayerID    string `gorm:"size:64;not null;index" json:"playerId"`
	DisplayName string `gorm:"size:64" json:"displayName"`
	FactionID   string `gorm:"size:64;not null" json:"factionId"`
	DeckID      string `gorm:"size:64" json:"deckId,omitempty"`
	IsReady     bool   `json:"isReady"`
}

// Store is the room persistence boundary. Save rejects stale writes with
// ErrVersionConflict; callers re-read and retry the whole action.
type Store interface {
	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, code string) (*Room, error)
	// SaveRoom persists room if its Version still matches the stored row,
	// then bumps Version and UpdatedAt on the passed struct.
	SaveRoom(ctx context.Context, room *Room) error
	DeleteRoom(ctx context.Context, code string) error
}

// Clone deep-copies a room row so actor-owned and store-owned copies never
// alias.
func (r *Room) Clone() *Room {
	cp := *r
	cp.State = append([]byte(nil), r.State...)
	cp.Players = append([]RoomPlayer(nil), r.Players...)
	return &cp
}

// SeatOf resolves a player's seat, or -1 for non-members.
func (r *Room) SeatOf(playerID string) int {
	for _, p := range r.Players {
		if p.PlayerID == playerID {
			return p.Seat
		}
	}
	return -1
}
