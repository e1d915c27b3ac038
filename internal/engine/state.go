// Package engine is the deterministic match state machine. Every operation
// takes a State value and returns a fresh one; callers never observe a
// partially applied transition. That discipline is what lets the room layer
// persist-and-broadcast without partial-update races.
package engine

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/hexfront/hexfront-backend/internal/board"
	"github.com/hexfront/hexfront-backend/internal/cards"
)

var (
	ErrWrongTurn           = errors.New("not this player's turn")
	ErrWrongPhase          = errors.New("action not legal in current phase")
	ErrInvalidSelection    = errors.New("invalid draft selection")
	ErrInvalidPlacement    = errors.New("invalid placement")
	ErrInvalidMove         = errors.New("invalid move")
	ErrInvalidAttack       = errors.New("invalid attack")
	ErrDeployUnavailable   = errors.New("deploy not available this turn")
	ErrInvalidAbilityUsage = errors.New("invalid ability usage")
	ErrGameCompleted       = errors.New("match already completed")
	ErrUnsupportedCommand  = errors.New("unsupported command")
	ErrUnknownPlayer       = errors.New("unknown player")
)

type Phase string

const (
	PhaseLobby        Phase = "lobby"
	PhaseDraft        Phase = "draft"
	PhasePlacement    Phase = "placement"
	PhaseInterstitial Phase = "interstitial"
	PhaseTurn         Phase = "turn"
	PhaseVictory      Phase = "victory"
)

// WinningScore ends the match at the first round boundary where a player
// has reached it.
const WinningScore = 75

// HandLimit caps every player's hand; excess draws are blocked.
const HandLimit = 5

// BoardChampion is a card standing on a tile. Its Card.ID doubles as the
// champion instance id in the per-turn tracking sets.
type BoardChampion struct {
	Card          cards.Card     `json:"card"`
	PlayerID      string         `json:"playerId"`
	Position      board.HexCoord `json:"position"`
	CurrentHealth int            `json:"currentHealth"`
}

// Tile is one board cell plus its occupant, if any. Coord and PointValue
// are fixed at generation; only Occupant ever changes, and only through
// engine operations.
type Tile struct {
	Coord      board.HexCoord `json:"coord"`
	PointValue int            `json:"pointValue"`
	Occupant   *BoardChampion `json:"occupant,omitempty"`
}

type Player struct {
	ID           string           `json:"id"`
	FactionID    string           `json:"factionId"`
	FactionName  string           `json:"factionName"`
	Hand         []cards.Card     `json:"hand"`
	DrawPile     []cards.Card     `json:"drawPile"`
	DiscardPile  []cards.Card     `json:"discardPile"`
	Score        int              `json:"score"`
	IsEliminated bool             `json:"isEliminated"`
	SpawnZone    []board.HexCoord `json:"spawnZone"`
}

// CombatResult records one resolved attack for the UI and the log. It is
// derivable from history and never feeds back into rules.
type CombatResult struct {
	AttackerID        string         `json:"attackerId"`
	DefenderID        string         `json:"defenderId"`
	AttackerPlayerID  string         `json:"attackerPlayerId"`
	DefenderPlayerID  string         `json:"defenderPlayerId"`
	From              board.HexCoord `json:"from"`
	To                board.HexCoord `json:"to"`
	LoneWolfBonus     int            `json:"loneWolfBonus"`
	EffectiveAttack   int            `json:"effectiveAttack"`
	EffectiveDefense  int            `json:"effectiveDefense"`
	Damage            int            `json:"damage"`
	DefenderDestroyed bool           `json:"defenderDestroyed"`
}

// State is the aggregate match state. Treat it as a value: engine
// operations clone it, mutate the clone, and hand the clone back.
type State struct {
	Phase              Phase
	Players            []Player
	Board              map[board.HexCoord]*Tile
	CurrentPlayerIndex int
	TurnNumber         int // completed-round counter, 0 during the first round
	TurnOrder          []int
	TurnOrderIndex     int
	Winner             int // player index, -1 until victory

	// NextPhase is only meaningful while Phase is interstitial: the phase
	// the current player enters on continue.
	NextPhase Phase

	DraftSelections map[int][]cards.Card

	SelectedChampionForMove string
	MovedChampions          map[string]struct{}
	AttackedChampions       map[string]struct{}
	UsedAbilityChampions    map[string]struct{}

	PlayerTurnCounts    map[int]int
	HasDeployedThisTurn bool
	HasDrawnThisTurn    bool
	TurnActionType      string

	LastCombatResult *CombatResult
	Log              []string

	// Seed drives every in-match random draw; it advances on use so the
	// whole match replays identically from the initial seed.
	Seed int64
}

// Clone deep-copies the state. Every mutating operation works on a clone.
func (s State) Clone() State {
	out := s

	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		cp := p
		cp.Hand = append([]cards.Card(nil), p.Hand...)
		cp.DrawPile = append([]cards.Card(nil), p.DrawPile...)
		cp.DiscardPile = append([]cards.Card(nil), p.DiscardPile...)
		cp.SpawnZone = append([]board.HexCoord(nil), p.SpawnZone...)
		out.Players[i] = cp
	}

	out.Board = make(map[board.HexCoord]*Tile, len(s.Board))
	for c, t := range s.Board {
		tile := *t
		if t.Occupant != nil {
			occ := *t.Occupant
			tile.Occupant = &occ
		}
		out.Board[c] = &tile
	}

	out.TurnOrder = append([]int(nil), s.TurnOrder...)
	out.MovedChampions = cloneSet(s.MovedChampions)
	out.AttackedChampions = cloneSet(s.AttackedChampions)
	out.UsedAbilityChampions = cloneSet(s.UsedAbilityChampions)

	out.PlayerTurnCounts = make(map[int]int, len(s.PlayerTurnCounts))
	for k, v := range s.PlayerTurnCounts {
		out.PlayerTurnCounts[k] = v
	}

	out.DraftSelections = make(map[int][]cards.Card, len(s.DraftSelections))
	for k, v := range s.DraftSelections {
		out.DraftSelections[k] = append([]cards.Card(nil), v...)
	}

	if s.LastCombatResult != nil {
		cr := *s.LastCombatResult
		out.LastCombatResult = &cr
	}
	out.Log = append([]string(nil), s.Log...)
	return out
}

func cloneSet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

// nextIntn draws a bounded pseudo-random number and advances the seed.
func (s *State) nextIntn(n int) int {
	rng := rand.New(rand.NewSource(s.Seed))
	v := rng.Intn(n)
	s.Seed = rng.Int63()
	return v
}

// tileAt returns the tile at c, or nil off the board.
func (s *State) tileAt(c board.HexCoord) *Tile {
	return s.Board[c]
}

// championAt returns the occupant at c, or nil.
func (s *State) championAt(c board.HexCoord) *BoardChampion {
	if t := s.Board[c]; t != nil {
		return t.Occupant
	}
	return nil
}

// playerChampions returns the current board champions owned by playerID.
func (s *State) playerChampions(playerID string) []*BoardChampion {
	var out []*BoardChampion
	for _, c := range boardCoords(s) {
		if occ := s.Board[c].Occupant; occ != nil && occ.PlayerID == playerID {
			out = append(out, occ)
		}
	}
	return out
}

// boardCoords returns the board coordinates in a stable order so that
// iteration-dependent logic stays deterministic.
func boardCoords(s *State) []board.HexCoord {
	out := make([]board.HexCoord, 0, len(s.Board))
	for c := range s.Board {
		out = append(out, c)
	}
	sortCoords(out)
	return out
}

func sortCoords(cs []board.HexCoord) {
	sort.Slice(cs, func(i, j int) bool { return coordLess(cs[i], cs[j]) })
}

func coordLess(a, b board.HexCoord) bool {
	if a.Q != b.Q {
		return a.Q < b.Q
	}
	return a.R < b.R
}

// currentPlayer panics off an invalid index; the engine maintains the
// invariant that CurrentPlayerIndex is always in range outside victory.
func (s *State) currentPlayer() *Player {
	return &s.Players[s.CurrentPlayerIndex]
}

func (s *State) playerIndexByID(id string) (int, bool) {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i, true
		}
	}
	return 0, false
}
