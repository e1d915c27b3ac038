package engine

import (
	"encoding/json"
	"sort"

	"github.com/hexfront/hexfront-backend/internal/board"
	"github.com/hexfront/hexfront-backend/internal/cards"
)

// The in-memory State carries maps and sets that do not survive generic
// JSON encoding. WireState is the exact, lossless transport/storage shape:
// the draft-selection map becomes sorted [seat, cards] pairs, each
// tracking set a sorted member slice, and the board a tile array. This is
// the single most error-prone seam in the system; keep ToWire and ToState
// in strict lockstep and covered by round-trip tests.

type DraftSelectionPair struct {
	PlayerIndex int          `json:"playerIndex"`
	Cards       []cards.Card `json:"cards"`
}

type TurnCountPair struct {
	PlayerIndex int `json:"playerIndex"`
	Count       int `json:"count"`
}

type WireState struct {
	Phase                   Phase                `json:"phase"`
	Players                 []Player             `json:"players"`
	Board                   []Tile               `json:"board"`
	CurrentPlayerIndex      int                  `json:"currentPlayerIndex"`
	TurnNumber              int                  `json:"turnNumber"`
	TurnOrder               []int                `json:"turnOrder"`
	TurnOrderIndex          int                  `json:"turnOrderIndex"`
	Winner                  int                  `json:"winner"`
	NextPhase               Phase                `json:"nextPhase,omitempty"`
	DraftSelections         []DraftSelectionPair `json:"draftSelections"`
	SelectedChampionForMove string               `json:"selectedChampionForMove,omitempty"`
	MovedChampions          []string             `json:"movedChampions"`
	AttackedChampions       []string             `json:"attackedChampions"`
	UsedAbilityChampions    []string             `json:"usedAbilityChampions"`
	PlayerTurnCounts        []TurnCountPair      `json:"playerTurnCounts"`
	HasDeployedThisTurn     bool                 `json:"hasDeployedThisTurn"`
	HasDrawnThisTurn        bool                 `json:"hasDrawnThisTurn"`
	TurnActionType          string               `json:"turnActionType,omitempty"`
	LastCombatResult        *CombatResult        `json:"lastCombatResult,omitempty"`
	Log                     []string             `json:"log"`
	Seed                    int64                `json:"seed"`
}

// ToWire converts the state to its transport shape. Map and set fields are
// emitted in sorted order so equal states always serialize identically.
func (s State) ToWire() WireState {
	w := WireState{
		Phase:                   s.Phase,
		Players:                 make([]Player, len(s.Players)),
		CurrentPlayerIndex:      s.CurrentPlayerIndex,
		TurnNumber:              s.TurnNumber,
		TurnOrder:               append([]int{}, s.TurnOrder...),
		TurnOrderIndex:          s.TurnOrderIndex,
		Winner:                  s.Winner,
		NextPhase:               s.NextPhase,
		SelectedChampionForMove: s.SelectedChampionForMove,
		MovedChampions:          sortedMembers(s.MovedChampions),
		AttackedChampions:       sortedMembers(s.AttackedChampions),
		UsedAbilityChampions:    sortedMembers(s.UsedAbilityChampions),
		HasDeployedThisTurn:     s.HasDeployedThisTurn,
		HasDrawnThisTurn:        s.HasDrawnThisTurn,
		TurnActionType:          s.TurnActionType,
		Log:                     append([]string{}, s.Log...),
		Seed:                    s.Seed,
	}
	copy(w.Players, s.Players)

	cs := make([]board.HexCoord, 0, len(s.Board))
	for c := range s.Board {
		cs = append(cs, c)
	}
	sortCoords(cs)
	for _, c := range cs {
		w.Board = append(w.Board, *s.Board[c])
	}

	for idx, sel := range s.DraftSelections {
		w.DraftSelections = append(w.DraftSelections, DraftSelectionPair{
			PlayerIndex: idx,
			Cards:       append([]cards.Card{}, sel...),
		})
	}
	sort.Slice(w.DraftSelections, func(i, j int) bool {
		return w.DraftSelections[i].PlayerIndex < w.DraftSelections[j].PlayerIndex
	})

	for idx, count := range s.PlayerTurnCounts {
		w.PlayerTurnCounts = append(w.PlayerTurnCounts, TurnCountPair{PlayerIndex: idx, Count: count})
	}
	sort.Slice(w.PlayerTurnCounts, func(i, j int) bool {
		return w.PlayerTurnCounts[i].PlayerIndex < w.PlayerTurnCounts[j].PlayerIndex
	})

	if s.LastCombatResult != nil {
		cr := *s.LastCombatResult
		w.LastCombatResult = &cr
	}
	return w
}

// ToState rebuilds the in-memory representation. Input ordering does not
// matter; pairs and members land back in maps and sets.
func (w WireState) ToState() State {
	s := State{
		Phase:                   w.Phase,
		Players:                 make([]Player, len(w.Players)),
		Board:                   make(map[board.HexCoord]*Tile, len(w.Board)),
		CurrentPlayerIndex:      w.CurrentPlayerIndex,
		TurnNumber:              w.TurnNumber,
		TurnOrder:               append([]int{}, w.TurnOrder...),
		TurnOrderIndex:          w.TurnOrderIndex,
		Winner:                  w.Winner,
		NextPhase:               w.NextPhase,
		DraftSelections:         make(map[int][]cards.Card, len(w.DraftSelections)),
		SelectedChampionForMove: w.SelectedChampionForMove,
		MovedChampions:          memberSet(w.MovedChampions),
		AttackedChampions:       memberSet(w.AttackedChampions),
		UsedAbilityChampions:    memberSet(w.UsedAbilityChampions),
		PlayerTurnCounts:        make(map[int]int, len(w.PlayerTurnCounts)),
		HasDeployedThisTurn:     w.HasDeployedThisTurn,
		HasDrawnThisTurn:        w.HasDrawnThisTurn,
		TurnActionType:          w.TurnActionType,
		Log:                     append([]string{}, w.Log...),
		Seed:                    w.Seed,
	}
	copy(s.Players, w.Players)

	for _, t := range w.Board {
		tile := t
		if t.Occupant != nil {
			occ := *t.Occupant
			tile.Occupant = &occ
		}
		s.Board[tile.Coord] = &tile
	}
	for _, pair := range w.DraftSelections {
		s.DraftSelections[pair.PlayerIndex] = append([]cards.Card{}, pair.Cards...)
	}
	for _, pair := range w.PlayerTurnCounts {
		s.PlayerTurnCounts[pair.PlayerIndex] = pair.Count
	}
	if w.LastCombatResult != nil {
		cr := *w.LastCombatResult
		s.LastCombatResult = &cr
	}
	return s
}

// MarshalState encodes a state to its wire JSON.
func MarshalState(s State) ([]byte, error) {
	return json.Marshal(s.ToWire())
}

// UnmarshalState decodes wire JSON back to an engine state.
func UnmarshalState(data []byte) (State, error) {
	var w WireState
	if err := json.Unmarshal(data, &w); err != nil {
		return State{}, err
	}
	return w.ToState(), nil
}

func sortedMembers(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func memberSet(members []string) map[string]struct{} {
	out := make(map[string]struct{}, len(members))
	for _, m := range members {
		out[m] = struct{}{}
	}
	return out
}
