package engine

import (
	"fmt"

	"github.com/hexfront/hexfront-backend/internal/board"
	"github.com/hexfront/hexfront-backend/internal/cards"
)

// MatchPlayer describes one seat at match start. Deck is the player's
// already-built, already-shuffled faction deck.
type MatchPlayer struct {
	ID          string
	FactionID   string
	FactionName string
	Deck        []cards.Card
}

// NewMatch bootstraps a match: generates the board, assigns spawn zones by
// seat, and drops into the first player's draft hand-off. Seat order is the
// order of players; CurrentPlayerIndex maps 1:1 to it.
func NewMatch(players []MatchPlayer, seed int64) (State, error) {
	if len(players) < 2 || len(players) > 3 {
		return State{}, fmt.Errorf("match needs 2 or 3 players, got %d", len(players))
	}

	zones, err := board.SpawnZones(len(players))
	if err != nil {
		return State{}, err
	}

	geo := board.New()
	tiles := make(map[board.HexCoord]*Tile)
	for _, c := range geo.Coords() {
		tiles[c] = &Tile{Coord: c, PointValue: geo.PointValue(c)}
	}

	s := State{
		Phase:                PhaseInterstitial,
		NextPhase:            PhaseDraft,
		Board:                tiles,
		CurrentPlayerIndex:   0,
		Winner:               -1,
		DraftSelections:      map[int][]cards.Card{},
		MovedChampions:       map[string]struct{}{},
		AttackedChampions:    map[string]struct{}{},
		UsedAbilityChampions: map[string]struct{}{},
		PlayerTurnCounts:     map[int]int{},
		Seed:                 seed,
	}

	for i, mp := range players {
		s.Players = append(s.Players, Player{
			ID:          mp.ID,
			FactionID:   mp.FactionID,
			FactionName: mp.FactionName,
			Hand:        []cards.Card{},
			DrawPile:    append([]cards.Card(nil), mp.Deck...),
			DiscardPile: []cards.Card{},
			SpawnZone:   append([]board.HexCoord(nil), zones[i]...),
		})
	}

	s.Log = append(s.Log, fmt.Sprintf("Match started with %d players", len(players)))
	return s, nil
}
