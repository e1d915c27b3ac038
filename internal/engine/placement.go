package engine

import (
	"fmt"

	"github.com/hexfront/hexfront-backend/internal/board"
)

// PlaceChampion puts one hand card onto a spawn-zone tile during the
// placement phase. Each player places exactly one champion in this phase;
// the rest of the hand deploys later during turns.
func PlaceChampion(s State, playerIndex int, cardID string, position board.HexCoord) (State, error) {
	if s.Phase != PhasePlacement {
		return s, ErrWrongPhase
	}
	if playerIndex != s.CurrentPlayerIndex {
		return s, ErrWrongTurn
	}

	player := &s.Players[playerIndex]
	if hasPlaced(&s, playerIndex) {
		return s, fmt.Errorf("%w: champion already placed this phase", ErrInvalidPlacement)
	}
	if !inSpawnZone(player, position) {
		return s, fmt.Errorf("%w: %v is outside the spawn zone", ErrInvalidPlacement, position)
	}
	tile := s.tileAt(position)
	if tile == nil {
		return s, fmt.Errorf("%w: %v is off the board", ErrInvalidPlacement, position)
	}
	if tile.Occupant != nil {
		return s, fmt.Errorf("%w: %v is occupied", ErrInvalidPlacement, position)
	}
	handIdx := handIndex(player, cardID)
	if handIdx < 0 {
		return s, fmt.Errorf("%w: card %s not in hand", ErrInvalidPlacement, cardID)
	}

	ns := s.Clone()
	np := &ns.Players[playerIndex]
	card := np.Hand[handIdx]
	np.Hand = append(np.Hand[:handIdx], np.Hand[handIdx+1:]...)
	ns.Board[position].Occupant = &BoardChampion{
		Card:          card,
		PlayerID:      np.ID,
		Position:      position,
		CurrentHealth: card.Health,
	}
	ns.Log = append(ns.Log, fmt.Sprintf("%s placed %s at %v", np.FactionName, card.Name, position))

	return advanceAfterPlacement(ns), nil
}

// advanceAfterPlacement hands off to the next unplaced player; once every
// player has a champion down, the opening turn order is ranked by total
// defense on the board and the first round begins.
func advanceAfterPlacement(s State) State {
	for i := range s.Players {
		if !hasPlaced(&s, i) {
			s.Phase = PhaseInterstitial
			s.NextPhase = PhasePlacement
			s.CurrentPlayerIndex = i
			return s
		}
	}

	s.TurnOrder = computeTurnOrder(&s)
	s.TurnOrderIndex = 0
	s.TurnNumber = 0
	s.Phase = PhaseInterstitial
	s.NextPhase = PhaseTurn
	s.CurrentPlayerIndex = s.TurnOrder[0]
	return s
}

func hasPlaced(s *State, playerIndex int) bool {
	return len(s.playerChampions(s.Players[playerIndex].ID)) > 0
}

func inSpawnZone(p *Player, c board.HexCoord) bool {
	for _, z := range p.SpawnZone {
		if z == c {
			return true
		}
	}
	return false
}

func handIndex(p *Player, cardID string) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}
