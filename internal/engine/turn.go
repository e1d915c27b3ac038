package engine

import (
	"fmt"
	"sort"

	"github.com/hexfront/hexfront-backend/internal/board"
)

// InterstitialContinue dismisses the hand-off screen and drops the current
// player into their pending phase. Entering the turn phase runs the
// turn-start bookkeeping (tracking sets cleared, turn counted, auto-draw).
func InterstitialContinue(s State) (State, error) {
	if s.Phase != PhaseInterstitial {
		return s, ErrWrongPhase
	}

	ns := s.Clone()
	switch ns.NextPhase {
	case PhaseDraft:
		ns.Phase = PhaseDraft
		// Surface the player's draft offer immediately so clients can
		// read it straight off the published state.
		if withOffer, _, err := GetDraftOptions(ns, ns.CurrentPlayerIndex); err == nil {
			ns = withOffer
		}
		return ns, nil
	case PhasePlacement:
		ns.Phase = PhasePlacement
		return ns, nil
	case PhaseTurn:
		return beginTurn(ns), nil
	default:
		return s, fmt.Errorf("%w: no pending phase", ErrWrongPhase)
	}
}

// beginTurn runs the start-of-turn sequence for the current player.
func beginTurn(s State) State {
	s.Phase = PhaseTurn
	s.MovedChampions = map[string]struct{}{}
	s.AttackedChampions = map[string]struct{}{}
	s.UsedAbilityChampions = map[string]struct{}{}
	s.SelectedChampionForMove = ""
	s.TurnActionType = ""
	s.HasDeployedThisTurn = false
	s.HasDrawnThisTurn = false
	s.PlayerTurnCounts[s.CurrentPlayerIndex]++
	return AutoDrawCard(s)
}

// AutoDrawCard draws one card for the current player if the hand has room
// and the pile has cards. Safe to call on an already-drawn turn: it only
// ever draws once per turn.
func AutoDrawCard(s State) State {
	player := s.currentPlayer()
	if s.HasDrawnThisTurn || len(player.Hand) >= HandLimit || len(player.DrawPile) == 0 {
		return s
	}
	ns := s.Clone()
	np := ns.currentPlayer()
	card := np.DrawPile[0]
	np.DrawPile = np.DrawPile[1:]
	np.Hand = append(np.Hand, card)
	ns.HasDrawnThisTurn = true
	return ns
}

// WillDeployBeAvailable reports whether the current player's present turn
// is a deploy-eligible one. Deploys unlock on each player's first turn and
// every other turn after that. Pure read.
func WillDeployBeAvailable(s State) bool {
	count := s.PlayerTurnCounts[s.CurrentPlayerIndex]
	if s.Phase != PhaseTurn {
		// Predicting for the upcoming turn, which will increment first.
		count++
	}
	return count%2 == 1
}

// MoveChampion steps a champion one hex. Each champion moves at most once
// per turn.
func MoveChampion(s State, from, to board.HexCoord) (State, error) {
	if s.Phase != PhaseTurn {
		return s, ErrWrongPhase
	}
	mover := s.championAt(from)
	if mover == nil {
		return s, fmt.Errorf("%w: no champion at %v", ErrInvalidMove, from)
	}
	if mover.PlayerID != s.currentPlayer().ID {
		return s, fmt.Errorf("%w: champion at %v is not yours", ErrInvalidMove, from)
	}
	if _, moved := s.MovedChampions[mover.Card.ID]; moved {
		return s, fmt.Errorf("%w: %s already moved this turn", ErrInvalidMove, mover.Card.Name)
	}
	dest := s.tileAt(to)
	if dest == nil {
		return s, fmt.Errorf("%w: %v is off the board", ErrInvalidMove, to)
	}
	if dest.Occupant != nil {
		return s, fmt.Errorf("%w: %v is occupied", ErrInvalidMove, to)
	}
	if board.Distance(from, to) != 1 {
		return s, fmt.Errorf("%w: %v is not adjacent to %v", ErrInvalidMove, to, from)
	}

	ns := s.Clone()
	moveOccupant(&ns, from, to)
	ns.MovedChampions[mover.Card.ID] = struct{}{}
	ns.TurnActionType = "move"
	return ns, nil
}

// PlayChampionFromHand deploys a hand card onto an empty hex adjacent to a
// friendly champion and not adjacent to any enemy. One deploy per eligible
// turn.
func PlayChampionFromHand(s State, cardID string, position board.HexCoord) (State, error) {
	if s.Phase != PhaseTurn {
		return s, ErrWrongPhase
	}
	if !WillDeployBeAvailable(s) || s.HasDeployedThisTurn {
		return s, ErrDeployUnavailable
	}
	player := s.currentPlayer()
	handIdx := handIndex(player, cardID)
	if handIdx < 0 {
		return s, fmt.Errorf("%w: card %s not in hand", ErrInvalidPlacement, cardID)
	}
	tile := s.tileAt(position)
	if tile == nil || tile.Occupant != nil {
		return s, fmt.Errorf("%w: %v is not an empty board tile", ErrInvalidPlacement, position)
	}
	friendly, hostile := adjacentCounts(&s, position, player.ID)
	if friendly == 0 {
		return s, fmt.Errorf("%w: %v is not adjacent to a friendly champion", ErrInvalidPlacement, position)
	}
	if hostile > 0 {
		return s, fmt.Errorf("%w: %v is adjacent to an enemy champion", ErrInvalidPlacement, position)
	}

	ns := s.Clone()
	np := ns.currentPlayer()
	card := np.Hand[handIdx]
	np.Hand = append(np.Hand[:handIdx], np.Hand[handIdx+1:]...)
	ns.Board[position].Occupant = &BoardChampion{
		Card:          card,
		PlayerID:      np.ID,
		Position:      position,
		CurrentHealth: card.Health,
	}
	ns.HasDeployedThisTurn = true
	ns.TurnActionType = "deploy"
	ns.Log = append(ns.Log, fmt.Sprintf("%s deployed %s at %v", np.FactionName, card.Name, position))
	return ns, nil
}

// EndTurn passes play to the next seat in turn order. Completing a full
// round scores occupied tiles, checks for a winner, and re-ranks the next
// round's order by score.
func EndTurn(s State) (State, error) {
	if s.Phase != PhaseTurn {
		return s, ErrWrongPhase
	}

	ns := s.Clone()
	markEliminations(&ns)

	if idx, only := soleSurvivor(&ns); only {
		return declareWinner(ns, idx), nil
	}

	next := ns.TurnOrderIndex + 1
	for next < len(ns.TurnOrder) && ns.Players[ns.TurnOrder[next]].IsEliminated {
		next++
	}

	if next >= len(ns.TurnOrder) {
		// Round boundary: score, check victory, re-rank.
		scoreRound(&ns)
		if idx, won := roundWinner(&ns); won {
			return declareWinner(ns, idx), nil
		}
		ns.TurnNumber++
		ns.TurnOrder = computeTurnOrder(&ns)
		ns.TurnOrderIndex = 0
	} else {
		ns.TurnOrderIndex = next
	}

	ns.CurrentPlayerIndex = ns.TurnOrder[ns.TurnOrderIndex]
	ns.Phase = PhaseInterstitial
	ns.NextPhase = PhaseTurn
	return ns, nil
}

// GetProjectedPoints is a pure read of the score playerID would gain if
// the round ended now: the sum of point values under their champions.
func GetProjectedPoints(s State, playerID string) (int, error) {
	if _, ok := s.playerIndexByID(playerID); !ok {
		return 0, ErrUnknownPlayer
	}
	total := 0
	for _, c := range boardCoords(&s) {
		tile := s.Board[c]
		if tile.Occupant != nil && tile.Occupant.PlayerID == playerID {
			total += tile.PointValue
		}
	}
	return total, nil
}

// scoreRound credits every player with their occupied tile values.
func scoreRound(s *State) {
	for i := range s.Players {
		if s.Players[i].IsEliminated {
			continue
		}
		pts, _ := GetProjectedPoints(*s, s.Players[i].ID)
		if pts > 0 {
			s.Players[i].Score += pts
			s.Log = append(s.Log, fmt.Sprintf("%s scored %d points (total %d)", s.Players[i].FactionName, pts, s.Players[i].Score))
		}
	}
}

// roundWinner picks the winner once any player has reached the winning
// score at a round boundary. Simultaneous qualifiers resolve to the higher
// score, then the lower seat.
func roundWinner(s *State) (int, bool) {
	best, found := -1, false
	for i := range s.Players {
		p := &s.Players[i]
		if p.IsEliminated || p.Score < WinningScore {
			continue
		}
		if !found || p.Score > s.Players[best].Score {
			best, found = i, true
		}
	}
	return best, found
}

// computeTurnOrder ranks the non-eliminated seats for the coming round.
// Round 0 ranks by total defense on the board; later rounds by score.
// Ties always break toward the lower seat.
func computeTurnOrder(s *State) []int {
	type ranked struct {
		seat int
		key  int
	}
	var rs []ranked
	for i := range s.Players {
		if s.Players[i].IsEliminated {
			continue
		}
		key := 0
		if s.TurnNumber == 0 {
			for _, bc := range s.playerChampions(s.Players[i].ID) {
				key += bc.Card.Defense
			}
		} else {
			key = s.Players[i].Score
		}
		rs = append(rs, ranked{seat: i, key: key})
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].key != rs[j].key {
			return rs[i].key > rs[j].key
		}
		return rs[i].seat < rs[j].seat
	})
	order := make([]int, len(rs))
	for i, r := range rs {
		order[i] = r.seat
	}
	return order
}

// markEliminations flags players with nothing left: no champions on the
// board, an empty hand, and an empty draw pile.
func markEliminations(s *State) {
	for i := range s.Players {
		p := &s.Players[i]
		if p.IsEliminated {
			continue
		}
		if len(s.playerChampions(p.ID)) == 0 && len(p.Hand) == 0 && len(p.DrawPile) == 0 {
			p.IsEliminated = true
			s.Log = append(s.Log, fmt.Sprintf("%s is eliminated", p.FactionName))
		}
	}
}

func soleSurvivor(s *State) (int, bool) {
	last, count := -1, 0
	for i := range s.Players {
		if !s.Players[i].IsEliminated {
			last = i
			count++
		}
	}
	return last, count == 1
}

func declareWinner(s State, playerIndex int) State {
	s.Phase = PhaseVictory
	s.Winner = playerIndex
	s.CurrentPlayerIndex = playerIndex
	s.Log = append(s.Log, fmt.Sprintf("%s wins the match", s.Players[playerIndex].FactionName))
	return s
}

// moveOccupant relocates a champion between tiles of the same state.
func moveOccupant(s *State, from, to board.HexCoord) {
	occ := s.Board[from].Occupant
	s.Board[from].Occupant = nil
	occ.Position = to
	s.Board[to].Occupant = occ
}

// adjacentCounts tallies friendly and hostile champions around a tile,
// from the perspective of playerID.
func adjacentCounts(s *State, c board.HexCoord, playerID string) (friendly, hostile int) {
	for _, n := range c.Neighbors() {
		occ := s.championAt(n)
		if occ == nil {
			continue
		}
		if occ.PlayerID == playerID {
			friendly++
		} else {
			hostile++
		}
	}
	return friendly, hostile
}
