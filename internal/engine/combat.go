package engine

import (
	"fmt"

	"github.com/hexfront/hexfront-backend/internal/board"
)

// loneWolfBonus is the attack bonus for a champion with no friendly
// neighbors.
const loneWolfBonus = 2

// ResolveAttack resolves one attack from the champion at from against the
// enemy at the adjacent tile to.
//
// The arithmetic: a lone attacker gets +2
// attack; the defender's defense shifts by its friendly minus hostile
// neighbor count (unfloored, so a surrounded defender can go negative);
// damage is the non-negative difference. A kill vacates the tile, sends
// the card to its owner's discard pile, and advances the attacker into
// the captured hex.
func ResolveAttack(s State, from, to board.HexCoord) (State, error) {
	if s.Phase != PhaseTurn {
		return s, ErrWrongPhase
	}
	attacker := s.championAt(from)
	if attacker == nil {
		return s, fmt.Errorf("%w: no champion at %v", ErrInvalidAttack, from)
	}
	if attacker.PlayerID != s.currentPlayer().ID {
		return s, fmt.Errorf("%w: champion at %v is not yours", ErrInvalidAttack, from)
	}
	if _, attacked := s.AttackedChampions[attacker.Card.ID]; attacked {
		return s, fmt.Errorf("%w: %s already attacked this turn", ErrInvalidAttack, attacker.Card.Name)
	}
	defender := s.championAt(to)
	if defender == nil {
		return s, fmt.Errorf("%w: no target at %v", ErrInvalidAttack, to)
	}
	if defender.PlayerID == attacker.PlayerID {
		return s, fmt.Errorf("%w: cannot attack a friendly champion", ErrInvalidAttack)
	}
	if board.Distance(from, to) != 1 {
		return s, fmt.Errorf("%w: %v is not adjacent to %v", ErrInvalidAttack, to, from)
	}

	ns := s.Clone()

	attackerFriends, _ := adjacentCounts(&ns, from, attacker.PlayerID)
	bonus := 0
	if attackerFriends == 0 {
		bonus = loneWolfBonus
	}
	effectiveAttack := attacker.Card.Attack + bonus

	defFriendly, defHostile := adjacentCounts(&ns, to, defender.PlayerID)
	if defHostile > 0 {
		// The attacker itself never counts against the defender; only
		// additional hostile neighbors strip support.
		defHostile--
	}
	effectiveDefense := defender.Card.Defense + defFriendly - defHostile

	damage := effectiveAttack - effectiveDefense
	if damage < 0 {
		damage = 0
	}

	target := ns.Board[to].Occupant
	target.CurrentHealth -= damage
	destroyed := target.CurrentHealth <= 0

	result := CombatResult{
		AttackerID:        attacker.Card.ID,
		DefenderID:        defender.Card.ID,
		AttackerPlayerID:  attacker.PlayerID,
		DefenderPlayerID:  defender.PlayerID,
		From:              from,
		To:                to,
		LoneWolfBonus:     bonus,
		EffectiveAttack:   effectiveAttack,
		EffectiveDefense:  effectiveDefense,
		Damage:            damage,
		DefenderDestroyed: destroyed,
	}

	if destroyed {
		destroyChampion(&ns, to)
		// Capture-advance: the attacker steps into the vacated tile. This
		// is the only movement an attack grants.
		moveOccupant(&ns, from, to)
		ns.Log = append(ns.Log, fmt.Sprintf("%s destroyed %s (%d damage) and captured %v",
			attacker.Card.Name, defender.Card.Name, damage, to))
	} else {
		ns.Log = append(ns.Log, fmt.Sprintf("%s hit %s for %d damage",
			attacker.Card.Name, defender.Card.Name, damage))
	}

	ns.AttackedChampions[attacker.Card.ID] = struct{}{}
	ns.LastCombatResult = &result
	ns.TurnActionType = "attack"
	return ns, nil
}

// destroyChampion removes the occupant at c and discards its card to the
// owner's pile.
func destroyChampion(s *State, c board.HexCoord) {
	occ := s.Board[c].Occupant
	if occ == nil {
		return
	}
	s.Board[c].Occupant = nil
	if idx, ok := s.playerIndexByID(occ.PlayerID); ok {
		s.Players[idx].DiscardPile = append(s.Players[idx].DiscardPile, occ.Card)
	}
}
