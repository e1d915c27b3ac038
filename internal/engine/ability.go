package engine

import (
	"fmt"

	"github.com/hexfront/hexfront-backend/internal/board"
	"github.com/hexfront/hexfront-backend/internal/cards"
)

// Class abilities, one per class, once per unit per turn:
//
//	defender  entrench — the unit heals 3, capped at max health.
//	attacker  frenzy   — the unit deals 1 damage to every adjacent enemy.
//	bruiser   charge   — the unit leaps to an empty tile within 2 hexes.
//
// Charge does not consume the unit's move, and frenzy is not an attack:
// none of the three touch the move/attack tracking sets.

const (
	entrenchHeal = 3
	frenzyDamage = 1
	chargeRange  = 2
)

// ResolveAbility dispatches on the class of the champion at coord. The
// bruiser ability is the only one needing a second coordinate.
func ResolveAbility(s State, coord board.HexCoord, target *board.HexCoord) (State, error) {
	occ := s.championAt(coord)
	if occ == nil {
		return s, fmt.Errorf("%w: no champion at %v", ErrInvalidAbilityUsage, coord)
	}
	switch occ.Card.Class {
	case cards.ClassDefender:
		return ResolveDefenderAbility(s, coord)
	case cards.ClassAttacker:
		return ResolveAttackerAbility(s, coord)
	case cards.ClassBruiser:
		if target == nil {
			return s, fmt.Errorf("%w: bruiser ability needs a target tile", ErrInvalidAbilityUsage)
		}
		return ResolveBruiserAbility(s, coord, *target)
	default:
		return s, fmt.Errorf("%w: unknown class %q", ErrInvalidAbilityUsage, occ.Card.Class)
	}
}

// abilityUnit validates the shared preconditions: turn phase, own unit at
// coord, ability not yet used this turn.
func abilityUnit(s *State, coord board.HexCoord) (*BoardChampion, error) {
	if s.Phase != PhaseTurn {
		return nil, ErrWrongPhase
	}
	occ := s.championAt(coord)
	if occ == nil {
		return nil, fmt.Errorf("%w: no champion at %v", ErrInvalidAbilityUsage, coord)
	}
	if occ.PlayerID != s.currentPlayer().ID {
		return nil, fmt.Errorf("%w: champion at %v is not yours", ErrInvalidAbilityUsage, coord)
	}
	if _, used := s.UsedAbilityChampions[occ.Card.ID]; used {
		return nil, fmt.Errorf("%w: %s already used its ability this turn", ErrInvalidAbilityUsage, occ.Card.Name)
	}
	return occ, nil
}

// ResolveDefenderAbility entrenches the defender at coord: heal 3, capped
// at max health.
func ResolveDefenderAbility(s State, coord board.HexCoord) (State, error) {
	occ, err := abilityUnit(&s, coord)
	if err != nil {
		return s, err
	}
	if occ.Card.Class != cards.ClassDefender {
		return s, fmt.Errorf("%w: %s is not a defender", ErrInvalidAbilityUsage, occ.Card.Name)
	}

	ns := s.Clone()
	unit := ns.Board[coord].Occupant
	unit.CurrentHealth += entrenchHeal
	if unit.CurrentHealth > unit.Card.MaxHealth {
		unit.CurrentHealth = unit.Card.MaxHealth
	}
	ns.UsedAbilityChampions[unit.Card.ID] = struct{}{}
	ns.TurnActionType = "ability"
	ns.Log = append(ns.Log, fmt.Sprintf("%s entrenched (%d/%d health)", unit.Card.Name, unit.CurrentHealth, unit.Card.MaxHealth))
	return ns, nil
}

// ResolveAttackerAbility unleashes a frenzy: 1 damage to every enemy on a
// tile adjacent to coord. Kills discard as usual but grant no
// capture-advance.
func ResolveAttackerAbility(s State, coord board.HexCoord) (State, error) {
	occ, err := abilityUnit(&s, coord)
	if err != nil {
		return s, err
	}
	if occ.Card.Class != cards.ClassAttacker {
		return s, fmt.Errorf("%w: %s is not an attacker", ErrInvalidAbilityUsage, occ.Card.Name)
	}

	ns := s.Clone()
	unit := ns.Board[coord].Occupant
	hit := 0
	for _, n := range coord.Neighbors() {
		enemy := ns.championAt(n)
		if enemy == nil || enemy.PlayerID == unit.PlayerID {
			continue
		}
		enemy.CurrentHealth -= frenzyDamage
		hit++
		if enemy.CurrentHealth <= 0 {
			ns.Log = append(ns.Log, fmt.Sprintf("%s's frenzy destroyed %s", unit.Card.Name, enemy.Card.Name))
			destroyChampion(&ns, n)
		}
	}
	ns.UsedAbilityChampions[unit.Card.ID] = struct{}{}
	ns.TurnActionType = "ability"
	ns.Log = append(ns.Log, fmt.Sprintf("%s frenzied, hitting %d enemies", unit.Card.Name, hit))
	return ns, nil
}

// ResolveBruiserAbility charges the bruiser at coord to an empty board
// tile within 2 hexes. The charge is free movement: it does not mark the
// unit as moved.
func ResolveBruiserAbility(s State, coord, target board.HexCoord) (State, error) {
	occ, err := abilityUnit(&s, coord)
	if err != nil {
		return s, err
	}
	if occ.Card.Class != cards.ClassBruiser {
		return s, fmt.Errorf("%w: %s is not a bruiser", ErrInvalidAbilityUsage, occ.Card.Name)
	}
	tile := s.tileAt(target)
	if tile == nil || tile.Occupant != nil {
		return s, fmt.Errorf("%w: %v is not an empty board tile", ErrInvalidAbilityUsage, target)
	}
	if d := board.Distance(coord, target); d < 1 || d > chargeRange {
		return s, fmt.Errorf("%w: %v is out of charge range", ErrInvalidAbilityUsage, target)
	}

	ns := s.Clone()
	unit := ns.Board[coord].Occupant
	moveOccupant(&ns, coord, target)
	ns.UsedAbilityChampions[unit.Card.ID] = struct{}{}
	ns.TurnActionType = "ability"
	ns.Log = append(ns.Log, fmt.Sprintf("%s charged to %v", unit.Card.Name, target))
	return ns, nil
}
