package engine

import (
	"errors"
	"testing"

	"github.com/hexfront/hexfront-backend/internal/board"
)

func TestResolveAttackFormula(t *testing.T) {
	// Attacker attack=6 with a friendly neighbor (no lone wolf); defender
	// defense=4 with 1 friendly and 2 extra hostile neighbors:
	// effectiveAttack=6, effectiveDefense=4+1-2=3, damage=3.
	t.Run("supported defender arithmetic", func(t *testing.T) {
		from := board.HexCoord{Q: 0, R: 0}
		to := board.HexCoord{Q: 1, R: 0}
		s := newTurnState(t, map[board.HexCoord]*BoardChampion{
			from:          {Card: testCard("atk", 6, 2, 9), PlayerID: "p0"},
			{Q: -1, R: 0}: {Card: testCard("atk-friend", 3, 3, 5), PlayerID: "p0"},
			to:            {Card: testCard("def", 2, 4, 9), PlayerID: "p1"},
			{Q: 2, R: 0}:  {Card: testCard("def-friend", 3, 3, 5), PlayerID: "p1"},
			{Q: 1, R: -1}: {Card: testCard("hostile1", 3, 3, 5), PlayerID: "p0"},
			{Q: 0, R: 1}:  {Card: testCard("hostile2", 3, 3, 5), PlayerID: "p0"},
		})

		ns, err := ResolveAttack(s, from, to)
		if err != nil {
			t.Fatalf("ResolveAttack: %v", err)
		}
		cr := ns.LastCombatResult
		if cr == nil {
			t.Fatal("no combat result recorded")
		}
		if cr.LoneWolfBonus != 0 {
			t.Fatalf("lone wolf: got %d, want 0", cr.LoneWolfBonus)
		}
		if cr.EffectiveAttack != 6 || cr.EffectiveDefense != 3 || cr.Damage != 3 {
			t.Fatalf("arithmetic: got atk=%d def=%d dmg=%d, want 6/3/3",
				cr.EffectiveAttack, cr.EffectiveDefense, cr.Damage)
		}
		if got := ns.championAt(to).CurrentHealth; got != 6 {
			t.Fatalf("defender health: got %d, want 6", got)
		}
		if _, tracked := ns.AttackedChampions["atk"]; !tracked {
			t.Fatal("attack not tracked")
		}
	})

	// The destruction scenario: attack=5 lone wolf, defense=2 with no
	// support either way, health=4. effAtk=7, effDef=2, damage=5: the
	// defender dies, its card is discarded, and the attacker advances.
	t.Run("kill captures the tile", func(t *testing.T) {
		from := board.HexCoord{Q: 0, R: 0}
		to := board.HexCoord{Q: 1, R: 0}
		s := newTurnState(t, map[board.HexCoord]*BoardChampion{
			from: {Card: testCard("atk", 5, 2, 6), PlayerID: "p0"},
			to:   {Card: testCard("def", 2, 2, 9), PlayerID: "p1", CurrentHealth: 4},
		})

		ns, err := ResolveAttack(s, from, to)
		if err != nil {
			t.Fatalf("ResolveAttack: %v", err)
		}
		cr := ns.LastCombatResult
		if cr.LoneWolfBonus != 2 || cr.EffectiveAttack != 7 || cr.EffectiveDefense != 2 || cr.Damage != 5 {
			t.Fatalf("arithmetic: got lw=%d atk=%d def=%d dmg=%d, want 2/7/2/5",
				cr.LoneWolfBonus, cr.EffectiveAttack, cr.EffectiveDefense, cr.Damage)
		}
		if !cr.DefenderDestroyed {
			t.Fatal("defender should be destroyed")
		}
		occ := ns.championAt(to)
		if occ == nil || occ.Card.ID != "atk" {
			t.Fatal("attacker did not capture the vacated tile")
		}
		if ns.championAt(from) != nil {
			t.Fatal("attacker still at origin")
		}
		discard := ns.Players[1].DiscardPile
		if len(discard) != 1 || discard[0].ID != "def" {
			t.Fatalf("defender card not discarded: %v", discard)
		}
	})

	// Negative effective defense is allowed and increases damage.
	t.Run("unfloored defense", func(t *testing.T) {
		from := board.HexCoord{Q: 0, R: 0}
		to := board.HexCoord{Q: 1, R: 0}
		s := newTurnState(t, map[board.HexCoord]*BoardChampion{
			from:          {Card: testCard("atk", 4, 2, 9), PlayerID: "p0"},
			{Q: -1, R: 0}: {Card: testCard("buddy", 3, 3, 5), PlayerID: "p0"},
			{Q: 1, R: -1}: {Card: testCard("flank1", 3, 3, 5), PlayerID: "p0"},
			{Q: 0, R: 1}:  {Card: testCard("flank2", 3, 3, 5), PlayerID: "p0"},
			{Q: 2, R: -1}: {Card: testCard("flank3", 3, 3, 5), PlayerID: "p0"},
			to:            {Card: testCard("def", 2, 1, 20), PlayerID: "p1"},
		})

		ns, err := ResolveAttack(s, from, to)
		if err != nil {
			t.Fatalf("ResolveAttack: %v", err)
		}
		cr := ns.LastCombatResult
		// def=1, 0 friendly, 3 extra hostile: effDef=-2, damage=4-(-2)=6.
		if cr.EffectiveDefense != -2 || cr.Damage != 6 {
			t.Fatalf("got def=%d dmg=%d, want -2/6", cr.EffectiveDefense, cr.Damage)
		}
	})

	// Damage floors at zero: an outclassed attacker achieves nothing.
	t.Run("damage floor", func(t *testing.T) {
		from := board.HexCoord{Q: 0, R: 0}
		to := board.HexCoord{Q: 1, R: 0}
		s := newTurnState(t, map[board.HexCoord]*BoardChampion{
			from: {Card: testCard("atk", 1, 1, 5), PlayerID: "p0"},
			to:   {Card: testCard("def", 2, 8, 9), PlayerID: "p1"},
		})

		ns, err := ResolveAttack(s, from, to)
		if err != nil {
			t.Fatalf("ResolveAttack: %v", err)
		}
		if ns.LastCombatResult.Damage != 0 {
			t.Fatalf("damage: got %d, want 0", ns.LastCombatResult.Damage)
		}
		if got := ns.championAt(to).CurrentHealth; got != 9 {
			t.Fatalf("defender health changed: %d", got)
		}
	})
}

func TestResolveAttackPreconditions(t *testing.T) {
	from := board.HexCoord{Q: 0, R: 0}
	s := newTurnState(t, map[board.HexCoord]*BoardChampion{
		from:          {Card: testCard("atk", 5, 2, 6), PlayerID: "p0"},
		{Q: 1, R: 0}:  {Card: testCard("friend", 3, 3, 5), PlayerID: "p0"},
		{Q: 2, R: -2}: {Card: testCard("far", 2, 2, 5), PlayerID: "p1"},
	})

	cases := []struct {
		name string
		from board.HexCoord
		to   board.HexCoord
	}{
		{"empty target", from, board.HexCoord{Q: 0, R: -1}},
		{"friendly target", from, board.HexCoord{Q: 1, R: 0}},
		{"not adjacent", from, board.HexCoord{Q: 2, R: -2}},
		{"no attacker", board.HexCoord{Q: -1, R: 0}, from},
		{"enemy as attacker", board.HexCoord{Q: 2, R: -2}, from},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ns, err := ResolveAttack(s, tc.from, tc.to)
			if !errors.Is(err, ErrInvalidAttack) {
				t.Fatalf("got %v, want ErrInvalidAttack", err)
			}
			// Caller errors never mutate state.
			if ns.LastCombatResult != nil {
				t.Fatal("combat result recorded on failure")
			}
		})
	}

	t.Run("once per turn", func(t *testing.T) {
		ns := s.Clone()
		ns.AttackedChampions["atk"] = struct{}{}
		ns.Board[board.HexCoord{Q: 0, R: 1}].Occupant = &BoardChampion{
			Card: testCard("victim", 2, 2, 9), PlayerID: "p1", Position: board.HexCoord{Q: 0, R: 1}, CurrentHealth: 9,
		}
		if _, err := ResolveAttack(ns, from, board.HexCoord{Q: 0, R: 1}); !errors.Is(err, ErrInvalidAttack) {
			t.Fatalf("got %v, want ErrInvalidAttack", err)
		}
	})
}
