package engine

import (
	"errors"
	"testing"

	"github.com/hexfront/hexfront-backend/internal/board"
)

func TestDefenderEntrench(t *testing.T) {
	at := board.HexCoord{Q: 0, R: 0}
	s := newTurnState(t, map[board.HexCoord]*BoardChampion{
		at: {Card: testCard("wall", 2, 7, 7), PlayerID: "p0", CurrentHealth: 2},
	})

	ns, err := ResolveDefenderAbility(s, at)
	if err != nil {
		t.Fatalf("ResolveDefenderAbility: %v", err)
	}
	if got := ns.championAt(at).CurrentHealth; got != 5 {
		t.Fatalf("health after entrench: got %d, want 5", got)
	}
	if _, used := ns.UsedAbilityChampions["wall"]; !used {
		t.Fatal("ability use not tracked")
	}

	// Healing caps at max health.
	ns.UsedAbilityChampions = map[string]struct{}{}
	ns, err = ResolveDefenderAbility(ns, at)
	if err != nil {
		t.Fatal(err)
	}
	if got := ns.championAt(at).CurrentHealth; got != 7 {
		t.Fatalf("health after capped entrench: got %d, want 7", got)
	}
}

func TestAttackerFrenzy(t *testing.T) {
	at := board.HexCoord{Q: 0, R: 0}
	s := newTurnState(t, map[board.HexCoord]*BoardChampion{
		at:            {Card: testCard("reaver", 8, 2, 5), PlayerID: "p0"},
		{Q: 1, R: 0}:  {Card: testCard("e1", 3, 3, 5), PlayerID: "p1"},
		{Q: 0, R: 1}:  {Card: testCard("e2", 3, 3, 5), PlayerID: "p1", CurrentHealth: 1},
		{Q: -1, R: 0}: {Card: testCard("buddy", 3, 3, 5), PlayerID: "p0"},
	})

	ns, err := ResolveAttackerAbility(s, at)
	if err != nil {
		t.Fatalf("ResolveAttackerAbility: %v", err)
	}
	if got := ns.championAt(board.HexCoord{Q: 1, R: 0}).CurrentHealth; got != 4 {
		t.Fatalf("e1 health: got %d, want 4", got)
	}
	// e2 had 1 health: destroyed and discarded.
	if ns.championAt(board.HexCoord{Q: 0, R: 1}) != nil {
		t.Fatal("e2 should be destroyed")
	}
	if got := len(ns.Players[1].DiscardPile); got != 1 {
		t.Fatalf("discard pile: got %d cards, want 1", got)
	}
	// Friendlies untouched.
	if got := ns.championAt(board.HexCoord{Q: -1, R: 0}).CurrentHealth; got != 5 {
		t.Fatalf("buddy health: got %d, want 5", got)
	}
}

func TestBruiserCharge(t *testing.T) {
	at := board.HexCoord{Q: 0, R: 0}
	s := newTurnState(t, map[board.HexCoord]*BoardChampion{
		at:           {Card: testCard("ox", 5, 5, 6), PlayerID: "p0"},
		{Q: 1, R: 0}: {Card: testCard("blocker", 3, 3, 5), PlayerID: "p1"},
	})

	dest := board.HexCoord{Q: 2, R: -2}
	ns, err := ResolveBruiserAbility(s, at, dest)
	if err != nil {
		t.Fatalf("ResolveBruiserAbility: %v", err)
	}
	if occ := ns.championAt(dest); occ == nil || occ.Card.ID != "ox" {
		t.Fatal("bruiser did not arrive")
	}
	if ns.championAt(at) != nil {
		t.Fatal("origin still occupied")
	}
	// Charge is not a move: the unit may still move afterwards.
	if _, moved := ns.MovedChampions["ox"]; moved {
		t.Fatal("charge should not consume the move")
	}

	cases := []struct {
		name   string
		target board.HexCoord
	}{
		{"occupied", board.HexCoord{Q: 1, R: 0}},
		{"too far", board.HexCoord{Q: 3, R: 0}},
		{"off board", board.HexCoord{Q: 0, R: 4}},
		{"in place", at},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ResolveBruiserAbility(s, at, tc.target); !errors.Is(err, ErrInvalidAbilityUsage) {
				t.Fatalf("got %v, want ErrInvalidAbilityUsage", err)
			}
		})
	}
}

func TestAbilityDispatchAndGating(t *testing.T) {
	at := board.HexCoord{Q: 0, R: 0}
	bruiserAt := board.HexCoord{Q: -2, R: 0}
	s := newTurnState(t, map[board.HexCoord]*BoardChampion{
		at:        {Card: testCard("wall", 2, 7, 7), PlayerID: "p0", CurrentHealth: 3},
		bruiserAt: {Card: testCard("ox", 5, 5, 6), PlayerID: "p0"},
	})

	t.Run("dispatch by class", func(t *testing.T) {
		ns, err := ResolveAbility(s, at, nil)
		if err != nil {
			t.Fatalf("ResolveAbility: %v", err)
		}
		if got := ns.championAt(at).CurrentHealth; got != 6 {
			t.Fatalf("dispatched entrench: health %d, want 6", got)
		}
	})

	t.Run("bruiser needs a target", func(t *testing.T) {
		if _, err := ResolveAbility(s, bruiserAt, nil); !errors.Is(err, ErrInvalidAbilityUsage) {
			t.Fatalf("got %v, want ErrInvalidAbilityUsage", err)
		}
	})

	t.Run("empty tile", func(t *testing.T) {
		if _, err := ResolveAbility(s, board.HexCoord{Q: 2, R: 0}, nil); !errors.Is(err, ErrInvalidAbilityUsage) {
			t.Fatalf("got %v, want ErrInvalidAbilityUsage", err)
		}
	})

	t.Run("once per unit per turn", func(t *testing.T) {
		ns, err := ResolveAbility(s, at, nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := ResolveAbility(ns, at, nil); !errors.Is(err, ErrInvalidAbilityUsage) {
			t.Fatalf("got %v, want ErrInvalidAbilityUsage", err)
		}
	})

	t.Run("class mismatch", func(t *testing.T) {
		if _, err := ResolveDefenderAbility(s, bruiserAt); !errors.Is(err, ErrInvalidAbilityUsage) {
			t.Fatalf("got %v, want ErrInvalidAbilityUsage", err)
		}
	})
}
