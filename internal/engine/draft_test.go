package engine

import (
	"errors"
	"testing"
)

func draftReady(t *testing.T) State {
	t.Helper()
	s := newTestMatch(t, 2)
	return mustContinue(t, s)
}

func TestGetDraftOptionsIsStable(t *testing.T) {
	s := draftReady(t)

	s, first, err := GetDraftOptions(s, 0)
	if err != nil {
		t.Fatalf("GetDraftOptions: %v", err)
	}
	if len(first) != 5 {
		t.Fatalf("offer size: got %d, want 5", len(first))
	}

	// A re-fetch without completing returns the identical offer.
	s, second, err := GetDraftOptions(s, 0)
	if err != nil {
		t.Fatalf("GetDraftOptions again: %v", err)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("offer changed between calls at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
	if len(s.DraftSelections[0]) != 5 {
		t.Fatalf("offer not recorded in state")
	}
}

func TestCompleteDraftTakesTwoPlusOne(t *testing.T) {
	s := draftReady(t)
	s, offer, err := GetDraftOptions(s, 0)
	if err != nil {
		t.Fatal(err)
	}

	ns, err := CompleteDraft(s, 0, []string{offer[0].ID, offer[3].ID})
	if err != nil {
		t.Fatalf("CompleteDraft: %v", err)
	}

	hand := ns.Players[0].Hand
	if len(hand) != 3 {
		t.Fatalf("hand: got %d cards, want 3", len(hand))
	}
	if hand[0].ID != offer[0].ID || hand[1].ID != offer[3].ID {
		t.Fatalf("picked cards missing from hand: %v", hand)
	}
	// The bonus card is one of the three not picked.
	bonus := hand[2].ID
	if bonus == offer[0].ID || bonus == offer[3].ID {
		t.Fatalf("bonus card duplicates a pick: %s", bonus)
	}
	found := false
	for _, c := range offer {
		if c.ID == bonus {
			found = true
		}
	}
	if !found {
		t.Fatalf("bonus card %s was never offered", bonus)
	}

	// All five offered cards are out of the pool for good.
	for _, c := range ns.Players[0].DrawPile {
		for _, o := range offer {
			if c.ID == o.ID {
				t.Fatalf("offered card %s still in draw pile", c.ID)
			}
		}
	}
	if len(ns.Players[0].DrawPile) != 7 {
		t.Fatalf("draw pile: got %d, want 7", len(ns.Players[0].DrawPile))
	}
	if _, still := ns.DraftSelections[0]; still {
		t.Fatal("draft selection should be cleared after completion")
	}
}

func TestCompleteDraftValidation(t *testing.T) {
	base := draftReady(t)
	base, offer, err := GetDraftOptions(base, 0)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		picks []string
	}{
		{"too few", []string{offer[0].ID}},
		{"too many", []string{offer[0].ID, offer[1].ID, offer[2].ID}},
		{"not offered", []string{offer[0].ID, "not-in-deck"}},
		{"duplicate pick", []string{offer[0].ID, offer[0].ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ns, err := CompleteDraft(base, 0, tc.picks)
			if !errors.Is(err, ErrInvalidSelection) {
				t.Fatalf("got %v, want ErrInvalidSelection", err)
			}
			// Failed calls leave the state untouched.
			if len(ns.Players[0].Hand) != 0 || len(ns.Players[0].DrawPile) != 12 {
				t.Fatal("state mutated on failed draft")
			}
		})
	}
}

func TestDraftTurnAndPhaseGuards(t *testing.T) {
	s := draftReady(t)

	if _, _, err := GetDraftOptions(s, 1); !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("off-turn options: got %v, want ErrWrongTurn", err)
	}

	s.Phase = PhaseTurn
	if _, err := CompleteDraft(s, 0, []string{"x", "y"}); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("wrong phase: got %v, want ErrWrongPhase", err)
	}
}
