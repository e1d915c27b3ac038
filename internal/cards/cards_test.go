package cards

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name            string
		attack, defense int
		want            Class
	}{
		{"attacker at gap boundary", 7, 4, ClassAttacker},
		{"defender at gap boundary", 4, 7, ClassDefender},
		{"bruiser inside gap", 6, 4, ClassBruiser},
		{"bruiser even", 5, 5, ClassBruiser},
		{"attacker wide gap", 10, 1, ClassAttacker},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.attack, tc.defense); got != tc.want {
				t.Fatalf("Classify(%d,%d): got %s, want %s", tc.attack, tc.defense, got, tc.want)
			}
		})
	}
}

func TestBuildCard(t *testing.T) {
	rec := ChampionRecord{ID: "pyra", Name: "Pyra", ReturnRate: 0.92, StabilityScore: 0.31}
	card := BuildCard("emberfall", rec)

	if card.ID != "emberfall:pyra" {
		t.Fatalf("card id: got %q", card.ID)
	}
	if card.Attack != 9 || card.Defense != 3 {
		t.Fatalf("stats: got atk=%d def=%d, want 9/3", card.Attack, card.Defense)
	}
	if card.Class != ClassAttacker {
		t.Fatalf("class: got %s, want attacker", card.Class)
	}
	if card.Health != card.MaxHealth || card.Health != 5 {
		t.Fatalf("health: got %d/%d, want 5/5", card.Health, card.MaxHealth)
	}
}

func TestBuildCardClampsStats(t *testing.T) {
	card := BuildCard("f", ChampionRecord{ID: "x", ReturnRate: 0.0, StabilityScore: 1.7})
	if card.Attack != 1 {
		t.Fatalf("attack floor: got %d, want 1", card.Attack)
	}
	if card.Defense != 10 {
		t.Fatalf("defense cap: got %d, want 10", card.Defense)
	}
}

func TestBuildDeckDeterministicBySeed(t *testing.T) {
	src := DefaultSource()
	recs, err := src.FactionChampions("tidebound")
	if err != nil {
		t.Fatal(err)
	}

	a := BuildDeck("tidebound", recs, 42)
	b := BuildDeck("tidebound", recs, 42)
	c := BuildDeck("tidebound", recs, 43)

	if len(a) != len(recs) {
		t.Fatalf("deck size: got %d, want %d", len(a), len(recs))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("same seed diverged at %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
	same := true
	for i := range a {
		if a[i].ID != c[i].ID {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical shuffle")
	}
}

func TestStaticSourceUnknownFaction(t *testing.T) {
	if _, err := DefaultSource().FactionChampions("nope"); err == nil {
		t.Fatal("expected error for unknown faction")
	}
}
