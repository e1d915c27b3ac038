package engine

import (
	"fmt"

	"github.com/hexfront/hexfront-backend/internal/cards"
)

const (
	draftOfferSize = 5
	draftPickCount = 2
)

// GetDraftOptions offers the player the top five cards of their draw pile
// and records the offer in DraftSelections. Repeated calls without an
// intervening CompleteDraft return the same five cards, so clients can
// re-fetch after a reconnect.
func GetDraftOptions(s State, playerIndex int) (State, []cards.Card, error) {
	if s.Phase != PhaseDraft {
		return s, nil, ErrWrongPhase
	}
	if playerIndex != s.CurrentPlayerIndex {
		return s, nil, ErrWrongTurn
	}

	ns := s.Clone()
	if existing, ok := ns.DraftSelections[playerIndex]; ok {
		return ns, append([]cards.Card(nil), existing...), nil
	}

	pile := ns.Players[playerIndex].DrawPile
	if len(pile) < draftOfferSize {
		return s, nil, fmt.Errorf("%w: draw pile has %d cards, need %d", ErrInvalidSelection, len(pile), draftOfferSize)
	}
	offer := append([]cards.Card(nil), pile[:draftOfferSize]...)
	ns.DraftSelections[playerIndex] = offer
	return ns, append([]cards.Card(nil), offer...), nil
}

// CompleteDraft takes exactly two of the offered ids into the player's
// hand, adds one more card at random from the remaining three, and burns
// all five offered cards out of the draw pile for good.
func CompleteDraft(s State, playerIndex int, selectedCardIDs []string) (State, error) {
	if s.Phase != PhaseDraft {
		return s, ErrWrongPhase
	}
	if playerIndex != s.CurrentPlayerIndex {
		return s, ErrWrongTurn
	}
	offer, ok := s.DraftSelections[playerIndex]
	if !ok {
		return s, fmt.Errorf("%w: no draft offer outstanding", ErrInvalidSelection)
	}
	if len(selectedCardIDs) != draftPickCount {
		return s, fmt.Errorf("%w: picked %d cards, need %d", ErrInvalidSelection, len(selectedCardIDs), draftPickCount)
	}

	offered := make(map[string]cards.Card, len(offer))
	for _, c := range offer {
		offered[c.ID] = c
	}
	picked := make(map[string]bool, draftPickCount)
	for _, id := range selectedCardIDs {
		if _, ok := offered[id]; !ok {
			return s, fmt.Errorf("%w: card %s was not offered", ErrInvalidSelection, id)
		}
		if picked[id] {
			return s, fmt.Errorf("%w: card %s picked twice", ErrInvalidSelection, id)
		}
		picked[id] = true
	}

	ns := s.Clone()
	player := &ns.Players[playerIndex]

	var rest []cards.Card
	for _, c := range offer {
		if picked[c.ID] {
			player.Hand = append(player.Hand, c)
		} else {
			rest = append(rest, c)
		}
	}
	bonus := rest[ns.nextIntn(len(rest))]
	player.Hand = append(player.Hand, bonus)

	// The whole offer leaves the pool: picks and bonus to hand, the rest
	// are simply gone from future draws.
	remaining := player.DrawPile[:0:0]
	for _, c := range player.DrawPile {
		if _, wasOffered := offered[c.ID]; !wasOffered {
			remaining = append(remaining, c)
		}
	}
	player.DrawPile = remaining
	delete(ns.DraftSelections, playerIndex)

	ns.Log = append(ns.Log, fmt.Sprintf("%s drafted %d champions", player.FactionName, len(selectedCardIDs)+1))
	return advanceAfterDraft(ns), nil
}

// advanceAfterDraft hands off to the next undrafted player, or into the
// placement phase once everyone holds cards.
func advanceAfterDraft(s State) State {
	for i := range s.Players {
		if !hasDrafted(&s, i) {
			s.Phase = PhaseInterstitial
			s.NextPhase = PhaseDraft
			s.CurrentPlayerIndex = i
			return s
		}
	}
	s.Phase = PhaseInterstitial
	s.NextPhase = PhasePlacement
	s.CurrentPlayerIndex = 0
	return s
}

func hasDrafted(s *State, playerIndex int) bool {
	return len(s.Players[playerIndex].Hand) > 0
}
