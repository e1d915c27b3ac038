// Package cards turns raw champion records into balanced battle cards and
// shuffled per-faction decks. Card stats are fixed at build time and never
// recomputed by the engine.
package cards

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Class is the combat role derived from a card's attack/defense gap.
type Class string

const (
	ClassAttacker Class = "attacker"
	ClassDefender Class = "defender"
	ClassBruiser  Class = "bruiser"
)

// classGap is the attack/defense spread that pushes a card out of the
// bruiser middle ground.
const classGap = 3

// ChampionRecord is the raw row from the champion data source. Only the
// fields the deck builder consumes are modeled here.
type ChampionRecord struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	ReturnRate     float64 `json:"returnRate"`
	StabilityScore float64 `json:"stabilityScore"`
}

// Card is an immutable template instance. The ID doubles as the champion
// instance id on the board: a faction deck never holds the same champion
// twice.
type Card struct {
	ID             string  `json:"id"`
	ChampionID     string  `json:"championId"`
	Name           string  `json:"name"`
	FactionID      string  `json:"factionId"`
	Attack         int     `json:"attack"`
	Defense        int     `json:"defense"`
	Health         int     `json:"health"`
	MaxHealth      int     `json:"maxHealth"`
	Class          Class   `json:"championClass"`
	ReturnRate     float64 `json:"returnRate"`
	StabilityScore float64 `json:"stabilityScore"`
}

// Classify derives the combat role from the stat gap.
func Classify(attack, defense int) Class {
	switch {
	case attack-defense >= classGap:
		return ClassAttacker
	case defense-attack >= classGap:
		return ClassDefender
	default:
		return ClassBruiser
	}
}

// statScale maps a 0..1 source metric onto the 1..10 stat range.
func statScale(v float64) int {
	scaled := int(math.Round(v * 10))
	if scaled < 1 {
		return 1
	}
	if scaled > 10 {
		return 10
	}
	return scaled
}

// BuildCard maps one champion record onto a card. Attack tracks the
// champion's return rate, defense its stability score; health grows with
// bulk so defenders survive longer than glass cannons.
func BuildCard(factionID string, rec ChampionRecord) Card {
	attack := statScale(rec.ReturnRate)
	defense := statScale(rec.StabilityScore)
	health := 3 + (defense+1)/2
	return Card{
		ID:             fmt.Sprintf("%s:%s", factionID, rec.ID),
		ChampionID:     rec.ID,
		Name:           rec.Name,
		FactionID:      factionID,
		Attack:         attack,
		Defense:        defense,
		Health:         health,
		MaxHealth:      health,
		Class:          Classify(attack, defense),
		ReturnRate:     rec.ReturnRate,
		StabilityScore: rec.StabilityScore,
	}
}

// BuildDeck builds and shuffles a faction deck. The shuffle happens once,
// here, with the match seed; draws later in the game pop from the top so
// the whole match stays reproducible from the seed.
func BuildDeck(factionID string, records []ChampionRecord, seed int64) []Card {
	deck := make([]Card, 0, len(records))
	for _, rec := range records {
		deck = append(deck, BuildCard(factionID, rec))
	}
	// Stable pre-shuffle order so equal seeds give equal decks
	// regardless of source ordering.
	sort.Slice(deck, func(i, j int) bool { return deck[i].ID < deck[j].ID })
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}
