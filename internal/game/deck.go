package game

import "math/rand"

// BuildDeck turns a client-submitted list of unit type ids into deck cards.
// Unknown types and core units are dropped; the core card is dealt to the
// hand at match start, never drawn from the deck.
func BuildDeck(rules Ruleset, types []string) []Card {
	var deck []Card
	for _, t := range types {
		cap, ok := rules[t]
		if !ok || cap.Core {
			continue
		}
		deck = append(deck, Card{Type: t, Name: cap.Name, Cost: cap.Cost})
	}
	return deck
}

// Shuffle returns a shuffled copy of the deck.
func Shuffle(deck []Card) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// CoreCard returns the hand card for the ruleset's core unit.
func CoreCard(rules Ruleset) (Card, bool) {
	id, ok := rules.CoreType()
	if !ok {
		return Card{}, false
	}
	cap := rules[id]
	return Card{Type: id, Name: cap.Name, Cost: cap.Cost}, true
}
