package engine

import (
	"math/rand"
	"time"
)

// Deck is a single shuffled 52-card deck, consumed front to back. One deck
// serves exactly one round; there is no reshuffling or reuse.
type Deck struct {
	cards []Card
}

// NewDeck builds all 52 (rank, suit) combinations and applies a
// Fisher-Yates shuffle. A zero seed falls back to the wall clock.
func NewDeck(seed int64) *Deck {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	cards := make([]Card, 0, 52)
	for s := Spades; s <= Clubs; s++ {
		for rk := Ace; rk <= King; rk++ {
			cards = append(cards, Card{Rank: rk, Suit: s})
		}
	}
	for i := len(cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return &Deck{cards: cards}
}

// NewDeckFromCards builds a deck dealing the given cards in order. Used to
// rig exact deals in tests and to restore a persisted deck remainder.
func NewDeckFromCards(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// Draw removes and returns the next card. Exhaustion is unreachable in
// normal single-round play but guarded anyway.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, nil
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Cards returns a copy of the undealt cards, for persistence.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}
