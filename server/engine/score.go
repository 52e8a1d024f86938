package engine

// Score computes the best total for a hand. Every ace starts at 11; while
// the total exceeds 21 and an ace still counts as 11, one ace is dropped to
// 1. soft is true when at least one ace survives at 11.
func Score(hand []Card) (value int, soft bool) {
	aces := 0
	for _, c := range hand {
		value += c.Rank.Value()
		if c.IsAce() {
			aces++
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value, aces > 0
}

// IsBust reports whether the hand's best score exceeds 21.
func IsBust(hand []Card) bool {
	v, _ := Score(hand)
	return v > 21
}

// IsBlackjack reports a natural: exactly two cards totalling 21. A 21
// reached with three or more cards is an ordinary 21 and pays even money.
func IsBlackjack(hand []Card) bool {
	if len(hand) != 2 {
		return false
	}
	v, _ := Score(hand)
	return v == 21
}
