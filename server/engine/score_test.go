package engine

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		cards []Card
		value int
		soft  bool
	}{
		{"pair of tens", []Card{{Ten, Spades}, {Ten, Hearts}}, 20, false},
		{"natural", []Card{{Ace, Spades}, {King, Hearts}}, 21, true},
		{"soft 17", []Card{{Ace, Spades}, {Six, Hearts}}, 17, true},
		{"double ace", []Card{{Ace, Spades}, {Ace, Hearts}}, 12, true},
		{"triple ace", []Card{{Ace, Spades}, {Ace, Hearts}, {Ace, Clubs}}, 13, true},
		{"bust rescue", []Card{{Ace, Spades}, {Five, Hearts}, {Eight, Clubs}}, 14, false},
		{"triple bust", []Card{{Ten, Spades}, {Five, Hearts}, {Eight, Clubs}}, 23, false},
		{"face cards", []Card{{Jack, Spades}, {Queen, Hearts}}, 20, false},
		{"hard 21", []Card{{Seven, Spades}, {Seven, Hearts}, {Seven, Clubs}}, 21, false},
		{"low pair", []Card{{Two, Spades}, {Two, Hearts}}, 4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, soft := Score(tt.cards)
			if v != tt.value {
				t.Errorf("Score(%v) value = %d, want %d", tt.cards, v, tt.value)
			}
			if soft != tt.soft {
				t.Errorf("Score(%v) soft = %v, want %v", tt.cards, soft, tt.soft)
			}
		})
	}
}

func TestIsBust(t *testing.T) {
	if IsBust([]Card{{Ten, Spades}, {Nine, Hearts}}) {
		t.Error("19 should not be bust")
	}
	if !IsBust([]Card{{Ten, Spades}, {Nine, Hearts}, {Five, Clubs}}) {
		t.Error("24 should be bust")
	}
	if IsBust([]Card{{Ace, Spades}, {Ace, Hearts}, {Nine, Clubs}, {King, Diamonds}}) {
		t.Error("A A 9 K is 21, not bust")
	}
}

// A two-card 21 is a natural; the same total with three or more cards is not.
func TestIsBlackjackRequiresTwoCards(t *testing.T) {
	if !IsBlackjack([]Card{{Ace, Spades}, {King, Hearts}}) {
		t.Error("A K should be blackjack")
	}
	if !IsBlackjack([]Card{{Queen, Diamonds}, {Ace, Clubs}}) {
		t.Error("Q A should be blackjack")
	}
	if IsBlackjack([]Card{{Seven, Spades}, {Seven, Hearts}, {Seven, Clubs}}) {
		t.Error("three-card 21 is not blackjack")
	}
	if IsBlackjack([]Card{{Ace, Spades}, {Five, Hearts}, {Five, Clubs}}) {
		t.Error("A 5 5 is 21 but not a natural")
	}
	if IsBlackjack([]Card{{Ten, Spades}, {Nine, Hearts}}) {
		t.Error("19 is not blackjack")
	}
}
