package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testRules = Rules{MinBet: 1, MaxBet: 1000, BlackjackNum: 3, BlackjackDen: 2, HitSoft17: true}

func TestSettle(t *testing.T) {
	tests := []struct {
		name    string
		player  []Card
		dealer  []Card
		bet     int
		outcome Outcome
		delta   int
	}{
		{
			"player bust loses bet",
			[]Card{{Ten, Spades}, {Five, Hearts}, {Nine, Clubs}},
			[]Card{{Ten, Diamonds}, {Six, Clubs}},
			10, OutcomePlayerBust, -10,
		},
		{
			"natural pays three to two",
			[]Card{{Ace, Spades}, {King, Hearts}},
			[]Card{{Ten, Diamonds}, {Eight, Clubs}},
			10, OutcomePlayerBlackjack, 15,
		},
		{
			"natural floor on odd bet",
			[]Card{{Ace, Spades}, {King, Hearts}},
			[]Card{{Ten, Diamonds}, {Eight, Clubs}},
			5, OutcomePlayerBlackjack, 7,
		},
		{
			"both naturals push",
			[]Card{{Ace, Spades}, {King, Hearts}},
			[]Card{{Ace, Diamonds}, {Queen, Clubs}},
			10, OutcomePush, 0,
		},
		{
			"natural beats three-card 21",
			[]Card{{Ace, Spades}, {King, Hearts}},
			[]Card{{Seven, Diamonds}, {Seven, Clubs}, {Seven, Hearts}},
			10, OutcomePlayerBlackjack, 15,
		},
		{
			"dealer bust pays even",
			[]Card{{Ten, Spades}, {Nine, Hearts}},
			[]Card{{Ten, Diamonds}, {Six, Clubs}, {Eight, Hearts}},
			10, OutcomeDealerBust, 10,
		},
		{
			"dealer outscores player",
			[]Card{{Ten, Spades}, {Eight, Hearts}},
			[]Card{{Ten, Diamonds}, {Nine, Clubs}},
			10, OutcomeDealerWin, -10,
		},
		{
			"player outscores dealer",
			[]Card{{Ten, Spades}, {Nine, Hearts}},
			[]Card{{Ten, Diamonds}, {Seven, Clubs}},
			10, OutcomePlayerWin, 10,
		},
		{
			"equal scores push",
			[]Card{{Ten, Spades}, {Eight, Hearts}},
			[]Card{{Ten, Diamonds}, {Eight, Clubs}},
			10, OutcomePush, 0,
		},
		{
			"three-card 21 pays even money only",
			[]Card{{Ace, Spades}, {Five, Hearts}, {Five, Clubs}},
			[]Card{{Ten, Diamonds}, {Nine, Clubs}},
			10, OutcomePlayerWin, 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Settle(tt.player, tt.dealer, tt.bet, testRules)
			assert.Equal(t, tt.outcome, res.Outcome)
			assert.Equal(t, tt.delta, res.Delta)
			assert.NotEmpty(t, res.Message)
		})
	}
}

// Settle is referentially transparent: identical inputs always give
// identical results.
func TestSettleIsPure(t *testing.T) {
	player := []Card{{Ten, Spades}, {Nine, Hearts}}
	dealer := []Card{{Ten, Diamonds}, {Seven, Clubs}}
	first := Settle(player, dealer, 25, testRules)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Settle(player, dealer, 25, testRules))
	}
}
