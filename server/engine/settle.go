package engine

// Outcome classifies a settled round.
type Outcome string

const (
	OutcomePlayerBust      Outcome = "player_bust"
	OutcomePlayerBlackjack Outcome = "blackjack"
	OutcomeDealerBust      Outcome = "dealer_bust"
	OutcomePlayerWin       Outcome = "player_win"
	OutcomeDealerWin       Outcome = "dealer_win"
	OutcomePush            Outcome = "push"
)

// Won reports whether the outcome counts as a player win.
func (o Outcome) Won() bool {
	return o == OutcomePlayerWin || o == OutcomeDealerBust || o == OutcomePlayerBlackjack
}

// Lost reports whether the outcome counts as a player loss.
func (o Outcome) Lost() bool {
	return o == OutcomeDealerWin || o == OutcomePlayerBust
}

// Result is the settlement of one round: the outcome, the signed balance
// delta, and the user-facing message.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Delta   int     `json:"delta"`
	Message string  `json:"message"`
}

// Settle is a pure function of the final hands and the bet. A natural pays
// BlackjackNum/BlackjackDen of the bet, floored by integer division (3/2
// gives floor(1.5x) on odd bets).
func Settle(player, dealer []Card, bet int, rules Rules) Result {
	if IsBust(player) {
		return Result{OutcomePlayerBust, -bet, "Bust! You lose!"}
	}
	if IsBlackjack(player) {
		if IsBlackjack(dealer) {
			return Result{OutcomePush, 0, "Both have Blackjack! Push!"}
		}
		return Result{OutcomePlayerBlackjack, bet * rules.BlackjackNum / rules.BlackjackDen, "Blackjack! You win!"}
	}
	if IsBust(dealer) {
		return Result{OutcomeDealerBust, bet, "Dealer busts! You win!"}
	}
	ps, _ := Score(player)
	ds, _ := Score(dealer)
	switch {
	case ds > ps:
		return Result{OutcomeDealerWin, -bet, "Dealer wins!"}
	case ds < ps:
		return Result{OutcomePlayerWin, bet, "You win!"}
	default:
		return Result{OutcomePush, 0, "Push!"}
	}
}
