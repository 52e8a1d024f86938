package engine

// Rules are the table parameters a round is played under.
type Rules struct {
	MinBet       int
	MaxBet       int
	BlackjackNum int  // natural payout numerator (3 for 3:2)
	BlackjackDen int  // natural payout denominator
	HitSoft17    bool // dealer draws on soft 17
}

// Phase is a round's position in its lifecycle. Open and DealerTurn are
// transient: opening runs straight into PlayerTurn (or through the dealer
// when the player is dealt a natural), and standing runs the dealer policy
// to completion, so only PlayerTurn and Settled are ever observed at rest.
type Phase string

const (
	PhaseOpen       Phase = "open"
	PhasePlayerTurn Phase = "player_turn"
	PhaseDealerTurn Phase = "dealer_turn"
	PhaseSettled    Phase = "settled"
)

// Round owns one betting-to-payout cycle: the bet, both hands, the deck and
// the current phase. It has no locking; the caller serialises access per
// session.
type Round struct {
	Bet    int
	Player []Card
	Dealer []Card

	deck   *Deck
	phase  Phase
	rules  Rules
	result *Result
}

// ValidateBet rejects non-positive bets, bets outside the table bounds and
// bets above the player's balance.
func (ru Rules) ValidateBet(bet, balance int) error {
	if bet <= 0 || bet < ru.MinBet || bet > ru.MaxBet || bet > balance {
		return ErrInvalidBet
	}
	return nil
}

// OpenRound validates the bet against the table rules and the player's
// balance, deals two cards each in player, dealer, player, dealer order and
// enters PlayerTurn. A dealt natural skips the player turn entirely: the
// dealer still plays, since a dealer natural ties it.
func OpenRound(bet, balance int, deck *Deck, rules Rules) (*Round, error) {
	if err := rules.ValidateBet(bet, balance); err != nil {
		return nil, err
	}
	r := &Round{Bet: bet, deck: deck, phase: PhaseOpen, rules: rules}
	for i := 0; i < 2; i++ {
		if err := r.deal(&r.Player); err != nil {
			return nil, err
		}
		if err := r.deal(&r.Dealer); err != nil {
			return nil, err
		}
	}
	if IsBlackjack(r.Player) {
		r.phase = PhaseDealerTurn
		if err := r.playDealer(); err != nil {
			return nil, err
		}
		r.settle()
		return r, nil
	}
	r.phase = PhasePlayerTurn
	return r, nil
}

// ResumeRound rebuilds a round from persisted state. The deck holds only
// the undealt remainder.
func ResumeRound(bet int, player, dealer []Card, deck *Deck, phase Phase, rules Rules) *Round {
	return &Round{
		Bet:    bet,
		Player: player,
		Dealer: dealer,
		deck:   deck,
		phase:  phase,
		rules:  rules,
	}
}

// Hit draws one card into the player hand. A bust settles the round on the
// spot; the dealer never plays against a busted hand.
func (r *Round) Hit() error {
	if r.phase != PhasePlayerTurn {
		return ErrInvalidPhase
	}
	if err := r.deal(&r.Player); err != nil {
		return err
	}
	if IsBust(r.Player) {
		r.settle()
	}
	return nil
}

// Stand ends the player turn and runs the dealer policy to completion,
// settling the round.
func (r *Round) Stand() error {
	if r.phase != PhasePlayerTurn {
		return ErrInvalidPhase
	}
	r.phase = PhaseDealerTurn
	if err := r.playDealer(); err != nil {
		return err
	}
	r.settle()
	return nil
}

// playDealer draws while the dealer total is under 17, or exactly a soft 17
// when the table hits soft 17. Any hard 17+, soft 18+ or bust stops it.
func (r *Round) playDealer() error {
	for {
		v, soft := Score(r.Dealer)
		if v > 17 || (v == 17 && !(soft && r.rules.HitSoft17)) {
			return nil
		}
		if err := r.deal(&r.Dealer); err != nil {
			return err
		}
	}
}

func (r *Round) deal(hand *[]Card) error {
	c, err := r.deck.Draw()
	if err != nil {
		return err
	}
	*hand = append(*hand, c)
	return nil
}

// settle computes the result once and caches it; settling a settled round
// is a no-op.
func (r *Round) settle() {
	if r.result != nil {
		return
	}
	res := Settle(r.Player, r.Dealer, r.Bet, r.rules)
	r.result = &res
	r.phase = PhaseSettled
}

// Phase returns the current phase.
func (r *Round) Phase() Phase {
	return r.phase
}

// Result returns the cached settlement, or nil while the round is open.
func (r *Round) Result() *Result {
	return r.result
}

// DeckRemainder returns a copy of the undealt cards, for persistence.
func (r *Round) DeckRemainder() []Card {
	return r.deck.Cards()
}
