package game

import (
	"context"
	"math"

	"github.com/charmbracelet/log"

	"blackjack-arena/server/config"
	"blackjack-arena/server/engine"
)

// Player is a session's persisted state.
type Player struct {
	SessionID   string
	Balance     int
	TotalGames  int
	TotalWins   int
	TotalLosses int
	TotalPushes int
}

// RoundRecord is a round as the store holds it: the hands, the deck
// remainder and, once settled, the outcome.
type RoundRecord struct {
	ID         int64
	SessionID  string
	Bet        int
	Phase      engine.Phase
	PlayerHand []engine.Card
	DealerHand []engine.Card
	Deck       []engine.Card
	Outcome    engine.Outcome
	Delta      int
	Message    string
}

// Store is the persistence collaborator: a keyed session/round store
// injected per call so the service holds no cross-request mutable state.
// SettleRound must persist the closed round, apply the delta and bump the
// career counters atomically, exactly once, returning the new balance.
type Store interface {
	GetOrCreatePlayer(ctx context.Context, sessionID string, initialBalance int) (Player, error)
	GetPlayer(ctx context.Context, sessionID string) (*Player, error)
	SetBalance(ctx context.Context, sessionID string, balance int) (Player, error)
	GetOpenRound(ctx context.Context, sessionID string) (*RoundRecord, error)
	InsertRound(ctx context.Context, rec *RoundRecord) error
	UpdateRound(ctx context.Context, rec *RoundRecord) error
	SettleRound(ctx context.Context, rec *RoundRecord) (newBalance int, err error)
}

// Service exposes the engine's operations keyed by session. It provides no
// locking itself: the transport layer serialises calls per session, and
// rounds of different sessions are fully independent.
type Service struct {
	store   Store
	rules   engine.Rules
	initial int
	newDeck func() *engine.Deck
	logger  *log.Logger
}

func New(st Store, cfg *config.Config, logger *log.Logger) *Service {
	return &Service{
		store:   st,
		rules:   cfg.Rules(),
		initial: cfg.Table.InitialBalance,
		newDeck: func() *engine.Deck { return engine.NewDeck(0) },
		logger:  logger.WithPrefix("game"),
	}
}

// OpenRound validates the bet against the session's balance, deals and
// persists a fresh round. A dealt natural settles on the spot.
func (s *Service) OpenRound(ctx context.Context, sessionID string, bet int) (*RoundView, error) {
	player, err := s.store.GetOrCreatePlayer(ctx, sessionID, s.initial)
	if err != nil {
		return nil, err
	}
	if open, err := s.store.GetOpenRound(ctx, sessionID); err != nil {
		return nil, err
	} else if open != nil {
		return nil, engine.ErrRoundAlreadyOpen
	}
	// reject the bet before a deck is even built
	if err := s.rules.ValidateBet(bet, player.Balance); err != nil {
		return nil, err
	}

	round, err := engine.OpenRound(bet, player.Balance, s.newDeck(), s.rules)
	if err != nil {
		return nil, err
	}
	rec := &RoundRecord{SessionID: sessionID, Bet: bet}
	syncRecord(rec, round)
	if err := s.store.InsertRound(ctx, rec); err != nil {
		return nil, err
	}
	s.logger.Info("round opened", "session", sessionID, "bet", bet)
	return s.finish(ctx, rec, round)
}

// Hit draws one card for the player, settling immediately on a bust.
func (s *Service) Hit(ctx context.Context, sessionID string) (*RoundView, error) {
	return s.act(ctx, sessionID, (*engine.Round).Hit)
}

// Stand ends the player turn, plays out the dealer and settles.
func (s *Service) Stand(ctx context.Context, sessionID string) (*RoundView, error) {
	return s.act(ctx, sessionID, (*engine.Round).Stand)
}

func (s *Service) act(ctx context.Context, sessionID string, move func(*engine.Round) error) (*RoundView, error) {
	rec, err := s.store.GetOpenRound(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, engine.ErrNoOpenRound
	}
	round := engine.ResumeRound(
		rec.Bet, rec.PlayerHand, rec.DealerHand,
		engine.NewDeckFromCards(rec.Deck...), rec.Phase, s.rules,
	)
	if err := move(round); err != nil {
		return nil, err
	}
	syncRecord(rec, round)
	if round.Result() == nil {
		if err := s.store.UpdateRound(ctx, rec); err != nil {
			return nil, err
		}
	}
	return s.finish(ctx, rec, round)
}

// finish settles the record when the round is over and builds the view.
func (s *Service) finish(ctx context.Context, rec *RoundRecord, round *engine.Round) (*RoundView, error) {
	view := &RoundView{
		PlayerHand: rec.PlayerHand,
		DealerHand: rec.DealerHand,
		Bet:        rec.Bet,
		Phase:      rec.Phase,
		Message:    "Hit or stand?",
	}
	view.PlayerScore, _ = engine.Score(rec.PlayerHand)
	view.DealerScore, _ = engine.Score(rec.DealerHand)

	if res := round.Result(); res != nil {
		balance, err := s.store.SettleRound(ctx, rec)
		if err != nil {
			return nil, err
		}
		view.GameOver = true
		view.Outcome = res.Outcome
		view.Message = res.Message
		view.Balance = &balance
		s.logger.Info("round settled",
			"session", rec.SessionID, "outcome", res.Outcome, "delta", res.Delta, "balance", balance)
	}
	return view, nil
}

// syncRecord copies the round's mutable state back onto the record.
func syncRecord(rec *RoundRecord, round *engine.Round) {
	rec.PlayerHand = round.Player
	rec.DealerHand = round.Dealer
	rec.Deck = round.DeckRemainder()
	rec.Phase = round.Phase()
	if res := round.Result(); res != nil {
		rec.Outcome = res.Outcome
		rec.Delta = res.Delta
		rec.Message = res.Message
	}
}

// Stats returns the session's career summary, or nil when the session has
// never played.
func (s *Service) Stats(ctx context.Context, sessionID string) (*StatsView, error) {
	player, err := s.store.GetPlayer(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, nil
	}
	winRate := 0.0
	if player.TotalGames > 0 {
		winRate = float64(player.TotalWins) / float64(player.TotalGames) * 100
		winRate = math.Round(winRate*100) / 100
	}
	return &StatsView{
		Balance:     player.Balance,
		TotalGames:  player.TotalGames,
		TotalWins:   player.TotalWins,
		TotalLosses: player.TotalLosses,
		TotalPushes: player.TotalPushes,
		WinRate:     winRate,
	}, nil
}

// Reset restores the session's balance to the configured starting amount.
func (s *Service) Reset(ctx context.Context, sessionID string) (Player, error) {
	if _, err := s.store.GetOrCreatePlayer(ctx, sessionID, s.initial); err != nil {
		return Player{}, err
	}
	return s.store.SetBalance(ctx, sessionID, s.initial)
}
