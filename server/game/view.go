package game

import "blackjack-arena/server/engine"

// RoundView is the read-only projection handed to the transport and render
// layers. Both hands are fully visible from the deal; hiding the dealer's
// hole card is a presentation concern, which a renderer can apply itself
// while Phase is still player_turn.
type RoundView struct {
	PlayerHand  []engine.Card  `json:"playerHand"`
	DealerHand  []engine.Card  `json:"dealerHand"`
	PlayerScore int            `json:"playerScore"`
	DealerScore int            `json:"dealerScore"`
	Bet         int            `json:"bet"`
	Phase       engine.Phase   `json:"phase"`
	GameOver    bool           `json:"gameOver"`
	Outcome     engine.Outcome `json:"outcome,omitempty"`
	Message     string         `json:"message"`
	Balance     *int           `json:"balance,omitempty"` // set once settled
}

// StatsView is the per-session career summary.
type StatsView struct {
	Balance     int     `json:"balance"`
	TotalGames  int     `json:"total_games"`
	TotalWins   int     `json:"total_wins"`
	TotalLosses int     `json:"total_losses"`
	TotalPushes int     `json:"total_pushes"`
	WinRate     float64 `json:"win_rate"`
}
