package engine

import "errors"

// Engine error taxonomy. All are caller/input errors except ErrDeckExhausted,
// which is an internal invariant violation. Returned as values, never
// panicked, so the transport layer can map each deterministically.
var (
	ErrInvalidBet       = errors.New("invalid bet")
	ErrRoundAlreadyOpen = errors.New("round already open")
	ErrInvalidPhase     = errors.New("action not valid in current phase")
	ErrNoOpenRound      = errors.New("no open round")
	ErrDeckExhausted    = errors.New("deck exhausted")
)
