package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blackjack-arena/server/engine"
	"blackjack-arena/server/game"
)

//go:embed schema.sql
var schema embed.FS

// DB wraps the pgx pool and implements game.Store.
type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

/* -----------------------------
   Players
------------------------------*/

func (db *DB) GetOrCreatePlayer(ctx context.Context, sessionID string, initialBalance int) (game.Player, error) {
	var p game.Player
	err := db.QueryRow(ctx, `
        INSERT INTO players(session_id, balance)
        VALUES ($1, $2)
        ON CONFLICT (session_id) DO UPDATE SET updated_at = now()
        RETURNING session_id, balance, total_games, total_wins, total_losses, total_pushes
    `, sessionID, initialBalance).Scan(
		&p.SessionID, &p.Balance, &p.TotalGames, &p.TotalWins, &p.TotalLosses, &p.TotalPushes,
	)
	return p, err
}

func (db *DB) GetPlayer(ctx context.Context, sessionID string) (*game.Player, error) {
	var p game.Player
	err := db.QueryRow(ctx, `
        SELECT session_id, balance, total_games, total_wins, total_losses, total_pushes
          FROM players WHERE session_id = $1
    `, sessionID).Scan(
		&p.SessionID, &p.Balance, &p.TotalGames, &p.TotalWins, &p.TotalLosses, &p.TotalPushes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (db *DB) SetBalance(ctx context.Context, sessionID string, balance int) (game.Player, error) {
	var p game.Player
	err := db.QueryRow(ctx, `
        UPDATE players
           SET balance = $2, updated_at = now()
         WHERE session_id = $1
        RETURNING session_id, balance, total_games, total_wins, total_losses, total_pushes
    `, sessionID, balance).Scan(
		&p.SessionID, &p.Balance, &p.TotalGames, &p.TotalWins, &p.TotalLosses, &p.TotalPushes,
	)
	return p, err
}

/* -----------------------------
   Rounds
------------------------------*/

func (db *DB) GetOpenRound(ctx context.Context, sessionID string) (*game.RoundRecord, error) {
	rec := game.RoundRecord{SessionID: sessionID}
	var phase string
	var player, dealer, deck []byte
	err := db.QueryRow(ctx, `
        SELECT id, bet, phase, player_hand, dealer_hand, deck_remainder
          FROM rounds
         WHERE session_id = $1 AND settled_at IS NULL
    `, sessionID).Scan(&rec.ID, &rec.Bet, &phase, &player, &dealer, &deck)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rec.Phase = engine.Phase(phase)
	if rec.PlayerHand, err = decodeCards(player); err != nil {
		return nil, fmt.Errorf("round %d player hand: %w", rec.ID, err)
	}
	if rec.DealerHand, err = decodeCards(dealer); err != nil {
		return nil, fmt.Errorf("round %d dealer hand: %w", rec.ID, err)
	}
	if rec.Deck, err = decodeCards(deck); err != nil {
		return nil, fmt.Errorf("round %d deck: %w", rec.ID, err)
	}
	return &rec, nil
}

func (db *DB) InsertRound(ctx context.Context, rec *game.RoundRecord) error {
	player, dealer, deck, err := encodeRound(rec)
	if err != nil {
		return err
	}
	return db.QueryRow(ctx, `
        INSERT INTO rounds(session_id, bet, phase, player_hand, dealer_hand, deck_remainder)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id
    `, rec.SessionID, rec.Bet, string(rec.Phase), player, dealer, deck).Scan(&rec.ID)
}

func (db *DB) UpdateRound(ctx context.Context, rec *game.RoundRecord) error {
	player, dealer, deck, err := encodeRound(rec)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `
        UPDATE rounds
           SET phase = $2, player_hand = $3, dealer_hand = $4, deck_remainder = $5
         WHERE id = $1
    `, rec.ID, string(rec.Phase), player, dealer, deck)
	return err
}

// SettleRound closes the round and applies the balance delta and career
// counters in one transaction, so the delta lands exactly once.
func (db *DB) SettleRound(ctx context.Context, rec *game.RoundRecord) (int, error) {
	player, dealer, deck, err := encodeRound(rec)
	if err != nil {
		return 0, err
	}
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) // safe if already committed

	if _, err := tx.Exec(ctx, `
        UPDATE rounds
           SET phase = $2, player_hand = $3, dealer_hand = $4, deck_remainder = $5,
               outcome = $6, delta = $7, message = $8, settled_at = now()
         WHERE id = $1
    `, rec.ID, string(rec.Phase), player, dealer, deck, string(rec.Outcome), rec.Delta, rec.Message); err != nil {
		return 0, err
	}

	wins, losses, pushes := 0, 0, 1
	switch {
	case rec.Outcome.Won():
		wins, pushes = 1, 0
	case rec.Outcome.Lost():
		losses, pushes = 1, 0
	}
	var balance int
	if err := tx.QueryRow(ctx, `
        UPDATE players
           SET balance = balance + $2,
               total_games = total_games + 1,
               total_wins = total_wins + $3,
               total_losses = total_losses + $4,
               total_pushes = total_pushes + $5,
               updated_at = now()
         WHERE session_id = $1
        RETURNING balance
    `, rec.SessionID, rec.Delta, wins, losses, pushes).Scan(&balance); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return balance, nil
}

/* -----------------------------
   Monitoring counts
------------------------------*/

func (db *DB) CountOpenRounds(ctx context.Context) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, `SELECT count(*) FROM rounds WHERE settled_at IS NULL`).Scan(&n)
	return n, err
}

func (db *DB) CountPlayers(ctx context.Context) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, `SELECT count(*) FROM players`).Scan(&n)
	return n, err
}

func encodeRound(rec *game.RoundRecord) (player, dealer, deck []byte, err error) {
	if player, err = json.Marshal(rec.PlayerHand); err != nil {
		return nil, nil, nil, err
	}
	if dealer, err = json.Marshal(rec.DealerHand); err != nil {
		return nil, nil, nil, err
	}
	if deck, err = json.Marshal(rec.Deck); err != nil {
		return nil, nil, nil, err
	}
	return player, dealer, deck, nil
}

func decodeCards(data []byte) ([]engine.Card, error) {
	var cards []engine.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}
