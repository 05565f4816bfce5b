// Package ledger records finished hands in a SQLite database so chip
// movement can be totalled across runs.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lox/pokertable/internal/game"
	"github.com/lox/pokertable/internal/handid"
	"github.com/lox/pokertable/poker"
)

// Store is a SQLite backed hand ledger. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Standing is a player's running total at a table.
type Standing struct {
	Player string
	Hands  int
	Won    int // Chips collected from pots
	Net    int // Finishing minus starting stacks
}

// Hand is a recorded hand summary.
type Hand struct {
	ID          string
	UUID        uuid.UUID
	Table       string
	Number      int
	SmallBlind  int
	BigBlind    int
	Board       string
	Pot         int
	Uncontested bool
	Started     time.Time
}

// Open opens or creates the database at path. ":memory:" gives a private
// in-memory ledger.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("empty sqlite database path")
	}
	if path != ":memory:" {
		if parent := filepath.Dir(path); parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordHand stores a finished hand and every player dealt into it.
// Recording the same hand twice is a no-op.
func (s *Store) RecordHand(ctx context.Context, table string, res *game.HandResult) error {
	if res == nil || res.ID == "" {
		return errors.New("hand result has no id")
	}
	u, err := handid.UUID(res.ID)
	if err != nil {
		return fmt.Errorf("hand %q: %w", res.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	inserted, err := tx.ExecContext(ctx, `
INSERT INTO hands (
    hand_id, hand_uuid, table_name, number, button, small_blind, big_blind, board, pot, uncontested, started_at_ms, ended_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (hand_id) DO NOTHING
`, res.ID, u.String(), table, res.Number, res.Button, res.SmallBlind, res.BigBlind,
		poker.FormatCards(res.Board), res.Pot(), res.Uncontested,
		res.Started.UTC().UnixMilli(), res.Ended.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("insert hand %s: %w", res.ID, err)
	}
	if n, err := inserted.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return nil
	}

	won := game.Winnings(res.Awards)
	for _, e := range res.Entrants {
		_, err := tx.ExecContext(ctx, `
INSERT INTO hand_players (hand_id, seat, player, starting_stack, finishing_stack, won)
VALUES (?, ?, ?, ?, ?, ?)
`, res.ID, e.Seat, e.Name, e.Chips, res.Stacks[e.Seat], won[e.Seat])
		if err != nil {
			return fmt.Errorf("insert hand %s seat %d: %w", res.ID, e.Seat, err)
		}
	}
	return tx.Commit()
}

// Standings totals every player at table, highest net first.
func (s *Store) Standings(ctx context.Context, table string) ([]Standing, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT p.player, COUNT(*), SUM(p.won), SUM(p.finishing_stack - p.starting_stack)
FROM hand_players p
JOIN hands h ON h.hand_id = p.hand_id
WHERE h.table_name = ?
GROUP BY p.player
ORDER BY SUM(p.finishing_stack - p.starting_stack) DESC, p.player ASC
`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.Player, &st.Hands, &st.Won, &st.Net); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// RecentHands returns up to limit hands from table, newest first.
func (s *Store) RecentHands(ctx context.Context, table string, limit int) ([]Hand, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT hand_id, hand_uuid, table_name, number, small_blind, big_blind, board, pot, uncontested, started_at_ms
FROM hands
WHERE table_name = ?
ORDER BY started_at_ms DESC, number DESC
LIMIT ?
`, table, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Hand
	for rows.Next() {
		var (
			h         Hand
			rawUUID   string
			startedMs int64
		)
		if err := rows.Scan(&h.ID, &rawUUID, &h.Table, &h.Number, &h.SmallBlind, &h.BigBlind, &h.Board, &h.Pot, &h.Uncontested, &startedMs); err != nil {
			return nil, err
		}
		if h.UUID, err = uuid.Parse(rawUUID); err != nil {
			return nil, fmt.Errorf("hand %s: %w", h.ID, err)
		}
		h.Started = time.UnixMilli(startedMs).UTC()
		out = append(out, h)
	}
	return out, rows.Err()
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS hands (
    hand_id TEXT PRIMARY KEY,
    hand_uuid TEXT NOT NULL,
    table_name TEXT NOT NULL,
    number INTEGER NOT NULL,
    button INTEGER NOT NULL,
    small_blind INTEGER NOT NULL,
    big_blind INTEGER NOT NULL,
    board TEXT NOT NULL DEFAULT '',
    pot INTEGER NOT NULL,
    uncontested INTEGER NOT NULL DEFAULT 0,
    started_at_ms INTEGER NOT NULL,
    ended_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_hands_table_started ON hands(table_name, started_at_ms DESC)`,
		`
CREATE TABLE IF NOT EXISTS hand_players (
    hand_id TEXT NOT NULL REFERENCES hands(hand_id) ON DELETE CASCADE,
    seat INTEGER NOT NULL,
    player TEXT NOT NULL,
    starting_stack INTEGER NOT NULL,
    finishing_stack INTEGER NOT NULL,
    won INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (hand_id, seat)
)`,
		`CREATE INDEX IF NOT EXISTS idx_hand_players_player ON hand_players(player)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
