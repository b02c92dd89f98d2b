package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_history (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id      TEXT    NOT NULL UNIQUE,
    player1      TEXT    NOT NULL,
    player2      TEXT    NOT NULL,
    winner_seat  INTEGER NOT NULL DEFAULT 0,
    vs_computer  INTEGER NOT NULL DEFAULT 0,
    difficulty   TEXT    NOT NULL DEFAULT '',
    reason       TEXT    NOT NULL DEFAULT '',
    total_moves  INTEGER NOT NULL DEFAULT 0,
    board_state  TEXT,
    finished_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_history_finished_at ON game_history (finished_at DESC);
`

// Open opens (or creates) the database file at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite serialises writers anyway; one connection also keeps :memory: shared
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}

	log.Info().Str("component", "sqlite").Str("path", path).Msg("history database ready")
	return db, nil
}
