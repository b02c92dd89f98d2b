package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/service/bot"
	"github.com/iamasit07/puissance4/internal/service/history"
)

// HistoryRepo stores finished games in a local sqlite file. Timestamps are
// kept as unix nanoseconds.
type HistoryRepo struct {
	DB *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{DB: db}
}

func (r *HistoryRepo) SaveEntry(ctx context.Context, e history.Entry) (int64, error) {
	var board sql.NullString
	if e.Board != nil {
		raw, err := json.Marshal(e.Board)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal board state: %w", err)
		}
		board = sql.NullString{String: string(raw), Valid: true}
	}

	query := `
	INSERT INTO game_history (game_id, player1, player2, winner_seat, vs_computer, difficulty, reason, total_moves, board_state, finished_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (game_id) DO UPDATE SET
		winner_seat = excluded.winner_seat,
		reason = excluded.reason,
		total_moves = excluded.total_moves,
		board_state = excluded.board_state,
		finished_at = excluded.finished_at
	RETURNING id;
	`

	var id int64
	err := r.DB.QueryRowContext(ctx, query,
		e.GameID, e.Player1, e.Player2, int(e.WinnerSeat), e.VsComputer,
		string(e.Difficulty), e.Reason, e.Moves, board, e.FinishedAt.UnixNano(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert history entry: %w", err)
	}
	return id, nil
}

func (r *HistoryRepo) ListEntries(ctx context.Context, limit int) ([]history.Entry, error) {
	query := `
	SELECT id, game_id, player1, player2, winner_seat, vs_computer, difficulty,
	       reason, total_moves, board_state, finished_at
	FROM game_history
	ORDER BY finished_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []history.Entry{}
	for rows.Next() {
		var (
			e          history.Entry
			seat       int
			difficulty string
			board      sql.NullString
			finished   int64
		)
		err := rows.Scan(&e.ID, &e.GameID, &e.Player1, &e.Player2, &seat, &e.VsComputer,
			&difficulty, &e.Reason, &e.Moves, &board, &finished)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.WinnerSeat = domain.PlayerID(seat)
		e.Difficulty = bot.Difficulty(difficulty)
		e.FinishedAt = time.Unix(0, finished).UTC()
		if board.Valid {
			if err := json.Unmarshal([]byte(board.String), &e.Board); err != nil {
				return nil, fmt.Errorf("failed to unmarshal board state: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
