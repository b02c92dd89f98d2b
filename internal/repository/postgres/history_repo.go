package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/service/bot"
	"github.com/iamasit07/puissance4/internal/service/history"
)

type HistoryRepo struct {
	DB *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{DB: db}
}

// SaveEntry upserts on game_id so a game recorded twice keeps one row.
func (r *HistoryRepo) SaveEntry(ctx context.Context, e history.Entry) (int64, error) {
	var board []byte
	if e.Board != nil {
		var err error
		board, err = json.Marshal(e.Board)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal board state: %w", err)
		}
	}

	query := `
	INSERT INTO game_history (game_id, player1, player2, winner_seat, vs_computer, difficulty, reason, total_moves, board_state, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (game_id) DO UPDATE SET
		winner_seat = EXCLUDED.winner_seat,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		board_state = EXCLUDED.board_state,
		finished_at = EXCLUDED.finished_at
	RETURNING id;
	`

	var id int64
	err := r.DB.QueryRowContext(ctx, query,
		e.GameID, e.Player1, e.Player2, int(e.WinnerSeat), e.VsComputer,
		string(e.Difficulty), e.Reason, e.Moves, board, e.FinishedAt,
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
		query += ` LIMIT $1`
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
			board      []byte
		)
		err := rows.Scan(&e.ID, &e.GameID, &e.Player1, &e.Player2, &seat, &e.VsComputer,
			&difficulty, &e.Reason, &e.Moves, &board, &e.FinishedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.WinnerSeat = domain.PlayerID(seat)
		e.Difficulty = bot.Difficulty(difficulty)
		if board != nil {
			if err := json.Unmarshal(board, &e.Board); err != nil {
				return nil, fmt.Errorf("failed to unmarshal board state: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
