package history

import (
	"fmt"
	"time"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/service/bot"
)

// Entry is one finished game. In games against the computer Player2 is
// always the computer.
type Entry struct {
	ID         int64           `json:"id"`
	GameID     string          `json:"gameId"`
	Player1    string          `json:"player1"`
	Player2    string          `json:"player2"`
	WinnerSeat domain.PlayerID `json:"winnerSeat"`
	VsComputer bool            `json:"vsComputer"`
	Difficulty bot.Difficulty  `json:"difficulty,omitempty"`
	Reason     string          `json:"reason"`
	Moves      int             `json:"moves"`
	Board      [][]int         `json:"board,omitempty"`
	FinishedAt time.Time       `json:"finishedAt"`
}

func (e Entry) IsDraw() bool {
	return e.WinnerSeat == domain.Empty
}

func (e Entry) WinnerName() string {
	switch e.WinnerSeat {
	case domain.Player1:
		return e.Player1
	case domain.Player2:
		return e.Player2
	}
	return ""
}

func (e Entry) LoserName() string {
	switch e.WinnerSeat {
	case domain.Player1:
		return e.Player2
	case domain.Player2:
		return e.Player1
	}
	return ""
}

// Line renders the entry as one line of the plain-text history log.
func (e Entry) Line() string {
	var line string
	switch {
	case e.IsDraw():
		line = fmt.Sprintf("%s contre %s - Match nul", e.Player1, e.Player2)
	case e.VsComputer && e.WinnerSeat == domain.Player1:
		line = fmt.Sprintf("%s (Joueur) a gagné contre %s", e.Player1, e.Player2)
	case e.VsComputer:
		line = fmt.Sprintf("L'IA a gagné contre %s", e.Player1)
	default:
		line = fmt.Sprintf("%s contre %s", e.WinnerName(), e.LoserName())
	}
	if e.VsComputer {
		line += " - Difficulté: " + e.Difficulty.Label()
	}
	return line
}
