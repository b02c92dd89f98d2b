package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/service/bot"
	"github.com/iamasit07/puissance4/internal/service/game"
	"github.com/iamasit07/puissance4/internal/service/history"
)

var (
	errNoData    = errors.New("no data in command")
	errQuit      = errors.New("quit")
	errNoGame    = errors.New("no game in progress, start one with new")
	errBadColumn = errors.New("column must be a number from 1 to 7")
)

type shellcmd struct {
	cmd  string
	args []string
}

func extractFields(line string) (*shellcmd, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errNoData
	}
	return &shellcmd{cmd: strings.ToLower(fields[0]), args: fields[1:]}, nil
}

// ShellController runs games in the terminal. The computer answers at once
// and finished games go to the history service.
type ShellController struct {
	l   *readline.Instance
	out io.Writer

	manager *game.Manager
	history *history.Service
	current *game.Session
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewShellController(hist *history.Service, out io.Writer) *ShellController {
	sc := &ShellController{out: out, history: hist}
	// history writes and bot moves run inline so the prompt comes back after them
	sc.manager = game.NewManager(sc, hist, game.WithScheduler(game.Immediately))
	return sc
}

func (sc *ShellController) showMessage(format string, args ...any) {
	fmt.Fprintf(sc.out, format+"\n", args...)
}

// Broadcast prints game events, which makes the shell its own game.Notifier.
func (sc *ShellController) Broadcast(_ string, msg domain.ServerMessage) {
	switch msg.Type {
	case "game_start":
		sc.showMessage("new game: %s (X) against %s (O)", msg.Player1, msg.Player2)
	case "move_made":
		if sc.current != nil && msg.Column != nil {
			sc.showMessage("%s plays column %d", sc.current.Name(domain.PlayerID(msg.Player)), *msg.Column+1)
		}
	case "game_over":
		if msg.Winner == "draw" {
			sc.showMessage("game over: draw")
		} else {
			sc.showMessage("game over: %s wins (%s)", msg.Winner, msg.Reason)
		}
	}
}

func (sc *ShellController) Loop(ctx context.Context) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[34mpuissance4>\033[0m ",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return err
	}
	sc.l = l
	sc.out = l.Stdout()
	defer sc.l.Close()

	sc.usage()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		}

		if err := sc.execute(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			if !errors.Is(err, errNoData) {
				sc.showMessage("error: %v", err)
			}
		}
	}
}

func (sc *ShellController) execute(ctx context.Context, line string) error {
	cmd, err := extractFields(line)
	if err != nil {
		return err
	}

	log.Debug().Str("component", "shell").Str("cmd", cmd.cmd).Strs("args", cmd.args).Msg("command")

	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd.args)
	case "play", "p":
		return sc.play(cmd.args)
	case "board", "b":
		return sc.showBoard()
	case "history", "h":
		return sc.showHistory(ctx)
	case "help", "?":
		sc.usage()
		return nil
	case "exit", "quit", "q":
		return errQuit
	}
	return fmt.Errorf("unknown command %q, try help", cmd.cmd)
}

func (sc *ShellController) usage() {
	io.WriteString(sc.out, "commands:\n")
	io.WriteString(sc.out, "new pvp <player1> <player2> - two players on this terminal\n")
	io.WriteString(sc.out, "new ai <name> [easy|medium|hard|expert] - play against the computer (medium by default)\n")
	io.WriteString(sc.out, "play <column> - drop a piece, columns go from 1 to 7\n")
	io.WriteString(sc.out, "board - show the board\n")
	io.WriteString(sc.out, "history - show finished games\n")
	io.WriteString(sc.out, "exit - leave\n")
}

func (sc *ShellController) newGame(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: new pvp <player1> <player2> | new ai <name> [difficulty]")
	}
	mode, err := game.ParseMode(args[0])
	if err != nil {
		return err
	}

	var p1, p2 string
	var difficulty bot.Difficulty
	if len(args) > 1 {
		p1 = args[1]
	}
	if len(args) > 2 {
		if mode == game.ModeAI {
			d, ok := bot.LookupDifficulty(args[2])
			if !ok {
				return fmt.Errorf("unknown difficulty %q", args[2])
			}
			difficulty = d
		} else {
			p2 = args[2]
		}
	}

	session, err := sc.manager.CreateSession(mode, p1, p2, difficulty)
	if err != nil {
		return err
	}
	sc.current = session
	return sc.showBoard()
}

func (sc *ShellController) play(args []string) error {
	if sc.current == nil {
		return errNoGame
	}
	if len(args) != 1 {
		return errBadColumn
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > domain.Columns {
		return errBadColumn
	}

	seat := sc.current.Snapshot().CurrentTurn
	if _, err := sc.current.HandleMove(seat, n-1); err != nil {
		return err
	}
	return sc.showBoard()
}

func (sc *ShellController) showBoard() error {
	if sc.current == nil {
		return errNoGame
	}
	snap := sc.current.Snapshot()
	board, err := domain.BoardFromInts(snap.Board)
	if err != nil {
		return err
	}

	io.WriteString(sc.out, "1234567\n")
	io.WriteString(sc.out, board.String()+"\n")
	if snap.Status == domain.StatusActive {
		sc.showMessage("%s to play", sc.current.Name(snap.CurrentTurn))
	}
	return nil
}

func (sc *ShellController) showHistory(ctx context.Context) error {
	text, err := sc.history.Log(ctx)
	if err != nil {
		return err
	}
	if text == "" {
		sc.showMessage("no finished games yet")
		return nil
	}
	io.WriteString(sc.out, text)
	return nil
}
