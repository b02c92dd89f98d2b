package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/puissance4/internal/config"
	"github.com/iamasit07/puissance4/internal/repository/sqlite"
	"github.com/iamasit07/puissance4/internal/service/history"
	"github.com/iamasit07/puissance4/internal/shell"
)

var (
	dbPath  = flag.String("db", "", "sqlite history file (defaults to SQLITE_PATH)")
	verbose = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	// the prompt shares the terminal with the logs, keep them quiet
	config.SetupLogger("warn", "console")
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	path := cfg.SQLitePath
	if *dbPath != "" {
		path = *dbPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := sqlite.Open(ctx, path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("could not open history")
	}
	defer db.Close()

	sc := shell.NewShellController(history.NewService(sqlite.NewHistoryRepo(db), nil), os.Stdout)
	if err := sc.Loop(ctx); err != nil {
		log.Error().Err(err).Msg("shell stopped")
	}
}
