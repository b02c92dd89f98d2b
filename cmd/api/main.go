package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iamasit07/puissance4/internal/config"
	"github.com/iamasit07/puissance4/internal/repository/postgres"
	"github.com/iamasit07/puissance4/internal/repository/redis"
	"github.com/iamasit07/puissance4/internal/repository/sqlite"
	"github.com/iamasit07/puissance4/internal/service/bot"
	"github.com/iamasit07/puissance4/internal/service/cleanup"
	"github.com/iamasit07/puissance4/internal/service/game"
	"github.com/iamasit07/puissance4/internal/service/history"
	transportHttp "github.com/iamasit07/puissance4/internal/transport/http"
	"github.com/iamasit07/puissance4/internal/transport/websocket"
	"github.com/iamasit07/puissance4/pkg/auth"
)

const GracefulShutdownTimeout = 30 * time.Second

func openHistoryRepo(ctx context.Context, cfg *config.Config) (history.Repository, *sql.DB, error) {
	if cfg.HistoryStore == config.StorePostgres {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewHistoryRepo(db), db, nil
	}

	db, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	return sqlite.NewHistoryRepo(db), db, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	config.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server exited gracefully")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence
	repo, db, err := openHistoryRepo(ctx, cfg)
	if err != nil {
		return fmt.Errorf("could not open %s history store: %w", cfg.HistoryStore, err)
	}
	defer db.Close()

	var cache history.CacheRepository
	if cfg.RedisEnabled {
		if client := redis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword); client != nil {
			redisCache := redis.NewRedisCache(client)
			defer redisCache.Close()
			cache = redisCache
		}
	}

	// Services
	historyService := history.NewService(repo, cache)
	hub := websocket.NewHub()
	manager := game.NewManager(hub, historyService, game.WithBotDelay(cfg.BotDelay))
	signer := auth.NewSeatSigner(cfg.JWTSecret, cfg.SeatTokenTTL)
	worker := cleanup.NewWorker(manager, cfg.CleanupInterval, cfg.FinishedSessionTTL, cfg.StaleSessionTTL)

	// Transport
	wsHandler := websocket.NewHandler(hub, manager, signer, cfg.AllowedOrigins)
	router := transportHttp.NewRouter(transportHttp.RouterDeps{
		Games:          transportHttp.NewGameHandler(manager, signer, bot.ParseDifficulty(cfg.DefaultDifficulty)),
		Watch:          transportHttp.NewWatchHandler(manager),
		History:        transportHttp.NewHistoryHandler(historyService),
		Engine:         transportHttp.NewEngineHandler(),
		WebSocket:      wsHandler.HandleWebSocket,
		Signer:         signer,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("store", cfg.HistoryStore).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("server is shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
