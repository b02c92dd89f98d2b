package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	FrontendURL    string

	HistoryStore         string
	SQLitePath           string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int

	RedisEnabled  bool
	RedisURL      string
	RedisPassword string

	JWTSecret    string
	SeatTokenTTL time.Duration

	BotDelay          time.Duration
	DefaultDifficulty string

	FinishedSessionTTL time.Duration
	StaleSessionTTL    time.Duration
	CleanupInterval    time.Duration

	LogLevel  string
	LogFormat string
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("HISTORY_STORE", StoreSQLite)
	v.SetDefault("SQLITE_PATH", "puissance4.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "your-secret-key-change-this-in-production")
	v.SetDefault("SEAT_TOKEN_TTL_HOURS", 24)
	v.SetDefault("BOT_DELAY_MS", 500)
	v.SetDefault("DEFAULT_DIFFICULTY", "medium")
	v.SetDefault("FINISHED_SESSION_TTL_MINUTES", 60)
	v.SetDefault("STALE_SESSION_TTL_HOURS", 24)
	v.SetDefault("CLEANUP_INTERVAL_MINUTES", 60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Debug().Str("component", "config").Msg("no .env file found")
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	frontendURL := v.GetString("FRONTEND_URL")

	// Frontend URL first, then the CSV extras
	origins := []string{frontendURL}
	for _, origin := range strings.Split(v.GetString("ALLOWED_ORIGINS"), ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	cfg := &Config{
		Port:                 v.GetString("PORT"),
		AllowedOrigins:       lo.Uniq(origins),
		FrontendURL:          frontendURL,
		HistoryStore:         strings.ToLower(v.GetString("HISTORY_STORE")),
		SQLitePath:           v.GetString("SQLITE_PATH"),
		DatabaseURL:          v.GetString("DATABASE_URL"),
		DBMaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetimeMin: v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES"),
		RedisEnabled:         v.GetBool("REDIS_ENABLED"),
		RedisURL:             v.GetString("REDIS_URL"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		SeatTokenTTL:         time.Duration(v.GetInt("SEAT_TOKEN_TTL_HOURS")) * time.Hour,
		BotDelay:             time.Duration(v.GetInt("BOT_DELAY_MS")) * time.Millisecond,
		DefaultDifficulty:    v.GetString("DEFAULT_DIFFICULTY"),
		FinishedSessionTTL:   time.Duration(v.GetInt("FINISHED_SESSION_TTL_MINUTES")) * time.Minute,
		StaleSessionTTL:      time.Duration(v.GetInt("STALE_SESSION_TTL_HOURS")) * time.Hour,
		CleanupInterval:      time.Duration(v.GetInt("CLEANUP_INTERVAL_MINUTES")) * time.Minute,
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogFormat:            v.GetString("LOG_FORMAT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.HistoryStore {
	case StoreSQLite:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when HISTORY_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown HISTORY_STORE %q", c.HistoryStore)
	}
	if c.CleanupInterval <= 0 {
		return errors.New("CLEANUP_INTERVAL_MINUTES must be positive")
	}
	if c.BotDelay < 0 {
		return errors.New("BOT_DELAY_MS must not be negative")
	}
	return nil
}
