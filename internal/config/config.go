package config

import (
	"fmt"
	"os"
	"strconv"

	"monke-bot/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	StoreSQLite = "sqlite"
	StoreBadger = "badger"
)

type Config struct {
	RiotAPIKey       string
	TFTRiotAPIKey    string
	DiscordPublicKey string

	DBPath       string
	StoreBackend string
	BadgerPath   string

	ServerPort string
	LogLevel   string

	// 0 leaves the upstream fan-out unbounded
	FetchConcurrency  int
	RiotRatePerSecond float64
	RiotRateBurst     int
	PlatformBaseURL   string
	RegionalBaseURL   string

	RecapTimezone string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	fetchConcurrency, err := getEnvInt("FETCH_CONCURRENCY", 0)
	if err != nil {
		return nil, err
	}
	rateBurst, err := getEnvInt("RIOT_RATE_BURST", constants.DefaultRiotRateBurst)
	if err != nil {
		return nil, err
	}
	ratePerSecond, err := getEnvFloat("RIOT_RATE_PER_SECOND", constants.DefaultRiotRatePerSecond)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		RiotAPIKey:        getEnv("RIOT_API_KEY", ""),
		TFTRiotAPIKey:     getEnv("TFT_RIOT_API_KEY", ""),
		DiscordPublicKey:  getEnv("DISCORD_PUBLIC_KEY", ""),
		DBPath:            getEnv("DB_PATH", "monke.db"),
		StoreBackend:      getEnv("STORE_BACKEND", StoreSQLite),
		BadgerPath:        getEnv("BADGER_PATH", "matches.badger"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		FetchConcurrency:  fetchConcurrency,
		RiotRatePerSecond: ratePerSecond,
		RiotRateBurst:     rateBurst,
		PlatformBaseURL:   getEnv("RIOT_PLATFORM_URL", constants.PlatformBaseURL),
		RegionalBaseURL:   getEnv("RIOT_REGIONAL_URL", constants.RegionalBaseURL),
		RecapTimezone:     getEnv("RECAP_TIMEZONE", constants.DefaultTimezone),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("store_backend", cfg.StoreBackend).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("fetch_concurrency", cfg.FetchConcurrency).
		Float64("riot_rate_per_second", cfg.RiotRatePerSecond).
		Str("recap_timezone", cfg.RecapTimezone).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.RiotAPIKey == "" {
		return fmt.Errorf("RIOT_API_KEY is required")
	}
	if c.TFTRiotAPIKey == "" {
		return fmt.Errorf("TFT_RIOT_API_KEY is required")
	}
	switch c.StoreBackend {
	case StoreSQLite, StoreBadger:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreSQLite, StoreBadger, c.StoreBackend)
	}
	if c.FetchConcurrency < 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must not be negative")
	}
	if c.RiotRatePerSecond <= 0 || c.RiotRateBurst <= 0 {
		return fmt.Errorf("riot rate limit must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

var Module = fx.Provide(Load)
