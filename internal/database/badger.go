package database

import (
	"fmt"
	"os"

	"monke-bot/internal/config"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msgf(format, args...)
}

func NewBadger(cfg *config.Config, logger zerolog.Logger) (*badger.DB, error) {
	if err := os.MkdirAll(cfg.BadgerPath, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", cfg.BadgerPath, err)
	}
	return openBadger(badger.DefaultOptions(cfg.BadgerPath), logger)
}

func NewInMemoryBadger(logger zerolog.Logger) (*badger.DB, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true), logger)
}

func openBadger(opts badger.Options, logger zerolog.Logger) (*badger.DB, error) {
	opts = opts.
		WithNumVersionsToKeep(1).
		WithLogger(badgerLogger{logger: logger.With().Str("component", "badger").Logger()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	logger.Info().Bool("in_memory", opts.InMemory).Str("dir", opts.Dir).Msg("badger opened")
	return db, nil
}
