package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"monke-bot/internal/constants"
	"monke-bot/internal/domain"
	fxmodules "monke-bot/internal/fx"
	"monke-bot/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var (
	game string

	rootCmd = &cobra.Command{
		Use:   "lpserv",
		Short: "Records ranked standing snapshots for tracked players",
		Long: `lpserv snapshots the ranked standing of every tracked player so that
daily recaps can report LP movement. Run it at the start and the end of
each recap day.`,
		SilenceUsage: true,
	}

	snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "Snapshot every tracked player once",
		RunE:  runSnapshot,
	}
)

func init() {
	snapshotCmd.Flags().StringVar(&game, "game", "all", "game to snapshot: league, tft or all")
	rootCmd.AddCommand(snapshotCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func gameKinds(s string) ([]domain.GameKind, error) {
	if s == "all" {
		return domain.GameKinds, nil
	}
	kind, err := domain.ParseGameKind(s)
	if err != nil {
		return nil, err
	}
	return []domain.GameKind{kind}, nil
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	kinds, err := gameKinds(game)
	if err != nil {
		return err
	}

	var (
		snapshots *service.SnapshotService
		db        *sql.DB
		logger    zerolog.Logger
	)
	app := fx.New(
		fxmodules.Core,
		fx.NopLogger,
		fx.Populate(&snapshots, &db, &logger),
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	ctx := cmd.Context()
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start app: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if err := app.Stop(stopCtx); err != nil {
			logger.Warn().Err(err).Msg("failed to stop app")
		}
		if err := db.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing database connection")
		}
	}()

	var errs []error
	for _, kind := range kinds {
		result, err := snapshots.Run(ctx, kind)
		if err != nil {
			logger.Error().Err(err).Str("game", string(kind)).Msg("snapshot run failed")
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d recorded, %d unranked, %d failed\n",
			kind.Label(), result.Recorded, result.Unranked, result.Failed)
	}
	return errors.Join(errs...)
}
