package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"monke-bot/internal/domain"

	"github.com/rs/zerolog"
)

type TrackingRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTrackingRepository(sqlDB *sql.DB, logger zerolog.Logger) *TrackingRepository {
	return &TrackingRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *TrackingRepository) Track(ctx context.Context, entry domain.TrackingEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tracking (game_kind, summoner_id, puuid, riot_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (game_kind, summoner_id) DO NOTHING`,
		string(entry.Kind), entry.SummonerID, entry.PUUID, entry.RiotID, entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to track %s: %w", entry.RiotID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrAlreadyTracked
	}

	r.logger.Info().Str("game", string(entry.Kind)).Str("riot_id", entry.RiotID).Msg("player tracked")
	return nil
}

func (r *TrackingRepository) Untrack(ctx context.Context, kind domain.GameKind, summonerID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tracking WHERE game_kind = ? AND summoner_id = ?`,
		string(kind), summonerID,
	)
	if err != nil {
		return fmt.Errorf("failed to untrack %s: %w", summonerID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotTracked
	}

	r.logger.Info().Str("game", string(kind)).Str("summoner_id", summonerID).Msg("player untracked")
	return nil
}

func (r *TrackingRepository) List(ctx context.Context, kind domain.GameKind) ([]domain.TrackingEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT game_kind, summoner_id, puuid, riot_id, created_at
		FROM tracking
		WHERE game_kind = ?
		ORDER BY riot_id COLLATE NOCASE ASC`,
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked players: %w", err)
	}
	defer rows.Close()

	var entries []domain.TrackingEntry
	for rows.Next() {
		var (
			e    domain.TrackingEntry
			game string
		)
		if err := rows.Scan(&game, &e.SummonerID, &e.PUUID, &e.RiotID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tracking entry: %w", err)
		}
		e.Kind = domain.GameKind(game)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
