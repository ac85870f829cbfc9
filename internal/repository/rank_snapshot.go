package repository

import (
	"context"
	"database/sql"
	"fmt"

	"monke-bot/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type RankSnapshotRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRankSnapshotRepository(sqlDB *sql.DB, logger zerolog.Logger) *RankSnapshotRepository {
	return &RankSnapshotRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *RankSnapshotRepository) Add(ctx context.Context, snapshot domain.RankSnapshot) error {
	return r.AddBatch(ctx, []domain.RankSnapshot{snapshot})
}

// AddBatch appends snapshots. A second snapshot for the same player, game and
// second is dropped, which keeps reruns of an ingestion tick idempotent.
func (r *RankSnapshotRepository) AddBatch(ctx context.Context, snapshots []domain.RankSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, s := range snapshots {
		if s.PlayerID == "" {
			return fmt.Errorf("%w: snapshot without player id", domain.ErrInvalidInput)
		}

		id := s.ID
		if id == "" {
			id, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO rank_snapshots (id, player_id, game_kind, ts, tier, division, points, wins, losses)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (player_id, game_kind, ts) DO NOTHING`,
			id, s.PlayerID, string(s.Kind), s.Timestamp, s.Tier, s.Division, s.Points, s.Wins, s.Losses,
		)
		if err != nil {
			return fmt.Errorf("failed to insert rank snapshot: %w", err)
		}
	}

	return tx.Commit()
}

// QueryRange returns the player's snapshots with start <= ts <= end, oldest first.
func (r *RankSnapshotRepository) QueryRange(ctx context.Context, playerID string, kind domain.GameKind, start, end int64) ([]domain.RankSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player_id, game_kind, ts, tier, division, points, wins, losses
		FROM rank_snapshots
		WHERE player_id = ? AND game_kind = ? AND ts BETWEEN ? AND ?
		ORDER BY ts ASC, id ASC`,
		playerID, string(kind), start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query rank snapshots: %w", err)
	}
	defer rows.Close()

	var result []domain.RankSnapshot
	for rows.Next() {
		var (
			s    domain.RankSnapshot
			game string
		)
		if err := rows.Scan(&s.ID, &s.PlayerID, &game, &s.Timestamp, &s.Tier, &s.Division, &s.Points, &s.Wins, &s.Losses); err != nil {
			return nil, fmt.Errorf("failed to scan rank snapshot: %w", err)
		}
		s.Kind = domain.GameKind(game)
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("player_id", playerID).
		Str("game", string(kind)).
		Int64("start", start).
		Int64("end", end).
		Int("count", len(result)).
		Msg("rank snapshots queried")
	return result, nil
}
