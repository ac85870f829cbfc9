package service

import (
	"context"
	"fmt"
	"time"

	"monke-bot/internal/api"
	"monke-bot/internal/constants"
	"monke-bot/internal/domain"
	"monke-bot/internal/metrics"
	"monke-bot/internal/rank"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type SnapshotWriter interface {
	AddBatch(ctx context.Context, snapshots []domain.RankSnapshot) error
}

type SnapshotResult struct {
	Recorded int
	Unranked int
	Failed   int
}

// SnapshotService records the ranked standing of every tracked player. It is
// meant to run at the start and end of each recap day.
type SnapshotService struct {
	riot      RiotAPI
	tracking  TrackingStore
	snapshots SnapshotWriter
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

func NewSnapshotService(riot RiotAPI, tracking TrackingStore, snapshots SnapshotWriter, m *metrics.Metrics, logger zerolog.Logger) *SnapshotService {
	return &SnapshotService{
		riot:      riot,
		tracking:  tracking,
		snapshots: snapshots,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Run snapshots every tracked player of kind. Players whose entries cannot
// be fetched are skipped; only a tracking or store failure aborts the run.
func (s *SnapshotService) Run(ctx context.Context, kind domain.GameKind) (SnapshotResult, error) {
	tracked, err := s.tracking.List(ctx, kind)
	if err != nil {
		return SnapshotResult{}, fmt.Errorf("failed to list tracked players: %w", err)
	}

	ts := s.now().Unix()
	slots := make([]*domain.RankSnapshot, len(tracked))
	failed := make([]bool, len(tracked))
	unranked := make([]bool, len(tracked))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(constants.SnapshotConcurrency)

	for i, entry := range tracked {
		g.Go(func() error {
			apiCtx, cancel := context.WithTimeout(gCtx, constants.ExternalAPITimeout)
			defer cancel()

			entries, err := s.riot.GetLeagueEntries(apiCtx, kind, entry.SummonerID)
			if err != nil {
				s.logger.Warn().Err(err).Str("riot_id", entry.RiotID).Str("game", string(kind)).Msg("failed to fetch league entries")
				failed[i] = true
				return nil
			}

			league, ok := api.FindQueue(entries, kind.RankedQueueType())
			if !ok {
				unranked[i] = true
				return nil
			}

			if _, err := rank.Parse(league.Tier, league.Rank, league.LeaguePoints); err != nil {
				s.logger.Warn().Err(err).Str("riot_id", entry.RiotID).Str("game", string(kind)).Msg("unreadable ranked standing")
				failed[i] = true
				return nil
			}

			slots[i] = &domain.RankSnapshot{
				PlayerID:  entry.SummonerID,
				Kind:      kind,
				Timestamp: ts,
				Tier:      league.Tier,
				Division:  league.Rank,
				Points:    league.LeaguePoints,
				Wins:      league.Wins,
				Losses:    league.Losses,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SnapshotResult{}, err
	}

	var result SnapshotResult
	batch := make([]domain.RankSnapshot, 0, len(tracked))
	for i := range tracked {
		switch {
		case slots[i] != nil:
			batch = append(batch, *slots[i])
			result.Recorded++
			s.metrics.Snapshot(string(kind), "recorded")
		case unranked[i]:
			result.Unranked++
			s.metrics.Snapshot(string(kind), "unranked")
		case failed[i]:
			result.Failed++
			s.metrics.Snapshot(string(kind), "failed")
		}
	}

	if err := s.snapshots.AddBatch(ctx, batch); err != nil {
		return result, fmt.Errorf("failed to store snapshots: %w", err)
	}

	s.logger.Info().
		Str("game", string(kind)).
		Int64("ts", ts).
		Int("tracked", len(tracked)).
		Int("recorded", result.Recorded).
		Int("unranked", result.Unranked).
		Int("failed", result.Failed).
		Msg("rank snapshots recorded")

	return result, nil
}
