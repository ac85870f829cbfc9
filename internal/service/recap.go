package service

import (
	"context"
	"fmt"

	"monke-bot/internal/domain"
	"monke-bot/internal/rank"

	"github.com/rs/zerolog"
)

type SnapshotStore interface {
	QueryRange(ctx context.Context, playerID string, kind domain.GameKind, start, end int64) ([]domain.RankSnapshot, error)
}

type RecapSummary struct {
	Start rank.Rank
	End   rank.Rank
	Delta int
	// WindowClosed is false when End is the live rank standing in for a
	// snapshot that has not been recorded yet.
	WindowClosed bool
	Snapshots    int
}

// RecapEngine reduces stored snapshots of a window to a start/end/delta
// summary. It never calls the upstream API; a live rank is supplied by the
// caller.
type RecapEngine struct {
	snapshots SnapshotStore
	logger    zerolog.Logger
}

func NewRecapEngine(snapshots SnapshotStore, logger zerolog.Logger) *RecapEngine {
	return &RecapEngine{snapshots: snapshots, logger: logger}
}

func (e *RecapEngine) Summarize(ctx context.Context, playerID string, kind domain.GameKind, start, end int64, live *rank.Rank) (RecapSummary, error) {
	if playerID == "" {
		return RecapSummary{}, fmt.Errorf("%w: empty player id", domain.ErrInvalidInput)
	}
	if start > end {
		return RecapSummary{}, fmt.Errorf("%w: window start %d after end %d", domain.ErrInvalidInput, start, end)
	}

	snapshots, err := e.snapshots.QueryRange(ctx, playerID, kind, start, end)
	if err != nil {
		return RecapSummary{}, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	if len(snapshots) == 0 {
		return RecapSummary{}, domain.ErrNoSnapshots
	}

	startRank, err := snapshots[0].Rank()
	if err != nil {
		return RecapSummary{}, fmt.Errorf("snapshot %s: %w", snapshots[0].ID, err)
	}

	summary := RecapSummary{Start: startRank, Snapshots: len(snapshots)}

	switch {
	case len(snapshots) >= 2:
		last := snapshots[len(snapshots)-1]
		endRank, err := last.Rank()
		if err != nil {
			return RecapSummary{}, fmt.Errorf("snapshot %s: %w", last.ID, err)
		}
		summary.End = endRank
		summary.WindowClosed = true
	case live != nil:
		summary.End = *live
	default:
		return RecapSummary{}, domain.ErrNoWindowEnd
	}

	summary.Delta = rank.Difference(summary.Start, summary.End)

	e.logger.Debug().
		Str("player_id", playerID).
		Str("game", string(kind)).
		Int("snapshots", len(snapshots)).
		Int("delta", summary.Delta).
		Bool("window_closed", summary.WindowClosed).
		Msg("recap summarized")

	return summary, nil
}
