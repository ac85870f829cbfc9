package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"monke-bot/internal/domain"
	"monke-bot/internal/metrics"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type MatchStore interface {
	BatchGet(ctx context.Context, kind domain.GameKind, ids []string) (map[string]domain.MatchRecord, error)
	BatchPut(ctx context.Context, records []domain.MatchRecord) error
}

type MatchSource interface {
	Fetch(ctx context.Context, kind domain.GameKind, id string) (domain.MatchRecord, error)
}

// MatchBatch holds the records that could be served, newest first. Failed
// counts requested ids that were neither stored nor fetchable.
type MatchBatch struct {
	Records []domain.MatchRecord
	Failed  int
}

// MatchCache serves match records cache-aside: stored records are returned
// as is, misses are fetched from the source and written back.
type MatchCache struct {
	store      MatchStore
	source     MatchSource
	fetchLimit int
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewMatchCache builds the engine. fetchLimit caps concurrent upstream
// fetches; 0 means one goroutine per miss.
func NewMatchCache(store MatchStore, source MatchSource, fetchLimit int, m *metrics.Metrics, logger zerolog.Logger) *MatchCache {
	return &MatchCache{
		store:      store,
		source:     source,
		fetchLimit: fetchLimit,
		metrics:    m,
		logger:     logger,
	}
}

// GetMatches fails when an id is empty or the store lookup fails. Ids the upstream cannot
// serve are dropped from the result and counted in MatchBatch.Failed.
func (c *MatchCache) GetMatches(ctx context.Context, kind domain.GameKind, ids []string) (MatchBatch, error) {
	ids, err := uniqueIDs(ids)
	if err != nil {
		return MatchBatch{}, err
	}
	if len(ids) == 0 {
		return MatchBatch{}, nil
	}

	found, err := c.store.BatchGet(ctx, kind, ids)
	if err != nil {
		c.logger.Error().Err(err).Str("game", string(kind)).Int("ids", len(ids)).Msg("match store lookup failed")
		return MatchBatch{}, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	records := make([]domain.MatchRecord, 0, len(ids))
	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if record, ok := found[id]; ok {
			records = append(records, record)
		} else {
			missing = append(missing, id)
		}
	}
	c.metrics.CacheLookup(string(kind), len(records), len(missing))

	fetched := c.fetchMissing(ctx, kind, missing)
	failed := len(missing) - len(fetched)
	c.metrics.FetchFailures(string(kind), failed)

	if len(fetched) > 0 {
		if err := c.store.BatchPut(ctx, fetched); err != nil {
			c.metrics.PersistFailure(string(kind))
			c.logger.Warn().Err(err).Str("game", string(kind)).Int("records", len(fetched)).Msg("failed to persist fetched matches")
		}
	}

	records = append(records, fetched...)
	slices.SortFunc(records, func(a, b domain.MatchRecord) int {
		if n := cmp.Compare(b.CreatedAt, a.CreatedAt); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})

	c.logger.Debug().
		Str("game", string(kind)).
		Int("requested", len(ids)).
		Int("hits", len(found)).
		Int("fetched", len(fetched)).
		Int("failed", failed).
		Msg("matches resolved")

	return MatchBatch{Records: records, Failed: failed}, nil
}

// fetchMissing waits for every fetch to settle. A failed fetch never cancels
// the others.
func (c *MatchCache) fetchMissing(ctx context.Context, kind domain.GameKind, ids []string) []domain.MatchRecord {
	if len(ids) == 0 {
		return nil
	}

	slots := make([]*domain.MatchRecord, len(ids))

	var g errgroup.Group
	if c.fetchLimit > 0 {
		g.SetLimit(c.fetchLimit)
	}

	for i, id := range ids {
		g.Go(func() error {
			record, err := c.source.Fetch(ctx, kind, id)
			if err != nil {
				c.logger.Warn().Err(err).Str("game", string(kind)).Str("match_id", id).Msg("failed to fetch match")
				return nil
			}
			record.ID = id
			record.Kind = kind
			slots[i] = &record
			return nil
		})
	}
	_ = g.Wait()

	fetched := make([]domain.MatchRecord, 0, len(ids))
	for _, record := range slots {
		if record != nil {
			fetched = append(fetched, *record)
		}
	}
	return fetched
}

func uniqueIDs(ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for i, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: empty match id at position %d", domain.ErrInvalidInput, i)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
