package service

import (
	"context"
	"testing"

	"monke-bot/internal/domain"
	"monke-bot/internal/rank"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(ts int64, tier, division string, points int) domain.RankSnapshot {
	return domain.RankSnapshot{PlayerID: "s1", Kind: domain.GameLeague, Timestamp: ts, Tier: tier, Division: division, Points: points}
}

func TestSummarizeNoSnapshots(t *testing.T) {
	engine := NewRecapEngine(&fakeSnapshots{}, zerolog.Nop())
	live := rank.Rank{Tier: rank.Gold, Division: rank.I, Points: 10}

	_, err := engine.Summarize(context.Background(), "s1", domain.GameLeague, 0, 100, &live)
	assert.ErrorIs(t, err, domain.ErrNoSnapshots)
}

func TestSummarizeTwoSnapshotsClosesWindow(t *testing.T) {
	store := &fakeSnapshots{snapshots: []domain.RankSnapshot{
		snap(10, "SILVER", "I", 90),
		snap(90, "GOLD", "IV", 15),
	}}
	engine := NewRecapEngine(store, zerolog.Nop())
	live := rank.Rank{Tier: rank.Iron, Division: rank.IV}

	summary, err := engine.Summarize(context.Background(), "s1", domain.GameLeague, 0, 100, &live)
	require.NoError(t, err)
	assert.True(t, summary.WindowClosed)
	assert.Equal(t, 25, summary.Delta)
	assert.Equal(t, rank.Gold, summary.End.Tier)
	assert.Equal(t, 2, summary.Snapshots)
}

func TestSummarizeOneSnapshotUsesLiveRank(t *testing.T) {
	store := &fakeSnapshots{snapshots: []domain.RankSnapshot{snap(10, "GOLD", "I", 60)}}
	engine := NewRecapEngine(store, zerolog.Nop())

	same := rank.Rank{Tier: rank.Gold, Division: rank.I, Points: 60}
	summary, err := engine.Summarize(context.Background(), "s1", domain.GameLeague, 0, 100, &same)
	require.NoError(t, err)
	assert.False(t, summary.WindowClosed)
	assert.Zero(t, summary.Delta)

	up := rank.Rank{Tier: rank.Gold, Division: rank.I, Points: 64}
	summary, err = engine.Summarize(context.Background(), "s1", domain.GameLeague, 0, 100, &up)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Delta)
}

func TestSummarizeOneSnapshotWithoutLiveRank(t *testing.T) {
	store := &fakeSnapshots{snapshots: []domain.RankSnapshot{snap(10, "GOLD", "I", 60)}}
	engine := NewRecapEngine(store, zerolog.Nop())

	_, err := engine.Summarize(context.Background(), "s1", domain.GameLeague, 0, 100, nil)
	assert.ErrorIs(t, err, domain.ErrNoWindowEnd)
}

func TestSummarizeUsesLastOfManySnapshots(t *testing.T) {
	store := &fakeSnapshots{snapshots: []domain.RankSnapshot{
		snap(10, "GOLD", "I", 60),
		snap(50, "GOLD", "I", 99),
		snap(99, "GOLD", "I", 40),
	}}
	engine := NewRecapEngine(store, zerolog.Nop())

	summary, err := engine.Summarize(context.Background(), "s1", domain.GameLeague, 0, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, -20, summary.Delta)
	assert.Equal(t, 3, summary.Snapshots)
}

func TestSummarizeRespectsWindow(t *testing.T) {
	store := &fakeSnapshots{snapshots: []domain.RankSnapshot{
		snap(5, "IRON", "IV", 0),
		snap(10, "GOLD", "I", 60),
		snap(200, "CHALLENGER", "I", 900),
	}}
	engine := NewRecapEngine(store, zerolog.Nop())
	live := rank.Rank{Tier: rank.Gold, Division: rank.I, Points: 50}

	summary, err := engine.Summarize(context.Background(), "s1", domain.GameLeague, 10, 100, &live)
	require.NoError(t, err)
	assert.Equal(t, -10, summary.Delta)
	assert.False(t, summary.WindowClosed)
}

func TestSummarizeMalformedSnapshot(t *testing.T) {
	store := &fakeSnapshots{snapshots: []domain.RankSnapshot{
		snap(10, "GOLD", "I", 60),
		snap(20, "PAPER", "I", 60),
	}}
	engine := NewRecapEngine(store, zerolog.Nop())

	_, err := engine.Summarize(context.Background(), "s1", domain.GameLeague, 0, 100, nil)
	assert.ErrorIs(t, err, rank.ErrInvalidRank)
}

func TestSummarizeInvalidInput(t *testing.T) {
	engine := NewRecapEngine(&fakeSnapshots{}, zerolog.Nop())

	_, err := engine.Summarize(context.Background(), "", domain.GameLeague, 0, 100, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = engine.Summarize(context.Background(), "s1", domain.GameLeague, 100, 0, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummarizeStoreFailure(t *testing.T) {
	engine := NewRecapEngine(&fakeSnapshots{err: errBoom}, zerolog.Nop())

	_, err := engine.Summarize(context.Background(), "s1", domain.GameLeague, 0, 100, nil)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
