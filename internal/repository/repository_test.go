package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"monke-bot/internal/database"
	"monke-bot/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func leagueMatch(id string, createdAt int64) domain.MatchRecord {
	return domain.MatchRecord{
		ID:        id,
		Kind:      domain.GameLeague,
		CreatedAt: createdAt,
		QueueID:   420,
		Participants: []domain.Participant{
			{PUUID: "p1", SummonerID: "s1", Champion: "Ahri", Kills: 7, Deaths: 2, Assists: 9, Win: true},
		},
	}
}

func TestMatchRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository(newTestDB(t), zerolog.Nop())

	require.NoError(t, repo.BatchPut(ctx, []domain.MatchRecord{leagueMatch("NA1_1", 100), leagueMatch("NA1_2", 200)}))

	found, err := repo.BatchGet(ctx, domain.GameLeague, []string{"NA1_1", "NA1_2", "NA1_3"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, leagueMatch("NA1_2", 200), found["NA1_2"])
}

func TestMatchRepositorySeparatesGameKinds(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository(newTestDB(t), zerolog.Nop())

	tft := domain.MatchRecord{ID: "NA1_1", Kind: domain.GameTFT, CreatedAt: 5, Participants: []domain.Participant{{PUUID: "p1", Placement: 2}}}
	require.NoError(t, repo.BatchPut(ctx, []domain.MatchRecord{leagueMatch("NA1_1", 100), tft}))

	found, err := repo.BatchGet(ctx, domain.GameTFT, []string{"NA1_1"})
	require.NoError(t, err)
	assert.Equal(t, tft, found["NA1_1"])

	found, err = repo.BatchGet(ctx, domain.GameLeague, []string{"NA1_1"})
	require.NoError(t, err)
	assert.Equal(t, int64(100), found["NA1_1"].CreatedAt)
}

func TestMatchRepositoryFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository(newTestDB(t), zerolog.Nop())

	require.NoError(t, repo.BatchPut(ctx, []domain.MatchRecord{leagueMatch("NA1_1", 100)}))
	require.NoError(t, repo.BatchPut(ctx, []domain.MatchRecord{leagueMatch("NA1_1", 999)}))

	found, err := repo.BatchGet(ctx, domain.GameLeague, []string{"NA1_1"})
	require.NoError(t, err)
	assert.Equal(t, int64(100), found["NA1_1"].CreatedAt)
}

func TestMatchRepositoryReplacesCorruptPayload(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())

	_, err := db.ExecContext(ctx,
		`INSERT INTO match_records (id, sk, game_kind, created_at, payload) VALUES (?, ?, ?, ?, ?)`,
		"NA1_1", domain.GameLeague.StoreDiscriminator(), string(domain.GameLeague), 100, []byte("{not json"))
	require.NoError(t, err)

	found, err := repo.BatchGet(ctx, domain.GameLeague, []string{"NA1_1"})
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, repo.BatchPut(ctx, []domain.MatchRecord{leagueMatch("NA1_1", 100)}))

	found, err = repo.BatchGet(ctx, domain.GameLeague, []string{"NA1_1"})
	require.NoError(t, err)
	assert.Equal(t, leagueMatch("NA1_1", 100), found["NA1_1"])
}

func TestMatchRepositoryChunksLargeBatches(t *testing.T) {
	ctx := context.Background()
	repo := NewMatchRepository(newTestDB(t), zerolog.Nop())

	var records []domain.MatchRecord
	var ids []string
	for i := 0; i < 250; i++ {
		id := "NA1_" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		records = append(records, leagueMatch(id, int64(i)))
		ids = append(ids, id)
	}
	require.NoError(t, repo.BatchPut(ctx, records))

	found, err := repo.BatchGet(ctx, domain.GameLeague, ids)
	require.NoError(t, err)
	assert.Len(t, found, 250)
}

func TestMatchRepositoryClosedDB(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db, zerolog.Nop())
	require.NoError(t, db.Close())

	_, err := repo.BatchGet(context.Background(), domain.GameLeague, []string{"NA1_1"})
	assert.Error(t, err)
}

func TestRankSnapshotRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRankSnapshotRepository(newTestDB(t), zerolog.Nop())

	snaps := []domain.RankSnapshot{
		{PlayerID: "s1", Kind: domain.GameLeague, Timestamp: 300, Tier: "GOLD", Division: "I", Points: 80},
		{PlayerID: "s1", Kind: domain.GameLeague, Timestamp: 100, Tier: "GOLD", Division: "I", Points: 60},
		{PlayerID: "s1", Kind: domain.GameTFT, Timestamp: 150, Tier: "SILVER", Division: "II", Points: 10},
		{PlayerID: "s2", Kind: domain.GameLeague, Timestamp: 150, Tier: "IRON", Division: "IV", Points: 0},
		{PlayerID: "s1", Kind: domain.GameLeague, Timestamp: 900, Tier: "GOLD", Division: "I", Points: 99},
	}
	require.NoError(t, repo.AddBatch(ctx, snaps))

	got, err := repo.QueryRange(ctx, "s1", domain.GameLeague, 100, 300)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(100), got[0].Timestamp)
	assert.Equal(t, int64(300), got[1].Timestamp)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, domain.GameLeague, got[0].Kind)

	// same player, game and second is a no-op
	require.NoError(t, repo.Add(ctx, domain.RankSnapshot{PlayerID: "s1", Kind: domain.GameLeague, Timestamp: 100, Tier: "IRON", Division: "IV"}))
	got, err = repo.QueryRange(ctx, "s1", domain.GameLeague, 100, 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "GOLD", got[0].Tier)

	got, err = repo.QueryRange(ctx, "nobody", domain.GameLeague, 0, 1000)
	require.NoError(t, err)
	assert.Empty(t, got)

	err = repo.Add(ctx, domain.RankSnapshot{Kind: domain.GameLeague})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTrackingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTrackingRepository(newTestDB(t), zerolog.Nop())

	entry := domain.TrackingEntry{Kind: domain.GameLeague, SummonerID: "s1", PUUID: "p1", RiotID: "zed#NA1"}
	require.NoError(t, repo.Track(ctx, entry))
	assert.ErrorIs(t, repo.Track(ctx, entry), domain.ErrAlreadyTracked)

	require.NoError(t, repo.Track(ctx, domain.TrackingEntry{Kind: domain.GameLeague, SummonerID: "s2", PUUID: "p2", RiotID: "Ahri#NA1"}))
	require.NoError(t, repo.Track(ctx, domain.TrackingEntry{Kind: domain.GameTFT, SummonerID: "s1", PUUID: "p1", RiotID: "zed#NA1"}))

	list, err := repo.List(ctx, domain.GameLeague)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ahri#NA1", list[0].RiotID)
	assert.Equal(t, "zed#NA1", list[1].RiotID)
	assert.False(t, list[0].CreatedAt.IsZero())

	require.NoError(t, repo.Untrack(ctx, domain.GameLeague, "s1"))
	assert.ErrorIs(t, repo.Untrack(ctx, domain.GameLeague, "s1"), domain.ErrNotTracked)

	list, err = repo.List(ctx, domain.GameTFT)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
