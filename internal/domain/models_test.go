package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGameKind(t *testing.T) {
	k, err := ParseGameKind(" TFT ")
	require.NoError(t, err)
	assert.Equal(t, GameTFT, k)

	_, err = ParseGameKind("dota")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStoreDiscriminatorSeparatesGames(t *testing.T) {
	assert.Equal(t, "#", GameLeague.StoreDiscriminator())
	assert.Equal(t, "#TFT", GameTFT.StoreDiscriminator())
}

func TestParticipantOutcome(t *testing.T) {
	assert.Equal(t, OutcomeWin, Participant{Win: true}.Outcome(GameLeague))
	assert.Equal(t, OutcomeLoss, Participant{}.Outcome(GameLeague))
	assert.Equal(t, OutcomeRemake, Participant{Win: true, EarlySurrender: true}.Outcome(GameLeague))

	assert.Equal(t, OutcomeWin, Participant{Placement: 4}.Outcome(GameTFT))
	assert.Equal(t, OutcomeLoss, Participant{Placement: 5}.Outcome(GameTFT))
	assert.Equal(t, OutcomeLoss, Participant{}.Outcome(GameTFT))
}

func TestKDA(t *testing.T) {
	ratio, perfect := Participant{Kills: 3, Deaths: 0, Assists: 4}.KDA()
	assert.True(t, perfect)
	assert.Equal(t, 7.0, ratio)

	ratio, perfect = Participant{Kills: 3, Deaths: 2, Assists: 4}.KDA()
	assert.False(t, perfect)
	assert.InDelta(t, 3.5, ratio, 1e-9)
}

func TestSnapshotRank(t *testing.T) {
	r, err := RankSnapshot{Tier: "GOLD", Division: "I", Points: 64}.Rank()
	require.NoError(t, err)
	assert.Equal(t, 1564, r.ToPoints())

	_, err = RankSnapshot{Tier: "GOLDEN", Division: "I"}.Rank()
	assert.Error(t, err)
}
