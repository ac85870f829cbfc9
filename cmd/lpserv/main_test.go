package main

import (
	"testing"

	"monke-bot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameKinds(t *testing.T) {
	kinds, err := gameKinds("all")
	require.NoError(t, err)
	assert.Equal(t, []domain.GameKind{domain.GameLeague, domain.GameTFT}, kinds)

	kinds, err = gameKinds("TFT")
	require.NoError(t, err)
	assert.Equal(t, []domain.GameKind{domain.GameTFT}, kinds)

	_, err = gameKinds("dota")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSnapshotFlag(t *testing.T) {
	flag := snapshotCmd.Flags().Lookup("game")
	require.NotNil(t, flag)
	assert.Equal(t, "all", flag.DefValue)
}
