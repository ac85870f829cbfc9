package service

import (
	"context"
	"time"

	"monke-bot/internal/domain"

	"github.com/rs/zerolog"
)

type TrackingStore interface {
	Track(ctx context.Context, entry domain.TrackingEntry) error
	Untrack(ctx context.Context, kind domain.GameKind, summonerID string) error
	List(ctx context.Context, kind domain.GameKind) ([]domain.TrackingEntry, error)
}

type TrackingService struct {
	players *PlayerService
	store   TrackingStore
	logger  zerolog.Logger
}

func NewTrackingService(players *PlayerService, store TrackingStore, logger zerolog.Logger) *TrackingService {
	return &TrackingService{players: players, store: store, logger: logger}
}

func (s *TrackingService) Track(ctx context.Context, kind domain.GameKind, gameName, tagLine string) (domain.TrackingEntry, error) {
	player, err := s.players.Resolve(ctx, kind, gameName, tagLine)
	if err != nil {
		return domain.TrackingEntry{}, err
	}

	entry := domain.TrackingEntry{
		Kind:       kind,
		SummonerID: player.SummonerID,
		PUUID:      player.PUUID,
		RiotID:     player.RiotID(),
		CreatedAt:  time.Now(),
	}
	if err := s.store.Track(ctx, entry); err != nil {
		return entry, err
	}
	s.logger.Info().Str("riot_id", entry.RiotID).Str("game", string(kind)).Msg("player tracked")
	return entry, nil
}

func (s *TrackingService) Untrack(ctx context.Context, kind domain.GameKind, gameName, tagLine string) (domain.Player, error) {
	player, err := s.players.Resolve(ctx, kind, gameName, tagLine)
	if err != nil {
		return domain.Player{}, err
	}
	return player, s.store.Untrack(ctx, kind, player.SummonerID)
}

func (s *TrackingService) List(ctx context.Context, kind domain.GameKind) ([]domain.TrackingEntry, error) {
	return s.store.List(ctx, kind)
}
