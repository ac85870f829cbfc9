package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"monke-bot/internal/api"
	"monke-bot/internal/constants"
	"monke-bot/internal/domain"
	"monke-bot/internal/rank"

	"github.com/rs/zerolog"
)

// RiotAPI is the part of the Riot client the services depend on.
type RiotAPI interface {
	GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*api.AccountDTO, error)
	GetSummonerByPUUID(ctx context.Context, kind domain.GameKind, puuid string) (*api.SummonerDTO, error)
	GetLeagueEntries(ctx context.Context, kind domain.GameKind, summonerID string) ([]api.LeagueEntryDTO, error)
	GetMatchIDs(ctx context.Context, kind domain.GameKind, puuid string, q api.MatchIDsQuery) ([]string, error)
}

type PlayerService struct {
	riot   RiotAPI
	logger zerolog.Logger
}

func NewPlayerService(riot RiotAPI, logger zerolog.Logger) *PlayerService {
	return &PlayerService{riot: riot, logger: logger}
}

// Resolve turns a Riot ID into the identifiers the given game's endpoints
// need. Summoner ids differ between League and TFT keys.
func (s *PlayerService) Resolve(ctx context.Context, kind domain.GameKind, gameName, tagLine string) (domain.Player, error) {
	gameName = strings.TrimSpace(gameName)
	tagLine = strings.TrimPrefix(strings.TrimSpace(tagLine), "#")
	if gameName == "" || tagLine == "" {
		return domain.Player{}, fmt.Errorf("%w: riot id needs a game name and a tag line", domain.ErrInvalidInput)
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	account, err := s.riot.GetAccountByRiotID(apiCtx, gameName, tagLine)
	if err != nil {
		s.logger.Debug().Err(err).Str("game_name", gameName).Str("tag_line", tagLine).Msg("failed to resolve riot id")
		return domain.Player{}, fmt.Errorf("failed to fetch account %s#%s: %w", gameName, tagLine, err)
	}

	summoner, err := s.riot.GetSummonerByPUUID(apiCtx, kind, account.PUUID)
	if err != nil {
		return domain.Player{}, fmt.Errorf("failed to fetch %s summoner: %w", kind, err)
	}

	player := domain.Player{
		PUUID:      account.PUUID,
		SummonerID: summoner.ID,
		GameName:   account.GameName,
		TagLine:    account.TagLine,
	}
	s.logger.Debug().Str("riot_id", player.RiotID()).Str("game", string(kind)).Msg("player resolved")
	return player, nil
}

// LiveStanding is the player's current placement in the game's ranked queue.
type LiveStanding struct {
	Rank      rank.Rank
	Wins      int
	Losses    int
	HotStreak bool
}

func (l LiveStanding) SeasonWinRate() float64 {
	total := l.Wins + l.Losses
	if total == 0 {
		return 0
	}
	return float64(l.Wins) / float64(total) * 100
}

// Live returns nil when the player is unranked in the game's ranked queue.
func (s *PlayerService) Live(ctx context.Context, kind domain.GameKind, summonerID string) (*LiveStanding, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	entries, err := s.riot.GetLeagueEntries(apiCtx, kind, summonerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch league entries: %w", err)
	}
	return standingFrom(entries, kind)
}

func standingFrom(entries []api.LeagueEntryDTO, kind domain.GameKind) (*LiveStanding, error) {
	entry, ok := api.FindQueue(entries, kind.RankedQueueType())
	if !ok {
		return nil, nil
	}
	r, err := rank.Parse(entry.Tier, entry.Rank, entry.LeaguePoints)
	if err != nil {
		return nil, err
	}
	return &LiveStanding{Rank: r, Wins: entry.Wins, Losses: entry.Losses, HotStreak: entry.HotStreak}, nil
}
