package api

import (
	"context"
	"fmt"

	"monke-bot/internal/domain"
)

// MatchSource fetches single matches from Riot and reduces them to the
// fields the match cache keeps.
type MatchSource struct {
	client *RiotClient
}

func NewMatchSource(client *RiotClient) *MatchSource {
	return &MatchSource{client: client}
}

func (s *MatchSource) Fetch(ctx context.Context, kind domain.GameKind, id string) (domain.MatchRecord, error) {
	switch kind {
	case domain.GameLeague:
		dto, err := s.client.GetLeagueMatch(ctx, id)
		if err != nil {
			return domain.MatchRecord{}, err
		}
		return LeagueRecord(id, dto), nil
	case domain.GameTFT:
		dto, err := s.client.GetTFTMatch(ctx, id)
		if err != nil {
			return domain.MatchRecord{}, err
		}
		return TFTRecord(id, dto), nil
	}
	return domain.MatchRecord{}, fmt.Errorf("%w: unknown game %q", domain.ErrInvalidInput, kind)
}

func LeagueRecord(id string, dto *LeagueMatchDTO) domain.MatchRecord {
	record := domain.MatchRecord{
		ID:           id,
		Kind:         domain.GameLeague,
		CreatedAt:    dto.Info.GameCreation / 1000,
		QueueID:      dto.Info.QueueID,
		Participants: make([]domain.Participant, 0, len(dto.Info.Participants)),
	}
	for _, p := range dto.Info.Participants {
		record.Participants = append(record.Participants, domain.Participant{
			PUUID:          p.PUUID,
			SummonerID:     p.SummonerID,
			Champion:       p.ChampionName,
			Kills:          p.Kills,
			Deaths:         p.Deaths,
			Assists:        p.Assists,
			Win:            p.Win,
			EarlySurrender: p.GameEndedInEarlySurrender,
		})
	}
	return record
}

func TFTRecord(id string, dto *TFTMatchDTO) domain.MatchRecord {
	record := domain.MatchRecord{
		ID:           id,
		Kind:         domain.GameTFT,
		CreatedAt:    dto.Info.GameDatetime / 1000,
		QueueID:      dto.Info.QueueID,
		Participants: make([]domain.Participant, 0, len(dto.Info.Participants)),
	}
	for _, p := range dto.Info.Participants {
		record.Participants = append(record.Participants, domain.Participant{
			PUUID:     p.PUUID,
			Placement: p.Placement,
			Win:       p.Placement >= 1 && p.Placement <= 4,
		})
	}
	return record
}
