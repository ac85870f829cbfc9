package domain

import (
	"fmt"
	"strings"
	"time"

	"monke-bot/internal/constants"
	"monke-bot/internal/rank"
)

type GameKind string

const (
	GameLeague GameKind = "league"
	GameTFT    GameKind = "tft"
)

var GameKinds = []GameKind{GameLeague, GameTFT}

func ParseGameKind(s string) (GameKind, error) {
	switch GameKind(strings.ToLower(strings.TrimSpace(s))) {
	case GameLeague:
		return GameLeague, nil
	case GameTFT:
		return GameTFT, nil
	}
	return "", fmt.Errorf("%w: unknown game %q", ErrInvalidInput, s)
}

// StoreDiscriminator is the sort-key suffix that keeps League and TFT
// records apart when both share a match id namespace.
func (k GameKind) StoreDiscriminator() string {
	if k == GameTFT {
		return "#TFT"
	}
	return "#"
}

func (k GameKind) RankedQueueType() string {
	if k == GameTFT {
		return constants.RankedTFTQueueType
	}
	return constants.RankedSoloQueueType
}

func (k GameKind) RankedQueueID() int {
	if k == GameTFT {
		return constants.QueueTFTRanked
	}
	return constants.QueueRankedSolo
}

func (k GameKind) Label() string {
	if k == GameTFT {
		return "TFT"
	}
	return "League"
}

type Player struct {
	PUUID      string
	SummonerID string
	GameName   string
	TagLine    string
}

func (p Player) RiotID() string {
	return p.GameName + "#" + p.TagLine
}

// MatchRecord is immutable once first written.
type MatchRecord struct {
	ID           string        `json:"id"`
	Kind         GameKind      `json:"kind"`
	CreatedAt    int64         `json:"created_at"` // epoch seconds
	QueueID      int           `json:"queue_id"`
	Participants []Participant `json:"participants"`
}

func (m MatchRecord) Participant(puuid string) (Participant, bool) {
	for _, p := range m.Participants {
		if p.PUUID == puuid {
			return p, true
		}
	}
	return Participant{}, false
}

type Participant struct {
	PUUID          string `json:"puuid"`
	SummonerID     string `json:"summoner_id,omitempty"`
	Champion       string `json:"champion,omitempty"`
	Kills          int    `json:"kills"`
	Deaths         int    `json:"deaths"`
	Assists        int    `json:"assists"`
	Win            bool   `json:"win"`
	Placement      int    `json:"placement,omitempty"` // TFT only
	EarlySurrender bool   `json:"early_surrender,omitempty"`
}

type Outcome int

const (
	OutcomeLoss Outcome = iota
	OutcomeWin
	OutcomeRemake
)

func (p Participant) Outcome(kind GameKind) Outcome {
	if kind == GameTFT {
		if p.Placement >= 1 && p.Placement <= 4 {
			return OutcomeWin
		}
		return OutcomeLoss
	}
	switch {
	case p.EarlySurrender:
		return OutcomeRemake
	case p.Win:
		return OutcomeWin
	default:
		return OutcomeLoss
	}
}

// KDA reports (kills+assists)/deaths; perfect is true when there were no deaths.
func (p Participant) KDA() (ratio float64, perfect bool) {
	if p.Deaths == 0 {
		return float64(p.Kills + p.Assists), true
	}
	return float64(p.Kills+p.Assists) / float64(p.Deaths), false
}

// RankSnapshot is an append-only observation of a player's ranked standing.
type RankSnapshot struct {
	ID        string
	PlayerID  string
	Kind      GameKind
	Timestamp int64
	Tier      string
	Division  string
	Points    int
	Wins      int
	Losses    int
}

func (s RankSnapshot) Rank() (rank.Rank, error) {
	return rank.Parse(s.Tier, s.Division, s.Points)
}

type TrackingEntry struct {
	Kind       GameKind
	SummonerID string
	PUUID      string
	RiotID     string
	CreatedAt  time.Time
}
