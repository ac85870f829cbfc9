package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata"

	"monke-bot/internal/api"
	"monke-bot/internal/config"
	"monke-bot/internal/constants"
	"monke-bot/internal/domain"
	"monke-bot/internal/rank"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type GameStats struct {
	Wins    int
	Losses  int
	Remakes int
}

// Games excludes remakes.
func (s GameStats) Games() int {
	return s.Wins + s.Losses
}

func (s GameStats) WinRate() float64 {
	if s.Games() == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games()) * 100
}

type GameLine struct {
	MatchID   string
	CreatedAt int64
	QueueID   int
	Outcome   domain.Outcome
	Champion  string
	Kills     int
	Deaths    int
	Assists   int
	Placement int
}

type RecapReport struct {
	Player    domain.Player
	Kind      domain.GameKind
	Day       time.Time
	Yesterday bool
	Stats     GameStats
	Live      *LiveStanding
	Summary   *RecapSummary
	// Tracked is false when no snapshot exists for the day.
	Tracked bool
	Missing int
}

type WinrateReport struct {
	Player  domain.Player
	Kind    domain.GameKind
	Stats   GameStats
	Games   []GameLine
	Live    *LiveStanding
	Missing int
}

type ReportService struct {
	players *PlayerService
	riot    RiotAPI
	matches *MatchCache
	recap   *RecapEngine
	loc     *time.Location
	now     func() time.Time
	logger  zerolog.Logger
}

func NewReportService(players *PlayerService, riot RiotAPI, matches *MatchCache, recap *RecapEngine, cfg *config.Config, logger zerolog.Logger) (*ReportService, error) {
	loc, err := time.LoadLocation(cfg.RecapTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load recap timezone %q: %w", cfg.RecapTimezone, err)
	}
	return &ReportService{
		players: players,
		riot:    riot,
		matches: matches,
		recap:   recap,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}, nil
}

// DayWindow returns the first and last second of the calendar day containing
// now in loc, or of the day before.
func DayWindow(now time.Time, loc *time.Location, yesterday bool) (start, end time.Time) {
	day := now.In(loc)
	if yesterday {
		day = day.AddDate(0, 0, -1)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), time.Date(y, m, d, 23, 59, 59, 0, loc)
}

func (s *ReportService) Recap(ctx context.Context, kind domain.GameKind, gameName, tagLine string, yesterday bool) (RecapReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	player, err := s.players.Resolve(ctx, kind, gameName, tagLine)
	if err != nil {
		return RecapReport{}, err
	}

	start, end := DayWindow(s.now(), s.loc, yesterday)
	report := RecapReport{Player: player, Kind: kind, Day: start, Yesterday: yesterday}

	var ids []string
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ids, err = s.riot.GetMatchIDs(gCtx, kind, player.PUUID, api.MatchIDsQuery{
			Count:     constants.RecapMatchCount,
			StartTime: start.Unix(),
			EndTime:   end.Unix(),
			Queue:     kind.RankedQueueID(),
		})
		if err != nil {
			return fmt.Errorf("failed to fetch match ids: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		report.Live, err = s.players.Live(gCtx, kind, player.SummonerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return RecapReport{}, err
	}

	batch, err := s.matches.GetMatches(ctx, kind, ids)
	if err != nil {
		return RecapReport{}, err
	}
	report.Missing = batch.Failed
	report.Stats, _ = s.tally(batch.Records, player, kind, true)

	// the live rank only stands in for today's closing snapshot
	var live *rank.Rank
	if !yesterday && report.Live != nil {
		live = &report.Live.Rank
	}

	summary, err := s.recap.Summarize(ctx, player.SummonerID, kind, start.Unix(), end.Unix(), live)
	switch {
	case err == nil:
		report.Tracked = true
		report.Summary = &summary
	case errors.Is(err, domain.ErrNoSnapshots):
	case errors.Is(err, domain.ErrNoWindowEnd):
		report.Tracked = true
	default:
		return RecapReport{}, err
	}

	s.logger.Info().
		Str("riot_id", player.RiotID()).
		Str("game", string(kind)).
		Bool("yesterday", yesterday).
		Int("games", report.Stats.Games()).
		Bool("tracked", report.Tracked).
		Msg("recap built")

	return report, nil
}

func (s *ReportService) Winrate(ctx context.Context, kind domain.GameKind, gameName, tagLine string) (WinrateReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	player, err := s.players.Resolve(ctx, kind, gameName, tagLine)
	if err != nil {
		return WinrateReport{}, err
	}
	report := WinrateReport{Player: player, Kind: kind}

	var ids []string
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ids, err = s.riot.GetMatchIDs(gCtx, kind, player.PUUID, api.MatchIDsQuery{
			Count: constants.WinrateMatchCount,
			Queue: kind.RankedQueueID(),
		})
		if err != nil {
			return fmt.Errorf("failed to fetch match ids: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		report.Live, err = s.players.Live(gCtx, kind, player.SummonerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return WinrateReport{}, err
	}

	batch, err := s.matches.GetMatches(ctx, kind, ids)
	if err != nil {
		return WinrateReport{}, err
	}
	report.Missing = batch.Failed
	// TFT id lookups cannot be filtered by queue, so every queue is shown
	// and each line carries its queue instead
	report.Stats, report.Games = s.tally(batch.Records, player, kind, kind != domain.GameTFT)

	return report, nil
}

// tally counts the player's games. With rankedOnly, games from any other
// queue are skipped.
func (s *ReportService) tally(records []domain.MatchRecord, player domain.Player, kind domain.GameKind, rankedOnly bool) (GameStats, []GameLine) {
	var (
		stats GameStats
		lines []GameLine
	)
	for _, record := range records {
		if rankedOnly && record.QueueID != kind.RankedQueueID() {
			continue
		}
		p, ok := record.Participant(player.PUUID)
		if !ok {
			s.logger.Warn().Str("match_id", record.ID).Str("riot_id", player.RiotID()).Msg(domain.ErrNotInMatch.Error())
			continue
		}

		outcome := p.Outcome(kind)
		switch outcome {
		case domain.OutcomeWin:
			stats.Wins++
		case domain.OutcomeLoss:
			stats.Losses++
		case domain.OutcomeRemake:
			stats.Remakes++
		}

		lines = append(lines, GameLine{
			MatchID:   record.ID,
			CreatedAt: record.CreatedAt,
			QueueID:   record.QueueID,
			Outcome:   outcome,
			Champion:  p.Champion,
			Kills:     p.Kills,
			Deaths:    p.Deaths,
			Assists:   p.Assists,
			Placement: p.Placement,
		})
	}
	return stats, lines
}
