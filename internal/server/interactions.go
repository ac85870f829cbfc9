package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"monke-bot/internal/discord"
	"monke-bot/internal/domain"
	"monke-bot/internal/service"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type Reports interface {
	Recap(ctx context.Context, kind domain.GameKind, gameName, tagLine string, yesterday bool) (service.RecapReport, error)
	Winrate(ctx context.Context, kind domain.GameKind, gameName, tagLine string) (service.WinrateReport, error)
}

type Tracker interface {
	Track(ctx context.Context, kind domain.GameKind, gameName, tagLine string) (domain.TrackingEntry, error)
	Untrack(ctx context.Context, kind domain.GameKind, gameName, tagLine string) (domain.Player, error)
	List(ctx context.Context, kind domain.GameKind) ([]domain.TrackingEntry, error)
}

type commandFunc func(ctx context.Context, data *discord.CommandData) (string, error)

// InteractionServer answers Discord's interaction webhook.
type InteractionServer struct {
	verifier *discord.Verifier
	reports  Reports
	tracker  Tracker
	commands map[string]commandFunc
	logger   zerolog.Logger
}

func NewInteractionServer(verifier *discord.Verifier, reports Reports, tracker Tracker, logger zerolog.Logger) *InteractionServer {
	s := &InteractionServer{
		verifier: verifier,
		reports:  reports,
		tracker:  tracker,
		logger:   logger,
	}
	s.commands = map[string]commandFunc{
		"winrate": s.winrate,
		"recap":   s.recap,
		"track":   s.track,
		"untrack": s.untrack,
		"list":    s.list,
		"ping":    s.ping,
	}
	return s
}

func (s *InteractionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := s.verifier.Verify(r.Header.Get(discord.SignatureHeader), r.Header.Get(discord.TimestampHeader), body); err != nil {
		s.logger.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("rejected interaction")
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var interaction discord.Interaction
	if err := json.Unmarshal(body, &interaction); err != nil {
		http.Error(w, "malformed interaction", http.StatusBadRequest)
		return
	}

	var resp discord.Response
	switch interaction.Type {
	case discord.InteractionPing:
		resp = discord.Pong()
	case discord.InteractionApplicationCommand:
		resp = discord.Message(s.dispatch(r.Context(), interaction.Data))
	default:
		http.Error(w, "unsupported interaction type", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error().Err(err).Msg("failed to write interaction response")
	}
}

func (s *InteractionServer) dispatch(ctx context.Context, data *discord.CommandData) string {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = &s.logger
	}

	if data == nil {
		return discord.FormatError(domain.ErrInvalidInput)
	}
	cmd, ok := s.commands[data.Name]
	if !ok {
		logger.Warn().Str("command", data.Name).Msg("unknown command")
		return "Unknown command"
	}

	content, err := cmd(ctx, data)
	if err != nil {
		event := logger.Error()
		if isUserError(err) {
			event = logger.Info()
		}
		event.Err(err).Str("command", data.Name).Msg("command failed")
		return discord.FormatError(err)
	}
	return content
}

func isUserError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput,
		domain.ErrNotFound,
		domain.ErrAlreadyTracked,
		domain.ErrNotTracked,
		domain.ErrNoSnapshots,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *InteractionServer) winrate(ctx context.Context, data *discord.CommandData) (string, error) {
	var opts discord.PlayerOptions
	if err := discord.DecodeOptions(data, &opts); err != nil {
		return "", err
	}
	report, err := s.reports.Winrate(ctx, opts.Kind(), opts.GameName, opts.TagLine)
	if err != nil {
		return "", err
	}
	return discord.FormatWinrate(report), nil
}

func (s *InteractionServer) recap(ctx context.Context, data *discord.CommandData) (string, error) {
	var opts discord.RecapOptions
	if err := discord.DecodeOptions(data, &opts); err != nil {
		return "", err
	}
	report, err := s.reports.Recap(ctx, opts.Kind(), opts.GameName, opts.TagLine, opts.Yesterday)
	if err != nil {
		return "", err
	}
	return discord.FormatRecap(report), nil
}

func (s *InteractionServer) track(ctx context.Context, data *discord.CommandData) (string, error) {
	var opts discord.PlayerOptions
	if err := discord.DecodeOptions(data, &opts); err != nil {
		return "", err
	}
	entry, err := s.tracker.Track(ctx, opts.Kind(), opts.GameName, opts.TagLine)
	if err != nil {
		return "", err
	}
	return discord.FormatTracked(opts.Kind(), entry), nil
}

func (s *InteractionServer) untrack(ctx context.Context, data *discord.CommandData) (string, error) {
	var opts discord.PlayerOptions
	if err := discord.DecodeOptions(data, &opts); err != nil {
		return "", err
	}
	player, err := s.tracker.Untrack(ctx, opts.Kind(), opts.GameName, opts.TagLine)
	if err != nil {
		return "", err
	}
	return discord.FormatUntracked(opts.Kind(), player), nil
}

func (s *InteractionServer) list(ctx context.Context, data *discord.CommandData) (string, error) {
	var opts discord.GameOptions
	if err := discord.DecodeOptions(data, &opts); err != nil {
		return "", err
	}
	entries, err := s.tracker.List(ctx, opts.Kind())
	if err != nil {
		return "", err
	}
	return discord.FormatList(opts.Kind(), entries), nil
}

func (s *InteractionServer) ping(context.Context, *discord.CommandData) (string, error) {
	return "pong", nil
}
