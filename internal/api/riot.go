package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"monke-bot/internal/config"
	"monke-bot/internal/constants"
	"monke-bot/internal/domain"
	"monke-bot/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

// RiotClient talks to the Riot REST API. League and TFT endpoints are
// authorized with different keys.
type RiotClient struct {
	leagueKey   string
	tftKey      string
	platformURL string
	regionalURL string

	client  *fasthttp.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  zerolog.Logger

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	AppLimit    string    `json:"app_limit"`
	AppCount    string    `json:"app_count"`
	MethodLimit string    `json:"method_limit"`
	MethodCount string    `json:"method_count"`
	RetryAfter  int       `json:"retry_after"` // seconds, set on 429
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewRiotClient(cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *RiotClient {
	return &RiotClient{
		leagueKey:   cfg.RiotAPIKey,
		tftKey:      cfg.TFTRiotAPIKey,
		platformURL: cfg.PlatformBaseURL,
		regionalURL: cfg.RegionalBaseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RiotRatePerSecond), cfg.RiotRateBurst),
		metrics: m,
		logger:  logger.With().Str("component", "riot").Logger(),
	}
}

func (c *RiotClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *RiotClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if v := string(resp.Header.Peek("X-App-Rate-Limit")); v != "" {
		c.rateLimit.AppLimit = v
	}
	if v := string(resp.Header.Peek("X-App-Rate-Limit-Count")); v != "" {
		c.rateLimit.AppCount = v
	}
	if v := string(resp.Header.Peek("X-Method-Rate-Limit")); v != "" {
		c.rateLimit.MethodLimit = v
	}
	if v := string(resp.Header.Peek("X-Method-Rate-Limit-Count")); v != "" {
		c.rateLimit.MethodCount = v
	}
	c.rateLimit.RetryAfter = 0
	if v := string(resp.Header.Peek("Retry-After")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.rateLimit.RetryAfter = n
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func (c *RiotClient) key(kind domain.GameKind) string {
	if kind == domain.GameTFT {
		return c.tftKey
	}
	return c.leagueKey
}

func (c *RiotClient) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*AccountDTO, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.regionalURL, url.PathEscape(gameName), url.PathEscape(tagLine))
	return doRequest[AccountDTO](ctx, c, c.leagueKey, u)
}

func (c *RiotClient) GetSummonerByPUUID(ctx context.Context, kind domain.GameKind, puuid string) (*SummonerDTO, error) {
	path := "/lol/summoner/v4/summoners/by-puuid/"
	if kind == domain.GameTFT {
		path = "/tft/summoner/v1/summoners/by-puuid/"
	}
	return doRequest[SummonerDTO](ctx, c, c.key(kind), c.platformURL+path+url.PathEscape(puuid))
}

func (c *RiotClient) GetLeagueEntries(ctx context.Context, kind domain.GameKind, summonerID string) ([]LeagueEntryDTO, error) {
	path := "/lol/league/v4/entries/by-summoner/"
	if kind == domain.GameTFT {
		path = "/tft/league/v1/entries/by-summoner/"
	}
	entries, err := doRequest[[]LeagueEntryDTO](ctx, c, c.key(kind), c.platformURL+path+url.PathEscape(summonerID))
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

type MatchIDsQuery struct {
	Count     int
	StartTime int64 // epoch seconds, 0 = unset
	EndTime   int64
	Queue     int // League only
}

func (c *RiotClient) GetMatchIDs(ctx context.Context, kind domain.GameKind, puuid string, q MatchIDsQuery) ([]string, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)

	if q.Count > 0 {
		args.SetUint("count", q.Count)
	}
	if q.StartTime > 0 {
		args.Set("startTime", strconv.FormatInt(q.StartTime, 10))
	}
	if q.EndTime > 0 {
		args.Set("endTime", strconv.FormatInt(q.EndTime, 10))
	}

	path := "/lol/match/v5/matches/by-puuid/%s/ids"
	if kind == domain.GameTFT {
		path = "/tft/match/v1/matches/by-puuid/%s/ids"
	} else if q.Queue > 0 {
		args.SetUint("queue", q.Queue)
	}

	u := c.regionalURL + fmt.Sprintf(path, url.PathEscape(puuid))
	if args.Len() > 0 {
		u += "?" + string(args.QueryString())
	}

	ids, err := doRequest[[]string](ctx, c, c.key(kind), u)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

func (c *RiotClient) GetLeagueMatch(ctx context.Context, matchID string) (*LeagueMatchDTO, error) {
	u := c.regionalURL + "/lol/match/v5/matches/" + url.PathEscape(matchID)
	return doRequest[LeagueMatchDTO](ctx, c, c.leagueKey, u)
}

func (c *RiotClient) GetTFTMatch(ctx context.Context, matchID string) (*TFTMatchDTO, error) {
	u := c.regionalURL + "/tft/match/v1/matches/" + url.PathEscape(matchID)
	return doRequest[TFTMatchDTO](ctx, c, c.tftKey, u)
}

func doRequest[T any](ctx context.Context, client *RiotClient, apiKey, url string) (*T, error) {
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", domain.ErrRateLimited, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", apiKey)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.ExternalAPITimeout)
	}
	if err := client.client.DoDeadline(req, resp, deadline); err != nil {
		client.logger.Warn().Err(err).Str("url", url).Msg("riot request failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	client.updateRateLimit(resp)
	client.metrics.UpstreamResponse(resp.StatusCode())

	if err := statusError(resp.StatusCode()); err != nil {
		client.logger.Debug().Int("status", resp.StatusCode()).Str("url", url).Msg("riot request rejected")
		return nil, err
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", domain.ErrUpstream, err)
	}
	return &result, nil
}

func statusError(status int) error {
	switch status {
	case fasthttp.StatusOK:
		return nil
	case fasthttp.StatusNotFound:
		return fmt.Errorf("riot api %d: %w", status, domain.ErrNotFound)
	case fasthttp.StatusTooManyRequests:
		return fmt.Errorf("riot api %d: %w", status, domain.ErrRateLimited)
	case fasthttp.StatusUnauthorized, fasthttp.StatusForbidden:
		return fmt.Errorf("riot api %d: %w", status, domain.ErrUnauthorized)
	default:
		return fmt.Errorf("riot api %d: %w", status, domain.ErrUpstream)
	}
}
