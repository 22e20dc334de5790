package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/otvkatibe/riot-backend/internal/config"
	"github.com/otvkatibe/riot-backend/internal/constants"
)

const dataDragonBaseURL = "https://ddragon.leagueoflegends.com"

// Client is a stateless translation layer to the upstream API. Every call is
// independently fallible, bounded by a timeout, gated by a shared rate
// limiter and a circuit breaker. No caching and no retries live here.
type Client struct {
	apiKey  string
	http    *fasthttp.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger

	// baseURL, when non-empty, routes every call to a single host instead
	// of the per-region ones.
	baseURL string

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// RateLimitInfo is the last rate-limit snapshot reported by the upstream.
type RateLimitInfo struct {
	AppLimit   string    `json:"app_limit"`
	AppCount   string    `json:"app_count"`
	RetryAfter int       `json:"retry_after"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	c := &Client{
		apiKey: cfg.RiotAPIKey,
		http: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit),
		logger:  logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name: "riot-api",
		// Confirmed absence is a valid upstream answer, not a failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return c
}

func (c *Client) clusterBase(cluster Cluster) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return clusterHost(cluster)
}

func (c *Client) platformBase(platform string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return platformHost(platform)
}

func (c *Client) RateLimit() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *Client) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if limit := string(resp.Header.Peek("X-App-Rate-Limit")); limit != "" {
		c.rateLimit.AppLimit = limit
	}
	if count := string(resp.Header.Peek("X-App-Rate-Limit-Count")); count != "" {
		c.rateLimit.AppCount = count
	}
	if retry := string(resp.Header.Peek("Retry-After")); retry != "" {
		if val, err := strconv.Atoi(retry); err == nil {
			c.rateLimit.RetryAfter = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

// AccountByRiotID resolves a name#tag pair to an account on the platform's
// continental cluster.
func (c *Client) AccountByRiotID(ctx context.Context, nome, tag, platform string) (*Account, error) {
	cluster, err := ClusterOf(platform)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.clusterBase(cluster), url.PathEscape(nome), url.PathEscape(tag))
	return doRequest[Account](ctx, c, u, true)
}

func (c *Client) AccountByPUUID(ctx context.Context, puuid, platform string) (*Account, error) {
	cluster, err := ClusterOf(platform)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-puuid/%s", c.clusterBase(cluster), puuid)
	return doRequest[Account](ctx, c, u, true)
}

func (c *Client) SummonerByPUUID(ctx context.Context, puuid, platform string) (*Summoner, error) {
	if _, err := ClusterOf(platform); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/lol/summoner/v4/summoners/by-puuid/%s", c.platformBase(platform), puuid)
	return doRequest[Summoner](ctx, c, u, true)
}

func (c *Client) SummonerByID(ctx context.Context, summonerID, platform string) (*Summoner, error) {
	if _, err := ClusterOf(platform); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/lol/summoner/v4/summoners/%s", c.platformBase(platform), summonerID)
	return doRequest[Summoner](ctx, c, u, true)
}

// RankedEntries fails soft to an empty list: having no ranked data is a
// legitimate state, not an error.
func (c *Client) RankedEntries(ctx context.Context, puuid, platform string) ([]RankEntry, error) {
	if _, err := ClusterOf(platform); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/lol/league/v4/entries/by-puuid/%s", c.platformBase(platform), puuid)
	entries, err := doRequest[[]RankEntry](ctx, c, u, true)
	if err != nil {
		c.logger.Warn().Err(err).Str("puuid", puuid).Msg("ranked entries unavailable, treating as unranked")
		return []RankEntry{}, nil
	}
	return *entries, nil
}

func (c *Client) Masteries(ctx context.Context, puuid, platform string) ([]MasteryEntry, error) {
	if _, err := ClusterOf(platform); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/lol/champion-mastery/v4/champion-masteries/by-puuid/%s", c.platformBase(platform), puuid)
	entries, err := doRequest[[]MasteryEntry](ctx, c, u, true)
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

// MatchIDs lists recent match ids for a player. A queue of 0 means no queue
// filter.
func (c *Client) MatchIDs(ctx context.Context, puuid, platform string, queue, count int) ([]string, error) {
	cluster, err := ClusterOf(platform)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=%d", c.clusterBase(cluster), puuid, count)
	if queue > 0 {
		u += fmt.Sprintf("&queue=%d", queue)
	}
	ids, err := doRequest[[]string](ctx, c, u, true)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

func (c *Client) MatchByID(ctx context.Context, matchID, platform string) (*MatchRecord, error) {
	cluster, err := ClusterOf(platform)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.clusterBase(cluster), matchID)
	return doRequest[MatchRecord](ctx, c, u, true)
}

func (c *Client) ChallengerLeague(ctx context.Context, queue, platform string) (*LeagueList, error) {
	if _, err := ClusterOf(platform); err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/lol/league/v4/challengerleagues/by-queue/%s", c.platformBase(platform), queue)
	return doRequest[LeagueList](ctx, c, u, true)
}

// ChampionCatalog fetches the latest static champion catalog from Data
// Dragon. Two calls: version list, then the catalog for the newest version.
func (c *Client) ChampionCatalog(ctx context.Context) (*ChampionCatalog, error) {
	versions, err := doRequest[[]string](ctx, c, dataDragonBaseURL+"/api/versions.json", false)
	if err != nil {
		return nil, err
	}
	if len(*versions) == 0 {
		return nil, fmt.Errorf("%w: empty data dragon version list", ErrUpstreamUnavailable)
	}
	u := fmt.Sprintf("%s/cdn/%s/data/pt_BR/champion.json", dataDragonBaseURL, (*versions)[0])
	return doRequest[ChampionCatalog](ctx, c, u, false)
}

func doRequest[T any](ctx context.Context, c *Client, url string, authed bool) (*T, error) {
	body, err := c.fetch(ctx, url, authed)
	if err != nil {
		return nil, err
	}
	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstreamUnavailable, err)
	}
	return &result, nil
}

func (c *Client) fetch(ctx context.Context, url string, authed bool) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrUpstreamUnavailable, err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, url, authed)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit breaker open", ErrUpstreamUnavailable)
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, url string, authed bool) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	if authed {
		req.Header.Set("X-Riot-Token", c.apiKey)
	}

	deadline := time.Now().Add(constants.ExternalAPITimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	c.updateRateLimit(resp)

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusOK:
		return append([]byte(nil), resp.Body()...), nil
	case status == fasthttp.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	default:
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, status)
	}
}
