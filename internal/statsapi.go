package internal

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

type snapshotCache interface {
	Enabled() bool
	Key(parts ...string) string
	GetRaw(ctx context.Context, key string) ([]byte, error)
	SetRaw(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// StatsClient reads the streamer list from the external stats endpoint.
type StatsClient struct {
	sourceURL string
	client    *http.Client
	cache     snapshotCache
	cacheTTL  time.Duration
	logger    *Logger
	metrics   *MetricsCollector
}

func NewStatsClient(cfg *Config, cache snapshotCache, logger *Logger, metrics *MetricsCollector) *StatsClient {
	return &StatsClient{
		sourceURL: cfg.StatsSourceURL,
		client: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		logger:   logger,
		metrics:  metrics,
	}
}

func (c *StatsClient) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build stats request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "stats request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("stats source error: %s - %s", resp.Status, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read stats response")
	}
	return data, nil
}

// FetchPlayers performs the single outbound request. Transport errors,
// non-2xx answers and undecodable bodies all come back as one error.
func (c *StatsClient) FetchPlayers(ctx context.Context) ([]PlayerRecord, error) {
	cacheKey := c.cache.Key("players", c.sourceURL)

	if c.cache.Enabled() {
		if data, err := c.cache.GetRaw(ctx, cacheKey); err == nil {
			if records, err := DecodePlayers(data); err == nil {
				c.metrics.RecordCacheHit(cacheKey)
				return records, nil
			}
		}
		c.metrics.RecordCacheMiss(cacheKey)
	}

	start := time.Now()
	data, err := c.doRequest(ctx, c.sourceURL)
	if err != nil {
		return nil, err
	}

	records, err := DecodePlayers(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode stats response")
	}

	for _, r := range records {
		if r.RankedStats != nil && !r.IsRanked() {
			c.logger.Debug("ranked_stats_unknown_tier").
				Component("stats_client").
				Operation("fetch_players").
				Player(r.StreamerName, r.Tier()).
				Log()
		}
	}

	c.logger.Info("stats_fetched").
		Component("stats_client").
		Operation("fetch_players").
		Duration(time.Since(start)).
		Meta("records", len(records)).
		Log()

	if err := c.cache.SetRaw(ctx, cacheKey, data, c.cacheTTL); err != nil {
		c.logger.Warn("stats_cache_write_failed").
			Component("stats_client").
			Operation("fetch_players").
			Cache(false, cacheKey).
			Err(err).
			Log()
	}

	return records, nil
}
