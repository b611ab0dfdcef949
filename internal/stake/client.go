// Package stake reads the authority stake table and the chain height
// from the stake feed.
package stake

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goodnatureofminers/tideshash-backend/internal/commitment"
	"github.com/goodnatureofminers/tideshash-backend/internal/model"
	"github.com/goodnatureofminers/tideshash-backend/internal/retry"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type snapshotResponse struct {
	CycleID     uint64               `json:"cycle_id"`
	CycleStart  uint64               `json:"cycle_start"`
	Height      uint64               `json:"height"`
	Authorities []authorityResponse  `json:"authorities"`
	Commitments []commitmentResponse `json:"commitments"`
}

type authorityResponse struct {
	ID        string          `json:"id"`
	Stake     decimal.Decimal `json:"stake"`
	MinBlocks uint64          `json:"min_blocks"`
}

type commitmentResponse struct {
	AuthorityID string `json:"authority_id"`
	Data        string `json:"data"`
}

type heightResponse struct {
	Height uint64 `json:"height"`
}

type decoded struct {
	descriptor model.PoolDescriptor
	err        error
}

// Config holds the feed endpoint and cache sizing.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

// Client fetches stake snapshots and decodes authority commitments.
// Decoded commitments are cached by authority and payload.
type Client struct {
	logger  *zap.Logger
	base    *url.URL
	http    *http.Client
	metrics Metrics
	cache   *expirable.LRU[string, decoded]
	now     func() time.Time
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config, metrics Metrics, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("stake feed url is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse stake feed url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("stake feed url %q must be absolute", cfg.BaseURL)
	}
	if metrics == nil {
		return nil, errors.New("stake feed metrics is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultHTTPTimeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	return &Client{
		logger:  logger.Named("stake_feed"),
		base:    base,
		http:    &http.Client{Timeout: cfg.Timeout},
		metrics: metrics,
		cache:   expirable.NewLRU[string, decoded](cfg.CacheSize, nil, cfg.CacheTTL),
		now:     time.Now,
	}, nil
}

// Snapshot returns the authority table for the current cycle. Authorities
// without a usable pool commitment are left out.
func (c *Client) Snapshot(ctx context.Context) (model.StakeSnapshot, error) {
	started := time.Now()
	var err error
	defer func() {
		c.metrics.Observe("snapshot", err, started)
	}()

	var resp snapshotResponse
	if err = c.getJSON(ctx, snapshotPath, &resp); err != nil {
		return model.StakeSnapshot{}, err
	}

	known := make(map[string]struct{}, len(resp.Authorities))
	for _, a := range resp.Authorities {
		known[a.ID] = struct{}{}
	}
	commitments := make(map[string]string, len(resp.Commitments))
	for _, cm := range resp.Commitments {
		if _, ok := known[cm.AuthorityID]; !ok {
			c.logger.Debug("commitment for unknown authority", zap.String("authority", cm.AuthorityID))
			continue
		}
		commitments[cm.AuthorityID] = cm.Data
	}

	snapshot := model.StakeSnapshot{
		CycleID:     resp.CycleID,
		CycleStart:  resp.CycleStart,
		Height:      resp.Height,
		Authorities: make([]model.Authority, 0, len(resp.Authorities)),
		FetchedAt:   c.now(),
	}
	for _, a := range resp.Authorities {
		data, ok := commitments[a.ID]
		if !ok {
			c.logger.Debug("authority has no commitment", zap.String("authority", a.ID))
			continue
		}
		descriptor, decodeErr := c.descriptor(a.ID, data)
		if decodeErr != nil {
			if commitment.Dropped(decodeErr) {
				c.logger.Debug("commitment dropped", zap.String("authority", a.ID), zap.Error(decodeErr))
			} else {
				c.logger.Warn("invalid commitment", zap.String("authority", a.ID), zap.Error(decodeErr))
			}
			continue
		}
		snapshot.Authorities = append(snapshot.Authorities, model.Authority{
			ID:         a.ID,
			Stake:      a.Stake,
			MinBlocks:  a.MinBlocks,
			Descriptor: descriptor,
		})
	}
	return snapshot, nil
}

// CurrentHeight returns the chain height reported by the feed.
func (c *Client) CurrentHeight(ctx context.Context) (uint64, error) {
	started := time.Now()
	var err error
	defer func() {
		c.metrics.Observe("height", err, started)
	}()

	var resp heightResponse
	if err = c.getJSON(ctx, heightPath, &resp); err != nil {
		return 0, err
	}
	return resp.Height, nil
}

func (c *Client) descriptor(authorityID, data string) (model.PoolDescriptor, error) {
	key := authorityID + ":" + data
	if cached, ok := c.cache.Get(key); ok {
		return cached.descriptor, cached.err
	}

	var d decoded
	raw, err := hex.DecodeString(data)
	if err != nil {
		d.err = fmt.Errorf("%w: %w", commitment.ErrMalformed, err)
	} else {
		d.descriptor, d.err = commitment.Decode(raw)
	}
	c.cache.Add(key, d)
	return d.descriptor, d.err
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	op := "GET " + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.JoinPath(path).String(), nil)
	if err != nil {
		return retry.Fatal(op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return retry.Retryable(op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return retry.Retryable(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		return retry.Fatal(op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return retry.Retryable(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
