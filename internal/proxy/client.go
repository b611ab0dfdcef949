// Package proxy pushes routing targets to the mining proxy.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goodnatureofminers/tideshash-backend/internal/model"
	"github.com/goodnatureofminers/tideshash-backend/internal/retry"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second
	targetsPath    = "/api/targets"
	maxErrorBody   = 512
)

// ErrNoTargets is returned for an empty target list.
var ErrNoTargets = errors.New("no proxy targets")

type targetsRequest struct {
	Pools []poolRequest `json:"pools"`
}

type poolRequest struct {
	AuthorityID string  `json:"authority_id"`
	URL         string  `json:"url"`
	HighDiffURL string  `json:"high_diff_url"`
	User        string  `json:"user"`
	Password    string  `json:"password,omitempty"`
	Proportion  float64 `json:"proportion"`
}

// Config describes one proxy control endpoint.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	DefaultUser string
}

// Client talks to a single proxy's control API.
type Client struct {
	logger      *zap.Logger
	endpoint    string
	http        *http.Client
	metrics     Metrics
	defaultUser string
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config, metrics Metrics, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse proxy url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("proxy url %q must be absolute", cfg.BaseURL)
	}
	if metrics == nil {
		return nil, errors.New("proxy metrics is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	endpoint := base.JoinPath(targetsPath).String()
	return &Client{
		logger:      logger.Named("proxy").With(zap.String("endpoint", endpoint)),
		endpoint:    endpoint,
		http:        &http.Client{Timeout: cfg.Timeout},
		metrics:     metrics,
		defaultUser: cfg.DefaultUser,
	}, nil
}

// SetTargets replaces the proxy's pool list. Client errors are fatal,
// server and transport errors may be retried.
func (c *Client) SetTargets(ctx context.Context, targets []model.ProxyTarget) error {
	started := time.Now()
	var err error
	defer func() {
		c.metrics.Observe(c.endpoint, err, started)
	}()

	if len(targets) == 0 {
		err = retry.Fatal("set targets", ErrNoTargets)
		return err
	}

	body := targetsRequest{Pools: make([]poolRequest, 0, len(targets))}
	for _, t := range targets {
		user := t.User
		if user == "" {
			user = c.defaultUser
		}
		body.Pools = append(body.Pools, poolRequest{
			AuthorityID: t.AuthorityID,
			URL:         t.URL,
			HighDiffURL: t.HighDiffURL,
			User:        user,
			Password:    t.Password,
			Proportion:  t.Proportion,
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		err = retry.Fatal("set targets", fmt.Errorf("encode targets: %w", err))
		return err
	}

	err = c.post(ctx, payload)
	if err == nil {
		c.logger.Debug("targets pushed", zap.Int("pools", len(body.Pools)))
	}
	return err
}

func (c *Client) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return retry.Fatal("set targets", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return retry.Retryable("set targets", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	statusErr := fmt.Errorf("proxy returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return retry.Retryable("set targets", statusErr)
	}
	return retry.Fatal("set targets", statusErr)
}
