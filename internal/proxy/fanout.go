package proxy

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/goodnatureofminers/tideshash-backend/internal/model"
	"github.com/goodnatureofminers/tideshash-backend/internal/retry"
	"github.com/goodnatureofminers/tideshash-backend/pkg/workerpool"
)

// Fanout pushes the same targets to several proxies at once. It fails
// fatally only when every failure was fatal.
type Fanout struct {
	controllers []Controller
}

// NewFanout builds a Fanout over one or more controllers.
func NewFanout(controllers ...Controller) (*Fanout, error) {
	if len(controllers) == 0 {
		return nil, errors.New("at least one proxy controller is required")
	}
	return &Fanout{controllers: controllers}, nil
}

// SetTargets pushes targets to every proxy concurrently.
func (f *Fanout) SetTargets(ctx context.Context, targets []model.ProxyTarget) error {
	var retryable atomic.Bool
	err := workerpool.Process(ctx, len(f.controllers), f.controllers, func(ctx context.Context, c Controller) error {
		err := c.SetTargets(ctx, targets)
		if err != nil && !retry.IsFatal(err) {
			retryable.Store(true)
		}
		return err
	})
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case retryable.Load():
		return retry.Retryable("fanout", err)
	default:
		return retry.Fatal("fanout", err)
	}
}
