package stake

import (
	"context"
	"errors"
	"time"
)

// ClockHeight derives the chain height from wall-clock time, for chains
// with a fixed block interval.
type ClockHeight struct {
	genesis   time.Time
	blockTime time.Duration
	now       func() time.Time
}

// NewClockHeight builds a ClockHeight counting blocks from genesis.
func NewClockHeight(genesis time.Time, blockTime time.Duration) (*ClockHeight, error) {
	if genesis.IsZero() {
		return nil, errors.New("genesis time is required")
	}
	if blockTime <= 0 {
		return nil, errors.New("block time must be positive")
	}
	return &ClockHeight{genesis: genesis, blockTime: blockTime, now: time.Now}, nil
}

// CurrentHeight returns the number of whole block intervals since genesis.
func (c *ClockHeight) CurrentHeight(context.Context) (uint64, error) {
	elapsed := c.now().Sub(c.genesis)
	if elapsed < 0 {
		return 0, nil
	}
	return uint64(elapsed / c.blockTime), nil
}
