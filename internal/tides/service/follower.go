package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/tideshash-backend/internal/clock"
	"go.uber.org/zap"
)

// DifficultyFollower tracks the chain tip and pushes network difficulty
// changes into the ledger.
type DifficultyFollower struct {
	logger        *zap.Logger
	source        DifficultySource
	sink          DifficultySink
	metrics       Metrics
	sleep         func(context.Context, time.Duration) error
	sleepDuration time.Duration
	pollInterval  time.Duration
	blockSignal   <-chan struct{}
	lastHeight    uint64
	seen          bool
}

// NewDifficultyFollower builds a DifficultyFollower. A nil blockSignal
// falls back to polling every pollInterval.
func NewDifficultyFollower(
	source DifficultySource,
	sink DifficultySink,
	metrics Metrics,
	pollInterval time.Duration,
	logger *zap.Logger,
	blockSignal <-chan struct{},
) (*DifficultyFollower, error) {
	switch {
	case source == nil:
		return nil, errors.New("difficulty source is required")
	case sink == nil:
		return nil, errors.New("difficulty sink is required")
	case metrics == nil:
		return nil, errors.New("difficulty follower metrics is required")
	}
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &DifficultyFollower{
		logger:        logger.Named("difficultyFollower"),
		source:        source,
		sink:          sink,
		metrics:       metrics,
		sleep:         clock.SleepWithContext,
		sleepDuration: sleepDuration,
		pollInterval:  pollInterval,
		blockSignal:   blockSignal,
	}, nil
}

// Run follows the chain tip until the context is canceled.
func (f *DifficultyFollower) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := f.run(ctx); err != nil {
			f.logger.Warn("run iteration failed, backing off", zap.Error(err), zap.Duration("sleep", f.sleepDuration))
			if sleepErr := f.wait(ctx, f.sleepDuration); sleepErr != nil {
				return sleepErr
			}
		}
	}
}

func (f *DifficultyFollower) run(ctx context.Context) error {
	started := time.Now()
	changed, err := f.refresh(ctx)
	f.metrics.ObserveDifficulty(err, started)
	if err != nil {
		return err
	}
	if !changed {
		f.logger.Debug("tip unchanged", zap.Uint64("height", f.lastHeight))
	}
	return f.wait(ctx, f.pollInterval)
}

func (f *DifficultyFollower) refresh(ctx context.Context) (bool, error) {
	height, err := f.source.Height(ctx)
	if err != nil {
		return false, fmt.Errorf("chain height: %w", err)
	}
	if f.seen && height == f.lastHeight {
		return false, nil
	}

	difficulty, err := f.source.At(ctx, height)
	if err != nil {
		return false, fmt.Errorf("difficulty at %d: %w", height, err)
	}
	if err := f.sink.SetNetworkDifficulty(ctx, difficulty); err != nil {
		return false, fmt.Errorf("apply difficulty at %d: %w", height, err)
	}
	f.lastHeight = height
	f.seen = true

	f.logger.Info("network difficulty updated",
		zap.Uint64("height", height),
		zap.Uint64("difficulty", difficulty.Difficulty),
	)
	return true, nil
}

func (f *DifficultyFollower) wait(ctx context.Context, d time.Duration) error {
	if f.blockSignal == nil {
		return f.sleep(ctx, d)
	}
	return clock.SleepOrSignal(ctx, d, f.blockSignal)
}
