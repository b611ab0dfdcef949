// Package service runs the TIDES share ledger: it serialises share and
// block events, persists accepted shares and pays out found blocks.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/tideshash-backend/internal/model"
	"github.com/goodnatureofminers/tideshash-backend/internal/retry"
	"github.com/goodnatureofminers/tideshash-backend/internal/tides/ledger"
	"github.com/goodnatureofminers/tideshash-backend/internal/tides/payout"
	"go.uber.org/zap"
)

var (
	// ErrStopped is returned to callers once Run has exited.
	ErrStopped = errors.New("ledger service stopped")
	// ErrAlreadyRunning is returned when Run or Replay is called while the
	// event loop is active.
	ErrAlreadyRunning = errors.New("ledger service already running")
	// ErrRewardCarried is returned for a block found while the window is
	// empty. The reward is added to the next payout.
	ErrRewardCarried = errors.New("window empty, reward carried forward")
	// ErrNoDifficulty is returned for blocks submitted before the first
	// network difficulty has sized the window.
	ErrNoDifficulty = errors.New("network difficulty not yet known")
)

// Config tunes the service.
type Config struct {
	Multiplier     uint64
	QueueSize      int
	ReplayHorizon  time.Duration
	ReplayPageSize int
	MaxClockSkew   time.Duration
	Retry          retry.Policy
}

// Status is a point-in-time view of the ledger.
type Status struct {
	LogLength         int            `json:"log_length"`
	LastSequence      uint64         `json:"last_sequence"`
	WindowShares      int            `json:"window_shares"`
	WindowDifficulty  uint64         `json:"window_difficulty"`
	Target            uint64         `json:"target"`
	NetworkDifficulty uint64         `json:"network_difficulty"`
	DifficultyHeight  uint64         `json:"difficulty_height"`
	Carried           btcutil.Amount `json:"carried"`
}

type event struct {
	share      *model.Share
	block      *model.BlockEvent
	difficulty *model.NetworkDifficulty
	reply      chan result
}

type result struct {
	share  model.Share
	payout model.Payout
	err    error
}

// Service owns the ledger. Mutations go through a single event loop;
// reads are served from the ledger's published snapshot.
type Service struct {
	logger  *zap.Logger
	ledger  *ledger.Ledger
	repo    Repository
	writer  ShareWriter
	metrics Metrics
	now     func() time.Time

	retryPolicy    retry.Policy
	replayHorizon  time.Duration
	replayPageSize int
	maxClockSkew   time.Duration

	events  chan event
	done    chan struct{}
	running atomic.Bool
	nextSeq uint64

	carried          atomic.Int64
	networkDiff      atomic.Uint64
	difficultyHeight atomic.Uint64
}

// New builds a Service with an empty ledger.
func New(repo Repository, writer ShareWriter, metrics Metrics, cfg Config, logger *zap.Logger) (*Service, error) {
	switch {
	case repo == nil:
		return nil, errors.New("ledger repository is required")
	case writer == nil:
		return nil, errors.New("share writer is required")
	case metrics == nil:
		return nil, errors.New("ledger metrics is required")
	}
	if cfg.Multiplier == 0 {
		cfg.Multiplier = ledger.DefaultMultiplier
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.ReplayHorizon <= 0 {
		cfg.ReplayHorizon = defaultReplayHorizon
	}
	if cfg.ReplayPageSize <= 0 {
		cfg.ReplayPageSize = defaultReplayPageSize
	}
	if cfg.MaxClockSkew <= 0 {
		cfg.MaxClockSkew = defaultMaxClockSkew
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultPolicy()
	}

	l, err := ledger.New(cfg.Multiplier)
	if err != nil {
		return nil, fmt.Errorf("init ledger: %w", err)
	}

	return &Service{
		logger:         logger.Named("ledger"),
		ledger:         l,
		repo:           repo,
		writer:         writer,
		metrics:        metrics,
		now:            time.Now,
		retryPolicy:    cfg.Retry,
		replayHorizon:  cfg.ReplayHorizon,
		replayPageSize: cfg.ReplayPageSize,
		maxClockSkew:   cfg.MaxClockSkew,
		events:         make(chan event, cfg.QueueSize),
		done:           make(chan struct{}),
		nextSeq:        1,
	}, nil
}

// Replay rebuilds the in-memory log and the carried reward from the
// repository. Shares older than the replay horizon are skipped. It must
// run before Run.
func (s *Service) Replay(ctx context.Context) error {
	if s.running.Load() {
		return ErrAlreadyRunning
	}

	started := time.Now()
	var (
		err      error
		replayed int
	)
	defer func() {
		s.metrics.ObserveReplay(err, replayed, started)
	}()

	maxSeq, err := s.repo.MaxSequence(ctx)
	if err != nil {
		return fmt.Errorf("max sequence: %w", err)
	}
	carried, err := s.repo.LatestCarry(ctx)
	if err != nil {
		return fmt.Errorf("latest carry: %w", err)
	}
	s.carried.Store(int64(carried))
	s.metrics.SetCarried(carried)

	since := s.now().Add(-s.replayHorizon)
	after := s.ledger.LastSequence()
	for {
		var page []model.Share
		page, err = s.repo.SharesSince(ctx, after, since, s.replayPageSize)
		if err != nil {
			return fmt.Errorf("load shares after %d: %w", after, err)
		}
		for _, share := range page {
			if _, appendErr := s.ledger.Append(share); appendErr != nil {
				s.logger.Warn("skipping stored share", zap.Uint64("sequence", share.Sequence), zap.Error(appendErr))
				continue
			}
			replayed++
		}
		if len(page) < s.replayPageSize {
			break
		}
		after = page[len(page)-1].Sequence
	}

	s.nextSeq = max(maxSeq, s.ledger.LastSequence()) + 1
	s.publishWindow()
	s.logger.Info("share log replayed",
		zap.Int("shares", replayed),
		zap.Uint64("next_sequence", s.nextSeq),
		zap.Int64("carried_sat", int64(carried)),
		zap.Time("since", since),
	)
	return nil
}

// Run applies queued events in arrival order until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(s.done)

	s.writer.Start(ctx)
	defer s.writer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			ev.reply <- s.apply(ctx, ev)
		}
	}
}

func (s *Service) apply(ctx context.Context, ev event) result {
	switch {
	case ev.share != nil:
		return s.applyShare(ctx, *ev.share)
	case ev.block != nil:
		return s.applyBlock(ctx, *ev.block)
	case ev.difficulty != nil:
		s.applyDifficulty(*ev.difficulty)
		return result{}
	default:
		return result{err: errors.New("empty event")}
	}
}

func (s *Service) applyShare(ctx context.Context, share model.Share) (res result) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveAppend(res.err, started)
	}()

	now := s.now()
	if share.Timestamp.IsZero() {
		share.Timestamp = now
	}
	if share.Timestamp.After(now.Add(s.maxClockSkew)) {
		return result{err: fmt.Errorf("%w: timestamp %s ahead of clock",
			ledger.ErrInvalidShare, share.Timestamp.Format(time.RFC3339Nano))}
	}
	// Sequences are assigned here only; zero means the counter wrapped.
	if s.nextSeq == 0 {
		return result{err: ledger.ErrSequenceExhausted}
	}
	share.Sequence = s.nextSeq

	appended, err := s.ledger.Append(share)
	if err != nil {
		return result{err: err}
	}
	s.nextSeq = appended.Sequence + 1
	s.publishWindow()

	if err := s.writer.Add(ctx, appended); err != nil {
		s.logger.Error("share not queued for persistence", zap.Uint64("sequence", appended.Sequence), zap.Error(err))
	}
	return result{share: appended}
}

func (s *Service) applyBlock(ctx context.Context, block model.BlockEvent) result {
	window := s.ledger.CurrentWindow()
	if window.Target == 0 {
		return result{err: ErrNoDifficulty}
	}
	if block.Sequence != 0 {
		var err error
		if window, err = s.ledger.WindowAt(block.Sequence); err != nil {
			return result{err: err}
		}
	}

	carried := btcutil.Amount(s.carried.Load())
	reward := block.Reward + carried
	records, err := payout.Compute(window, reward)
	if errors.Is(err, payout.ErrEmptyWindow) {
		return s.carry(ctx, block, reward)
	}
	if err != nil {
		return result{err: err}
	}

	block.Sequence = window.LastSequence()
	p := model.Payout{
		Block:      block,
		Reward:     reward,
		Carried:    carried,
		Records:    records,
		ComputedAt: s.now(),
	}
	if err := s.store(ctx, "payout", func(ctx context.Context) error {
		return s.repo.InsertPayout(ctx, p)
	}); err != nil {
		s.logger.Error("payout computed but not stored, keeping carried reward",
			zap.Uint64("height", p.Block.Height),
			zap.Stringer("hash", p.Block.Hash),
			zap.Error(err),
		)
		return result{payout: p, err: fmt.Errorf("store payout: %w", err)}
	}

	s.carried.Store(0)
	s.metrics.SetCarried(0)
	s.logger.Info("block paid out",
		zap.Uint64("height", p.Block.Height),
		zap.Uint64("sequence", p.Block.Sequence),
		zap.Int("participants", len(p.Records)),
		zap.Int64("reward_sat", int64(p.Reward)),
	)
	return result{payout: p}
}

// carry holds reward for the next payout and records it so a restart
// picks it up again.
func (s *Service) carry(ctx context.Context, block model.BlockEvent, reward btcutil.Amount) result {
	s.carried.Store(int64(reward))
	s.metrics.SetCarried(reward)
	s.logger.Warn("block found with empty window, carrying reward",
		zap.Uint64("height", block.Height),
		zap.Stringer("hash", block.Hash),
		zap.Int64("carried_sat", int64(reward)),
	)

	c := model.Carry{Block: block, Amount: reward, RecordedAt: s.now()}
	if err := s.store(ctx, "carry", func(ctx context.Context) error {
		return s.repo.InsertCarry(ctx, c)
	}); err != nil {
		s.logger.Error("carried reward not stored", zap.Int64("carried_sat", int64(reward)), zap.Error(err))
		return result{err: fmt.Errorf("%w: %s: store carry: %w", ErrRewardCarried, reward, err)}
	}
	return result{err: fmt.Errorf("%w: %s", ErrRewardCarried, reward)}
}

func (s *Service) store(ctx context.Context, what string, op func(context.Context) error) error {
	return retry.Do(ctx, s.retryPolicy, op, func(err error, wait time.Duration) {
		s.logger.Warn("retrying insert", zap.String("record", what), zap.Error(err), zap.Duration("wait", wait))
	})
}

func (s *Service) applyDifficulty(d model.NetworkDifficulty) {
	s.ledger.OnDifficultyChange(d.Difficulty)
	s.networkDiff.Store(d.Difficulty)
	s.difficultyHeight.Store(d.Height)
	s.metrics.SetNetworkDifficulty(d.Difficulty)
	s.publishWindow()
}

func (s *Service) publishWindow() {
	w := s.ledger.CurrentWindow()
	s.metrics.SetWindow(len(w.Shares), w.Difficulty, w.Target)
}

// SubmitShare appends a share and returns it with its sequence assigned.
// Any sequence set by the caller is replaced.
func (s *Service) SubmitShare(ctx context.Context, share model.Share) (model.Share, error) {
	res, err := s.submit(ctx, event{share: &share})
	if err != nil {
		return model.Share{}, err
	}
	return res.share, res.err
}

// SubmitBlock pays out a found block over the current window and stores
// the payout. An empty window carries the reward forward and returns
// ErrRewardCarried. When the payout cannot be stored it is returned with
// the error and the carried reward is kept.
func (s *Service) SubmitBlock(ctx context.Context, block model.BlockEvent) (model.Payout, error) {
	started := time.Now()
	var err error
	defer func() {
		s.metrics.ObservePayout(err, started)
	}()

	res, err := s.submit(ctx, event{block: &block})
	if err != nil {
		return model.Payout{}, err
	}
	err = res.err
	return res.payout, err
}

// SetNetworkDifficulty retargets the window.
func (s *Service) SetNetworkDifficulty(ctx context.Context, d model.NetworkDifficulty) error {
	res, err := s.submit(ctx, event{difficulty: &d})
	if err != nil {
		return err
	}
	return res.err
}

func (s *Service) submit(ctx context.Context, ev event) (result, error) {
	ev.reply = make(chan result, 1)
	select {
	case <-ctx.Done():
		return result{}, ctx.Err()
	case <-s.done:
		return result{}, ErrStopped
	case s.events <- ev:
	}

	select {
	case <-ctx.Done():
		return result{}, ctx.Err()
	case <-s.done:
		return result{}, ErrStopped
	case res := <-ev.reply:
		return res, nil
	}
}

// Window returns the current window.
func (s *Service) Window() model.Window {
	return s.ledger.CurrentWindow()
}

// WindowAt returns the window ending at sequence.
func (s *Service) WindowAt(sequence uint64) (model.Window, error) {
	return s.ledger.WindowAt(sequence)
}

// Scores returns the current window as normalised participant weights.
func (s *Service) Scores() []model.Score {
	return payout.Scores(s.ledger.CurrentWindow())
}

// Status summarises the ledger.
func (s *Service) Status() Status {
	w := s.ledger.CurrentWindow()
	return Status{
		LogLength:         s.ledger.Len(),
		LastSequence:      s.ledger.LastSequence(),
		WindowShares:      len(w.Shares),
		WindowDifficulty:  w.Difficulty,
		Target:            w.Target,
		NetworkDifficulty: s.networkDiff.Load(),
		DifficultyHeight:  s.difficultyHeight.Load(),
		Carried:           btcutil.Amount(s.carried.Load()),
	}
}
