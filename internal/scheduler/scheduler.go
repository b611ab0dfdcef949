// Package scheduler drives an allocation schedule against chain height
// and pushes each slot's targets to the pool proxy.
package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/tideshash-backend/internal/allocation"
	"github.com/goodnatureofminers/tideshash-backend/internal/clock"
	"github.com/goodnatureofminers/tideshash-backend/internal/model"
	"github.com/goodnatureofminers/tideshash-backend/internal/retry"
	"github.com/goodnatureofminers/tideshash-backend/internal/storage/kv"
	"go.uber.org/zap"
)

// State is the scheduler's position in its state machine.
type State string

const (
	StateIdle          State = "idle"
	StateSlotActive    State = "slot_active"
	StateCycleComplete State = "cycle_complete"
)

var (
	// ErrHoldingRouting is returned when a new cycle could not be planned
	// and the previous routing stays in place.
	ErrHoldingRouting = errors.New("holding current routing")
	// ErrStaleSnapshot is returned when the stake feed has not moved to
	// the cycle covering the current height.
	ErrStaleSnapshot = errors.New("stake snapshot does not cover height")
	// ErrEmptySchedule is returned when a plan has nothing to route to.
	ErrEmptySchedule = errors.New("schedule has no slots")
)

// Config tunes timeouts and retries.
type Config struct {
	Retry        retry.Policy
	PushTimeout  time.Duration
	TickInterval time.Duration
	StateTTL     time.Duration
}

// Status is a point-in-time view for dashboards.
type Status struct {
	State          State     `json:"state"`
	CycleID        uint64    `json:"cycle_id"`
	Slot           int       `json:"slot"`
	AppliedCycleID uint64    `json:"applied_cycle_id"`
	AppliedSlot    int       `json:"applied_slot"`
	Height         uint64    `json:"height"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type position struct {
	CycleID uint64 `json:"cycle_id"`
	Slot    int    `json:"slot"`
}

type push struct {
	cancel context.CancelFunc
	done   chan struct{}
	pos    position
	err    error
}

// Scheduler moves through Idle, SlotActive and CycleComplete. Only one
// transition runs at a time and at most one proxy push is in flight.
type Scheduler struct {
	logger       *zap.Logger
	stakes       StakeSource
	heights      HeightSource
	planner      Planner
	proxy        ProxyController
	store        StateStore
	metrics      Metrics
	sleep        func(context.Context, time.Duration) error
	retryPolicy  retry.Policy
	pushTimeout  time.Duration
	tickInterval time.Duration
	stateTTL     time.Duration
	trigger      <-chan struct{}

	mu       sync.Mutex
	state    State
	schedule *model.Schedule
	slot     int
	height   uint64
	inflight *push

	appliedMu sync.Mutex
	applied   *position

	status  atomic.Pointer[Status]
	current atomic.Pointer[model.Schedule]
}

// New builds a Scheduler. trigger may be nil; when set, a receive on it
// cuts the wait between ticks short.
func New(
	stakes StakeSource,
	heights HeightSource,
	planner Planner,
	proxy ProxyController,
	store StateStore,
	metrics Metrics,
	cfg Config,
	logger *zap.Logger,
	trigger <-chan struct{},
) (*Scheduler, error) {
	switch {
	case stakes == nil:
		return nil, errors.New("stake source is required")
	case heights == nil:
		return nil, errors.New("height source is required")
	case planner == nil:
		return nil, errors.New("planner is required")
	case proxy == nil:
		return nil, errors.New("proxy controller is required")
	case store == nil:
		return nil, errors.New("state store is required")
	case metrics == nil:
		return nil, errors.New("scheduler metrics is required")
	}
	if cfg.PushTimeout <= 0 {
		cfg.PushTimeout = defaultPushTimeout
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTickInterval
	}
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = defaultStateTTL
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultPolicy()
	}

	s := &Scheduler{
		logger:       logger,
		stakes:       stakes,
		heights:      heights,
		planner:      planner,
		proxy:        proxy,
		store:        store,
		metrics:      metrics,
		sleep:        clock.SleepWithContext,
		retryPolicy:  cfg.Retry,
		pushTimeout:  cfg.PushTimeout,
		tickInterval: cfg.TickInterval,
		stateTTL:     cfg.StateTTL,
		trigger:      trigger,
		state:        StateIdle,
		slot:         -1,
	}
	s.publishStatus()
	return s, nil
}

// Run recovers persisted state, then advances on every tick until ctx
// is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Recover(ctx); err != nil {
		s.logger.Warn("recovery incomplete, continuing with next tick", zap.Error(err))
	}
	defer s.shutdown()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.tick(ctx); err != nil {
			s.logger.Warn("tick failed", zap.Error(err))
		}
		if err := s.wait(ctx, s.tickInterval); err != nil {
			return err
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) error {
	started := time.Now()
	height, err := s.heights.CurrentHeight(ctx)
	s.metrics.ObserveHeight(err, started)
	if err != nil {
		return fmt.Errorf("current height: %w", err)
	}
	return s.Advance(ctx, height)
}

func (s *Scheduler) wait(ctx context.Context, d time.Duration) error {
	if s.trigger == nil {
		return s.sleep(ctx, d)
	}
	return clock.SleepOrSignal(ctx, d, s.trigger)
}

// Recover restores the persisted (cycle, slot) and re-applies that
// slot's targets before returning. A position that does not fit the
// persisted schedule is treated as a completed cycle.
func (s *Scheduler) Recover(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, err := s.loadPosition()
	if errors.Is(err, kv.ErrNotFound) {
		s.logger.Info("no persisted position, starting idle")
		s.setState(StateIdle)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load position: %w", err)
	}

	schedule, err := s.loadSchedule()
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("load schedule: %w", err)
	}
	if err != nil || schedule.CycleID != pos.CycleID || pos.Slot < 0 || pos.Slot >= len(schedule.Slots) {
		s.logger.Warn("persisted position does not fit schedule, forcing a new cycle",
			zap.Uint64("cycle", pos.CycleID),
			zap.Int("slot", pos.Slot),
			zap.Int("slots", len(schedule.Slots)),
		)
		s.setSchedule(nil)
		s.slot = -1
		s.setState(StateCycleComplete)
		return nil
	}

	s.setSchedule(&schedule)
	s.slot = pos.Slot
	s.setState(StateSlotActive)
	s.logger.Info("re-applying recovered slot", zap.Uint64("cycle", pos.CycleID), zap.Int("slot", pos.Slot))

	p := s.startPush(ctx, schedule, pos.Slot)
	<-p.done
	if p.err != nil {
		return fmt.Errorf("re-apply cycle %d slot %d: %w", pos.CycleID, pos.Slot, p.err)
	}
	return nil
}

// Advance moves the scheduler to the slot covering height, planning a
// new cycle first when the current one is over.
func (s *Scheduler) Advance(ctx context.Context, height uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.height = height
	defer s.publishStatus()

	if s.schedule == nil || height >= s.schedule.EndHeight() {
		if err := s.nextCycle(ctx, height); err != nil {
			return err
		}
	}
	if height < s.schedule.StartHeight {
		return nil
	}

	idx := s.schedule.SlotAt(height - s.schedule.StartHeight)
	if idx < 0 {
		return fmt.Errorf("no slot covers offset %d", height-s.schedule.StartHeight)
	}

	pos := position{CycleID: s.schedule.CycleID, Slot: idx}
	if idx == s.slot && (s.pushing(pos) || s.isApplied(pos)) {
		return nil
	}
	if idx != s.slot {
		s.logger.Info("slot boundary crossed",
			zap.Uint64("cycle", pos.CycleID),
			zap.Int("from", s.slot),
			zap.Int("to", idx),
			zap.Uint64("height", height),
		)
	}
	s.slot = idx
	s.setState(StateSlotActive)
	s.startPush(ctx, *s.schedule, idx)
	return nil
}

func (s *Scheduler) nextCycle(ctx context.Context, height uint64) error {
	s.setState(StateCycleComplete)

	started := time.Now()
	var snapshot model.StakeSnapshot
	err := retry.Do(ctx, s.retryPolicy, func(ctx context.Context) error {
		var fetchErr error
		snapshot, fetchErr = s.stakes.Snapshot(ctx)
		return fetchErr
	}, s.notify("stake snapshot"))
	s.metrics.ObserveSnapshot(err, started)
	if err != nil {
		s.logger.Warn("stake snapshot unavailable, holding routing", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrHoldingRouting, err)
	}

	schedule, err := s.planner.Plan(snapshot)
	var violation *allocation.CoverageViolationError
	switch {
	case errors.As(err, &violation):
		s.logger.Warn("coverage violation, planning without dropped authorities",
			zap.Strings("dropped", violation.Dropped),
			zap.Uint64("required", violation.Required),
			zap.Uint64("cycle_length", violation.CycleLength),
		)
	case err != nil:
		s.logger.Warn("planning failed, holding routing", zap.Error(err))
		return fmt.Errorf("%w: plan: %w", ErrHoldingRouting, err)
	}

	if len(schedule.Slots) == 0 {
		return fmt.Errorf("%w: %w", ErrHoldingRouting, ErrEmptySchedule)
	}
	if height >= schedule.EndHeight() || (s.schedule != nil && schedule.StartHeight < s.schedule.EndHeight()) {
		s.logger.Warn("stake snapshot is stale, holding routing",
			zap.Uint64("height", height),
			zap.Uint64("snapshot_cycle", snapshot.CycleID),
			zap.Uint64("snapshot_start", snapshot.CycleStart),
		)
		return fmt.Errorf("%w: %w", ErrHoldingRouting, ErrStaleSnapshot)
	}

	if err := s.saveSchedule(schedule); err != nil {
		s.logger.Error("persist schedule failed", zap.Error(err))
	}
	s.setSchedule(&schedule)
	s.slot = -1
	s.logger.Info("new cycle planned",
		zap.Uint64("cycle", schedule.CycleID),
		zap.Uint64("start", schedule.StartHeight),
		zap.Uint64("length", schedule.Length),
		zap.Int("slots", len(schedule.Slots)),
		zap.String("strategy", string(schedule.Strategy)),
	)
	return nil
}

// startPush supersedes any in-flight push and starts a new one. The
// previous push is canceled and awaited so a stale slot can never land
// after a newer one.
func (s *Scheduler) startPush(ctx context.Context, schedule model.Schedule, idx int) *push {
	s.stopPush()

	pctx, cancel := context.WithCancel(ctx)
	p := &push{
		cancel: cancel,
		done:   make(chan struct{}),
		pos:    position{CycleID: schedule.CycleID, Slot: idx},
	}
	s.inflight = p
	go s.runPush(pctx, p, schedule.Slots[idx].ProxyTargets())
	return p
}

func (s *Scheduler) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopPush()
}

func (s *Scheduler) stopPush() {
	if s.inflight == nil {
		return
	}
	s.inflight.cancel()
	<-s.inflight.done
}

func (s *Scheduler) pushing(pos position) bool {
	if s.inflight == nil || s.inflight.pos != pos {
		return false
	}
	select {
	case <-s.inflight.done:
		return false
	default:
		return true
	}
}

func (s *Scheduler) runPush(ctx context.Context, p *push, targets []model.ProxyTarget) {
	defer close(p.done)
	defer p.cancel()

	logger := s.logger.With(zap.Uint64("cycle", p.pos.CycleID), zap.Int("slot", p.pos.Slot))
	started := time.Now()
	err := retry.Do(ctx, s.retryPolicy, func(ctx context.Context) error {
		pushCtx, cancel := context.WithTimeout(ctx, s.pushTimeout)
		defer cancel()
		return s.proxy.SetTargets(pushCtx, targets)
	}, s.notify("set targets"))
	s.metrics.ObservePush(err, started)

	if ctx.Err() != nil {
		logger.Info("push superseded")
		p.err = ctx.Err()
		return
	}
	if err != nil {
		logger.Error("push failed, previous routing stays active", zap.Error(err))
		p.err = err
		return
	}

	if saveErr := s.savePosition(p.pos); saveErr != nil {
		logger.Error("persist position failed", zap.Error(saveErr))
	}
	s.markApplied(p.pos)
	logger.Info("slot targets applied", zap.Int("targets", len(targets)))
}

func (s *Scheduler) notify(op string) func(error, time.Duration) {
	return func(err error, wait time.Duration) {
		s.logger.Warn("retrying", zap.String("op", op), zap.Error(err), zap.Duration("wait", wait))
	}
}

func (s *Scheduler) isApplied(pos position) bool {
	s.appliedMu.Lock()
	defer s.appliedMu.Unlock()
	return s.applied != nil && *s.applied == pos
}

func (s *Scheduler) markApplied(pos position) {
	s.appliedMu.Lock()
	s.applied = &pos
	s.appliedMu.Unlock()

	s.metrics.SetPosition(pos.CycleID, pos.Slot)
}

func (s *Scheduler) setState(state State) {
	if s.state == state {
		return
	}
	s.state = state
	s.metrics.ObserveTransition(string(state))
	s.publishStatus()
}

func (s *Scheduler) setSchedule(schedule *model.Schedule) {
	s.schedule = schedule
	s.current.Store(schedule)
}

// publishStatus is called with mu held.
func (s *Scheduler) publishStatus() {
	status := Status{
		State:     s.state,
		Slot:      s.slot,
		Height:    s.height,
		UpdatedAt: time.Now(),
	}
	if s.schedule != nil {
		status.CycleID = s.schedule.CycleID
	}
	s.status.Store(&status)
}

// Status returns the latest position and the last applied slot.
func (s *Scheduler) Status() Status {
	status := *s.status.Load()
	status.AppliedSlot = -1

	s.appliedMu.Lock()
	defer s.appliedMu.Unlock()
	if s.applied != nil {
		status.AppliedCycleID = s.applied.CycleID
		status.AppliedSlot = s.applied.Slot
	}
	return status
}

// Schedule returns the schedule being driven, if any.
func (s *Scheduler) Schedule() (model.Schedule, bool) {
	schedule := s.current.Load()
	if schedule == nil {
		return model.Schedule{}, false
	}
	return *schedule, true
}

func (s *Scheduler) loadPosition() (position, error) {
	raw, err := s.store.Get(positionKey)
	if err != nil {
		return position{}, err
	}
	var pos position
	if err := json.Unmarshal(raw, &pos); err != nil {
		return position{}, fmt.Errorf("decode position: %w", err)
	}
	return pos, nil
}

func (s *Scheduler) savePosition(pos position) error {
	raw, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	return s.store.Put(positionKey, raw, s.stateTTL)
}

func (s *Scheduler) loadSchedule() (model.Schedule, error) {
	raw, err := s.store.Get(scheduleKey)
	if err != nil {
		return model.Schedule{}, err
	}
	schedule, err := model.DecodeSchedule(raw)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("decode schedule: %w", err)
	}
	return schedule, nil
}

func (s *Scheduler) saveSchedule(schedule model.Schedule) error {
	raw, err := schedule.Encode()
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	return s.store.Put(scheduleKey, raw, s.stateTTL)
}
