// Package allocation plans how a cycle's hashrate is spread across
// stake-weighted authorities.
package allocation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goodnatureofminers/tideshash-backend/internal/model"
	"github.com/shopspring/decimal"
)

const (
	DefaultCycleLength           = 720
	DefaultMinBlocksPerAuthority = 40
	DefaultMaxAuthoritiesPerSlot = 3
	DefaultMinSlotSize           = 120
)

// DefaultMinStakeFloor is the stake below which authorities are ignored.
var DefaultMinStakeFloor = decimal.NewFromInt(12_000)

var (
	ErrNoAuthorities   = errors.New("no eligible authorities")
	ErrInvalidParams   = errors.New("invalid allocation parameters")
	ErrUnknownStrategy = errors.New("unknown allocation strategy")
)

// Params configures every strategy.
type Params struct {
	CycleLength           uint64
	MinBlocksPerAuthority uint64
	MinStakeFloor         decimal.Decimal
	MaxAuthorities        int
	MaxAuthoritiesPerSlot int
	MinSlotSize           uint64
	Blacklist             []string
}

// DefaultParams returns the stock configuration.
func DefaultParams() Params {
	return Params{
		CycleLength:           DefaultCycleLength,
		MinBlocksPerAuthority: DefaultMinBlocksPerAuthority,
		MinStakeFloor:         DefaultMinStakeFloor,
		MaxAuthoritiesPerSlot: DefaultMaxAuthoritiesPerSlot,
		MinSlotSize:           DefaultMinSlotSize,
	}
}

func (p Params) validate(strategy model.Strategy) error {
	if p.CycleLength == 0 {
		return fmt.Errorf("%w: cycle length is zero", ErrInvalidParams)
	}
	if p.MaxAuthorities < 0 {
		return fmt.Errorf("%w: negative max authorities", ErrInvalidParams)
	}
	if p.MinStakeFloor.IsNegative() {
		return fmt.Errorf("%w: negative stake floor", ErrInvalidParams)
	}
	if strategy != model.StrategyMultiPool {
		return nil
	}
	if p.MaxAuthoritiesPerSlot <= 0 {
		return fmt.Errorf("%w: max authorities per slot must be positive", ErrInvalidParams)
	}
	// A slot closed at the member cap must still reach the minimum size.
	if uint64(p.MaxAuthoritiesPerSlot)*p.MinBlocksPerAuthority < p.MinSlotSize {
		return fmt.Errorf("%w: %d authorities of %d blocks cannot fill a %d block slot",
			ErrInvalidParams, p.MaxAuthoritiesPerSlot, p.MinBlocksPerAuthority, p.MinSlotSize)
	}
	return nil
}

// ParseStrategy maps a configuration value to a strategy.
func ParseStrategy(s string) (model.Strategy, error) {
	switch model.Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case model.StrategyStakeBased:
		return model.StrategyStakeBased, nil
	case model.StrategyEqual:
		return model.StrategyEqual, nil
	case model.StrategyMultiPool:
		return model.StrategyMultiPool, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// CoverageViolationError reports authorities dropped because their
// minimum allocations did not fit in the cycle. The schedule returned
// alongside it is still valid for the remaining authorities.
type CoverageViolationError struct {
	CycleLength uint64
	Required    uint64
	Dropped     []string
}

func (e *CoverageViolationError) Error() string {
	return fmt.Sprintf("coverage violation: minimum allocations need %d of %d blocks, dropped %s",
		e.Required, e.CycleLength, strings.Join(e.Dropped, ","))
}
