package allocation

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/goodnatureofminers/tideshash-backend/internal/model"
	"github.com/shopspring/decimal"
)

// Planner turns stake snapshots into schedules. Plan is a pure function
// of the snapshot and the planner's parameters.
type Planner struct {
	strategy  model.Strategy
	params    Params
	blacklist map[string]struct{}
}

// NewPlanner validates params for strategy and builds a Planner.
func NewPlanner(strategy model.Strategy, params Params) (*Planner, error) {
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}
	if err := params.validate(strategy); err != nil {
		return nil, err
	}

	blacklist := make(map[string]struct{}, len(params.Blacklist))
	for _, id := range params.Blacklist {
		blacklist[id] = struct{}{}
	}
	return &Planner{strategy: strategy, params: params, blacklist: blacklist}, nil
}

// Strategy returns the configured strategy.
func (p *Planner) Strategy() model.Strategy {
	return p.strategy
}

// Plan computes the schedule for one cycle. When minimum allocations do
// not fit, the lowest-stake authorities are dropped and the degraded
// schedule is returned together with a *CoverageViolationError.
func (p *Planner) Plan(snapshot model.StakeSnapshot) (model.Schedule, error) {
	eligible := p.filter(snapshot.Authorities)
	eligible, violation := p.fitCoverage(eligible)
	if len(eligible) == 0 {
		if violation != nil {
			return model.Schedule{}, fmt.Errorf("%w: %w", ErrNoAuthorities, violation)
		}
		return model.Schedule{}, ErrNoAuthorities
	}

	var slots []model.Slot
	switch p.strategy {
	case model.StrategyStakeBased:
		slots = p.stakeBased(eligible)
	case model.StrategyEqual:
		slots = p.equal(eligible)
	case model.StrategyMultiPool:
		slots = p.multiPool(eligible)
	default:
		return model.Schedule{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, p.strategy)
	}

	schedule := model.Schedule{
		CycleID:     snapshot.CycleID,
		StartHeight: snapshot.CycleStart,
		Length:      p.params.CycleLength,
		Strategy:    p.strategy,
		Slots:       slots,
	}
	if violation != nil {
		return schedule, violation
	}
	return schedule, nil
}

// filter drops blacklisted and under-staked authorities and orders the
// rest by stake descending, id ascending.
func (p *Planner) filter(authorities []model.Authority) []model.Authority {
	out := make([]model.Authority, 0, len(authorities))
	for _, a := range authorities {
		if a.ID == "" || !a.Stake.IsPositive() || a.Stake.LessThan(p.params.MinStakeFloor) {
			continue
		}
		if _, banned := p.blacklist[a.ID]; banned {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Stake.Cmp(out[j].Stake); c != 0 {
			return c > 0
		}
		return out[i].ID < out[j].ID
	})

	deduped := out[:0]
	seen := make(map[string]struct{}, len(out))
	for _, a := range out {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		deduped = append(deduped, a)
	}

	if p.params.MaxAuthorities > 0 && len(deduped) > p.params.MaxAuthorities {
		deduped = deduped[:p.params.MaxAuthorities]
	}
	return deduped
}

func (p *Planner) minBlocks(a model.Authority) uint64 {
	return max(p.params.MinBlocksPerAuthority, a.MinBlocks)
}

func (p *Planner) fitCoverage(authorities []model.Authority) ([]model.Authority, *CoverageViolationError) {
	var required uint64
	for _, a := range authorities {
		required += p.minBlocks(a)
	}
	if required <= p.params.CycleLength {
		return authorities, nil
	}

	violation := &CoverageViolationError{CycleLength: p.params.CycleLength, Required: required}
	for required > p.params.CycleLength && len(authorities) > 0 {
		last := authorities[len(authorities)-1]
		authorities = authorities[:len(authorities)-1]
		required -= p.minBlocks(last)
		violation.Dropped = append(violation.Dropped, last.ID)
	}
	return authorities, violation
}

func (p *Planner) floors(authorities []model.Authority) []uint64 {
	out := make([]uint64, len(authorities))
	for i, a := range authorities {
		out[i] = p.minBlocks(a)
	}
	return out
}

// stakeQuotas gives each authority floor(N*stake/total) blocks raised to
// its minimum, takes any excess from the largest slack and hands the
// leftover to the last authority.
func (p *Planner) stakeQuotas(authorities []model.Authority) []uint64 {
	n := p.params.CycleLength
	total := decimal.Zero
	for _, a := range authorities {
		total = total.Add(a.Stake)
	}

	totalRat := total.Rat()
	quotas := make([]uint64, len(authorities))
	for i, a := range authorities {
		r := new(big.Rat).SetInt(new(big.Int).SetUint64(n))
		r.Mul(r, a.Stake.Rat())
		r.Quo(r, totalRat)
		quotas[i] = new(big.Int).Quo(r.Num(), r.Denom()).Uint64()
	}

	sum := fit(quotas, p.floors(authorities), n)
	quotas[len(quotas)-1] += n - sum
	return quotas
}

// fit raises quotas to their floors and then trims the total back to n,
// one block at a time from the quota with the most slack.
func fit(quotas, floors []uint64, n uint64) uint64 {
	var sum uint64
	for i := range quotas {
		quotas[i] = max(quotas[i], floors[i])
		sum += quotas[i]
	}
	for sum > n {
		best := -1
		for i := range quotas {
			slack := quotas[i] - floors[i]
			if slack > 0 && (best < 0 || slack > quotas[best]-floors[best]) {
				best = i
			}
		}
		quotas[best]--
		sum--
	}
	return sum
}

func (p *Planner) stakeBased(authorities []model.Authority) []model.Slot {
	quotas := p.stakeQuotas(authorities)

	slots := make([]model.Slot, 0, len(authorities))
	var offset uint64
	for i, a := range authorities {
		if quotas[i] == 0 {
			continue
		}
		slots = append(slots, model.Slot{
			Start:   offset,
			End:     offset + quotas[i],
			Targets: []model.SlotTarget{{AuthorityID: a.ID, Blocks: quotas[i], Descriptor: a.Descriptor}},
		})
		offset += quotas[i]
	}
	return slots
}

func (p *Planner) equal(authorities []model.Authority) []model.Slot {
	byID := make([]model.Authority, len(authorities))
	copy(byID, authorities)
	sort.Slice(byID, func(i, j int) bool {
		return byID[i].ID < byID[j].ID
	})

	n := p.params.CycleLength
	count := uint64(len(byID))
	base, extra := n/count, n%count

	quotas := make([]uint64, len(byID))
	for i := range quotas {
		quotas[i] = base
		if uint64(i) < extra {
			quotas[i]++
		}
	}
	fit(quotas, p.floors(byID), n)

	slots := make([]model.Slot, 0, len(byID))
	var offset uint64
	for i, a := range byID {
		if quotas[i] == 0 {
			continue
		}
		slots = append(slots, model.Slot{
			Start:   offset,
			End:     offset + quotas[i],
			Targets: []model.SlotTarget{{AuthorityID: a.ID, Blocks: quotas[i], Descriptor: a.Descriptor}},
		})
		offset += quotas[i]
	}
	return slots
}

// multiPool packs stake quotas smallest first into shared slots that
// close once they reach MinSlotSize or MaxAuthoritiesPerSlot members.
func (p *Planner) multiPool(authorities []model.Authority) []model.Slot {
	quotas := p.stakeQuotas(authorities)

	order := make([]int, 0, len(authorities))
	for i := range authorities {
		if quotas[i] > 0 {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if quotas[a] != quotas[b] {
			return quotas[a] < quotas[b]
		}
		return authorities[a].ID < authorities[b].ID
	})

	var (
		slots   []model.Slot
		targets []model.SlotTarget
		size    uint64
		offset  uint64
	)
	closeSlot := func() {
		slots = append(slots, model.Slot{Start: offset, End: offset + size, Targets: targets})
		offset += size
		targets, size = nil, 0
	}

	for _, i := range order {
		a := authorities[i]
		targets = append(targets, model.SlotTarget{AuthorityID: a.ID, Blocks: quotas[i], Descriptor: a.Descriptor})
		size += quotas[i]
		if size >= p.params.MinSlotSize || len(targets) >= p.params.MaxAuthoritiesPerSlot {
			closeSlot()
		}
	}
	if len(targets) > 0 {
		closeSlot()
	}
	return slots
}
