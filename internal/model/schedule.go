package model

import (
	"encoding/json"
	"sort"
)

// Strategy selects how the planner spreads a cycle across authorities.
type Strategy string

var (
	StrategyStakeBased Strategy = "stake_based"
	StrategyEqual      Strategy = "equal"
	StrategyMultiPool  Strategy = "multi_pool"
)

// SlotTarget is one authority's portion of a slot.
type SlotTarget struct {
	AuthorityID string         `json:"authority_id"`
	Blocks      uint64         `json:"blocks"`
	Descriptor  PoolDescriptor `json:"descriptor"`
}

// Slot covers offsets [Start, End) of a cycle.
type Slot struct {
	Start   uint64       `json:"start"`
	End     uint64       `json:"end"`
	Targets []SlotTarget `json:"targets"`
}

// Size returns the slot length in blocks.
func (s Slot) Size() uint64 {
	return s.End - s.Start
}

// Proportion returns the target's fraction of the slot.
func (s Slot) Proportion(i int) float64 {
	size := s.Size()
	if size == 0 || i < 0 || i >= len(s.Targets) {
		return 0
	}
	return float64(s.Targets[i].Blocks) / float64(size)
}

// Schedule is the ordered slot plan for one evaluation cycle.
type Schedule struct {
	CycleID     uint64   `json:"cycle_id"`
	StartHeight uint64   `json:"start_height"`
	Length      uint64   `json:"length"`
	Strategy    Strategy `json:"strategy"`
	Slots       []Slot   `json:"slots"`
}

// EndHeight returns the first height past the cycle.
func (s Schedule) EndHeight() uint64 {
	return s.StartHeight + s.Length
}

// SlotAt returns the index of the slot covering a cycle offset, or -1.
func (s Schedule) SlotAt(offset uint64) int {
	i := sort.Search(len(s.Slots), func(i int) bool {
		return s.Slots[i].End > offset
	})
	if i == len(s.Slots) || s.Slots[i].Start > offset {
		return -1
	}
	return i
}

// AuthorityBlocks totals the blocks assigned to each authority.
func (s Schedule) AuthorityBlocks() map[string]uint64 {
	out := make(map[string]uint64)
	for _, slot := range s.Slots {
		for _, t := range slot.Targets {
			out[t.AuthorityID] += t.Blocks
		}
	}
	return out
}

// TotalBlocks sums blocks across all slots.
func (s Schedule) TotalBlocks() uint64 {
	var total uint64
	for _, slot := range s.Slots {
		for _, t := range slot.Targets {
			total += t.Blocks
		}
	}
	return total
}

// Encode returns the canonical encoding of the schedule.
func (s Schedule) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSchedule parses a schedule produced by Encode.
func DecodeSchedule(data []byte) (Schedule, error) {
	var s Schedule
	err := json.Unmarshal(data, &s)
	return s, err
}

// ProxyTargets converts a slot into proxy routing targets.
func (s Slot) ProxyTargets() []ProxyTarget {
	out := make([]ProxyTarget, 0, len(s.Targets))
	for i, t := range s.Targets {
		out = append(out, ProxyTarget{
			AuthorityID: t.AuthorityID,
			URL:         t.Descriptor.URL(),
			HighDiffURL: t.Descriptor.HighDiffURL(),
			User:        t.Descriptor.Username,
			Password:    t.Descriptor.Password,
			Proportion:  s.Proportion(i),
		})
	}
	return out
}
