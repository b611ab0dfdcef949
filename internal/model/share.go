package model

import (
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/tideshash-backend/pkg/safe"
)

// Share is one accepted unit of proof-of-work. Immutable once appended.
type Share struct {
	Sequence    uint64
	AuthorityID string
	Participant string
	Difficulty  uint64
	Timestamp   time.Time
}

// Window is the trailing, difficulty-bounded view of the share log.
// Shares is shared with the ledger and must not be modified.
type Window struct {
	Shares     []Share
	Difficulty uint64
	Target     uint64
}

// Empty reports whether the window holds no shares.
func (w Window) Empty() bool {
	return len(w.Shares) == 0
}

// FirstSequence returns the sequence of the oldest share in the window.
func (w Window) FirstSequence() uint64 {
	if len(w.Shares) == 0 {
		return 0
	}
	return w.Shares[0].Sequence
}

// LastSequence returns the sequence of the newest share in the window.
func (w Window) LastSequence() uint64 {
	if len(w.Shares) == 0 {
		return 0
	}
	return w.Shares[len(w.Shares)-1].Sequence
}

// Contributions sums share difficulty per participant.
func (w Window) Contributions() map[string]uint64 {
	out := make(map[string]uint64)
	for _, s := range w.Shares {
		out[s.Participant] = safe.SaturatingAddUint64(out[s.Participant], s.Difficulty)
	}
	return out
}

// BlockEvent announces a discovered block. A zero Sequence means the
// payout is computed against the window at the current log tail.
type BlockEvent struct {
	Sequence uint64
	Height   uint64
	Hash     chainhash.Hash
	Reward   btcutil.Amount
	FoundAt  time.Time
}

// PayoutRecord is one participant's share of a block reward.
type PayoutRecord struct {
	Participant           string
	WindowDifficulty      uint64
	ParticipantDifficulty uint64
	Amount                btcutil.Amount
}

// Payout is the full result of a block reward split.
type Payout struct {
	Block      BlockEvent
	Reward     btcutil.Amount
	Carried    btcutil.Amount
	Records    []PayoutRecord
	ComputedAt time.Time
}

// Total sums the allocated amounts.
func (p Payout) Total() btcutil.Amount {
	var total btcutil.Amount
	for _, r := range p.Records {
		total += r.Amount
	}
	return total
}

// Score is a participant weight normalised to the u16 range.
type Score struct {
	Participant string
	Weight      uint16
}

// NetworkDifficulty is the chain difficulty observed at a height.
type NetworkDifficulty struct {
	Height     uint64
	Bits       uint32
	Difficulty uint64
}

// Carry is the undistributed reward left by a block found over an empty
// window. Amount includes earlier carries.
type Carry struct {
	Block      BlockEvent
	Amount     btcutil.Amount
	RecordedAt time.Time
}
