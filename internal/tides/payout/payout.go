// Package payout splits block rewards across the participants of a window.
package payout

import (
	"errors"
	"math"
	"math/big"
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/tideshash-backend/internal/model"
	"github.com/goodnatureofminers/tideshash-backend/pkg/safe"
)

var (
	// ErrEmptyWindow is returned when no participant is eligible.
	ErrEmptyWindow = errors.New("window has no shares")
	// ErrInvalidReward is returned for negative rewards.
	ErrInvalidReward = errors.New("invalid block reward")
)

type contribution struct {
	participant string
	difficulty  uint64
}

func contributions(window model.Window) ([]contribution, uint64) {
	byParticipant := window.Contributions()
	out := make([]contribution, 0, len(byParticipant))
	var total uint64
	for p, d := range byParticipant {
		out = append(out, contribution{participant: p, difficulty: d})
		total = safe.SaturatingAddUint64(total, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].participant < out[j].participant
	})
	return out, total
}

// Compute splits reward proportionally to window difficulty. Amounts are
// floored and the remainder goes to the largest contributor, lowest id
// first on ties, so the records always sum to reward.
func Compute(window model.Window, reward btcutil.Amount) ([]model.PayoutRecord, error) {
	if reward < 0 {
		return nil, ErrInvalidReward
	}
	if window.Empty() {
		return nil, ErrEmptyWindow
	}

	contribs, total := contributions(window)
	records := make([]model.PayoutRecord, len(contribs))

	bigReward := big.NewInt(int64(reward))
	bigTotal := new(big.Int).SetUint64(total)
	share := new(big.Int)

	var allocated btcutil.Amount
	largest := 0
	for i, c := range contribs {
		share.SetUint64(c.difficulty)
		share.Mul(share, bigReward)
		share.Quo(share, bigTotal)

		amount := btcutil.Amount(share.Int64())
		allocated += amount
		records[i] = model.PayoutRecord{
			Participant:           c.participant,
			WindowDifficulty:      total,
			ParticipantDifficulty: c.difficulty,
			Amount:                amount,
		}
		if c.difficulty > contribs[largest].difficulty {
			largest = i
		}
	}
	records[largest].Amount += reward - allocated

	return records, nil
}

// Scores normalises window contributions to weights summing to
// math.MaxUint16, using largest-remainder rounding.
func Scores(window model.Window) []model.Score {
	contribs, total := contributions(window)
	if len(contribs) == 0 || total == 0 {
		return nil
	}

	type rem struct {
		index int
		value *big.Int
	}

	scale := big.NewInt(math.MaxUint16)
	bigTotal := new(big.Int).SetUint64(total)
	scores := make([]model.Score, len(contribs))
	rems := make([]rem, len(contribs))

	var assigned uint64
	for i, c := range contribs {
		num := new(big.Int).SetUint64(c.difficulty)
		num.Mul(num, scale)
		q, r := new(big.Int).QuoRem(num, bigTotal, new(big.Int))
		scores[i] = model.Score{Participant: c.participant, Weight: uint16(q.Uint64())}
		rems[i] = rem{index: i, value: r}
		assigned += q.Uint64()
	}

	sort.SliceStable(rems, func(i, j int) bool {
		return rems[i].value.Cmp(rems[j].value) > 0
	})
	for k := uint64(0); k < math.MaxUint16-assigned; k++ {
		scores[rems[k].index].Weight++
	}
	return scores
}
