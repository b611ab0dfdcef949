package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/tideshash-backend/internal/model"
)

var errInvalidRequest = errors.New("invalid request")

// shareRequestDTO is a submitted share. Sequences are assigned by the
// ledger, never by callers.
type shareRequestDTO struct {
	AuthorityID string    `json:"authority_id"`
	Participant string    `json:"participant"`
	Difficulty  uint64    `json:"difficulty"`
	Timestamp   time.Time `json:"timestamp"`
}

func (d shareRequestDTO) toModel(now time.Time) model.Share {
	ts := d.Timestamp
	if ts.IsZero() {
		ts = now
	}
	return model.Share{
		AuthorityID: d.AuthorityID,
		Participant: d.Participant,
		Difficulty:  d.Difficulty,
		Timestamp:   ts.UTC(),
	}
}

type shareDTO struct {
	Sequence    uint64    `json:"sequence"`
	AuthorityID string    `json:"authority_id"`
	Participant string    `json:"participant"`
	Difficulty  uint64    `json:"difficulty"`
	Timestamp   time.Time `json:"timestamp"`
}

func newShareDTO(s model.Share) shareDTO {
	return shareDTO{
		Sequence:    s.Sequence,
		AuthorityID: s.AuthorityID,
		Participant: s.Participant,
		Difficulty:  s.Difficulty,
		Timestamp:   s.Timestamp,
	}
}

type blockDTO struct {
	Sequence uint64    `json:"sequence,omitempty"`
	Height   uint64    `json:"height"`
	Hash     string    `json:"hash"`
	Reward   int64     `json:"reward"`
	FoundAt  time.Time `json:"found_at"`
}

func (d blockDTO) toModel(now time.Time) (model.BlockEvent, error) {
	block := model.BlockEvent{
		Sequence: d.Sequence,
		Height:   d.Height,
		Reward:   btcutil.Amount(d.Reward),
		FoundAt:  d.FoundAt,
	}
	if block.FoundAt.IsZero() {
		block.FoundAt = now
	}
	if d.Hash != "" {
		hash, err := chainhash.NewHashFromStr(d.Hash)
		if err != nil {
			return model.BlockEvent{}, fmt.Errorf("%w: block hash: %w", errInvalidRequest, err)
		}
		block.Hash = *hash
	}
	return block, nil
}

type payoutRecordDTO struct {
	Participant           string `json:"participant"`
	WindowDifficulty      uint64 `json:"window_difficulty"`
	ParticipantDifficulty uint64 `json:"participant_difficulty"`
	Amount                int64  `json:"amount"`
}

type payoutDTO struct {
	BlockHash  string            `json:"block_hash"`
	Height     uint64            `json:"height"`
	Sequence   uint64            `json:"sequence"`
	Reward     int64             `json:"reward"`
	Carried    int64             `json:"carried"`
	ComputedAt time.Time         `json:"computed_at"`
	Records    []payoutRecordDTO `json:"records"`
}

func newPayoutDTO(p model.Payout) payoutDTO {
	records := make([]payoutRecordDTO, len(p.Records))
	for i, r := range p.Records {
		records[i] = payoutRecordDTO{
			Participant:           r.Participant,
			WindowDifficulty:      r.WindowDifficulty,
			ParticipantDifficulty: r.ParticipantDifficulty,
			Amount:                int64(r.Amount),
		}
	}
	return payoutDTO{
		BlockHash:  p.Block.Hash.String(),
		Height:     p.Block.Height,
		Sequence:   p.Block.Sequence,
		Reward:     int64(p.Reward),
		Carried:    int64(p.Carried),
		ComputedAt: p.ComputedAt,
		Records:    records,
	}
}

type windowDTO struct {
	Target        uint64            `json:"target"`
	Difficulty    uint64            `json:"difficulty"`
	Shares        int               `json:"shares"`
	FirstSequence uint64            `json:"first_sequence"`
	LastSequence  uint64            `json:"last_sequence"`
	Contributions map[string]uint64 `json:"contributions"`
}

func newWindowDTO(w model.Window) windowDTO {
	return windowDTO{
		Target:        w.Target,
		Difficulty:    w.Difficulty,
		Shares:        len(w.Shares),
		FirstSequence: w.FirstSequence(),
		LastSequence:  w.LastSequence(),
		Contributions: w.Contributions(),
	}
}

type scoreDTO struct {
	Participant string `json:"participant"`
	Weight      uint16 `json:"weight"`
}

type scoresDTO struct {
	Scores []scoreDTO `json:"scores"`
}

func newScoresDTO(scores []model.Score) scoresDTO {
	out := scoresDTO{Scores: make([]scoreDTO, len(scores))}
	for i, s := range scores {
		out.Scores[i] = scoreDTO{Participant: s.Participant, Weight: s.Weight}
	}
	return out
}
