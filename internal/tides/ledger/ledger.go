// Package ledger keeps the append-only share log and its trailing
// difficulty-bounded window.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/tideshash-backend/internal/model"
	"github.com/goodnatureofminers/tideshash-backend/pkg/safe"
)

const (
	// DefaultMultiplier is the window multiplier K.
	DefaultMultiplier = 8
	// MaxDifficulty bounds both share difficulty and the window target,
	// which keeps every window sum below math.MaxUint64.
	MaxDifficulty = math.MaxUint64 / 3
)

var (
	// ErrOutOfOrder matches every *OutOfOrderError.
	ErrOutOfOrder = errors.New("share out of order")
	// ErrInvalidShare is returned for shares that carry no work.
	ErrInvalidShare = errors.New("invalid share")
	// ErrUnknownSequence is returned when a sequence is not in the log.
	ErrUnknownSequence = errors.New("unknown share sequence")
	// ErrSequenceExhausted is returned once the tail holds the last
	// representable sequence.
	ErrSequenceExhausted = errors.New("share sequence exhausted")
)

// OutOfOrderError reports a share that precedes the log tail.
type OutOfOrderError struct {
	Sequence     uint64
	Timestamp    time.Time
	TailSequence uint64
	TailTime     time.Time
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("share %d at %s precedes tail %d at %s",
		e.Sequence, e.Timestamp.Format(time.RFC3339Nano), e.TailSequence, e.TailTime.Format(time.RFC3339Nano))
}

func (e *OutOfOrderError) Is(target error) bool {
	return target == ErrOutOfOrder
}

type snapshot struct {
	log    []model.Share
	start  int
	sum    uint64
	target uint64
}

// Ledger is a single-writer share log. Readers observe immutable
// snapshots and never block the writer.
type Ledger struct {
	mu         sync.Mutex
	multiplier uint64
	target     uint64
	shares     []model.Share
	start      int
	sum        uint64

	current atomic.Pointer[snapshot]
}

// New builds an empty ledger with window multiplier k.
func New(k uint64) (*Ledger, error) {
	if k == 0 {
		return nil, errors.New("window multiplier must be positive")
	}
	l := &Ledger{multiplier: k}
	l.publish()
	return l, nil
}

// Append adds a share at the tail. A share without a sequence gets the
// next one; a share with a sequence must be past the tail.
func (l *Ledger) Append(share model.Share) (model.Share, error) {
	if share.Difficulty == 0 {
		return model.Share{}, fmt.Errorf("%w: zero difficulty", ErrInvalidShare)
	}
	if share.Difficulty > MaxDifficulty {
		return model.Share{}, fmt.Errorf("%w: difficulty %d above %d", ErrInvalidShare, share.Difficulty, uint64(MaxDifficulty))
	}
	if share.Participant == "" {
		return model.Share{}, fmt.Errorf("%w: empty participant", ErrInvalidShare)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if n := len(l.shares); n > 0 {
		tail := l.shares[n-1]
		if share.Sequence == 0 {
			if tail.Sequence == math.MaxUint64 {
				return model.Share{}, ErrSequenceExhausted
			}
			share.Sequence = tail.Sequence + 1
		}
		if share.Sequence <= tail.Sequence || share.Timestamp.Before(tail.Timestamp) {
			return model.Share{}, &OutOfOrderError{
				Sequence:     share.Sequence,
				Timestamp:    share.Timestamp,
				TailSequence: tail.Sequence,
				TailTime:     tail.Timestamp,
			}
		}
	} else if share.Sequence == 0 {
		share.Sequence = 1
	}

	l.shares = append(l.shares, share)
	l.sum = safe.SaturatingAddUint64(l.sum, share.Difficulty)
	l.slide()
	l.publish()
	return share, nil
}

// OnDifficultyChange updates the window target to difficulty times K,
// capped at MaxDifficulty. A zero difficulty makes the window the whole log.
func (l *Ledger) OnDifficultyChange(networkDifficulty uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if networkDifficulty > MaxDifficulty/l.multiplier {
		l.target = MaxDifficulty
	} else {
		l.target = networkDifficulty * l.multiplier
	}
	l.rebuild()
	l.publish()
}

// rebuild recomputes the window from the tail for the current target.
func (l *Ledger) rebuild() {
	l.start = len(l.shares)
	l.sum = 0
	for l.start > 0 && (l.target == 0 || l.sum < l.target) {
		l.start--
		l.sum = safe.SaturatingAddUint64(l.sum, l.shares[l.start].Difficulty)
	}
}

// slide drops shares from the head of the window while the rest still
// reaches the target. A zero target keeps the whole log. With a positive
// target the sum is exact: it stays below target plus two shares.
func (l *Ledger) slide() {
	if l.target == 0 {
		return
	}
	for l.start < len(l.shares) && l.sum-l.shares[l.start].Difficulty >= l.target {
		l.sum -= l.shares[l.start].Difficulty
		l.start++
	}
}

func (l *Ledger) publish() {
	n := len(l.shares)
	l.current.Store(&snapshot{
		log:    l.shares[:n:n],
		start:  l.start,
		sum:    l.sum,
		target: l.target,
	})
}

// CurrentWindow returns the window at the log tail.
func (l *Ledger) CurrentWindow() model.Window {
	s := l.current.Load()
	return model.Window{
		Shares:     s.log[s.start:],
		Difficulty: s.sum,
		Target:     s.target,
	}
}

// WindowAt returns the window as it stands at the given sequence,
// measured against the current target.
func (l *Ledger) WindowAt(sequence uint64) (model.Window, error) {
	s := l.current.Load()
	end := sort.Search(len(s.log), func(i int) bool {
		return s.log[i].Sequence >= sequence
	})
	if end == len(s.log) || s.log[end].Sequence != sequence {
		return model.Window{}, fmt.Errorf("%w: %d", ErrUnknownSequence, sequence)
	}

	var sum uint64
	start := end + 1
	for start > 0 && (s.target == 0 || sum < s.target) {
		start--
		sum = safe.SaturatingAddUint64(sum, s.log[start].Difficulty)
	}
	return model.Window{
		Shares:     s.log[start : end+1],
		Difficulty: sum,
		Target:     s.target,
	}, nil
}

// Target returns the current window target.
func (l *Ledger) Target() uint64 {
	return l.current.Load().target
}

// Len returns the number of shares in the log.
func (l *Ledger) Len() int {
	return len(l.current.Load().log)
}

// LastSequence returns the sequence at the tail, or zero when empty.
func (l *Ledger) LastSequence() uint64 {
	s := l.current.Load()
	if len(s.log) == 0 {
		return 0
	}
	return s.log[len(s.log)-1].Sequence
}
