// Package retry classifies collaborator errors and runs bounded
// exponential backoff over retryable ones.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrExhausted is wrapped into the error returned once attempts run out.
var ErrExhausted = errors.New("retry attempts exhausted")

// Class tells the backoff loop whether an error may succeed on retry.
type Class int

const (
	ClassRetryable Class = iota
	ClassFatal
)

func (c Class) String() string {
	if c == ClassFatal {
		return "fatal"
	}
	return "retryable"
}

// Error is a classified collaborator failure.
type Error struct {
	Op    string
	Class Class
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Class, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable marks err as worth retrying.
func Retryable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Class: ClassRetryable, Err: err}
}

// Fatal marks err as permanent.
func Fatal(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Class: ClassFatal, Err: err}
}

// IsFatal reports whether err must not be retried. Context errors are
// fatal, unclassified errors are not.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		var classified *Error
		if errors.As(err, &classified) && classified.Class == ClassRetryable {
			return false
		}
		return true
	}
	var classified *Error
	return errors.As(err, &classified) && classified.Class == ClassFatal
}

// Policy bounds the backoff loop.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxAttempts     uint64
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		MaxAttempts:     5,
	}
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.MaxElapsedTime = 0
	b.Reset()

	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, attempts-1), ctx)
}

// Do runs op until it succeeds, fails fatally, the context ends or the
// policy runs out of attempts. notify is called before every wait.
func Do(ctx context.Context, p Policy, op func(context.Context) error, notify func(err error, wait time.Duration)) error {
	err := backoff.RetryNotify(func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if IsFatal(err) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}, p.backOff(ctx), notify)
	if err == nil {
		return nil
	}
	if IsFatal(err) || ctx.Err() != nil {
		return err
	}
	return fmt.Errorf("%w: %w", ErrExhausted, err)
}
