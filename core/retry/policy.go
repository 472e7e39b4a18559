// Package retry runs an operation under a bounded retry-with-timeout policy.
//
// Only timeouts are retried. Any other outcome of an attempt, success or
// failure, ends the loop and is returned to the caller unchanged.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrTimeout marks an attempt that exceeded its deadline.
	ErrTimeout = errors.New("attempt timed out")
	// ErrExhausted is matched by the error returned after the last attempt timed out.
	ErrExhausted = errors.New("retries exhausted")
)

// ExhaustedError is returned when every permitted attempt timed out.
type ExhaustedError struct {
	Operation string
	Retries   int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("maximum number of retries %d failed in %s", e.Retries, e.Operation)
}

// Is lets errors.Is(err, ErrExhausted) match.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// Policy is immutable after construction.
type Policy struct {
	Retries int           // retries after the first attempt
	Timeout time.Duration // per attempt; 0 means unbounded
}

// NewPolicy builds a policy; negative values are clamped to zero.
func NewPolicy(retries int, timeout time.Duration) Policy {
	if retries < 0 {
		retries = 0
	}
	if timeout < 0 {
		timeout = 0
	}
	return Policy{Retries: retries, Timeout: timeout}
}

// Attempts returns the maximum number of attempts.
func (p Policy) Attempts() int {
	return p.Retries + 1
}

// Do runs fn until it returns without timing out, or until every attempt
// has timed out. name identifies the operation in logs and errors.
func (p Policy) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	for n := 1; n <= p.Attempts(); n++ {
		err := p.attempt(ctx, fn)
		if !isTimeout(err) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", name, ctxErr)
		}
		slog.Warn("Timeout expired, retrying",
			"operation", name,
			"attempt", n,
			"max_attempts", p.Attempts(),
			"timeout", p.Timeout)
	}
	return &ExhaustedError{Operation: name, Retries: p.Retries}
}

func (p Policy) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.Timeout <= 0 {
		return fn(ctx)
	}
	actx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	err := fn(actx)
	if err != nil && errors.Is(actx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

func isTimeout(err error) bool {
	return err != nil && errors.Is(err, ErrTimeout)
}
