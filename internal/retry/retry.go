package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/thermo/internal/clock"
	"github.com/five82/thermo/internal/logging"
)

// Default policy values.
var (
	DefaultTimeouts    = []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}
	DefaultBaseBackoff = 500 * time.Millisecond
)

var (
	// ErrExhausted is matched by the error returned once every attempt failed.
	ErrExhausted = errors.New("retries exhausted")

	// ErrAttemptTimeout marks an attempt abandoned because its timeout
	// elapsed first.
	ErrAttemptTimeout = errors.New("attempt timed out")
)

type (
	// Task is the work to retry. The context is cancelled when the attempt
	// is abandoned.
	Task[T any] func(context.Context) (T, error)

	// Policy describes how many attempts to make and how long each may take.
	Policy struct {
		// Timeouts holds one entry per attempt. Its length is the attempt
		// count.
		Timeouts []time.Duration

		// BaseBackoff is multiplied by the number of the failed attempt to
		// get the wait before the next one. Zero disables waiting.
		BaseBackoff time.Duration

		// Logger receives attempt diagnostics. Nil is allowed.
		Logger *slog.Logger
	}

	// Attempt describes a failed attempt that is about to be retried.
	Attempt struct {
		Index   int
		Total   int
		Timeout time.Duration
		Backoff time.Duration
	}

	// ExhaustedError is returned once every attempt failed. It wraps the
	// last attempt's error.
	ExhaustedError struct {
		Name     string
		Attempts int
		Last     error
	}
)

// DefaultPolicy returns the 2s/4s/8s policy with 500ms linear backoff.
func DefaultPolicy() Policy {
	return Policy{
		Timeouts:    append([]time.Duration(nil), DefaultTimeouts...),
		BaseBackoff: DefaultBaseBackoff,
	}
}

// Attempts returns the number of attempts the policy allows.
func (p Policy) Attempts() int {
	return len(p.Timeouts)
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: %d attempts failed: %v", e.Name, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrExhausted, e.Last}
}

// Do runs task until it succeeds or the policy runs out of attempts. Each
// attempt races the task against its timeout and the loser's result is
// dropped. notify is called before every backoff wait and may be nil.
func Do[T any](
	ctx context.Context,
	policy Policy,
	clk clock.Clock,
	name string,
	task Task[T],
	notify func(Attempt),
) (T, error) {
	var zero T
	total := policy.Attempts()
	if total == 0 {
		return zero, fmt.Errorf("%s: retry policy has no attempts", name)
	}
	if clk == nil {
		clk = clock.Real
	}
	l := logging.Wrap(policy.Logger).With("task", name)

	var last error
	for i, timeout := range policy.Timeouts {
		index := i + 1
		l.Debug("attempt", "attempt", index, "total", total, "timeout", timeout)

		val, err := attempt(ctx, clk, timeout, task)
		if err == nil {
			if index > 1 {
				l.Info("retry succeeded", "attempt", index)
			}
			return val, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		last = err
		l.Warn("attempt failed", "attempt", index, "total", total, "err", err)
		if index == total {
			break
		}

		backoff := time.Duration(index) * policy.BaseBackoff
		if notify != nil {
			notify(Attempt{Index: index, Total: total, Timeout: timeout, Backoff: backoff})
		}
		if backoff <= 0 {
			continue
		}
		select {
		case <-clk.After(backoff):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	l.Error("retries exhausted", "attempts", total, "err", last)
	return zero, &ExhaustedError{Name: name, Attempts: total, Last: last}
}

type result[T any] struct {
	val T
	err error
}

func attempt[T any](
	ctx context.Context,
	clk clock.Clock,
	timeout time.Duration,
	task Task[T],
) (T, error) {
	var zero T
	actx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		val, err := task(actx)
		done <- result[T]{val, err}
	}()

	var expired <-chan time.Time
	if timeout > 0 {
		expired = clk.After(timeout)
	}

	select {
	case r := <-done:
		return r.val, r.err
	case <-expired:
		return zero, fmt.Errorf("%w after %s", ErrAttemptTimeout, timeout)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
