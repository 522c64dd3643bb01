// Package retry runs a task with a per-attempt timeout and linear backoff.
//
// # Overview
//
// Do runs the task up to len(Policy.Timeouts) times. Each attempt runs in its
// own goroutine and races clock.After(timeout); the first to settle wins and a
// late result is dropped. Between failed attempts Do waits k * BaseBackoff,
// where k is the 1-based number of the attempt that just failed, and calls
// notify so a caller can show "Retrying... (k/N)".
//
// # Failure Semantics
//
// A timeout or a returned error counts as a failed attempt. When every
// attempt fails Do returns one
// *ExhaustedError wrapping the last error, so callers see a single outcome
// per sequence:
//
//	resp, err := retry.Do(ctx, policy, clock.Real, "fetch state", client.FetchState, nil)
//	if errors.Is(err, retry.ErrExhausted) {
//		// all attempts failed
//	}
//
// Cancelling ctx aborts the sequence, including a pending backoff, and
// returns ctx.Err().
//
// # Testing
//
// Timeouts and backoff sleeps go through the injected clock.Clock, so tests
// drive them with clock.Fake instead of waiting in real time.
package retry
