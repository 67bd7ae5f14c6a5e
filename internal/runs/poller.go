// Package runs polls remote asynchronous runs until they reach a terminal
// state. The poller owns only the loop, the timing and the status
// classification; fetching is a capability injected by the caller, and the
// poller neither logs nor persists anything.
package runs

import (
	"context"
	"fmt"
	"time"
)

// Handle identifies one remote asynchronous run. Immutable; discard after
// polling terminates.
type Handle struct {
	ThreadID string
	RunID    string
}

// Result is the single result item fetched after a successful run.
type Result struct {
	MessageID string
	Content   string
}

func (r Result) Empty() bool { return r.MessageID == "" && r.Content == "" }

// Client is the capability the poller consumes. FetchStatus must fail loudly
// on transport problems rather than return a stale status. FetchResult is
// invoked only after a success classification.
type Client interface {
	FetchStatus(ctx context.Context, h Handle) (Status, error)
	FetchResult(ctx context.Context, h Handle) (Result, error)
}

// OutcomeKind enumerates the poller's possible returns.
type OutcomeKind string

const (
	OutcomeSuccess        OutcomeKind = "success"
	OutcomeFailure        OutcomeKind = "failure"
	OutcomeActionRequired OutcomeKind = "action_required"
	OutcomeTimeout        OutcomeKind = "timeout"
	OutcomeCancelled      OutcomeKind = "cancelled"
)

// Outcome is the single value a poll returns. Result is set for success,
// Reason for failure, RawStatus for any outcome observed from a fetch.
// Attempts is the number of status fetches consumed.
type Outcome struct {
	Kind      OutcomeKind
	Result    Result
	Reason    string
	RawStatus Status
	Attempts  int
}

// TransportError wraps a network/serialization failure from the client. It is
// never retried by the poller; the caller decides whether to retry at a
// higher level.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

const (
	DefaultMaxAttempts = 30
	DefaultDelay       = time.Second
)

// Poller repeatedly queries a run's status until a terminal condition or the
// attempt budget is reached. It holds no per-poll mutable state, so one
// Poller may serve many handles concurrently.
type Poller struct {
	client      Client
	maxAttempts int
	delay       time.Duration
}

type Option func(*Poller)

// WithMaxAttempts caps the number of status fetches. Values below one are
// ignored; the budget is a hard cap and never "retry forever".
func WithMaxAttempts(n int) Option {
	return func(p *Poller) {
		if n > 0 {
			p.maxAttempts = n
		}
	}
}

// WithDelay sets the fixed pause between attempts. No backoff, no jitter.
func WithDelay(d time.Duration) Option {
	return func(p *Poller) {
		if d >= 0 {
			p.delay = d
		}
	}
}

func NewPoller(client Client, opts ...Option) *Poller {
	p := &Poller{client: client, maxAttempts: DefaultMaxAttempts, delay: DefaultDelay}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Poll drives one run to a single Outcome. A non-nil error is always a
// *TransportError; every other path returns a distinguishable Outcome:
//
//	success          result payload fetched after "completed"
//	failure          remote terminal failure, empty result, or unknown status
//	action_required  run paused on a capability the poller does not resolve
//	timeout          attempt budget exhausted while still pending
//	cancelled        caller context cancelled between attempts
//
// Fetches are strictly sequential; after a terminal classification no further
// fetch is issued.
func (p *Poller) Poll(ctx context.Context, h Handle) (Outcome, error) {
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return Outcome{Kind: OutcomeCancelled, Attempts: attempt}, nil
		}

		status, err := p.client.FetchStatus(ctx, h)
		if err != nil {
			return Outcome{}, &TransportError{Op: "fetch status", Err: err}
		}

		switch Classify(status) {
		case ClassSucceeded:
			res, err := p.client.FetchResult(ctx, h)
			if err != nil {
				return Outcome{}, &TransportError{Op: "fetch result", Err: err}
			}
			if res.Empty() {
				return Outcome{Kind: OutcomeFailure, Reason: "empty result", RawStatus: status, Attempts: attempt + 1}, nil
			}
			return Outcome{Kind: OutcomeSuccess, Result: res, RawStatus: status, Attempts: attempt + 1}, nil
		case ClassFailed:
			return Outcome{Kind: OutcomeFailure, Reason: string(status), RawStatus: status, Attempts: attempt + 1}, nil
		case ClassActionRequired:
			return Outcome{Kind: OutcomeActionRequired, RawStatus: status, Attempts: attempt + 1}, nil
		case ClassUnknown:
			return Outcome{
				Kind:      OutcomeFailure,
				Reason:    fmt.Sprintf("unrecognized status %q", string(status)),
				RawStatus: status,
				Attempts:  attempt + 1,
			}, nil
		}

		// Pending: wait out the fixed delay unless this was the last attempt.
		if attempt+1 < p.maxAttempts {
			if !sleep(ctx, p.delay) {
				return Outcome{Kind: OutcomeCancelled, Attempts: attempt + 1}, nil
			}
		}
	}
	return Outcome{Kind: OutcomeTimeout, Attempts: p.maxAttempts}, nil
}

// sleep blocks for d or until ctx is done; reports false on cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
