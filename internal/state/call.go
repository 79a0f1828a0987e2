package state

import (
	"context"
	"errors"
)

// Call performs the I/O half of a store operation. The operation has
// already applied its loading transition by the time a Call is returned,
// so callers may run the Call on any goroutine without observers ever
// seeing an in-flight request without a loading state.
type Call[T any] func() T

func resolved[T any](v T) Call[T] {
	return func() T { return v }
}

// Outcome is the result of a cancellation-aware fetch.
type Outcome int

const (
	// Done means the response was applied to the store.
	Done Outcome = iota
	// Failed means the store moved to an error (or not-found) status.
	Failed
	// Cancelled means the request was superseded, dropped or cancelled
	// and the store was left as if it had never started.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "done"
	}
}

// tracker hands out request generations. Starting a request cancels the
// previous one; only the newest generation may apply its result. Callers
// hold the owning store's lock.
type tracker struct {
	gen    uint64
	cancel context.CancelFunc
}

func (t *tracker) start(parent context.Context) (context.Context, uint64) {
	t.stop()
	ctx, cancel := context.WithCancel(parent)
	t.cancel = cancel
	return ctx, t.gen
}

func (t *tracker) current(gen uint64) bool {
	return gen == t.gen
}

// stop cancels the in-flight request, if any, and invalidates it.
func (t *tracker) stop() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.gen++
}

func (t *tracker) finish() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// slot is the status/error pair of one fetch plus its request tracker.
type slot struct {
	status RequestStatus
	err    string
	prev   RequestStatus
	req    tracker
}

func (s *slot) begin(parent context.Context) (context.Context, uint64) {
	ctx, gen := s.req.start(parent)
	if s.status != StatusLoading {
		s.prev = s.status
	}
	s.status = StatusLoading
	s.err = ""
	return ctx, gen
}

// settle classifies the result of request gen. Superseded requests are
// Cancelled without touching the slot; a request cancelled through its
// own context restores the status it found.
func (s *slot) settle(gen uint64, err error) Outcome {
	if !s.req.current(gen) {
		return Cancelled
	}
	s.req.finish()
	switch {
	case err == nil:
		s.status = StatusSuccess
		s.err = ""
		return Done
	case errors.Is(err, context.Canceled):
		s.status = s.prev
		return Cancelled
	default:
		return Failed
	}
}

func (s *slot) fail(status RequestStatus, msg string) {
	s.status = status
	s.err = msg
}

func (s *slot) reset() {
	s.req.stop()
	s.status = StatusIdle
	s.prev = StatusIdle
	s.err = ""
}
