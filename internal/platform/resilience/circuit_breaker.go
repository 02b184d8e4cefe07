package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

type BreakerOption func(*CircuitBreaker)

// WithFailurePredicate limits which errors count against the breaker. By
// default every non-nil error does.
func WithFailurePredicate(fn func(error) bool) BreakerOption {
	return func(b *CircuitBreaker) { b.isFailure = fn }
}

// WithStateListener is called on every transition while the breaker is
// locked. fn must not call back into the breaker.
func WithStateListener(fn func(from, to CircuitState)) BreakerOption {
	return func(b *CircuitBreaker) { b.onChange = fn }
}

func withClock(now func() time.Time) BreakerOption {
	return func(b *CircuitBreaker) { b.now = now }
}

// CircuitBreaker opens after FailureThreshold consecutive failures, rejects
// calls for OpenTimeout, then admits HalfOpenMaxReq probes. Probes that all
// succeed close it again; any failed probe reopens it.
//
// Each admitted call holds a ticket stamped with the breaker generation.
// Outcomes reported against an older generation are dropped, so a slow call
// started before a transition cannot flip the new state.
type CircuitBreaker struct {
	cfg       CircuitBreakerConfig
	isFailure func(error) bool
	onChange  func(from, to CircuitState)
	now       func() time.Time

	mu         sync.Mutex
	state      CircuitState
	generation uint64
	failures   int
	openUntil  time.Time
	probes     int
	probeOK    int
}

// NewCircuitBreaker returns nil when cfg is disabled. A nil breaker admits
// every call.
func NewCircuitBreaker(cfg CircuitBreakerConfig, opts ...BreakerOption) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	b := &CircuitBreaker{
		cfg:   NormalizeCircuitBreakerConfig(cfg),
		now:   time.Now,
		state: CircuitStateClosed,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Acquire admits one call or returns ErrCircuitOpen. The returned done must
// be called exactly once with the call's outcome.
func (b *CircuitBreaker) Acquire() (done func(error), err error) {
	if b == nil {
		return func(error) {}, nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance(b.now())
	switch b.state {
	case CircuitStateOpen:
		return nil, ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.probes >= b.cfg.HalfOpenMaxReq {
			return nil, ErrCircuitOpen
		}
		b.probes++
	}

	gen := b.generation
	var once sync.Once
	return func(callErr error) {
		once.Do(func() { b.report(gen, callErr) })
	}, nil
}

// State reports the current state, moving an expired open breaker to half
// open first.
func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance(b.now())
	return b.state
}

func (b *CircuitBreaker) report(gen uint64, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if gen != b.generation {
		return
	}
	failed := err != nil && (b.isFailure == nil || b.isFailure(err))

	switch b.state {
	case CircuitStateClosed:
		if !failed {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.setState(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		if failed {
			b.setState(CircuitStateOpen)
			return
		}
		b.probeOK++
		if b.probeOK >= b.cfg.HalfOpenMaxReq {
			b.setState(CircuitStateClosed)
		}
	}
}

func (b *CircuitBreaker) advance(now time.Time) {
	if b.state == CircuitStateOpen && !now.Before(b.openUntil) {
		b.setState(CircuitStateHalfOpen)
	}
}

func (b *CircuitBreaker) setState(to CircuitState) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.generation++
	b.failures = 0
	b.probes = 0
	b.probeOK = 0
	b.openUntil = time.Time{}
	if to == CircuitStateOpen {
		b.openUntil = b.now().Add(b.cfg.OpenTimeout)
	}
	if b.onChange != nil {
		b.onChange(from, to)
	}
}
