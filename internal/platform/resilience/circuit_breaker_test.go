package resilience

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestBreaker(t *testing.T, threshold, probes int, opts ...BreakerOption) (*CircuitBreaker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 8, 17, 2, 0, 0, 0, time.UTC)}
	opts = append(opts, withClock(clock.Now))
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxReq:   probes,
	}, opts...)
	return b, clock
}

func call(t *testing.T, b *CircuitBreaker, outcome error) error {
	t.Helper()
	done, err := b.Acquire()
	if err != nil {
		return err
	}
	done(outcome)
	return nil
}

func TestCircuitBreaker_OpensAndRecovers(t *testing.T) {
	var seen []CircuitState
	b, clock := newTestBreaker(t, 2, 1, WithStateListener(func(_, to CircuitState) { seen = append(seen, to) }))
	upstream := errors.New("upstream 502")

	_ = call(t, b, upstream)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}
	_ = call(t, b, upstream)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := call(t, b, nil); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	clock.Advance(31 * time.Second)
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half open after timeout, got %s", state)
	}
	if err := call(t, b, nil); err != nil {
		t.Fatalf("expected probe to be admitted, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []CircuitState{CircuitStateOpen, CircuitStateHalfOpen, CircuitStateClosed}
	if len(seen) != len(want) {
		t.Fatalf("unexpected transitions: %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transition %d: got %s want %s", i, seen[i], want[i])
		}
	}
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	b, clock := newTestBreaker(t, 1, 1)
	_ = call(t, b, errors.New("timeout"))
	clock.Advance(time.Minute)

	done, err := b.Acquire()
	if err != nil {
		t.Fatalf("expected first probe admitted, got %v", err)
	}
	if _, err := b.Acquire(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe rejected, got %v", err)
	}

	done(errors.New("still down"))
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("failed probe must reopen, got %s", state)
	}
}

func TestCircuitBreaker_DropsStaleOutcomes(t *testing.T) {
	b, clock := newTestBreaker(t, 1, 1)

	slow, err := b.Acquire()
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	_ = call(t, b, errors.New("fast failure"))
	clock.Advance(time.Minute)
	_ = call(t, b, nil)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed, got %s", state)
	}

	slow(errors.New("late failure from previous generation"))
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("stale outcome changed state to %s", state)
	}
}

func TestCircuitBreaker_FailurePredicate(t *testing.T) {
	notFound := errors.New("404")
	b, _ := newTestBreaker(t, 1, 1, WithFailurePredicate(func(err error) bool { return !errors.Is(err, notFound) }))

	_ = call(t, b, notFound)
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed, got %s", state)
	}
	_ = call(t, b, errors.New("503"))
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open, got %s", state)
	}
}

func TestCircuitBreaker_DisabledIsNil(t *testing.T) {
	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false})
	if b != nil {
		t.Fatalf("expected nil breaker when disabled")
	}
	done, err := b.Acquire()
	if err != nil {
		t.Fatalf("nil breaker must admit, got %v", err)
	}
	done(errors.New("ignored"))
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("nil breaker state = %s", state)
	}
}
