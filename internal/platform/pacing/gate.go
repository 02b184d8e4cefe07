// Package pacing spaces out successive external calls inside one sweep.
package pacing

import "time"

// Gate holds the caller for a fixed interval between successive units of
// work. Wait blocks the calling goroutine and cannot be cancelled; callers
// check their context between iterations instead.
type Gate struct {
	interval time.Duration
	sleep    func(time.Duration)
}

type Option func(*Gate)

// WithSleep replaces time.Sleep.
func WithSleep(sleep func(time.Duration)) Option {
	return func(g *Gate) {
		if sleep != nil {
			g.sleep = sleep
		}
	}
}

// NewGate returns a gate that pauses for interval on every Wait. A
// non-positive interval disables pacing.
func NewGate(interval time.Duration, opts ...Option) *Gate {
	g := &Gate{interval: interval, sleep: time.Sleep}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Wait pauses for the full interval regardless of how long the previous
// unit of work took, and returns the pause applied.
func (g *Gate) Wait() time.Duration {
	if g == nil || g.interval <= 0 {
		return 0
	}
	g.sleep(g.interval)
	return g.interval
}
