package resilience

import (
	"fmt"
	"time"
)

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxReq:   1,
	}
}

func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}

// Validate rejects values Normalize would silently replace. prefix is the
// environment key prefix used in the message.
func (c CircuitBreakerConfig) Validate(prefix string) error {
	if !c.Enabled {
		return nil
	}
	if c.FailureThreshold < 1 {
		return fmt.Errorf("%s_FAILURE_THRESHOLD must be > 0", prefix)
	}
	if c.OpenTimeout <= 0 {
		return fmt.Errorf("%s_OPEN_TIMEOUT must be > 0", prefix)
	}
	if c.HalfOpenMaxReq < 1 {
		return fmt.Errorf("%s_HALF_OPEN_MAX_REQ must be > 0", prefix)
	}
	return nil
}

type RetryPolicy struct {
	MaxRetries int
	// Step is multiplied by the attempt number to get the pause before the
	// next attempt.
	Step time.Duration
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	step := p.Step
	if step <= 0 {
		step = time.Second
	}
	return time.Duration(attempt+1) * step
}
