// Package observability starts the optional telemetry side channels of a
// process: Uptrace tracing, Pyroscope profiling and a pprof listener.
package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/sports-data-service/internal/config"
	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
)

type stopFunc func(context.Context) error

// Stack holds whatever Start enabled. Shutdown stops them in reverse order.
type Stack struct {
	logger *logging.Logger
	names  []string
	stops  []stopFunc
}

func Start(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger}

	starters := []struct {
		name  string
		start func(config.Config, *logging.Logger) (stopFunc, error)
	}{
		{"uptrace", startTracing},
		{"pyroscope", startProfiling},
		{"pprof", startPprof},
	}
	for _, st := range starters {
		stop, err := st.start(cfg, logger)
		if err != nil {
			_ = s.Shutdown(context.Background())
			return nil, fmt.Errorf("start %s: %w", st.name, err)
		}
		if stop != nil {
			s.names = append(s.names, st.name)
			s.stops = append(s.stops, stop)
		}
	}
	return s, nil
}

// Enabled lists the started components in start order.
func (s *Stack) Enabled() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.stops) - 1; i >= 0; i-- {
		if err := s.stops[i](ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", s.names[i], err))
		}
	}
	s.names, s.stops = nil, nil
	return errors.Join(errs...)
}
