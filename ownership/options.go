package ownership

import (
	"log/slog"
	"time"

	"github.com/facebookgo/clock"
)

const (
	// DefaultWindow is how long an issued challenge stays valid.
	DefaultWindow = 5 * time.Minute
	// DefaultDomainTag namespaces challenges of the star registry.
	DefaultDomainTag = "starRegistry"
)

type gateConfig struct {
	window    time.Duration
	domainTag string
	clock     clock.Clock
	logger    *slog.Logger
}

// GateOption configures a Gate.
type GateOption func(gateConfig) gateConfig

// WithWindow sets the challenge validity window. Windows shorter than a
// second are ignored.
func WithWindow(d time.Duration) GateOption {
	return func(c gateConfig) gateConfig {
		if d >= time.Second {
			c.window = d
		}
		return c
	}
}

// WithDomainTag sets the tag appended to every challenge.
func WithDomainTag(tag string) GateOption {
	return func(c gateConfig) gateConfig {
		if tag != "" {
			c.domainTag = tag
		}
		return c
	}
}

// WithClock sets the clock used to stamp and age challenges.
func WithClock(clk clock.Clock) GateOption {
	return func(c gateConfig) gateConfig {
		if clk != nil {
			c.clock = clk
		}
		return c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) GateOption {
	return func(c gateConfig) gateConfig {
		if l != nil {
			c.logger = l
		}
		return c
	}
}
