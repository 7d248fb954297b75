package ledger

import (
	"log/slog"

	"github.com/facebookgo/clock"
)

type storeConfig struct {
	hasher Hasher
	clock  clock.Clock
	logger *slog.Logger
	strict bool
}

// Option configures a Store.
type Option func(storeConfig) storeConfig

func defaultStoreConfig() storeConfig {
	return storeConfig{
		hasher: SHA256,
		clock:  clock.New(),
		logger: slog.Default(),
	}
}

// WithHasher sets the digest used for link hashes.
func WithHasher(h Hasher) Option {
	return func(c storeConfig) storeConfig {
		if h != nil {
			c.hasher = h
		}
		return c
	}
}

// WithClock sets the clock used to timestamp sealed records.
func WithClock(clk clock.Clock) Option {
	return func(c storeConfig) storeConfig {
		if clk != nil {
			c.clock = clk
		}
		return c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c storeConfig) storeConfig {
		if l != nil {
			c.logger = l
		}
		return c
	}
}

// WithStrictAppend makes Append validate the chain before sealing and
// refuse with ErrChainCorrupted when any violation is present.
func WithStrictAppend() Option {
	return func(c storeConfig) storeConfig {
		c.strict = true
		return c
	}
}
