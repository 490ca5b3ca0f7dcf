package flowgraph

import (
	"io"
	"log/slog"
)

// Config holds the construction-time knobs a Graph or ProcessorContainer
// accepts. It stands in for the original library's compile-time
// configuration macros (STATIC_ASSERTS, PERFECT_FORWARDING, LITE): Go has
// no user-facing compile-time configuration surface equivalent to those, so
// each becomes either a load-bearing Go language feature or a runtime
// option, per DESIGN.md.
type Config struct {
	logger *slog.Logger

	// Lite makes ResolveTopic preallocate each new Topic[T]'s new_values
	// with capacity 1 instead of starting from a nil slice; detector
	// subscription lists are not affected. It mirrors
	// the original LITE build option's intent without disabling dynamic
	// memory entirely, since Go has no allocation-free growable container.
	Lite bool
}

func defaultConfig() Config {
	return Config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures a Graph at construction.
type Option func(*Config)

// WithLogger sets the *slog.Logger a Graph uses for its own diagnostic
// output (detector registration, traversal visits). The
// default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLite enables the reduced-footprint behavior described on Config.Lite.
func WithLite() Option {
	return func(c *Config) {
		c.Lite = true
	}
}
