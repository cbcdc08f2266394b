package gates

import (
	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
)

type config struct {
	log zerolog.Logger
}

// Option configures gadget construction.
type Option func(*config)

// WithLogger overrides the logger tracing gadget construction. By default the
// gnark global logger is used.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

func newConfig(opts ...Option) config {
	cfg := config{log: logger.Logger()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
