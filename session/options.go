package session

import (
	"github.com/sirupsen/logrus"
)

func newConfig(opts ...Option) *config {
	cfg := &config{
		logger: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Option configures a session.
type Option func(*config)

type config struct {
	logger *logrus.Logger
}

// Logger sets the logger used for best-effort cleanup failures.
func Logger(logger *logrus.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
