package ops

import (
	"github.com/sirupsen/logrus"
)

func newCursorConfig(opts ...CursorOption) *cursorConfig {
	cfg := &cursorConfig{
		logger: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// CursorOption configures an AsyncQueryCursor.
type CursorOption func(*cursorConfig)

type cursorConfig struct {
	logger *logrus.Logger
}

// CursorLogger sets the logger used for best-effort cleanup failures.
func CursorLogger(logger *logrus.Logger) CursorOption {
	return func(c *cursorConfig) {
		c.logger = logger
	}
}
