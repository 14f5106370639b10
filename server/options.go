package server

import (
	"github.com/10gen/mongo-go-async/conn"
)

func newConfig(opts ...Option) *config {
	cfg := &config{
		connDialer: conn.Dial,
		maxConns:   100,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Option configures a server.
type Option func(*config)

type config struct {
	connDialer conn.Dialer
	connOpts   []conn.Option
	maxConns   uint16
}

// ConnDialer sets the dialer used to create connections.
func ConnDialer(dialer conn.Dialer) Option {
	return func(c *config) {
		c.connDialer = dialer
	}
}

// ConnOptions sets the options the dialer is invoked with.
func ConnOptions(opts ...conn.Option) Option {
	return func(c *config) {
		c.connOpts = opts
	}
}

// MaxConns sets the maximum number of connections the server's pool will
// hand out concurrently.
func MaxConns(n uint16) Option {
	return func(c *config) {
		c.maxConns = n
	}
}
