package cluster

import (
	"time"

	"github.com/10gen/mongo-go-async/server"
)

func newConfig(opts ...Option) *config {
	cfg := &config{
		serverFactory:          server.New,
		serverSelectionTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Option configures a cluster.
type Option func(*config)

type config struct {
	serverFactory          func(*server.Desc, ...server.Option) server.Server
	serverOpts             []server.Option
	serverSelectionTimeout time.Duration
}

// ServerFactory sets the factory used to create servers for selected
// descriptions.
func ServerFactory(factory func(*server.Desc, ...server.Option) server.Server) Option {
	return func(c *config) {
		c.serverFactory = factory
	}
}

// ServerOptions sets the options passed to the server factory.
func ServerOptions(opts ...server.Option) Option {
	return func(c *config) {
		c.serverOpts = opts
	}
}

// ServerSelectionTimeout sets how long to wait for an eligible server to
// appear in the cluster view before selection fails.
func ServerSelectionTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.serverSelectionTimeout = timeout
	}
}
