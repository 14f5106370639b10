package server

import (
	"context"

	"github.com/10gen/mongo-go-async/conn"
)

// Server provides connections to a single server.
type Server interface {
	// Connection gets a connection to use.
	Connection(context.Context) (conn.Connection, error)
	// Desc gets the description of the server.
	Desc() *Desc
	// Close closes the server and its resources.
	Close()
}

// New creates a new Server backed by a connection pool.
func New(desc *Desc, opts ...Option) Server {
	cfg := newConfig(opts...)

	dialer := cfg.connDialer
	connOpts := cfg.connOpts
	pool := conn.NewPool(cfg.maxConns, func(ctx context.Context) (conn.Connection, error) {
		return dialer(desc.Endpoint, connOpts...)
	})

	return &serverImpl{
		desc: desc,
		pool: pool,
	}
}

type serverImpl struct {
	desc *Desc
	pool *conn.Pool
}

func (s *serverImpl) Connection(ctx context.Context) (conn.Connection, error) {
	return s.pool.Get(ctx)
}

func (s *serverImpl) Desc() *Desc {
	return s.desc
}

func (s *serverImpl) Close() {
	s.pool.Close()
}
