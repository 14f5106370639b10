package session

import (
	"context"
	"sync"

	"github.com/10gen/mongo-go-async/cluster"
	"github.com/10gen/mongo-go-async/conn"
	"github.com/10gen/mongo-go-async/internal"
	"github.com/10gen/mongo-go-async/server"
)

// NewPinnedSession creates a session with pinned connection affinity: the
// first provider performs server selection once and caches a single physical
// connection, and every later provider and acquisition hands out that same
// connection with its usage count incremented. This is the affinity exhaust
// cursors require; it also lets a sequence of operations observe each
// other's side effects on the same server.
func NewPinnedSession(c cluster.Cluster, opts ...Option) Session {
	return &pinnedSession{
		cfg:     newConfig(opts...),
		cluster: c,
	}
}

type pinnedSession struct {
	cfg     *config
	cluster cluster.Cluster

	lock   sync.Mutex
	closed bool
	server server.Server
	conn   *conn.TrackedConnection
}

func (s *pinnedSession) CreateServerConnectionProvider(ctx context.Context, opts *ServerConnectionProviderOptions) (ServerConnectionProvider, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	if s.server == nil {
		selected, err := s.cluster.SelectServer(ctx, opts.Selector)
		if err != nil {
			return nil, internal.WrapError(err, "failed creating a connection provider")
		}

		c, err := selected.Connection(ctx)
		if err != nil {
			return nil, internal.WrapError(err, "failed acquiring the session's pinned connection")
		}

		s.server = selected
		s.conn = conn.Tracked(c)
	}

	return &serverConnectionProvider{
		desc:   s.server.Desc(),
		pinned: true,
		get:    s.pinnedConnection,
	}, nil
}

// pinnedConnection hands out the session's pinned connection with one
// additional usage. The caller gives the usage back by closing the
// connection; the session keeps its own usage until Close.
func (s *pinnedSession) pinnedConnection(_ context.Context) (conn.Connection, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	if err := s.conn.Inc(); err != nil {
		return nil, internal.WrapError(err, "failed acquiring the session's pinned connection")
	}

	return s.conn, nil
}

func (s *pinnedSession) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.conn == nil {
		return nil
	}

	// Force-closing fails any cursor still reading the connection with a
	// connection-closed error instead of letting it hang; a cleanly idle
	// connection goes back to its pool.
	err := s.conn.ForceClose()
	if err != nil {
		s.cfg.logger.WithError(err).Warn("failed releasing pinned connection")
	}
	s.conn = nil
	s.server = nil
	return err
}
