package session

import (
	"context"
	"sync"

	"github.com/10gen/mongo-go-async/cluster"
	"github.com/10gen/mongo-go-async/conn"
	"github.com/10gen/mongo-go-async/internal"
)

// NewClusterSession creates a session with floating connection affinity:
// every provider performs a fresh server selection and every acquisition
// draws a fresh connection from the selected server. Operations run on a
// cluster session carry no cross-request connection state.
func NewClusterSession(c cluster.Cluster, opts ...Option) Session {
	return &clusterSession{
		cfg:     newConfig(opts...),
		cluster: c,
	}
}

type clusterSession struct {
	cfg     *config
	cluster cluster.Cluster

	lock   sync.Mutex
	closed bool
}

func (s *clusterSession) CreateServerConnectionProvider(ctx context.Context, opts *ServerConnectionProviderOptions) (ServerConnectionProvider, error) {
	s.lock.Lock()
	closed := s.closed
	s.lock.Unlock()
	if closed {
		return nil, ErrSessionClosed
	}

	selected, err := s.cluster.SelectServer(ctx, opts.Selector)
	if err != nil {
		return nil, internal.WrapError(err, "failed creating a connection provider")
	}

	return &serverConnectionProvider{
		desc: selected.Desc(),
		get: func(ctx context.Context) (conn.Connection, error) {
			s.lock.Lock()
			closed := s.closed
			s.lock.Unlock()
			if closed {
				return nil, ErrSessionClosed
			}
			return selected.Connection(ctx)
		},
	}, nil
}

func (s *clusterSession) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.closed = true
	return nil
}
