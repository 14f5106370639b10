package cluster

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/10gen/mongo-go-async/conn"
	"github.com/10gen/mongo-go-async/internal"
	"github.com/10gen/mongo-go-async/server"
)

// ErrClusterClosed occurs when a cluster is used after it has been closed.
var ErrClusterClosed = errors.New("cluster is closed")

// ErrServerSelectionTimeout occurs when no eligible server was found within
// the server selection timeout. It is terminal for the operation that
// triggered the selection.
var ErrServerSelectionTimeout = errors.New("server selection timed out")

// Cluster is a view of a cluster of servers against which servers can be
// selected. Topology discovery is not performed here: the embedder's monitor
// feeds the view through Update.
type Cluster interface {
	// Close closes the cluster and all of its servers.
	Close()
	// Desc gets the current description of the cluster.
	Desc() *Desc
	// SelectServer selects a server given a selector, waiting up to the
	// server selection timeout for an eligible server to appear in the view.
	SelectServer(context.Context, ServerSelector) (server.Server, error)
	// Update replaces the cluster's view of its servers.
	Update(*Desc)
}

// New creates a new cluster with an empty view.
func New(opts ...Option) Cluster {
	cfg := newConfig(opts...)

	return &clusterImpl{
		cfg:     cfg,
		desc:    &Desc{},
		servers: make(map[conn.Endpoint]server.Server),
		waiters: make(map[int64]chan struct{}),
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type clusterImpl struct {
	cfg *config

	descLock sync.Mutex
	desc     *Desc
	closed   bool
	servers  map[conn.Endpoint]server.Server

	waiterLock   sync.Mutex
	waiters      map[int64]chan struct{}
	lastWaiterID int64

	randLock sync.Mutex
	rand     *rand.Rand
}

func (c *clusterImpl) Close() {
	c.descLock.Lock()
	defer c.descLock.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	for ep, s := range c.servers {
		s.Close()
		delete(c.servers, ep)
	}

	c.waiterLock.Lock()
	for id, ch := range c.waiters {
		close(ch)
		delete(c.waiters, id)
	}
	c.waiterLock.Unlock()
}

func (c *clusterImpl) Desc() *Desc {
	c.descLock.Lock()
	desc := c.desc
	c.descLock.Unlock()
	return desc
}

func (c *clusterImpl) Update(desc *Desc) {
	c.descLock.Lock()
	if c.closed {
		c.descLock.Unlock()
		return
	}
	c.desc = desc

	// close servers that fell out of the view
	for ep, s := range c.servers {
		if desc.Server(string(ep)) == nil {
			s.Close()
			delete(c.servers, ep)
		}
	}
	c.descLock.Unlock()

	c.waiterLock.Lock()
	for _, waiter := range c.waiters {
		select {
		case waiter <- struct{}{}:
		default:
		}
	}
	c.waiterLock.Unlock()
}

func (c *clusterImpl) SelectServer(ctx context.Context, selector ServerSelector) (server.Server, error) {
	timer := time.NewTimer(c.cfg.serverSelectionTimeout)
	defer timer.Stop()
	updated, id := c.awaitUpdates()
	defer c.removeWaiter(id)

	for {
		clusterDesc := c.Desc()

		suitable, err := selector(clusterDesc, clusterDesc.Servers)
		if err != nil {
			return nil, err
		}

		if len(suitable) > 0 {
			selected := suitable[c.intn(len(suitable))]
			return c.serverFor(selected)
		}

		select {
		case _, ok := <-updated:
			if !ok {
				return nil, ErrClusterClosed
			}
		case <-timer.C:
			return nil, ErrServerSelectionTimeout
		case <-ctx.Done():
			return nil, internal.WrapError(ctx.Err(), "failed selecting a server")
		}
	}
}

func (c *clusterImpl) intn(n int) int {
	c.randLock.Lock()
	i := c.rand.Intn(n)
	c.randLock.Unlock()
	return i
}

func (c *clusterImpl) serverFor(desc *server.Desc) (server.Server, error) {
	c.descLock.Lock()
	defer c.descLock.Unlock()

	if c.closed {
		return nil, ErrClusterClosed
	}

	if s, ok := c.servers[desc.Endpoint]; ok {
		return s, nil
	}

	s := c.cfg.serverFactory(desc, c.cfg.serverOpts...)
	c.servers[desc.Endpoint] = s
	return s, nil
}

// awaitUpdates returns a channel which will be signaled when the cluster
// description is updated, and an id to remove the waiter with.
func (c *clusterImpl) awaitUpdates() (<-chan struct{}, int64) {
	c.waiterLock.Lock()
	id := c.lastWaiterID
	c.lastWaiterID++
	ch := make(chan struct{}, 1)
	c.waiters[id] = ch
	c.waiterLock.Unlock()
	return ch, id
}

func (c *clusterImpl) removeWaiter(id int64) {
	c.waiterLock.Lock()
	delete(c.waiters, id)
	c.waiterLock.Unlock()
}
