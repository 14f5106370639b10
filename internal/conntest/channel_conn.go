package conntest

import (
	"context"
	"sync"

	"github.com/10gen/mongo-go-async/conn"
	"github.com/10gen/mongo-go-async/msg"
)

// NewChannelConn creates a ChannelConn with buffered channels.
func NewChannelConn() *ChannelConn {
	return &ChannelConn{
		Written:  make(chan msg.Request, 16),
		ReadResp: make(chan *msg.Reply, 16),
		ReadErr:  make(chan error, 1),
		closed:   make(chan struct{}),
	}
}

// ChannelConn is a connection whose reads rendezvous with the test through
// channels. Unlike MockConnection, a read with nothing available blocks, so
// it can exercise scenarios such as closing a connection out from under a
// blocked reader.
type ChannelConn struct {
	WriteErr error
	Written  chan msg.Request
	ReadResp chan *msg.Reply
	ReadErr  chan error

	closeOnce sync.Once
	closed    chan struct{}
}

// Alive indicates if the connection is still alive.
func (c *ChannelConn) Alive() bool {
	select {
	case <-c.closed:
		return false
	default:
		return true
	}
}

// Close closes the connection, failing any blocked reader.
func (c *ChannelConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// Desc gets a description of the connection.
func (c *ChannelConn) Desc() *conn.Desc {
	return &conn.Desc{}
}

// Expire closes the connection.
func (c *ChannelConn) Expire() error {
	return c.Close()
}

// Expired indicates if the connection has expired.
func (c *ChannelConn) Expired() bool {
	return !c.Alive()
}

// Read blocks until a reply or error is supplied, the context ends, or the
// connection is closed.
func (c *ChannelConn) Read(ctx context.Context) (msg.Response, error) {
	select {
	case reply := <-c.ReadResp:
		return reply, nil
	case err := <-c.ReadErr:
		return nil, err
	case <-c.closed:
		return nil, ErrConnectionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Write records the requests.
func (c *ChannelConn) Write(_ context.Context, reqs ...msg.Request) error {
	select {
	case <-c.closed:
		return ErrConnectionClosed
	default:
	}

	for _, req := range reqs {
		select {
		case c.Written <- req:
		default:
		}
	}
	return c.WriteErr
}
