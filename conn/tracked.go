package conn

import (
	"context"
	"errors"
	"sync"

	"github.com/10gen/mongo-go-async/msg"
)

// ErrConnectionReleased is returned from operations on a tracked connection
// whose usage count already reached zero.
var ErrConnectionReleased = errors.New("connection has been released")

// Tracked creates a tracked connection with a usage count of 1.
func Tracked(c Connection) *TrackedConnection {
	return &TrackedConnection{
		c:     c,
		usage: 1,
	}
}

// TrackedConnection is a connection that is shared by a number of users and
// only closes the underlying connection once its usage count is 0. A session
// holding a pinned connection keeps one usage for itself and adds one per
// cursor it hands the connection to.
type TrackedConnection struct {
	mu    sync.Mutex
	c     Connection
	usage int
}

// Alive indicates if the connection is still alive.
func (tc *TrackedConnection) Alive() bool {
	return tc.c.Alive()
}

// Close decrements the usage count, closing the underlying connection when
// it reaches zero.
func (tc *TrackedConnection) Close() error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.usage <= 0 {
		return nil
	}

	tc.usage--
	if tc.usage == 0 {
		return tc.c.Close()
	}

	return nil
}

// Desc gets a description of the connection.
func (tc *TrackedConnection) Desc() *Desc {
	return tc.c.Desc()
}

// Expire expires the underlying connection. Remaining users observe
// transport failures on their next read or write.
func (tc *TrackedConnection) Expire() error {
	return tc.c.Expire()
}

// ForceClose releases the connection regardless of outstanding users. A
// connection still borrowed by another user is expired first so that it
// cannot be handed back to a pool in an unknown state, and so that a blocked
// reader fails instead of hanging.
func (tc *TrackedConnection) ForceClose() error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.usage <= 0 {
		return nil
	}

	inUse := tc.usage > 1
	tc.usage = 0

	if inUse {
		tc.c.Expire()
	}
	return tc.c.Close()
}

// Expired indicates if the connection has expired.
func (tc *TrackedConnection) Expired() bool {
	return tc.c.Expired()
}

// Inc increments the usage count. It reports ErrConnectionReleased when the
// underlying connection was already closed.
func (tc *TrackedConnection) Inc() error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.usage <= 0 {
		return ErrConnectionReleased
	}

	tc.usage++
	return nil
}

// Read reads a message from the connection.
func (tc *TrackedConnection) Read(ctx context.Context) (msg.Response, error) {
	return tc.c.Read(ctx)
}

// Write writes a number of messages to the connection.
func (tc *TrackedConnection) Write(ctx context.Context, reqs ...msg.Request) error {
	return tc.c.Write(ctx, reqs...)
}
