package session

import (
	"context"
	"errors"

	"github.com/10gen/mongo-go-async/cluster"
	"github.com/10gen/mongo-go-async/conn"
	"github.com/10gen/mongo-go-async/server"
)

// ErrSessionClosed occurs when a session, or a provider issued by it, is
// used after the session has been closed.
var ErrSessionClosed = errors.New("session is closed")

// Session owns the connection affinity for a sequence of operations. A
// session must be closed when no longer in use; closing releases any pinned
// connection and invalidates every provider the session issued.
type Session interface {
	// CreateServerConnectionProvider creates a provider of connections to a
	// single server satisfying the given options.
	CreateServerConnectionProvider(context.Context, *ServerConnectionProviderOptions) (ServerConnectionProvider, error)
	// Close closes the session.
	Close() error
}

// ServerConnectionProviderOptions are the options for creating a server
// connection provider.
type ServerConnectionProviderOptions struct {
	// Selector chooses the eligible servers, e.g. cluster.Primary().
	Selector cluster.ServerSelector
}

// ConnectionResult is the outcome of an asynchronous connection acquisition.
type ConnectionResult struct {
	Conn conn.Connection
	Err  error
}

// ServerConnectionProvider provides connections to a single selected server.
// Acquisition is available both synchronously and asynchronously; the
// returned connection is given back by closing it, never by the borrower
// closing the session's resources directly.
type ServerConnectionProvider interface {
	// ServerDesc gets the description of the server this provider is bound to.
	ServerDesc() *server.Desc
	// GetConnection provides a connection, blocking until one is available.
	GetConnection(context.Context) (conn.Connection, error)
	// GetConnectionAsync provides a connection through a channel that is
	// sent exactly one result.
	GetConnectionAsync(context.Context) <-chan ConnectionResult
	// Pinned indicates whether every connection this provider hands out is
	// the same pinned physical connection.
	Pinned() bool
}

type serverConnectionProvider struct {
	desc   *server.Desc
	pinned bool
	get    func(context.Context) (conn.Connection, error)
}

func (p *serverConnectionProvider) ServerDesc() *server.Desc {
	return p.desc
}

func (p *serverConnectionProvider) GetConnection(ctx context.Context) (conn.Connection, error) {
	return p.get(ctx)
}

func (p *serverConnectionProvider) GetConnectionAsync(ctx context.Context) <-chan ConnectionResult {
	ch := make(chan ConnectionResult, 1)
	go func() {
		c, err := p.get(ctx)
		ch <- ConnectionResult{Conn: c, Err: err}
	}()
	return ch
}

func (p *serverConnectionProvider) Pinned() bool {
	return p.pinned
}
