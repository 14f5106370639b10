package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/10gen/mongo-go-async/cluster"
	"github.com/10gen/mongo-go-async/conn"
	"github.com/10gen/mongo-go-async/internal/conntest"
	"github.com/10gen/mongo-go-async/server"
	. "github.com/10gen/mongo-go-async/session"
)

// fakeServer hands out a fresh mock connection per acquisition, unless a
// fixed connection is supplied.
type fakeServer struct {
	desc  *server.Desc
	fixed conn.Connection

	dialCount int
}

func (s *fakeServer) Connection(_ context.Context) (conn.Connection, error) {
	s.dialCount++
	if s.fixed != nil {
		return s.fixed, nil
	}
	return &conntest.MockConnection{}, nil
}

func (s *fakeServer) Desc() *server.Desc {
	return s.desc
}

func (s *fakeServer) Close() {}

type fakeCluster struct {
	server      *fakeServer
	selectCount int
}

func (c *fakeCluster) Close() {}

func (c *fakeCluster) Desc() *cluster.Desc {
	return &cluster.Desc{Servers: []*server.Desc{c.server.desc}}
}

func (c *fakeCluster) SelectServer(_ context.Context, _ cluster.ServerSelector) (server.Server, error) {
	c.selectCount++
	return c.server, nil
}

func (c *fakeCluster) Update(_ *cluster.Desc) {}

func newFakeCluster(fixed conn.Connection) *fakeCluster {
	return &fakeCluster{
		server: &fakeServer{
			desc:  &server.Desc{Endpoint: "localhost:27017", Type: server.Standalone},
			fixed: fixed,
		},
	}
}

func providerOptions() *ServerConnectionProviderOptions {
	return &ServerConnectionProviderOptions{Selector: cluster.Primary()}
}

func TestClusterSessionSelectsPerProvider(t *testing.T) {
	t.Parallel()

	fc := newFakeCluster(nil)
	subject := NewClusterSession(fc)
	defer subject.Close()

	first, err := subject.CreateServerConnectionProvider(context.Background(), providerOptions())
	require.NoError(t, err)
	second, err := subject.CreateServerConnectionProvider(context.Background(), providerOptions())
	require.NoError(t, err)

	require.False(t, first.Pinned())
	require.Equal(t, 2, fc.selectCount)

	c1, err := first.GetConnection(context.Background())
	require.NoError(t, err)
	c2, err := second.GetConnection(context.Background())
	require.NoError(t, err)

	// floating affinity: connections are not guaranteed identical, and the
	// fake never reuses one
	require.False(t, c1 == c2)
}

func TestClusterSessionClosedProvider(t *testing.T) {
	t.Parallel()

	subject := NewClusterSession(newFakeCluster(nil))

	provider, err := subject.CreateServerConnectionProvider(context.Background(), providerOptions())
	require.NoError(t, err)

	require.NoError(t, subject.Close())

	_, err = provider.GetConnection(context.Background())
	require.Equal(t, ErrSessionClosed, err)

	_, err = subject.CreateServerConnectionProvider(context.Background(), providerOptions())
	require.Equal(t, ErrSessionClosed, err)
}

func TestPinnedSessionReusesConnection(t *testing.T) {
	t.Parallel()

	underlying := &conntest.MockConnection{}
	fc := newFakeCluster(underlying)
	subject := NewPinnedSession(fc)
	defer subject.Close()

	first, err := subject.CreateServerConnectionProvider(context.Background(), providerOptions())
	require.NoError(t, err)
	second, err := subject.CreateServerConnectionProvider(context.Background(), providerOptions())
	require.NoError(t, err)

	require.True(t, first.Pinned())
	require.Equal(t, 1, fc.selectCount, "selection happens once per session")
	require.Equal(t, 1, fc.server.dialCount, "one physical connection per session")

	c1, err := first.GetConnection(context.Background())
	require.NoError(t, err)
	c2, err := second.GetConnection(context.Background())
	require.NoError(t, err)
	require.True(t, c1 == c2)

	// both borrowers hand their usage back; the session still owns its own
	require.NoError(t, c1.Close())
	require.NoError(t, c2.Close())
	require.False(t, underlying.Dead)

	require.NoError(t, subject.Close())
	require.True(t, underlying.Dead, "closing the session releases the pinned connection")
}

func TestPinnedSessionAsyncAcquisition(t *testing.T) {
	t.Parallel()

	underlying := &conntest.MockConnection{}
	subject := NewPinnedSession(newFakeCluster(underlying))
	defer subject.Close()

	provider, err := subject.CreateServerConnectionProvider(context.Background(), providerOptions())
	require.NoError(t, err)

	result := <-provider.GetConnectionAsync(context.Background())
	require.NoError(t, result.Err)
	require.NotNil(t, result.Conn)
	require.NoError(t, result.Conn.Close())
}

func TestPinnedSessionCloseFailsBlockedReader(t *testing.T) {
	t.Parallel()

	underlying := conntest.NewChannelConn()
	subject := NewPinnedSession(newFakeCluster(underlying))

	provider, err := subject.CreateServerConnectionProvider(context.Background(), providerOptions())
	require.NoError(t, err)

	borrowed, err := provider.GetConnection(context.Background())
	require.NoError(t, err)

	readErr := make(chan error, 1)
	go func() {
		_, err := borrowed.Read(context.Background())
		readErr <- err
	}()

	// let the reader block, then tear the session down underneath it
	time.Sleep(20 * time.Millisecond)
	subject.Close()

	select {
	case err := <-readErr:
		require.Error(t, err, "the blocked reader must fail, not hang")
	case <-time.After(5 * time.Second):
		t.Fatal("reader hung after session close")
	}

	require.NoError(t, borrowed.Close())
	require.False(t, underlying.Alive())
}

func TestPinnedSessionClosedAcquisition(t *testing.T) {
	t.Parallel()

	subject := NewPinnedSession(newFakeCluster(&conntest.MockConnection{}))

	provider, err := subject.CreateServerConnectionProvider(context.Background(), providerOptions())
	require.NoError(t, err)

	require.NoError(t, subject.Close())

	_, err = provider.GetConnection(context.Background())
	require.Equal(t, ErrSessionClosed, err)
}
