package conn_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/10gen/mongo-go-async/conn"
	"github.com/10gen/mongo-go-async/internal/conntest"
)

func mockFactory() (func(context.Context) (Connection, error), *[]*conntest.MockConnection) {
	var created []*conntest.MockConnection
	factory := func(_ context.Context) (Connection, error) {
		c := &conntest.MockConnection{}
		created = append(created, c)
		return c, nil
	}
	return factory, &created
}

func TestPoolReusesConnections(t *testing.T) {
	t.Parallel()

	factory, created := mockFactory()
	subject := NewPool(2, factory)
	defer subject.Close()

	c1, err := subject.Get(context.Background())
	require.NoError(t, err)
	require.NoError(t, c1.Close())

	c2, err := subject.Get(context.Background())
	require.NoError(t, err)
	require.NoError(t, c2.Close())

	require.Len(t, *created, 1, "the checked-in connection should be reused")
}

func TestPoolClearExpiresIdle(t *testing.T) {
	t.Parallel()

	factory, created := mockFactory()
	subject := NewPool(2, factory)
	defer subject.Close()

	c1, err := subject.Get(context.Background())
	require.NoError(t, err)
	require.NoError(t, c1.Close())

	subject.Clear()

	c2, err := subject.Get(context.Background())
	require.NoError(t, err)
	require.NoError(t, c2.Close())

	require.Len(t, *created, 2, "a cleared pool must not resurrect old connections")
	require.True(t, (*created)[0].Dead)
}

func TestPoolDeadConnectionNotReused(t *testing.T) {
	t.Parallel()

	factory, created := mockFactory()
	subject := NewPool(2, factory)
	defer subject.Close()

	c1, err := subject.Get(context.Background())
	require.NoError(t, err)
	require.NoError(t, c1.Expire())
	require.NoError(t, c1.Close())

	c2, err := subject.Get(context.Background())
	require.NoError(t, err)
	require.NoError(t, c2.Close())

	require.Len(t, *created, 2)
}

func TestPoolCapacityBlocks(t *testing.T) {
	t.Parallel()

	factory, _ := mockFactory()
	subject := NewPool(1, factory)
	defer subject.Close()

	c1, err := subject.Get(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = subject.Get(ctx)
	require.Error(t, err, "a pool at capacity honors the context")

	require.NoError(t, c1.Close())

	c2, err := subject.Get(context.Background())
	require.NoError(t, err)
	require.NoError(t, c2.Close())
}

func TestPoolClosed(t *testing.T) {
	t.Parallel()

	factory, _ := mockFactory()
	subject := NewPool(1, factory)
	subject.Close()

	_, err := subject.Get(context.Background())
	require.Equal(t, ErrPoolClosed, err)
}
