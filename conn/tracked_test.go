package conn_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/10gen/mongo-go-async/conn"
	"github.com/10gen/mongo-go-async/internal/conntest"
)

func TestTrackedConnectionUsage(t *testing.T) {
	t.Parallel()

	underlying := &conntest.MockConnection{}
	subject := Tracked(underlying)

	require.NoError(t, subject.Inc())
	require.NoError(t, subject.Inc())

	require.NoError(t, subject.Close())
	require.NoError(t, subject.Close())
	require.False(t, underlying.Dead, "connection closes only when the last usage is returned")

	require.NoError(t, subject.Close())
	require.True(t, underlying.Dead)

	// further closes are no-ops, further users are refused
	require.NoError(t, subject.Close())
	require.Equal(t, ErrConnectionReleased, subject.Inc())
}

func TestTrackedConnectionForceCloseIdle(t *testing.T) {
	t.Parallel()

	underlying := &conntest.MockConnection{}
	subject := Tracked(underlying)

	require.NoError(t, subject.ForceClose())
	require.True(t, underlying.Dead)
	require.Equal(t, ErrConnectionReleased, subject.Inc())
}

func TestTrackedConnectionForceCloseInUse(t *testing.T) {
	t.Parallel()

	underlying := &conntest.MockConnection{}
	subject := Tracked(underlying)
	require.NoError(t, subject.Inc())

	require.NoError(t, subject.ForceClose())
	require.True(t, underlying.Dead)
	require.True(t, subject.Expired())

	// the remaining borrower's close is a no-op
	require.NoError(t, subject.Close())
}
