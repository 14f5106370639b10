package internal_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/10gen/mongo-go-async/internal"
)

func TestWrapError(t *testing.T) {
	t.Parallel()

	inner := errors.New("socket closed")
	wrapped := WrapError(inner, "failed reading")
	require.Equal(t, "failed reading: socket closed", wrapped.Error())

	again := WrapErrorf(wrapped, "cursor %d failed", 42)
	require.Equal(t, "cursor 42 failed: failed reading: socket closed", again.Error())

	we, ok := again.(WrappedError)
	require.True(t, ok)
	require.Equal(t, wrapped, we.Inner())
}

func TestMultiError(t *testing.T) {
	t.Parallel()

	require.Nil(t, MultiError(nil, nil))

	single := errors.New("one")
	require.Equal(t, single, MultiError(nil, single))

	combined := MultiError(errors.New("one"), errors.New("two"))
	require.Equal(t, "multiple errors encountered: one; two", combined.Error())
}
