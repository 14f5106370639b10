package ops

import (
	"context"

	"github.com/10gen/mongo-go-async/conn"
	"github.com/10gen/mongo-go-async/internal"
	"github.com/10gen/mongo-go-async/msg"
)

// KillCursors asks the server to free the resources of the given cursors.
// The server sends no reply; the returned error is only useful for logging,
// cleanup is best-effort.
func KillCursors(ctx context.Context, c conn.Connection, cursorIDs ...int64) error {
	err := c.Write(ctx, msg.NewKillCursors(cursorIDs...))
	if err != nil {
		return internal.WrapErrorf(err, "unable to kill cursors %v", cursorIDs)
	}
	return nil
}
