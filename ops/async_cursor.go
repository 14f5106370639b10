package ops

import (
	"context"
	"fmt"
	"sync/atomic"

	"gopkg.in/mgo.v2/bson"

	"github.com/10gen/mongo-go-async/conn"
	"github.com/10gen/mongo-go-async/internal"
	"github.com/10gen/mongo-go-async/msg"
	"github.com/10gen/mongo-go-async/session"
)

// NewAsyncQueryCursor creates a cursor for the given query. The cursor does
// nothing until Start is called.
func NewAsyncQueryCursor(ns Namespace, find *Find, codec Codec, provider session.ServerConnectionProvider, opts ...CursorOption) (*AsyncQueryCursor, error) {
	if err := ns.validate(); err != nil {
		return nil, err
	}

	return &AsyncQueryCursor{
		cfg:       newCursorConfig(opts...),
		ns:        ns,
		find:      find,
		codec:     codec,
		provider:  provider,
		exhaust:   find.flags&msg.Exhaust != 0,
		limited:   find.limit > 0,
		remaining: find.limit,
	}, nil
}

// AsyncQueryCursor drives one query to completion: it issues the initial
// query, walks each batch, performs get-more round trips or consumes the
// server's exhaust stream, enforces the result limit, and reports documents
// to a ResultHandler.
//
// A cursor has at most one network operation outstanding at a time, and
// dispatches documents strictly between the completion of one operation and
// the issuance of the next. It borrows its connection from the provider and
// always hands it back; it never owns it.
type AsyncQueryCursor struct {
	cfg      *cursorConfig
	ns       Namespace
	find     *Find
	codec    Codec
	provider session.ServerConnectionProvider

	started int32

	conn      conn.Connection
	cursorID  int64
	exhaust   bool
	limited   bool
	remaining int32
	delivered int64
	broken    bool
}

// Start begins executing the query on the cursor's own goroutine. Documents
// and the completion notification are reported through the handler; Done is
// invoked exactly once on every terminal path. Calls after the first do
// nothing.
func (c *AsyncQueryCursor) Start(ctx context.Context, handler ResultHandler) {
	if !atomic.CompareAndSwapInt32(&c.started, 0, 1) {
		return
	}

	go func() {
		err := c.execute(ctx, handler)
		c.release()
		handler.Done(err)
	}()
}

func (c *AsyncQueryCursor) execute(ctx context.Context, handler ResultHandler) error {
	// An exhaust stream blocks the connection until it is fully consumed,
	// so it is only legal on a connection no other operation can land on.
	// This must fail before any network I/O.
	if c.exhaust && !c.provider.Pinned() {
		return ConfigurationError("exhaust queries require a pinned connection provider")
	}

	result := <-c.provider.GetConnectionAsync(ctx)
	if result.Err != nil {
		return internal.WrapError(result.Err, "failed acquiring a connection")
	}
	c.conn = result.Conn

	reply, err := c.initialBatch(ctx)
	for {
		if err != nil {
			return err
		}

		var stopped bool
		stopped, err = c.dispatch(reply, handler)
		if err != nil {
			return err
		}

		switch {
		case stopped || c.limitReached():
			return c.discard(ctx)
		case c.cursorID == 0:
			// natural end of results
			return nil
		case c.exhaust:
			reply, err = c.awaitBatch(ctx)
		default:
			reply, err = c.getMore(ctx)
		}
	}
}

// initialBatch sends the query and receives the first batch.
func (c *AsyncQueryCursor) initialBatch(ctx context.Context) (*msg.Reply, error) {
	query := msg.NewQuery(
		c.ns.FullName(),
		c.find.flags,
		c.find.skip,
		c.nextBatchSize(),
		c.find.queryDocument(),
		c.find.selector,
	)

	if err := c.conn.Write(ctx, query); err != nil {
		c.broken = true
		return nil, internal.WrapError(err, "failed sending query")
	}

	return c.readReply(ctx, query.ReqID)
}

// getMore requests the next batch for the current cursor id.
func (c *AsyncQueryCursor) getMore(ctx context.Context) (*msg.Reply, error) {
	request := msg.NewGetMore(c.ns.FullName(), c.nextBatchSize(), c.cursorID)

	if err := c.conn.Write(ctx, request); err != nil {
		c.broken = true
		return nil, internal.WrapError(err, "failed sending get more")
	}

	return c.readReply(ctx, request.ReqID)
}

// awaitBatch receives the next batch of an exhaust stream. The server
// pushes it unprompted; there is nothing to send.
func (c *AsyncQueryCursor) awaitBatch(ctx context.Context) (*msg.Reply, error) {
	return c.readReply(ctx, 0)
}

// dispatch delivers the documents of one batch to the handler, honoring the
// limit. It reports whether the handler stopped iteration.
func (c *AsyncQueryCursor) dispatch(reply *msg.Reply, handler ResultHandler) (bool, error) {
	iter := reply.Iter()
	for !c.limitReached() {
		raw := iter.NextBytes()
		if raw == nil {
			break
		}

		if c.limited {
			c.remaining--
		}
		c.delivered++

		doc, err := c.decode(raw)
		if err != nil {
			return false, internal.WrapError(err, "failed decoding document")
		}

		if handler.Document(doc) == Stop {
			return true, nil
		}
	}

	if err := iter.Err(); err != nil {
		c.broken = true
		return false, ProtocolError(fmt.Sprintf("malformed batch: %v", err))
	}

	return false, nil
}

// discard ends iteration before the server-side cursor is naturally
// exhausted, leaving the connection in a well-defined state.
func (c *AsyncQueryCursor) discard(ctx context.Context) error {
	if !c.exhaust {
		if c.cursorID == 0 {
			return nil
		}

		// fire-and-forget; failures are logged, never surfaced
		if err := KillCursors(ctx, c.conn, c.cursorID); err != nil {
			c.broken = true
			c.cfg.logger.WithError(err).WithField("cursorID", c.cursorID).Debug("failed to kill cursor")
		}
		return nil
	}

	// The server keeps pushing exhaust batches regardless of client intent.
	// They must be read, undecoded, until the stream terminates with cursor
	// id 0; only then may the connection be handed back.
	for c.cursorID != 0 {
		if _, err := c.readReply(ctx, 0); err != nil {
			return err
		}
	}
	return nil
}

// readReply reads one reply, validates it, and tracks the cursor id. A
// responseTo of 0 skips request correlation; exhaust batches are pushed
// without a corresponding request.
func (c *AsyncQueryCursor) readReply(ctx context.Context, responseTo int32) (*msg.Reply, error) {
	resp, err := c.conn.Read(ctx)
	if err != nil {
		c.broken = true
		return nil, internal.WrapError(err, "failed receiving reply")
	}

	reply, ok := resp.(*msg.Reply)
	if !ok {
		c.broken = true
		return nil, ProtocolError(fmt.Sprintf("expected a reply, got a %T", resp))
	}

	if responseTo != 0 && reply.ResponseTo() != responseTo {
		c.broken = true
		return nil, ProtocolError(fmt.Sprintf("received out of order reply: expected %d but got %d", responseTo, reply.ResponseTo()))
	}

	if reply.ResponseFlags&msg.CursorNotFound != 0 {
		return nil, ProtocolError(fmt.Sprintf("cursor %d not found on the server", c.cursorID))
	}

	if reply.ResponseFlags&msg.QueryFailure != 0 {
		var doc bson.D
		if ok, _ := reply.Iter().One(&doc); ok {
			return nil, ProtocolError(fmt.Sprintf("query failure: %v", doc))
		}
		return nil, ProtocolError("query failure")
	}

	if c.cursorID != 0 && reply.CursorID != 0 && reply.CursorID != c.cursorID {
		c.broken = true
		return nil, ProtocolError(fmt.Sprintf("cursor id inconsistency: had %d, server sent %d", c.cursorID, reply.CursorID))
	}
	c.cursorID = reply.CursorID

	return reply, nil
}

func (c *AsyncQueryCursor) decode(rawBytes []byte) (interface{}, error) {
	raw := bson.Raw{Kind: 0x03, Data: rawBytes}
	if c.codec == nil {
		return raw, nil
	}
	return c.codec.Decode(raw)
}

func (c *AsyncQueryCursor) limitReached() bool {
	return c.limited && c.remaining <= 0
}

// nextBatchSize clamps the requested batch size to the remaining limit.
func (c *AsyncQueryCursor) nextBatchSize() int32 {
	if !c.limited {
		return c.find.batchSize
	}
	if c.find.batchSize == 0 || c.remaining < c.find.batchSize {
		return c.remaining
	}
	return c.find.batchSize
}

// release hands the connection back. A connection that failed, or whose
// exhaust stream was not fully drained, is expired instead of being returned
// for reuse.
func (c *AsyncQueryCursor) release() {
	if c.conn == nil {
		return
	}

	if c.broken || (c.exhaust && c.cursorID != 0) {
		c.conn.Expire()
	}

	if err := c.conn.Close(); err != nil {
		c.cfg.logger.WithError(err).Debug("failed returning connection")
	}
	c.conn = nil
}
