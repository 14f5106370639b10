package conn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/10gen/mongo-go-async/internal"
	"github.com/10gen/mongo-go-async/msg"
)

var globalClientConnectionID int32

func nextClientConnectionID() int32 {
	return atomic.AddInt32(&globalClientConnectionID, 1)
}

// Dialer dials a connection.
type Dialer func(ep Endpoint, opts ...Option) (Connection, error)

// ErrNoCodec is returned from Dial when no message codec was configured.
var ErrNoCodec = errors.New("no message codec configured")

// Dial opens a connection to a server.
func Dial(ep Endpoint, opts ...Option) (Connection, error) {
	cfg := newConfig(opts...)
	if cfg.codec == nil {
		return nil, ErrNoCodec
	}

	transport, err := cfg.dialer(ep)
	if err != nil {
		return nil, internal.WrapErrorf(err, "failed dialing %s", ep)
	}

	return &connectionImpl{
		id:        fmt.Sprintf("%s[-%d]", ep, nextClientConnectionID()),
		codec:     cfg.codec,
		desc:      &Desc{Endpoint: ep},
		lifetime:  cfg.lifetimeOf(),
		transport: transport,
		alive:     1,
	}, nil
}

// Connection is responsible for reading and writing messages.
type Connection interface {
	// Alive indicates if the connection is still alive.
	Alive() bool
	// Close closes the connection.
	Close() error
	// Desc gets a description of the connection.
	Desc() *Desc
	// Expire closes the underlying transport and marks the connection
	// expired. Unlike Close, a pooled connection is not returned for reuse;
	// a blocked Read or Write fails with a transport error.
	Expire() error
	// Expired indicates if the connection has expired and should no longer
	// be reused.
	Expired() bool
	// Read reads a message from the connection. It is legal to read with no
	// request outstanding: a server operating an exhaust cursor pushes
	// replies without being asked.
	Read(context.Context) (msg.Response, error)
	// Write writes a number of messages to the connection.
	Write(context.Context, ...msg.Request) error
}

// ConnectionError represents an error that occurred in the conn package.
type ConnectionError struct {
	ConnectionID string

	message string
	inner   error
}

// Message gets the basic error message.
func (e *ConnectionError) Message() string {
	return e.message
}

// Error gets a rolled-up error message.
func (e *ConnectionError) Error() string {
	return internal.RolledUpErrorMessage(e)
}

// Inner gets the inner error if one exists.
func (e *ConnectionError) Inner() error {
	return e.inner
}

// deadlineSetter is implemented by transports that support per-operation
// deadlines, net.Conn among them.
type deadlineSetter interface {
	SetReadDeadline(time.Time) error
	SetWriteDeadline(time.Time) error
}

type connectionImpl struct {
	// if id is negative, it's the client identifier; otherwise it's the same
	// as the id the server is using.
	id        string
	codec     msg.Codec
	desc      *Desc
	lifetime  time.Time
	transport io.ReadWriteCloser
	alive     int32
}

func (c *connectionImpl) Alive() bool {
	return atomic.LoadInt32(&c.alive) == 1
}

func (c *connectionImpl) Close() error {
	atomic.StoreInt32(&c.alive, 0)
	err := c.transport.Close()
	if err != nil {
		return c.wrapError(err, "failed closing")
	}

	return nil
}

func (c *connectionImpl) Expire() error {
	atomic.StoreInt32(&c.alive, 0)
	return c.transport.Close()
}

func (c *connectionImpl) Desc() *Desc {
	return c.desc
}

func (c *connectionImpl) Expired() bool {
	if !c.Alive() {
		return true
	}
	return !c.lifetime.IsZero() && time.Now().After(c.lifetime)
}

func (c *connectionImpl) Read(ctx context.Context) (msg.Response, error) {
	if err := c.applyDeadline(ctx, true); err != nil {
		return nil, err
	}

	message, err := c.codec.Decode(c.transport)
	if err != nil {
		atomic.StoreInt32(&c.alive, 0)
		return nil, c.wrapError(err, "failed reading")
	}

	resp, ok := message.(msg.Response)
	if !ok {
		atomic.StoreInt32(&c.alive, 0)
		return nil, c.wrapError(nil, "failed reading: invalid message type received")
	}

	return resp, nil
}

func (c *connectionImpl) String() string {
	return c.id
}

func (c *connectionImpl) Write(ctx context.Context, requests ...msg.Request) error {
	if err := c.applyDeadline(ctx, false); err != nil {
		return err
	}

	messages := make([]msg.Message, 0, len(requests))
	for _, message := range requests {
		messages = append(messages, message)
	}

	err := c.codec.Encode(c.transport, messages...)
	if err != nil {
		atomic.StoreInt32(&c.alive, 0)
		return c.wrapError(err, "failed writing")
	}
	return nil
}

func (c *connectionImpl) applyDeadline(ctx context.Context, read bool) error {
	if err := ctx.Err(); err != nil {
		return c.wrapError(err, "context ended")
	}

	ds, ok := c.transport.(deadlineSetter)
	if !ok {
		return nil
	}

	deadline := time.Time{}
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}

	var err error
	if read {
		err = ds.SetReadDeadline(deadline)
	} else {
		err = ds.SetWriteDeadline(deadline)
	}
	if err != nil {
		return c.wrapError(err, "failed setting deadline")
	}
	return nil
}

func (c *connectionImpl) wrapError(inner error, message string) error {
	return &ConnectionError{
		c.id,
		fmt.Sprintf("connection(%s) error: %s", c.id, message),
		inner,
	}
}
