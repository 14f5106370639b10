package conntest

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/mgo.v2/bson"

	"github.com/10gen/mongo-go-async/conn"
	"github.com/10gen/mongo-go-async/msg"
)

// ErrConnectionClosed is returned from operations on a closed mock
// connection.
var ErrConnectionClosed = errors.New("connection closed")

// MockConnection is a scripted connection: tests queue the replies the
// server would send and inspect the requests that were written.
type MockConnection struct {
	Dead         bool
	ExpireCalled bool
	Sent         []msg.Request
	ResponseQ    []*msg.Reply
	ReadErr      error
	WriteErr     error

	SkipResponseToFixup bool
}

// Alive indicates if the connection is still alive.
func (c *MockConnection) Alive() bool {
	return !c.Dead
}

// Close closes the connection.
func (c *MockConnection) Close() error {
	c.Dead = true
	return nil
}

// Desc gets a description of the connection.
func (c *MockConnection) Desc() *conn.Desc {
	return &conn.Desc{}
}

// Expire closes the connection and marks it ineligible for reuse.
func (c *MockConnection) Expire() error {
	c.Dead = true
	c.ExpireCalled = true
	return nil
}

// Expired indicates if the connection has expired.
func (c *MockConnection) Expired() bool {
	return c.Dead
}

// Read reads the next queued reply.
func (c *MockConnection) Read(_ context.Context) (msg.Response, error) {
	if c.Dead {
		return nil, ErrConnectionClosed
	}
	if c.ReadErr != nil {
		err := c.ReadErr
		c.ReadErr = nil
		c.Dead = true
		return nil, err
	}
	if len(c.ResponseQ) == 0 {
		return nil, fmt.Errorf("no response queued")
	}
	resp := c.ResponseQ[0]
	c.ResponseQ = c.ResponseQ[1:]
	return resp, nil
}

// Write records the requests and correlates queued replies with their
// request ids.
func (c *MockConnection) Write(_ context.Context, reqs ...msg.Request) error {
	if c.Dead {
		return ErrConnectionClosed
	}
	if c.WriteErr != nil {
		err := c.WriteErr
		c.WriteErr = nil
		c.Dead = true
		return err
	}

	for i, req := range reqs {
		c.Sent = append(c.Sent, req)
		if !c.SkipResponseToFixup && i < len(c.ResponseQ) {
			c.ResponseQ[i].RespTo = req.RequestID()
		}
	}
	return nil
}

// Queue appends replies to the response queue.
func (c *MockConnection) Queue(replies ...*msg.Reply) {
	c.ResponseQ = append(c.ResponseQ, replies...)
}

// MakeReply builds a reply carrying the given documents and cursor id.
func MakeReply(cursorID int64, docs ...interface{}) *msg.Reply {
	var documentsBytes []byte
	for _, doc := range docs {
		b, err := bson.Marshal(doc)
		if err != nil {
			panic(fmt.Sprintf("conntest: could not marshal document: %v", err))
		}
		documentsBytes = append(documentsBytes, b...)
	}

	return &msg.Reply{
		CursorID:       cursorID,
		NumberReturned: int32(len(docs)),
		DocumentsBytes: documentsBytes,
	}
}
