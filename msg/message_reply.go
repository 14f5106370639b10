package msg

import (
	"fmt"

	"gopkg.in/mgo.v2/bson"
)

// Reply is a message received from the server. It carries the state of the
// server-side cursor: a cursor id of 0 indicates that no further batches
// exist.
type Reply struct {
	ReqID          int32
	RespTo         int32
	ResponseFlags  ReplyFlags
	CursorID       int64
	StartingFrom   int32
	NumberReturned int32
	DocumentsBytes []byte
}

// ResponseTo gets the request id the message was in response to.
func (m *Reply) ResponseTo() int32 { return m.RespTo }

// ReplyFlags are the flags in a Reply.
type ReplyFlags int32

// ReplyFlags constants.
const (
	CursorNotFound ReplyFlags = 1 << iota
	QueryFailure
	_
	AwaitCapable
)

// Iter returns a ReplyIter to iterate over each document returned by the
// server.
func (m *Reply) Iter() *ReplyIter {
	return &ReplyIter{documentsBytes: m.DocumentsBytes}
}

// ReplyIter iterates over the documents returned in a Reply.
type ReplyIter struct {
	documentsBytes []byte
	pos            int

	err error
}

// Err gets the error that occurred during iteration, if any.
func (i *ReplyIter) Err() error {
	return i.err
}

// NextBytes returns the raw bytes of the next document without unmarshalling
// it, or nil when the iterator is exhausted.
func (i *ReplyIter) NextBytes() []byte {
	n, ok := i.partition()
	if !ok {
		return nil
	}

	raw := i.documentsBytes[i.pos : i.pos+n]
	i.pos += n
	return raw
}

// Next unmarshals the next document into the provided result and returns
// a value indicating whether or not it was successful.
func (i *ReplyIter) Next(result interface{}) bool {
	n, ok := i.partition()
	if !ok {
		return false
	}

	if err := bson.Unmarshal(i.documentsBytes[i.pos:i.pos+n], result); err != nil {
		i.err = err
		return false
	}

	i.pos += n
	return true
}

// One reads a single document from the iterator.
func (i *ReplyIter) One(result interface{}) (bool, error) {
	if !i.Next(result) {
		return false, i.err
	}

	return true, nil
}

// partition reads the length prefix of the document at the current position.
func (i *ReplyIter) partition() (int, bool) {
	if i.err != nil || i.pos >= len(i.documentsBytes) {
		return 0, false
	}

	if len(i.documentsBytes)-i.pos < 4 {
		i.err = fmt.Errorf("needed at least 4 bytes to read document length, but only had %d", len(i.documentsBytes)-i.pos)
		return 0, false
	}

	b := i.documentsBytes[i.pos:]
	n := int(int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16 | int32(b[3])<<24)
	if n < 5 || len(i.documentsBytes)-i.pos < n {
		i.err = fmt.Errorf("needed %d bytes to read document, but only had %d", n, len(i.documentsBytes)-i.pos)
		return 0, false
	}

	return n, true
}
