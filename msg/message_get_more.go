package msg

// NewGetMore creates a new GetMore message.
func NewGetMore(fullCollectionName string, numberToReturn int32, cursorID int64) *GetMore {
	return &GetMore{
		ReqID:              NextRequestID(),
		FullCollectionName: fullCollectionName,
		NumberToReturn:     numberToReturn,
		CursorID:           cursorID,
	}
}

// GetMore is a message sent to the server to request the next batch of an
// existing cursor.
type GetMore struct {
	ReqID              int32
	FullCollectionName string
	NumberToReturn     int32
	CursorID           int64
}

// RequestID gets the request id of the message.
func (m *GetMore) RequestID() int32 { return m.ReqID }

// NewKillCursors creates a new KillCursors message.
func NewKillCursors(cursorIDs ...int64) *KillCursors {
	return &KillCursors{
		ReqID:     NextRequestID(),
		CursorIDs: cursorIDs,
	}
}

// KillCursors is a message sent to the server to free the resources of one or
// more open cursors. The server sends no reply.
type KillCursors struct {
	ReqID     int32
	CursorIDs []int64
}

// RequestID gets the request id of the message.
func (m *KillCursors) RequestID() int32 { return m.ReqID }
