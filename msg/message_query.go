package msg

// NewQuery creates a new Query message.
func NewQuery(fullCollectionName string, flags QueryFlags, numberToSkip, numberToReturn int32, query, returnFieldsSelector interface{}) *Query {
	return &Query{
		ReqID:                NextRequestID(),
		Flags:                flags,
		FullCollectionName:   fullCollectionName,
		NumberToSkip:         numberToSkip,
		NumberToReturn:       numberToReturn,
		Query:                query,
		ReturnFieldsSelector: returnFieldsSelector,
	}
}

// Query is a message sent to the server to start a cursor.
type Query struct {
	ReqID                int32
	Flags                QueryFlags
	FullCollectionName   string
	NumberToSkip         int32
	NumberToReturn       int32
	Query                interface{}
	ReturnFieldsSelector interface{}
}

// RequestID gets the request id of the message.
func (m *Query) RequestID() int32 { return m.ReqID }

// QueryFlags are the flags in a Query.
type QueryFlags int32

// QueryFlags constants.
const (
	_ QueryFlags = 1 << iota
	TailableCursor
	SlaveOK
	OplogReplay
	NoCursorTimeout
	AwaitData
	// Exhaust requests that the server stream all remaining batches on the
	// same connection without waiting for get-more requests, until it sends
	// a reply with cursor id 0.
	Exhaust
	Partial
)
