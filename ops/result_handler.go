package ops

// Directive is a ResultHandler's verdict on whether iteration should
// continue.
type Directive int

// Directive constants.
const (
	// Continue keeps the cursor iterating.
	Continue Directive = iota
	// Stop ends iteration early. The cursor still runs its discard
	// protocol so that the connection is left in a well-defined state;
	// returning Stop is the only sanctioned way to terminate early.
	Stop
)

// ResultHandler consumes the result stream of an AsyncQueryCursor.
//
// Document is invoked once per document, in the order the server returned
// them, strictly between the completion of one network operation and the
// issuance of the next; a slow handler therefore applies backpressure to the
// whole cursor. Document must not panic to end iteration; it returns Stop
// instead.
//
// Done is invoked exactly once, after the final Document call has returned,
// with the terminal error if the cursor failed.
type ResultHandler interface {
	Document(doc interface{}) Directive
	Done(err error)
}
