package ops

// ConfigurationError is an error in the configuration of an operation. It is
// detected before any network I/O takes place.
type ConfigurationError string

func (e ConfigurationError) Error() string { return string(e) }

// ProtocolError occurs when the server sends a malformed or unexpected
// response. It is terminal for the operation that observed it.
type ProtocolError string

func (e ProtocolError) Error() string { return string(e) }
