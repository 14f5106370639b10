package server

// Type represents a type of server.
type Type uint32

// Type constants.
const (
	Unknown Type = iota
	Standalone
	RSPrimary
	RSSecondary
	RSArbiter
	RSOther
	RSGhost
	Mongos
)

// CanWrite indicates whether the server type can accept writes.
func (t Type) CanWrite() bool {
	switch t {
	case Standalone, RSPrimary, Mongos:
		return true
	}
	return false
}
