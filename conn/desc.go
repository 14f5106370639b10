package conn

// Desc is a description of a connection.
type Desc struct {
	Endpoint Endpoint

	MaxBatchCount   uint16
	MaxDocumentSize uint32
	MaxMessageSize  uint32
}
