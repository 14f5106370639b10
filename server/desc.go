package server

import (
	"time"

	"github.com/10gen/mongo-go-async/conn"
)

// UnsetRTT is the unset value for a round trip time.
const UnsetRTT = -1 * time.Millisecond

// Desc is a description of a server.
type Desc struct {
	Endpoint conn.Endpoint

	AverageRTT      time.Duration
	AverageRTTSet   bool
	LastError       error
	LastUpdateTime  time.Time
	MaxBatchCount   uint16
	MaxDocumentSize uint32
	MaxMessageSize  uint32
	SetName         string
	Type            Type
}

// SetAverageRTT sets the average round trip time.
func (d *Desc) SetAverageRTT(rtt time.Duration) {
	d.AverageRTT = rtt
	d.AverageRTTSet = rtt != UnsetRTT
}
