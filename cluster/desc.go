package cluster

import (
	"github.com/10gen/mongo-go-async/server"
)

// Desc is a description of a cluster.
type Desc struct {
	Type    Type
	Servers []*server.Desc
}

// Server returns the server description for the given endpoint, or nil when
// the endpoint is not part of the cluster.
func (d *Desc) Server(endpoint string) *server.Desc {
	for _, s := range d.Servers {
		if string(s.Endpoint) == endpoint {
			return s
		}
	}
	return nil
}

// Type represents a type of the cluster.
type Type uint32

// Type constants.
const (
	Unknown               Type = iota
	Single                Type = 1
	ReplicaSet            Type = 2
	ReplicaSetNoPrimary   Type = 4 + ReplicaSet
	ReplicaSetWithPrimary Type = 8 + ReplicaSet
	Sharded               Type = 256
)
