package cluster

import (
	"github.com/10gen/mongo-go-async/server"
)

// ServerSelector is a function that selects the eligible servers from a
// cluster description.
type ServerSelector func(*Desc, []*server.Desc) ([]*server.Desc, error)

// CompositeSelector combines multiple selectors into a single selector.
func CompositeSelector(selectors []ServerSelector) ServerSelector {
	return func(c *Desc, candidates []*server.Desc) ([]*server.Desc, error) {
		var err error
		for _, sel := range selectors {
			candidates, err = sel(c, candidates)
			if err != nil {
				return nil, err
			}
		}
		return candidates, nil
	}
}

// Primary creates a ServerSelector which selects the primary of a replica
// set, a standalone, or a mongos.
func Primary() ServerSelector {
	return func(c *Desc, candidates []*server.Desc) ([]*server.Desc, error) {
		var primaries []*server.Desc
		for _, candidate := range candidates {
			switch candidate.Type {
			case server.RSPrimary, server.Standalone, server.Mongos:
				primaries = append(primaries, candidate)
			}
		}
		return primaries, nil
	}
}

// WriteSelector creates a ServerSelector which selects servers capable of
// accepting writes.
func WriteSelector() ServerSelector {
	return func(c *Desc, candidates []*server.Desc) ([]*server.Desc, error) {
		var result []*server.Desc
		for _, candidate := range candidates {
			if candidate.Type.CanWrite() {
				result = append(result, candidate)
			}
		}
		return result, nil
	}
}
