package ops

import (
	"gopkg.in/mgo.v2/bson"

	"github.com/10gen/mongo-go-async/msg"
)

// NewFind creates a new Find with the given filter. A nil filter matches
// every document.
func NewFind(filter interface{}) *Find {
	return &Find{filter: filter}
}

// Find describes one query: its criteria and the options that shape how the
// results are fetched. A Find is immutable once a cursor has been started
// with it.
type Find struct {
	filter    interface{}
	sort      interface{}
	selector  interface{}
	batchSize int32
	limit     int32
	skip      int32
	flags     msg.QueryFlags
}

// AddFlags adds the given wire flags to the query. Adding msg.Exhaust makes
// the server push all remaining batches unprompted on the same connection;
// such a query may only be started against a pinned connection provider.
func (f *Find) AddFlags(flags msg.QueryFlags) *Find {
	f.flags |= flags
	return f
}

// BatchSize sets the number of documents to return per batch. Zero leaves
// the batch size to the server.
func (f *Find) BatchSize(n int32) *Find {
	f.batchSize = n
	return f
}

// Limit sets the maximum total number of documents to return. Zero means
// unlimited.
func (f *Find) Limit(n int32) *Find {
	f.limit = n
	return f
}

// Select sets the field selector document.
func (f *Find) Select(selector interface{}) *Find {
	f.selector = selector
	return f
}

// Skip sets the number of documents the server should skip before returning
// the first result.
func (f *Find) Skip(n int32) *Find {
	f.skip = n
	return f
}

// Sort sets the sort order of the results.
func (f *Find) Sort(sort interface{}) *Find {
	f.sort = sort
	return f
}

// queryDocument builds the wire query payload, wrapping the filter with the
// sort specification when one was given.
func (f *Find) queryDocument() interface{} {
	filter := f.filter
	if filter == nil {
		filter = bson.D{}
	}

	if f.sort == nil {
		return filter
	}

	return bson.D{
		{Name: "$query", Value: filter},
		{Name: "$orderby", Value: f.sort},
	}
}
