package store

import (
	"context"
	"errors"
)

// Standard store errors that Collection implementations should use.
var (
	ErrNoDocuments   = errors.New("store: no documents in result")
	ErrClosed        = errors.New("store: collection closed")
	ErrCursorClosed  = errors.New("store: cursor already closed")
	ErrInvalidFilter = errors.New("store: invalid filter")
	ErrMissingID     = errors.New("store: document has no _id field")
)

// IDField is the identifier field every stored document carries.
const IDField = "_id"

// Document is a single schemaless record in a collection.
type Document = map[string]any

// Collection is the surface a remote document collection exposes.
// Implementations wrap a concrete driver; Cursor ownership transfers
// to the caller, which must close it.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// Find opens a cursor over all documents matching filter,
	// in the store's native order. A nil filter matches everything.
	Find(ctx context.Context, filter Document) (Cursor, error)

	// FindOne returns the first document matching filter.
	// Returns ErrNoDocuments if nothing matches.
	FindOne(ctx context.Context, filter Document) (Document, error)

	// InsertOne stores a single document and returns it with its
	// assigned identifier.
	InsertOne(ctx context.Context, doc Document) (Document, error)

	// InsertMany stores the given documents and returns them with
	// their assigned identifiers.
	InsertMany(ctx context.Context, docs []Document) ([]Document, error)

	// ReplaceOne replaces the first document matching filter and
	// returns the stored result. Returns ErrNoDocuments on no match.
	ReplaceOne(ctx context.Context, filter Document, doc Document) (Document, error)

	// DeleteOne removes at most one matching document and reports
	// how many were removed.
	DeleteOne(ctx context.Context, filter Document) (int64, error)

	// DeleteMany removes all matching documents and reports how many
	// were removed.
	DeleteMany(ctx context.Context, filter Document) (int64, error)

	// Count returns the number of documents matching filter.
	Count(ctx context.Context, filter Document) (int64, error)

	// Drop removes the collection and all its documents.
	Drop(ctx context.Context) error

	// BulkWrite applies the given write operations in order.
	BulkWrite(ctx context.Context, ops []WriteOp) (*BulkResult, error)
}

// Cursor is a stateful, forward-only iterator over a query result.
type Cursor interface {
	// HasNext reports whether another document is available,
	// fetching from the store if necessary.
	HasNext(ctx context.Context) (bool, error)

	// Next returns the next document. Only valid after HasNext
	// reported true.
	Next(ctx context.Context) (Document, error)

	// Close releases the cursor's resources.
	Close(ctx context.Context) error
}

// WriteOpType selects the action a WriteOp performs.
type WriteOpType int

const (
	OpInsert WriteOpType = iota
	OpReplace
	OpDelete
)

// WriteOp is a single operation in a BulkWrite batch.
type WriteOp struct {
	Type     WriteOpType
	Filter   Document // replace and delete
	Document Document // insert and replace
}

// BulkResult summarizes a BulkWrite batch.
type BulkResult struct {
	InsertedCount int64
	ModifiedCount int64
	DeletedCount  int64
}

// DocumentID extracts the string form of a document's identifier.
func DocumentID(doc Document) (string, bool) {
	v, ok := doc[IDField]
	if !ok {
		return "", false
	}

	switch id := v.(type) {
	case string:
		return id, true
	case interface{ Hex() string }:
		return id.Hex(), true
	case interface{ String() string }:
		return id.String(), true
	default:
		return "", false
	}
}
