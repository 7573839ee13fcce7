package memory

import (
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/sputier/docbrowse/store"
	"github.com/tidwall/btree"
)

// MemoryCollection is an in-memory document collection ordered by
// document id. It is used as an embedded store and as the backing
// collection in tests.
type MemoryCollection struct {
	mu sync.RWMutex

	name    string
	docs    *btree.Map[string, store.Document]
	dropped bool
}

func NewMemoryCollection(name string) *MemoryCollection {
	return &MemoryCollection{
		name: name,
		docs: btree.NewMap[string, store.Document](0),
	}
}

// Name returns the collection name.
func (mc *MemoryCollection) Name() string {
	return mc.name
}

func (mc *MemoryCollection) Find(ctx context.Context, filter store.Document) (store.Cursor, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if mc.dropped {
		return nil, store.ErrClosed
	}

	// Snapshot matching documents so the cursor stays stable under
	// concurrent writes.
	var snapshot []store.Document
	mc.docs.Scan(func(key string, doc store.Document) bool {
		if matches(doc, filter) {
			snapshot = append(snapshot, cloneDocument(doc))
		}
		return true
	})

	return &memoryCursor{docs: snapshot}, nil
}

func (mc *MemoryCollection) FindOne(ctx context.Context, filter store.Document) (store.Document, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if mc.dropped {
		return nil, store.ErrClosed
	}

	var found store.Document
	mc.docs.Scan(func(key string, doc store.Document) bool {
		if matches(doc, filter) {
			found = cloneDocument(doc)
			return false
		}
		return true
	})

	if found == nil {
		return nil, store.ErrNoDocuments
	}

	return found, nil
}

func (mc *MemoryCollection) InsertOne(ctx context.Context, doc store.Document) (store.Document, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	return mc.insertLocked(doc)
}

func (mc *MemoryCollection) InsertMany(ctx context.Context, docs []store.Document) ([]store.Document, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	inserted := make([]store.Document, 0, len(docs))
	for _, doc := range docs {
		stored, err := mc.insertLocked(doc)
		if err != nil {
			return inserted, err
		}
		inserted = append(inserted, stored)
	}

	return inserted, nil
}

// insertLocked stores a single document, assigning an id when absent.
// Must be called with the write lock held.
func (mc *MemoryCollection) insertLocked(doc store.Document) (store.Document, error) {
	if mc.dropped {
		return nil, store.ErrClosed
	}

	stored := cloneDocument(doc)

	id, ok := store.DocumentID(stored)
	if !ok {
		id = uuid.NewString()
		stored[store.IDField] = id
	}

	mc.docs.Set(id, stored)
	return cloneDocument(stored), nil
}

func (mc *MemoryCollection) ReplaceOne(ctx context.Context, filter store.Document, doc store.Document) (store.Document, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.dropped {
		return nil, store.ErrClosed
	}

	var key string
	found := false
	mc.docs.Scan(func(k string, d store.Document) bool {
		if matches(d, filter) {
			key = k
			found = true
			return false
		}
		return true
	})

	if !found {
		return nil, store.ErrNoDocuments
	}

	stored := cloneDocument(doc)
	stored[store.IDField] = mustDocumentKey(stored, key)

	mc.docs.Set(key, stored)
	return cloneDocument(stored), nil
}

func (mc *MemoryCollection) DeleteOne(ctx context.Context, filter store.Document) (int64, error) {
	return mc.delete(filter, 1)
}

func (mc *MemoryCollection) DeleteMany(ctx context.Context, filter store.Document) (int64, error) {
	return mc.delete(filter, -1)
}

func (mc *MemoryCollection) delete(filter store.Document, limit int) (int64, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.dropped {
		return 0, store.ErrClosed
	}

	var keys []string
	mc.docs.Scan(func(k string, d store.Document) bool {
		if matches(d, filter) {
			keys = append(keys, k)
			if limit > 0 && len(keys) >= limit {
				return false
			}
		}
		return true
	})

	for _, k := range keys {
		mc.docs.Delete(k)
	}

	return int64(len(keys)), nil
}

func (mc *MemoryCollection) Count(ctx context.Context, filter store.Document) (int64, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if mc.dropped {
		return 0, store.ErrClosed
	}

	var count int64
	mc.docs.Scan(func(k string, d store.Document) bool {
		if matches(d, filter) {
			count++
		}
		return true
	})

	return count, nil
}

func (mc *MemoryCollection) Drop(ctx context.Context) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.dropped {
		return store.ErrClosed
	}

	mc.docs.Clear()
	mc.dropped = true
	return nil
}

func (mc *MemoryCollection) BulkWrite(ctx context.Context, ops []store.WriteOp) (*store.BulkResult, error) {
	result := &store.BulkResult{}

	for _, op := range ops {
		switch op.Type {
		case store.OpInsert:
			if _, err := mc.InsertOne(ctx, op.Document); err != nil {
				return result, err
			}
			result.InsertedCount++

		case store.OpReplace:
			if _, err := mc.ReplaceOne(ctx, op.Filter, op.Document); err != nil {
				return result, err
			}
			result.ModifiedCount++

		case store.OpDelete:
			n, err := mc.DeleteMany(ctx, op.Filter)
			if err != nil {
				return result, err
			}
			result.DeletedCount += n
		}
	}

	return result, nil
}

// matches evaluates a flat equality filter against a document.
// A nil or empty filter matches every document.
func matches(doc store.Document, filter store.Document) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false
		}
		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func cloneDocument(doc store.Document) store.Document {
	clone := make(store.Document, len(doc))
	for k, v := range doc {
		clone[k] = v
	}
	return clone
}

// mustDocumentKey keeps the replacement document addressed under the
// original key even when the caller omitted the id field.
func mustDocumentKey(doc store.Document, key string) any {
	if v, ok := doc[store.IDField]; ok {
		return v
	}
	return key
}

type memoryCursor struct {
	docs   []store.Document
	index  int
	closed bool
}

func (c *memoryCursor) HasNext(ctx context.Context) (bool, error) {
	if c.closed {
		return false, store.ErrCursorClosed
	}
	return c.index < len(c.docs), nil
}

func (c *memoryCursor) Next(ctx context.Context) (store.Document, error) {
	if c.closed {
		return nil, store.ErrCursorClosed
	}
	if c.index >= len(c.docs) {
		return nil, store.ErrNoDocuments
	}

	doc := c.docs[c.index]
	c.index++
	return doc, nil
}

func (c *memoryCursor) Close(ctx context.Context) error {
	if c.closed {
		return store.ErrCursorClosed
	}
	c.closed = true
	c.docs = nil
	return nil
}
