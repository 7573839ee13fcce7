package tree

import (
	"context"

	"github.com/sputier/docbrowse/store"
)

// DefaultBatchSize is the initial page size for a fresh pager.
const DefaultBatchSize = 50

// Pager streams a collection query into growing batches. The batch
// size starts at the configured default and doubles after every fetch,
// so early pages render fast and deep scrolling needs few round trips.
// No upper bound is applied to the batch size.
type Pager struct {
	coll   store.Collection
	filter store.Document

	initialBatch int
	batchSize    int

	cursor  store.Cursor
	hasMore bool
}

// NewPager creates a pager over coll restricted to filter. The filter
// is fixed for the pager's lifetime; a nil filter streams everything.
// A batch of zero or less falls back to DefaultBatchSize.
func NewPager(coll store.Collection, filter store.Document, batch int) *Pager {
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	return &Pager{
		coll:         coll,
		filter:       filter,
		initialBatch: batch,
		batchSize:    batch,
		hasMore:      true,
	}
}

// FetchMore pulls the next batch of documents in the cursor's native
// order. With reset, or on the first call, the remote cursor is
// (re)created and the batch size restarts at its initial value.
// Transport errors propagate to the caller; the pager stays usable for
// a subsequent FetchMore with reset.
func (p *Pager) FetchMore(ctx context.Context, reset bool) ([]store.Document, error) {
	if reset || p.cursor == nil {
		if p.cursor != nil {
			p.cursor.Close(ctx)
		}

		cursor, err := p.coll.Find(ctx, p.filter)
		if err != nil {
			p.cursor = nil
			return nil, err
		}

		p.cursor = cursor
		p.batchSize = p.initialBatch
		p.hasMore = true
	}

	docs := make([]store.Document, 0, p.batchSize)
	for len(docs) < p.batchSize {
		ok, err := p.cursor.HasNext(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			p.hasMore = false
			break
		}

		doc, err := p.cursor.Next(ctx)
		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	// A batch that filled exactly at the end of the result set should
	// still report exhaustion; peek once more to find out.
	if p.hasMore && len(docs) == p.batchSize {
		ok, err := p.cursor.HasNext(ctx)
		if err != nil {
			return nil, err
		}
		p.hasMore = ok
	}

	// Double regardless of how full this batch came back.
	p.batchSize *= 2

	return docs, nil
}

// HasMore reports the last-known exhaustion state. It is true before
// the first fetch.
func (p *Pager) HasMore() bool {
	return p.hasMore
}

// Close releases the remote cursor, if any.
func (p *Pager) Close(ctx context.Context) error {
	if p.cursor == nil {
		return nil
	}

	err := p.cursor.Close(ctx)
	p.cursor = nil
	return err
}
