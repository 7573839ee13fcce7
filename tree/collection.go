package tree

import (
	"context"

	"github.com/sputier/docbrowse/command"
	"github.com/sputier/docbrowse/store"
)

// CollectionNode is a collection shown as an expandable tree item.
// Children are documents, loaded lazily in growing batches; the node
// also fronts the collection command language.
type CollectionNode struct {
	coll   store.Collection
	filter store.Document
	batch  int

	pager    *Pager
	children []*DocumentNode

	exec *command.Executor
}

// NewCollectionNode creates a node over coll. The filter restricts
// which documents appear as children and is fixed for the node's
// lifetime. A batch of zero or less uses DefaultBatchSize.
func NewCollectionNode(coll store.Collection, filter store.Document, batch int) *CollectionNode {
	return &CollectionNode{
		coll:   coll,
		filter: filter,
		batch:  batch,
		exec:   command.NewExecutor(coll),
	}
}

// Label returns the collection name.
func (cn *CollectionNode) Label() string {
	return cn.coll.Name()
}

// LoadMoreChildren fetches the next batch of document children.
// With clearCache, the existing cursor is released and loading
// restarts from the first document with the initial batch size.
func (cn *CollectionNode) LoadMoreChildren(ctx context.Context, clearCache bool) ([]*DocumentNode, error) {
	if clearCache || cn.pager == nil {
		if cn.pager != nil {
			cn.pager.Close(ctx)
		}
		cn.pager = NewPager(cn.coll, cn.filter, cn.batch)
		cn.children = cn.children[:0]
	}

	docs, err := cn.pager.FetchMore(ctx, false)
	if err != nil {
		return nil, err
	}

	batch := make([]*DocumentNode, 0, len(docs))
	for _, doc := range docs {
		batch = append(batch, newDocumentNode(doc))
	}

	cn.children = append(cn.children, batch...)
	return batch, nil
}

// HasMoreChildren reports whether another LoadMoreChildren call could
// return documents.
func (cn *CollectionNode) HasMoreChildren() bool {
	if cn.pager == nil {
		return true
	}
	return cn.pager.HasMore()
}

// Children returns all children loaded so far.
func (cn *CollectionNode) Children() []*DocumentNode {
	return cn.children
}

// ClearCache releases the cursor and forgets loaded children. The
// next LoadMoreChildren starts over.
func (cn *CollectionNode) ClearCache(ctx context.Context) error {
	cn.children = nil

	if cn.pager == nil {
		return nil
	}

	err := cn.pager.Close(ctx)
	cn.pager = nil
	return err
}

// Execute runs a collection command and returns its rendered result.
func (cn *CollectionNode) Execute(ctx context.Context, name string, arg string) (string, error) {
	return cn.exec.Execute(ctx, name, arg)
}
