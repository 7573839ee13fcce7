package entity

import (
	"context"
	"fmt"

	"github.com/sputier/docbrowse/store"
)

// CollectionEntity edits a whole collection as an ordered list of
// documents. Updates are applied as a bulk replace keyed by document
// id, then the collection is re-read so the caller sees the stored
// canonical form.
type CollectionEntity struct {
	coll store.Collection
}

func NewCollectionEntity(coll store.Collection) *CollectionEntity {
	return &CollectionEntity{coll: coll}
}

func (ce *CollectionEntity) Label() string {
	return ce.coll.Name()
}

func (ce *CollectionEntity) ID() string {
	return ce.coll.Name()
}

func (ce *CollectionEntity) GetData(ctx context.Context) (any, error) {
	return ce.readAll(ctx)
}

func (ce *CollectionEntity) Update(ctx context.Context, data any) (any, error) {
	docs, err := asDocumentList(data)
	if err != nil {
		return nil, err
	}

	ops := make([]store.WriteOp, 0, len(docs))
	for i, doc := range docs {
		id, ok := doc[store.IDField]
		if !ok {
			return nil, fmt.Errorf("%w: document %d has no %s field",
				ErrDocumentListExpected, i, store.IDField)
		}

		ops = append(ops, store.WriteOp{
			Type:     store.OpReplace,
			Filter:   store.Document{store.IDField: id},
			Document: doc,
		})
	}

	if _, err := ce.coll.BulkWrite(ctx, ops); err != nil {
		return nil, err
	}

	return ce.readAll(ctx)
}

func (ce *CollectionEntity) readAll(ctx context.Context) ([]store.Document, error) {
	cur, err := ce.coll.Find(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := make([]store.Document, 0)
	for {
		ok, err := cur.HasNext(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		doc, err := cur.Next(ctx)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// asDocumentList narrows parsed buffer content to a document list.
// Both typed and freshly-parsed JSON shapes are accepted.
func asDocumentList(data any) ([]store.Document, error) {
	switch d := data.(type) {
	case []store.Document:
		return d, nil
	case []any:
		docs := make([]store.Document, 0, len(d))
		for i, item := range d {
			doc, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %T",
					ErrDocumentListExpected, i, item)
			}
			docs = append(docs, doc)
		}
		return docs, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrDocumentListExpected, data)
	}
}
