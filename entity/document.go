package entity

import (
	"context"
	"fmt"

	"github.com/sputier/docbrowse/store"
)

// FlatDocument edits a single document addressed by its id alone.
type FlatDocument struct {
	coll  store.Collection
	id    string
	label string
}

func NewFlatDocument(coll store.Collection, id string, label string) *FlatDocument {
	if label == "" {
		label = id
	}

	return &FlatDocument{
		coll:  coll,
		id:    id,
		label: label,
	}
}

func (fd *FlatDocument) Label() string {
	return fd.label
}

func (fd *FlatDocument) ID() string {
	return fd.id
}

func (fd *FlatDocument) filter() store.Document {
	return store.Document{store.IDField: fd.id}
}

func (fd *FlatDocument) GetData(ctx context.Context) (any, error) {
	return fd.coll.FindOne(ctx, fd.filter())
}

func (fd *FlatDocument) Update(ctx context.Context, data any) (any, error) {
	doc, err := asDocument(data)
	if err != nil {
		return nil, err
	}

	return fd.coll.ReplaceOne(ctx, fd.filter(), doc)
}

// ContainerDocument edits a single document addressed within a
// partitioned container. The partition value participates in every
// filter so the store can route the operation.
type ContainerDocument struct {
	coll  store.Collection
	id    string
	label string

	partitionField string
	partitionValue any
}

func NewContainerDocument(coll store.Collection, id string, label string, partitionField string, partitionValue any) *ContainerDocument {
	if label == "" {
		label = id
	}

	return &ContainerDocument{
		coll:           coll,
		id:             id,
		label:          label,
		partitionField: partitionField,
		partitionValue: partitionValue,
	}
}

func (cd *ContainerDocument) Label() string {
	return cd.label
}

func (cd *ContainerDocument) ID() string {
	return cd.id
}

func (cd *ContainerDocument) filter() store.Document {
	filter := store.Document{store.IDField: cd.id}
	if cd.partitionField != "" {
		filter[cd.partitionField] = cd.partitionValue
	}
	return filter
}

func (cd *ContainerDocument) GetData(ctx context.Context) (any, error) {
	return cd.coll.FindOne(ctx, cd.filter())
}

func (cd *ContainerDocument) Update(ctx context.Context, data any) (any, error) {
	doc, err := asDocument(data)
	if err != nil {
		return nil, err
	}

	// The partition value is part of the document's address and must
	// survive the replacement.
	if cd.partitionField != "" {
		if _, ok := doc[cd.partitionField]; !ok {
			doc[cd.partitionField] = cd.partitionValue
		}
	}

	return cd.coll.ReplaceOne(ctx, cd.filter(), doc)
}

// asDocument narrows parsed buffer content to a single document.
func asDocument(data any) (store.Document, error) {
	switch d := data.(type) {
	case store.Document:
		return d, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrDocumentExpected, data)
	}
}
