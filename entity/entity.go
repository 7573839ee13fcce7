package entity

import (
	"context"
	"errors"

	"github.com/sputier/docbrowse/store"
)

// Entity errors returned by variant constructors and updates.
var (
	ErrUnknownKind          = errors.New("entity: unrecognized entity kind")
	ErrDocumentExpected     = errors.New("entity: expected a single document object")
	ErrDocumentListExpected = errors.New("entity: expected a list of document objects")
)

// Entity is the capability contract every editable remote entity
// exposes. GetData returns the current remote value; Update writes a
// new value and returns the canonical post-write representation.
type Entity interface {
	// Label is the human-readable name shown in prompts and logs.
	Label() string

	// ID is the stable identifier persisted in the binding table.
	ID() string

	// GetData fetches the entity's current remote data.
	GetData(ctx context.Context) (any, error)

	// Update writes data to the remote store and returns the stored
	// canonical form.
	Update(ctx context.Context, data any) (any, error)
}

// Kind identifies the closed set of entity variants.
type Kind int

const (
	// KindCollection edits a whole collection as a document list.
	KindCollection Kind = iota

	// KindContainerDocument edits a single document addressed within
	// a partitioned container.
	KindContainerDocument

	// KindFlatDocument edits a single document addressed by id alone.
	KindFlatDocument
)

// Node describes a resolved tree node during binding recovery.
type Node struct {
	Kind  Kind
	ID    string
	Label string

	Collection store.Collection

	// Partition addressing, set for container documents only.
	PartitionField string
	PartitionValue any
}

// FromNode classifies a resolved node into its entity variant.
// Returns ErrUnknownKind for kinds outside the closed set.
func FromNode(n Node) (Entity, error) {
	switch n.Kind {
	case KindCollection:
		return NewCollectionEntity(n.Collection), nil
	case KindContainerDocument:
		return NewContainerDocument(n.Collection, n.ID, n.Label, n.PartitionField, n.PartitionValue), nil
	case KindFlatDocument:
		return NewFlatDocument(n.Collection, n.ID, n.Label), nil
	default:
		return nil, ErrUnknownKind
	}
}
