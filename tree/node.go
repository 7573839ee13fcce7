package tree

import (
	"context"

	"github.com/sputier/docbrowse/entity"
	"github.com/sputier/docbrowse/store"
)

// Resolver locates a live tree node for a persisted entity id.
// It returns nil with no error when the id does not resolve, e.g.
// because the entity was deleted or permissions changed.
type Resolver interface {
	FindNode(ctx context.Context, id string) (*entity.Node, error)
}

// DocumentNode is a single document shown as a child of its
// collection.
type DocumentNode struct {
	ID       string
	Label    string
	Document store.Document
}

func newDocumentNode(doc store.Document) *DocumentNode {
	node := &DocumentNode{Document: doc}

	if id, ok := store.DocumentID(doc); ok {
		node.ID = id
		node.Label = id
	}
	if name, ok := doc["name"].(string); ok && name != "" {
		node.Label = name
	}

	return node
}
