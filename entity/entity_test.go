package entity

import (
	"context"
	"errors"
	"testing"

	"github.com/sputier/docbrowse/store"
	"github.com/sputier/docbrowse/store/memory"
)

func TestFromNode_ClosedKindSet(t *testing.T) {
	coll := memory.NewMemoryCollection("people")

	tests := []struct {
		name string
		node Node
		want any
	}{
		{"collection", Node{Kind: KindCollection, Collection: coll}, &CollectionEntity{}},
		{"container document", Node{Kind: KindContainerDocument, ID: "a", Collection: coll}, &ContainerDocument{}},
		{"flat document", Node{Kind: KindFlatDocument, ID: "a", Collection: coll}, &FlatDocument{}},
	}

	for _, tt := range tests {
		ent, err := FromNode(tt.node)
		if err != nil {
			t.Errorf("%s: FromNode failed: %v", tt.name, err)
			continue
		}

		switch tt.want.(type) {
		case *CollectionEntity:
			if _, ok := ent.(*CollectionEntity); !ok {
				t.Errorf("%s: got %T", tt.name, ent)
			}
		case *ContainerDocument:
			if _, ok := ent.(*ContainerDocument); !ok {
				t.Errorf("%s: got %T", tt.name, ent)
			}
		case *FlatDocument:
			if _, ok := ent.(*FlatDocument); !ok {
				t.Errorf("%s: got %T", tt.name, ent)
			}
		}
	}

	if _, err := FromNode(Node{Kind: Kind(99)}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestFlatDocument_RoundTrip(t *testing.T) {
	coll := memory.NewMemoryCollection("people")
	if _, err := coll.InsertOne(context.Background(), store.Document{store.IDField: "ada", "age": 36}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	ent := NewFlatDocument(coll, "ada", "")
	if ent.Label() != "ada" {
		t.Errorf("label should default to the id, got %q", ent.Label())
	}

	data, err := ent.GetData(context.Background())
	if err != nil {
		t.Fatalf("GetData failed: %v", err)
	}
	doc := data.(store.Document)
	if doc["age"] != 36 {
		t.Errorf("expected age=36, got %v", doc["age"])
	}

	updated, err := ent.Update(context.Background(), store.Document{"age": 37})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	canonical := updated.(store.Document)
	if canonical["age"] != 37 {
		t.Errorf("expected age=37, got %v", canonical["age"])
	}
	if canonical[store.IDField] != "ada" {
		t.Errorf("update should keep the document addressable, got id %v", canonical[store.IDField])
	}
}

func TestFlatDocument_UpdateRejectsNonObject(t *testing.T) {
	coll := memory.NewMemoryCollection("people")
	ent := NewFlatDocument(coll, "ada", "")

	if _, err := ent.Update(context.Background(), []any{"not", "a", "document"}); !errors.Is(err, ErrDocumentExpected) {
		t.Errorf("expected ErrDocumentExpected, got %v", err)
	}
}

func TestContainerDocument_PartitionSurvivesUpdate(t *testing.T) {
	coll := memory.NewMemoryCollection("orders")
	if _, err := coll.InsertOne(context.Background(), store.Document{
		store.IDField: "o1",
		"region":      "eu",
		"total":       5,
	}); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	ent := NewContainerDocument(coll, "o1", "order one", "region", "eu")

	updated, err := ent.Update(context.Background(), store.Document{"total": 9})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	canonical := updated.(store.Document)
	if canonical["region"] != "eu" {
		t.Errorf("partition value should survive the replacement, got %v", canonical["region"])
	}
	if canonical["total"] != 9 {
		t.Errorf("expected total=9, got %v", canonical["total"])
	}
}

func TestCollectionEntity_RoundTrip(t *testing.T) {
	coll := memory.NewMemoryCollection("people")
	for _, id := range []string{"a", "b"} {
		if _, err := coll.InsertOne(context.Background(), store.Document{store.IDField: id, "v": 1}); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	ent := NewCollectionEntity(coll)
	if ent.Label() != "people" {
		t.Errorf("label should be the collection name, got %q", ent.Label())
	}

	data, err := ent.GetData(context.Background())
	if err != nil {
		t.Fatalf("GetData failed: %v", err)
	}
	docs := data.([]store.Document)
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}

	// Parsed JSON arrives as []any of objects.
	edited := []any{
		map[string]any{store.IDField: "a", "v": float64(10)},
		map[string]any{store.IDField: "b", "v": float64(20)},
	}

	updated, err := ent.Update(context.Background(), edited)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	canonical := updated.([]store.Document)
	if len(canonical) != 2 {
		t.Fatalf("expected 2 documents back, got %d", len(canonical))
	}
	if canonical[0]["v"] != float64(10) || canonical[1]["v"] != float64(20) {
		t.Errorf("bulk replace should have applied, got %v", canonical)
	}
}

func TestCollectionEntity_UpdateRequiresIDs(t *testing.T) {
	coll := memory.NewMemoryCollection("people")
	ent := NewCollectionEntity(coll)

	_, err := ent.Update(context.Background(), []any{map[string]any{"v": 1}})
	if !errors.Is(err, ErrDocumentListExpected) {
		t.Errorf("expected ErrDocumentListExpected, got %v", err)
	}
}
