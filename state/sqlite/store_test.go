package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStore_PutGet(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close(context.Background())

	if _, ok, err := store.Get(context.Background(), "missing"); err != nil || ok {
		t.Fatalf("missing key should report absent, ok=%v err=%v", ok, err)
	}

	if err := store.Put(context.Background(), "bindings", []byte(`{"a":"1"}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	value, ok, err := store.Get(context.Background(), "bindings")
	if err != nil || !ok {
		t.Fatalf("Get failed, ok=%v err=%v", ok, err)
	}
	if string(value) != `{"a":"1"}` {
		t.Errorf("unexpected value %q", value)
	}

	// Overwrite.
	if err := store.Put(context.Background(), "bindings", []byte(`{"a":"2"}`)); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}
	value, _, err = store.Get(context.Background(), "bindings")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != `{"a":"2"}` {
		t.Errorf("Put should replace, got %q", value)
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	if err := store.Put(context.Background(), "key", []byte("durable")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close(context.Background())

	value, ok, err := reopened.Get(context.Background(), "key")
	if err != nil || !ok {
		t.Fatalf("Get after reopen failed, ok=%v err=%v", ok, err)
	}
	if string(value) != "durable" {
		t.Errorf("expected durable value, got %q", value)
	}
}
