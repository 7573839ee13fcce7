package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sputier/docbrowse/store"
	"github.com/sputier/docbrowse/store/memory"
)

func newExecutor(t *testing.T) (*Executor, *memory.MemoryCollection) {
	t.Helper()

	coll := memory.NewMemoryCollection("orders")
	return NewExecutor(coll), coll
}

func TestExecutor_InsertAndFindOne(t *testing.T) {
	exec, _ := newExecutor(t)

	out, err := exec.Execute(context.Background(), "insertOne", `{"_id": "a", "total": 12}`)
	if err != nil {
		t.Fatalf("insertOne failed: %v", err)
	}
	if !strings.Contains(out, `"_id": "a"`) {
		t.Errorf("insert result should echo the document: %s", out)
	}

	out, err = exec.Execute(context.Background(), "findOne", `{"_id": "a"}`)
	if err != nil {
		t.Fatalf("findOne failed: %v", err)
	}
	if !strings.Contains(out, `"total": 12`) {
		t.Errorf("unexpected findOne output: %s", out)
	}
}

func TestExecutor_FindOneNoMatchIsAnError(t *testing.T) {
	exec, _ := newExecutor(t)

	_, err := exec.Execute(context.Background(), "findOne", `{"_id": "missing"}`)
	if !errors.Is(err, store.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestExecutor_InsertMany(t *testing.T) {
	exec, coll := newExecutor(t)

	if _, err := exec.Execute(context.Background(), "insertMany",
		`[{"_id": "a"}, {"_id": "b"}, {"_id": "c"}]`); err != nil {
		t.Fatalf("insertMany failed: %v", err)
	}

	n, err := coll.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 documents, got %d", n)
	}
}

func TestExecutor_DeleteAliases(t *testing.T) {
	exec, coll := newExecutor(t)

	if _, err := exec.Execute(context.Background(), "insertMany",
		`[{"_id": "a", "done": true}, {"_id": "b", "done": true}, {"_id": "c"}]`); err != nil {
		t.Fatalf("insertMany failed: %v", err)
	}

	out, err := exec.Execute(context.Background(), "remove", `{"done": true}`)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !strings.Contains(out, `"deletedCount": 2`) {
		t.Errorf("unexpected remove output: %s", out)
	}

	n, err := coll.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 remaining document, got %d", n)
	}
}

func TestExecutor_CountWithEmptyArgument(t *testing.T) {
	exec, _ := newExecutor(t)

	if _, err := exec.Execute(context.Background(), "insertOne", `{"_id": "a"}`); err != nil {
		t.Fatalf("insertOne failed: %v", err)
	}

	out, err := exec.Execute(context.Background(), "count", "")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if !strings.Contains(out, `"count": 1`) {
		t.Errorf("unexpected count output: %s", out)
	}
}

func TestExecutor_Drop(t *testing.T) {
	exec, coll := newExecutor(t)

	out, err := exec.Execute(context.Background(), "drop", "")
	if err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	if !strings.Contains(out, `"dropped": "orders"`) {
		t.Errorf("unexpected drop output: %s", out)
	}

	if _, err := coll.Count(context.Background(), nil); err == nil {
		t.Error("counting a dropped collection should fail")
	}
}

func TestExecutor_BulkWrite(t *testing.T) {
	exec, coll := newExecutor(t)

	if _, err := exec.Execute(context.Background(), "insertOne", `{"_id": "a", "v": 1}`); err != nil {
		t.Fatalf("insertOne failed: %v", err)
	}

	out, err := exec.Execute(context.Background(), "bulkWrite", `[
		{"insertOne": {"document": {"_id": "b", "v": 2}}},
		{"replaceOne": {"filter": {"_id": "a"}, "replacement": {"v": 10}}},
		{"deleteMany": {"filter": {"_id": "missing"}}}
	]`)
	if err != nil {
		t.Fatalf("bulkWrite failed: %v", err)
	}
	if !strings.Contains(out, `"InsertedCount": 1`) {
		t.Errorf("unexpected bulkWrite output: %s", out)
	}

	doc, err := coll.FindOne(context.Background(), store.Document{"_id": "a"})
	if err != nil {
		t.Fatalf("findOne failed: %v", err)
	}
	if doc["v"] != float64(10) {
		t.Errorf("replaceOne should have run, got v=%v", doc["v"])
	}
}

func TestExecutor_FailuresPropagate(t *testing.T) {
	exec, _ := newExecutor(t)

	if _, err := exec.Execute(context.Background(), "shutdown", ""); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}

	if _, err := exec.Execute(context.Background(), "findOne", `{not json}`); !errors.Is(err, ErrBadArgument) {
		t.Errorf("expected ErrBadArgument, got %v", err)
	}

	if _, err := exec.Execute(context.Background(), "bulkWrite", `[{}]`); !errors.Is(err, ErrBadArgument) {
		t.Errorf("expected ErrBadArgument for empty op, got %v", err)
	}
}
