package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiskWorkspace_EnsureCreatesEmptyFile(t *testing.T) {
	ws := NewDiskWorkspace()
	path := filepath.Join(t.TempDir(), "edits", "doc.json")

	if err := ws.Ensure(context.Background(), path); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file should exist: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("fresh file should be empty, got %d bytes", info.Size())
	}

	// A second Ensure is a no-op.
	if err := ws.Ensure(context.Background(), path); err != nil {
		t.Fatalf("repeated Ensure failed: %v", err)
	}
}

func TestDiskWorkspace_EnsureKeepsExistingContent(t *testing.T) {
	ws := NewDiskWorkspace()
	path := filepath.Join(t.TempDir(), "doc.json")

	if err := os.WriteFile(path, []byte("existing"), 0644); err != nil {
		t.Fatalf("prepare file failed: %v", err)
	}

	if err := ws.Ensure(context.Background(), path); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	text, err := ws.ReadText(path)
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if text != "existing" {
		t.Errorf("Ensure must not clobber existing content, got %q", text)
	}
}

func TestDiskWorkspace_DirtyLifecycle(t *testing.T) {
	ws := NewDiskWorkspace()
	path := filepath.Join(t.TempDir(), "doc.json")

	if err := ws.Ensure(context.Background(), path); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if ws.IsDirty(path) {
		t.Error("fresh buffer should be clean")
	}

	if err := ws.WriteText(path, "changed"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if !ws.IsDirty(path) {
		t.Error("WriteText should mark the buffer dirty")
	}

	if err := ws.Save(context.Background(), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if ws.IsDirty(path) {
		t.Error("Save should clear the dirty flag")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(content) != "changed" {
		t.Errorf("expected %q on disk, got %q", "changed", content)
	}
}

func TestDiskWorkspace_SaveFiresHandler(t *testing.T) {
	ws := NewDiskWorkspace()
	path := filepath.Join(t.TempDir(), "doc.json")

	var saved []string
	ws.OnSave(func(ctx context.Context, p string) error {
		saved = append(saved, p)
		return nil
	})

	if err := ws.Ensure(context.Background(), path); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if err := ws.WriteText(path, "x"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if err := ws.Save(context.Background(), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if len(saved) != 1 || saved[0] != path {
		t.Errorf("handler should fire once with the path, got %v", saved)
	}
}

func TestDiskWorkspace_HandlerFailureKeepsBufferDirty(t *testing.T) {
	ws := NewDiskWorkspace()
	path := filepath.Join(t.TempDir(), "doc.json")

	ws.OnSave(func(ctx context.Context, p string) error {
		return errors.New("upload refused")
	})

	if err := ws.Ensure(context.Background(), path); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if err := ws.WriteText(path, "x"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	if err := ws.Save(context.Background(), path); err == nil {
		t.Fatal("handler failure should surface from Save")
	}
	if !ws.IsDirty(path) {
		t.Error("buffer should stay dirty when the handler fails")
	}
}

func TestDiskWorkspace_ReadUnknownBuffer(t *testing.T) {
	ws := NewDiskWorkspace()

	if _, err := ws.ReadText("/nowhere/doc.json"); !errors.Is(err, ErrNoBuffer) {
		t.Errorf("expected ErrNoBuffer, got %v", err)
	}
	if err := ws.WriteText("/nowhere/doc.json", "x"); !errors.Is(err, ErrNoBuffer) {
		t.Errorf("expected ErrNoBuffer, got %v", err)
	}
}

func TestDiskWorkspace_NoTempFilesLeftBehind(t *testing.T) {
	ws := NewDiskWorkspace()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")

	if err := ws.Ensure(context.Background(), path); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if err := ws.WriteText(path, "content"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if err := ws.Save(context.Background(), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the saved file in %s, found %d entries", dir, len(entries))
	}
}
