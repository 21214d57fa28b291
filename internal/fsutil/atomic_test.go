package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomicCreatesAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "VERSION.txt")

	if err := WriteFileAtomic(path, []byte("1.11.0"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("1.11.1"), 0o640); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "1.11.1" {
		t.Fatalf("expected replaced content, got %q", string(data))
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("expected mode 0640, got %o", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "file.avsc")
	err := WriteFileAtomic(path, []byte("{}"), 0o644)
	if err == nil {
		t.Fatalf("expected error for missing directory")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist cause, got %v", err)
	}
}

func TestWriteFileAtomicRenameFailureRemovesTemp(t *testing.T) {
	dir := t.TempDir()
	orig := rename
	t.Cleanup(func() { rename = orig })
	rename = func(string, string) error { return errors.New("boom") }

	if err := WriteFileAtomic(filepath.Join(dir, "f"), []byte("x"), 0o644); err == nil {
		t.Fatalf("expected rename error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected temp file removal, found %d entries", len(entries))
	}
}
