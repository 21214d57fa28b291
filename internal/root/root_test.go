package root

import (
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"
)

func TestFindModuleDirFound(t *testing.T) {
	module := t.TempDir()
	if err := os.WriteFile(filepath.Join(module, "pkgstage.toml"), nil, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	sub := filepath.Join(module, "avro", "tests")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}

	got, found, err := FindModuleDir(sub)
	if err != nil {
		t.Fatalf("FindModuleDir error: %v", err)
	}
	if !found {
		t.Fatalf("expected module to be found")
	}
	if got != module {
		t.Fatalf("expected module %s, got %s", module, got)
	}
}

func TestFindModuleDirMissing(t *testing.T) {
	start := t.TempDir()
	if err := os.MkdirAll(filepath.Join(start, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}
	got, found, err := FindModuleDir(start)
	if err != nil {
		t.Fatalf("FindModuleDir error: %v", err)
	}
	if found {
		t.Fatalf("expected not found, got %s", got)
	}
}

func TestFindModuleDirStopsAtRepoBoundary(t *testing.T) {
	outer := t.TempDir()
	if err := os.WriteFile(filepath.Join(outer, "pkgstage.toml"), nil, 0o644); err != nil {
		t.Fatalf("write outer config: %v", err)
	}
	repo := filepath.Join(outer, "checkout")
	if err := os.MkdirAll(filepath.Join(repo, "lang", "py3"), 0o755); err != nil {
		t.Fatalf("mkdir module: %v", err)
	}
	if err := os.WriteFile(filepath.Join(repo, ".git"), []byte("gitdir: ../.git/worktrees/x\n"), 0o644); err != nil {
		t.Fatalf("write .git file: %v", err)
	}

	_, found, err := FindModuleDir(filepath.Join(repo, "lang", "py3"))
	if err != nil {
		t.Fatalf("FindModuleDir error: %v", err)
	}
	if found {
		t.Fatalf("expected search to stop at the checkout root")
	}
}

func TestFindModuleDirConfigIsDirectory(t *testing.T) {
	module := t.TempDir()
	if err := os.MkdirAll(filepath.Join(module, "pkgstage.toml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, _, err := FindModuleDir(module); err == nil {
		t.Fatalf("expected error for directory pkgstage.toml")
	}
}

func TestFindModuleDirRequiresStart(t *testing.T) {
	if _, _, err := FindModuleDir(""); err == nil {
		t.Fatal("expected FindModuleDir to reject empty start")
	}
}

func TestFindModuleDirGitSpecialFileErrors(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("mkfifo is not supported on windows")
	}

	start := t.TempDir()
	if err := syscall.Mkfifo(filepath.Join(start, ".git"), 0o644); err != nil {
		t.Fatalf("mkfifo .git: %v", err)
	}
	if _, _, err := FindModuleDir(start); err == nil {
		t.Fatal("expected error when .git is neither directory nor regular file")
	}
}
