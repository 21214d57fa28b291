package stage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo      string
	moduleDir string
	builder   *recordingBuilder
}

type builderCall struct {
	verb string
	md   PackageMetadata
}

type recordingBuilder struct {
	calls []builderCall
	err   error
}

func (b *recordingBuilder) Build(_ context.Context, verb string, md PackageMetadata) error {
	b.calls = append(b.calls, builderCall{verb: verb, md: md})
	return b.err
}

// newFixture lays out <repo>/share with the default resources and a module at <repo>/lang/py3.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := t.TempDir()
	moduleDir := filepath.Join(repo, "lang", "py3")

	writeFile(t, filepath.Join(repo, "share", "VERSION.txt"), "1.11.1\n", 0o644)
	writeFile(t, filepath.Join(repo, "share", "schemas", "org", "apache", "avro", "ipc", "HandshakeRequest.avsc"), `{"name":"HandshakeRequest"}`, 0o644)
	writeFile(t, filepath.Join(repo, "share", "schemas", "org", "apache", "avro", "ipc", "HandshakeResponse.avsc"), `{"name":"HandshakeResponse"}`, 0o644)
	writeFile(t, filepath.Join(repo, "share", "test", "schemas", "interop.avsc"), `{"name":"Interop"}`, 0o644)

	require.NoError(t, os.MkdirAll(filepath.Join(moduleDir, "avro", "tests"), 0o755))
	writeFile(t, filepath.Join(moduleDir, "scripts", "avro"), "#!/usr/bin/env python3\n", 0o644)

	return &fixture{repo: repo, moduleDir: moduleDir, builder: &recordingBuilder{}}
}

func (f *fixture) options() Options {
	return Options{
		SharedRoot:     f.repo,
		ModuleDir:      f.moduleDir,
		Layout:         DefaultLayout(),
		Metadata:       DefaultMetadata(),
		Builder:        f.builder,
		System:         RealSystem{},
		RuntimeVersion: func() string { return "go1.25.6" },
	}
}

func (f *fixture) assembler(t *testing.T, mutate ...func(*Options)) *Assembler {
	t.Helper()
	opts := f.options()
	for _, m := range mutate {
		m(&opts)
	}
	a, err := New(opts)
	require.NoError(t, err)
	return a
}

func (f *fixture) module(rel string) string {
	return filepath.Join(f.moduleDir, filepath.FromSlash(rel))
}

func (f *fixture) shared(rel string) string {
	return filepath.Join(f.repo, filepath.FromSlash(rel))
}

func writeFile(t *testing.T, path string, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func fileMode(t *testing.T, path string) os.FileMode {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Mode().Perm()
}

// faultSystem wraps RealSystem and lets tests fail or observe individual calls.
type faultSystem struct {
	RealSystem
	writes    []string
	chmodErr  error
	writeErr  error
	chmodSeen []string
}

func (s *faultSystem) WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	s.writes = append(s.writes, filename)
	if s.writeErr != nil {
		return s.writeErr
	}
	return s.RealSystem.WriteFileAtomic(filename, data, perm)
}

func (s *faultSystem) Chmod(name string, mode os.FileMode) error {
	s.chmodSeen = append(s.chmodSeen, name)
	if s.chmodErr != nil {
		return s.chmodErr
	}
	return s.RealSystem.Chmod(name, mode)
}
