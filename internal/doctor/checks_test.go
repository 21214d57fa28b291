package doctor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/pkgstage/internal/messages"
	"github.com/conn-castle/pkgstage/internal/stage"
)

// newTarget lays out a healthy module two levels below its shared root.
func newTarget(t *testing.T) Target {
	t.Helper()
	repo := t.TempDir()
	moduleDir := filepath.Join(repo, "lang", "py3")
	layout := stage.DefaultLayout()

	write := func(path string, content string) {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write(filepath.Join(repo, filepath.FromSlash(layout.VersionFile)), "1.11.1\n")
	for _, res := range layout.Resources {
		write(filepath.Join(repo, filepath.FromSlash(res.Source)), "{}")
	}
	require.NoError(t, os.MkdirAll(filepath.Join(moduleDir, "avro", "tests"), 0o755))
	write(filepath.Join(moduleDir, filepath.FromSlash(layout.Launcher)), "#!/bin/sh\n")

	return Target{
		SharedRoot:     repo,
		ModuleDir:      moduleDir,
		Layout:         layout,
		BuilderCommand: []string{"/bin/sh"},
		RuntimeVersion: "go1.25.6",
	}
}

func statuses(results []Result) []Status {
	out := make([]Status, 0, len(results))
	for _, r := range results {
		out = append(out, r.Status)
	}
	return out
}

func TestRunHealthyModule(t *testing.T) {
	target := newTarget(t)
	results := Run(target)

	require.Len(t, results, 8)
	for _, r := range results {
		assert.Equal(t, StatusOK, r.Status, "%s: %s", r.CheckName, r.Message)
	}
	assert.False(t, HasFailure(results))
	assert.Equal(t, "1.11.1 -> avro/VERSION.txt", results[2].Message)
	assert.Contains(t, results[6].Message, "mode 0644")
}

func TestRunSkipsSharedRootDependentsWhenRootMissing(t *testing.T) {
	target := newTarget(t)
	target.SharedRoot = filepath.Join(target.SharedRoot, "missing")

	results := Run(target)
	assert.Equal(t, []Status{StatusOK, StatusFail, StatusOK, StatusOK}, statuses(results))
	assert.True(t, HasFailure(results))
	assert.NotEmpty(t, results[1].Recommendation)
}

func TestCheckRuntime(t *testing.T) {
	assert.Equal(t, StatusOK, CheckRuntime("go1.25.6", "1.22").Status)
	assert.Equal(t, StatusOK, CheckRuntime("go1.10", "").Status)

	r := CheckRuntime("go1.21.0", "1.22")
	assert.Equal(t, StatusFail, r.Status)
	assert.Contains(t, r.Recommendation, "1.22")
}

func TestCheckSharedRootNotDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	r := CheckSharedRoot(path)
	assert.Equal(t, StatusFail, r.Status)
	assert.Contains(t, r.Message, "not a directory")
}

func TestCheckVersionFailures(t *testing.T) {
	target := newTarget(t)
	versionPath := filepath.Join(target.SharedRoot, filepath.FromSlash(target.Layout.VersionFile))

	require.NoError(t, os.WriteFile(versionPath, []byte("  \n"), 0o644))
	assert.Equal(t, StatusFail, CheckVersion(target.SharedRoot, target.ModuleDir, target.Layout).Status)

	require.NoError(t, os.WriteFile(versionPath, []byte("1.11.1"), 0o644))
	require.NoError(t, os.RemoveAll(filepath.Join(target.ModuleDir, "avro")))
	r := CheckVersion(target.SharedRoot, target.ModuleDir, target.Layout)
	assert.Equal(t, StatusFail, r.Status)
	assert.Equal(t, messages.DoctorDestDirRecommend, r.Recommendation)

	require.NoError(t, os.Remove(versionPath))
	assert.Equal(t, StatusFail, CheckVersion(target.SharedRoot, target.ModuleDir, target.Layout).Status)
}

func TestCheckResourcesReportsEachEntry(t *testing.T) {
	target := newTarget(t)
	missing := target.Layout.Resources[1]
	require.NoError(t, os.Remove(filepath.Join(target.SharedRoot, filepath.FromSlash(missing.Source))))

	results := CheckResources(target.SharedRoot, target.ModuleDir, target.Layout)
	assert.Equal(t, []Status{StatusOK, StatusFail, StatusOK}, statuses(results))
	assert.Contains(t, results[1].Message, missing.Name)
}

func TestCheckResourcesSourceIsDirectory(t *testing.T) {
	target := newTarget(t)
	src := filepath.Join(target.SharedRoot, filepath.FromSlash(target.Layout.Resources[0].Source))
	require.NoError(t, os.Remove(src))
	require.NoError(t, os.Mkdir(src, 0o755))

	results := CheckResources(target.SharedRoot, target.ModuleDir, target.Layout)
	assert.Equal(t, StatusFail, results[0].Status)
}

func TestCheckLauncherMissing(t *testing.T) {
	target := newTarget(t)
	require.NoError(t, os.Remove(filepath.Join(target.ModuleDir, filepath.FromSlash(target.Layout.Launcher))))
	assert.Equal(t, StatusFail, CheckLauncher(target.ModuleDir, target.Layout).Status)
}

func TestCheckBuilder(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })

	assert.Equal(t, StatusWarn, CheckBuilder(nil).Status)

	lookPath = func(file string) (string, error) { return "", errors.New("not found") }
	r := CheckBuilder([]string{"python3", "setup.py"})
	assert.Equal(t, StatusFail, r.Status)
	assert.Contains(t, r.Message, "python3")

	lookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	r = CheckBuilder([]string{"python3"})
	assert.Equal(t, StatusOK, r.Status)
	assert.Equal(t, "/usr/bin/python3", r.Message)
}
