package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, execute([]string{"pkgstage", "--version"}, &out, &out))
	assert.Contains(t, out.String(), Version)
}

func TestRunMainSuccess(t *testing.T) {
	var out bytes.Buffer
	called := false
	runMain([]string{"pkgstage", "--version"}, &out, &out, func(int) { called = true })
	assert.False(t, called)
}

func TestRunMainUnknownFlag(t *testing.T) {
	var out bytes.Buffer
	code := 0
	runMain([]string{"pkgstage", "--nope"}, &out, &out, func(c int) { code = c })
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "unknown flag")
}

func TestRunMainUsesExecuteFunc(t *testing.T) {
	orig := executeFunc
	t.Cleanup(func() { executeFunc = orig })
	executeFunc = func([]string, io.Writer, io.Writer) error {
		return errors.New("boom")
	}

	var out bytes.Buffer
	code := 0
	runMain([]string{"pkgstage"}, &out, &out, func(c int) { code = c })
	assert.Equal(t, 1, code)
	assert.Equal(t, "boom\n", out.String())
}

func TestExitCode(t *testing.T) {
	exitErr := exitErrorWithCode(t, 7)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "plain error", err: errors.New("x"), want: 1},
		{name: "exit error", err: exitErr, want: 7},
		{name: "wrapped exit error", err: fmt.Errorf("builder: %w", exitErr), want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = origVersion, origCommit, origDate })

	Version, Commit, BuildDate = "v1.0.0", "unknown", "unknown"
	assert.Equal(t, "v1.0.0", versionString())

	Commit = "abc123"
	assert.Equal(t, "v1.0.0 (commit abc123)", versionString())

	BuildDate = "2026-01-02"
	assert.Equal(t, "v1.0.0 (commit abc123, built 2026-01-02)", versionString())
}

func exitErrorWithCode(t *testing.T, code int) *exec.ExitError {
	t.Helper()
	err := exec.Command("/bin/sh", "-c", fmt.Sprintf("exit %d", code)).Run()
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr))
	return exitErr
}
