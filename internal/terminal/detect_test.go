package terminal

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminalRejectsPlainWriters(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestIsTerminalUsesFileDescriptor(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	var got int
	isTerminal = func(fd int) bool {
		got = fd
		return true
	}
	assert.True(t, IsTerminal(os.Stderr))
	assert.Equal(t, int(os.Stderr.Fd()), got)
}

func TestIsInteractiveFalseWithoutTTY(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	isTerminal = func(int) bool { return false }
	assert.False(t, IsInteractive())
}
