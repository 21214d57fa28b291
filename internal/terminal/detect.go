// Package terminal reports whether output streams are attached to a terminal.
package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

type fdWriter interface {
	Fd() uintptr
}

var isTerminal = term.IsTerminal

// IsTerminal reports whether w is backed by a terminal file descriptor.
// Buffers and pipes report false.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isTerminal(int(f.Fd()))
}

// IsInteractive reports whether stdin and stderr are both terminals.
func IsInteractive() bool {
	return IsTerminal(os.Stdin) && IsTerminal(os.Stderr)
}
