package stage

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/pkgstage/internal/messages"
)

// DefaultDiffMaxLines is the default maximum number of diff lines kept per file.
const DefaultDiffMaxLines = 40

// Status describes what staging did to a destination file.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
)

// Change records one staged destination.
type Change struct {
	Name   string
	Path   string
	Status Status
	// Diff is a unified diff of the replaced content; empty unless diffs were requested.
	Diff      string
	Truncated bool
}

// Report lists staged destinations in the order they were written.
type Report struct {
	Changes []Change
}

// Paths returns the destination paths in staging order.
func (r Report) Paths() []string {
	out := make([]string, 0, len(r.Changes))
	for _, c := range r.Changes {
		out = append(out, c.Path)
	}
	return out
}

// Count returns how many changes have status s.
func (r Report) Count(s Status) int {
	n := 0
	for _, c := range r.Changes {
		if c.Status == s {
			n++
		}
	}
	return n
}

func normalizeDiffMaxLines(value int) int {
	if value <= 0 {
		return DefaultDiffMaxLines
	}
	return value
}

// classify compares the previous destination content with the new content.
// previous is nil when the destination did not exist.
func classify(previous []byte, existed bool, next []byte) Status {
	switch {
	case !existed:
		return StatusCreated
	case bytes.Equal(previous, next):
		return StatusUnchanged
	default:
		return StatusUpdated
	}
}

func buildChange(name string, relPath string, previous []byte, existed bool, next []byte, withDiff bool, maxLines int) (Change, error) {
	if strings.TrimSpace(relPath) == "" {
		return Change{}, fmt.Errorf(messages.StageDiffPathRequired)
	}
	change := Change{Name: name, Path: relPath, Status: classify(previous, existed, next)}
	if withDiff && change.Status == StatusUpdated {
		change.Diff, change.Truncated = renderTruncatedUnifiedDiff(
			relPath+" (previous)",
			relPath+" (staged)",
			string(previous),
			string(next),
			maxLines,
		)
	}
	return change, nil
}

func renderTruncatedUnifiedDiff(fromName string, toName string, fromContent string, toContent string, maxLines int) (string, bool) {
	limit := normalizeDiffMaxLines(maxLines)
	diff := udiff.Unified(fromName, toName, fromContent, toContent)
	lines := splitDiffLines(diff)
	if len(lines) <= limit {
		return ensureTrailingNewline(strings.Join(lines, "\n")), false
	}
	truncated := append(lines[:limit:limit], fmt.Sprintf(messages.StageDiffTruncatedFmt, limit))
	return ensureTrailingNewline(strings.Join(truncated, "\n")), true
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" || strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
