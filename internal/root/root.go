// Package root locates the module directory that owns a pkgstage.toml.
package root

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/pkgstage/internal/config"
	"github.com/conn-castle/pkgstage/internal/messages"
)

// FindModuleDir walks up from start looking for a pkgstage.toml. The search
// stops at the first directory holding a .git entry so a config in an
// unrelated parent checkout is never picked up.
func FindModuleDir(start string) (string, bool, error) {
	if start == "" {
		return "", false, errors.New(messages.RootStartPathRequired)
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, config.DefaultFileName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && info.Mode().IsRegular():
			return dir, true, nil
		case err == nil:
			return "", false, fmt.Errorf(messages.RootConfigNotFileFmt, candidate)
		case !errors.Is(err, os.ErrNotExist):
			return "", false, fmt.Errorf(messages.RootStatFailedFmt, candidate, err)
		}

		boundary, err := isRepoBoundary(dir)
		if err != nil {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if boundary || parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// isRepoBoundary reports whether dir is the top of a git checkout or worktree.
func isRepoBoundary(dir string) (bool, error) {
	gitPath := filepath.Join(dir, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(messages.RootStatFailedFmt, gitPath, err)
	}
	if info.IsDir() || info.Mode().IsRegular() {
		return true, nil
	}
	return false, fmt.Errorf(messages.RootGitInvalidFmt, gitPath)
}
