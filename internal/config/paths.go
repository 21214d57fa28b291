package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/pkgstage/internal/messages"
	"github.com/conn-castle/pkgstage/internal/stage"
)

// ResolveSharedRoot returns the absolute shared root for moduleDir.
// An explicit layout.shared_root wins; "~" expands to the home directory and
// relative values are joined to moduleDir. Otherwise the root is moduleDir
// ascended layout.ascend times. The working directory is never consulted.
func (c *Config) ResolveSharedRoot(moduleDir string) (string, error) {
	if explicit := strings.TrimSpace(c.Layout.SharedRoot); explicit != "" {
		return ResolvePath(moduleDir, explicit)
	}
	ascend := stage.DefaultAscend
	if c.Layout.Ascend != nil {
		ascend = *c.Layout.Ascend
	}
	return stage.ResolveRoot(moduleDir, ascend)
}

// ResolvePath expands "~" in p and makes it absolute relative to base.
func ResolvePath(base string, p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigExpandPathFmt, base, "path", p, err)
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	if !filepath.IsAbs(base) {
		return "", fmt.Errorf(messages.StagePathNotAbsoluteFmt, "base dir", base)
	}
	return filepath.Join(base, expanded), nil
}

// MetadataPath returns the absolute descriptor path for moduleDir.
func (c *Config) MetadataPath(moduleDir string) string {
	return filepath.Join(moduleDir, filepath.FromSlash(c.Builder.MetadataFile))
}

// EnvFilePath returns the absolute builder env file path, or "" when none is configured.
func (c *Config) EnvFilePath(moduleDir string) string {
	if c.Builder.EnvFile == "" {
		return ""
	}
	return filepath.Join(moduleDir, filepath.FromSlash(c.Builder.EnvFile))
}
