package config

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/conn-castle/pkgstage/internal/messages"
	"github.com/conn-castle/pkgstage/internal/version"
)

// Validate checks the config after defaults are applied.
func (c *Config) Validate(source string) error {
	if c.Layout.Ascend != nil && *c.Layout.Ascend < 0 {
		return fmt.Errorf(messages.ConfigAscendNegativeFmt, source, *c.Layout.Ascend)
	}
	for _, f := range []struct{ field, value string }{
		{"layout.version_file", c.Layout.VersionFile},
		{"layout.version_dest", c.Layout.VersionDest},
		{"layout.launcher", c.Layout.Launcher},
	} {
		if err := validateRelPath(source, f.field, f.value); err != nil {
			return err
		}
	}
	if c.Layout.MinRuntime != nil && strings.TrimSpace(*c.Layout.MinRuntime) != "" {
		if _, err := version.ParseMinimum(*c.Layout.MinRuntime); err != nil {
			return fmt.Errorf(messages.ConfigMinRuntimeInvalidFmt, source, *c.Layout.MinRuntime, err)
		}
	}

	if len(c.Resources) == 0 {
		return fmt.Errorf(messages.ConfigResourcesEmptyFmt, source)
	}
	versionDest := path.Clean(c.Layout.VersionDest)
	seen := make(map[string]int, len(c.Resources))
	for i, res := range c.Resources {
		if strings.TrimSpace(res.Name) == "" {
			return fmt.Errorf(messages.ConfigResourceNameRequiredFmt, source, i)
		}
		if err := validateRelPath(source, fmt.Sprintf("resources[%d].source", i), res.Source); err != nil {
			return err
		}
		if err := validateRelPath(source, fmt.Sprintf("resources[%d].dest", i), res.Dest); err != nil {
			return err
		}
		dest := path.Clean(res.Dest)
		if dest == versionDest {
			return fmt.Errorf(messages.ConfigResourceVersionDestFmt, source, i, res.Dest)
		}
		if prev, ok := seen[dest]; ok {
			return fmt.Errorf(messages.ConfigResourceDuplicateDestFmt, source, i, res.Dest, prev)
		}
		seen[dest] = i
	}

	if strings.TrimSpace(c.Metadata.Name) == "" {
		return fmt.Errorf(messages.ConfigFieldRequiredFmt, source, "metadata.name")
	}

	if c.Builder.Timeout != "" {
		d, err := time.ParseDuration(c.Builder.Timeout)
		if err != nil {
			return fmt.Errorf(messages.ConfigBuilderTimeoutInvalidFmt, source, c.Builder.Timeout, err)
		}
		if d < 0 {
			return fmt.Errorf(messages.ConfigBuilderTimeoutNegFmt, source, d)
		}
	}
	if c.Builder.EnvFile != "" {
		if err := validateRelPath(source, "builder.env_file", c.Builder.EnvFile); err != nil {
			return err
		}
	}
	return validateRelPath(source, "builder.metadata_file", c.Builder.MetadataFile)
}

// validateRelPath requires a non-empty, slash-separated path that stays under its root.
func validateRelPath(source string, field string, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf(messages.ConfigFieldRequiredFmt, source, field)
	}
	if path.IsAbs(value) || filepath.IsAbs(value) {
		return fmt.Errorf(messages.ConfigFieldAbsoluteFmt, source, field, value)
	}
	if !filepath.IsLocal(filepath.FromSlash(value)) {
		return fmt.Errorf(messages.ConfigFieldEscapesFmt, source, field, value)
	}
	return nil
}
