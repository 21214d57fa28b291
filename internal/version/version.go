// Package version validates package version strings and hosting runtime versions.
package version

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrEmpty reports a version that is blank after trimming.
var ErrEmpty = errors.New("version is empty")

// ErrUnsupportedRuntime reports a hosting runtime below the required minimum.
var ErrUnsupportedRuntime = errors.New("unsupported hosting runtime")

// Validate trims raw and checks that the result is a semantic version.
// The trimmed text is returned unchanged so callers can store it byte for byte.
func Validate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmpty
	}
	if _, err := semver.NewVersion(trimmed); err != nil {
		return "", fmt.Errorf("invalid version %q: %w", trimmed, err)
	}
	return trimmed, nil
}

// ParseMinimum parses a minimum runtime version such as "1.22" or "go1.22".
func ParseMinimum(minimum string) (*semver.Version, error) {
	return semver.NewVersion(normalizeRuntime(minimum))
}

// CheckRuntime reports an error wrapping ErrUnsupportedRuntime when actual is older than minimum.
// actual accepts runtime.Version() output ("go1.25.6", "go1.26rc1"); development
// toolchains ("devel ...") always satisfy the check.
func CheckRuntime(actual string, minimum string) error {
	actual = strings.TrimSpace(actual)
	if strings.HasPrefix(actual, "devel") {
		return nil
	}
	minVersion, err := ParseMinimum(minimum)
	if err != nil {
		return fmt.Errorf("invalid minimum runtime %q: %w", minimum, err)
	}
	current, err := semver.NewVersion(normalizeRuntime(actual))
	if err != nil {
		return fmt.Errorf("invalid runtime version %q: %w", actual, err)
	}
	if current.LessThan(minVersion) {
		return fmt.Errorf("%w: %s < %s", ErrUnsupportedRuntime, current.Original(), minVersion.Original())
	}
	return nil
}

// normalizeRuntime strips the "go" prefix and turns "1.26rc1" into "1.26-rc1".
func normalizeRuntime(v string) string {
	v = strings.TrimPrefix(strings.TrimSpace(v), "go")
	if fields := strings.Fields(v); len(fields) > 0 {
		v = fields[0]
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		if (c >= '0' && c <= '9') || c == '.' {
			continue
		}
		if c == '-' || c == '+' {
			return v
		}
		return v[:i] + "-" + v[i:]
	}
	return v
}
