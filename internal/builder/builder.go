// Package builder implements the package-builder collaborators that receive the
// assembled metadata descriptor.
package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/pkgstage/internal/fsutil"
	"github.com/conn-castle/pkgstage/internal/messages"
	"github.com/conn-castle/pkgstage/internal/stage"
)

// Environment variables exported to the builder command.
const (
	EnvMetadata = "PKGSTAGE_METADATA"
	EnvVerb     = "PKGSTAGE_VERB"
	EnvVersion  = "PKGSTAGE_VERSION"
)

var execCommandContext = exec.CommandContext

// Exec runs an external builder command. The descriptor is written as TOML to
// MetadataPath first, and the verb is appended as the final argument.
type Exec struct {
	Command      []string
	Dir          string
	MetadataPath string
	// Timeout bounds the command; zero means no limit.
	Timeout time.Duration
	Stdout  io.Writer
	Stderr  io.Writer
	// Env is the base environment; nil uses os.Environ().
	Env    []string
	Logger *log.Logger
}

// Build writes the descriptor and runs the command. A non-zero exit is returned
// wrapped so callers can recover the *exec.ExitError.
func (b *Exec) Build(ctx context.Context, verb string, md stage.PackageMetadata) error {
	if len(b.Command) == 0 || strings.TrimSpace(b.Command[0]) == "" {
		return errors.New(messages.BuilderCommandRequired)
	}
	if strings.TrimSpace(verb) == "" {
		return errors.New(messages.BuilderVerbRequired)
	}
	if strings.TrimSpace(b.MetadataPath) == "" {
		return errors.New(messages.BuilderMetadataPathRequired)
	}
	if err := WriteMetadata(b.MetadataPath, md); err != nil {
		return err
	}

	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, b.Command[1:]...), verb)
	name := filepath.Base(b.Command[0])
	if b.Logger != nil {
		b.Logger.Info(fmt.Sprintf(messages.BuilderRunningFmt, b.Command[0], strings.Join(args, " ")))
	}
	// #nosec G204 -- the command comes from the module's own config or the invoking user.
	cmd := execCommandContext(ctx, b.Command[0], args...)
	cmd.Dir = b.Dir
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr
	env := b.Env
	if env == nil {
		env = os.Environ()
	}
	cmd.Env = append(append([]string{}, env...),
		EnvMetadata+"="+b.MetadataPath,
		EnvVerb+"="+verb,
		EnvVersion+"="+md.Version,
	)
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf(messages.BuilderTimeoutFmt, name, b.Timeout, err)
		}
		return fmt.Errorf(messages.BuilderExitedFmt, name, err)
	}
	return nil
}

// Print writes the descriptor to W instead of building anything.
type Print struct {
	W io.Writer
}

// Build encodes md as TOML to the writer.
func (p Print) Build(_ context.Context, _ string, md stage.PackageMetadata) error {
	data, err := EncodeMetadata(md)
	if err != nil {
		return err
	}
	_, err = p.W.Write(data)
	return err
}

// EncodeMetadata renders md as TOML.
func EncodeMetadata(md stage.PackageMetadata) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(md); err != nil {
		return nil, fmt.Errorf(messages.BuilderEncodeMetadataFmt, err)
	}
	return buf.Bytes(), nil
}

// WriteMetadata encodes md and writes it atomically to path, creating the parent directory.
func WriteMetadata(path string, md stage.PackageMetadata) error {
	data, err := EncodeMetadata(md)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf(messages.BuilderCreateDirFmt, dir, err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf(messages.BuilderWriteMetadataFmt, path, err)
	}
	return nil
}

// ReadMetadata decodes a descriptor previously written by WriteMetadata.
func ReadMetadata(path string) (stage.PackageMetadata, error) {
	var md stage.PackageMetadata
	data, err := os.ReadFile(path)
	if err != nil {
		return md, fmt.Errorf(messages.BuilderDecodeMetadataFmt, path, err)
	}
	if err := toml.Unmarshal(data, &md); err != nil {
		return md, fmt.Errorf(messages.BuilderDecodeMetadataFmt, path, err)
	}
	return md, nil
}
