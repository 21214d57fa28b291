// Package stage assembles a module for packaging: it copies the canonical
// version file and schema resources out of the shared root, makes the
// launcher script executable, and hands a metadata descriptor to the
// package builder.
//
// The pipeline is linear. Every step runs to completion before the next one
// starts, and the first failure stops the run. Files staged before a failure
// are left in place.
package stage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/conn-castle/pkgstage/internal/logging"
	"github.com/conn-castle/pkgstage/internal/messages"
	"github.com/conn-castle/pkgstage/internal/version"
)

// LauncherMode is the mode the launcher script is set to. Existing bits are discarded.
const LauncherMode os.FileMode = 0o777

// State is a position in the assembly pipeline.
type State string

const (
	StateInit           State = "init"
	StateRootResolved   State = "root-resolved"
	StateVersionStaged  State = "version-staged"
	StateManifestStaged State = "manifest-staged"
	StatePermissionsSet State = "permissions-set"
	StateMetadataBuilt  State = "metadata-built"
	StateHandedOff      State = "handed-off"
	StateFailed         State = "failed"
)

// Builder turns a metadata descriptor into a package artifact.
// verb is supplied by the invoking environment, e.g. build, sdist or install.
type Builder interface {
	Build(ctx context.Context, verb string, md PackageMetadata) error
}

// Options controls assembler behavior.
type Options struct {
	// SharedRoot is the absolute repository-wide resource directory.
	SharedRoot string
	// ModuleDir is the absolute directory of the module being assembled.
	ModuleDir string
	Layout    Layout
	Metadata  MetadataTemplate
	Builder   Builder
	System    System
	Logger    *log.Logger
	// RuntimeVersion reports the hosting runtime version; defaults to runtime.Version.
	RuntimeVersion func() string
	// Preflight checks every source and destination before the first write.
	Preflight    bool
	Diff         bool
	DiffMaxLines int
}

// Result describes how far a run got.
type Result struct {
	// State is the final state: StateHandedOff on success, StateFailed otherwise.
	State State
	// Reached is the last state completed successfully.
	Reached  State
	Version  string
	Metadata PackageMetadata
	Report   Report
}

// Assembler runs the staging pipeline for one module.
type Assembler struct {
	root           string
	moduleDir      string
	layout         Layout
	metadata       MetadataTemplate
	builder        Builder
	sys            System
	logger         *log.Logger
	runtimeVersion func() string
	preflight      bool
	diff           bool
	diffMaxLines   int
}

// New validates opts and returns an Assembler.
func New(opts Options) (*Assembler, error) {
	if opts.System == nil {
		return nil, errors.New(messages.StageSystemRequired)
	}
	if opts.Builder == nil {
		return nil, errors.New(messages.StageBuilderRequired)
	}
	if strings.TrimSpace(opts.SharedRoot) == "" {
		return nil, errors.New(messages.StageSharedRootRequired)
	}
	if strings.TrimSpace(opts.ModuleDir) == "" {
		return nil, errors.New(messages.StageModuleDirRequired)
	}
	if !filepath.IsAbs(opts.SharedRoot) {
		return nil, fmt.Errorf(messages.StagePathNotAbsoluteFmt, "shared root", opts.SharedRoot)
	}
	if !filepath.IsAbs(opts.ModuleDir) {
		return nil, fmt.Errorf(messages.StagePathNotAbsoluteFmt, "module dir", opts.ModuleDir)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	runtimeVersion := opts.RuntimeVersion
	if runtimeVersion == nil {
		runtimeVersion = runtime.Version
	}
	return &Assembler{
		root:           filepath.Clean(opts.SharedRoot),
		moduleDir:      filepath.Clean(opts.ModuleDir),
		layout:         opts.Layout,
		metadata:       opts.Metadata,
		builder:        opts.Builder,
		sys:            opts.System,
		logger:         logger,
		runtimeVersion: runtimeVersion,
		preflight:      opts.Preflight,
		diff:           opts.Diff,
		diffMaxLines:   normalizeDiffMaxLines(opts.DiffMaxLines),
	}, nil
}

// SharedRoot returns the shared resource root.
func (a *Assembler) SharedRoot() string { return a.root }

// ModuleDir returns the module directory.
func (a *Assembler) ModuleDir() string { return a.moduleDir }

// LauncherPath returns the absolute path of the launcher script.
func (a *Assembler) LauncherPath() string { return a.modulePath(a.layout.Launcher) }

// Run executes the pipeline and hands the descriptor to the builder with verb.
// On failure the returned Result still reports the staged files and the last
// state reached.
func (a *Assembler) Run(ctx context.Context, verb string) (Result, error) {
	res := Result{State: StateInit, Reached: StateInit}
	fail := func(err error) (Result, error) {
		res.State = StateFailed
		a.logger.Error("assembly failed", "reached", res.Reached, "err", err)
		return res, err
	}
	advance := func(s State) {
		res.State = s
		res.Reached = s
		a.logger.Debug("state", "state", s)
	}

	if err := a.CheckRuntime(); err != nil {
		return fail(err)
	}

	if err := a.checkRoot(); err != nil {
		return fail(err)
	}
	advance(StateRootResolved)

	v, err := a.ReadVersion()
	if err != nil {
		return fail(err)
	}
	res.Version = v

	if a.preflight {
		if err := a.Preflight(); err != nil {
			return fail(err)
		}
	}

	change, err := a.StageVersion(v)
	if err != nil {
		return fail(err)
	}
	res.Report.Changes = append(res.Report.Changes, change)
	advance(StateVersionStaged)

	manifest, err := a.StageManifest()
	res.Report.Changes = append(res.Report.Changes, manifest.Changes...)
	if err != nil {
		return fail(err)
	}
	advance(StateManifestStaged)

	if err := a.NormalizePermissions(a.LauncherPath()); err != nil {
		return fail(err)
	}
	advance(StatePermissionsSet)

	res.Metadata = a.BuildMetadata(v)
	advance(StateMetadataBuilt)

	a.logger.Info("handing off to package builder", "verb", verb, "name", res.Metadata.Name, "version", v)
	if err := a.builder.Build(ctx, verb, res.Metadata); err != nil {
		return fail(stepErr(StepHandOff, KindBuild, "", fmt.Errorf(messages.StageHandOffFailedFmt, verb, err)))
	}
	advance(StateHandedOff)
	return res, nil
}

// CheckRuntime fails with ErrPrecondition when the hosting runtime is older than
// the layout's minimum. It touches nothing on disk.
func (a *Assembler) CheckRuntime() error {
	if strings.TrimSpace(a.layout.MinRuntime) == "" {
		return nil
	}
	actual := a.runtimeVersion()
	if strings.TrimSpace(actual) == "" {
		return stepErr(StepCheckRuntime, KindPrecondition, "", errors.New(messages.StageRuntimeUnknown))
	}
	if err := version.CheckRuntime(actual, a.layout.MinRuntime); err != nil {
		if errors.Is(err, version.ErrUnsupportedRuntime) {
			err = fmt.Errorf(messages.StageRuntimeUnsupportedFmt+": %w", actual, a.layout.MinRuntime, err)
		} else {
			err = fmt.Errorf(messages.StageRuntimeCheckFmt, err)
		}
		return stepErr(StepCheckRuntime, KindPrecondition, "", err)
	}
	a.logger.Debug("runtime supported", "runtime", actual, "minimum", a.layout.MinRuntime)
	return nil
}

func (a *Assembler) checkRoot() error {
	info, err := a.sys.Stat(a.root)
	if err != nil {
		return stepErr(StepResolveRoot, fsKind(err, KindIO), a.root, err)
	}
	if !info.IsDir() {
		return stepErr(StepResolveRoot, KindIO, a.root, fmt.Errorf(messages.StageSharedRootNotDirFmt, a.root))
	}
	a.logger.Debug("shared root", "path", a.root)
	return nil
}

// ReadVersion reads the version file under the shared root and returns it trimmed.
// An empty or non-semantic version is rejected with ErrInvalidVersion.
func (a *Assembler) ReadVersion() (string, error) {
	path := a.sharedPath(a.layout.VersionFile)
	data, err := a.sys.ReadFile(path)
	if err != nil {
		return "", stepErr(StepReadVersion, fsKind(err, KindIO), path, err)
	}
	v, err := version.Validate(string(data))
	if err != nil {
		if errors.Is(err, version.ErrEmpty) {
			err = fmt.Errorf("%s: %w", messages.StageVersionEmpty, err)
		}
		return "", stepErr(StepReadVersion, KindInvalidVersion, path, err)
	}
	a.logger.Debug("read version", "version", v, "path", path)
	return v, nil
}

// StageVersion writes v to the version destination inside the module, replacing
// any existing file. The copy keeps the source file's permission bits.
func (a *Assembler) StageVersion(v string) (Change, error) {
	src := a.sharedPath(a.layout.VersionFile)
	dest := a.modulePath(a.layout.VersionDest)
	info, err := a.sys.Stat(src)
	if err != nil {
		return Change{}, stepErr(StepStageVersion, KindIO, src, err)
	}
	return a.writeStaged(StepStageVersion, "version", a.layout.VersionDest, dest, []byte(v), info.Mode().Perm())
}

// StageManifest copies every manifest resource in order. The first failure stops
// the loop; the returned Report lists the resources copied before it.
func (a *Assembler) StageManifest() (Report, error) {
	var report Report
	for _, res := range a.layout.Resources {
		change, err := a.copyResource(res)
		if err != nil {
			return report, err
		}
		report.Changes = append(report.Changes, change)
	}
	return report, nil
}

func (a *Assembler) copyResource(res Resource) (Change, error) {
	src := a.sharedPath(res.Source)
	info, err := a.sys.Stat(src)
	if err != nil {
		return Change{}, stepErr(StepStageManifest, fsKind(err, KindIO), src, err)
	}
	if info.IsDir() {
		return Change{}, stepErr(StepStageManifest, KindIO, src, fmt.Errorf(messages.StageSourceIsDirFmt, src))
	}
	data, err := a.sys.ReadFile(src)
	if err != nil {
		return Change{}, stepErr(StepStageManifest, fsKind(err, KindIO), src, err)
	}
	return a.writeStaged(StepStageManifest, res.Name, res.Dest, a.modulePath(res.Dest), data, info.Mode().Perm())
}

func (a *Assembler) writeStaged(step Step, name string, relDest string, dest string, data []byte, perm fs.FileMode) (Change, error) {
	if err := a.checkDestDir(step, dest); err != nil {
		return Change{}, err
	}
	previous, readErr := a.sys.ReadFile(dest)
	existed := readErr == nil
	change, err := buildChange(name, relDest, previous, existed, data, a.diff, a.diffMaxLines)
	if err != nil {
		return Change{}, stepErr(step, KindIO, dest, err)
	}
	if err := a.sys.WriteFileAtomic(dest, data, perm); err != nil {
		return Change{}, stepErr(step, KindIO, dest, err)
	}
	a.logger.Debug("staged", "resource", name, "dest", relDest, "status", change.Status)
	return change, nil
}

func (a *Assembler) checkDestDir(step Step, dest string) error {
	dir := filepath.Dir(dest)
	info, err := a.sys.Stat(dir)
	if err != nil {
		return stepErr(step, KindIO, dest, fmt.Errorf(messages.StageDestDirMissingFmt, dir, err))
	}
	if !info.IsDir() {
		return stepErr(step, KindIO, dest, fmt.Errorf(messages.StageDestDirMissingFmt, dir, fs.ErrInvalid))
	}
	return nil
}

// NormalizePermissions sets scriptPath to LauncherMode, discarding its previous bits.
func (a *Assembler) NormalizePermissions(scriptPath string) error {
	if err := a.sys.Chmod(scriptPath, LauncherMode); err != nil {
		return stepErr(StepNormalizePermissions, fsKind(err, KindPermission), scriptPath, err)
	}
	a.logger.Debug("launcher mode set", "path", scriptPath, "mode", fmt.Sprintf("%#o", LauncherMode))
	return nil
}

// BuildMetadata returns the descriptor for version v.
func (a *Assembler) BuildMetadata(v string) PackageMetadata {
	return BuildMetadata(a.layout, a.metadata, v)
}

// Preflight checks, without writing, that every manifest source and the launcher
// exist and that every destination directory is present.
func (a *Assembler) Preflight() error {
	if err := a.checkDestDir(StepStageVersion, a.modulePath(a.layout.VersionDest)); err != nil {
		return err
	}
	for _, res := range a.layout.Resources {
		src := a.sharedPath(res.Source)
		info, err := a.sys.Stat(src)
		if err != nil {
			return stepErr(StepStageManifest, fsKind(err, KindIO), src, err)
		}
		if info.IsDir() {
			return stepErr(StepStageManifest, KindIO, src, fmt.Errorf(messages.StageSourceIsDirFmt, src))
		}
		if err := a.checkDestDir(StepStageManifest, a.modulePath(res.Dest)); err != nil {
			return err
		}
	}
	launcher := a.LauncherPath()
	if _, err := a.sys.Stat(launcher); err != nil {
		return stepErr(StepNormalizePermissions, fsKind(err, KindIO), launcher, err)
	}
	a.logger.Debug("preflight passed", "resources", len(a.layout.Resources))
	return nil
}

func (a *Assembler) sharedPath(rel string) string {
	return filepath.Join(a.root, filepath.FromSlash(rel))
}

func (a *Assembler) modulePath(rel string) string {
	return filepath.Join(a.moduleDir, filepath.FromSlash(rel))
}
