// Package doctor runs read-only checks that predict whether an assembly of a
// module would succeed.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/conn-castle/pkgstage/internal/messages"
	"github.com/conn-castle/pkgstage/internal/stage"
	"github.com/conn-castle/pkgstage/internal/version"
)

var (
	statFn     = os.Stat
	readFileFn = os.ReadFile
	lookPath   = exec.LookPath
)

// Status is the outcome of a single check.
type Status string

const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Result is one line of doctor output.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}

// Target describes the module to check.
type Target struct {
	SharedRoot     string
	ModuleDir      string
	Layout         stage.Layout
	BuilderCommand []string
	RuntimeVersion string
}

// Run executes every check in pipeline order. Version and resource checks are
// skipped when the shared root is unusable.
func Run(t Target) []Result {
	results := []Result{CheckRuntime(t.RuntimeVersion, t.Layout.MinRuntime)}
	rootResult := CheckSharedRoot(t.SharedRoot)
	results = append(results, rootResult)
	if rootResult.Status != StatusFail {
		results = append(results, CheckVersion(t.SharedRoot, t.ModuleDir, t.Layout))
		results = append(results, CheckResources(t.SharedRoot, t.ModuleDir, t.Layout)...)
	}
	results = append(results, CheckLauncher(t.ModuleDir, t.Layout), CheckBuilder(t.BuilderCommand))
	return results
}

// HasFailure reports whether any result failed.
func HasFailure(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// CheckRuntime compares the hosting runtime against minimum.
func CheckRuntime(actual string, minimum string) Result {
	r := Result{CheckName: messages.DoctorCheckNameRuntime}
	if strings.TrimSpace(minimum) == "" {
		r.Status = StatusOK
		r.Message = messages.DoctorRuntimeCheckDisabled
		return r
	}
	if err := version.CheckRuntime(actual, minimum); err != nil {
		r.Status = StatusFail
		r.Message = fmt.Sprintf(messages.DoctorRuntimeFailedFmt, err)
		r.Recommendation = fmt.Sprintf(messages.DoctorRuntimeRecommendFmt, minimum)
		return r
	}
	r.Status = StatusOK
	r.Message = fmt.Sprintf(messages.DoctorRuntimeOKFmt, actual, minimum)
	return r
}

// CheckSharedRoot requires root to be an existing directory.
func CheckSharedRoot(root string) Result {
	r := Result{CheckName: messages.DoctorCheckNameSharedRoot}
	info, err := statFn(root)
	switch {
	case err != nil:
		r.Status = StatusFail
		r.Message = fmt.Sprintf(messages.DoctorPathMissingFmt, root, err)
		r.Recommendation = messages.DoctorSharedRootRecommend
	case !info.IsDir():
		r.Status = StatusFail
		r.Message = fmt.Sprintf(messages.DoctorPathNotDirFmt, root)
		r.Recommendation = messages.DoctorSharedRootRecommend
	default:
		r.Status = StatusOK
		r.Message = root
	}
	return r
}

// CheckVersion reads and validates the version file and checks that its
// destination directory exists.
func CheckVersion(root string, moduleDir string, layout stage.Layout) Result {
	r := Result{CheckName: messages.DoctorCheckNameVersion}
	path := filepath.Join(root, filepath.FromSlash(layout.VersionFile))
	data, err := readFileFn(path)
	if err != nil {
		r.Status = StatusFail
		r.Message = fmt.Sprintf(messages.DoctorPathMissingFmt, path, err)
		return r
	}
	v, err := version.Validate(string(data))
	if err != nil {
		r.Status = StatusFail
		r.Message = fmt.Sprintf(messages.DoctorVersionInvalidFmt, path, err)
		return r
	}
	if msg, ok := destDirUsable(moduleDir, layout.VersionDest); !ok {
		r.Status = StatusFail
		r.Message = msg
		r.Recommendation = messages.DoctorDestDirRecommend
		return r
	}
	r.Status = StatusOK
	r.Message = fmt.Sprintf(messages.DoctorVersionOKFmt, v, layout.VersionDest)
	return r
}

// CheckResources reports one result per manifest entry.
func CheckResources(root string, moduleDir string, layout stage.Layout) []Result {
	results := make([]Result, 0, len(layout.Resources))
	for _, res := range layout.Resources {
		r := Result{CheckName: messages.DoctorCheckNameResource}
		src := filepath.Join(root, filepath.FromSlash(res.Source))
		info, err := statFn(src)
		switch {
		case err != nil:
			r.Status = StatusFail
			r.Message = fmt.Sprintf(messages.DoctorResourceMissingFmt, res.Name, src)
		case info.IsDir():
			r.Status = StatusFail
			r.Message = fmt.Sprintf(messages.DoctorPathNotFileFmt, src)
		default:
			if msg, ok := destDirUsable(moduleDir, res.Dest); !ok {
				r.Status = StatusFail
				r.Message = msg
				r.Recommendation = messages.DoctorDestDirRecommend
			} else {
				r.Status = StatusOK
				r.Message = fmt.Sprintf(messages.DoctorResourceOKFmt, res.Name, res.Dest)
			}
		}
		results = append(results, r)
	}
	return results
}

// CheckLauncher requires the launcher to exist. Its current mode is reported
// since assembly replaces it.
func CheckLauncher(moduleDir string, layout stage.Layout) Result {
	r := Result{CheckName: messages.DoctorCheckNameLauncher}
	path := filepath.Join(moduleDir, filepath.FromSlash(layout.Launcher))
	info, err := statFn(path)
	if err != nil {
		r.Status = StatusFail
		r.Message = fmt.Sprintf(messages.DoctorPathMissingFmt, path, err)
		return r
	}
	r.Status = StatusOK
	r.Message = fmt.Sprintf(messages.DoctorLauncherOKFmt, layout.Launcher, info.Mode().Perm(), stage.LauncherMode)
	return r
}

// CheckBuilder warns when no builder is configured and fails when the command
// cannot be found.
func CheckBuilder(command []string) Result {
	r := Result{CheckName: messages.DoctorCheckNameBuilder}
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		r.Status = StatusWarn
		r.Message = messages.DoctorBuilderMissing
		r.Recommendation = messages.CLIBuilderNotConfigured
		return r
	}
	resolved, err := lookPath(command[0])
	if err != nil {
		r.Status = StatusFail
		r.Message = fmt.Sprintf(messages.DoctorBuilderNotFoundFmt, command[0], err)
		return r
	}
	r.Status = StatusOK
	r.Message = resolved
	return r
}

func destDirUsable(moduleDir string, rel string) (string, bool) {
	dir := filepath.Dir(filepath.Join(moduleDir, filepath.FromSlash(rel)))
	info, err := statFn(dir)
	if err != nil {
		return fmt.Sprintf(messages.DoctorPathMissingFmt, dir, err), false
	}
	if !info.IsDir() {
		return fmt.Sprintf(messages.DoctorPathNotDirFmt, dir), false
	}
	return "", true
}
