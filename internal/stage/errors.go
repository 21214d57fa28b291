package stage

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/conn-castle/pkgstage/internal/messages"
)

// Sentinels for each failure kind. Every assembler error matches exactly one of
// them with errors.Is, in addition to its underlying cause.
var (
	ErrPrecondition   = errors.New("precondition failure")
	ErrNotFound       = errors.New("not found")
	ErrIO             = errors.New("io failure")
	ErrPermission     = errors.New("permission failure")
	ErrInvalidVersion = errors.New("invalid version")
	ErrBuild          = errors.New("package builder failure")
)

// Kind classifies an assembler failure.
type Kind int

const (
	KindPrecondition Kind = iota + 1
	KindNotFound
	KindIO
	KindPermission
	KindInvalidVersion
	KindBuild
)

func (k Kind) sentinel() error {
	switch k {
	case KindPrecondition:
		return ErrPrecondition
	case KindNotFound:
		return ErrNotFound
	case KindIO:
		return ErrIO
	case KindPermission:
		return ErrPermission
	case KindInvalidVersion:
		return ErrInvalidVersion
	case KindBuild:
		return ErrBuild
	default:
		return nil
	}
}

// String returns the sentinel text for the kind.
func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Step names a pipeline operation in errors and logs.
type Step string

const (
	StepCheckRuntime         Step = "check-runtime"
	StepResolveRoot          Step = "resolve-root"
	StepReadVersion          Step = "read-version"
	StepStageVersion         Step = "stage-version"
	StepStageManifest        Step = "stage-manifest"
	StepNormalizePermissions Step = "normalize-permissions"
	StepBuildMetadata        Step = "build-metadata"
	StepHandOff              Step = "hand-off"
)

// StepError reports the step, kind, and path of a failed pipeline operation.
type StepError struct {
	Step Step
	Kind Kind
	Path string
	Err  error
}

func (e *StepError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf(messages.StageStepFailedNoObj, e.Step, e.Kind, e.Err)
	}
	return fmt.Sprintf(messages.StageStepFailedFmt, e.Step, e.Kind, e.Path, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *StepError) Unwrap() []error {
	out := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		out = append(out, s)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func stepErr(step Step, kind Kind, path string, err error) *StepError {
	return &StepError{Step: step, Kind: kind, Path: path, Err: err}
}

// fsKind maps a filesystem error to NotFound when the path is missing, else fallback.
func fsKind(err error, fallback Kind) Kind {
	if errors.Is(err, fs.ErrNotExist) {
		return KindNotFound
	}
	return fallback
}
