package messages

// Assembler messages.
const (
	// StageSystemRequired indicates the assembler needs a filesystem.
	StageSystemRequired     = "stage system is required"
	StageBuilderRequired    = "package builder is required"
	StageSharedRootRequired = "shared root is required"
	StageModuleDirRequired  = "module dir is required"
	StagePathNotAbsoluteFmt = "%s must be an absolute path (got %q)"
	StageAscendNegativeFmt  = "cannot ascend %d directories"

	StageStepFailedFmt   = "%s: %s %s: %v"
	StageStepFailedNoObj = "%s: %s: %v"

	StageRuntimeUnsupportedFmt = "hosting runtime %s is below the supported minimum %s"
	StageRuntimeCheckFmt       = "check hosting runtime: %w"
	StageSharedRootNotDirFmt   = "shared root %s is not a directory"
	StageRuntimeUnknown        = "hosting runtime version is unknown"
	StageVersionEmpty          = "version file is empty"
	StageDestDirMissingFmt     = "destination directory %s is not usable: %w"
	StageSourceIsDirFmt        = "source %s is a directory"
	StageHandOffFailedFmt      = "package builder %s failed: %w"

	StageDiffPathRequired = "diff preview path is required"
	StageDiffTruncatedFmt = "... (truncated to %d lines; rerun with --diff-lines <n> to see more)"
)
