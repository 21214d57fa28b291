package messages

// Doctor messages for pre-assembly checks.
const (
	// DoctorUse is the doctor command usage.
	DoctorUse            = "doctor"
	DoctorShort          = "Check that the module can be assembled without changing anything"
	DoctorHealthCheckFmt = "Checking %s...\n"

	DoctorCheckNameRuntime    = "runtime"
	DoctorCheckNameSharedRoot = "root"
	DoctorCheckNameVersion    = "version"
	DoctorCheckNameResource   = "resource"
	DoctorCheckNameLauncher   = "launcher"
	DoctorCheckNameBuilder    = "builder"

	DoctorRuntimeCheckDisabled = "runtime check disabled"
	DoctorRuntimeOKFmt         = "%s satisfies >= %s"
	DoctorRuntimeFailedFmt     = "%v"
	DoctorRuntimeRecommendFmt  = "Upgrade the toolchain to %s or newer, or lower layout.min_runtime."

	DoctorPathMissingFmt      = "%s: %v"
	DoctorPathNotDirFmt       = "%s is not a directory"
	DoctorPathNotFileFmt      = "%s is a directory, expected a file"
	DoctorSharedRootRecommend = "Set layout.shared_root or layout.ascend in pkgstage.toml, or pass --shared-root."
	DoctorDestDirRecommend    = "Destination directories are not created during assembly; create it in the module first."

	DoctorVersionInvalidFmt = "%s: %v"
	DoctorVersionOKFmt      = "%s -> %s"

	DoctorResourceMissingFmt = "%s: source %s does not exist"
	DoctorResourceOKFmt      = "%s -> %s"

	DoctorLauncherOKFmt = "%s (mode %#o, set to %#o on assembly)"

	DoctorBuilderMissing     = "no builder command configured"
	DoctorBuilderNotFoundFmt = "%s: %v"

	DoctorStatusOKLabel        = "[OK]  "
	DoctorStatusWarnLabel      = "[WARN]"
	DoctorStatusFailLabel      = "[FAIL]"
	DoctorResultLineFmt        = "%s %-10s %s\n"
	DoctorRecommendationPrefix = "       -> "
	DoctorFailureSummary       = "Some checks failed. Assembly would stop at the first failure above."
	DoctorFailureError         = "doctor checks failed"
	DoctorSuccessSummary       = "All checks passed."
)
