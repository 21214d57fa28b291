package messages

// CLI messages for user-facing commands.
const (
	// RootUse is the CLI command usage.
	RootUse = "pkgstage [verb]"
	// RootShort is the short description for the root command.
	RootShort = "Stage shared resources into a module and hand it to the package builder"
	RootLong  = `Stage the canonical version file and schema resources from the shared root
into this module, make the launcher script executable, and run the package
builder with the given verb (default "build").`
	RootDefaultVerb = "build"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	FlagConfig     = "Path to pkgstage.toml (default: <module-dir>/pkgstage.toml when present)"
	FlagModuleDir  = "Module directory to assemble (default: the config file's directory, else the nearest parent holding pkgstage.toml, else the current directory)"
	FlagSharedRoot = "Shared resource root (default: ascend layout.ascend parents from the module directory)"
	FlagBuilder    = "Package builder command; overrides builder.command"
	FlagPreflight  = "Verify every manifest source exists before writing anything"
	FlagDiff       = "Show a unified diff for every replaced file"
	FlagDiffLines  = "Maximum diff lines shown per file"
	FlagDryRun     = "Stage resources and print the metadata descriptor instead of running the builder"
	FlagVerbose    = "Log every pipeline step"
	FlagQuiet      = "Only log errors"

	// MetadataUse is the metadata command usage.
	MetadataUse   = "metadata"
	MetadataShort = "Print the package metadata descriptor without staging anything"

	// ManifestUse is the manifest command usage.
	ManifestUse      = "manifest"
	ManifestShort    = "List the resources staged from the shared root"
	ManifestEntryFmt = "%-28s %s -> %s\n"

	CLIVerbInvalidFmt          = "invalid verb %q: must be a single word"
	CLIResolveModuleDirFmt     = "resolve module dir %s: %w"
	CLIResolveSharedRootFmt    = "resolve shared root %s: %w"
	CLIBuilderNotConfigured    = "no package builder configured; set builder.command in pkgstage.toml, pass --builder, or use --dry-run"
	CLIFlagsQuietVerbose       = "--quiet and --verbose are mutually exclusive"
	CLISummaryHeaderFmt        = "Staged %s %s into %s\n"
	CLISummaryEntryFmt         = "  %-9s %s\n"
	CLISummaryHandedOffFmt     = "Package builder finished (%s)\n"
	CLISummaryDryRun           = "Dry run: package builder not invoked."
	CLIWarnPartialStagingFmt   = "Warning: assembly stopped at %s; files staged before the failure were left in place:\n"
	CLIWarnPartialStagingEntry = "  - %s\n"
)
