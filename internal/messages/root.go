package messages

// Root messages for locating the module directory.
const (
	RootStartPathRequired = "start path is required"
	RootConfigNotFileFmt  = "%s exists but is not a regular file"
	RootStatFailedFmt     = "stat %s: %w"
	RootGitInvalidFmt     = "%s is neither a directory nor a regular file"
)
