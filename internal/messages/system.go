package messages

// System messages for internal operations.
const (
	// LockOpenFmt formats lock file open errors.
	LockOpenFmt    = "open assembly lock %s: %w"
	LockAcquireFmt = "acquire assembly lock %s: %w"
	LockTimeoutFmt = "timed out after %s waiting for another pkgstage run on this module"

	FsutilCreateTempFmt = "create temp file in %s: %w"
	FsutilWriteTempFmt  = "write temp file %s: %w"
	FsutilSyncTempFmt   = "sync temp file %s: %w"
	FsutilCloseTempFmt  = "close temp file %s: %w"
	FsutilChmodTempFmt  = "chmod temp file %s: %w"
	FsutilRenameFmt     = "move %s into place: %w"
)
