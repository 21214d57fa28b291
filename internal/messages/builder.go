package messages

// Package builder messages.
const (
	// BuilderCommandRequired indicates the exec builder has no command.
	BuilderCommandRequired      = "builder command is required"
	BuilderMetadataPathRequired = "builder metadata path is required"
	BuilderVerbRequired         = "builder verb is required"
	BuilderEncodeMetadataFmt    = "encode package metadata: %w"
	BuilderDecodeMetadataFmt    = "decode package metadata %s: %w"
	BuilderCreateDirFmt         = "create metadata dir %s: %w"
	BuilderWriteMetadataFmt     = "write package metadata %s: %w"
	BuilderTimeoutFmt           = "%s exceeded timeout (%s): %w"
	BuilderExitedFmt            = "%s exited with error: %w"
	BuilderRunningFmt           = "running %s %s"
)
