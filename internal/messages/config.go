package messages

// Config messages for pkgstage.toml loading and validation.
const (
	// ConfigMissingFileFmt formats missing config file errors.
	ConfigMissingFileFmt      = "missing config file %s: %w"
	ConfigInvalidConfigFmt    = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "%s: unrecognized config keys: %w"
	ConfigExpandPathFmt       = "%s: expand %s %q: %w"

	ConfigAscendNegativeFmt        = "%s: layout.ascend must be zero or greater (got %d)"
	ConfigFieldRequiredFmt         = "%s: %s is required"
	ConfigFieldAbsoluteFmt         = "%s: %s must be relative (got %q)"
	ConfigFieldEscapesFmt          = "%s: %s must stay inside its root (got %q)"
	ConfigMinRuntimeInvalidFmt     = "%s: layout.min_runtime %q is not a version: %w"
	ConfigResourcesEmptyFmt        = "%s: at least one [[resources]] entry is required"
	ConfigResourceNameRequiredFmt  = "%s: resources[%d].name is required"
	ConfigResourceDuplicateDestFmt = "%s: resources[%d].dest %q duplicates resources[%d].dest"
	ConfigResourceVersionDestFmt   = "%s: resources[%d].dest %q collides with layout.version_dest"
	ConfigBuilderTimeoutInvalidFmt = "%s: builder.timeout %q is invalid: %v"
	ConfigBuilderTimeoutNegFmt     = "%s: builder.timeout must not be negative (got %s)"
)
