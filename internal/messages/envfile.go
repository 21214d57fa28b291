package messages

// Envfile messages for builder environment files.
const (
	EnvfileReadFailedFmt           = "read env file %s: %w"
	EnvfileLineErrorFmt            = "line %d: %w"
	EnvfileExpectedKeyValue        = "expected KEY=VALUE"
	EnvfileUnterminatedQuotedValue = "unterminated quoted value"
	EnvfileInvalidQuotedSuffix     = "unexpected characters after quoted value"
)
