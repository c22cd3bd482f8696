package radlang

import "errors"

var (
	// ErrConfigValidation is returned when configuration validation fails.
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrUnsupportedConfigFormat indicates a config file extension other than yaml, yml or toml.
	ErrUnsupportedConfigFormat = errors.New("unsupported config file format")
	// ErrNoInputFiles indicates a command found nothing to process.
	ErrNoInputFiles = errors.New("no input files found")
	// ErrDiagnostics indicates that parsing reported problems.
	ErrDiagnostics = errors.New("source has diagnostics")
)
