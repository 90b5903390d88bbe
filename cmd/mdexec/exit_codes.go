package main

import (
	"errors"
	"os"

	"github.com/alnah/go-mdexec"
	"github.com/alnah/go-mdexec/internal/codec"
	"github.com/alnah/go-mdexec/internal/config"
)

// Exit codes for the mdexec CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful command
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, settings, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdexec.ErrBrowserConnect) ||
		errors.Is(err, mdexec.ErrPageCreate) ||
		errors.Is(err, mdexec.ErrPageLoad) ||
		errors.Is(err, mdexec.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, config.ErrSettingsWrite) {
		return ExitIO
	}

	// Usage/settings/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, mdexec.ErrEmptyMarkdown) ||
		errors.Is(err, config.ErrSettingsParse) ||
		errors.Is(err, config.ErrUnknownField) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrNoConfigDir) ||
		errors.Is(err, codec.ErrUnsupportedFormat) {
		return ExitUsage
	}

	return ExitGeneral
}
