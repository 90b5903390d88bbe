// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"

	"github.com/alnah/go-mdexec/internal/fileutil"
)

// BrowserEnv describes where the PDF browser is launched.
type BrowserEnv struct {
	CI         bool // a CI provider variable is set
	Container  bool // running inside Docker or another container runtime
	NoSandbox  bool // ROD_NO_SANDBOX=1
	BrowserBin bool // ROD_BROWSER_BIN is set
}

// DetectBrowserEnv reads the browser environment through getenv.
// Docker is recognized by the /.dockerenv file it creates.
func DetectBrowserEnv(getenv func(string) string) BrowserEnv {
	return BrowserEnv{
		CI: getenv("CI") != "" ||
			getenv("GITHUB_ACTIONS") != "" ||
			getenv("GITLAB_CI") != "" ||
			getenv("JENKINS_URL") != "",
		Container:  getenv("container") != "" || fileutil.FileExists("/.dockerenv"),
		NoSandbox:  getenv("ROD_NO_SANDBOX") == "1",
		BrowserBin: getenv("ROD_BROWSER_BIN") != "",
	}
}

// ForBrowserConnect returns hints for browser connection errors: the sandbox
// switch inside CI or containers, and a custom browser binary.
func ForBrowserConnect(e BrowserEnv) string {
	var hints []string
	if (e.CI || e.Container) && !e.NoSandbox {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if !e.BrowserBin {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	return formatHints(hints)
}

// ForInterpreterNotFound returns hints when the interpreter cannot be started.
func ForInterpreterNotFound(interpreter string) string {
	hints := []string{"set a full path with: mdexec settings set interpreter-path /path/to/python3"}
	if interpreter == "python" {
		hints = append(hints, "on systems without a python alias try python3")
	}
	hints = append(hints, "run mdexec doctor to check interpreter resolution")
	return formatHints(hints)
}

// ForSettingsParse returns hints for malformed settings files.
func ForSettingsParse(path string) string {
	return format("fix or remove " + path + ", or run: mdexec settings reset")
}

// ForUnknownField returns hints listing the valid settings fields.
func ForUnknownField(fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	return format("valid fields: " + strings.Join(fields, ", "))
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
