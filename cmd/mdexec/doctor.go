package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	flag "github.com/spf13/pflag"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status      string          `json:"status"`
	Interpreter interpreterInfo `json:"interpreter"`
	Settings    settingsInfo    `json:"settings"`
	Chrome      chromeInfo      `json:"chrome"`
	Env         envInfo         `json:"environment"`
	System      systemInfo      `json:"system"`
	Warnings    []string        `json:"warnings,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
}

// interpreterInfo holds interpreter resolution results.
type interpreterInfo struct {
	Configured string `json:"configured"`
	Override   bool   `json:"override"`
	Found      bool   `json:"found"`
	Path       string `json:"path,omitempty"`
	Version    string `json:"version,omitempty"`
}

// settingsInfo holds settings file status.
type settingsInfo struct {
	Path   string `json:"path,omitempty"`
	Exists bool   `json:"exists"`
	Valid  bool   `json:"valid"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(flags, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(flags *doctorFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.Getenv("ROD_BROWSER_BIN"),
		},
	}

	interpreter := checkSettings(result, flags.settings, env)
	checkInterpreter(result, interpreter, env)
	checkChrome(result, env)
	checkEnvironment(result, env)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkSettings loads the settings file and returns the effective interpreter.
func checkSettings(result *doctorResult, flagPath string, env *Environment) string {
	interpreter := ""
	store, err := openSettings(flagPath, env)
	if err != nil {
		var pathErr *settingsPathError
		if errors.As(err, &pathErr) {
			result.Settings.Path = pathErr.path
		}
		result.Errors = append(result.Errors, fmt.Sprintf("Settings: %v", err))
	} else {
		result.Settings.Path = store.Path()
		result.Settings.Exists = store.Exists()
		result.Settings.Valid = true
		interpreter = store.Settings().InterpreterPath
	}

	if override := loadEnvConfig(env.Getenv).Interpreter; override != "" {
		interpreter = override
		result.Interpreter.Override = true
	}
	return interpreter
}

// checkInterpreter resolves the interpreter and reads its version.
func checkInterpreter(result *doctorResult, interpreter string, env *Environment) {
	result.Interpreter.Configured = interpreter
	if interpreter == "" {
		if result.Settings.Valid {
			result.Errors = append(result.Errors, "Interpreter path is empty. Run: mdexec settings set interpreter-path python3")
		}
		return
	}

	path, err := env.LookPath(interpreter)
	if err != nil {
		msg := fmt.Sprintf("Interpreter %q not found: %v", interpreter, err)
		if interpreter == "python" {
			msg += ". Try: mdexec settings set interpreter-path python3"
		}
		result.Errors = append(result.Errors, msg)
		return
	}

	result.Interpreter.Found = true
	result.Interpreter.Path = path

	out, err := env.CommandOutput(path, "--version")
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get interpreter version: %v", err))
		return
	}
	result.Interpreter.Version = strings.TrimSpace(string(out))
}

// checkChrome detects Chrome/Chromium. Chrome is only needed for --pdf, so a
// missing browser is a warning.
func checkChrome(result *doctorResult, env *Environment) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = env.FindBrowser()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found: --pdf unavailable. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s: --pdf unavailable", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, env *Environment) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env.Getenv)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if env.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Chrome.Found && (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv(envContainer) == "1" {
		return true, envContainer + "=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for PDF export is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "mdexec-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "mdexec doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Interpreter")
	if r.Interpreter.Found {
		fmt.Fprintf(w, "  [OK] %s resolves to %s\n", r.Interpreter.Configured, r.Interpreter.Path)
		if r.Interpreter.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Interpreter.Version)
		}
		if r.Interpreter.Override {
			fmt.Fprintf(w, "  [OK] Overridden by %s\n", envInterpreter)
		}
	} else {
		fmt.Fprintf(w, "  [ERROR] %q not found\n", r.Interpreter.Configured)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Settings")
	switch {
	case !r.Settings.Valid:
		fmt.Fprintf(w, "  [ERROR] Invalid: %s\n", r.Settings.Path)
	case r.Settings.Exists:
		fmt.Fprintf(w, "  [OK] Loaded from %s\n", r.Settings.Path)
	default:
		fmt.Fprintf(w, "  [OK] Defaults (%s not created yet)\n", r.Settings.Path)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (PDF export)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to render")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
