package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdexec"
	"github.com/alnah/go-mdexec/internal/config"
	"github.com/alnah/go-mdexec/internal/fileutil"
	"github.com/alnah/go-mdexec/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUsage reports an invalid command line.
var ErrUsage = errors.New("invalid usage")

func main() {
	setMaxProcs()

	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args, DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches to a command and returns the process exit code.
// A markdown file as first argument is shorthand for "render".
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	var err error

	switch {
	case isCommand(cmd, "render"):
		err = runRenderCmd(ctx, rest, env)
	case isCommand(cmd, "settings"):
		err = runSettingsCmd(rest, env)
	case isCommand(cmd, "doctor"):
		return runDoctorCmd(rest, env)
	case isCommand(cmd, "version", "--version"):
		fmt.Fprintf(env.Stdout, "go-mdexec %s\n", Version)
		return ExitSuccess
	case isCommand(cmd, "help", "-h", "--help"):
		return runHelp(rest, env)
	case looksLikeMarkdown(cmd):
		err = runRenderCmd(ctx, args[1:], env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, env))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// isCommand reports whether arg matches one of names, case-insensitively.
func isCommand(arg string, names ...string) bool {
	for _, name := range names {
		if strings.EqualFold(arg, name) {
			return true
		}
	}
	return false
}

// looksLikeMarkdown reports whether arg names a markdown file.
func looksLikeMarkdown(arg string) bool {
	return !strings.HasPrefix(arg, "-") && fileutil.IsMarkdownFile(arg)
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, env *Environment) string {
	switch {
	case errors.Is(err, mdexec.ErrBrowserConnect):
		return hints.ForBrowserConnect(hints.DetectBrowserEnv(env.Getenv))
	case errors.Is(err, config.ErrUnknownField):
		return hints.ForUnknownField(config.Fields())
	case errors.Is(err, config.ErrSettingsParse):
		var pathErr *settingsPathError
		if errors.As(err, &pathErr) {
			return hints.ForSettingsParse(pathErr.path)
		}
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// settingsPathError attaches the settings file path to a settings error.
type settingsPathError struct {
	path string
	err  error
}

func (e *settingsPathError) Error() string { return e.err.Error() }
func (e *settingsPathError) Unwrap() error { return e.err }

// openSettings resolves the settings path and opens the store.
func openSettings(flagPath string, env *Environment) (*config.Store, error) {
	path, err := resolveSettingsPath(flagPath, loadEnvConfig(env.Getenv), config.DefaultPath)
	if err != nil {
		return nil, err
	}
	if abs, absErr := filepath.Abs(path); absErr == nil {
		path = abs
	}

	store, err := config.Open(path)
	if err != nil {
		return nil, &settingsPathError{path: path, err: fmt.Errorf("loading settings: %w", err)}
	}
	return store, nil
}
