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
)

// Sentinel errors for the render command.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadCSS      = errors.New("failed to read CSS file")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write output file")
	ErrRenderFailed = errors.New("rendering failed")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// documentRenderer is the rendering capability used by the batch.
type documentRenderer interface {
	Render(ctx context.Context, in mdexec.Input) (*mdexec.Result, error)
}

// Compile-time interface implementation check.
var _ documentRenderer = (*mdexec.Renderer)(nil)

// overrideSettings applies per-invocation flags on top of the persisted
// settings. The store is still read on every block.
type overrideSettings struct {
	base        mdexec.SettingsProvider
	interpreter string
	noSource    bool
	exitStatus  bool
}

// Compile-time interface implementation check.
var _ mdexec.SettingsProvider = overrideSettings{}

// Settings implements mdexec.SettingsProvider.
func (o overrideSettings) Settings() mdexec.Settings {
	s := o.base.Settings()
	if o.interpreter != "" {
		s.InterpreterPath = o.interpreter
	}
	if o.noSource {
		s.ShowSourceInPreview = false
	}
	if o.exitStatus {
		s.ShowExitStatus = true
	}
	return s
}

// renderParams groups parameters shared across batch rendering.
type renderParams struct {
	renderer documentRenderer
	settings mdexec.SettingsProvider
	title    string
	css      string
	pdf      bool
}

// runRenderCmd renders the input file or directory.
func runRenderCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	configureLogging(flags.common, env)

	envCfg := loadEnvConfig(env.Getenv)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}

	workers := resolveWorkers(flags.workers, envCfg)
	if err := validateWorkers(workers); err != nil {
		return err
	}

	if len(positional) == 0 {
		return ErrNoInput
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positional))
	}
	if strings.TrimSpace(flags.execution.language) == "" {
		return fmt.Errorf("%w: --language must not be empty", ErrUsage)
	}

	store, err := openSettings(flags.common.settings, env)
	if err != nil {
		return err
	}
	settings := overrideSettings{
		base:        store,
		interpreter: resolveInterpreter(flags.execution.interpreter, envCfg),
		noSource:    flags.execution.noSource,
		exitStatus:  flags.execution.exitStatus,
	}

	css, err := readCSS(flags.output.css)
	if err != nil {
		return err
	}

	files, err := discoverFiles(positional[0], flags.output.output)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, positional[0])
	}

	opts := []mdexec.Option{
		mdexec.WithSettings(settings),
		mdexec.WithStyle(flags.output.style),
		mdexec.WithLanguage(flags.execution.language, labelFor(flags.execution.language, flags.execution.label)),
	}
	if env.Spawner != nil {
		opts = append(opts, mdexec.WithSpawner(env.Spawner))
	}

	params := &renderParams{
		renderer: mdexec.NewRenderer(opts...),
		settings: settings,
		title:    flags.output.title,
		css:      css,
		pdf:      flags.output.pdf,
	}

	size := min(mdexec.ResolvePoolSize(workers), len(files))
	log.Infof("rendering %d file(s) with %d worker(s)", len(files), size)

	var pool exporterPool
	if params.pdf {
		pool = env.NewExporterPool(size)
		defer func() {
			if err := pool.Close(); err != nil {
				log.Warningf("closing browsers: %v", err)
			}
		}()
	}

	results := renderBatch(ctx, files, params, size, pool, env)

	failed := printResults(results, flags.common, env)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrRenderFailed, failed, len(results))
	}
	return nil
}

// readCSS reads the optional extra stylesheet.
func readCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(data), nil
}

// labelFor returns the exit status label; python keeps its display name.
func labelFor(language, explicit string) string {
	if explicit == "" && language == mdexec.Python.Name {
		return mdexec.Python.Label
	}
	return explicit
}

// titleFor returns the explicit title or the input file name without extension.
func titleFor(explicit, inputPath string) string {
	if explicit != "" {
		return explicit
	}
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
