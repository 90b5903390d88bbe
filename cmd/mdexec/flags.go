package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	settings string
	quiet    bool
	verbose  bool
}

// executionFlags override settings for one invocation. They are never persisted.
type executionFlags struct {
	interpreter string
	noSource    bool
	exitStatus  bool
	language    string
	label       string
}

// outputFlags holds output selection flags.
type outputFlags struct {
	output string
	pdf    bool
	title  string
	css    string
	style  string
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common    commonFlags
	execution executionFlags
	output    outputFlags
	workers   int
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	settings string
	json     bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.settings, "settings", "s", "", "settings file (.yaml, .yml or .toml)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress and run logs")
}

// addExecutionFlags adds per-invocation settings overrides to a FlagSet.
func addExecutionFlags(fs *flag.FlagSet, f *executionFlags) {
	fs.StringVarP(&f.interpreter, "interpreter", "i", "", "interpreter for this run (overrides settings)")
	fs.BoolVar(&f.noSource, "no-source", false, "hide block sources")
	fs.BoolVar(&f.exitStatus, "exit-status", false, "show interpreter exit codes")
	fs.StringVar(&f.language, "language", "python", "fence language that is executed")
	fs.StringVar(&f.label, "label", "", "display name in exit status lines (default: language)")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.BoolVar(&f.pdf, "pdf", false, "also export PDF (requires Chrome)")
	fs.StringVar(&f.title, "title", "", "document title (default: file name)")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended to the built-in styles")
	fs.StringVar(&f.style, "style", "", "chroma highlight style (default: github)")
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string, stderr io.Writer) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &renderFlags{}

	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	addCommonFlags(fs, &f.common)
	addExecutionFlags(fs, &f.execution)
	addOutputFlags(fs, &f.output)

	fs.Usage = func() { printRenderUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseSettingsFlags parses settings command flags and returns positional args.
func parseSettingsFlags(args []string, stderr io.Writer) (*commonFlags, []string, error) {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &commonFlags{}

	addCommonFlags(fs, f)
	fs.Usage = func() { printSettingsUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, stderr io.Writer) (*doctorFlags, error) {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &doctorFlags{}

	fs.StringVarP(&f.settings, "settings", "s", "", "settings file (.yaml, .yml or .toml)")
	fs.BoolVar(&f.json, "json", false, "output JSON")
	fs.Usage = func() { printDoctorUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
