package main

import (
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdexec"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process lookup, and the external capabilities used by
// rendering (interpreter spawning, PDF export).
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// LookPath and CommandOutput back the doctor checks.
	LookPath      func(file string) (string, error)
	CommandOutput func(name string, args ...string) ([]byte, error)
	FindBrowser   func() (string, bool)

	// ConfigureLog applies the -q/-v log verbosity.
	ConfigureLog func(verbosity int)

	// Spawner starts interpreters; nil uses real processes.
	Spawner mdexec.Spawner
	// NewExporterPool creates the PDF exporters for --pdf.
	NewExporterPool func(size int) exporterPool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:           time.Now,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		Getenv:        os.Getenv,
		Environ:       os.Environ,
		LookPath:      exec.LookPath,
		CommandOutput: commandOutput,
		FindBrowser:   launcher.LookPath,
		ConfigureLog:  configureCommonlog,
		NewExporterPool: func(size int) exporterPool {
			return &poolAdapter{pool: mdexec.NewExporterPool(size)}
		},
	}
}

// commandOutput runs name and returns its combined output. Some interpreters
// print their version on stderr.
func commandOutput(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput() // #nosec G204 -- doctor probes the configured interpreter
}
