package main

import (
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple" // stderr backend
	"go.uber.org/automaxprocs/maxprocs"
)

// Log verbosity levels passed to commonlog.
const (
	verbosityQuiet   = -1
	verbosityDefault = 0
	verbosityVerbose = 2
)

var log = commonlog.GetLogger("mdexec.cli")

// configureLogging sets library and CLI log verbosity from -q/-v.
// Quiet wins over verbose.
func configureLogging(f commonFlags, env *Environment) {
	if env.ConfigureLog != nil {
		env.ConfigureLog(verbosityFor(f))
	}
}

// configureCommonlog routes log output to stderr at verbosity.
func configureCommonlog(verbosity int) {
	commonlog.Configure(verbosity, nil)
}

func verbosityFor(f commonFlags) int {
	switch {
	case f.quiet:
		return verbosityQuiet
	case f.verbose:
		return verbosityVerbose
	default:
		return verbosityDefault
	}
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota before the
// worker count is resolved.
func setMaxProcs() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(log.Debugf))
}
