package mdexec

// Default settings values.
const (
	DefaultInterpreterPath     = "python"
	DefaultShowSourceInPreview = true
	DefaultShowExitStatus      = false
)

// Settings controls how script blocks are displayed and executed.
type Settings struct {
	InterpreterPath     string // executable name or path, e.g. "python3"
	ShowSourceInPreview bool   // render the block source above its output
	ShowExitStatus      bool   // append "<Label> exited with code: N" after a run
}

// DefaultSettings returns the settings used when nothing is persisted.
func DefaultSettings() Settings {
	return Settings{
		InterpreterPath:     DefaultInterpreterPath,
		ShowSourceInPreview: DefaultShowSourceInPreview,
		ShowExitStatus:      DefaultShowExitStatus,
	}
}

// SettingsProvider supplies the current settings. It is queried on every
// block render, so implementations backed by a mutable store see changes
// without re-creating the processor.
type SettingsProvider interface {
	Settings() Settings
}

// StaticSettings is a SettingsProvider that always returns the same values.
type StaticSettings Settings

// Settings implements SettingsProvider.
func (s StaticSettings) Settings() Settings {
	return Settings(s)
}

// Compile-time interface check.
var _ SettingsProvider = StaticSettings{}
