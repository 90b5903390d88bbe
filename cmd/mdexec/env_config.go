package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	envSettings    = "MDEXEC_SETTINGS"
	envInterpreter = "MDEXEC_INTERPRETER"
	envWorkers     = "MDEXEC_WORKERS"
	envContainer   = "MDEXEC_CONTAINER"
	envPrefix      = "MDEXEC_"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without touching the settings file.
type envConfig struct {
	SettingsPath string // MDEXEC_SETTINGS: settings file path
	Interpreter  string // MDEXEC_INTERPRETER: interpreter for this invocation
	Workers      int    // MDEXEC_WORKERS: parallel workers
}

// knownEnvVars lists valid MDEXEC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	envSettings:    true,
	envInterpreter: true,
	envWorkers:     true,
	envContainer:   true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid worker counts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		SettingsPath: getenv(envSettings),
		Interpreter:  getenv(envInterpreter),
	}

	if workers := getenv(envWorkers); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes warnings for unrecognized MDEXEC_* variables.
// Helps catch typos like MDEXEC_INTERPRETOR.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// resolveSettingsPath picks the settings file.
// Priority: --settings flag > MDEXEC_SETTINGS > user config directory.
func resolveSettingsPath(flagPath string, env *envConfig, defaultPath func() (string, error)) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if env.SettingsPath != "" {
		return env.SettingsPath, nil
	}
	return defaultPath()
}

// resolveInterpreter picks the per-invocation interpreter override.
// Priority: --interpreter flag > MDEXEC_INTERPRETER. Empty keeps the setting.
func resolveInterpreter(flagInterpreter string, env *envConfig) string {
	if flagInterpreter != "" {
		return flagInterpreter
	}
	return env.Interpreter
}

// resolveWorkers picks the worker count.
// Priority: --workers flag > MDEXEC_WORKERS > 0 (auto).
func resolveWorkers(flagWorkers int, env *envConfig) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	return env.Workers
}
