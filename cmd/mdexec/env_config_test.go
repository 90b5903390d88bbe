package main

// Notes:
// - loadEnvConfig: we test parsing with a map-backed getenv, so the tests
//   never touch the process environment and can run in parallel.
// - resolve*: we test the flag > env > default priority.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func mapGetenv(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment parsing
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vars map[string]string
		want envConfig
	}{
		{"empty", nil, envConfig{}},
		{
			name: "all set",
			vars: map[string]string{envSettings: "/s.yaml", envInterpreter: "python3", envWorkers: "4"},
			want: envConfig{SettingsPath: "/s.yaml", Interpreter: "python3", Workers: 4},
		},
		{"invalid workers", map[string]string{envWorkers: "many"}, envConfig{}},
		{"zero workers", map[string]string{envWorkers: "0"}, envConfig{}},
		{"negative workers", map[string]string{envWorkers: "-2"}, envConfig{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := loadEnvConfig(mapGetenv(tt.vars)); *got != tt.want {
				t.Errorf("loadEnvConfig() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"HOME=/root",
		"MDEXEC_INTERPRETER=python3",
		"MDEXEC_INTERPRETOR=python3",
		"MDEXEC_CONTAINER=1",
		"MDEXEC_WORKER=2",
	})

	out := buf.String()
	for _, want := range []string{"MDEXEC_INTERPRETOR", "MDEXEC_WORKER "} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing warning for %s:\n%s", strings.TrimSpace(want), out)
		}
	}
	if got := strings.Count(out, "warning:"); got != 2 {
		t.Errorf("got %d warnings, want 2:\n%s", got, out)
	}
}

// ---------------------------------------------------------------------------
// TestResolve - Flag, environment and default priority
// ---------------------------------------------------------------------------

func TestResolveSettingsPath(t *testing.T) {
	t.Parallel()

	defaultPath := func() (string, error) { return "/default.yaml", nil }
	errNoDir := errors.New("no config dir")

	tests := []struct {
		name     string
		flag     string
		env      envConfig
		fallback func() (string, error)
		want     string
		wantErr  error
	}{
		{"flag wins", "/flag.yaml", envConfig{SettingsPath: "/env.yaml"}, defaultPath, "/flag.yaml", nil},
		{"env", "", envConfig{SettingsPath: "/env.yaml"}, defaultPath, "/env.yaml", nil},
		{"default", "", envConfig{}, defaultPath, "/default.yaml", nil},
		{"default fails", "", envConfig{}, func() (string, error) { return "", errNoDir }, "", errNoDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveSettingsPath(tt.flag, &tt.env, tt.fallback)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("resolveSettingsPath() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveSettingsPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveInterpreter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		flag, env, want string
	}{
		{"", "", ""},
		{"", "python3", "python3"},
		{"pypy3", "python3", "pypy3"},
	}

	for _, tt := range tests {
		if got := resolveInterpreter(tt.flag, &envConfig{Interpreter: tt.env}); got != tt.want {
			t.Errorf("resolveInterpreter(%q, %q) = %q, want %q", tt.flag, tt.env, got, tt.want)
		}
	}
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		flag, env, want int
	}{
		{0, 0, 0},
		{0, 3, 3},
		{2, 3, 2},
	}

	for _, tt := range tests {
		if got := resolveWorkers(tt.flag, &envConfig{Workers: tt.env}); got != tt.want {
			t.Errorf("resolveWorkers(%d, %d) = %d, want %d", tt.flag, tt.env, got, tt.want)
		}
	}
}
