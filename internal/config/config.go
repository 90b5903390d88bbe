// Package config persists the interpreter settings. Settings live in a single
// YAML or TOML file; keys absent from the file take their defaults, and every
// change is written back immediately.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/alnah/go-mdexec"
	"github.com/alnah/go-mdexec/internal/codec"
	"github.com/alnah/go-mdexec/internal/fileutil"
)

// Sentinel errors for settings operations.
var (
	ErrSettingsParse = errors.New("failed to parse settings")
	ErrSettingsWrite = errors.New("failed to write settings")
	ErrUnknownField  = errors.New("unknown settings field")
	ErrInvalidValue  = errors.New("invalid settings value")
	ErrFieldTooLong  = errors.New("field exceeds maximum length")
	ErrNoConfigDir   = errors.New("cannot determine user config directory")
)

// Location of the default settings file under the user config directory.
const (
	AppDirName      = "go-mdexec"
	DefaultFileName = "settings.yaml"
)

// MaxInterpreterPathLength bounds the interpreter path.
const MaxInterpreterPathLength = 4096

// Settings field names, as used by Store.Set.
const (
	FieldInterpreterPath = "interpreter-path"
	FieldShowSource      = "show-source"
	FieldShowExitStatus  = "show-exit-status"
)

// Fields lists the settable field names in display order.
func Fields() []string {
	return []string{FieldInterpreterPath, FieldShowSource, FieldShowExitStatus}
}

// file is the on-disk layout. Nil fields were absent and take defaults.
type file struct {
	InterpreterPath     *string `yaml:"interpreterPath" toml:"interpreterPath"`
	ShowSourceInPreview *bool   `yaml:"showSourceInPreview" toml:"showSourceInPreview"`
	ShowExitStatus      *bool   `yaml:"showExitStatus" toml:"showExitStatus"`
}

// merge overlays the present fields onto defaults.
func (f file) merge(s mdexec.Settings) mdexec.Settings {
	if f.InterpreterPath != nil {
		s.InterpreterPath = *f.InterpreterPath
	}
	if f.ShowSourceInPreview != nil {
		s.ShowSourceInPreview = *f.ShowSourceInPreview
	}
	if f.ShowExitStatus != nil {
		s.ShowExitStatus = *f.ShowExitStatus
	}
	return s
}

func fileFrom(s mdexec.Settings) file {
	return file{
		InterpreterPath:     &s.InterpreterPath,
		ShowSourceInPreview: &s.ShowSourceInPreview,
		ShowExitStatus:      &s.ShowExitStatus,
	}
}

// DefaultPath returns <UserConfigDir>/go-mdexec/settings.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoConfigDir, err)
	}
	return filepath.Join(dir, AppDirName, DefaultFileName), nil
}

// Validate checks field values before they are used or persisted.
func Validate(s mdexec.Settings) error {
	if len(s.InterpreterPath) > MaxInterpreterPathLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)",
			ErrFieldTooLong, FieldInterpreterPath, len(s.InterpreterPath), MaxInterpreterPathLength)
	}
	if strings.ContainsRune(s.InterpreterPath, 0) {
		return fmt.Errorf("%w: %s contains a null byte", ErrInvalidValue, FieldInterpreterPath)
	}
	return nil
}

// Get returns the value of field formatted as Set accepts it.
func Get(s mdexec.Settings, field string) (string, error) {
	switch field {
	case FieldInterpreterPath:
		return s.InterpreterPath, nil
	case FieldShowSource:
		return strconv.FormatBool(s.ShowSourceInPreview), nil
	case FieldShowExitStatus:
		return strconv.FormatBool(s.ShowExitStatus), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

// Store holds the current settings and their file. It is safe for concurrent
// use and implements mdexec.SettingsProvider.
type Store struct {
	path   string
	format codec.Format

	mu       sync.RWMutex
	settings mdexec.Settings
}

// Compile-time interface check.
var _ mdexec.SettingsProvider = (*Store)(nil)

// Open loads the settings at path. A missing or empty file yields defaults;
// the file is only created by the first change.
func Open(path string) (*Store, error) {
	format, err := codec.FormatFor(path)
	if err != nil {
		return nil, err
	}

	s := &Store{path: path, format: format, settings: mdexec.DefaultSettings()}

	data, err := os.ReadFile(path) // #nosec G304 -- settings path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading settings file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return s, nil
	}

	var f file
	if err := codec.Unmarshal(format, data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSettingsParse, path, err)
	}

	merged := f.merge(s.settings)
	if err := Validate(merged); err != nil {
		return nil, err
	}
	s.settings = merged
	return s, nil
}

// Path returns the settings file path.
func (s *Store) Path() string { return s.path }

// Exists reports whether the settings file has been written.
func (s *Store) Exists() bool { return fileutil.FileExists(s.path) }

// Settings returns a snapshot of the current settings.
func (s *Store) Settings() mdexec.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Set parses value for the named field, then validates and persists it.
// Interpreter paths are stored as typed.
func (s *Store) Set(field, value string) error {
	var apply func(*mdexec.Settings)

	switch field {
	case FieldInterpreterPath:
		apply = func(st *mdexec.Settings) { st.InterpreterPath = value }
	case FieldShowSource, FieldShowExitStatus:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", ErrInvalidValue, field, value)
		}
		if field == FieldShowSource {
			apply = func(st *mdexec.Settings) { st.ShowSourceInPreview = b }
		} else {
			apply = func(st *mdexec.Settings) { st.ShowExitStatus = b }
		}
	default:
		return fmt.Errorf("%w: %q (valid: %s)", ErrUnknownField, field, strings.Join(Fields(), ", "))
	}

	return s.Update(apply)
}

// Update applies fn to a copy of the settings, validates the result, and
// persists it. On error the current settings are unchanged.
func (s *Store) Update(fn func(*mdexec.Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	fn(&next)
	if err := Validate(next); err != nil {
		return err
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.settings = next
	return nil
}

// Reset restores and persists the defaults.
func (s *Store) Reset() error {
	return s.Update(func(st *mdexec.Settings) { *st = mdexec.DefaultSettings() })
}

// Save persists the current settings.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(s.settings)
}

func (s *Store) write(st mdexec.Settings) error {
	data, err := codec.Marshal(s.format, fileFrom(st))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSettingsWrite, err)
	}
	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrSettingsWrite, err)
	}
	return nil
}
