// Package codec encodes and decodes settings files. The format is chosen by
// file extension: YAML via goccy/go-yaml, TOML via pelletier/go-toml/v2.
// Decoding is always strict: unknown keys are rejected.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// MaxInputSize limits input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData           = errors.New("codec: nil or empty data")
	ErrNilDestination    = errors.New("codec: nil destination pointer")
	ErrInputTooLarge     = errors.New("codec: input exceeds maximum size")
	ErrUnsupportedFormat = errors.New("codec: unsupported format")
)

// Format is a settings file encoding.
type Format int

const (
	YAML Format = iota + 1
	TOML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FormatFor picks the format from path's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return 0, fmt.Errorf("%w: %q (use .yaml, .yml or .toml)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// Unmarshal decodes data into v, rejecting unknown fields.
func Unmarshal(f Format, data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}

	var err error
	switch f {
	case YAML:
		err = yaml.UnmarshalWithOptions(data, v, yaml.Strict())
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(v)
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("codec: %s: %w", f, err)
	}
	return nil
}

// Marshal encodes v.
func Marshal(f Format, v any) ([]byte, error) {
	var (
		result []byte
		err    error
	)
	switch f {
	case YAML:
		result, err = yaml.Marshal(v)
	case TOML:
		result, err = toml.Marshal(v)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("codec: %s: %w", f, err)
	}
	return result, nil
}
