package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
)

//go:embed styles/*.css templates/*.html
var embedded embed.FS

// EmbeddedLoader loads assets from a styles/ and templates/ tree, by default
// the one compiled into the binary.
type EmbeddedLoader struct {
	fsys fs.FS
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)

// NewEmbeddedLoader creates an EmbeddedLoader over the built-in assets.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fsys: embedded}
}

// NewFSLoader creates a loader over fsys, laid out like the built-in assets.
func NewFSLoader(fsys fs.FS) *EmbeddedLoader {
	return &EmbeddedLoader{fsys: fsys}
}

// LoadStyle loads a CSS style by name.
// The name should not include the .css extension.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := e.read("styles", name+".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return content, nil
}

// LoadTemplate loads an HTML template by name.
// The name should not include the .html extension.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := e.read("templates", name+".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return content, nil
}

func (e *EmbeddedLoader) read(dir, file string) (string, error) {
	content, err := fs.ReadFile(e.fsys, path.Join(dir, file))
	if err != nil {
		return "", err
	}
	return string(content), nil
}
