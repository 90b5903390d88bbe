package mdexec

import "github.com/alnah/go-mdexec/internal/assets"

// Option configures a Renderer.
type Option func(*Renderer)

// WithSettings sets the settings source. It is queried on every block, so a
// mutable store passed here takes effect without re-creating the Renderer.
func WithSettings(p SettingsProvider) Option {
	return func(r *Renderer) {
		if p != nil {
			r.settings = p
		}
	}
}

// WithSpawner replaces the process launcher (tests, sandboxes).
func WithSpawner(s Spawner) Option {
	return func(r *Renderer) {
		r.spawner = s
	}
}

// WithHighlighter sets the source highlighting capability. A nil provider
// disables highlighting: sources are shown as plain text.
func WithHighlighter(h HighlightProvider) Option {
	return func(r *Renderer) {
		r.highlighter = h
		r.highlighterSet = true
	}
}

// WithLanguage sets the fenced-block language that is executed and the label
// used in exit status lines. Panics if name is empty (programmer error).
func WithLanguage(name, label string) Option {
	if name == "" {
		panic("mdexec: WithLanguage name must not be empty")
	}
	if label == "" {
		label = name
	}
	return func(r *Renderer) {
		r.lang = Language{Name: name, Label: label}
	}
}

// WithStyle sets the chroma style for highlighted code. Unknown styles fall
// back to chroma's default.
func WithStyle(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.style = name
		}
	}
}

// withAssetLoader replaces the embedded page assets (tests).
func withAssetLoader(l assets.AssetLoader) Option {
	return func(r *Renderer) {
		r.loader = l
	}
}
