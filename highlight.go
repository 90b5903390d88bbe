package mdexec

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used for generated CSS.
const DefaultHighlightStyle = "github"

// Highlighter turns source code into an HTML fragment of highlighted tokens.
type Highlighter interface {
	Highlight(source, language string) (string, error)
}

// HighlightProvider is an optional highlighting capability queried at render
// time. When no highlighter is loaded yet, callers render plain text and
// register with OnReady to highlight later.
type HighlightProvider interface {
	// Current returns the loaded highlighter, if any.
	Current() (Highlighter, bool)
	// OnReady calls fn once a highlighter is available. If one is already
	// loaded, fn runs immediately.
	OnReady(fn func(Highlighter))
}

// LazyHighlighter is a HighlightProvider whose highlighter can be loaded after
// blocks were rendered. Waiting callbacks run once, in registration order.
type LazyHighlighter struct {
	mu      sync.Mutex
	h       Highlighter
	waiting []func(Highlighter)
}

// Compile-time interface checks.
var (
	_ HighlightProvider = (*LazyHighlighter)(nil)
	_ Highlighter       = (*ChromaHighlighter)(nil)
)

// NewLazyHighlighter returns a provider with no highlighter loaded.
func NewLazyHighlighter() *LazyHighlighter {
	return &LazyHighlighter{}
}

// LoadedHighlighter returns a provider with h already loaded.
func LoadedHighlighter(h Highlighter) *LazyHighlighter {
	l := &LazyHighlighter{}
	l.Load(h)
	return l
}

// Current implements HighlightProvider.
func (l *LazyHighlighter) Current() (Highlighter, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.h, l.h != nil
}

// OnReady implements HighlightProvider.
func (l *LazyHighlighter) OnReady(fn func(Highlighter)) {
	l.mu.Lock()
	if l.h != nil {
		h := l.h
		l.mu.Unlock()
		fn(h)
		return
	}
	l.waiting = append(l.waiting, fn)
	l.mu.Unlock()
}

// Load installs h and flushes waiting callbacks. A nil h is ignored.
func (l *LazyHighlighter) Load(h Highlighter) {
	if h == nil {
		return
	}

	l.mu.Lock()
	l.h = h
	waiting := l.waiting
	l.waiting = nil
	l.mu.Unlock()

	for _, fn := range waiting {
		fn(h)
	}
}

// ChromaHighlighter highlights code with chroma using CSS classes, so the
// stylesheet from CSS controls colors.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter creates a highlighter for the named chroma style.
// Unknown style names fall back to chroma's default style.
func NewChromaHighlighter(styleName string) *ChromaHighlighter {
	return &ChromaHighlighter{
		style: styles.Get(styleName),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Highlight implements Highlighter. Unknown languages use chroma's plain-text lexer.
func (c *ChromaHighlighter) Highlight(source, language string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", fmt.Errorf("tokenizing %s source: %w", language, err)
	}

	var buf bytes.Buffer
	if err := c.formatter.Format(&buf, c.style, iterator); err != nil {
		return "", fmt.Errorf("formatting %s source: %w", language, err)
	}
	return buf.String(), nil
}

// CSS returns the stylesheet for the highlighter's token classes.
func (c *ChromaHighlighter) CSS() (string, error) {
	var buf bytes.Buffer
	if err := c.formatter.WriteCSS(&buf, c.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}
