package mdexec

import (
	"context"
	"strings"
	"unicode"

	"github.com/tliron/commonlog"
)

// RunMarker opts a block into execution when it is the first non-whitespace
// content of the block.
const RunMarker = "# run"

// loadedClass marks a <code> element whose content has been highlighted.
const loadedClass = "is-loaded"

// BlockProcessor decides, for each rendered script block, whether to show
// highlighted source and whether to execute it.
type BlockProcessor struct {
	lang        Language
	settings    SettingsProvider
	highlighter HighlightProvider
	runner      *ProcessRunner
	log         commonlog.Logger
}

// NewBlockProcessor creates a processor. highlighter may be nil, in which case
// source is always shown as plain text.
func NewBlockProcessor(lang Language, settings SettingsProvider, highlighter HighlightProvider, runner *ProcessRunner) *BlockProcessor {
	return &BlockProcessor{
		lang:        lang,
		settings:    settings,
		highlighter: highlighter,
		runner:      runner,
		log:         commonlog.GetLogger("mdexec.block"),
	}
}

// HasRunMarker reports whether source, once trimmed, starts with RunMarker.
// A marker after other content does not count.
func HasRunMarker(source string) bool {
	return strings.HasPrefix(strings.TrimFunc(source, isTrimSpace), RunMarker)
}

// isTrimSpace matches whitespace plus the byte order mark.
func isTrimSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Process renders one block into el. It returns the started Run when the block
// carries the execution marker, nil otherwise. Process returns as soon as the
// interpreter is scheduled; output arrives asynchronously.
func (p *BlockProcessor) Process(ctx context.Context, source string, el Element) *Run {
	s := p.settings.Settings()

	if s.ShowSourceInPreview {
		p.renderSource(source, el)
	}

	if !HasRunMarker(source) {
		return nil
	}

	out := el.CreateChild("pre", p.lang.OutputClass())
	return p.runner.Start(ctx, source, out)
}

// renderSource writes <pre><code class="language-X"> with highlighted source,
// falling back to plain text until a highlighter is loaded.
func (p *BlockProcessor) renderSource(source string, el Element) {
	pre := el.CreateChild("pre", "")
	code := pre.CreateChild("code", p.lang.SourceClass())

	if p.highlighter == nil {
		code.SetText(source)
		return
	}

	if h, ok := p.highlighter.Current(); ok {
		if !p.highlight(code, h, source) {
			code.SetText(source)
		}
		return
	}

	code.SetText(source)
	p.highlighter.OnReady(func(h Highlighter) {
		p.highlight(code, h, source)
	})
}

// highlight replaces code's content with highlighted markup.
// On failure the content is left untouched.
func (p *BlockProcessor) highlight(code Element, h Highlighter, source string) bool {
	markup, err := h.Highlight(source, p.lang.Name)
	if err != nil {
		p.log.Debugf("highlighting failed, keeping plain text: %v", err)
		return false
	}
	if err := code.SetHTML(markup); err != nil {
		p.log.Debugf("highlighted markup rejected, keeping plain text: %v", err)
		return false
	}
	code.AddClass(loadedClass)
	return true
}
