package mdexec

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-mdexec/internal/assets"
	"github.com/alnah/go-mdexec/internal/dom"
	"github.com/alnah/go-mdexec/internal/pipeline"
)

// defaultTitle is used when Input.Title is empty.
const defaultTitle = "Document"

// Input is one markdown document to render.
type Input struct {
	Markdown string // required
	Title    string // <title>; empty uses "Document"
	CSS      string // appended after the built-in styles
	// BaseDir resolves relative image and link paths to file:// URLs.
	// Empty leaves them untouched.
	BaseDir string
}

// Result is a rendered document.
type Result struct {
	HTML     string
	Blocks   int    // script blocks found
	Executed int    // blocks carrying the run marker
	Failed   int    // runs whose interpreter failed to start or to be observed
	Runs     []*Run // finished runs, in document order
}

// Renderer turns markdown into a standalone HTML document, executing the
// marked script blocks and waiting for every run to finish. It is safe for
// concurrent use.
type Renderer struct {
	lang           Language
	settings       SettingsProvider
	spawner        Spawner
	highlighter    HighlightProvider
	highlighterSet bool
	style          string
	loader         assets.AssetLoader

	preprocessor pipeline.MarkdownPreprocessor
	converter    pipeline.HTMLConverter
	chroma       *ChromaHighlighter
	processor    *BlockProcessor
	log          commonlog.Logger
}

// NewRenderer creates a Renderer with default settings (python, source shown,
// no exit status) and chroma highlighting. Use options to customize it.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		lang:         Python,
		settings:     StaticSettings(DefaultSettings()),
		style:        DefaultHighlightStyle,
		loader:       assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		log:          commonlog.GetLogger("mdexec.render"),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.chroma = NewChromaHighlighter(r.style)
	if !r.highlighterSet {
		r.highlighter = LoadedHighlighter(r.chroma)
	}
	r.converter = pipeline.NewGoldmarkConverter(r.lang.Name, r.style)
	runner := NewProcessRunner(r.lang, r.settings, r.spawner)
	r.processor = NewBlockProcessor(r.lang, r.settings, r.highlighter, runner)

	return r
}

// Render runs the full pipeline. Script failures are written into the
// document and never returned; errors come from conversion, document
// assembly or ctx. Canceling ctx kills every running interpreter.
func (r *Renderer) Render(ctx context.Context, in Input) (*Result, error) {
	if in.Markdown == "" {
		return nil, ErrEmptyMarkdown
	}

	md := r.preprocessor.PreprocessMarkdown(ctx, in.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	out, err := r.converter.ToHTML(ctx, md)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	doc, err := r.buildDocument(in, out.HTML)
	if err != nil {
		return nil, err
	}

	placeholders, err := doc.Query("div[" + pipeline.PlaceholderAttr + "]")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentBuild, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	var runs []*Run
	for _, el := range placeholders {
		idx, err := strconv.Atoi(el.Attr(pipeline.PlaceholderAttr))
		if err != nil || idx < 0 || idx >= len(out.Sources) {
			r.log.Debugf("skipping placeholder with index %q", el.Attr(pipeline.PlaceholderAttr))
			continue
		}

		run := r.processor.Process(ctx, out.Sources[idx], wrapElement(el))
		if run == nil {
			continue
		}
		runs = append(runs, run)
		g.Go(func() error { return run.Wait(gctx) })
	}

	r.log.Debugf("rendering %d blocks, %d executing", len(placeholders), len(runs))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := pipeline.RewriteRelativePaths(doc, in.BaseDir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentBuild, err)
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentBuild, err)
	}

	res := &Result{
		HTML:     buf.String(),
		Blocks:   len(placeholders),
		Executed: len(runs),
		Runs:     runs,
	}
	for _, run := range runs {
		if run.State() == RunFailed {
			res.Failed++
		}
	}
	return res, nil
}

// buildDocument wraps the body fragment in the page template and parses it.
func (r *Renderer) buildDocument(in Input, body string) (*dom.Document, error) {
	page, err := assets.NewPageRenderer(r.loader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentBuild, err)
	}

	styles, err := r.styles(in.CSS)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentBuild, err)
	}

	title := in.Title
	if title == "" {
		title = defaultTitle
	}

	html, err := page.Render(assets.Page{Title: title, Styles: styles, Body: body})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentBuild, err)
	}

	doc, err := dom.ParseString(html)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentBuild, err)
	}
	return doc, nil
}

// styles returns the page, highlight, output and user stylesheets in order.
func (r *Renderer) styles(userCSS string) ([]string, error) {
	pageCSS, err := r.loader.LoadStyle(assets.PageStyleName)
	if err != nil {
		return nil, err
	}
	highlightCSS, err := r.chroma.CSS()
	if err != nil {
		return nil, err
	}
	outputCSS, err := r.loader.LoadStyle(assets.OutputStyleName)
	if err != nil {
		return nil, err
	}
	return []string{pageCSS, highlightCSS, outputCSS, userCSS}, nil
}
