package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// PlaceholderAttr carries the zero-based index of a script block on its
// placeholder element.
const PlaceholderAttr = "data-script-block"

// KindScriptBlock is the node kind of ScriptBlock.
var KindScriptBlock = ast.NewNodeKind("ScriptBlock")

// scriptSourcesKey stores the collected sources in the parser context.
var scriptSourcesKey = parser.NewContextKey()

// ScriptBlock replaces a fenced code block written in the script language.
// It renders as an empty placeholder that the host fills after conversion.
type ScriptBlock struct {
	ast.BaseBlock
	Index    int
	Language string
	Source   string
}

// Kind implements ast.Node.
func (n *ScriptBlock) Kind() ast.NodeKind {
	return KindScriptBlock
}

// Dump implements ast.Node.
func (n *ScriptBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Index":    strconv.Itoa(n.Index),
		"Language": n.Language,
	}, nil)
}

// scriptBlockTransformer swaps matching fenced code blocks for ScriptBlocks.
type scriptBlockTransformer struct {
	language string
}

// Transform implements parser.ASTTransformer.
func (t *scriptBlockTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var fences []*ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if string(fcb.Language(source)) == t.language {
			fences = append(fences, fcb)
		}
		return ast.WalkSkipChildren, nil
	})

	sources := make([]string, 0, len(fences))
	for i, fcb := range fences {
		block := &ScriptBlock{
			Index:    i,
			Language: t.language,
			Source:   fenceContent(fcb, source),
		}
		parent := fcb.Parent()
		parent.ReplaceChild(parent, fcb, block)
		sources = append(sources, block.Source)
	}
	pc.Set(scriptSourcesKey, sources)
}

// fenceContent returns the raw lines of a fence without its final newline.
func fenceContent(fcb *ast.FencedCodeBlock, source []byte) string {
	var sb strings.Builder
	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		sb.Write(line.Value(source))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// scriptSources returns the sources collected during parsing.
func scriptSources(pc parser.Context) []string {
	sources, _ := pc.Get(scriptSourcesKey).([]string)
	return sources
}

// scriptBlockRenderer writes the placeholder element for a ScriptBlock.
type scriptBlockRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *scriptBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindScriptBlock, r.renderScriptBlock)
}

func (r *scriptBlockRenderer) renderScriptBlock(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ScriptBlock)
	_, err := fmt.Fprintf(w, "<div class=\"block-language-%s\" %s=\"%d\"></div>\n",
		util.EscapeHTML([]byte(n.Language)), PlaceholderAttr, n.Index)
	return ast.WalkSkipChildren, err
}

// scriptBlockExtension registers the transformer and renderer.
type scriptBlockExtension struct {
	language string
}

// Compile-time interface checks.
var (
	_ parser.ASTTransformer = (*scriptBlockTransformer)(nil)
	_ renderer.NodeRenderer = (*scriptBlockRenderer)(nil)
	_ goldmark.Extender     = (*scriptBlockExtension)(nil)
)

// Extend implements goldmark.Extender.
func (e *scriptBlockExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&scriptBlockTransformer{language: e.language}, 100),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&scriptBlockRenderer{}, 100),
	))
}
