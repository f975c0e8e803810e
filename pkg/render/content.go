package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/baloola/naucse/pkg/metrics"
)

// ChromaStyleName selects the highlighting style whose classes the
// exported stylesheet is generated for.
const ChromaStyleName = "friendly"

// Pipeline converts page markdown to sanitized HTML. Fenced code blocks
// are highlighted with chroma (class-based, so the output survives
// sanitization and the colors live in the exported stylesheet).
type Pipeline struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	style  *chroma.Style
}

// NewPipeline creates the default content pipeline.
func NewPipeline() *Pipeline {
	style := styles.Get(ChromaStyleName)
	if style == nil {
		style = styles.Fallback
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&admonitionTransformer{}, 500),
			),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&codeBlockRenderer{style: style}, 200),
				util.Prioritized(&admonitionRenderer{}, 200),
			),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class", "role", "aria-hidden").Globally()

	return &Pipeline{md: md, policy: policy, style: style}
}

// Render converts markdown to sanitized HTML.
func (p *Pipeline) Render(markdown string) (template.HTML, error) {
	defer metrics.Timer(metrics.MarkdownRender)()
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(p.policy.SanitizeBytes(buf.Bytes())), nil
}

// SanitizeFragment sanitizes an author-supplied HTML fragment
// (descriptions, attribution lines).
func (p *Pipeline) SanitizeFragment(fragment string) template.HTML {
	return template.HTML(p.policy.Sanitize(fragment))
}

// WriteHighlightCSS writes the stylesheet for the pipeline's highlighting
// classes. The static site export ships it next to the base stylesheet.
func (p *Pipeline) WriteHighlightCSS(w io.Writer) error {
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	return formatter.WriteCSS(w, p.style)
}

// codeBlockRenderer replaces goldmark's fenced code block rendering with
// chroma class-based highlighting.
type codeBlockRenderer struct {
	style *chroma.Style
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	for i := 0; i < n.Lines().Len(); i++ {
		line := n.Lines().At(i)
		code.Write(line.Value(source))
	}

	lexer := lexers.Get(string(n.Language(source)))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	iterator, err := lexer.Tokenise(nil, code.String())
	if err != nil {
		return ast.WalkStop, fmt.Errorf("tokenising code block: %w", err)
	}

	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.Format(w, r.style, iterator); err != nil {
		return ast.WalkStop, fmt.Errorf("formatting code block: %w", err)
	}
	return ast.WalkSkipChildren, nil
}
