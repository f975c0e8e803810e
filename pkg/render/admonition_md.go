package render

import (
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Admonitions are written as blockquotes whose first line is a marker:
//
//	> [note] Remember
//	> The loop body must be indented.
//
// The transformer tags such blockquotes; the renderer expands them into
// callout divs instead of <blockquote>.

// admonitionMarkerRe matches "[kind]" followed by an optional title.
var admonitionMarkerRe = regexp.MustCompile(`^\[([a-z][a-z-]*)\][ \t]*(.*)$`)

var (
	attrAdmonitionKind  = []byte("admonitionKind")
	attrAdmonitionTitle = []byte("admonitionTitle")
)

type admonitionTransformer struct{}

func (t *admonitionTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindBlockquote {
			return ast.WalkContinue, nil
		}
		para, ok := n.FirstChild().(*ast.Paragraph)
		if !ok {
			return ast.WalkContinue, nil
		}
		first, ok := para.FirstChild().(*ast.Text)
		if !ok {
			return ast.WalkContinue, nil
		}
		m := admonitionMarkerRe.FindSubmatch(first.Segment.Value(source))
		if m == nil {
			return ast.WalkContinue, nil
		}

		n.SetAttribute(attrAdmonitionKind, m[1])
		if len(m[2]) > 0 {
			n.SetAttribute(attrAdmonitionTitle, m[2])
		}
		// The marker line is metadata, not body text.
		para.RemoveChild(para, first)
		if para.FirstChild() == nil {
			n.RemoveChild(n, para)
		}
		return ast.WalkContinue, nil
	})
}

type admonitionRenderer struct{}

func (r *admonitionRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
}

func (r *admonitionRenderer) renderBlockquote(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	kindAttr, tagged := node.Attribute(attrAdmonitionKind)
	if !tagged {
		if entering {
			_, _ = w.WriteString("<blockquote>\n")
		} else {
			_, _ = w.WriteString("</blockquote>\n")
		}
		return ast.WalkContinue, nil
	}

	if !entering {
		_, _ = w.WriteString(admonitionClose + "\n")
		return ast.WalkContinue, nil
	}

	var title string
	if t, ok := node.Attribute(attrAdmonitionTitle); ok {
		title = string(t.([]byte))
	}
	open, err := admonitionOpen(AdmonitionKind(kindAttr.([]byte)), title)
	if err != nil {
		return ast.WalkStop, err
	}
	_, _ = w.WriteString(open)
	return ast.WalkContinue, nil
}
