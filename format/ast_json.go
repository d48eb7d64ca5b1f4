package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/fishast/fish/parser"
)

// ASTJSONEncoder writes the syntax tree as nested JSON objects. Errors, when
// set, are included with their messages; otherwise only the error ranges
// recorded in the tree are written.
type ASTJSONEncoder struct {
	w      io.Writer
	ast    *parser.Ast
	src    string
	Errors parser.ErrorList
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(ast *parser.Ast, src string) error {
	e.ast = ast
	e.src = src
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(buildDocument(e.ast, e.src, e.Errors), "", "  ")
}

type astDocument struct {
	Root     *astNode    `json:"root" yaml:"root"`
	Errored  bool        `json:"errored" yaml:"errored"`
	Errors   []*astError `json:"errors,omitempty" yaml:"errors,omitempty"`
	Comments []*astSpan  `json:"comments,omitempty" yaml:"comments,omitempty"`
}

type astNode struct {
	Kind      string     `json:"kind" yaml:"kind"`
	Type      string     `json:"type,omitempty" yaml:"type,omitempty"`
	Span      *astSpan   `json:"span,omitempty" yaml:"span,omitempty"`
	Text      string     `json:"text,omitempty" yaml:"text,omitempty"`
	Unsourced bool       `json:"unsourced,omitempty" yaml:"unsourced,omitempty"`
	Children  []*astNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type astSpan struct {
	Offset int      `json:"offset" yaml:"offset"`
	Length int      `json:"length" yaml:"length"`
	Start  Position `json:"start" yaml:"start"`
	End    Position `json:"end" yaml:"end"`
}

type astError struct {
	Code    string   `json:"code,omitempty" yaml:"code,omitempty"`
	Message string   `json:"message,omitempty" yaml:"message,omitempty"`
	Span    *astSpan `json:"span,omitempty" yaml:"span,omitempty"`
}

func newSpan(idx *LineIndex, rng parser.SourceRange) *astSpan {
	return &astSpan{
		Offset: rng.Start,
		Length: rng.Length,
		Start:  idx.Position(rng.Start),
		End:    idx.Position(rng.End()),
	}
}

func buildDocument(ast *parser.Ast, src string, errs parser.ErrorList) *astDocument {
	idx := NewLineIndex(src)
	doc := &astDocument{
		Root:    buildNode(ast.Top(), src, idx),
		Errored: ast.Errored(),
	}
	if errs != nil {
		for _, err := range errs {
			e := &astError{Code: err.Code.String(), Message: err.Text}
			if err.SourceStart >= 0 {
				e.Span = newSpan(idx, err.Range())
			}
			doc.Errors = append(doc.Errors, e)
		}
	} else {
		for _, rng := range ast.Extras.Errors {
			doc.Errors = append(doc.Errors, &astError{Span: newSpan(idx, rng)})
		}
	}
	for _, rng := range ast.Extras.Comments {
		doc.Comments = append(doc.Comments, newSpan(idx, rng))
	}
	return doc
}

func buildNode(n parser.Node, src string, idx *LineIndex) *astNode {
	jn := &astNode{Kind: n.Kind().String()}
	switch n := n.(type) {
	case parser.Token:
		jn.Type = n.TokenType().String()
	case parser.Keyword:
		jn.Type = n.Keyword().String()
	}

	if rng, ok := parser.SourceRangeOf(n); ok && (rng.Length > 0 || parser.IsLeaf(n)) {
		jn.Span = newSpan(idx, rng)
		if parser.IsLeaf(n) {
			jn.Text = src[rng.Start:rng.End()]
		}
	} else if !ok && parser.IsLeaf(n) {
		jn.Unsourced = true
	}

	n.Accept(parser.VisitorFunc(func(child parser.Node) {
		jn.Children = append(jn.Children, buildNode(child, src, idx))
	}))
	return jn
}
