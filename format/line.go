package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/fishast/fish/parser"
)

// LineEncoder writes one tab separated line per node: depth, kind, start,
// length and, for leaves, the quoted source text. Missing values are "-".
type LineEncoder struct {
	w   io.Writer
	ast *parser.Ast
	src string
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(ast *parser.Ast, src string) error {
	e.ast = ast
	e.src = src
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	t := e.ast.Walk()
	for n := t.Next(); n != nil; n = t.Next() {
		depth := len(t.ParentNodes()) - 1
		start, length, text := "-", "-", "-"
		if rng, ok := parser.SourceRangeOf(n); ok {
			start = strconv.Itoa(rng.Start)
			length = strconv.Itoa(rng.Length)
			if parser.IsLeaf(n) {
				text = strconv.Quote(e.src[rng.Start:rng.End()])
			}
		}
		fmt.Fprintf(&sb, "%d\t%s\t%s\t%s\t%s\n", depth, e.kind(n), start, length, text)
	}
	return []byte(sb.String()), nil
}

func (e *LineEncoder) kind(n parser.Node) string {
	switch n := n.(type) {
	case parser.Token:
		return "token:" + n.TokenType().String()
	case parser.Keyword:
		return "keyword:" + n.Keyword().String()
	}
	return n.Kind().String()
}
