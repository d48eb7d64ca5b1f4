package format

import (
	"bytes"
	"io"

	"github.com/dhamidi/fishast/fish/parser"
	"gopkg.in/yaml.v3"
)

// ASTYAMLEncoder writes the same document as ASTJSONEncoder, as YAML.
type ASTYAMLEncoder struct {
	w      io.Writer
	ast    *parser.Ast
	src    string
	Errors parser.ErrorList
}

func NewASTYAMLEncoder(w io.Writer) *ASTYAMLEncoder {
	return &ASTYAMLEncoder{w: w}
}

func (e *ASTYAMLEncoder) Encode(ast *parser.Ast, src string) error {
	e.ast = ast
	e.src = src
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTYAMLEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(buildDocument(e.ast, e.src, e.Errors)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
