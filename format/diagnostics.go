package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/fishast/fish/parser"
)

// Diagnostic is a syntax error located by line and column.
type Diagnostic struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Offset  int       `json:"offset"`
	Length  int       `json:"length"`
	Start   *Position `json:"start,omitempty"`
	End     *Position `json:"end,omitempty"`
}

// Diagnostics converts errs to diagnostics for src. Errors without a known
// position, like those at the end of the input, point past the last byte.
func Diagnostics(src string, errs parser.ErrorList) []Diagnostic {
	idx := NewLineIndex(src)
	diags := make([]Diagnostic, 0, len(errs))
	for _, err := range errs {
		d := Diagnostic{
			Code:    err.Code.String(),
			Message: err.Text,
			Offset:  err.SourceStart,
			Length:  err.SourceLen,
		}
		rng := err.Range()
		if rng.Start < 0 {
			rng = parser.SourceRange{Start: len(src)}
		}
		start, end := idx.Position(rng.Start), idx.Position(rng.End())
		d.Start, d.End = &start, &end
		diags = append(diags, d)
	}
	return diags
}

// DiagnosticsJSONEncoder writes the syntax errors of one file as JSON.
type DiagnosticsJSONEncoder struct {
	w    io.Writer
	path string
	src  string
	errs parser.ErrorList
}

func NewDiagnosticsJSONEncoder(w io.Writer) *DiagnosticsJSONEncoder {
	return &DiagnosticsJSONEncoder{w: w}
}

type diagnosticsFile struct {
	File        string       `json:"file,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

func (e *DiagnosticsJSONEncoder) Encode(path, src string, errs parser.ErrorList) error {
	e.path = path
	e.src = src
	e.errs = errs
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *DiagnosticsJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(diagnosticsFile{
		File:        e.path,
		Diagnostics: Diagnostics(e.src, e.errs),
	}, "", "  ")
}
