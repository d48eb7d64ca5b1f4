package format

import (
	"encoding"

	"github.com/dhamidi/fishast/fish/parser"
)

// Encoder writes a parsed script in some output format. Encode remembers
// the tree so MarshalText can be called afterwards.
type Encoder interface {
	encoding.TextMarshaler
	Encode(ast *parser.Ast, src string) error
}
