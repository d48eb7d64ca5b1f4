// Package parser builds typed syntax trees for fish scripts.
//
// # Overview
//
// Parsing never fails outright. Invalid or incomplete input still produces a
// tree with every field populated; the parts that could not be parsed are
// "unsourced" leaves, and the problems are reported as [ParseError] values.
// This lets the highlighter, the formatter and the language server work on
// whatever the user has typed so far.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│  tokenizer  │────▶│ TokenStream │────▶│  populator  │
//	│  (tokens)   │     │ (lookahead) │     │   (tree)    │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │  comments   │     │  Ast/Extras │
//	                    └─────────────┘     └─────────────┘
//
// # Nodes
//
// Every node is a leaf, a branch or a list (see [Kind.Category]):
//
//   - Leaves hold one token or keyword, like [String], [KeywordEnd] or
//     [Argument], and its [SourceRange].
//   - Branches have fixed fields. Required fields are values, optional fields
//     are pointers that stay nil when absent. [Statement],
//     [BlockStatementHeader] and [ArgumentOrRedirection] hold one of several
//     alternatives in their Contents field.
//   - Lists hold items of a single kind, in source order.
//
// [Node.Accept] visits the direct children of a node in field order. Every
// read-only algorithm in this package, and the [Traversal] external callers
// use, is built on it.
//
// # Error Recovery
//
// After the first error the parser is "unwinding": leaves are left unsourced
// and lists stop growing until the enclosing job list skips ahead to the next
// string or statement terminator. With [ContinueAfterError] parsing then goes
// on, so independent errors are each reported once. A block whose end keyword
// is missing is reported on its opening keyword:
//
//	Missing end to balance this if statement
//	if true; echo hi
//	^^
//
// # Usage
//
//	var errs parser.ErrorList
//	ast := parser.Parse(src, parser.ContinueAfterError, &errs)
//	for n := range ast.Walk().All() {
//		if stmt, ok := n.(*parser.DecoratedStatement); ok {
//			cmd, _ := parser.SourceOf(&stmt.Command, src)
//			fmt.Println(cmd)
//		}
//	}
package parser
