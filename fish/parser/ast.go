package parser

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Extras holds source ranges that are not part of the grammar. Each list is
// ordered by offset.
type Extras struct {
	// Comments, when parsed with IncludeComments.
	Comments []SourceRange
	// Redundant semicolons, when parsed with ShowExtraSemis.
	Semis []SourceRange
	// Ranges of errors and of tokens skipped while recovering from them.
	Errors []SourceRange
}

// Ast is the result of a parse. The tree always has its full shape, even for
// invalid input; parts that could not be parsed are unsourced.
type Ast struct {
	top      Node
	anyError bool
	Extras   Extras
}

// Parse parses src as a job list. Syntax errors are appended to errs, which
// may be nil.
func Parse(src string, flags ParseFlags, errs *ErrorList) *Ast {
	p := newPopulator(src, flags, false, errs)
	list := &JobList{}
	populateList(p, list, &list.Items, true)
	return p.finalize(list)
}

// ParseArgumentList parses src as a freestanding argument list, as used by
// `complete --arguments`. Newlines and semicolons between arguments are
// skipped.
func ParseArgumentList(src string, flags ParseFlags, errs *ErrorList) *Ast {
	p := newPopulator(src, flags, true, errs)
	list := &FreestandingArgumentList{}
	populateList(p, &list.Arguments, &list.Arguments.Items, true)
	return p.finalize(list)
}

func (p *populator) finalize(top Node) *Ast {
	p.chompExtras(top.Kind())
	linkParents(top)

	byStart := func(a, b SourceRange) int { return cmp.Compare(a.Start, b.Start) }
	errors := slices.Clone(p.errors)
	slices.SortStableFunc(errors, byStart)
	return &Ast{
		top:      top,
		anyError: p.anyError,
		Extras: Extras{
			Comments: p.tokens.Comments(),
			Semis:    p.semis,
			Errors:   errors,
		},
	}
}

// linkParents sets the parent of every node below n.
func linkParents(n Node) {
	n.Accept(VisitorFunc(func(child Node) {
		child.setParent(n)
		linkParents(child)
	}))
}

// Parent returns the parent of n, or nil for the root.
func Parent(n Node) Node {
	return n.Parent()
}

func (a *Ast) Top() Node {
	return a.top
}

// JobList returns the root of a tree produced by Parse, or nil.
func (a *Ast) JobList() *JobList {
	list, _ := a.top.(*JobList)
	return list
}

// ArgumentList returns the root of a tree produced by ParseArgumentList, or nil.
func (a *Ast) ArgumentList() *FreestandingArgumentList {
	list, _ := a.top.(*FreestandingArgumentList)
	return list
}

// Errored reports whether any syntax error was found.
func (a *Ast) Errored() bool {
	return a.anyError
}

func (a *Ast) Walk() *Traversal {
	return NewTraversal(a.top)
}

// Dump renders the tree one node per line, indented by depth. It is meant
// for debugging and tests.
func (a *Ast) Dump(src string) string {
	return Dump(a.top, src)
}

func Dump(top Node, src string) string {
	var b strings.Builder
	t := NewTraversal(top)
	for n := t.Next(); n != nil; n = t.Next() {
		depth := len(t.ParentNodes()) - 1
		b.WriteString(strings.Repeat("! ", depth))
		b.WriteString(dumpLine(n, src))
		b.WriteByte('\n')
	}
	return b.String()
}

func dumpLine(n Node, src string) string {
	withSource := func(desc string) string {
		if text, ok := SourceOf(n, src); ok {
			return fmt.Sprintf("%s: '%s'", desc, text)
		}
		return desc
	}
	switch n := n.(type) {
	case *Argument:
		return withSource("argument")
	case Keyword:
		kw := n.Keyword()
		if kw == KwNone {
			kw = n.AllowedKeywords()[0]
		}
		return fmt.Sprintf("keyword: %s", kw)
	case Token:
		switch n.TokenType() {
		case TokString:
			return withSource("string")
		case TokRedirection:
			return withSource("redirection")
		case TokEnd:
			return "<;>"
		case TokInvalid:
			// A token that was expected but not found.
			return "<error>"
		}
		return TokenDescription(n.TokenType(), KwNone)
	}
	return Describe(n)
}

type sourceRangeVisitor struct {
	total        SourceRange
	anyUnsourced bool
}

func (v *sourceRangeVisitor) Visit(n Node) {
	leaf, ok := n.(Leaf)
	if !ok {
		n.Accept(v)
		return
	}
	rng, sourced := leaf.Range()
	switch {
	case !sourced:
		v.anyUnsourced = true
	case rng.Length == 0:
	case v.total.Length == 0:
		v.total = rng
	default:
		v.total = v.total.Combine(rng)
	}
}

// SourceRangeOf returns the range covered by the leaves below n. It returns
// false if any of them is unsourced.
func SourceRangeOf(n Node) (SourceRange, bool) {
	v := &sourceRangeVisitor{}
	v.Visit(n)
	if v.anyUnsourced {
		return SourceRange{}, false
	}
	return v.total, true
}

// SourceOf returns the text of src covered by n.
func SourceOf(n Node, src string) (string, bool) {
	rng, ok := SourceRangeOf(n)
	if !ok {
		return "", false
	}
	return src[rng.Start:rng.End()], true
}
