package format

import (
	"bytes"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/dhamidi/fishast/fish/parser"
)

// FishPrettyPrinter re-prints a parsed script with one job per line and
// nested job lists indented.
type FishPrettyPrinter struct {
	w            io.Writer
	source       string
	lines        *LineIndex
	comments     []parser.SourceRange
	commentIndex int
	indent       int
	indentStr    string
	atLineStart  bool
	printed      bool
	lastEnd      int // end offset of the last source text written
	err          error
}

func NewFishPrettyPrinter(w io.Writer, indent int) *FishPrettyPrinter {
	if indent < 0 {
		indent = 0
	}
	return &FishPrettyPrinter{
		w:           w,
		indentStr:   strings.Repeat(" ", indent),
		atLineStart: true,
	}
}

// Print writes ast, parsed from source with comments included.
func (p *FishPrettyPrinter) Print(ast *parser.Ast, source string) error {
	list := ast.JobList()
	if list == nil {
		return errors.New("pretty print: not a job list")
	}
	p.source = source
	p.lines = NewLineIndex(source)
	p.comments = append([]parser.SourceRange(nil), ast.Extras.Comments...)
	sort.Slice(p.comments, func(i, j int) bool {
		return p.comments[i].Start < p.comments[j].Start
	})
	p.commentIndex = 0

	p.printJobList(list)
	p.emitRemainingComments()
	return p.err
}

func (p *FishPrettyPrinter) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *FishPrettyPrinter) writeIndent() {
	if !p.atLineStart {
		return
	}
	p.write(strings.Repeat(p.indentStr, p.indent))
	p.atLineStart = false
}

func (p *FishPrettyPrinter) space() {
	p.write(" ")
}

func (p *FishPrettyPrinter) leaf(n parser.Leaf) {
	rng, ok := n.Range()
	if !ok {
		return
	}
	p.writeIndent()
	p.write(p.source[rng.Start:rng.End()])
	p.lastEnd = rng.End()
	p.printed = true
}

// endLine finishes the current line, pulling in a comment that follows on
// the same source line.
func (p *FishPrettyPrinter) endLine() {
	if p.commentIndex < len(p.comments) && p.printed {
		c := p.comments[p.commentIndex]
		if c.Start >= p.lastEnd && p.lines.Line(c.Start) == p.lines.Line(p.lastEnd-1) {
			p.space()
			p.write(p.source[c.Start:c.End()])
			p.lastEnd = c.End()
			p.commentIndex++
		}
	}
	p.write("\n")
	p.atLineStart = true
}

// blankLineBefore keeps one blank line where the source has one or more
// between the last output and offset.
func (p *FishPrettyPrinter) blankLineBefore(offset int) {
	if !p.printed {
		return
	}
	if p.lines.Line(offset)-p.lines.Line(p.lastEnd-1) >= 2 {
		p.write("\n")
	}
}

func (p *FishPrettyPrinter) emitComment(c parser.SourceRange) {
	p.blankLineBefore(c.Start)
	p.writeIndent()
	p.write(p.source[c.Start:c.End()])
	p.lastEnd = c.End()
	p.printed = true
	p.write("\n")
	p.atLineStart = true
	p.commentIndex++
}

func (p *FishPrettyPrinter) emitCommentsBefore(offset int) {
	for p.commentIndex < len(p.comments) && p.comments[p.commentIndex].Start < offset {
		p.emitComment(p.comments[p.commentIndex])
	}
}

func (p *FishPrettyPrinter) emitRemainingComments() {
	p.indent = 0
	for p.commentIndex < len(p.comments) {
		p.emitComment(p.comments[p.commentIndex])
	}
}

func startOf(n parser.Node) int {
	rng, _ := parser.SourceRangeOf(n)
	return rng.Start
}

func leafStart(n parser.Leaf) int {
	rng, _ := n.Range()
	return rng.Start
}

func (p *FishPrettyPrinter) printJobList(list *parser.JobList) {
	for _, job := range list.Items {
		start := startOf(job)
		p.emitCommentsBefore(start)
		p.blankLineBefore(start)
		p.printJobConjunction(job)
		p.endLine()
	}
}

func (p *FishPrettyPrinter) printBody(list *parser.JobList) {
	p.indent++
	p.printJobList(list)
	p.indent--
}

func (p *FishPrettyPrinter) printJobConjunction(j *parser.JobConjunction) {
	if j.Decorator != nil {
		p.leaf(j.Decorator)
		p.space()
	}
	p.printJobPipeline(&j.Job)
	for _, c := range j.Continuations.Items {
		p.space()
		p.leaf(&c.Conjunction)
		p.space()
		p.printJobPipeline(&c.Job)
	}
}

func (p *FishPrettyPrinter) printJobPipeline(j *parser.JobPipeline) {
	if j.Time != nil {
		p.leaf(j.Time)
		p.space()
	}
	p.printVariables(&j.Variables)
	p.printStatement(&j.Statement)
	for _, c := range j.Continuation.Items {
		p.space()
		p.leaf(&c.Pipe)
		p.space()
		p.printVariables(&c.Variables)
		p.printStatement(&c.Statement)
	}
	if j.Bg != nil {
		p.space()
		p.leaf(j.Bg)
	}
}

func (p *FishPrettyPrinter) printVariables(list *parser.VariableAssignmentList) {
	for _, v := range list.Items {
		p.leaf(v)
		p.space()
	}
}

// Redirections are printed without a space: `>out`, `2>&1`.
func (p *FishPrettyPrinter) printArgsOrRedirs(list *parser.ArgumentOrRedirectionList) {
	for _, item := range list.Items {
		p.space()
		if item.IsArgument() {
			p.leaf(item.Argument())
			continue
		}
		r := item.Redirection()
		p.leaf(&r.Oper)
		p.leaf(&r.Target)
	}
}

func (p *FishPrettyPrinter) printArguments(list *parser.ArgumentList) {
	for _, arg := range list.Items {
		p.space()
		p.leaf(arg)
	}
}

func (p *FishPrettyPrinter) printStatement(s *parser.Statement) {
	switch n := s.Contents.(type) {
	case *parser.DecoratedStatement:
		if n.OptDecoration != nil {
			p.leaf(n.OptDecoration)
			p.space()
		}
		p.leaf(&n.Command)
		p.printArgsOrRedirs(&n.ArgsOrRedirs)
	case *parser.NotStatement:
		p.leaf(&n.Kw)
		p.space()
		if n.Time != nil {
			p.leaf(n.Time)
			p.space()
		}
		p.printVariables(&n.Variables)
		p.printStatement(&n.Contents)
	case *parser.BlockStatement:
		p.printBlockStatement(n)
	case *parser.BraceStatement:
		p.leaf(&n.LeftBrace)
		p.endLine()
		p.printBody(&n.Jobs)
		p.closeBlock(&n.RightBrace, &n.ArgsOrRedirs)
	case *parser.IfStatement:
		p.printIfStatement(n)
	case *parser.SwitchStatement:
		p.printSwitchStatement(n)
	}
}

// closeBlock prints the keyword or brace that ends a block, after any
// comments that belong to the block body.
func (p *FishPrettyPrinter) closeBlock(end parser.Leaf, args *parser.ArgumentOrRedirectionList) {
	p.indent++
	p.emitCommentsBefore(leafStart(end))
	p.indent--
	p.leaf(end)
	p.printArgsOrRedirs(args)
}

func (p *FishPrettyPrinter) printAndorTail(list *parser.AndorJobList) {
	p.indent++
	for _, a := range list.Items {
		p.emitCommentsBefore(startOf(a))
		p.printJobConjunction(&a.Job)
		p.endLine()
	}
	p.indent--
}

func (p *FishPrettyPrinter) printBlockStatement(b *parser.BlockStatement) {
	var andor *parser.AndorJobList
	switch h := b.Header.Contents.(type) {
	case *parser.ForHeader:
		p.leaf(&h.KwFor)
		p.space()
		p.leaf(&h.VarName)
		p.space()
		p.leaf(&h.KwIn)
		p.printArguments(&h.Args)
	case *parser.WhileHeader:
		p.leaf(&h.KwWhile)
		p.space()
		p.printJobConjunction(&h.Condition)
		andor = &h.AndorTail
	case *parser.FunctionHeader:
		p.leaf(&h.KwFunction)
		p.space()
		p.leaf(&h.FirstArg)
		p.printArguments(&h.Args)
	case *parser.BeginHeader:
		p.leaf(&h.KwBegin)
	}
	p.endLine()
	if andor != nil {
		p.printAndorTail(andor)
	}
	p.printBody(&b.Jobs)
	p.closeBlock(&b.End, &b.ArgsOrRedirs)
}

func (p *FishPrettyPrinter) printIfClause(c *parser.IfClause) {
	p.leaf(&c.KwIf)
	p.space()
	p.printJobConjunction(&c.Condition)
	p.endLine()
	p.printAndorTail(&c.AndorTail)
	p.printBody(&c.Body)
}

func (p *FishPrettyPrinter) printIfStatement(s *parser.IfStatement) {
	p.printIfClause(&s.IfClause)
	for _, e := range s.ElseifClauses.Items {
		p.indent++
		p.emitCommentsBefore(leafStart(&e.KwElse))
		p.indent--
		p.leaf(&e.KwElse)
		p.space()
		p.printIfClause(&e.IfClause)
	}
	if e := s.ElseClause; e != nil {
		p.indent++
		p.emitCommentsBefore(leafStart(&e.KwElse))
		p.indent--
		p.leaf(&e.KwElse)
		p.endLine()
		p.printBody(&e.Body)
	}
	p.closeBlock(&s.End, &s.ArgsOrRedirs)
}

func (p *FishPrettyPrinter) printSwitchStatement(s *parser.SwitchStatement) {
	p.leaf(&s.KwSwitch)
	p.space()
	p.leaf(&s.Argument)
	p.endLine()
	for _, c := range s.Cases.Items {
		p.indent++
		p.emitCommentsBefore(leafStart(&c.KwCase))
		p.indent--
		p.leaf(&c.KwCase)
		p.printArguments(&c.Arguments)
		p.endLine()
		p.printBody(&c.Body)
	}
	p.closeBlock(&s.End, &s.ArgsOrRedirs)
}

// PrettyPrintFish re-prints a fish script. A script with syntax errors is
// returned unchanged, along with its first error.
func PrettyPrintFish(source []byte, indent int) ([]byte, error) {
	src := string(source)
	var errs parser.ErrorList
	ast := parser.Parse(src, parser.IncludeComments, &errs)
	if ast.Errored() {
		if len(errs) > 0 {
			return source, errs[0]
		}
		return source, errors.New("pretty print: script has syntax errors")
	}

	var buf bytes.Buffer
	pp := NewFishPrettyPrinter(&buf, indent)
	if err := pp.Print(ast, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
