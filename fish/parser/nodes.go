package parser

// Optional fields are nil when absent. Every other field is always
// populated, possibly with unsourced leaves.

func visitOptional[T Node](v Visitor, n T, present bool) {
	if present {
		v.Visit(n)
	}
}

func acceptItems[T Node](v Visitor, items []T) {
	for _, item := range items {
		v.Visit(item)
	}
}

// Redirection is an operator like > or 2>&, and its target. Pipes are not
// redirections.
type Redirection struct {
	nodeBase
	Oper   TokenRedirection
	Target String
}

func (*Redirection) Kind() Kind { return KindRedirection }

func (n *Redirection) Accept(v Visitor) {
	v.Visit(&n.Oper)
	v.Visit(&n.Target)
}

type VariableAssignmentList struct {
	nodeBase
	Items []*VariableAssignment
}

func (*VariableAssignmentList) Kind() Kind         { return KindVariableAssignmentList }
func (l *VariableAssignmentList) Accept(v Visitor) { acceptItems(v, l.Items) }
func (l *VariableAssignmentList) Len() int         { return len(l.Items) }

// ArgumentOrRedirection holds either an *Argument or a *Redirection.
type ArgumentOrRedirection struct {
	nodeBase
	Contents Node
}

func (*ArgumentOrRedirection) Kind() Kind { return KindArgumentOrRedirection }

func (n *ArgumentOrRedirection) Accept(v Visitor) {
	if n.Contents != nil {
		v.Visit(n.Contents)
	}
}

func (n *ArgumentOrRedirection) IsArgument() bool {
	_, ok := n.Contents.(*Argument)
	return ok
}

func (n *ArgumentOrRedirection) IsRedirection() bool {
	_, ok := n.Contents.(*Redirection)
	return ok
}

// Argument returns the wrapped argument. It panics if n holds a redirection.
func (n *ArgumentOrRedirection) Argument() *Argument {
	arg, ok := n.Contents.(*Argument)
	if !ok {
		panic("parser: not an argument")
	}
	return arg
}

// Redirection returns the wrapped redirection. It panics if n holds an argument.
func (n *ArgumentOrRedirection) Redirection() *Redirection {
	redir, ok := n.Contents.(*Redirection)
	if !ok {
		panic("parser: not a redirection")
	}
	return redir
}

type ArgumentOrRedirectionList struct {
	nodeBase
	Items []*ArgumentOrRedirection
}

func (*ArgumentOrRedirectionList) Kind() Kind         { return KindArgumentOrRedirectionList }
func (l *ArgumentOrRedirectionList) Accept(v Visitor) { acceptItems(v, l.Items) }
func (l *ArgumentOrRedirectionList) Len() int         { return len(l.Items) }

// Statement is a plain command, or a not, block, brace, if or switch
// statement. Contents holds one of *DecoratedStatement, *NotStatement,
// *BlockStatement, *BraceStatement, *IfStatement or *SwitchStatement.
type Statement struct {
	nodeBase
	Contents Node
}

func (*Statement) Kind() Kind { return KindStatement }

func (n *Statement) Accept(v Visitor) {
	if n.Contents != nil {
		v.Visit(n.Contents)
	}
}

// Embedded returns the statement's contents.
func (n *Statement) Embedded() Node {
	return n.Contents
}

// DecoratedStatement returns the contents if the statement is a plain command.
func (n *Statement) DecoratedStatement() (*DecoratedStatement, bool) {
	d, ok := n.Contents.(*DecoratedStatement)
	return d, ok
}

// JobPipeline is one or more statements joined by pipes.
type JobPipeline struct {
	nodeBase
	Time         *KeywordTime
	Variables    VariableAssignmentList
	Statement    Statement
	Continuation JobContinuationList
	Bg           *TokenBackground
}

func (*JobPipeline) Kind() Kind { return KindJobPipeline }

func (n *JobPipeline) Accept(v Visitor) {
	visitOptional(v, n.Time, n.Time != nil)
	v.Visit(&n.Variables)
	v.Visit(&n.Statement)
	v.Visit(&n.Continuation)
	visitOptional(v, n.Bg, n.Bg != nil)
}

// JobConjunction is a pipeline followed by && or || continuations.
type JobConjunction struct {
	nodeBase
	Decorator     *JobConjunctionDecorator
	Job           JobPipeline
	Continuations JobConjunctionContinuationList
	// Only missing when the input ran out.
	SemiNl *SemiNl
}

func (*JobConjunction) Kind() Kind { return KindJobConjunction }

func (n *JobConjunction) Accept(v Visitor) {
	visitOptional(v, n.Decorator, n.Decorator != nil)
	v.Visit(&n.Job)
	v.Visit(&n.Continuations)
	visitOptional(v, n.SemiNl, n.SemiNl != nil)
}

// BlockStatementHeader holds one of *BeginHeader, *ForHeader, *WhileHeader
// or *FunctionHeader.
type BlockStatementHeader struct {
	nodeBase
	Contents Node
}

func (*BlockStatementHeader) Kind() Kind { return KindBlockStatementHeader }

func (n *BlockStatementHeader) Accept(v Visitor) {
	if n.Contents != nil {
		v.Visit(n.Contents)
	}
}

func (n *BlockStatementHeader) Embedded() Node {
	return n.Contents
}

type ForHeader struct {
	nodeBase
	KwFor   KeywordFor
	VarName String
	KwIn    KeywordIn
	Args    ArgumentList
	SemiNl  SemiNl
}

func (*ForHeader) Kind() Kind { return KindForHeader }

func (n *ForHeader) Accept(v Visitor) {
	v.Visit(&n.KwFor)
	v.Visit(&n.VarName)
	v.Visit(&n.KwIn)
	v.Visit(&n.Args)
	v.Visit(&n.SemiNl)
}

type WhileHeader struct {
	nodeBase
	KwWhile   KeywordWhile
	Condition JobConjunction
	AndorTail AndorJobList
}

func (*WhileHeader) Kind() Kind { return KindWhileHeader }

func (n *WhileHeader) Accept(v Visitor) {
	v.Visit(&n.KwWhile)
	v.Visit(&n.Condition)
	v.Visit(&n.AndorTail)
}

type FunctionHeader struct {
	nodeBase
	KwFunction KeywordFunction
	// The function name; functions require at least one argument.
	FirstArg Argument
	Args     ArgumentList
	SemiNl   SemiNl
}

func (*FunctionHeader) Kind() Kind { return KindFunctionHeader }

func (n *FunctionHeader) Accept(v Visitor) {
	v.Visit(&n.KwFunction)
	v.Visit(&n.FirstArg)
	v.Visit(&n.Args)
	v.Visit(&n.SemiNl)
}

type BeginHeader struct {
	nodeBase
	KwBegin KeywordBegin
	// begin does not require a terminator: `begin echo hi; end` is valid.
	SemiNl *SemiNl
}

func (*BeginHeader) Kind() Kind { return KindBeginHeader }

func (n *BeginHeader) Accept(v Visitor) {
	v.Visit(&n.KwBegin)
	visitOptional(v, n.SemiNl, n.SemiNl != nil)
}

// BlockStatement is a for, while, function or begin block.
type BlockStatement struct {
	nodeBase
	Header       BlockStatementHeader
	Jobs         JobList
	End          KeywordEnd
	ArgsOrRedirs ArgumentOrRedirectionList
}

func (*BlockStatement) Kind() Kind { return KindBlockStatement }

func (n *BlockStatement) Accept(v Visitor) {
	v.Visit(&n.Header)
	v.Visit(&n.Jobs)
	v.Visit(&n.End)
	v.Visit(&n.ArgsOrRedirs)
}

// BraceStatement is { jobs } in command position.
type BraceStatement struct {
	nodeBase
	LeftBrace    TokenLeftBrace
	Jobs         JobList
	RightBrace   TokenRightBrace
	ArgsOrRedirs ArgumentOrRedirectionList
}

func (*BraceStatement) Kind() Kind { return KindBraceStatement }

func (n *BraceStatement) Accept(v Visitor) {
	v.Visit(&n.LeftBrace)
	v.Visit(&n.Jobs)
	v.Visit(&n.RightBrace)
	v.Visit(&n.ArgsOrRedirs)
}

type IfClause struct {
	nodeBase
	KwIf      KeywordIf
	Condition JobConjunction
	AndorTail AndorJobList
	Body      JobList
}

func (*IfClause) Kind() Kind { return KindIfClause }

func (n *IfClause) Accept(v Visitor) {
	v.Visit(&n.KwIf)
	v.Visit(&n.Condition)
	v.Visit(&n.AndorTail)
	v.Visit(&n.Body)
}

type ElseifClause struct {
	nodeBase
	KwElse   KeywordElse
	IfClause IfClause
}

func (*ElseifClause) Kind() Kind { return KindElseifClause }

func (n *ElseifClause) Accept(v Visitor) {
	v.Visit(&n.KwElse)
	v.Visit(&n.IfClause)
}

type ElseifClauseList struct {
	nodeBase
	Items []*ElseifClause
}

func (*ElseifClauseList) Kind() Kind         { return KindElseifClauseList }
func (l *ElseifClauseList) Accept(v Visitor) { acceptItems(v, l.Items) }
func (l *ElseifClauseList) Len() int         { return len(l.Items) }

type ElseClause struct {
	nodeBase
	KwElse KeywordElse
	SemiNl *SemiNl
	Body   JobList
}

func (*ElseClause) Kind() Kind { return KindElseClause }

func (n *ElseClause) Accept(v Visitor) {
	v.Visit(&n.KwElse)
	visitOptional(v, n.SemiNl, n.SemiNl != nil)
	v.Visit(&n.Body)
}

type IfStatement struct {
	nodeBase
	IfClause      IfClause
	ElseifClauses ElseifClauseList
	ElseClause    *ElseClause
	End           KeywordEnd
	ArgsOrRedirs  ArgumentOrRedirectionList
}

func (*IfStatement) Kind() Kind { return KindIfStatement }

func (n *IfStatement) Accept(v Visitor) {
	v.Visit(&n.IfClause)
	v.Visit(&n.ElseifClauses)
	visitOptional(v, n.ElseClause, n.ElseClause != nil)
	v.Visit(&n.End)
	v.Visit(&n.ArgsOrRedirs)
}

type CaseItem struct {
	nodeBase
	KwCase    KeywordCase
	Arguments ArgumentList
	SemiNl    SemiNl
	Body      JobList
}

func (*CaseItem) Kind() Kind { return KindCaseItem }

func (n *CaseItem) Accept(v Visitor) {
	v.Visit(&n.KwCase)
	v.Visit(&n.Arguments)
	v.Visit(&n.SemiNl)
	v.Visit(&n.Body)
}

type SwitchStatement struct {
	nodeBase
	KwSwitch     KeywordSwitch
	Argument     Argument
	SemiNl       SemiNl
	Cases        CaseItemList
	End          KeywordEnd
	ArgsOrRedirs ArgumentOrRedirectionList
}

func (*SwitchStatement) Kind() Kind { return KindSwitchStatement }

func (n *SwitchStatement) Accept(v Visitor) {
	v.Visit(&n.KwSwitch)
	v.Visit(&n.Argument)
	v.Visit(&n.SemiNl)
	v.Visit(&n.Cases)
	v.Visit(&n.End)
	v.Visit(&n.ArgsOrRedirs)
}

// StatementDecoration is the command, builtin or exec prefix of a command.
type StatementDecoration int

const (
	DecorationNone StatementDecoration = iota
	DecorationCommand
	DecorationBuiltin
	DecorationExec
)

func (d StatementDecoration) String() string {
	switch d {
	case DecorationCommand:
		return "command"
	case DecorationBuiltin:
		return "builtin"
	case DecorationExec:
		return "exec"
	}
	return "none"
}

// DecoratedStatement is a command with its arguments and redirections.
type DecoratedStatement struct {
	nodeBase
	OptDecoration *DecoratedStatementDecorator
	Command       String
	ArgsOrRedirs  ArgumentOrRedirectionList
}

func (*DecoratedStatement) Kind() Kind { return KindDecoratedStatement }

func (n *DecoratedStatement) Accept(v Visitor) {
	visitOptional(v, n.OptDecoration, n.OptDecoration != nil)
	v.Visit(&n.Command)
	v.Visit(&n.ArgsOrRedirs)
}

func (n *DecoratedStatement) Decoration() StatementDecoration {
	if n.OptDecoration == nil {
		return DecorationNone
	}
	switch n.OptDecoration.Keyword() {
	case KwCommand:
		return DecorationCommand
	case KwBuiltin:
		return DecorationBuiltin
	case KwExec:
		return DecorationExec
	}
	panic("parser: unexpected keyword in statement decoration")
}

// NotStatement is `not cmd` or `! cmd`.
type NotStatement struct {
	nodeBase
	Kw        KeywordNot
	Time      *KeywordTime
	Variables VariableAssignmentList
	Contents  Statement
}

func (*NotStatement) Kind() Kind { return KindNotStatement }

func (n *NotStatement) Accept(v Visitor) {
	v.Visit(&n.Kw)
	visitOptional(v, n.Time, n.Time != nil)
	v.Visit(&n.Variables)
	v.Visit(&n.Contents)
}

// JobContinuation is `| statement` inside a pipeline.
type JobContinuation struct {
	nodeBase
	Pipe      TokenPipe
	Newlines  MaybeNewlines
	Variables VariableAssignmentList
	Statement Statement
}

func (*JobContinuation) Kind() Kind { return KindJobContinuation }

func (n *JobContinuation) Accept(v Visitor) {
	v.Visit(&n.Pipe)
	v.Visit(&n.Newlines)
	v.Visit(&n.Variables)
	v.Visit(&n.Statement)
}

type JobContinuationList struct {
	nodeBase
	Items []*JobContinuation
}

func (*JobContinuationList) Kind() Kind         { return KindJobContinuationList }
func (l *JobContinuationList) Accept(v Visitor) { acceptItems(v, l.Items) }
func (l *JobContinuationList) Len() int         { return len(l.Items) }

// JobConjunctionContinuation is `&& job` or `|| job`.
type JobConjunctionContinuation struct {
	nodeBase
	Conjunction TokenConjunction
	Newlines    MaybeNewlines
	Job         JobPipeline
}

func (*JobConjunctionContinuation) Kind() Kind { return KindJobConjunctionContinuation }

func (n *JobConjunctionContinuation) Accept(v Visitor) {
	v.Visit(&n.Conjunction)
	v.Visit(&n.Newlines)
	v.Visit(&n.Job)
}

// AndorJob is a job starting with and or or, in the tail of an if or
// while condition.
type AndorJob struct {
	nodeBase
	Job JobConjunction
}

func (*AndorJob) Kind() Kind { return KindAndorJob }

func (n *AndorJob) Accept(v Visitor) {
	v.Visit(&n.Job)
}

type AndorJobList struct {
	nodeBase
	Items []*AndorJob
}

func (*AndorJobList) Kind() Kind         { return KindAndorJobList }
func (l *AndorJobList) Accept(v Visitor) { acceptItems(v, l.Items) }
func (l *AndorJobList) Len() int         { return len(l.Items) }

// FreestandingArgumentList is an argument list that may contain newlines
// and semicolons, as used by `complete --arguments`. The separators are not
// stored.
type FreestandingArgumentList struct {
	nodeBase
	Arguments ArgumentList
}

func (*FreestandingArgumentList) Kind() Kind { return KindFreestandingArgumentList }

func (n *FreestandingArgumentList) Accept(v Visitor) {
	v.Visit(&n.Arguments)
}

type JobConjunctionContinuationList struct {
	nodeBase
	Items []*JobConjunctionContinuation
}

func (*JobConjunctionContinuationList) Kind() Kind         { return KindJobConjunctionContinuationList }
func (l *JobConjunctionContinuationList) Accept(v Visitor) { acceptItems(v, l.Items) }
func (l *JobConjunctionContinuationList) Len() int         { return len(l.Items) }

type ArgumentList struct {
	nodeBase
	Items []*Argument
}

func (*ArgumentList) Kind() Kind         { return KindArgumentList }
func (l *ArgumentList) Accept(v Visitor) { acceptItems(v, l.Items) }
func (l *ArgumentList) Len() int         { return len(l.Items) }

// JobList is the body of a script or block. Its items are job conjunctions.
type JobList struct {
	nodeBase
	Items []*JobConjunction
}

func (*JobList) Kind() Kind         { return KindJobList }
func (l *JobList) Accept(v Visitor) { acceptItems(v, l.Items) }
func (l *JobList) Len() int         { return len(l.Items) }

type CaseItemList struct {
	nodeBase
	Items []*CaseItem
}

func (*CaseItemList) Kind() Kind         { return KindCaseItemList }
func (l *CaseItemList) Accept(v Visitor) { acceptItems(v, l.Items) }
func (l *CaseItemList) Len() int         { return len(l.Items) }
