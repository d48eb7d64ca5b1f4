package parser

import "fmt"

// Kind identifies a grammar production.
type Kind int

const (
	KindToken Kind = iota
	KindKeyword
	KindRedirection
	KindVariableAssignment
	KindVariableAssignmentList
	KindArgumentOrRedirection
	KindArgumentOrRedirectionList
	KindStatement
	KindJobPipeline
	KindJobConjunction
	KindBlockStatementHeader
	KindForHeader
	KindWhileHeader
	KindFunctionHeader
	KindBeginHeader
	KindBlockStatement
	KindBraceStatement
	KindIfClause
	KindElseifClause
	KindElseifClauseList
	KindElseClause
	KindIfStatement
	KindCaseItem
	KindSwitchStatement
	KindDecoratedStatement
	KindNotStatement
	KindJobContinuation
	KindJobContinuationList
	KindJobConjunctionContinuation
	KindAndorJob
	KindAndorJobList
	KindFreestandingArgumentList
	KindJobConjunctionContinuationList
	KindMaybeNewlines
	KindCaseItemList
	KindArgument
	KindArgumentList
	KindJobList
)

var kindNames = map[Kind]string{
	KindToken:                          "token",
	KindKeyword:                        "keyword",
	KindRedirection:                    "redirection",
	KindVariableAssignment:             "variable_assignment",
	KindVariableAssignmentList:         "variable_assignment_list",
	KindArgumentOrRedirection:          "argument_or_redirection",
	KindArgumentOrRedirectionList:      "argument_or_redirection_list",
	KindStatement:                      "statement",
	KindJobPipeline:                    "job_pipeline",
	KindJobConjunction:                 "job_conjunction",
	KindBlockStatementHeader:           "block_statement_header",
	KindForHeader:                      "for_header",
	KindWhileHeader:                    "while_header",
	KindFunctionHeader:                 "function_header",
	KindBeginHeader:                    "begin_header",
	KindBlockStatement:                 "block_statement",
	KindBraceStatement:                 "brace_statement",
	KindIfClause:                       "if_clause",
	KindElseifClause:                   "elseif_clause",
	KindElseifClauseList:               "elseif_clause_list",
	KindElseClause:                     "else_clause",
	KindIfStatement:                    "if_statement",
	KindCaseItem:                       "case_item",
	KindSwitchStatement:                "switch_statement",
	KindDecoratedStatement:             "decorated_statement",
	KindNotStatement:                   "not_statement",
	KindJobContinuation:                "job_continuation",
	KindJobContinuationList:            "job_continuation_list",
	KindJobConjunctionContinuation:     "job_conjunction_continuation",
	KindAndorJob:                       "andor_job",
	KindAndorJobList:                   "andor_job_list",
	KindFreestandingArgumentList:       "freestanding_argument_list",
	KindJobConjunctionContinuationList: "job_conjunction_continuation_list",
	KindMaybeNewlines:                  "maybe_newlines",
	KindCaseItemList:                   "case_item_list",
	KindArgument:                       "argument",
	KindArgumentList:                   "argument_list",
	KindJobList:                        "job_list",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Category is the structural class of a node kind.
type Category int

const (
	CategoryLeaf Category = iota
	CategoryBranch
	CategoryList
)

func (c Category) String() string {
	switch c {
	case CategoryLeaf:
		return "leaf"
	case CategoryBranch:
		return "branch"
	case CategoryList:
		return "list"
	}
	return "unknown"
}

func (k Kind) Category() Category {
	switch k {
	case KindToken, KindKeyword, KindVariableAssignment, KindMaybeNewlines, KindArgument:
		return CategoryLeaf
	case KindVariableAssignmentList, KindArgumentOrRedirectionList, KindElseifClauseList,
		KindJobContinuationList, KindAndorJobList, KindJobConjunctionContinuationList,
		KindCaseItemList, KindArgumentList, KindJobList:
		return CategoryList
	}
	return CategoryBranch
}

// Node is a node of the syntax tree. The set of implementations is closed.
type Node interface {
	Kind() Kind
	// Parent is nil for the root, and for every node before parsing finishes.
	Parent() Node
	// Accept calls v.Visit on each direct child in field order.
	Accept(v Visitor)

	setParent(Node)
}

// Visitor receives nodes from Node.Accept.
type Visitor interface {
	Visit(n Node)
}

// VisitorFunc adapts a function to a Visitor.
type VisitorFunc func(n Node)

func (f VisitorFunc) Visit(n Node) { f(n) }

type nodeBase struct {
	parent Node
}

func (b *nodeBase) Parent() Node     { return b.parent }
func (b *nodeBase) setParent(p Node) { b.parent = p }
func (b *nodeBase) Accept(v Visitor) {}

// Leaf is a node covering one token, or a run of newlines.
type Leaf interface {
	Node
	// Range returns false if the leaf is unsourced: it was not parsed
	// because of an error, or because the input ended early.
	Range() (SourceRange, bool)
	setRange(r SourceRange, ok bool)
}

type leafBase struct {
	nodeBase
	rng     SourceRange
	sourced bool
}

func (l *leafBase) Range() (SourceRange, bool) {
	return l.rng, l.sourced
}

func (l *leafBase) HasSource() bool {
	return l.sourced
}

func (l *leafBase) setRange(r SourceRange, ok bool) {
	l.rng = r
	l.sourced = ok
}

// Token is a leaf holding one of a fixed set of token types.
type Token interface {
	Leaf
	TokenType() ParseTokenType
	AllowedTokens() []ParseTokenType
	setTokenType(ParseTokenType)
}

// Keyword is a leaf holding one of a fixed set of keywords.
type Keyword interface {
	Leaf
	Keyword() ParseKeyword
	AllowedKeywords() []ParseKeyword
	setKeyword(ParseKeyword)
}

type tokenLeaf struct {
	leafBase
	typ ParseTokenType
}

func (t *tokenLeaf) Kind() Kind                      { return KindToken }
func (t *tokenLeaf) TokenType() ParseTokenType       { return t.typ }
func (t *tokenLeaf) setTokenType(typ ParseTokenType) { t.typ = typ }

type keywordLeaf struct {
	leafBase
	kw ParseKeyword
}

func (k *keywordLeaf) Kind() Kind                 { return KindKeyword }
func (k *keywordLeaf) Keyword() ParseKeyword      { return k.kw }
func (k *keywordLeaf) setKeyword(kw ParseKeyword) { k.kw = kw }

func allows[T comparable](set []T, v T) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

var (
	semiNlTokens      = []ParseTokenType{TokEnd}
	stringTokens      = []ParseTokenType{TokString}
	backgroundTokens  = []ParseTokenType{TokBackground}
	conjunctionTokens = []ParseTokenType{TokAndAnd, TokOrOr}
	pipeTokens        = []ParseTokenType{TokPipe}
	leftBraceTokens   = []ParseTokenType{TokLeftBrace}
	rightBraceTokens  = []ParseTokenType{TokRightBrace}
	redirectionTokens = []ParseTokenType{TokRedirection}
)

// SemiNl is a statement terminator: newline or semicolon.
type SemiNl struct{ tokenLeaf }

// String is a plain string token such as a command name.
type String struct{ tokenLeaf }

// TokenBackground is the trailing & of a job.
type TokenBackground struct{ tokenLeaf }

// TokenConjunction is && or ||.
type TokenConjunction struct{ tokenLeaf }

// TokenPipe is a pipe such as | or &|.
type TokenPipe struct{ tokenLeaf }

// TokenLeftBrace and TokenRightBrace delimit a brace statement.
type (
	TokenLeftBrace  struct{ tokenLeaf }
	TokenRightBrace struct{ tokenLeaf }
)

// TokenRedirection is the operator of a redirection, like 2> or >>.
type TokenRedirection struct{ tokenLeaf }

func (*SemiNl) AllowedTokens() []ParseTokenType           { return semiNlTokens }
func (*String) AllowedTokens() []ParseTokenType           { return stringTokens }
func (*TokenBackground) AllowedTokens() []ParseTokenType  { return backgroundTokens }
func (*TokenConjunction) AllowedTokens() []ParseTokenType { return conjunctionTokens }
func (*TokenPipe) AllowedTokens() []ParseTokenType        { return pipeTokens }
func (*TokenLeftBrace) AllowedTokens() []ParseTokenType   { return leftBraceTokens }
func (*TokenRightBrace) AllowedTokens() []ParseTokenType  { return rightBraceTokens }
func (*TokenRedirection) AllowedTokens() []ParseTokenType { return redirectionTokens }

var (
	decoratorKeywords     = []ParseKeyword{KwCommand, KwBuiltin, KwExec}
	conjDecoratorKeywords = []ParseKeyword{KwAnd, KwOr}
	beginKeywords         = []ParseKeyword{KwBegin}
	caseKeywords          = []ParseKeyword{KwCase}
	elseKeywords          = []ParseKeyword{KwElse}
	endKeywords           = []ParseKeyword{KwEnd}
	forKeywords           = []ParseKeyword{KwFor}
	functionKeywords      = []ParseKeyword{KwFunction}
	ifKeywords            = []ParseKeyword{KwIf}
	inKeywords            = []ParseKeyword{KwIn}
	notKeywords           = []ParseKeyword{KwNot, KwExclam}
	switchKeywords        = []ParseKeyword{KwSwitch}
	timeKeywords          = []ParseKeyword{KwTime}
	whileKeywords         = []ParseKeyword{KwWhile}
)

// DecoratedStatementDecorator is command, builtin or exec.
type DecoratedStatementDecorator struct{ keywordLeaf }

// JobConjunctionDecorator is and or or.
type JobConjunctionDecorator struct{ keywordLeaf }

// Single-keyword leaves. Each accepts only the keyword it is named after.
type (
	KeywordBegin    struct{ keywordLeaf }
	KeywordCase     struct{ keywordLeaf }
	KeywordElse     struct{ keywordLeaf }
	KeywordEnd      struct{ keywordLeaf }
	KeywordFor      struct{ keywordLeaf }
	KeywordFunction struct{ keywordLeaf }
	KeywordIf       struct{ keywordLeaf }
	KeywordIn       struct{ keywordLeaf }
	KeywordSwitch   struct{ keywordLeaf }
	KeywordTime     struct{ keywordLeaf }
	KeywordWhile    struct{ keywordLeaf }
)

// KeywordNot is not or !.
type KeywordNot struct{ keywordLeaf }

func (*DecoratedStatementDecorator) AllowedKeywords() []ParseKeyword { return decoratorKeywords }
func (*JobConjunctionDecorator) AllowedKeywords() []ParseKeyword     { return conjDecoratorKeywords }
func (*KeywordBegin) AllowedKeywords() []ParseKeyword                { return beginKeywords }
func (*KeywordCase) AllowedKeywords() []ParseKeyword                 { return caseKeywords }
func (*KeywordElse) AllowedKeywords() []ParseKeyword                 { return elseKeywords }
func (*KeywordEnd) AllowedKeywords() []ParseKeyword                  { return endKeywords }
func (*KeywordFor) AllowedKeywords() []ParseKeyword                  { return forKeywords }
func (*KeywordFunction) AllowedKeywords() []ParseKeyword             { return functionKeywords }
func (*KeywordIf) AllowedKeywords() []ParseKeyword                   { return ifKeywords }
func (*KeywordIn) AllowedKeywords() []ParseKeyword                   { return inKeywords }
func (*KeywordNot) AllowedKeywords() []ParseKeyword                  { return notKeywords }
func (*KeywordSwitch) AllowedKeywords() []ParseKeyword               { return switchKeywords }
func (*KeywordTime) AllowedKeywords() []ParseKeyword                 { return timeKeywords }
func (*KeywordWhile) AllowedKeywords() []ParseKeyword                { return whileKeywords }

// Argument is a string in argument position.
type Argument struct{ leafBase }

func (*Argument) Kind() Kind { return KindArgument }

// VariableAssignment is a FOO=bar prefix of a job.
type VariableAssignment struct{ leafBase }

func (*VariableAssignment) Kind() Kind { return KindVariableAssignment }

// MaybeNewlines is a possibly empty run of newlines.
type MaybeNewlines struct{ leafBase }

func (*MaybeNewlines) Kind() Kind { return KindMaybeNewlines }

// Describe returns the kind name of n, followed by the token type or
// keyword for token and keyword leaves.
func Describe(n Node) string {
	switch n := n.(type) {
	case Token:
		return fmt.Sprintf("%s '%s'", n.Kind(), n.TokenType())
	case Keyword:
		return fmt.Sprintf("%s '%s'", n.Kind(), n.Keyword())
	}
	return n.Kind().String()
}

// IsLeaf reports whether n has no children.
func IsLeaf(n Node) bool {
	_, ok := n.(Leaf)
	return ok
}
