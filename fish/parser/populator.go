package parser

import (
	"fmt"
	"strings"

	"github.com/dhamidi/fishast/fish/tokenizer"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("fishast.parser")

type parserStatus int

const (
	statusOK parserStatus = iota
	// The input ran out but an incomplete tree was asked for. Leaves are
	// left unsourced.
	statusUnsourcing
	// An error was found. No tokens are consumed until a job list
	// resynchronizes.
	statusUnwinding
)

// missingEndError stops the population of a block when its end keyword is
// not found, so the block can report which construct is unbalanced.
type missingEndError struct {
	allowed []ParseKeyword
	token   ParseToken
}

// populator fills in a tree top-down from a token stream.
type populator struct {
	flags        ParseFlags
	tokens       *TokenStream
	freestanding bool

	semis  []SourceRange
	errors []SourceRange

	unwinding bool
	anyError  bool
	depth     int

	outErrors *ErrorList
}

func newPopulator(src string, flags ParseFlags, freestanding bool, outErrors *ErrorList) *populator {
	return &populator{
		flags:        flags,
		tokens:       NewTokenStream(src, flags, freestanding),
		freestanding: freestanding,
		outErrors:    outErrors,
	}
}

func (p *populator) tracef(format string, args ...any) {
	if !log.AllowLevel(commonlog.Debug) {
		return
	}
	log.Debugf("%s%s", strings.Repeat("  ", p.depth), fmt.Sprintf(format, args...))
}

func (p *populator) internalError(fn string, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Criticalf("internal parse error from %s: %s", fn, msg)
	log.Criticalf("encountered while parsing:<<<<\n%s\n>>>", p.tokens.src)
	panic(fmt.Sprintf("parser: %s: %s", fn, msg))
}

func (p *populator) parseError(tok ParseToken, code ErrorCode, format string, args ...any) {
	p.parseErrorRange(tok.Range(), code, format, args...)
}

// parseErrorRange records an error and starts unwinding. Errors raised while
// already unwinding are dropped.
func (p *populator) parseErrorRange(rng SourceRange, code ErrorCode, format string, args ...any) {
	p.anyError = true
	if p.unwinding {
		return
	}
	p.unwinding = true
	p.tracef("parse error - begin unwinding")
	if rng.Start != sourceLocationUnknown {
		p.errors = append(p.errors, rng)
	}
	if p.outErrors != nil {
		*p.outErrors = append(*p.outErrors, &ParseError{
			Code:        code,
			Text:        fmt.Sprintf(format, args...),
			SourceStart: rng.Start,
			SourceLen:   rng.Length,
		})
	}
}

func (p *populator) status() parserStatus {
	if p.unwinding {
		return statusUnwinding
	}
	if p.flags.Has(LeaveUnterminated) && p.peekType(0) == TokTerminate {
		return statusUnsourcing
	}
	return statusOK
}

func (p *populator) unsourceLeaves() bool {
	return p.status() != statusOK
}

func (p *populator) allowIncomplete() bool {
	return p.flags.Has(LeaveUnterminated)
}

func (p *populator) peekToken(idx int) ParseToken {
	return p.tokens.Peek(idx)
}

func (p *populator) peekType(idx int) ParseTokenType {
	return p.tokens.peek(idx).Type
}

// listChompsNewlines reports whether blank lines may appear between items.
func (p *populator) listChompsNewlines(kind Kind) bool {
	switch kind {
	case KindArgumentList, KindFreestandingArgumentList:
		return p.freestanding
	case KindArgumentOrRedirectionList, KindVariableAssignmentList,
		KindJobConjunctionContinuationList, KindJobContinuationList:
		return false
	case KindJobList, KindCaseItemList, KindAndorJobList, KindElseifClauseList:
		return true
	}
	p.internalError("listChompsNewlines", "type %s not handled", kind)
	return false
}

// listChompsSemis reports whether stray semicolons may appear between items.
// Freestanding argument lists allow them: `complete -c foo -a 'x ; y'`.
func (p *populator) listChompsSemis(kind Kind) bool {
	switch kind {
	case KindArgumentList, KindFreestandingArgumentList:
		return p.freestanding
	case KindArgumentOrRedirectionList, KindVariableAssignmentList, KindElseifClauseList,
		KindJobConjunctionContinuationList, KindJobContinuationList:
		return false
	case KindJobList, KindCaseItemList, KindAndorJobList:
		return true
	}
	p.internalError("listChompsSemis", "type %s not handled", kind)
	return false
}

func (p *populator) chompExtras(kind Kind) {
	chompSemis := p.listChompsSemis(kind)
	chompNewlines := p.listChompsNewlines(kind)
	for {
		peek := p.peekToken(0)
		if peek.Type != TokEnd {
			return
		}
		switch {
		case chompNewlines && peek.IsNewline:
			p.tokens.Pop()
		case chompSemis && !peek.IsNewline:
			tok := p.tokens.Pop()
			if p.flags.Has(ShowExtraSemis) {
				p.semis = append(p.semis, tok.Range())
			}
		default:
			return
		}
	}
}

func (p *populator) listStopsUnwind(kind Kind) bool {
	return kind == KindJobList && p.flags.Has(ContinueAfterError)
}

func (p *populator) consumeAnyToken() ParseToken {
	tok := p.tokens.Pop()
	if tok.Type == TokComment {
		p.internalError("consumeAnyToken", "should not be a comment")
	}
	if tok.Type == TokTerminate {
		p.internalError("consumeAnyToken", "cannot consume terminate token, caller should check status first")
	}
	return tok
}

func (p *populator) consumeTokenType(typ ParseTokenType) SourceRange {
	if typ == TokTerminate {
		p.internalError("consumeTokenType", "should not attempt to consume terminate token")
	}
	tok := p.consumeAnyToken()
	if tok.Type != typ {
		p.parseError(tok, ErrorGeneric, msgExpectedFound, TokenDescription(typ, KwNone), tok.Description())
		return SourceRange{}
	}
	return tok.Range()
}

// consumeExcessTokenGeneratingError consumes a token that no job list item
// can start with, like the last end of `begin; end; end` or a lone `>`.
func (p *populator) consumeExcessTokenGeneratingError() {
	tok := p.consumeAnyToken()

	if p.freestanding {
		p.parseError(tok, ErrorGeneric, msgExpectedFound, TokenDescription(TokString, KwNone), tok.Description())
		return
	}

	switch tok.Type {
	case TokString:
		switch tok.Keyword {
		case KwCase:
			p.parseError(tok, ErrorUnbalancingCase, msgUnbalancingCase)
		case KwEnd:
			p.parseError(tok, ErrorUnbalancingEnd, msgUnbalancingEnd)
		case KwElse:
			p.parseError(tok, ErrorUnbalancingElse, msgUnbalancingElse)
		default:
			p.internalError("consumeExcessTokenGeneratingError",
				"token %s should not have prevented parsing a job list", tok.Description())
		}
	case TokRedirection, TokPipe, TokRightBrace, TokBackground, TokAndAnd, TokOrOr:
		if tok.Type == TokRedirection && p.peekType(0) == TokString {
			next := p.tokens.Pop()
			p.parseErrorRange(next.Range().Combine(tok.Range()), ErrorGeneric, msgStringNotRedir)
			return
		}
		p.parseError(tok, ErrorGeneric, msgExpectedString, tok.Description())
	case TokTokenizerError:
		p.parseError(tok, errorCodeForTokenizer(tok.TokError), "%s", tok.TokError.Message())
	case TokEnd:
		p.internalError("consumeExcessTokenGeneratingError", "end token should never be excess")
	case TokTerminate:
		p.internalError("consumeExcessTokenGeneratingError", "terminate token should never be excess")
	default:
		p.internalError("consumeExcessTokenGeneratingError", "unexpected excess token type: %s", tok.Description())
	}
}

// tryParse populates a new T if one can start at the current token, and
// returns nil otherwise.
func tryParse[T any, PT parsable[T]](p *populator) PT {
	if !PT(nil).canBeParsed(p) {
		return nil
	}
	n := PT(new(T))
	p.visit(n)
	return n
}

// populateList parses as many items into list as possible. With exhaust set
// it keeps going to the end of the input, turning tokens that cannot start an
// item into errors.
func populateList[T any, PT parsable[T]](p *populator, list Node, items *[]PT, exhaust bool) {
	kind := list.Kind()
	if len(*items) != 0 {
		p.internalError("populateList", "%s is not initially empty", kind)
	}

	if p.unwinding {
		if exhaust {
			p.internalError("populateList", "exhaustive list %s populated while unwinding", kind)
		}
		p.tracef("unwinding %s", kind)
		return
	}

	var contents []PT
	for {
		if p.unwinding {
			if !p.listStopsUnwind(kind) {
				break
			}
			// Resynchronize at the next string or statement boundary.
			for {
				typ := p.peekType(0)
				if typ == TokString || typ == TokTerminate || typ == TokEnd {
					break
				}
				tok := p.tokens.Pop()
				p.errors = append(p.errors, tok.Range())
				p.tracef("chomping range %s", tok.Range())
			}
			p.tracef("done unwinding")
			p.unwinding = false
		}

		p.chompExtras(kind)

		if node := tryParse[T, PT](p); node != nil {
			contents = append(contents, node)
		} else if exhaust && p.peekType(0) != TokTerminate {
			p.consumeExcessTokenGeneratingError()
		} else {
			break
		}
	}

	*items = contents
	p.tracef("%s size: %d", kind, len(contents))
}

// visit populates n from the token stream. Only keyword leaves return a
// non-nil result.
func (p *populator) visit(n Node) *missingEndError {
	switch n := n.(type) {
	case *Argument:
		p.visitArgument(n)
	case *VariableAssignment:
		p.visitVariableAssignment(n)
	case *JobContinuation:
		p.visitJobContinuation(n)
	case Token:
		p.visitToken(n)
	case Keyword:
		return p.visitKeyword(n)
	case *MaybeNewlines:
		p.visitMaybeNewlines(n)

	case *ArgumentOrRedirection:
		p.visitArgumentOrRedirection(n)
	case *BlockStatementHeader:
		n.Contents = p.allocatePopulateBlockHeader()
	case *Statement:
		n.Contents = p.allocatePopulateStatement()

	case *VariableAssignmentList:
		populateList(p, n, &n.Items, false)
	case *ArgumentOrRedirectionList:
		populateList(p, n, &n.Items, false)
	case *ElseifClauseList:
		populateList(p, n, &n.Items, false)
	case *JobContinuationList:
		populateList(p, n, &n.Items, false)
	case *AndorJobList:
		populateList(p, n, &n.Items, false)
	case *JobConjunctionContinuationList:
		populateList(p, n, &n.Items, false)
	case *CaseItemList:
		populateList(p, n, &n.Items, false)
	case *ArgumentList:
		populateList(p, n, &n.Items, false)
	case *JobList:
		populateList(p, n, &n.Items, false)

	case branch:
		p.walkBranch(n)
	default:
		p.internalError("visit", "unhandled node %s", Describe(n))
	}
	return nil
}

// branch is a node with fixed fields.
type branch interface {
	Node
	populate(w *fieldWalker)
}

// fieldWalker populates the fields of a branch in order, and skips the
// remaining fields once a keyword reports a missing end.
type fieldWalker struct {
	p   *populator
	brk *missingEndError
}

func (w *fieldWalker) visit(n Node) {
	if w.brk == nil {
		w.brk = w.p.visit(n)
	}
}

func optional[T any, PT parsable[T]](w *fieldWalker, field *PT) {
	if w.brk == nil {
		*field = tryParse[T, PT](w.p)
	}
}

func (p *populator) walkBranch(n branch) {
	p.willVisitFieldsOf(n)
	w := fieldWalker{p: p}
	n.populate(&w)
	p.didVisitFieldsOf(n, w.brk)
}

func (p *populator) willVisitFieldsOf(n Node) {
	p.tracef("will_visit %s", Describe(n))
	p.depth++
}

func (p *populator) didVisitFieldsOf(n Node, brk *missingEndError) {
	p.depth--
	if p.unwinding || brk == nil {
		return
	}

	tok := brk.token
	if tok.Type == TokTokenizerError && tok.TokError == tokenizer.ErrorClosingUnopenedBrace {
		p.parseError(tok, ErrorUnbalancingBrace, "%s", tok.TokError.Message())
	}

	if kwRange, construct, ok := enclosingBlockOf(n); ok {
		next := p.peekToken(0)
		if next.Type == TokString {
			switch next.Keyword {
			case KwCase, KwElse, KwEnd:
				p.consumeExcessTokenGeneratingError()
			}
		}
		p.parseErrorRange(kwRange, ErrorGeneric, msgMissingEnd, construct)
		return
	}
	p.parseError(tok, ErrorGeneric, msgExpectedFound, keywordsDescription(brk.allowed), tok.Description())
}

// enclosingBlockOf returns the range of the keyword introducing n, if n is a
// block, if or switch statement, and a name for the construct.
func enclosingBlockOf(n Node) (SourceRange, string, bool) {
	cursor := n
	for {
		switch c := cursor.(type) {
		case *BlockStatement:
			cursor = &c.Header
		case *BlockStatementHeader:
			cursor = c.Contents
		case *ForHeader:
			return c.KwFor.rng, "for loop", true
		case *WhileHeader:
			return c.KwWhile.rng, "while loop", true
		case *FunctionHeader:
			return c.KwFunction.rng, "function definition", true
		case *BeginHeader:
			return c.KwBegin.rng, "begin", true
		case *IfStatement:
			return c.IfClause.KwIf.rng, "if statement", true
		case *SwitchStatement:
			return c.KwSwitch.rng, "switch statement", true
		default:
			return SourceRange{}, "", false
		}
	}
}

func (p *populator) allocate(n Node) Node {
	p.visit(n)
	return n
}

func (p *populator) newDecoratedStatement() Node {
	n := p.allocate(&DecoratedStatement{})
	if !p.unwinding && p.peekType(0) == TokLeftBrace {
		peek := p.peekToken(0)
		p.parseError(peek, ErrorGeneric, msgExpectedFound, TokenDescription(TokEnd, KwNone), peek.Description())
	}
	return n
}

// allocatePopulateStatement picks the kind of statement from lookahead. On
// error it still returns a decorated statement, left unsourced.
func (p *populator) allocatePopulateStatement() Node {
	gotError := func() Node {
		if !p.unwinding {
			p.internalError("allocatePopulateStatement", "should have produced an error")
		}
		return p.newDecoratedStatement()
	}

	tok := p.peekToken(0)
	switch {
	case tok.Type == TokTerminate && p.allowIncomplete():
		// A lone `time` prefix gets here.
		return p.newDecoratedStatement()
	case tok.Type == TokLeftBrace:
		return p.allocate(&BraceStatement{})
	case tok.Type != TokString:
		// When already unwinding, as in `true | and`, this is silent.
		p.parseError(tok, ErrorGeneric, msgExpectedCommand, tok.Description())
		return gotError()
	case tok.MayBeVariableAssignment:
		// An assignment with nothing after it. Consume it so parsing moves on.
		tok = p.consumeAnyToken()
		text := p.tokens.src[tok.Start:tok.Range().End()]
		eq := tokenizer.VariableAssignmentEqualsPos(text)
		p.parseError(tok, ErrorBareVariableAssignment, msgBareVariableAssign, text[:eq], text[eq+1:])
		return gotError()
	}

	// Block keywords become plain commands when asked for help, and other
	// keywords when followed by an option.
	next := p.peekToken(1)
	switch tok.Keyword {
	case KwBegin, KwFunction, KwIf, KwSwitch, KwWhile:
		if next.IsHelpArgument {
			return p.newDecoratedStatement()
		}
	default:
		if next.IsDashPrefixString() {
			return p.newDecoratedStatement()
		}
	}
	// A naked keyword runs the builtin, which prints help.
	if tok.Keyword != KwBegin && tok.Keyword != KwEnd && next.Type == TokTerminate {
		return p.newDecoratedStatement()
	}

	switch tok.Keyword {
	case KwNot, KwExclam:
		return p.allocate(&NotStatement{})
	case KwFor, KwWhile, KwFunction, KwBegin:
		return p.allocate(&BlockStatement{})
	case KwIf:
		return p.allocate(&IfStatement{})
	case KwSwitch:
		return p.allocate(&SwitchStatement{})
	case KwEnd:
		// `if end` and `while end` get here.
		p.parseError(tok, ErrorGeneric, msgExpectedCommand, tok.Description())
		return gotError()
	}
	return p.newDecoratedStatement()
}

func (p *populator) allocatePopulateBlockHeader() Node {
	switch p.peekToken(0).Keyword {
	case KwFor:
		return p.allocate(&ForHeader{})
	case KwWhile:
		return p.allocate(&WhileHeader{})
	case KwFunction:
		return p.allocate(&FunctionHeader{})
	case KwBegin:
		return p.allocate(&BeginHeader{})
	}
	p.internalError("allocatePopulateBlockHeader", "should not have descended into block_header")
	return nil
}

func (p *populator) visitArgumentOrRedirection(n *ArgumentOrRedirection) {
	if arg := tryParse[Argument](p); arg != nil {
		n.Contents = arg
		return
	}
	if redir := tryParse[Redirection](p); redir != nil {
		n.Contents = redir
		return
	}
	p.internalError("visitArgumentOrRedirection", "unable to parse argument or redirection")
}

func (p *populator) visitArgument(n *Argument) {
	if p.unsourceLeaves() {
		n.setRange(SourceRange{}, false)
		return
	}
	n.setRange(p.consumeTokenType(TokString), true)
}

func (p *populator) visitVariableAssignment(n *VariableAssignment) {
	if p.unsourceLeaves() {
		n.setRange(SourceRange{}, false)
		return
	}
	if !p.peekToken(0).MayBeVariableAssignment {
		p.internalError("visitVariableAssignment", "should not have created variable_assignment from this token")
	}
	n.setRange(p.consumeTokenType(TokString), true)
}

// visitJobContinuation catches and/or in a pipeline, like `true | and false`.
func (p *populator) visitJobContinuation(n *JobContinuation) {
	next := p.peekToken(1)
	if next.Keyword == KwAnd || next.Keyword == KwOr {
		p.parseError(next, ErrorAndorInPipeline, msgAndorInPipeline, next.Keyword)
	}
	p.walkBranch(n)
}

func (p *populator) leftUnterminated(tok ParseToken) bool {
	if !p.flags.Has(LeaveUnterminated) {
		return false
	}
	return tok.TokError == tokenizer.ErrorUnterminatedQuote || tok.TokError == tokenizer.ErrorUnterminatedSubshell
}

func (p *populator) visitToken(t Token) {
	if p.unsourceLeaves() {
		t.setRange(SourceRange{}, false)
		return
	}
	peek := p.peekToken(0)
	if !allows(t.AllowedTokens(), peek.Type) {
		if p.leftUnterminated(peek) {
			return
		}
		p.parseError(peek, ErrorGeneric, msgExpectedFound, tokenTypesDescription(t.AllowedTokens()), peek.Description())
		t.setRange(SourceRange{}, false)
		return
	}
	tok := p.consumeAnyToken()
	t.setTokenType(tok.Type)
	t.setRange(tok.Range(), true)
}

func (p *populator) visitKeyword(k Keyword) *missingEndError {
	if p.unsourceLeaves() {
		k.setRange(SourceRange{}, false)
		return nil
	}
	peek := p.peekToken(0)
	if !allows(k.AllowedKeywords(), peek.Keyword) {
		k.setRange(SourceRange{}, false)
		if p.leftUnterminated(peek) {
			return nil
		}
		allowed := k.AllowedKeywords()
		if len(allowed) == 1 && allowed[0] == KwEnd {
			return &missingEndError{allowed: allowed, token: peek}
		}
		p.parseError(peek, ErrorGeneric, msgExpectedFound, keywordsDescription(allowed), peek.Description())
		return nil
	}
	tok := p.consumeAnyToken()
	k.setKeyword(tok.Keyword)
	k.setRange(tok.Range(), true)
	return nil
}

func (p *populator) visitMaybeNewlines(n *MaybeNewlines) {
	if p.unsourceLeaves() {
		n.setRange(SourceRange{}, false)
		return
	}
	var rng SourceRange
	for p.tokens.peek(0).IsNewline {
		r := p.consumeTokenType(TokEnd)
		if rng.Length == 0 {
			rng = r
		} else {
			rng.Length = r.End() - rng.Start
		}
	}
	n.setRange(rng, true)
}
