package parser

// parsable is a node type that can be tried at the current position. The
// predicate only inspects lookahead and is called on a nil receiver.
type parsable[T any] interface {
	*T
	Node
	canBeParsed(p *populator) bool
}

// decoratorRule decides when a prefix keyword decorates what follows rather
// than being a command of its own.
type decoratorRule struct {
	keywords []ParseKeyword
	// suppressedBy reports whether the token after the keyword turns it back
	// into a plain command.
	suppressedBy func(next ParseToken) bool
}

func (r decoratorRule) applies(p *populator) bool {
	if !allows(r.keywords, p.peekToken(0).Keyword) {
		return false
	}
	return !r.suppressedBy(p.peekToken(1))
}

type decoratorKind int

const (
	// `and stuff` joins jobs; `and --help` runs the builtin.
	decoratorJobConjunction decoratorKind = iota
	// `command stuff` runs stuff; `command -n` and a bare `command` run
	// the builtin.
	decoratorStatement
	// `time stuff` times stuff; `time -p` runs the command.
	decoratorTime
)

var decoratorRules = [...]decoratorRule{
	decoratorJobConjunction: {
		keywords: conjDecoratorKeywords,
		suppressedBy: func(next ParseToken) bool {
			return next.IsHelpArgument
		},
	},
	decoratorStatement: {
		keywords: decoratorKeywords,
		suppressedBy: func(next ParseToken) bool {
			return next.Type != TokString || next.IsDashPrefixString()
		},
	},
	decoratorTime: {
		keywords: timeKeywords,
		suppressedBy: func(next ParseToken) bool {
			return next.IsDashPrefixString()
		},
	},
}

func (*JobConjunctionDecorator) canBeParsed(p *populator) bool {
	return decoratorRules[decoratorJobConjunction].applies(p)
}

func (*DecoratedStatementDecorator) canBeParsed(p *populator) bool {
	return decoratorRules[decoratorStatement].applies(p)
}

func (*KeywordTime) canBeParsed(p *populator) bool {
	return decoratorRules[decoratorTime].applies(p)
}

func (*SemiNl) canBeParsed(p *populator) bool {
	return allows(semiNlTokens, p.peekType(0))
}

func (*TokenBackground) canBeParsed(p *populator) bool {
	return allows(backgroundTokens, p.peekType(0))
}

func (*Redirection) canBeParsed(p *populator) bool {
	return p.peekType(0) == TokRedirection
}

func (*ArgumentOrRedirection) canBeParsed(p *populator) bool {
	typ := p.peekType(0)
	return typ == TokString || typ == TokRedirection
}

// A job list ends at case, end and else.
func (*JobConjunction) canBeParsed(p *populator) bool {
	tok := p.peekToken(0)
	if tok.Type == TokLeftBrace {
		return true
	}
	if tok.Type != TokString {
		return false
	}
	switch tok.Keyword {
	case KwCase, KwEnd, KwElse:
		return false
	}
	return true
}

func (*ElseifClause) canBeParsed(p *populator) bool {
	return p.peekToken(0).Keyword == KwElse && p.peekToken(1).Keyword == KwIf
}

func (*ElseClause) canBeParsed(p *populator) bool {
	return p.peekToken(0).Keyword == KwElse
}

func (*CaseItem) canBeParsed(p *populator) bool {
	return p.peekToken(0).Keyword == KwCase
}

func (*JobContinuation) canBeParsed(p *populator) bool {
	return p.peekType(0) == TokPipe
}

func (*JobConjunctionContinuation) canBeParsed(p *populator) bool {
	typ := p.peekType(0)
	return typ == TokAndAnd || typ == TokOrOr
}

// An and/or job needs a real argument: a naked `and` or `and --help` is an
// ordinary command and ends the list.
func (*AndorJob) canBeParsed(p *populator) bool {
	kw := p.peekToken(0).Keyword
	if kw != KwAnd && kw != KwOr {
		return false
	}
	next := p.peekToken(1)
	return (next.Type == TokString || next.Type == TokLeftBrace) && !next.IsHelpArgument
}

func (*VariableAssignment) canBeParsed(p *populator) bool {
	if !p.peekToken(0).MayBeVariableAssignment {
		return false
	}
	switch p.peekType(1) {
	case TokString, TokLeftBrace:
		// `a= cmd`
		return true
	case TokTerminate:
		// `a=` alone is only fine while the input is incomplete.
		return p.allowIncomplete()
	}
	// `a= >` is left for the statement parser to report.
	return false
}

func (*Argument) canBeParsed(p *populator) bool {
	return p.peekType(0) == TokString
}
