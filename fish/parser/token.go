package parser

import (
	"fmt"
	"strings"

	"github.com/dhamidi/fishast/fish/tokenizer"
)

// SourceRange is a byte range of the parsed source.
type SourceRange struct {
	Start  int
	Length int
}

func (r SourceRange) End() int {
	return r.Start + r.Length
}

// Combine returns the smallest range covering r and other.
func (r SourceRange) Combine(other SourceRange) SourceRange {
	start := min(r.Start, other.Start)
	return SourceRange{Start: start, Length: max(r.End(), other.End()) - start}
}

// ContainsInclusive reports whether loc lies in r, counting one past the end.
func (r SourceRange) ContainsInclusive(loc int) bool {
	return r.Start <= loc && loc-r.Start <= r.Length
}

func (r SourceRange) String() string {
	return fmt.Sprintf("%d+%d", r.Start, r.Length)
}

// ParseTokenType is the grammar-level type of a token.
type ParseTokenType int

const (
	TokInvalid ParseTokenType = iota
	TokString
	TokPipe
	TokRedirection
	TokBackground
	TokAndAnd
	TokOrOr
	TokEnd
	TokLeftBrace
	TokRightBrace
	// TokTerminate means the stream is exhausted.
	TokTerminate
	TokError
	TokTokenizerError
	TokComment
)

var parseTokenTypeNames = map[ParseTokenType]string{
	TokInvalid:        "invalid",
	TokString:         "string",
	TokPipe:           "pipe",
	TokRedirection:    "redirection",
	TokBackground:     "background",
	TokAndAnd:         "andand",
	TokOrOr:           "oror",
	TokEnd:            "end",
	TokLeftBrace:      "left_brace",
	TokRightBrace:     "right_brace",
	TokTerminate:      "terminate",
	TokError:          "error",
	TokTokenizerError: "tokenizer_error",
	TokComment:        "comment",
}

var parseTokenTypeDescriptions = map[ParseTokenType]string{
	TokString:         "a string",
	TokPipe:           "a pipe",
	TokRedirection:    "a redirection",
	TokBackground:     "a '&'",
	TokAndAnd:         "'&&'",
	TokOrOr:           "'||'",
	TokEnd:            "end of the statement",
	TokLeftBrace:      "'{'",
	TokRightBrace:     "'}'",
	TokTerminate:      "end of the input",
	TokError:          "a parse error",
	TokTokenizerError: "an incomplete token",
	TokComment:        "a comment",
}

func (t ParseTokenType) String() string {
	if name, ok := parseTokenTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Description is the user-facing name of the token type, as used in
// "Expected X, but found Y" messages.
func (t ParseTokenType) Description() string {
	if desc, ok := parseTokenTypeDescriptions[t]; ok {
		return desc
	}
	return "a " + t.String()
}

func parseTokenTypeOf(t tokenizer.TokenType) ParseTokenType {
	switch t {
	case tokenizer.TokenString:
		return TokString
	case tokenizer.TokenPipe:
		return TokPipe
	case tokenizer.TokenAndAnd:
		return TokAndAnd
	case tokenizer.TokenOrOr:
		return TokOrOr
	case tokenizer.TokenEnd:
		return TokEnd
	case tokenizer.TokenBackground:
		return TokBackground
	case tokenizer.TokenLeftBrace:
		return TokLeftBrace
	case tokenizer.TokenRightBrace:
		return TokRightBrace
	case tokenizer.TokenRedirect:
		return TokRedirection
	case tokenizer.TokenError:
		return TokTokenizerError
	case tokenizer.TokenComment:
		return TokComment
	}
	return TokInvalid
}

// ParseKeyword is a reserved word recognized by the grammar.
type ParseKeyword int

const (
	KwNone ParseKeyword = iota
	KwAnd
	KwBegin
	KwBuiltin
	KwCase
	KwCommand
	KwElse
	KwEnd
	KwExclam
	KwExec
	KwFor
	KwFunction
	KwIf
	KwIn
	KwNot
	KwOr
	KwSwitch
	KwTime
	KwWhile
)

var keywordNames = map[ParseKeyword]string{
	KwAnd:      "and",
	KwBegin:    "begin",
	KwBuiltin:  "builtin",
	KwCase:     "case",
	KwCommand:  "command",
	KwElse:     "else",
	KwEnd:      "end",
	KwExclam:   "!",
	KwExec:     "exec",
	KwFor:      "for",
	KwFunction: "function",
	KwIf:       "if",
	KwIn:       "in",
	KwNot:      "not",
	KwOr:       "or",
	KwSwitch:   "switch",
	KwTime:     "time",
	KwWhile:    "while",
}

var keywordsByName = func() map[string]ParseKeyword {
	m := make(map[string]ParseKeyword, len(keywordNames))
	for kw, name := range keywordNames {
		m[name] = kw
	}
	return m
}()

func (k ParseKeyword) String() string {
	if name, ok := keywordNames[k]; ok {
		return name
	}
	if k == KwNone {
		return "none"
	}
	return "unknown_keyword"
}

// KeywordFromString returns the keyword spelled s, or KwNone.
func KeywordFromString(s string) ParseKeyword {
	return keywordsByName[s]
}

func keywordForToken(typ tokenizer.TokenType, text string) ParseKeyword {
	return KeywordFromString(tokenizer.UnescapeKeyword(typ, text))
}

// TokenDescription describes a token for diagnostics. Keywords take
// precedence over the token type.
func TokenDescription(typ ParseTokenType, kw ParseKeyword) string {
	if kw != KwNone {
		return fmt.Sprintf("keyword: '%s'", kw)
	}
	return typ.Description()
}

func keywordsDescription(kws []ParseKeyword) string {
	if len(kws) == 0 {
		panic("parser: empty keyword list")
	}
	if len(kws) == 1 {
		return fmt.Sprintf("keyword '%s'", kws[0])
	}
	quoted := make([]string, len(kws))
	for i, kw := range kws {
		quoted[i] = fmt.Sprintf("'%s'", kw)
	}
	return "keywords " + strings.Join(quoted, " or ")
}

func tokenTypesDescription(types []ParseTokenType) string {
	if len(types) == 0 {
		panic("parser: empty token type list")
	}
	descs := make([]string, len(types))
	for i, typ := range types {
		descs[i] = TokenDescription(typ, KwNone)
	}
	return strings.Join(descs, " or ")
}

// ParseToken is a token as seen by the parser: the tokenizer's token plus
// the lookahead properties the grammar decides on.
type ParseToken struct {
	Type    ParseTokenType
	Keyword ParseKeyword

	HasDashPrefix           bool
	IsHelpArgument          bool
	IsNewline               bool
	MayBeVariableAssignment bool
	TokError                tokenizer.ErrorKind

	Start  int
	Length int
}

func newParseToken(typ ParseTokenType) ParseToken {
	return ParseToken{Type: typ}
}

func (t ParseToken) Range() SourceRange {
	return SourceRange{Start: t.Start, Length: t.Length}
}

// IsDashPrefixString reports whether the token is a string that looks like
// an option.
func (t ParseToken) IsDashPrefixString() bool {
	return t.Type == TokString && t.HasDashPrefix
}

func (t ParseToken) Description() string {
	return TokenDescription(t.Type, t.Keyword)
}

func (t ParseToken) String() string {
	if t.Keyword != KwNone {
		return fmt.Sprintf("%s <%s>", t.Type, t.Keyword)
	}
	return t.Type.String()
}

// ParseFlags control how source is parsed.
type ParseFlags uint8

const (
	// ContinueAfterError resynchronizes at the top-level job list after an error.
	ContinueAfterError ParseFlags = 1 << iota
	// IncludeComments records comment ranges in Extras.
	IncludeComments
	// AcceptIncompleteTokens tolerates unterminated quotes and subshells in tokens.
	AcceptIncompleteTokens
	// LeaveUnterminated leaves nodes unsourced instead of erroring at end of input.
	LeaveUnterminated
	// ShowBlankLines makes the tokenizer report every newline.
	ShowBlankLines
	// ShowExtraSemis records redundant semicolons in Extras.
	ShowExtraSemis
)

func (f ParseFlags) Has(flag ParseFlags) bool {
	return f&flag != 0
}

func (f ParseFlags) tokenizerFlags() tokenizer.Flags {
	var flags tokenizer.Flags
	if f.Has(IncludeComments) {
		flags |= tokenizer.ShowComments
	}
	if f.Has(AcceptIncompleteTokens) {
		flags |= tokenizer.AcceptUnfinished
	}
	if f.Has(ContinueAfterError) {
		flags |= tokenizer.ContinueAfterError
	}
	if f.Has(ShowBlankLines) {
		flags |= tokenizer.ShowBlankLines
	}
	return flags
}
