// Package tokenizer splits fish source text into tokens.
//
// The tokenizer is deliberately ignorant of the grammar: it knows about
// quoting, escapes, command substitutions, redirections and statement
// terminators, and leaves everything else to the parser. It tracks just
// enough state to tell a brace statement `{ ...; }` apart from a brace
// expansion `{a,b}`.
package tokenizer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType int

const (
	TokenError TokenType = iota
	TokenString
	TokenPipe
	TokenAndAnd
	TokenOrOr
	TokenEnd
	TokenLeftBrace
	TokenRightBrace
	TokenRedirect
	TokenBackground
	TokenComment
)

var tokenTypeNames = map[TokenType]string{
	TokenError:      "error",
	TokenString:     "string",
	TokenPipe:       "pipe",
	TokenAndAnd:     "andand",
	TokenOrOr:       "oror",
	TokenEnd:        "end",
	TokenLeftBrace:  "left_brace",
	TokenRightBrace: "right_brace",
	TokenRedirect:   "redirect",
	TokenBackground: "background",
	TokenComment:    "comment",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ErrorKind classifies a tokenizer error.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorUnterminatedQuote
	ErrorUnterminatedSubshell
	ErrorUnterminatedSlice
	ErrorUnterminatedEscape
	ErrorInvalidRedirect
	ErrorInvalidPipe
	ErrorInvalidPipeAmpersand
	ErrorClosingUnopenedSubshell
	ErrorIllegalSlice
	ErrorClosingUnopenedBrace
	ErrorUnterminatedBrace
	ErrorExpectedPcloseFoundBclose
	ErrorExpectedBcloseFoundPclose
)

var errorKindNames = map[ErrorKind]string{
	ErrorNone:                      "none",
	ErrorUnterminatedQuote:         "unterminated_quote",
	ErrorUnterminatedSubshell:      "unterminated_subshell",
	ErrorUnterminatedSlice:         "unterminated_slice",
	ErrorUnterminatedEscape:        "unterminated_escape",
	ErrorInvalidRedirect:           "invalid_redirect",
	ErrorInvalidPipe:               "invalid_pipe",
	ErrorInvalidPipeAmpersand:      "invalid_pipe_ampersand",
	ErrorClosingUnopenedSubshell:   "closing_unopened_subshell",
	ErrorIllegalSlice:              "illegal_slice",
	ErrorClosingUnopenedBrace:      "closing_unopened_brace",
	ErrorUnterminatedBrace:         "unterminated_brace",
	ErrorExpectedPcloseFoundBclose: "expected_pclose_found_bclose",
	ErrorExpectedBcloseFoundPclose: "expected_bclose_found_pclose",
}

var errorKindMessages = map[ErrorKind]string{
	ErrorNone:                      "",
	ErrorUnterminatedQuote:         "Unexpected end of string, quotes are not balanced",
	ErrorUnterminatedSubshell:      "Unexpected end of string, expecting ')'",
	ErrorUnterminatedSlice:         "Unexpected end of string, square brackets do not match",
	ErrorUnterminatedEscape:        "Unexpected end of string, incomplete escape sequence",
	ErrorInvalidRedirect:           "Invalid input/output redirection",
	ErrorInvalidPipe:               "Cannot use stdin (fd 0) as pipe output",
	ErrorInvalidPipeAmpersand:      "|& is not valid. In fish, use &| to pipe both stdout and stderr.",
	ErrorClosingUnopenedSubshell:   "Unexpected ')' for unopened parenthesis",
	ErrorIllegalSlice:              "Unexpected '[' at this location",
	ErrorClosingUnopenedBrace:      "Unexpected '}' for unopened brace",
	ErrorUnterminatedBrace:         "Unexpected end of string, incomplete parameter expansion",
	ErrorExpectedPcloseFoundBclose: "Unexpected '}' found, expecting ')'",
	ErrorExpectedBcloseFoundPclose: "Unexpected ')' found, expecting '}'",
}

func (e ErrorKind) String() string {
	if name, ok := errorKindNames[e]; ok {
		return name
	}
	return "unknown"
}

// Message returns the user-facing description of the error.
func (e ErrorKind) Message() string {
	return errorKindMessages[e]
}

// Flags alter how the tokenizer treats its input.
type Flags uint8

const (
	// AcceptUnfinished accepts tokens with unbalanced quotes or parentheses.
	AcceptUnfinished Flags = 1 << iota
	// ShowComments returns comments as TokenComment tokens.
	ShowComments
	// ShowBlankLines returns every newline as its own TokenEnd.
	ShowBlankLines
	// ContinueAfterError keeps tokenizing past an error where possible.
	ContinueAfterError
	// ArgumentList disables command-position handling of braces.
	ArgumentList
)

// Token is a single lexical token. Offsets are byte offsets into the source.
type Token struct {
	Type   TokenType
	Offset int
	Length int

	// For error tokens, the location of the error relative to Offset.
	ErrorOffset int
	ErrorLength int
	Error       ErrorKind

	UnterminatedBrace bool
}

func (t Token) End() int {
	return t.Offset + t.Length
}

// Text returns the source text covered by the token.
func (t Token) Text(src string) string {
	return src[t.Offset:t.End()]
}

type braceStatementParser struct {
	atCommandPosition bool
	unclosed          int
}

type Tokenizer struct {
	src     string
	cursor  int
	hasNext bool

	// nil when tokenizing an argument list
	braces *braceStatementParser

	acceptUnfinished         bool
	showComments             bool
	showBlankLines           bool
	continueAfterError       bool
	continueLineAfterComment bool
}

func New(src string, flags Flags) *Tokenizer {
	t := &Tokenizer{
		src:                src,
		hasNext:            true,
		acceptUnfinished:   flags&AcceptUnfinished != 0,
		showComments:       flags&ShowComments != 0,
		showBlankLines:     flags&ShowBlankLines != 0,
		continueAfterError: flags&ContinueAfterError != 0,
	}
	if flags&ArgumentList == 0 {
		t.braces = &braceStatementParser{atCommandPosition: true}
	}
	return t
}

// Tokens returns every token of src.
func Tokens(src string, flags Flags) []Token {
	t := New(src, flags)
	var toks []Token
	for {
		tok, ok := t.Next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
	}
}

func (t *Tokenizer) TextOf(tok Token) string {
	return tok.Text(t.src)
}

func (t *Tokenizer) at(i int) byte {
	if i < 0 || i >= len(t.src) {
		return 0
	}
	return t.src[i]
}

func (t *Tokenizer) skipSpaceNotNewline() {
	for t.cursor < len(t.src) {
		r, size := utf8.DecodeRuneInString(t.src[t.cursor:])
		if !isSpaceNotNewline(r) {
			return
		}
		t.cursor += size
	}
}

// Next returns the next token, or false once the input is exhausted or an
// unrecoverable error token has been returned.
func (t *Tokenizer) Next() (Token, bool) {
	if !t.hasNext {
		return Token{}, false
	}

	for {
		if strings.HasPrefix(t.src[t.cursor:], "\\\n") {
			t.cursor += 2
			t.continueLineAfterComment = true
			continue
		}
		before := t.cursor
		t.skipSpaceNotNewline()
		if t.cursor == before {
			break
		}
	}

	for t.at(t.cursor) == '#' {
		commentStart := t.cursor
		t.cursor = commentEnd(t.src, t.cursor)
		commentLen := t.cursor - commentStart

		if t.at(t.cursor) == '\n' && t.continueLineAfterComment {
			t.cursor++
		}
		if t.showComments {
			return Token{Type: TokenComment, Offset: commentStart, Length: commentLen}, true
		}
		t.skipSpaceNotNewline()
	}

	t.continueLineAfterComment = false
	start := t.cursor
	c := t.at(start)
	next := t.at(start + 1)
	atCmdPos := false

	var tok Token
	switch {
	case c == 0:
		t.hasNext = false
		return Token{}, false

	case c == '\r' || c == '\n' || c == ';':
		tok = Token{Type: TokenEnd, Offset: start, Length: 1}
		t.cursor++
		atCmdPos = true
		// Compress runs of blank lines into a single end.
		if !t.showBlankLines {
			for t.cursor < len(t.src) {
				c := t.src[t.cursor]
				if c != '\n' && c != '\r' && c != ' ' && c != '\t' {
					break
				}
				t.cursor++
			}
		}

	case c == '{' && t.braces != nil && t.braces.atCommandPosition:
		t.braces.unclosed++
		tok = Token{Type: TokenLeftBrace, Offset: start, Length: 1}
		t.cursor++
		atCmdPos = true

	case c == '}':
		if t.braces == nil || t.braces.unclosed == 0 {
			return t.callError(ErrorClosingUnopenedBrace, t.cursor, t.cursor, 1, 1), true
		}
		t.braces.unclosed--
		tok = Token{Type: TokenRightBrace, Offset: start, Length: 1}
		t.cursor++

	case c == '&':
		switch next {
		case '&':
			tok = Token{Type: TokenAndAnd, Offset: start, Length: 2}
			t.cursor += 2
			atCmdPos = true
		case '>', '|':
			redir, ok := ParsePipeOrRedir(t.src[t.cursor:])
			if !ok {
				panic("tokenizer: failed to parse &> or &| redirection")
			}
			tok = Token{Type: redir.TokenType(), Offset: start, Length: redir.Consumed}
			t.cursor += redir.Consumed
			atCmdPos = next == '|'
		default:
			tok = Token{Type: TokenBackground, Offset: start, Length: 1}
			t.cursor++
			atCmdPos = true
		}

	case c == '|':
		switch next {
		case '|':
			tok = Token{Type: TokenOrOr, Offset: start, Length: 2}
			t.cursor += 2
			atCmdPos = true
		case '&':
			tok = t.callError(ErrorInvalidPipeAmpersand, t.cursor, t.cursor, 2, 2)
		default:
			pipe, ok := ParsePipeOrRedir(t.src[t.cursor:])
			if !ok {
				panic("tokenizer: failed to parse | pipe")
			}
			tok = Token{Type: pipe.TokenType(), Offset: start, Length: pipe.Consumed}
			t.cursor += pipe.Consumed
			atCmdPos = true
		}

	case c == '>' || c == '<':
		// Unlike the digit case below, a failed redirection here is never a string.
		redir, ok := ParsePipeOrRedir(t.src[t.cursor:])
		switch {
		case !ok:
			tok = t.callError(ErrorInvalidRedirect, t.cursor, t.cursor, -1, 0)
		case redir.FD < 0:
			tok = t.callError(ErrorInvalidRedirect, t.cursor, t.cursor, redir.Consumed, redir.Consumed)
		default:
			tok = Token{Type: redir.TokenType(), Offset: start, Length: redir.Consumed}
			t.cursor += redir.Consumed
		}

	default:
		var redir PipeOrRedir
		isRedir := false
		if c >= '0' && c <= '9' {
			redir, isRedir = ParsePipeOrRedir(t.src[t.cursor:])
		}
		switch {
		case isRedir && redir.IsPipe && redir.FD == 0:
			tok = t.callError(ErrorInvalidPipe, t.cursor, t.cursor, redir.Consumed, redir.Consumed)
		case isRedir:
			tok = Token{Type: redir.TokenType(), Offset: start, Length: redir.Consumed}
			t.cursor += redir.Consumed
			atCmdPos = redir.IsPipe
		default:
			tok = t.readString()
			if t.braces != nil && t.braces.atCommandPosition {
				text := t.TextOf(tok)
				atCmdPos = IsSubcommandKeyword(UnescapeKeyword(TokenString, text)) ||
					VariableAssignmentEqualsPos(text) >= 0
			}
		}
	}

	if t.braces != nil {
		t.braces.atCommandPosition = atCmdPos
	}
	return tok, true
}

// callError builds an error token. A negative tokenLength means the token
// runs to the current cursor and tokenizing cannot continue.
func (t *Tokenizer) callError(kind ErrorKind, tokenStart, errorLoc, tokenLength, errorLength int) Token {
	if kind == ErrorNone {
		panic("tokenizer: ErrorNone passed to callError")
	}
	if tokenLength >= 0 && t.continueAfterError {
		if t.cursor >= errorLoc+tokenLength {
			panic("tokenizer: unable to continue past error")
		}
		t.cursor = errorLoc + tokenLength
	} else {
		t.hasNext = false
	}
	length := tokenLength
	if length < 0 {
		length = t.cursor - tokenStart
	}
	return Token{
		Type:        TokenError,
		Offset:      tokenStart,
		Length:      length,
		ErrorOffset: errorLoc - tokenStart,
		ErrorLength: errorLength,
		Error:       kind,
	}
}

type readMode uint8

const (
	modeRegularText readMode = 0
	modeSubshell    readMode = 1 << iota
	modeArrayBrackets
	modeCurlyBraces
	modeCharEscape
)

func (t *Tokenizer) readString() Token {
	mode := modeRegularText
	var parenOffsets, braceOffsets, quotedCmdsubs []int
	var expecting []byte
	sliceOffset := 0
	buffStart := t.cursor
	isTokenBegin := true

	for t.cursor != len(t.src) {
		c := t.src[t.cursor]

		if mode&modeCharEscape != 0 {
			mode &^= modeCharEscape
		} else if isASCIIAlpha(c) {
			// fast path
		} else if c == '\\' {
			mode |= modeCharEscape
		} else if c == '#' && isTokenBegin {
			t.cursor = commentEnd(t.src, t.cursor) - 1
		} else if c == '(' {
			parenOffsets = append(parenOffsets, t.cursor)
			expecting = append(expecting, ')')
			mode |= modeSubshell
		} else if c == '{' {
			braceOffsets = append(braceOffsets, t.cursor)
			expecting = append(expecting, '}')
			mode |= modeCurlyBraces
		} else if c == ')' {
			if len(expecting) > 0 && expecting[len(expecting)-1] == '}' {
				return t.callError(ErrorExpectedBcloseFoundPclose, t.cursor, t.cursor, 1, 1)
			}
			if len(parenOffsets) == 0 {
				return t.callError(ErrorClosingUnopenedSubshell, t.cursor, t.cursor, 1, 1)
			}
			parenOffsets = parenOffsets[:len(parenOffsets)-1]
			if len(parenOffsets) == 0 {
				mode &^= modeSubshell
			}
			expecting = expecting[:len(expecting)-1]
			// A ")" closing a quoted command substitution reopens the double quote.
			if n := len(quotedCmdsubs); n > 0 && quotedCmdsubs[n-1] == len(parenOffsets) {
				quotedCmdsubs = quotedCmdsubs[:n-1]
				if errorLoc, ok := t.processOpeningQuote(&quotedCmdsubs, len(parenOffsets), '"'); !ok {
					if !t.acceptUnfinished {
						return t.callError(ErrorUnterminatedQuote, buffStart, errorLoc, -1, 0)
					}
					break
				}
			}
		} else if c == '}' {
			if len(expecting) > 0 && expecting[len(expecting)-1] == ')' {
				return t.callError(ErrorExpectedPcloseFoundBclose, t.cursor, t.cursor, 1, 1)
			}
			if len(braceOffsets) == 0 {
				// the caller reports the stray brace
				break
			}
			braceOffsets = braceOffsets[:len(braceOffsets)-1]
			if len(braceOffsets) == 0 {
				mode &^= modeCurlyBraces
			}
			expecting = expecting[:len(expecting)-1]
		} else if c == '[' {
			// A leading '[' is the test command.
			if t.cursor != buffStart {
				mode |= modeArrayBrackets
				sliceOffset = t.cursor
			}
		} else if c == ']' && mode&modeArrayBrackets != 0 {
			mode &^= modeArrayBrackets
		} else if c == '\'' || c == '"' {
			if errorLoc, ok := t.processOpeningQuote(&quotedCmdsubs, len(parenOffsets), c); !ok {
				if !t.acceptUnfinished {
					return t.callError(ErrorUnterminatedQuote, buffStart, errorLoc, -1, 1)
				}
				break
			}
		} else if mode == modeRegularText && !IsStringCharacter(c) {
			break
		}

		isTokenBegin = isTokenDelimiter(c)
		t.cursor++
	}

	if !t.acceptUnfinished && mode != modeRegularText {
		// Only the opener can be blamed; the closer could be anywhere.
		switch {
		case mode&modeCharEscape != 0:
			return t.callError(ErrorUnterminatedEscape, buffStart, t.cursor-1, -1, 1)
		case mode&modeArrayBrackets != 0:
			return t.callError(ErrorUnterminatedSlice, buffStart, sliceOffset, -1, 1)
		case mode&modeSubshell != 0:
			return t.callError(ErrorUnterminatedSubshell, buffStart, parenOffsets[len(parenOffsets)-1], -1, 1)
		case mode&modeCurlyBraces != 0:
			return t.callError(ErrorUnterminatedBrace, buffStart, braceOffsets[len(braceOffsets)-1], -1, 1)
		default:
			panic("tokenizer: unknown non-regular-text mode")
		}
	}

	return Token{
		Type:              TokenString,
		Offset:            buffStart,
		Length:            t.cursor - buffStart,
		UnterminatedBrace: mode&modeCurlyBraces != 0,
	}
}

// processOpeningQuote moves the cursor to the closing quote. On failure it
// moves the cursor to the end of input and returns the opening location.
func (t *Tokenizer) processOpeningQuote(quotedCmdsubs *[]int, parenDepth int, quote byte) (int, bool) {
	end, ok := QuoteEnd(t.src, t.cursor, quote)
	if !ok {
		errorLoc := t.cursor
		t.cursor = len(t.src)
		return errorLoc, false
	}
	if t.src[end] == '$' {
		*quotedCmdsubs = append(*quotedCmdsubs, parenDepth)
	}
	t.cursor = end
	return 0, true
}

// QuoteEnd returns the position of the quote closing the one at pos. Inside
// double quotes a command substitution "$(" also ends the quoted section.
func QuoteEnd(s string, pos int, quote byte) (int, bool) {
	for {
		pos++
		if pos >= len(s) {
			return 0, false
		}
		c := s[pos]
		if c == '\\' {
			pos++
		} else if c == quote || (quote == '"' && c == '$' && pos+1 < len(s) && s[pos+1] == '(') {
			return pos, true
		}
	}
}

func commentEnd(s string, pos int) int {
	for {
		pos++
		if pos >= len(s) || s[pos] == '\n' {
			return pos
		}
	}
}

// IsStringCharacter reports whether c may be part of an unquoted string.
// A '#' is a string character except at the start of a token.
func IsStringCharacter(c byte) bool {
	switch c {
	case 0, ' ', '\n', '|', '\t', ';', '\r', '<', '>', '&':
		return false
	}
	return true
}

func isTokenDelimiter(c byte) bool {
	return c == '(' || !IsStringCharacter(c)
}

func isASCIIAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpaceNotNewline(r rune) bool {
	switch r {
	case ' ', '\t', '\r':
		return true
	case '\n':
		return false
	}
	return unicode.IsSpace(r)
}

// CommandOf returns the first string token of src that is not a variable
// assignment, or "" if the first job does not start with a string.
func CommandOf(src string) string {
	t := New(src, 0)
	for {
		tok, ok := t.Next()
		if !ok || tok.Type != TokenString {
			return ""
		}
		text := t.TextOf(tok)
		if VariableAssignmentEqualsPos(text) >= 0 {
			continue
		}
		return text
	}
}

// VariableAssignmentEqualsPos returns the byte offset of the '=' in a
// string like FOO=bar, or -1 if the text is not a variable assignment. Only
// letters, digits and underscores may precede the '='.
func VariableAssignmentEqualsPos(text string) int {
	foundName := false
	for i, r := range text {
		if foundName && r == '=' {
			return i
		}
		if !validVarNameChar(r) {
			return -1
		}
		foundName = true
	}
	return -1
}

func validVarNameChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

var subcommandKeywords = map[string]bool{
	"command": true,
	"builtin": true,
	"while":   true,
	"exec":    true,
	"if":      true,
	"and":     true,
	"or":      true,
	"not":     true,
	"time":    true,
	"begin":   true,
}

// IsSubcommandKeyword reports whether the word after s is in command position.
func IsSubcommandKeyword(s string) bool {
	return subcommandKeywords[s]
}

func isKeywordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c == '\'' || c == '"' || c == '\\' || c == '\n' || c == '!'
}

// UnescapeKeyword returns the text a keyword candidate would expand to, or ""
// if the token cannot be a keyword. Only strings made purely of letters,
// digits, quotes, backslashes, newlines and '!' qualify.
func UnescapeKeyword(typ TokenType, text string) string {
	if typ != TokenString {
		return ""
	}
	needsUnescape := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !isKeywordChar(c) {
			return ""
		}
		needsUnescape = needsUnescape || c == '"' || c == '\'' || c == '\\'
	}
	if !needsUnescape {
		return text
	}
	return unescapeKeywordText(text)
}

func unescapeKeywordText(s string) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
				continue
			}
			if c == '\\' && i+1 < len(s) {
				n := s[i+1]
				if n == quote || n == '\\' {
					b.WriteByte(n)
					i++
					continue
				}
				if quote == '"' && n == '\n' {
					i++
					continue
				}
			}
			b.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
		case c == '\\':
			if i+1 >= len(s) {
				return ""
			}
			i++
			switch n := s[i]; n {
			case '\n':
			case 'a':
				b.WriteByte('\a')
			case 'b':
				b.WriteByte('\b')
			case 'e':
				b.WriteByte(0x1b)
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'v':
				b.WriteByte('\v')
			case 'x', 'X', 'u', 'U', 'c', '0', '1', '2', '3', '4', '5', '6', '7':
				// numeric escapes never spell a keyword
				return ""
			default:
				b.WriteByte(n)
			}
		default:
			b.WriteByte(c)
		}
	}
	if quote != 0 {
		return ""
	}
	return b.String()
}

// RedirectionMode is how a redirection target is opened.
type RedirectionMode int

const (
	RedirectOverwrite RedirectionMode = iota
	RedirectAppend
	RedirectInput
	RedirectTryInput
	RedirectFD
	RedirectNoClob
)

var redirectionModeNames = map[RedirectionMode]string{
	RedirectOverwrite: "overwrite",
	RedirectAppend:    "append",
	RedirectInput:     "input",
	RedirectTryInput:  "try_input",
	RedirectFD:        "fd",
	RedirectNoClob:    "noclob",
}

func (m RedirectionMode) String() string {
	if name, ok := redirectionModeNames[m]; ok {
		return name
	}
	return "unknown"
}

// PipeOrRedir is a parsed pipe or redirection operator such as "2>&1" or "&|".
type PipeOrRedir struct {
	// The redirected fd, or -1 on overflow.
	FD          int
	IsPipe      bool
	Mode        RedirectionMode
	StderrMerge bool
	// Number of bytes of the operator.
	Consumed int
}

func (p PipeOrRedir) Valid() bool {
	return p.FD >= 0
}

func (p PipeOrRedir) TokenType() TokenType {
	if p.IsPipe {
		return TokenPipe
	}
	return TokenRedirect
}

const (
	stdinFD  = 0
	stdoutFD = 1
)

// ParsePipeOrRedir parses the operator at the start of buff. Only the
// operator is consumed, never the target.
func ParsePipeOrRedir(buff string) (PipeOrRedir, bool) {
	cursor := 0
	for cursor < len(buff) && buff[cursor] >= '0' && buff[cursor] <= '9' {
		cursor++
	}
	fdText := buff[:cursor]
	hasFD := fdText != ""

	at := func(i int) byte {
		if i >= len(buff) {
			return 0
		}
		return buff[i]
	}
	tryConsume := func(c byte) bool {
		if at(cursor) != c {
			return false
		}
		cursor++
		return true
	}
	fdOr := func(def int) int {
		if hasFD {
			return parseFD(fdText)
		}
		return def
	}

	result := PipeOrRedir{FD: -1, Mode: RedirectOverwrite}
	switch at(cursor) {
	case '|':
		if hasFD {
			// like 123|
			return PipeOrRedir{}, false
		}
		cursor++
		result.FD = stdoutFD
		result.IsPipe = true
	case '>':
		cursor++
		if tryConsume('>') {
			result.Mode = RedirectAppend
		}
		if tryConsume('|') {
			// 2>| is a pipe of stderr, not a clobbering redirection
			result.IsPipe = true
			result.FD = fdOr(stdoutFD)
		} else if tryConsume('&') {
			result.Mode = RedirectFD
			result.FD = fdOr(stdoutFD)
		} else {
			result.FD = fdOr(stdoutFD)
			if tryConsume('?') {
				result.Mode = RedirectNoClob
			}
		}
	case '<':
		cursor++
		switch {
		case tryConsume('&'):
			result.Mode = RedirectFD
		case tryConsume('?'):
			result.Mode = RedirectTryInput
		default:
			result.Mode = RedirectInput
		}
		result.FD = fdOr(stdinFD)
	case '&':
		cursor++
		switch {
		case tryConsume('|'):
			result.FD = stdoutFD
			result.IsPipe = true
			result.StderrMerge = true
		case tryConsume('>'):
			result.FD = stdoutFD
			result.StderrMerge = true
			if tryConsume('>') {
				result.Mode = RedirectAppend
			}
			if tryConsume('?') {
				result.Mode = RedirectNoClob
			}
		default:
			return PipeOrRedir{}, false
		}
	default:
		return PipeOrRedir{}, false
	}

	result.Consumed = cursor
	return result, true
}

func parseFD(s string) int {
	fd, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return -1
	}
	return int(fd)
}
