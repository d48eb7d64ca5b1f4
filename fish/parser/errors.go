package parser

import (
	"sort"
	"strings"

	"github.com/dhamidi/fishast/fish/tokenizer"
	"github.com/mattn/go-runewidth"
)

// ErrorCode classifies a syntax error.
type ErrorCode int

const (
	ErrorNone ErrorCode = iota
	ErrorSyntax
	ErrorCmdsubst
	ErrorGeneric
	ErrorTokenizerUnterminatedQuote
	ErrorTokenizerUnterminatedSubshell
	ErrorTokenizerUnterminatedSlice
	ErrorTokenizerUnterminatedEscape
	ErrorTokenizerOther
	ErrorUnbalancingEnd
	ErrorUnbalancingElse
	ErrorUnbalancingCase
	ErrorUnbalancingBrace
	ErrorBareVariableAssignment
	ErrorAndorInPipeline
)

var errorCodeNames = map[ErrorCode]string{
	ErrorNone:                          "none",
	ErrorSyntax:                        "syntax",
	ErrorCmdsubst:                      "cmdsubst",
	ErrorGeneric:                       "generic",
	ErrorTokenizerUnterminatedQuote:    "tokenizer_unterminated_quote",
	ErrorTokenizerUnterminatedSubshell: "tokenizer_unterminated_subshell",
	ErrorTokenizerUnterminatedSlice:    "tokenizer_unterminated_slice",
	ErrorTokenizerUnterminatedEscape:   "tokenizer_unterminated_escape",
	ErrorTokenizerOther:                "tokenizer_other",
	ErrorUnbalancingEnd:                "unbalancing_end",
	ErrorUnbalancingElse:               "unbalancing_else",
	ErrorUnbalancingCase:               "unbalancing_case",
	ErrorUnbalancingBrace:              "unbalancing_brace",
	ErrorBareVariableAssignment:        "bare_variable_assignment",
	ErrorAndorInPipeline:               "andor_in_pipeline",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "unknown"
}

func errorCodeForTokenizer(kind tokenizer.ErrorKind) ErrorCode {
	switch kind {
	case tokenizer.ErrorNone:
		return ErrorNone
	case tokenizer.ErrorUnterminatedQuote:
		return ErrorTokenizerUnterminatedQuote
	case tokenizer.ErrorUnterminatedSubshell:
		return ErrorTokenizerUnterminatedSubshell
	case tokenizer.ErrorUnterminatedSlice:
		return ErrorTokenizerUnterminatedSlice
	case tokenizer.ErrorUnterminatedEscape:
		return ErrorTokenizerUnterminatedEscape
	}
	return ErrorTokenizerOther
}

const (
	msgMissingEnd         = "Missing end to balance this %s"
	msgExpectedFound      = "Expected %s, but found %s"
	msgExpectedCommand    = "Expected a command, but found %s"
	msgExpectedString     = "Expected a string, but found %s"
	msgStringNotRedir     = "Expected a string, but found a redirection"
	msgUnbalancingEnd     = "'end' outside of a block"
	msgUnbalancingElse    = "'else' builtin not inside of if block"
	msgUnbalancingCase    = "'case' builtin not inside of switch block"
	msgAndorInPipeline    = "The '%s' command can not be used in a pipeline"
	msgBareVariableAssign = "Unsupported use of '='. In fish, please use 'set %s %s'."
	sourceLocationUnknown = -1
)

// ParseError is a syntax error with the source range it applies to.
type ParseError struct {
	Code        ErrorCode
	Text        string
	SourceStart int
	SourceLen   int
}

func (e *ParseError) Error() string {
	return e.Text
}

func (e *ParseError) Range() SourceRange {
	return SourceRange{Start: e.SourceStart, Length: e.SourceLen}
}

// Describe renders the error followed by the offending line of src and a
// caret line underneath it.
func (e *ParseError) Describe(src string) string {
	return e.DescribeWithPrefix(src, "", false, false)
}

// DescribeWithPrefix is Describe with a message prefix. In interactive mode
// the source line is omitted for errors at offset zero. With skipCaret only
// the message is returned.
func (e *ParseError) DescribeWithPrefix(src, prefix string, interactive, skipCaret bool) string {
	if skipCaret && e.Text == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(e.Text)

	start := e.SourceStart
	length := e.SourceLen
	if skipCaret || len(src) == 0 || start < 0 {
		return b.String()
	}
	if start >= len(src) {
		start = len(src) - 1
		length = 0
	}
	if start+length > len(src) {
		length = len(src) - start
	}

	lineStart := 0
	if i := strings.LastIndexByte(src[:start], '\n'); i >= 0 {
		lineStart = i + 1
	}
	lastInRange := start
	if length > 0 {
		lastInRange = start + length - 1
	}
	lineEnd := len(src)
	if i := strings.IndexByte(src[lastInRange:], '\n'); i >= 0 {
		lineEnd = lastInRange + i
	}

	if interactive && start == 0 {
		return b.String()
	}

	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(src[lineStart:lineEnd])
	b.WriteByte('\n')
	for _, r := range src[lineStart:start] {
		switch r {
		case '\t':
			b.WriteByte('\t')
		case '\n':
			b.WriteByte(' ')
		default:
			if w := runewidth.RuneWidth(r); w > 0 {
				b.WriteString(strings.Repeat(" ", w))
			}
		}
	}
	b.WriteByte('^')
	if length > 1 {
		if width := runewidth.StringWidth(src[start : start+length]); width >= 2 {
			b.WriteString(strings.Repeat("~", width-2))
			b.WriteByte('^')
		}
	}
	return b.String()
}

// ErrorList collects syntax errors in the order they were found.
type ErrorList []*ParseError

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, err := range l {
		msgs[i] = err.Text
	}
	return strings.Join(msgs, "\n")
}

// Sorted returns the errors ordered by source position.
func (l ErrorList) Sorted() ErrorList {
	sorted := make(ErrorList, len(l))
	copy(sorted, l)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SourceStart < sorted[j].SourceStart
	})
	return sorted
}

// OffsetSourceStart shifts every known error position by amt, for errors
// found in a substring of a larger buffer.
func (l ErrorList) OffsetSourceStart(amt int) {
	if amt == 0 {
		return
	}
	for _, err := range l {
		if err.SourceStart != sourceLocationUnknown {
			err.SourceStart += amt
		}
	}
}
