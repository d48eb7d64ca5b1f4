package parser

import (
	"strings"

	"github.com/dhamidi/fishast/fish/tokenizer"
)

// Lexer produces the tokens of a source text. *tokenizer.Tokenizer is the
// usual implementation.
type Lexer interface {
	Next() (tokenizer.Token, bool)
}

const maxLookahead = 2

// TokenStream turns lexer tokens into parse tokens with a small lookahead
// buffer. Comments never reach the parser; their ranges are collected on the
// side.
type TokenStream struct {
	lookahead [maxLookahead]ParseToken
	start     int
	count     int

	src string
	lex Lexer

	comments []SourceRange
}

// NewTokenStream tokenizes src according to flags. Freestanding argument
// lists do not recognize brace statements.
func NewTokenStream(src string, flags ParseFlags, freestanding bool) *TokenStream {
	tokFlags := flags.tokenizerFlags()
	if freestanding {
		tokFlags |= tokenizer.ArgumentList
	}
	return NewTokenStreamFromLexer(src, tokenizer.New(src, tokFlags))
}

// NewTokenStreamFromLexer reads tokens of src from lex.
func NewTokenStreamFromLexer(src string, lex Lexer) *TokenStream {
	return &TokenStream{src: src, lex: lex}
}

// Peek returns the token idx positions ahead without consuming it. Past the
// end of input it returns a TokTerminate token.
func (s *TokenStream) Peek(idx int) ParseToken {
	return *s.peek(idx)
}

func (s *TokenStream) peek(idx int) *ParseToken {
	if idx >= maxLookahead {
		panic("parser: lookahead too far")
	}
	for idx >= s.count {
		s.lookahead[mask(s.start+s.count)] = s.nextFromLexer()
		s.count++
	}
	return &s.lookahead[mask(s.start+idx)]
}

// Pop consumes and returns the next token.
func (s *TokenStream) Pop() ParseToken {
	if s.count == 0 {
		return s.nextFromLexer()
	}
	tok := s.lookahead[s.start]
	s.start = mask(s.start + 1)
	s.count--
	return tok
}

// Comments returns the ranges of comments seen so far.
func (s *TokenStream) Comments() []SourceRange {
	return s.comments
}

func mask(idx int) int {
	return idx % maxLookahead
}

func (s *TokenStream) nextFromLexer() ParseToken {
	for {
		tok := s.advance()
		if tok.Type == TokComment {
			s.comments = append(s.comments, tok.Range())
			continue
		}
		return tok
	}
}

func (s *TokenStream) advance() ParseToken {
	tok, ok := s.lex.Next()
	if !ok {
		tok := newParseToken(TokTerminate)
		tok.Start = sourceLocationUnknown
		return tok
	}

	// The dash and help checks ignore quoting: `builtin "--names"` is
	// treated like `builtin --names`.
	text := tok.Text(s.src)
	result := newParseToken(parseTokenTypeOf(tok.Type))
	result.Keyword = keywordForToken(tok.Type, text)
	result.HasDashPrefix = strings.HasPrefix(text, "-")
	result.IsHelpArgument = text == "-h" || text == "--help"
	result.IsNewline = result.Type == TokEnd && text == "\n"
	result.MayBeVariableAssignment = tokenizer.VariableAssignmentEqualsPos(text) >= 0
	result.TokError = tok.Error
	result.Start = tok.Offset
	result.Length = tok.Length

	if tok.Error != tokenizer.ErrorNone {
		// Zero-length error tokens keep their own range, especially at EOF.
		if tok.ErrorOffset < result.Length {
			result.Start += tok.ErrorOffset
			result.Length = tok.ErrorLength
		}
	}
	return result
}
