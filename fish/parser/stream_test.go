package parser

import (
	"testing"

	"github.com/dhamidi/fishast/fish/tokenizer"
)

func TestTokenStreamPeekIsStable(t *testing.T) {
	s := NewTokenStream("echo hi; end", 0, false)

	first := s.Peek(0)
	second := s.Peek(1)
	if again := s.Peek(0); again != first {
		t.Errorf("got %v, want %v", again, first)
	}
	if got := s.Pop(); got != first {
		t.Errorf("got %v, want %v", got, first)
	}
	if got := s.Peek(0); got != second {
		t.Errorf("got %v, want %v", got, second)
	}
}

func TestTokenStreamTokens(t *testing.T) {
	tests := []struct {
		src   string
		types []ParseTokenType
	}{
		{"", []ParseTokenType{TokTerminate}},
		{"echo hi", []ParseTokenType{TokString, TokString, TokTerminate}},
		{"a | b", []ParseTokenType{TokString, TokPipe, TokString, TokTerminate}},
		{"a && b || c", []ParseTokenType{TokString, TokAndAnd, TokString, TokOrOr, TokString, TokTerminate}},
		{"a > f &", []ParseTokenType{TokString, TokRedirection, TokString, TokBackground, TokTerminate}},
		{"{ a }", []ParseTokenType{TokLeftBrace, TokString, TokRightBrace, TokTerminate}},
		{"a # note\nb", []ParseTokenType{TokString, TokEnd, TokString, TokTerminate}},
		{"echo 'abc", []ParseTokenType{TokString, TokTokenizerError, TokTerminate}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			s := NewTokenStream(tt.src, IncludeComments, false)
			var got []ParseTokenType
			for {
				tok := s.Pop()
				got = append(got, tok.Type)
				if tok.Type == TokTerminate {
					break
				}
			}
			if len(got) != len(tt.types) {
				t.Fatalf("got %v, want %v", got, tt.types)
			}
			for i := range got {
				if got[i] != tt.types[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.types[i])
				}
			}
		})
	}
}

func TestTokenStreamProperties(t *testing.T) {
	tests := []struct {
		src        string
		keyword    ParseKeyword
		dash       bool
		help       bool
		newline    bool
		assignment bool
	}{
		{"if", KwIf, false, false, false, false},
		{"'if'", KwIf, false, false, false, false},
		{"!", KwExclam, false, false, false, false},
		{"-n", KwNone, true, false, false, false},
		{"-h", KwNone, true, true, false, false},
		{"--help", KwNone, true, true, false, false},
		{"\n", KwNone, false, false, true, false},
		{";", KwNone, false, false, false, false},
		{"a=b", KwNone, false, false, false, true},
		{"=b", KwNone, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tok := NewTokenStream(tt.src, 0, false).Peek(0)
			if tok.Keyword != tt.keyword {
				t.Errorf("keyword: got %v, want %v", tok.Keyword, tt.keyword)
			}
			if tok.HasDashPrefix != tt.dash {
				t.Errorf("dash prefix: got %v, want %v", tok.HasDashPrefix, tt.dash)
			}
			if tok.IsHelpArgument != tt.help {
				t.Errorf("help: got %v, want %v", tok.IsHelpArgument, tt.help)
			}
			if tok.IsNewline != tt.newline {
				t.Errorf("newline: got %v, want %v", tok.IsNewline, tt.newline)
			}
			if tok.MayBeVariableAssignment != tt.assignment {
				t.Errorf("assignment: got %v, want %v", tok.MayBeVariableAssignment, tt.assignment)
			}
		})
	}
}

func TestTokenStreamComments(t *testing.T) {
	s := NewTokenStream("echo # one\n# two\necho", IncludeComments, false)
	for s.Pop().Type != TokTerminate {
	}
	want := []SourceRange{{5, 5}, {11, 5}}
	got := s.Comments()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("comment %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenStreamErrorRange(t *testing.T) {
	s := NewTokenStream("echo 'abc", 0, false)
	s.Pop()
	tok := s.Pop()
	if tok.Type != TokTokenizerError {
		t.Fatalf("got %v, want %v", tok.Type, TokTokenizerError)
	}
	if tok.TokError != tokenizer.ErrorUnterminatedQuote {
		t.Errorf("got %v, want %v", tok.TokError, tokenizer.ErrorUnterminatedQuote)
	}
	if tok.Start != 5 {
		t.Errorf("start: got %d, want 5", tok.Start)
	}
}

type sliceLexer struct {
	toks []tokenizer.Token
}

func (l *sliceLexer) Next() (tokenizer.Token, bool) {
	if len(l.toks) == 0 {
		return tokenizer.Token{}, false
	}
	tok := l.toks[0]
	l.toks = l.toks[1:]
	return tok, true
}

func TestTokenStreamFromLexer(t *testing.T) {
	src := "end"
	lex := &sliceLexer{toks: []tokenizer.Token{{Type: tokenizer.TokenString, Offset: 0, Length: 3}}}
	s := NewTokenStreamFromLexer(src, lex)

	tok := s.Pop()
	if tok.Type != TokString || tok.Keyword != KwEnd {
		t.Errorf("got %v, want string <end>", tok)
	}
	if got := s.Pop().Type; got != TokTerminate {
		t.Errorf("got %v, want %v", got, TokTerminate)
	}
}
