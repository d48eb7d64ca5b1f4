package codebase

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/fishast/fish/parser"
)

func pos(line, char int) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

func TestToDiagnostics(t *testing.T) {
	tests := []struct {
		src   string
		code  string
		start protocol.Position
		end   protocol.Position
	}{
		{"echo 'abc", "tokenizer_unterminated_quote", pos(0, 5), pos(0, 6)},
		{"echo hi |", "generic", pos(0, 9), pos(0, 9)},
		{"echo ok\nend", "unbalancing_end", pos(1, 0), pos(1, 3)},
		{"echo 𝄞; end", "unbalancing_end", pos(0, 9), pos(0, 12)},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			var errs parser.ErrorList
			parser.Parse(tt.src, 0, &errs)
			diags := toDiagnostics(tt.src, errs)
			if len(diags) == 0 {
				t.Fatalf("got no diagnostics")
			}
			d := diags[0]
			if d.Range.Start != tt.start || d.Range.End != tt.end {
				t.Errorf("got %v-%v, want %v-%v", d.Range.Start, d.Range.End, tt.start, tt.end)
			}
			if d.Code == nil || d.Code.Value != tt.code {
				t.Errorf("got code %v, want %s", d.Code, tt.code)
			}
			if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
				t.Errorf("got severity %v, want error", d.Severity)
			}
			if d.Source == nil || *d.Source != "fishast" {
				t.Errorf("got source %v, want fishast", d.Source)
			}
		})
	}
}

func TestDocumentSymbols(t *testing.T) {
	src := "# helpers\nfunction greet\necho hi\nend\n"
	syms := documentSymbols(src, FindFunctions(parser.Parse(src, 0, nil), src))
	if len(syms) != 1 {
		t.Fatalf("got %d symbols, want 1", len(syms))
	}
	s := syms[0]
	if s.Name != "greet" || s.Kind != protocol.SymbolKindFunction {
		t.Errorf("got %s (kind %v), want function greet", s.Name, s.Kind)
	}
	if s.Range.Start != pos(1, 0) || s.Range.End != pos(3, 3) {
		t.Errorf("got range %v-%v, want 1:0-3:3", s.Range.Start, s.Range.End)
	}
	if s.SelectionRange.Start != pos(1, 0) || s.SelectionRange.End != pos(2, 0) {
		t.Errorf("got selection %v-%v, want 1:0-2:0", s.SelectionRange.Start, s.SelectionRange.End)
	}
}

func TestFormatEdits(t *testing.T) {
	t.Run("reformats", func(t *testing.T) {
		edits, err := formatEdits([]byte("if true\necho hi\nend\n"), 4)
		if err != nil {
			t.Fatal(err)
		}
		if len(edits) != 1 {
			t.Fatalf("got %d edits, want 1", len(edits))
		}
		if got, want := edits[0].NewText, "if true\n    echo hi\nend\n"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
		if edits[0].Range.Start != pos(0, 0) || edits[0].Range.End != pos(3, 0) {
			t.Errorf("got range %v-%v, want 0:0-3:0", edits[0].Range.Start, edits[0].Range.End)
		}
	})

	t.Run("already formatted", func(t *testing.T) {
		edits, err := formatEdits([]byte("echo hi\n"), 4)
		if err != nil {
			t.Fatal(err)
		}
		if len(edits) != 0 {
			t.Errorf("got %v, want no edits", edits)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		if _, err := formatEdits([]byte("if true\n"), 4); err == nil {
			t.Errorf("expected an error")
		}
	})
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///home/me/.config/fish/config.fish", "/home/me/.config/fish/config.fish"},
		{"file:///tmp/a%20b.fish", "/tmp/a b.fish"},
		{"untitled:1", "untitled:1"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := uriToPath(tt.uri)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPathToURI(t *testing.T) {
	uri := pathToURI("/tmp/a b.fish")
	if uri != "file:///tmp/a%20b.fish" {
		t.Errorf("got %q, want file:///tmp/a%%20b.fish", uri)
	}
	got, err := uriToPath(uri)
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/a b.fish" {
		t.Errorf("got %q, want /tmp/a b.fish", got)
	}
}
