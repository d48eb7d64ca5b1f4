package format

import (
	"strings"
	"testing"

	"github.com/dhamidi/fishast/fish/parser"
)

func TestPrettyPrintFish(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
		want   string
	}{
		{"spacing", "echo  hello   world", 4, "echo hello world\n"},
		{"semicolons", "echo a; echo b;", 4, "echo a\necho b\n"},
		{
			"if chain",
			"if true; echo a; else if false; echo b; else; echo c; end",
			4,
			"if true\n    echo a\nelse if false\n    echo b\nelse\n    echo c\nend\n",
		},
		{"for loop", "for i in 1 2 3; echo $i; end", 4, "for i in 1 2 3\n    echo $i\nend\n"},
		{
			"switch",
			"switch $x; case a; echo a; case b c; echo bc; end",
			4,
			"switch $x\ncase a\n    echo a\ncase b c\n    echo bc\nend\n",
		},
		{"while with tail", "while true; and false; echo loop; end", 4, "while true\n    and false\n    echo loop\nend\n"},
		{"function", "function f -a x\necho $x\nend", 4, "function f -a x\n    echo $x\nend\n"},
		{"brace", "{ echo x }", 4, "{\n    echo x\n}\n"},
		{"blank lines", "echo a\n\n\n\necho b", 4, "echo a\n\necho b\n"},
		{"leading blank lines", "\n\necho a", 4, "echo a\n"},
		{
			"comments",
			"# head\necho a # tail\nbegin\n# inner\nend",
			4,
			"# head\necho a # tail\nbegin\n    # inner\nend\n",
		},
		{"redirections", "a=1 command echo > out 2>&1 | cat &", 4, "a=1 command echo >out 2>&1 | cat &\n"},
		{"not and conjunctions", "not time true &&   false ||  true", 4, "not time true && false || true\n"},
		{"block redirection", "begin; echo; end  >  log", 2, "begin\n  echo\nend >log\n"},
		{"nested", "if a; for x in y; echo; end; end", 2, "if a\n  for x in y\n    echo\n  end\nend\n"},
		{"empty", "", 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PrettyPrintFish([]byte(tt.input), tt.indent)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestPrettyPrintFishKeepsInvalidInput(t *testing.T) {
	input := []byte("if true; echo hi")
	got, err := PrettyPrintFish(input, 4)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if string(got) != string(input) {
		t.Errorf("got %q, want input unchanged", got)
	}
	if want := "Missing end to balance this if statement"; err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

// kindSignature lists the nodes of src by kind, leaving out statement
// terminators, which the printer is free to change.
func kindSignature(t *testing.T, src string) []string {
	t.Helper()
	ast := parser.Parse(src, parser.IncludeComments, nil)
	if ast.Errored() {
		t.Fatalf("parse errors in:\n%s", src)
	}
	var sig []string
	for n := range ast.Walk().All() {
		if _, ok := n.(*parser.SemiNl); ok {
			continue
		}
		sig = append(sig, parser.Describe(n))
	}
	return sig
}

func TestPrettyPrintFishRoundTrip(t *testing.T) {
	scripts := []string{
		"begin end",
		"begin echo a; end",
		"echo a | cat; and echo b\n\n# done",
		"function greet --argument-names name\n  # say hi\n  echo hi $name # inline\n\n\n  return 0\nend",
		"switch (uname)\n  case Linux\n    echo linux\n  case '*'\n    # other\n    echo other\nend",
		"while read -l line\nor test -n \"$line\"\necho $line\nend < input",
		"if not test -f x; and true\n  touch x\nelse if false\nelse\nend",
		"for f in *.fish; fish -n $f || echo bad $f; end &",
		"a=b c=d env | grep a >> out\n{ echo one; echo two }",
		"echo 'multi\nline' \\\n  continued",
	}

	for _, src := range scripts {
		t.Run(strings.SplitN(src, "\n", 2)[0], func(t *testing.T) {
			once, err := PrettyPrintFish([]byte(src), 4)
			if err != nil {
				t.Fatalf("first pass: %v", err)
			}
			twice, err := PrettyPrintFish(once, 4)
			if err != nil {
				t.Fatalf("second pass: %v\n%s", err, once)
			}
			if string(once) != string(twice) {
				t.Errorf("not idempotent:\nfirst:\n%s\nsecond:\n%s", once, twice)
			}

			orig := kindSignature(t, src)
			formatted := kindSignature(t, string(once))
			if len(orig) != len(formatted) {
				t.Fatalf("got %d nodes, want %d\n%s", len(formatted), len(orig), once)
			}
			for i := range orig {
				if orig[i] != formatted[i] {
					t.Errorf("node %d: got %s, want %s", i, formatted[i], orig[i])
					break
				}
			}

			origComments := parser.Parse(src, parser.IncludeComments, nil).Extras.Comments
			fmtComments := parser.Parse(string(once), parser.IncludeComments, nil).Extras.Comments
			if len(origComments) != len(fmtComments) {
				t.Errorf("got %d comments, want %d", len(fmtComments), len(origComments))
			}
		})
	}
}
