package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/fishast/fish/parser"
)

type runResult struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := root.Execute()
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name   string
		stdin  string
		args   []string
		prefix string
	}{
		{"dump", "echo hi", []string{"parse"}, "job_list\n! job_conjunction\n"},
		{"stdin dash", "echo hi", []string{"parse", "-"}, "job_list\n"},
		{"line", "echo hi", []string{"parse", "--format", "line"}, "0\tjob_list\t0\t7\t"},
		{"args", "a b", []string{"parse", "--args"}, "freestanding_argument_list\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.stdin, tt.args...)
			if res.err != nil {
				t.Fatalf("unexpected error: %s", res.err)
			}
			if !strings.HasPrefix(res.stdout, tt.prefix) {
				t.Errorf("got %q, want prefix %q", res.stdout, tt.prefix)
			}
		})
	}
}

func TestParseCommandJSON(t *testing.T) {
	res := run(t, "echo hi; end", "parse", "--format", "json", "--continue")
	if res.err == nil {
		t.Fatalf("expected an error for the stray end")
	}
	var doc struct {
		Root struct {
			Kind string `json:"kind"`
		} `json:"root"`
		Errored bool `json:"errored"`
		Errors  []struct {
			Code string `json:"code"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &doc); err != nil {
		t.Fatalf("output is not JSON: %s\n%s", err, res.stdout)
	}
	if doc.Root.Kind != "job_list" || !doc.Errored {
		t.Errorf("got root %q errored %v, want errored job_list", doc.Root.Kind, doc.Errored)
	}
	if len(doc.Errors) != 1 || doc.Errors[0].Code != "unbalancing_end" {
		t.Errorf("got errors %+v, want one unbalancing_end", doc.Errors)
	}
	if !strings.Contains(res.stderr, "'end' outside of a block") {
		t.Errorf("stderr lacks the diagnostic: %q", res.stderr)
	}
}

func TestParseCommandUnknownFormat(t *testing.T) {
	res := run(t, "echo", "parse", "--format", "xml")
	if res.err == nil || !strings.Contains(res.err.Error(), "unknown format: xml") {
		t.Errorf("got %v, want unknown format error", res.err)
	}
}

func TestTokensCommand(t *testing.T) {
	res := run(t, "echo 'hi' | cat", "tokens")
	if res.err != nil {
		t.Fatal(res.err)
	}
	want := "0\t4\tstring\t\"echo\"\n" +
		"5\t4\tstring\t\"'hi'\"\n" +
		"10\t1\tpipe\t\"|\"\n" +
		"12\t3\tstring\t\"cat\"\n"
	if res.stdout != want {
		t.Errorf("got:\n%s\nwant:\n%s", res.stdout, want)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("config.fish", "set -g fish_greeting\n")
	write("functions/ok.fish", "function ok\necho ok\nend\n")

	t.Run("clean", func(t *testing.T) {
		res := run(t, "", "check", dir)
		if res.err != nil {
			t.Fatalf("unexpected error: %s\n%s", res.err, res.stdout)
		}
		if !strings.Contains(res.stdout, "2 files checked, no problems") {
			t.Errorf("got %q", res.stdout)
		}
	})

	write("functions/bad.fish", "function other\necho\nend\n")
	write("conf.d/broken.fish", "if true\n")

	t.Run("problems", func(t *testing.T) {
		res := run(t, "", "check", dir)
		if res.err == nil {
			t.Fatalf("expected an error")
		}
		for _, want := range []string{
			"bad.fish",
			"autoloaded file does not define function 'bad'",
			"broken.fish",
			"Missing end to balance this if statement",
		} {
			if !strings.Contains(res.stdout, want) {
				t.Errorf("output lacks %q:\n%s", want, res.stdout)
			}
		}
	})

	t.Run("stdin", func(t *testing.T) {
		res := run(t, "echo (", "check", "-")
		if res.err == nil {
			t.Fatalf("expected an error")
		}
		if !strings.Contains(res.stdout, "-: ") {
			t.Errorf("got %q, want the stdin marker", res.stdout)
		}
	})
}

func TestFmtCommand(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		res := run(t, "if true\necho hi\nend", "fmt", "--indent", "2")
		if res.err != nil {
			t.Fatal(res.err)
		}
		if want := "if true\n  echo hi\nend\n"; res.stdout != want {
			t.Errorf("got %q, want %q", res.stdout, want)
		}
	})

	t.Run("write in place", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.fish")
		if err := os.WriteFile(path, []byte("begin\necho a\nend"), 0o644); err != nil {
			t.Fatal(err)
		}
		if res := run(t, "", "fmt", "-w", path); res.err != nil {
			t.Fatal(res.err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if want := "begin\n    echo a\nend\n"; string(got) != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	errorTests := []struct {
		name string
		args []string
		want string
	}{
		{"write needs a file", []string{"fmt", "-w"}, "-w requires a file argument"},
		{"extension", []string{"fmt", "script.sh"}, "expected .fish file"},
	}
	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, "", tt.args...)
			if res.err == nil || !strings.Contains(res.err.Error(), tt.want) {
				t.Errorf("got %v, want %q", res.err, tt.want)
			}
		})
	}
}

func TestReplEval(t *testing.T) {
	rs := &replSession{indent: 4, mode: "dump"}

	if got := rs.eval("echo hi"); !strings.HasPrefix(got, "job_list\n") {
		t.Errorf("got %q, want a dump", got)
	}
	if got := rs.eval("echo hi; end"); !strings.Contains(got, "'end' outside of a block") {
		t.Errorf("got %q, want the diagnostic", got)
	}

	if err := rs.setMode("fmt"); err != nil {
		t.Fatal(err)
	}
	if got, want := rs.eval("if true\necho hi\nend"), "if true\n    echo hi\nend\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if err := rs.setMode("json"); err != nil {
		t.Fatal(err)
	}
	if got := rs.eval("echo"); !json.Valid([]byte(got)) {
		t.Errorf("got %q, want JSON", got)
	}

	if err := rs.setMode("yaml"); err == nil {
		t.Errorf("expected an error for an unknown mode")
	}
}

func TestRenderError(t *testing.T) {
	src := "echo a\nend"
	err := &parser.ParseError{Code: parser.ErrorUnbalancingEnd, Text: "'end' outside of a block", SourceStart: 7, SourceLen: 3}
	got := renderError("x.fish", src, err)
	for _, want := range []string{"x.fish", "'end' outside of a block", "end", "^~^"} {
		if !strings.Contains(got, want) {
			t.Errorf("got %q, want it to contain %q", got, want)
		}
	}
	if n := strings.Count(got, "\n"); n != 2 {
		t.Errorf("got %d newlines, want 2", n)
	}
}
