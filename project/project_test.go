package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/fishast/fish/parser"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.fish"), "set -gx EDITOR vim\n")
	writeFile(t, filepath.Join(dir, "conf.d", "20-path.fish"), "fish_add_path ~/bin\n")
	writeFile(t, filepath.Join(dir, "conf.d", "10-env.fish"), "set -gx LANG C\n")
	writeFile(t, filepath.Join(dir, "functions", "ll.fish"), "function ll\n    ls -l $argv\nend\n")
	writeFile(t, filepath.Join(dir, "completions", "ll.fish"), "complete -c ll -w ls\n")
	writeFile(t, filepath.Join(dir, "themes", "dark.fish"), "set fish_color_normal white\n")
	writeFile(t, filepath.Join(dir, "functions", "helpers", "deep.fish"), "echo deep\n")
	writeFile(t, filepath.Join(dir, ".cache", "skip.fish"), "echo skipped\n")
	writeFile(t, filepath.Join(dir, "fish_variables"), "SETUVAR x:1\n")
	return dir
}

func TestLoadFrom(t *testing.T) {
	dir := setupConfigDir(t)
	proj, err := LoadFrom(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]Role{
		"config.fish":                 RoleConfig,
		"conf.d/10-env.fish":          RoleConfD,
		"conf.d/20-path.fish":         RoleConfD,
		"functions/ll.fish":           RoleFunction,
		"completions/ll.fish":         RoleCompletion,
		"themes/dark.fish":            RoleScript,
		"functions/helpers/deep.fish": RoleScript,
	}
	if len(proj.Scripts) != len(want) {
		t.Fatalf("got %d scripts, want %d", len(proj.Scripts), len(want))
	}
	for _, s := range proj.Scripts {
		rel, _ := filepath.Rel(dir, s.Path)
		role, ok := want[filepath.ToSlash(rel)]
		if !ok {
			t.Errorf("unexpected script %s", rel)
			continue
		}
		if s.Role != role {
			t.Errorf("%s: got role %v, want %v", rel, s.Role, role)
		}
	}
}

func TestLoadFromErrors(t *testing.T) {
	empty := t.TempDir()
	writeFile(t, filepath.Join(empty, "notes.txt"), "nothing here\n")

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"missing", filepath.Join(empty, "nope"), "read project directory"},
		{"no scripts", empty, "no *.fish files"},
		{"file", filepath.Join(empty, "notes.txt"), "is not a directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.dir)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestStartupOrder(t *testing.T) {
	proj, err := LoadFrom(setupConfigDir(t))
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, s := range proj.StartupOrder() {
		got = append(got, filepath.Base(s.Path))
	}
	want := []string{"10-env.fish", "20-path.fish", "config.fish"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCheckScript(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		file     string
		src      string
		messages []string
	}{
		{"clean function", RoleFunction, "ll", "function ll\nls -l\nend\n", nil},
		{"wrong name", RoleFunction, "ll", "function la\nls -la\nend\n", []string{"autoloaded file does not define function 'll'"}},
		{"plain script needs no function", RoleScript, "ll", "echo hi\n", nil},
		{"syntax error", RoleConfig, "config", "if true\necho\n", []string{"Missing end to balance this if statement"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Script{Path: tt.file + ".fish", Role: tt.role, Name: tt.file}
			problems := CheckScript(s, tt.src)
			if len(problems) != len(tt.messages) {
				t.Fatalf("got %v, want %v", problems, tt.messages)
			}
			for i, pr := range problems {
				if got, want := pr.Error(), s.Path+": "+tt.messages[i]; got != want {
					t.Errorf("got %q, want %q", got, want)
				}
			}
		})
	}
}

func TestCheck(t *testing.T) {
	dir := setupConfigDir(t)
	writeFile(t, filepath.Join(dir, "functions", "broken.fish"), "function broken\necho 'oops\nend\n")
	writeFile(t, filepath.Join(dir, "conf.d", "quote.fish"), "echo 'oops\n")

	proj, err := LoadFrom(dir)
	if err != nil {
		t.Fatal(err)
	}
	problems, err := proj.Check()
	if err != nil {
		t.Fatal(err)
	}
	var missingEnd, quote *Problem
	for i := range problems {
		pr := &problems[i]
		switch filepath.Base(pr.Path) {
		case "broken.fish":
			if pr.Err != nil && strings.Contains(pr.Err.Text, "Missing end to balance this function definition") {
				missingEnd = pr
			}
		case "quote.fish":
			if pr.Err != nil && pr.Err.Code == parser.ErrorTokenizerUnterminatedQuote {
				quote = pr
			}
		default:
			t.Errorf("unexpected problem %s", pr.Error())
		}
	}
	if missingEnd == nil {
		t.Errorf("got %v, want the unbalanced function reported", problems)
	}
	if quote == nil {
		t.Fatalf("got %v, want an unterminated quote", problems)
	}
	if !strings.Contains(quote.Describe(), "echo 'oops") {
		t.Errorf("description lacks the source line: %q", quote.Describe())
	}
}
