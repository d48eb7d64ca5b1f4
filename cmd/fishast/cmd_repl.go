package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/dhamidi/fishast/fish/parser"
	"github.com/dhamidi/fishast/format"
)

const (
	historyFile = ".fishast_history"
	promptMain  = "fish> "
	promptCont  = "  ... "
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse fish input interactively",
		Long: `Read fish input line by line and show how it parses.

Input continues on the next line while it is incomplete, for example inside
an unterminated block or quote. Commands:

  :dump    print the syntax tree (default)
  :json    print the tree as JSON
  :fmt     print the formatted script
  :quit    leave`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd.OutOrStdout(), a)
		},
	}
}

type replSession struct {
	flags  parser.ParseFlags
	indent int
	mode   string
}

func runRepl(out io.Writer, a *app) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetMultiLineMode(true)

	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}

	rs := &replSession{flags: a.cfg.ParseFlags(), indent: a.cfg.Format.Indent, mode: "dump"}
	for {
		src, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(out)
			break
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if cmd, isCmd := strings.CutPrefix(strings.TrimSpace(src), ":"); isCmd {
			if cmd == "quit" || cmd == "q" {
				break
			}
			if err := rs.setMode(cmd); err != nil {
				fmt.Fprintln(out, errorStyle.Render(err.Error()))
			}
			continue
		}
		fmt.Fprint(out, rs.eval(src))
	}

	if f, err := os.Create(histPath); err == nil {
		ln.WriteHistory(f)
		f.Close()
	}
	return nil
}

// readInput reads lines until they form a complete script. It reports false
// at end of input.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !parser.IsIncomplete(b.String()) {
			return b.String(), true
		}
	}
}

func (rs *replSession) setMode(cmd string) error {
	switch cmd {
	case "dump", "json", "fmt":
		rs.mode = cmd
		return nil
	}
	return fmt.Errorf("unknown command :%s", cmd)
}

// eval parses src and renders it in the current mode. Syntax errors are
// rendered instead of the tree.
func (rs *replSession) eval(src string) string {
	var errs parser.ErrorList
	ast := parser.Parse(src, rs.flags, &errs)
	if ast.Errored() {
		var b strings.Builder
		for _, e := range errs.Sorted() {
			b.WriteString(renderError("", src, e))
			b.WriteString("\n")
		}
		return b.String()
	}

	switch rs.mode {
	case "json":
		var b strings.Builder
		if err := format.NewASTJSONEncoder(&b).Encode(ast, src); err != nil {
			return errorStyle.Render(err.Error()) + "\n"
		}
		return b.String() + "\n"
	case "fmt":
		formatted, err := format.PrettyPrintFish([]byte(src), rs.indent)
		if err != nil {
			return errorStyle.Render(err.Error()) + "\n"
		}
		return string(formatted)
	default:
		return ast.Dump(src)
	}
}
