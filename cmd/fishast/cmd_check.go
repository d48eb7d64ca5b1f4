package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/fishast/project"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Report syntax errors in fish scripts and configuration directories",
		Long: `Check fish scripts for syntax errors.

Each path is a script, "-" for standard input, or a fish configuration
directory such as ~/.config/fish. In a directory, files under functions/
must also define the function they are named after.

Without arguments the current directory is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			var problems []project.Problem
			files := 0
			for _, path := range args {
				found, n, err := checkPath(cmd.InOrStdin(), path)
				if err != nil {
					return err
				}
				problems = append(problems, found...)
				files += n
			}

			out := cmd.OutOrStdout()
			writeProblems(out, problems)
			if len(problems) > 0 {
				return fmt.Errorf("%d problems in %d files", len(problems), files)
			}
			fmt.Fprintln(out, summaryStyle.Render(fmt.Sprintf("%d files checked, no problems", files)))
			return nil
		},
	}

	return cmd
}

// checkPath checks one argument and returns its problems and the number of
// scripts it covered.
func checkPath(stdin io.Reader, path string) ([]project.Problem, int, error) {
	if path != "-" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, 0, fmt.Errorf("check: %w", err)
		}
		if info.IsDir() {
			proj, err := project.LoadFrom(path)
			if err != nil {
				return nil, 0, err
			}
			problems, err := proj.Check()
			return problems, len(proj.Scripts), err
		}
	}

	data, err := readSource(stdin, path)
	if err != nil {
		return nil, 0, err
	}
	script := &project.Script{
		Path: path,
		Role: project.RoleScript,
		Name: strings.TrimSuffix(filepath.Base(path), ".fish"),
	}
	return project.CheckScript(script, string(data)), 1, nil
}

func writeProblems(w io.Writer, problems []project.Problem) {
	for _, pr := range problems {
		if pr.Err != nil {
			fmt.Fprintln(w, renderError(pr.Path, pr.Source, pr.Err))
		} else {
			fmt.Fprintln(w, renderMessage(pr.Path, pr.Message))
		}
	}
}
