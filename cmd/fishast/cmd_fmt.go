package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/fishast/format"
)

func newFmtCmd(a *app) *cobra.Command {
	var fmtOverwrite bool
	var indent int

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Pretty-print a .fish file, preserving comments",
		Long: `Pretty-print a .fish file to stdout.

If a file is provided, it must have a .fish extension.
If no file is provided, reads fish source from stdin.

Use -w to overwrite the file in place (requires a file argument).
Scripts with syntax errors are left untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filename string
			if len(args) == 0 {
				if fmtOverwrite {
					return fmt.Errorf("-w requires a file argument")
				}
			} else {
				filename = args[0]
				if ext := filepath.Ext(filename); ext != ".fish" {
					return fmt.Errorf("expected .fish file, got %s", ext)
				}
			}
			source, err := readSource(cmd.InOrStdin(), filename)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("indent") {
				indent = a.cfg.Format.Indent
			}
			output, err := format.PrettyPrintFish(source, indent)
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}

			if fmtOverwrite {
				return os.WriteFile(filename, output, 0644)
			}
			_, err = cmd.OutOrStdout().Write(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().IntVar(&indent, "indent", 4, "spaces per nesting level (default from config)")

	return cmd
}
