package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/fishast/fish/parser"
	"github.com/dhamidi/fishast/format"
)

func newParseCmd(a *app) *cobra.Command {
	var outputFormat string
	var includeComments bool
	var continueAfterError bool
	var argumentList bool

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a fish script and print its syntax tree",
		Long: `Parse a fish script and print its syntax tree.

Reads standard input when no file or "-" is given. Syntax errors are
written to standard error and make the command fail.

Formats: dump (indented node kinds), json, yaml, line (one node per line).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := argOrStdin(args)
			data, err := readSource(cmd.InOrStdin(), name)
			if err != nil {
				return err
			}
			src := string(data)

			flags := a.cfg.ParseFlags()
			if includeComments {
				flags |= parser.IncludeComments
			}
			if continueAfterError {
				flags |= parser.ContinueAfterError
			}

			var errs parser.ErrorList
			var ast *parser.Ast
			if argumentList {
				ast = parser.ParseArgumentList(src, flags, &errs)
			} else {
				ast = parser.Parse(src, flags, &errs)
			}

			out := cmd.OutOrStdout()
			var encoder format.Encoder
			switch outputFormat {
			case "dump":
				fmt.Fprint(out, ast.Dump(src))
			case "json":
				enc := format.NewASTJSONEncoder(out)
				enc.Errors = errs
				encoder = enc
			case "yaml":
				enc := format.NewASTYAMLEncoder(out)
				enc.Errors = errs
				encoder = enc
			case "line":
				encoder = format.NewLineEncoder(out)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			if encoder != nil {
				if err := encoder.Encode(ast, src); err != nil {
					return fmt.Errorf("encode %s: %w", outputFormat, err)
				}
				if outputFormat == "json" {
					fmt.Fprintln(out)
				}
			}

			if ast.Errored() {
				for _, e := range errs.Sorted() {
					fmt.Fprintln(cmd.ErrOrStderr(), renderError(name, src, e))
				}
				return fmt.Errorf("%s: %d syntax errors", name, len(errs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dump", "output format (dump, json, yaml, line)")
	cmd.Flags().BoolVar(&includeComments, "comments", false, "record comments in the tree")
	cmd.Flags().BoolVar(&continueAfterError, "continue", false, "keep parsing after a syntax error")
	cmd.Flags().BoolVar(&argumentList, "args", false, "parse the input as a freestanding argument list")

	return cmd
}
