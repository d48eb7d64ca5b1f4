package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/fishast/fish/tokenizer"
)

func newTokensCmd(a *app) *cobra.Command {
	var showComments bool
	var showBlankLines bool

	cmd := &cobra.Command{
		Use:   "tokens [file|-]",
		Short: "List the tokens of a fish script",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readSource(cmd.InOrStdin(), argOrStdin(args))
			if err != nil {
				return err
			}

			flags := tokenizer.ContinueAfterError | tokenizer.AcceptUnfinished
			if showComments {
				flags |= tokenizer.ShowComments
			}
			if showBlankLines {
				flags |= tokenizer.ShowBlankLines
			}
			writeTokens(cmd.OutOrStdout(), string(data), tokenizer.Tokens(string(data), flags))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showComments, "comments", false, "include comment tokens")
	cmd.Flags().BoolVar(&showBlankLines, "blank-lines", false, "report every newline as an end token")

	return cmd
}

// writeTokens prints one token per line: offset, length, type and text.
// Error tokens carry their message instead of the text.
func writeTokens(w io.Writer, src string, toks []tokenizer.Token) {
	for _, tok := range toks {
		if tok.Type == tokenizer.TokenError {
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", tok.Offset, tok.Length, tok.Type, tok.Error.Message())
			continue
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%q\n", tok.Offset, tok.Length, tok.Type, tok.Text(src))
	}
}
