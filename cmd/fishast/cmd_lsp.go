package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/fishast/fish/codebase"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, a.cfg.Format.Indent)
			return server.RunStdio()
		},
	}
}
