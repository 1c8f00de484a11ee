package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mixdoc/config"
	"github.com/dhamidi/mixdoc/lsp"
)

func newLSPCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			server := lsp.NewServer(version, cfg)
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: search upward for .mixdoc.toml or .mixdoc.yaml)")

	return cmd
}
