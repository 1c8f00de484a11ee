package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mixdoc/fixer"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the available rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range fixer.Describe() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", f.Name, f.Description)
			}
			return nil
		},
	}
}
