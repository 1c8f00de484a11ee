package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mixdoc/format"
	"github.com/dhamidi/mixdoc/php/token"
)

func newTokensCmd() *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Dump the token stream of a PHP file",
		Long: `Dump the token stream of a PHP file, after the type colon and
nullable type transforms, one token per line or as JSON.

If no file is provided, reads PHP source from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			filename := "stdin"

			if len(args) == 0 {
				source, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				source, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			encoder, ok := format.New(outputFormat, cmd.OutOrStdout(), includePositions)
			if !ok {
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			toks, err := token.FromSource(source, filename)
			if err != nil {
				return fmt.Errorf("tokenize: %w", err)
			}
			if err := encoder.Encode(toks); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text or json")
	cmd.Flags().BoolVarP(&includePositions, "positions", "p", false, "include source positions")

	return cmd
}
