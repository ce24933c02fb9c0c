package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/telicent-oss/go-json-register/jsonval"
)

// NewCanonCommand canonicalises a JSON document and prints the result.
func NewCanonCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "canon [JSON]",
		Short: "Print the canonical form of a JSON document",
		Long: `Canon parses a JSON document, given as an argument or on stdin,
and prints its canonical serialisation: object keys sorted, no
insignificant whitespace, shortest round-trip number formatting.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input []byte
			if len(args) == 1 {
				input = []byte(args[0])
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				input = data
			}

			val, err := jsonval.Parse(input)
			if err != nil {
				return err
			}
			canonical, err := jsonval.Canonicalise(val)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), canonical)
			return nil
		},
	}
}
