package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	jsonregister "github.com/telicent-oss/go-json-register"
	"github.com/telicent-oss/go-json-register/jsonval"
)

// NewRegisterCommand registers JSON documents read from stdin, one per
// line, and prints the assigned id for each.
func NewRegisterCommand(opts *RootOptions) *cobra.Command {
	var (
		batch bool
		init  bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register newline-delimited JSON documents and print their ids",
		Long: `Register reads one JSON document per line from stdin, registers
each against the configured store and prints the assigned id, one per
line in input order. With --batch all documents are registered in a
single round trip.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(opts.ConfigPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			reg, err := jsonregister.New(ctx, cfg, jsonregister.WithLogger(opts.Logger()))
			if err != nil {
				return err
			}
			defer reg.Close()

			if init {
				if err := reg.EnsureSchema(ctx); err != nil {
					return err
				}
			}

			var values []jsonval.Value
			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				val, err := jsonval.Parse([]byte(line))
				if err != nil {
					return fmt.Errorf("line %d: %w", len(values)+1, err)
				}
				values = append(values, val)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			out := cmd.OutOrStdout()
			if batch {
				ids, err := reg.RegisterBatchObjects(ctx, values)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			}

			for _, val := range values {
				id, err := reg.RegisterObject(ctx, val)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&batch, "batch", false, "register all documents in a single round trip")
	cmd.Flags().BoolVar(&init, "init", false, "create the table and index before registering")
	return cmd
}
