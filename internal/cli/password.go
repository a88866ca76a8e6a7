package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"avotrade/internal/cli/output"
	"avotrade/internal/services"
)

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash suitable for seeding an operator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			hash, err := services.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(output.Out, hash)
			return nil
		},
	}
}
