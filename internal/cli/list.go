package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpas-dev/compass/internal/machine"
)

// newListCommand lists the registered test cases, or machine profiles with
// --machines.
func newListCommand(opts *Options) *cobra.Command {
	var machines bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available test cases or machine profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if machines {
				fmt.Fprintln(out, "Machine profiles:")
				for _, name := range machine.ProfileNames() {
					fmt.Fprintf(out, "   %s\n", name)
				}
				return nil
			}

			fmt.Fprintln(out, "Test cases:")
			for i, tc := range opts.Suite.Cases() {
				fmt.Fprintf(out, "%4d: %s\n", i, tc.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&machines, "machines", false, "List machine profiles instead of test cases")
	return cmd
}
