package commands

import (
	"github.com/spf13/cobra"

	stripegen "github.com/arlyon/async-stripe-sub040"
	"github.com/arlyon/async-stripe-sub040/internal/cliutil"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cliutil.Writef(cmd.OutOrStdout(), "stripegen\n%s", stripegen.BuildInfo())
		},
	}
}
