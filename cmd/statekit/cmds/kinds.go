package cmds

import (
	"github.com/spf13/cobra"
)

func newKindsCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the action kinds understood by the reducer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeRows(cmd.Context(), cmd.OutOrStdout(), output, kindRows()...)
		},
	}
	addOutputFlag(cmd.Flags(), &output, outputTable)
	return cmd
}
