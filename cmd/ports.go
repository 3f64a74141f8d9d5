package cmd

import (
	"fmt"

	"github.com/icco/midireg/internal/midisource"
	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List the available MIDI inputs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer midisource.CloseDriver()

		names := midisource.Inputs()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), midisource.StatusUnavailable)
			return nil
		}
		for i, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
