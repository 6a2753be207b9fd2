package commands

import (
	"github.com/spf13/cobra"

	"github.com/droidrun/depbuilder/internal/app"
)

func (c *CLI) newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear phase completion records so phases run again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := app.ResetOptions{}
			if cmd.Flags().Changed("phase") {
				phase, _ := cmd.Flags().GetInt("phase")
				opts.Phase = &phase
			}
			return c.app.Reset(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntP("phase", "p", 0, "Reset a single phase index instead of all state")
	return cmd
}
