package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show per-phase completion state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifestPath, _ := cmd.Flags().GetString("manifest")
			return c.app.Progress(cmd.Context(), cmd.OutOrStdout(), manifestPath)
		},
	}
	cmd.Flags().StringP("manifest", "m", "", "Path to the dependency manifest")
	return cmd
}
