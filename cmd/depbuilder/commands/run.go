package commands

import (
	"github.com/spf13/cobra"

	"github.com/droidrun/depbuilder/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the installation phases from the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifestPath, _ := cmd.Flags().GetString("manifest")
			force, _ := cmd.Flags().GetBool("force")

			opts := app.RunOptions{
				ManifestPath: manifestPath,
				Force:        force,
			}
			if cmd.Flags().Changed("phase") {
				phase, _ := cmd.Flags().GetInt("phase")
				opts.Phase = &phase
			}

			return c.app.Run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringP("manifest", "m", "", "Path to the dependency manifest")
	cmd.Flags().IntP("phase", "p", 0, "Run a single phase index instead of all phases")
	cmd.Flags().BoolP("force", "f", false, "Rerun phases that already have a completion record")
	return cmd
}
