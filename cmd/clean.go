package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tanq16/gribdl/internal/output"
	"github.com/tanq16/gribdl/internal/utils"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove partial downloads left in the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := utils.CleanTemp(settings.OutputDir)
			if err != nil {
				return fmt.Errorf("error cleaning up temporary files: %w", err)
			}
			logger.Debug().Str("op", "cmd/clean").Msgf("Removed %d entries from %s", n, utils.TempDir(settings.OutputDir))
			output.PrintSuccess(fmt.Sprintf("Temporary files cleaned up (%d removed)", n))
			return nil
		},
	}
}
