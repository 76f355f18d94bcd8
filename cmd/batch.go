package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/tanq16/gribdl/internal/config"
	"github.com/tanq16/gribdl/internal/utils"
)

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [YAML_FILE]",
		Short: "Run every product listed in a YAML file (or in --config)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := settings.Products
			if len(args) == 1 {
				path, err := utils.ExpandPath(args[0])
				if err != nil {
					return err
				}
				file, err := config.LoadFromFile(path)
				if err != nil {
					return err
				}
				entries = file.Products
			}
			if len(entries) == 0 {
				return errors.New("no products found in the batch file")
			}
			logger.Info().Str("op", "cmd/batch").Msgf("Running %d products", len(entries))
			return runEntries(cmd.Context(), entries)
		},
	}
}
