package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrsinham/examforge/internal/config"
)

func validateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration without generating anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithLogger(cmd, root, func(log zerolog.Logger) error {
				cfg, err := config.Load(root.configFile, nil)
				if err != nil {
					return err
				}
				if _, err := cfg.Options(); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), renderConfig(cfg))
				log.Info().Msg("configuration is valid")
				return nil
			})
		},
	}
}
