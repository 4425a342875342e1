package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrsinham/examforge/cmd/examforge/wizard"
	"github.com/mrsinham/examforge/internal/config"
)

func initCmd(root *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a configuration file interactively",
		Long: `Create a configuration file with an interactive form. The form starts
from the defaults, or from the file given with --config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "examforge.yaml"
			if len(args) == 1 {
				path = args[0]
			}

			return runWithLogger(cmd, root, func(log zerolog.Logger) error {
				if _, err := os.Stat(path); err == nil && !force {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}

				base, err := config.Load(root.configFile, nil)
				if err != nil {
					return err
				}
				cfg, err := wizard.Run(*base)
				if err != nil {
					return err
				}
				if err := config.Save(&cfg, path); err != nil {
					return err
				}
				log.Info().Str("path", path).Msg("configuration written")
				fmt.Fprintf(cmd.OutOrStdout(), "Run it with: examforge generate --config %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
