package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrsinham/examforge/internal/config"
	"github.com/mrsinham/examforge/internal/dicom"
)

func generateCmd(root *rootOptions) *cobra.Command {
	var saveConfig string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an exam population",
		Long: `Generate an exam population from the configuration file, EXAMFORGE_*
environment variables and flags. The run is reproducible: the same
configuration and seed always produce the same files.`,
		Example: `  # 2 organizations into ./out with a fixed seed
  examforge generate --organizations 2 --seed 42

  # Use a configuration file and save the resolved configuration
  examforge generate -c examforge.yaml --save-config last-run.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithLogger(cmd, root, func(log zerolog.Logger) error {
				cfg, err := config.Load(root.configFile, cmd.Flags())
				if err != nil {
					return err
				}
				opts, err := cfg.Options()
				if err != nil {
					return err
				}
				opts.Logger = &log
				opts.Progress = func(p dicom.Progress) {
					log.Debug().
						Int("organization", p.Organization).
						Str("patient", p.PatientID).
						Str("accession", p.Accession).
						Int("files", p.Files).
						Msg("exam written")
				}

				metrics, err := dicom.GeneratePopulation(opts)
				if err != nil {
					return err
				}

				if saveConfig != "" {
					// Pin the seed actually used so the saved file reproduces this run.
					cfg.Seed = metrics.Seed
					if err := config.Save(cfg, saveConfig); err != nil {
						log.Warn().Err(err).Msg("could not save configuration")
					} else {
						log.Info().Str("path", saveConfig).Msg("configuration saved")
					}
				}

				if !root.quiet {
					fmt.Fprint(cmd.OutOrStdout(), renderSummary(metrics, opts.Settings.OutputRoot))
				}
				return nil
			})
		},
	}

	cmd.Flags().Int64("seed", 0, "seed for reproducibility (0 picks one from the clock)")
	cmd.Flags().StringP("output", "o", "", "output root directory")
	cmd.Flags().Int("organizations", 0, "number of organizations")
	cmd.Flags().String("naming", "", "instance file names: uid or simple")
	cmd.Flags().StringVar(&saveConfig, "save-config", "", "save the resolved configuration to this YAML file after generation")
	return cmd
}
