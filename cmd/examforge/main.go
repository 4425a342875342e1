package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags
var version = "dev"

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configFile string
	logLevel   string
	logFormat  string
	quiet      bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "examforge",
		Short: "Generate synthetic DICOM exam populations",
		Long: `examforge generates reproducible populations of synthetic DICOM exams:
organizations, patients, multi-modality exams, series and instances, laid out
on disk for load and integration testing of imaging platforms.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "configuration file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "console", "log format: console or json")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "only log warnings and errors")

	root.AddCommand(generateCmd(opts))
	root.AddCommand(validateCmd(opts))
	root.AddCommand(initCmd(opts))
	root.AddCommand(versionCmd())

	// Flag errors happen before any logger exists.
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		fmt.Fprintf(stderr, "Error: %v\n\n%s", err, cmd.UsageString())
		return err
	})
	return root
}

// newLogger builds the process logger from the shared flags.
func newLogger(opts *rootOptions, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.logLevel))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid --log-level %q: %w", opts.logLevel, err)
	}
	if opts.quiet && level < zerolog.WarnLevel {
		level = zerolog.WarnLevel
	}

	var out io.Writer
	switch opts.logFormat {
	case "json":
		out = w
	case "console", "":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid --log-format %q (valid: console, json)", opts.logFormat)
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// runWithLogger builds the logger and runs fn, logging its error.
func runWithLogger(cmd *cobra.Command, opts *rootOptions, fn func(log zerolog.Logger) error) error {
	log, err := newLogger(opts, cmd.ErrOrStderr())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	if err := fn(log); err != nil {
		log.Error().Err(err).Msg(cmd.Name() + " failed")
		return err
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the examforge version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "examforge %s\n", version)
		},
	}
}
