package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string
	LogFile    string

	// Config is the resolved configuration: the --config file (or the
	// schema defaults) with flag overrides applied. Set before any
	// subcommand runs.
	Config *config.Config

	logCloser io.Closer
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pulsenet CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pulsenet",
		Short: "pulsenet - pulse propagation simulator",
		Long: `Simulate pulse propagation through networks of flip-flops and
conjunctions, and find the period of each strongly connected subsystem.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.teardown()
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.ConfigPath, "config", "", "path to CUE run configuration")
	pf.StringVar(&opts.Database, "db", "", "path to SQLite run history (overrides config)")
	pf.StringVar(&opts.LogFile, "log-file", "", "also write JSON logs to this file (overrides config)")

	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewPeriodCommand(opts))
	cmd.AddCommand(NewComponentsCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}

// setup resolves the configuration and installs the logger.
func (opts *RootOptions) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if opts.LogFile != "" {
		cfg.LogFile = opts.LogFile
	}
	opts.Config = cfg

	logger, closer, err := newLogger(cmd.ErrOrStderr(), opts.Verbose, cfg.LogFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open log file", err)
	}
	opts.logCloser = closer
	slog.SetDefault(logger)
	return nil
}

func (opts *RootOptions) teardown() error {
	if opts.logCloser == nil {
		return nil
	}
	err := opts.logCloser.Close()
	opts.logCloser = nil
	return err
}

// formatter returns an output formatter bound to cmd's writers.
func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
