package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/arnavsurve/slangc/internal/compiler"
	"github.com/arnavsurve/slangc/internal/config"
	"github.com/arnavsurve/slangc/internal/logging"
)

// Version is set at build time.
var Version = "0.1.0"

// ErrCheckFailed is returned when at least one file has errors. The
// diagnostics have already been printed.
var ErrCheckFailed = errors.New("compilation failed")

// configKey is used to store the loaded config in the command context.
type configKey struct{}

// NewRootCmd builds the command tree with fresh flag state.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "slangc",
		Short: "slangc: front end for the slang language",
		Long: `slangc parses and analyzes slang (.sl) source files and reports their
symbol tables.

Commands:
  check    Parse and analyze source files, printing diagnostics
  symbols  Print the symbol table of a source file
  init     Scaffold a new slang project
  version  Print the slangc version
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			cfg, used, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			logger, err := logging.New(cmd.ErrOrStderr(), level, cfg.LogFormat)
			if err != nil {
				return err
			}
			logger.Debug("config loaded", "file", used, "output", cfg.Output, "jobs", cfg.Jobs)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)
			cmd.SetContext(logging.WithLogger(ctx, logger))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./slangc.yaml)")
	flags.StringP("output", "o", config.DefaultOutput, "symbol output format (table|json|yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (debug logging)")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (text|json)")
	flags.IntP("jobs", "j", config.DefaultJobs, "files compiled in parallel")
	flags.Bool("no-fold", false, "disable constant folding")
	flags.Bool("warn-shadowing", true, "warn when a declaration shadows an outer one")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.OutputFormats, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newCheckCmd(), newSymbolsCmd(), newInitCmd(), newVersionCmd())
	return rootCmd
}

func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		return err
	}
	return nil
}

// configFrom returns the config loaded by the root command.
func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

func compileOptions(cmd *cobra.Command, cfg *config.Config) compiler.Options {
	return compiler.Options{
		Extension:     cfg.SourceExt,
		FoldConstants: cfg.FoldConstants,
		WarnShadowing: cfg.WarnShadowing,
		Jobs:          cfg.Jobs,
		Logger:        logging.FromContext(cmd.Context()),
	}
}
