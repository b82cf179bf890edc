// Package cli provides the command-line interface for toyquery.
package cli

import (
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/vegasq/toyquery/internal/config"
	"github.com/vegasq/toyquery/internal/dataset"
	"github.com/vegasq/toyquery/internal/logging"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// app carries what every subcommand needs once configuration is loaded
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  log.Logger
	loader  *dataset.FileLoader
}

// NewRootCmd creates and returns the root command. Without a subcommand it
// starts the interactive REPL.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "toyquery",
		Short: "toyquery - a tiny query engine over the world datasets",
		Long: `toyquery answers single-line queries over the city, country and language
datasets:

  FROM city.csv ORDERBY CityPop TAKE 10
  FROM city.csv JOIN country.csv CountryCode SELECT CityName,Continent

Run it without arguments for an interactive session.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runREPL(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./toyquery.yaml)")
	flags.String("data-dir", config.DefaultDataDir, "Directory holding the dataset files")
	flags.String("source", config.DefaultSource, "Dataset file format (auto|csv|parquet)")
	flags.StringP("format", "f", config.DefaultFormat, "Output format (csv|json|table|markdown)")
	flags.String("prompt", "", "REPL prompt")
	flags.String("history-file", "", "REPL history file (empty for no history)")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	flags.Bool("color", true, "Color error messages on terminals")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"csv", "json", "table", "markdown"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("source", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "csv", "parquet"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newREPLCommand(a))
	rootCmd.AddCommand(newQueryCommand(a))
	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// load resolves configuration and builds the logger and dataset loader
func (a *app) load(cmd *cobra.Command) error {
	cfg, used, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return err
	}
	if used != "" {
		level.Info(logger).Log("msg", "using config file", "path", used)
	}

	a.cfg = cfg
	a.logger = logger
	a.loader = dataset.NewFileLoader(cfg.DataDir, cfg.DatasetSource(), logger)
	return nil
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
