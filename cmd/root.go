package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pylens/pylens/analyze"
	"github.com/pylens/pylens/formatter"
)

var (
	cfgFile    string
	timeout    time.Duration
	jsonOutput bool
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "pylens [paths...]",
	Short:            "pylens - analyze and rewrite Python syntax trees",
	TraverseChildren: true, // Prioritize subcommands
	// Flags are parsed by now, so --verbose can pick the logger.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// no subcommand
		if len(args) == 0 {
			return cmd.Help()
		}
		// Format: pylens [path1 path2 ...] => behaves like the analyze subcommand
		return analyzeCmd.RunE(analyzeCmd, args)
	},
}

func Execute() error {
	defer func() {
		if logger != nil {
			logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func setupLogger() error {
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "timeout for the whole run")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(exportCmd)
}

func newEngine() (*analyze.Engine, error) {
	config, err := analyze.LoadConfigOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}
	return analyze.New(config, analyze.WithLogger(logger))
}

func outputFormat() formatter.Format {
	if jsonOutput {
		return formatter.FormatJSON
	}
	return formatter.FormatText
}
