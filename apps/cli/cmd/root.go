package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "restquery",
	Short: "Execute REST datasource queries from the command line",
	Long: `restquery materializes a REST query from a datasource configuration,
a query configuration, and runtime parameters, executes it with bounded
redirect following and digest renegotiation, and prints the typed result.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// cliLogger returns a console logger honoring the --verbose flag.
func cliLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
