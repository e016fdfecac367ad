package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:          "pixdex",
	Short:        "pixdex: color and landmark index for an image corpus",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `pixdex classifies every image of a catalog against a 12-color palette,
persists a per-landmark, per-color ranking once, and answers keyword and
color queries from it.

Configuration lives in ~/.pixdex/pixdex.yaml (see 'pixdex init').`,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (default ~/.pixdex/pixdex.yaml)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error, off")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: console or json")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
