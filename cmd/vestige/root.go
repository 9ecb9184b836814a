package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vestige-dev/vestige/pkg/config"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "vestige",
	Short: "Unused-method analysis for event-driven plugin code",
	Long: `Vestige finds methods in plugin source that nothing calls: not the
framework (via its hook conventions), not a command registration, and not
other code. Near-misses of known hook names are reported with ranked
suggestions instead of a bare "unused".`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringP("format", "f", "", "Output format: text, json, markdown, toon")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Write output to file")
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadOrDefault(), nil
}

// newLogger builds the diagnostic logger honoring --verbose.
func newLogger() *log.Logger {
	opts := log.Options{Prefix: "vestige"}
	if verbose {
		opts.Level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, opts)
}
