package main

import (
	"github.com/spf13/cobra"

	"github.com/vestige-dev/vestige/internal/output"
	"github.com/vestige-dev/vestige/pkg/config"
)

// getPaths returns paths from args, defaulting to ["."]
func getPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

// newFormatter builds the output formatter from flags, letting the config
// supply defaults for format and color.
func newFormatter(cmd *cobra.Command, cfg *config.Config) (*output.Formatter, error) {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Output.Format
	}

	if outputFile, _ := cmd.Flags().GetString("output"); outputFile != "" {
		return output.NewFile(output.ParseFormat(format), outputFile)
	}

	return output.New(
		output.WithFormat(output.ParseFormat(format)),
		output.WithColor(cfg.Output.Color && !noColor),
	), nil
}
