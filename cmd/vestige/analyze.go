package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vestige-dev/vestige/internal/output"
	"github.com/vestige-dev/vestige/internal/progress"
	"github.com/vestige-dev/vestige/internal/service/analysis"
	scannerSvc "github.com/vestige-dev/vestige/internal/service/scanner"
	"github.com/vestige-dev/vestige/pkg/config"
	"github.com/vestige-dev/vestige/pkg/watch"
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze [path...]",
	Aliases: []string{"a"},
	Short:   "Find unused methods in plugin source",
	RunE:    runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("no-cache", false, "Disable caching")
	analyzeCmd.Flags().Bool("fail-on-findings", false, "Exit non-zero when unused methods are found")
	analyzeCmd.Flags().BoolP("watch", "w", false, "Re-run analysis when plugin sources change")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := analysis.New(
		analysis.WithConfig(cfg),
		analysis.WithLogger(newLogger()),
	)
	if err != nil {
		return err
	}

	findings, err := analyzeOnce(cmd, cfg, svc, args)
	if err != nil {
		return err
	}

	if watchMode, _ := cmd.Flags().GetBool("watch"); watchMode {
		return watchAndAnalyze(cmd, cfg, svc, args)
	}

	failOnFindings, _ := cmd.Flags().GetBool("fail-on-findings")
	if failOnFindings && findings > 0 {
		return fmt.Errorf("%d unused methods", findings)
	}
	return nil
}

// analyzeOnce runs one scan-analyze-render pass and returns the finding count.
func analyzeOnce(cmd *cobra.Command, cfg *config.Config, svc *analysis.Service, args []string) (int, error) {
	scanSvc := scannerSvc.New(scannerSvc.WithConfig(cfg))
	scanResult, err := scanSvc.ScanPaths(getPaths(args))
	if err != nil {
		return 0, err
	}

	if len(scanResult.Files) == 0 {
		color.Yellow("No plugin sources found")
		return 0, nil
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	tracker := progress.NewTracker("Analyzing plugins...", len(scanResult.Files))
	report, err := svc.AnalyzeUnused(cmd.Context(), scanResult.Files, analysis.UnusedOptions{
		NoCache:    noCache,
		OnProgress: tracker.Tick,
	})
	if err != nil {
		tracker.FinishError(err)
		return 0, fmt.Errorf("analysis failed: %w", err)
	}
	tracker.FinishSuccess()

	formatter, err := newFormatter(cmd, cfg)
	if err != nil {
		return 0, err
	}
	defer formatter.Close()

	if err := formatter.Output(&output.ReportView{Report: report}); err != nil {
		return 0, err
	}
	return len(report.Findings), nil
}

// watchAndAnalyze re-runs the pass whenever a plugin source under the first
// path settles after a change. Blocks until the command context is cancelled.
func watchAndAnalyze(cmd *cobra.Command, cfg *config.Config, svc *analysis.Service, args []string) error {
	root := getPaths(args)[0]
	watcher, err := watch.New(root, cfg, 0)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	watcher.SetCallback(func(path string) {
		color.Yellow("\nFile changed: %s", path)
		if _, err := analyzeOnce(cmd, cfg, svc, args); err != nil {
			color.Red("%v", err)
		}
	})

	color.Cyan("Watching for changes in %s...", root)
	if err := watcher.Start(cmd.Context()); err != nil && cmd.Context().Err() == nil {
		return err
	}
	return nil
}
