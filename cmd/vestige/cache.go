package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vestige-dev/vestige/internal/service/analysis"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the analysis cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached reports",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
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

	if err := svc.ClearCache(); err != nil {
		return err
	}
	color.Green("Cache cleared")
	return nil
}
