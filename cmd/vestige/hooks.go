package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vestige-dev/vestige/internal/output"
	"github.com/vestige-dev/vestige/internal/service/analysis"
	"github.com/vestige-dev/vestige/pkg/hooks"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Inspect the hook registries in effect",
}

var hooksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known hook signatures",
	RunE:  runHooksList,
}

var hooksSimilarCmd = &cobra.Command{
	Use:   "similar <name> [param...]",
	Short: "Rank known hooks by similarity to a method signature",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHooksSimilar,
}

func init() {
	hooksListCmd.Flags().String("origin", "", "Only one registry: builtin, plugin, platform, deprecated")

	hooksCmd.AddCommand(hooksListCmd)
	hooksCmd.AddCommand(hooksSimilarCmd)
	rootCmd.AddCommand(hooksCmd)
}

func runHooksList(cmd *cobra.Command, args []string) error {
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

	origins := hooks.Origins
	if name, _ := cmd.Flags().GetString("origin"); name != "" {
		origin, ok := hooks.ParseOrigin(name)
		if !ok {
			return fmt.Errorf("unknown origin %q", name)
		}
		origins = []hooks.Origin{origin}
	}

	registries := make([]*hooks.Registry, 0, len(origins))
	for _, o := range origins {
		registries = append(registries, svc.Hooks().Registry(o))
	}

	formatter, err := newFormatter(cmd, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(&output.RegistryView{Registries: registries})
}

func runHooksSimilar(cmd *cobra.Command, args []string) error {
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

	name, params := args[0], args[1:]
	candidates := svc.SimilarHooks(name, params)

	formatter, err := newFormatter(cmd, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(&output.CandidateView{Query: name, Candidates: candidates})
}
