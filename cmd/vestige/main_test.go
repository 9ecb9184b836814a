package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/vestige-dev/vestige/pkg/analyzer/unused"
	"github.com/vestige-dev/vestige/pkg/config"
	"github.com/vestige-dev/vestige/pkg/hooks"
)

func TestGetPaths(t *testing.T) {
	if got := getPaths(nil); len(got) != 1 || got[0] != "." {
		t.Errorf("getPaths(nil) = %v, want [.]", got)
	}
	if got := getPaths([]string{"a", "b"}); len(got) != 2 {
		t.Errorf("getPaths = %v, want [a b]", got)
	}
}

// writeConfig points the cache at a temp directory so test runs don't write
// into the working tree.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "vestige.toml")
	content := fmt.Sprintf("[cache]\nenabled = true\ndir = %q\nttl = 24\n", filepath.Join(dir, "cache"))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzeCommandJSON(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := writeConfig(t, tmpDir)
	outPath := filepath.Join(tmpDir, "report.json")

	src := filepath.Join(tmpDir, "MyPlugin.cs")
	plugin := "class MyPlugin\n{\n    void Init() { }\n    void DoStuffNobodyCalls() { }\n}\n"
	if err := os.WriteFile(src, []byte(plugin), 0644); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{"analyze", tmpDir, "--config", cfgPath, "--format", "json", "--output", outPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var report unused.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if len(report.Findings) != 1 || report.Findings[0].Method != "DoStuffNobodyCalls" {
		t.Errorf("findings = %+v, want DoStuffNobodyCalls", report.Findings)
	}
}

func TestHooksSimilarCommandJSON(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := writeConfig(t, tmpDir)
	outPath := filepath.Join(tmpDir, "similar.json")

	rootCmd.SetArgs([]string{"hooks", "similar", "OnPlayerConnectd", "BasePlayer",
		"--config", cfgPath, "--format", "json", "--output", outPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("hooks similar failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	var candidates []hooks.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(candidates) == 0 || candidates[0].Name != "OnPlayerConnected" {
		t.Errorf("candidates = %+v, want OnPlayerConnected first", candidates)
	}
}

func TestInitCommandRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "vestige.toml")

	rootCmd.SetArgs([]string{"init", "-o", cfgPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Similarity.Threshold != 0.5 || cfg.Similarity.Limit != 5 {
		t.Errorf("similarity defaults lost in round trip: %+v", cfg.Similarity)
	}
	if cfg.Cache.Dir != ".vestige/cache" {
		t.Errorf("cache dir = %q, want .vestige/cache", cfg.Cache.Dir)
	}

	rootCmd.SetArgs([]string{"init", "-o", cfgPath})
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error when config already exists without --force")
	}
}

func TestHooksListUnknownOrigin(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := writeConfig(t, tmpDir)

	rootCmd.SetArgs([]string{"hooks", "list", "--origin", "cosmic", "--config", cfgPath})
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for unknown origin")
	}
}
