package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for vestige.
type Config struct {
	// Registry sources for known hook signatures
	Registries RegistryConfig `koanf:"registries" toml:"registries"`

	// Similarity scoring for hook suggestions
	Similarity SimilarityConfig `koanf:"similarity" toml:"similarity"`

	// Extra attribute spellings treated as analysis exemptions
	Attributes AttributeConfig `koanf:"attributes" toml:"attributes"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// RegistryConfig points at hook registry files layered over the embedded
// defaults. Paths are YAML or JSON registry documents.
type RegistryConfig struct {
	// Builtin, Platform, and Deprecated replace the embedded registry of
	// the same origin when set.
	Builtin    string `koanf:"builtin" toml:"builtin"`
	Platform   string `koanf:"platform" toml:"platform"`
	Deprecated string `koanf:"deprecated" toml:"deprecated"`

	// Plugin registries are additive: hooks exposed by other installed
	// plugins, each file contributing entries under the plugin origin.
	Plugin []string `koanf:"plugin" toml:"plugin"`
}

// SimilarityConfig tunes hook-suggestion scoring. Weights and threshold are
// deliberate constants with working defaults; exposing them keeps parity
// with toolchains that rank suggestions differently.
type SimilarityConfig struct {
	NameWeight  float64 `koanf:"name_weight" toml:"name_weight"`
	ParamWeight float64 `koanf:"param_weight" toml:"param_weight"`
	Threshold   float64 `koanf:"threshold" toml:"threshold"`
	Limit       int     `koanf:"limit" toml:"limit"`
}

// AttributeConfig adds attribute spellings to the exemption catalog.
// Keys are raw attribute names, values one of the canonical kinds
// (ChatCommand, ConsoleCommand, Command, HookMethod, Preserve).
type AttributeConfig struct {
	Extra map[string]string `koanf:"extra" toml:"extra"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color" toml:"color"`
	Verbose bool   `koanf:"verbose" toml:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Similarity: SimilarityConfig{
			NameWeight:  0.6,
			ParamWeight: 0.4,
			Threshold:   0.5,
			Limit:       5,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.Designer.cs",
				"*.generated.cs",
				"AssemblyInfo.cs",
			},
			Dirs: []string{
				"bin",
				"obj",
				".git",
				".vestige",
				"packages",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".vestige/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"vestige.toml",
		"vestige.yaml",
		"vestige.yml",
		"vestige.json",
		".vestige.toml",
		".vestige.yaml",
		".vestige.yml",
		".vestige.json",
	}

	searchDirs := []string{".", ".vestige"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
