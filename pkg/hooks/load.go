package hooks

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/vestige-dev/vestige/pkg/symbol"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml data/registry.schema.json
var embedded embed.FS

// registryFile is the on-disk registry format, shared by YAML and JSON.
type registryFile struct {
	Origin   string              `yaml:"origin" json:"origin"`
	Hooks    []hookEntry         `yaml:"hooks" json:"hooks"`
	Variants map[string][]string `yaml:"variants,omitempty" json:"variants,omitempty"`
}

type hookEntry struct {
	Name   string   `yaml:"name" json:"name"`
	Params []string `yaml:"params,omitempty" json:"params,omitempty"`
	Owner  string   `yaml:"owner,omitempty" json:"owner,omitempty"`
}

// LoadFile reads a registry snapshot from a YAML or JSON file. JSON files are
// validated against the embedded registry schema before parsing.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseJSON(path, data)
	default:
		return parseYAML(path, data)
	}
}

func parseYAML(path string, data []byte) (*Registry, error) {
	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return rf.build(path)
}

func parseJSON(path string, data []byte) (*Registry, error) {
	if err := validateJSON(path, data); err != nil {
		return nil, err
	}
	var rf registryFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return rf.build(path)
}

func validateJSON(path string, data []byte) error {
	schemaData, err := embedded.ReadFile("data/registry.schema.json")
	if err != nil {
		return err
	}
	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaData))
	if err != nil {
		return err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("registry.schema.json", schemaDoc); err != nil {
		return err
	}
	schema, err := compiler.Compile("registry.schema.json")
	if err != nil {
		return err
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse registry %s: %w", path, err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("invalid registry %s: %w", path, err)
	}
	return nil
}

func (rf registryFile) build(path string) (*Registry, error) {
	origin, ok := ParseOrigin(rf.Origin)
	if !ok {
		return nil, fmt.Errorf("registry %s: unknown origin %q", path, rf.Origin)
	}
	entries := make([]Signature, 0, len(rf.Hooks))
	for _, h := range rf.Hooks {
		// Nil, not empty, for parameterless hooks; signatures must
		// survive a serialization round trip unchanged.
		var params []symbol.TypeRef
		for _, p := range h.Params {
			params = append(params, symbol.ParseType(p))
		}
		entries = append(entries, Signature{
			Name:       h.Name,
			Params:     params,
			OriginName: h.Owner,
		})
	}
	return NewRegistry(origin, entries, rf.Variants), nil
}

// loadEmbedded parses one of the shipped registry files.
func loadEmbedded(name string) (*Registry, error) {
	data, err := embedded.ReadFile("data/" + name)
	if err != nil {
		return nil, err
	}
	return parseYAML(name, data)
}

// DefaultSet returns the shipped builtin, platform, and deprecated registry
// snapshots plus an empty plugin registry, with default scoring.
func DefaultSet() (*Set, error) {
	return DefaultSetWithScoring(DefaultScoring())
}

// DefaultSetWithScoring is DefaultSet with caller-provided scoring constants.
func DefaultSetWithScoring(sc Scoring) (*Set, error) {
	var registries []*Registry
	for _, name := range []string{"builtin.yaml", "platform.yaml", "deprecated.yaml"} {
		r, err := loadEmbedded(name)
		if err != nil {
			return nil, fmt.Errorf("embedded registry %s: %w", name, err)
		}
		registries = append(registries, r)
	}
	return NewSet(registries, sc), nil
}
