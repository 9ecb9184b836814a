// Package analysis orchestrates unused-method analysis: registry assembly,
// parsing, caching, and the analyzer itself, driven by configuration.
package analysis

import (
	"context"
	"encoding/json"
	"os"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/vestige-dev/vestige/internal/cache"
	"github.com/vestige-dev/vestige/internal/fileproc"
	"github.com/vestige-dev/vestige/pkg/analyzer/unused"
	"github.com/vestige-dev/vestige/pkg/attrs"
	"github.com/vestige-dev/vestige/pkg/config"
	"github.com/vestige-dev/vestige/pkg/csharp"
	"github.com/vestige-dev/vestige/pkg/hooks"
	"github.com/vestige-dev/vestige/pkg/parser"
	"github.com/vestige-dev/vestige/pkg/symbol"
)

const unusedCacheKey = "unused"

// Service orchestrates analysis passes.
type Service struct {
	config  *config.Config
	logger  *log.Logger
	hooks   *hooks.Set
	cache   *cache.Cache
	catalog *attrs.Catalog
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithHooks sets a pre-built hook set, bypassing registry assembly from
// configuration (for testing).
func WithHooks(set *hooks.Set) Option {
	return func(s *Service) {
		s.hooks = set
	}
}

// New creates an analysis service. Registry files named by the configuration
// are loaded here, so a bad registry path fails fast rather than mid-pass.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		config: config.LoadOrDefault(),
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "vestige"}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.hooks == nil {
		set, err := BuildHookSet(s.config)
		if err != nil {
			return nil, err
		}
		s.hooks = set
	}

	c, err := cache.New(s.config.Cache.Dir, s.config.Cache.TTL, s.config.Cache.Enabled)
	if err != nil {
		return nil, err
	}
	s.cache = c
	s.catalog = buildCatalog(s.config, s.logger)

	return s, nil
}

// Hooks returns the registry set in effect.
func (s *Service) Hooks() *hooks.Set {
	return s.hooks
}

// BuildHookSet assembles the registry set from configuration: embedded
// snapshots for builtin, platform, and deprecated unless a file path replaces
// them, plus any plugin registry files merged under the plugin origin.
func BuildHookSet(cfg *config.Config) (*hooks.Set, error) {
	sc := scoringFrom(cfg)

	defaults, err := hooks.DefaultSetWithScoring(sc)
	if err != nil {
		return nil, err
	}

	registries := []*hooks.Registry{
		defaults.Registry(hooks.OriginBuiltin),
		defaults.Registry(hooks.OriginPlatform),
		defaults.Registry(hooks.OriginDeprecated),
	}

	overrides := map[hooks.Origin]string{
		hooks.OriginBuiltin:    cfg.Registries.Builtin,
		hooks.OriginPlatform:   cfg.Registries.Platform,
		hooks.OriginDeprecated: cfg.Registries.Deprecated,
	}
	for i, r := range registries {
		path := overrides[r.Origin()]
		if path == "" {
			continue
		}
		loaded, err := hooks.LoadFile(path)
		if err != nil {
			return nil, err
		}
		registries[i] = loaded
	}

	if len(cfg.Registries.Plugin) > 0 {
		var plugin []*hooks.Registry
		for _, path := range cfg.Registries.Plugin {
			r, err := hooks.LoadFile(path)
			if err != nil {
				return nil, err
			}
			plugin = append(plugin, r)
		}
		registries = append(registries, hooks.Merge(hooks.OriginPlugin, plugin...))
	}

	return hooks.NewSet(registries, sc), nil
}

// scoringFrom maps the similarity configuration onto scoring constants,
// falling back to the defaults for zero-valued fields.
func scoringFrom(cfg *config.Config) hooks.Scoring {
	sc := hooks.DefaultScoring()
	sim := cfg.Similarity
	if sim.NameWeight > 0 {
		sc.NameWeight = sim.NameWeight
	}
	if sim.ParamWeight > 0 {
		sc.ParamWeight = sim.ParamWeight
	}
	if sim.Threshold > 0 {
		sc.Threshold = sim.Threshold
	}
	if sim.Limit > 0 {
		sc.Limit = sim.Limit
	}
	return sc
}

// buildCatalog extends the default attribute catalog with configured extras.
// Unknown kind names are logged and skipped rather than failing the pass.
func buildCatalog(cfg *config.Config, logger *log.Logger) *attrs.Catalog {
	catalog := attrs.NewCatalog()
	for name, kindName := range cfg.Attributes.Extra {
		kind, ok := attrs.ParseKind(kindName)
		if !ok {
			logger.Warn("unknown attribute kind in config", "attribute", name, "kind", kindName)
			continue
		}
		catalog.Add(name, kind)
	}
	return catalog
}

// UnusedOptions configures an unused-method pass.
type UnusedOptions struct {
	// NoCache forces a fresh pass even when a cached report matches.
	NoCache bool

	// OnProgress is invoked once per parsed file.
	OnProgress func()
}

// AnalyzeUnused runs the unused-method pass over the given files. A cached
// report is returned when the file contents and registry snapshots are
// unchanged since it was written.
func (s *Service) AnalyzeUnused(ctx context.Context, files []string, opts UnusedOptions) (*unused.Report, error) {
	fingerprint, err := cache.PassFingerprint(files, s.hooks.Fingerprint())
	if err != nil {
		return nil, err
	}

	if !opts.NoCache {
		if data, ok := s.cache.GetReport(unusedCacheKey, fingerprint); ok {
			var report unused.Report
			if err := json.Unmarshal(data, &report); err == nil {
				s.logger.Debug("cache hit", "files", len(files))
				return &report, nil
			}
			// A corrupt entry is replaced by the fresh pass below.
			s.logger.Warn("discarding unreadable cache entry")
		}
	}

	results := fileproc.MapFilesWithProgress(files, func(p *parser.Parser, path string) (*parser.ParseResult, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return p.ParseFile(path)
	}, opts.OnProgress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	prog := csharp.FromResults(results, s.catalog)
	s.logger.Debug("parsed program", "files", len(results), "methods", prog.DeclarationCount())

	report, err := unused.New(unused.WithHooks(s.hooks)).Analyze(ctx, prog)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(report); err == nil {
		if err := s.cache.SetReport(unusedCacheKey, fingerprint, data); err != nil {
			s.logger.Warn("failed to write cache", "err", err)
		}
	}

	return report, nil
}

// SimilarHooks ranks registry hooks against a hypothetical method signature.
// Backs the interactive lookup command; params are type names as written.
func (s *Service) SimilarHooks(name string, params []string) []hooks.Candidate {
	m := &symbol.Method{Name: name}
	for _, p := range params {
		m.Params = append(m.Params, symbol.ParseType(p))
	}
	return s.hooks.SimilarTo(m)
}

// ClearCache removes all cached reports.
func (s *Service) ClearCache() error {
	return s.cache.Clear()
}
