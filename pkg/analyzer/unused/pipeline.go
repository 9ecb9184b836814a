package unused

import (
	"context"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"github.com/vestige-dev/vestige/pkg/csharp"
	"github.com/vestige-dev/vestige/pkg/hooks"
)

// Analyzer runs the unused-method decision pipeline over a program
// snapshot. One analyzer may serve many passes; each pass only reads the
// immutable snapshot and registry set it is given.
type Analyzer struct {
	hooks      *hooks.Set
	maxWorkers int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithHooks sets the hook registry set consulted for exemption and
// similarity suggestions.
func WithHooks(set *hooks.Set) Option {
	return func(a *Analyzer) {
		if set != nil {
			a.hooks = set
		}
	}
}

// WithMaxWorkers bounds scan parallelism. Values <= 0 select the default.
func WithMaxWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxWorkers = n
		}
	}
}

// New creates an unused-method analyzer. Without options it consults the
// embedded hook registries with default similarity scoring.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		maxWorkers: runtime.NumCPU() * 2,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.hooks == nil {
		set, err := hooks.DefaultSet()
		if err != nil {
			// Embedded registries are validated at build time; an empty
			// set keeps the analyzer total if that ever regresses.
			set = hooks.NewSet(nil, hooks.DefaultScoring())
		}
		a.hooks = set
	}
	return a
}

// Hooks returns the registry set this analyzer consults.
func (a *Analyzer) Hooks() *hooks.Set {
	return a.hooks
}

// Analyze runs one full pass: scan every file for usage evidence, then
// classify every declaration. The pass is a pure function of the snapshot
// and the registry set; unchanged inputs yield identical reports.
func (a *Analyzer) Analyze(ctx context.Context, prog Program) (*Report, error) {
	idx := newUsageIndex(prog)

	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(a.maxWorkers).WithContext(ctx)
	for _, f := range prog.Files() {
		p.Go(func(ctx context.Context) error {
			ev, err := scanFile(ctx, prog, f)
			if err != nil {
				return err
			}
			mu.Lock()
			idx.merge(ev)
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Files:               len(prog.Files()),
		RegistryFingerprint: a.hooks.Fingerprint(),
	}

	for _, d := range prog.Declarations() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		finding, ok := a.classify(d, idx)
		if ok {
			report.Findings = append(report.Findings, finding)
		}
	}

	sortFindings(report.Findings)
	report.Summary = a.summarize(prog, idx, report.Findings)
	return report, nil
}

// classify applies the decision states in strict order, terminal on first
// match: skip, used, command-like, hook similarity, plain unused. A panic
// inside one declaration's classification is contained so the rest of the
// pass proceeds.
func (a *Analyzer) classify(d *csharp.Declaration, idx *usageIndex) (finding Finding, ok bool) {
	var pc panics.Catcher
	pc.Try(func() {
		finding, ok = a.classifyDecl(d, idx)
	})
	if pc.Recovered() != nil {
		return Finding{}, false
	}
	return finding, ok
}

func (a *Analyzer) classifyDecl(d *csharp.Declaration, idx *usageIndex) (Finding, bool) {
	if a.shouldSkip(d) {
		return Finding{}, false
	}
	if idx.isUsed(d) {
		return Finding{}, false
	}

	m := d.Method
	finding := Finding{
		Method:    m.Name,
		Receiver:  m.Receiver.String(),
		Signature: m.Signature(),
		File:      m.Location.File,
		Line:      int(m.Location.Line),
		Column:    int(m.Location.Column),
	}

	// A method that looks like a command never receives hook suggestions,
	// even when a registry entry happens to be similar.
	if looksLikeCommand(m) {
		finding.Variant = VariantCommand
		return finding, true
	}

	if cands := a.hooks.SimilarTo(m); len(cands) > 0 {
		finding.Variant = VariantHookSuggestion
		finding.Suggestions = cands
		return finding, true
	}

	finding.Variant = VariantUnused
	return finding, true
}
