package unused

import (
	"strings"

	"github.com/vestige-dev/vestige/pkg/csharp"
	"github.com/vestige-dev/vestige/pkg/symbol"
)

// shouldSkip pre-filters declarations before any usage scan is consulted.
// Constructors, accessors, and operators are invoked structurally;
// exempting attributes mark framework-dispatched handlers; signatures the
// registries already recognize as hooks are called by convention.
func (a *Analyzer) shouldSkip(d *csharp.Declaration) bool {
	m := d.Method
	if m == nil {
		// No binding for the declaration; do not crash the pass over it.
		return true
	}
	if m.Kind != symbol.KindOrdinary {
		return true
	}
	for _, k := range d.Attributes {
		if k.Exempts() {
			return true
		}
	}
	return a.hooks.IsKnownHook(m)
}

// looksLikeCommand flags methods whose name suggests a command handler.
// Attribute-marked commands never reach this check; the skip policy has
// already exempted them.
func looksLikeCommand(m *symbol.Method) bool {
	return strings.Contains(strings.ToLower(m.Name), "command")
}
