package unused

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/vestige-dev/vestige/pkg/csharp"
	"github.com/vestige-dev/vestige/pkg/parser"
	"github.com/vestige-dev/vestige/pkg/symbol"
)

// cancelCheckInterval bounds how many nodes a scan visits between
// cancellation checks.
const cancelCheckInterval = 512

// fileEvidence is everything one file contributes to the usage index.
type fileEvidence struct {
	// resolved method symbols referenced by calls, member accesses,
	// method groups, or registration arguments.
	targets []*symbol.Method
	// method names registered through constant-string registration calls.
	registeredNames []string
}

// scanFile walks one file's syntax and collects every occurrence that could
// reference a declared method. Pure with respect to the program snapshot;
// safe to run concurrently over disjoint files.
func scanFile(ctx context.Context, prog Program, f *csharp.File) (*fileEvidence, error) {
	ev := &fileEvidence{}
	visited := 0

	err := parser.WalkErr(f.Root, f.Source, func(n *sitter.Node, _ []byte) (bool, error) {
		visited++
		if visited%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return false, err
			}
		}

		switch n.Type() {
		case "invocation_expression":
			if reg, ok := matchRegistration(prog, f, n); ok {
				ev.targets = append(ev.targets, reg.targets...)
				ev.registeredNames = append(ev.registeredNames, reg.names...)
			}
			if m, ok := prog.ResolveMethod(f, n); ok {
				ev.targets = append(ev.targets, m)
			}
		case "member_access_expression":
			// Covers both obj.Method() call targets and bare member
			// references handed around as delegates.
			if m, ok := prog.ResolveMethod(f, n); ok {
				ev.targets = append(ev.targets, m)
			}
		case "identifier", "generic_name":
			if isReferencePosition(n) {
				if m, ok := prog.ResolveMethod(f, n); ok {
					ev.targets = append(ev.targets, m)
				}
			}
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// isReferencePosition reports whether an identifier occurrence can denote a
// method reference rather than a declared name, parameter, or type. Method
// groups passed as arguments, assigned to delegates, or returned are the
// shapes that matter; call targets are covered by their invocation node.
func isReferencePosition(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	switch parent.Type() {
	case "argument", "equals_value_clause", "return_statement", "arrow_expression_clause":
		return true
	case "assignment_expression":
		// Only the right-hand side is a reference.
		if rhs := parent.ChildByFieldName("right"); rhs != nil {
			return rhs.StartByte() == n.StartByte() && rhs.EndByte() == n.EndByte()
		}
	}
	return false
}
