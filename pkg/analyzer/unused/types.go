// Package unused decides, for each method declared in a plugin program,
// whether it is dead and which diagnostic narrative applies: plain unused,
// unused but resembling a known lifecycle hook, or unused but resembling a
// command handler. Convention-dispatched methods (hooks, registered
// commands) are recognized so they never surface as false positives.
package unused

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/vestige-dev/vestige/pkg/csharp"
	"github.com/vestige-dev/vestige/pkg/hooks"
	"github.com/vestige-dev/vestige/pkg/symbol"
)

// Variant classifies the diagnostic narrative for an unused method.
type Variant string

const (
	// VariantUnused is a plainly dead method: no reference, no
	// registration, nothing it resembles.
	VariantUnused Variant = "unused"
	// VariantHookSuggestion is an unused method whose signature is close
	// to one or more known hooks, usually a typo'd hook name.
	VariantHookSuggestion Variant = "unused_with_hook_suggestions"
	// VariantCommand is an unused method whose name suggests a command
	// handler that was never registered.
	VariantCommand Variant = "unused_as_command"
)

// String returns the string representation.
func (v Variant) String() string {
	return string(v)
}

// ReferenceKind classifies a discovered occurrence of a method symbol.
type ReferenceKind string

const (
	RefCall         ReferenceKind = "call"
	RefMemberAccess ReferenceKind = "member_access"
	RefMethodGroup  ReferenceKind = "method_group"
	RefRegistration ReferenceKind = "registration"
)

// Reference is one piece of usage evidence discovered during scanning.
// References are transient: they feed the usage index and are not retained
// in the report.
type Reference struct {
	Kind   ReferenceKind
	Target *symbol.Method
	Node   *sitter.Node
}

// Finding is the engine's verdict for one unused method declaration.
type Finding struct {
	Method      string            `json:"method" toon:"method"`
	Receiver    string            `json:"receiver,omitempty" toon:"receiver"`
	Signature   string            `json:"signature" toon:"signature"`
	File        string            `json:"file" toon:"file"`
	Line        int               `json:"line" toon:"line"`
	Column      int               `json:"column" toon:"column"`
	Variant     Variant           `json:"variant" toon:"variant"`
	Suggestions []hooks.Candidate `json:"suggestions,omitempty" toon:"suggestions"`
}

// Summary aggregates a pass over the whole program.
type Summary struct {
	MethodsTotal    int     `json:"methods_total" toon:"methods_total"`
	MethodsSkipped  int     `json:"methods_skipped" toon:"methods_skipped"`
	MethodsUsed     int     `json:"methods_used" toon:"methods_used"`
	TotalFindings   int     `json:"total_findings" toon:"total_findings"`
	PlainUnused     int     `json:"plain_unused" toon:"plain_unused"`
	HookSuggestions int     `json:"hook_suggestions" toon:"hook_suggestions"`
	CommandLike     int     `json:"command_like" toon:"command_like"`
	MeanSuggestion  float64 `json:"mean_suggestion_score" toon:"mean_suggestion_score"`
	MaxSuggestion   float64 `json:"max_suggestion_score" toon:"max_suggestion_score"`
}

// Report is the structured output of one analysis pass.
type Report struct {
	Files               int       `json:"files" toon:"files"`
	RegistryFingerprint uint64    `json:"registry_fingerprint" toon:"registry_fingerprint"`
	Findings            []Finding `json:"findings" toon:"findings"`
	Summary             Summary   `json:"summary" toon:"summary"`
}

// Program is the read-only snapshot the engine analyzes: parsed syntax,
// declarations, and a binding service. All binding lookups are total;
// absence of a binding is never an error.
type Program interface {
	Files() []*csharp.File
	Declarations() []*csharp.Declaration
	DeclaredMethod(f *csharp.File, n *sitter.Node) (*symbol.Method, bool)
	ResolveMethod(f *csharp.File, n *sitter.Node) (*symbol.Method, bool)
	ConstantValue(f *csharp.File, n *sitter.Node) (string, bool)
}

var _ Program = (*csharp.Program)(nil)
