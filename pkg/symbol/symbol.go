// Package symbol defines the canonical identity of declared plugin methods.
// Identity is structural: two values denote the same declaration iff name,
// containing type, and ordered parameter types all match. Runtime object
// identity is never relied on.
package symbol

import "strings"

// TypeRef identifies a type structurally by name with optional type arguments.
type TypeRef struct {
	Name string    `json:"name" toon:"name"`
	Args []TypeRef `json:"args,omitempty" toon:"args,omitempty"`
}

// Equal reports structural type equality.
func (t TypeRef) Equal(o TypeRef) bool {
	if t.Name != o.Name || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// String renders the type the way it appears in source, e.g. "Dictionary<string, int>".
func (t TypeRef) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}

// Kind classifies a method declaration.
type Kind int

const (
	KindOrdinary Kind = iota
	KindConstructor
	KindAccessor
	KindOperator
	KindOther
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindOrdinary:
		return "ordinary"
	case KindConstructor:
		return "constructor"
	case KindAccessor:
		return "accessor"
	case KindOperator:
		return "operator"
	default:
		return "other"
	}
}

// Location is a source position of a declaration or reference.
type Location struct {
	File   string `json:"file" toon:"file"`
	Line   uint32 `json:"line" toon:"line"`
	Column uint32 `json:"column,omitempty" toon:"column,omitempty"`
}

// Method is the immutable identity of a declared method. One value is
// constructed per declaration when a program is loaded and never mutated.
type Method struct {
	Name       string
	Params     []TypeRef
	Receiver   TypeRef // containing type
	IsOverride bool
	Kind       Kind
	Location   Location

	// Origin points at the unbound generic definition when this value
	// represents a concrete instantiation observed at a call site. Nil for
	// plain declarations and for generic definitions themselves.
	Origin *Method
}

// definition returns the declaration this method identifies: the generic
// origin when set, otherwise the method itself.
func (m *Method) definition() *Method {
	if m.Origin != nil {
		return m.Origin
	}
	return m
}

// structuralEqual compares name, containing type, and parameter sequence.
func structuralEqual(a, b *Method) bool {
	if a.Name != b.Name || !a.Receiver.Equal(b.Receiver) {
		return false
	}
	return ParamsEqual(a.Params, b.Params)
}

// Equal reports whether two methods denote the same declaration. A generic
// instantiation compares equal to its unbound definition, so a call to
// Foo<int> counts as a reference to the declaration of Foo<T>.
func (m *Method) Equal(o *Method) bool {
	if m == nil || o == nil {
		return m == o
	}
	if structuralEqual(m, o) {
		return true
	}
	return structuralEqual(m.definition(), o.definition())
}

// ParamsEqual compares two ordered parameter-type sequences structurally.
func ParamsEqual(a, b []TypeRef) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Signature renders "Name(T1, T2)" for display and registry lookups.
func (m *Method) Signature() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.String()
	}
	return m.Name + "(" + strings.Join(params, ", ") + ")"
}

// Arity returns the number of declared parameters.
func (m *Method) Arity() int {
	return len(m.Params)
}
