package csharp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/vestige-dev/vestige/pkg/symbol"
)

// DeclaredMethod returns the symbol declared by a method-like node.
// Total: nodes that declare nothing yield (nil, false).
func (p *Program) DeclaredMethod(f *File, n *sitter.Node) (*symbol.Method, bool) {
	if f == nil || n == nil {
		return nil, false
	}
	d, ok := p.declNode[keyOf(f, n)]
	if !ok {
		return nil, false
	}
	return d.Method, true
}

// Declaration returns the full declaration record for a method-like node.
func (p *Program) Declaration(f *File, n *sitter.Node) (*Declaration, bool) {
	if f == nil || n == nil {
		return nil, false
	}
	d, ok := p.declNode[keyOf(f, n)]
	return d, ok
}

// ResolveMethod resolves a reference node (identifier, generic name, member
// access, or invocation) to a declared method. Binding is heuristic: name
// plus arity when the reference is a call target, preferring declarations in
// the same containing type. Unresolvable references yield (nil, false).
func (p *Program) ResolveMethod(f *File, n *sitter.Node) (*symbol.Method, bool) {
	if f == nil || n == nil {
		return nil, false
	}
	switch n.Type() {
	case "invocation_expression":
		return p.ResolveMethod(f, n.ChildByFieldName("function"))
	case "member_access_expression":
		return p.ResolveMethod(f, n.ChildByFieldName("name"))
	case "generic_name":
		return p.resolveGeneric(f, n)
	case "identifier":
		return p.resolveName(f, n, text(f, n))
	}
	return nil, false
}

func (p *Program) resolveName(f *File, n *sitter.Node, name string) (*symbol.Method, bool) {
	candidates := p.byName[name]
	if len(candidates) == 0 {
		return nil, false
	}

	arity, hasArity := callArity(n)
	enclosing := enclosingTypeName(f, n)

	best := pick(candidates, func(d *Declaration) bool {
		if hasArity && d.Method.Arity() != arity {
			return false
		}
		return d.Method.Receiver.Name == enclosing
	})
	if best == nil {
		best = pick(candidates, func(d *Declaration) bool {
			return !hasArity || d.Method.Arity() == arity
		})
	}
	if best == nil {
		return nil, false
	}
	return best.Method, true
}

// resolveGeneric binds Foo<T>(...) references. The returned symbol is an
// instantiation whose origin is the generic definition, so symbol equality
// folds it back onto the declaration.
func (p *Program) resolveGeneric(f *File, n *sitter.Node) (*symbol.Method, bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		// Older grammar revisions expose the identifier as the first child.
		nameNode = n.NamedChild(0)
	}
	if nameNode == nil {
		return nil, false
	}
	def, ok := p.resolveName(f, n, text(f, nameNode))
	if !ok {
		return nil, false
	}
	inst := *def
	inst.Origin = def
	return &inst, true
}

// callArity returns the argument count when the node is the function of an
// invocation, directly or through a member access.
func callArity(n *sitter.Node) (int, bool) {
	cur := n
	for parent := cur.Parent(); parent != nil; parent = cur.Parent() {
		switch parent.Type() {
		case "member_access_expression", "generic_name":
			cur = parent
			continue
		case "invocation_expression":
			if fn := parent.ChildByFieldName("function"); fn != nil && fn.StartByte() == cur.StartByte() && fn.EndByte() == cur.EndByte() {
				return argumentCount(parent.ChildByFieldName("arguments")), true
			}
		}
		break
	}
	return 0, false
}

func argumentCount(args *sitter.Node) int {
	if args == nil {
		return 0
	}
	n := 0
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if args.NamedChild(i).Type() == "argument" {
			n++
		}
	}
	return n
}

func pick(candidates []*Declaration, keep func(*Declaration) bool) *Declaration {
	for _, d := range candidates {
		if keep(d) {
			return d
		}
	}
	return nil
}

// ConstantValue evaluates a node to a compile-time string: literals,
// verbatim strings, concatenation of constants, and references to const
// fields. Non-constant expressions yield ("", false).
func (p *Program) ConstantValue(f *File, n *sitter.Node) (string, bool) {
	if f == nil || n == nil {
		return "", false
	}
	return p.evalConst(f, n)
}

func (p *Program) evalConst(f *File, n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "string_literal":
		return unquote(text(f, n)), true
	case "verbatim_string_literal":
		s := text(f, n)
		s = strings.TrimPrefix(s, "@")
		s = unquote(s)
		return strings.ReplaceAll(s, `""`, `"`), true
	case "raw_string_literal":
		return strings.Trim(text(f, n), "\""), true
	case "parenthesized_expression":
		return p.evalConst(f, n.NamedChild(0))
	case "binary_expression":
		return p.evalConcat(f, n)
	case "identifier":
		return p.lookupConst(f, n, text(f, n))
	case "member_access_expression":
		return p.lookupConst(f, n, text(f, n))
	case "argument":
		return p.evalConst(f, firstExpression(n))
	}
	return "", false
}

func (p *Program) evalConcat(f *File, n *sitter.Node) (string, bool) {
	op := n.ChildByFieldName("operator")
	if op == nil || text(f, op) != "+" {
		return "", false
	}
	left, ok := p.evalConst(f, n.ChildByFieldName("left"))
	if !ok {
		return "", false
	}
	right, ok := p.evalConst(f, n.ChildByFieldName("right"))
	if !ok {
		return "", false
	}
	return left + right, true
}

// lookupConst prefers a constant qualified by the enclosing type, then the
// reference text as written, then the bare trailing name.
func (p *Program) lookupConst(f *File, n *sitter.Node, ref string) (string, bool) {
	if enclosing := enclosingTypeName(f, n); enclosing != "" && !strings.Contains(ref, ".") {
		if v, ok := p.consts[enclosing+"."+ref]; ok {
			return v, true
		}
	}
	if v, ok := p.consts[ref]; ok {
		return v, true
	}
	if i := strings.LastIndexByte(ref, '.'); i >= 0 {
		if v, ok := p.consts[ref[i+1:]]; ok {
			return v, true
		}
	}
	return "", false
}

// firstExpression skips argument decoration (name colons, ref modifiers).
func firstExpression(arg *sitter.Node) *sitter.Node {
	for i := 0; i < int(arg.NamedChildCount()); i++ {
		c := arg.NamedChild(i)
		if c.Type() != "name_colon" {
			return c
		}
	}
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
