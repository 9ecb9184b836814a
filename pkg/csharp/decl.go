package csharp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/vestige-dev/vestige/pkg/attrs"
	"github.com/vestige-dev/vestige/pkg/parser"
	"github.com/vestige-dev/vestige/pkg/symbol"
)

// Node kinds that declare something callable. Accessors and operators are
// collected so the skip policy can see them, not because they are analyzed
// as ordinary methods.
var methodKinds = map[string]symbol.Kind{
	"method_declaration":              symbol.KindOrdinary,
	"local_function_statement":        symbol.KindOther,
	"constructor_declaration":         symbol.KindConstructor,
	"destructor_declaration":          symbol.KindOther,
	"operator_declaration":            symbol.KindOperator,
	"conversion_operator_declaration": symbol.KindOperator,
	"accessor_declaration":            symbol.KindAccessor,
}

func (p *Program) collectFile(f *File) {
	parser.Walk(f.Root, f.Source, func(n *sitter.Node, _ []byte) bool {
		if kind, ok := methodKinds[n.Type()]; ok {
			p.declare(f, n, kind)
		}
		if n.Type() == "field_declaration" || n.Type() == "local_declaration_statement" {
			p.collectConst(f, n)
		}
		return true
	})
}

func (p *Program) declare(f *File, n *sitter.Node, kind symbol.Kind) {
	name := declaredName(f, n)
	if name == "" {
		return
	}

	m := &symbol.Method{
		Name:       name,
		Params:     paramTypes(f, n),
		Receiver:   symbol.TypeRef{Name: enclosingTypeName(f, n)},
		IsOverride: hasModifier(f, n, "override"),
		Kind:       kind,
		Location: symbol.Location{
			File:   f.Path,
			Line:   n.StartPoint().Row + 1,
			Column: n.StartPoint().Column + 1,
		},
	}

	d := &Declaration{
		Method:     m,
		File:       f,
		Node:       n,
		Attributes: p.attributeKinds(f, n),
	}
	p.decls = append(p.decls, d)
	p.byName[name] = append(p.byName[name], d)
	p.declNode[keyOf(f, n)] = d
}

func declaredName(f *File, n *sitter.Node) string {
	if nm := n.ChildByFieldName("name"); nm != nil {
		return text(f, nm)
	}
	// Accessors carry their keyword (get/set) instead of a name field.
	if n.Type() == "accessor_declaration" {
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			switch c.Type() {
			case "get", "set", "init", "add", "remove":
				return text(f, c)
			}
		}
	}
	if n.Type() == "operator_declaration" || n.Type() == "conversion_operator_declaration" {
		if op := n.ChildByFieldName("operator"); op != nil {
			return "operator" + text(f, op)
		}
		return "operator"
	}
	return ""
}

func paramTypes(f *File, n *sitter.Node) []symbol.TypeRef {
	list := n.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}
	var out []symbol.TypeRef
	for i := 0; i < int(list.NamedChildCount()); i++ {
		param := list.NamedChild(i)
		if param.Type() != "parameter" {
			continue
		}
		if t := param.ChildByFieldName("type"); t != nil {
			out = append(out, symbol.ParseType(text(f, t)))
		} else {
			// Implicitly typed lambda-style parameter inside a declaration
			// is invalid C#, but degrade to an unnamed type anyway.
			out = append(out, symbol.TypeRef{Name: ""})
		}
	}
	return out
}

// enclosingTypeName walks to the nearest containing type declaration.
// Nested types are qualified outermost-first.
func enclosingTypeName(f *File, n *sitter.Node) string {
	var parts []string
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		switch cur.Type() {
		case "class_declaration", "struct_declaration", "interface_declaration", "record_declaration":
			if nm := cur.ChildByFieldName("name"); nm != nil {
				parts = append([]string{text(f, nm)}, parts...)
			}
		}
	}
	return strings.Join(parts, ".")
}

func hasModifier(f *File, n *sitter.Node, want string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "modifier" && text(f, c) == want {
			return true
		}
	}
	return false
}

// attributeKinds maps the declaration's attributes through the catalog,
// keeping only recognized kinds.
func (p *Program) attributeKinds(f *File, n *sitter.Node) []attrs.Kind {
	var kinds []attrs.Kind
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() != "attribute_list" {
			continue
		}
		for j := 0; j < int(c.NamedChildCount()); j++ {
			attr := c.NamedChild(j)
			if attr.Type() != "attribute" {
				continue
			}
			name := ""
			if nm := attr.ChildByFieldName("name"); nm != nil {
				name = text(f, nm)
			}
			if kind, ok := p.catalog.Lookup(name); ok {
				kinds = append(kinds, kind)
			}
		}
	}
	return kinds
}

// collectConst records compile-time string constants so registration
// matching can see through named command constants.
func (p *Program) collectConst(f *File, n *sitter.Node) {
	if !hasConstKeyword(f, n) {
		return
	}
	recv := enclosingTypeName(f, n)
	parser.Walk(n, f.Source, func(c *sitter.Node, _ []byte) bool {
		if c.Type() != "variable_declarator" {
			return true
		}
		name := ""
		if nm := c.ChildByFieldName("name"); nm != nil {
			name = text(f, nm)
		}
		if name == "" {
			return true
		}
		val, ok := p.evalConst(f, initializerOf(c))
		if !ok {
			return true
		}
		p.consts[name] = val
		if recv != "" {
			p.consts[recv+"."+name] = val
		}
		return true
	})
}

func hasConstKeyword(f *File, n *sitter.Node) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "modifier" && text(f, c) == "const" {
			return true
		}
		if c.Type() == "const" {
			return true
		}
	}
	return false
}

// initializerOf returns the expression after "=" in a variable_declarator.
func initializerOf(decl *sitter.Node) *sitter.Node {
	seen := false
	for i := 0; i < int(decl.ChildCount()); i++ {
		c := decl.Child(i)
		if c.Type() == "=" {
			seen = true
			continue
		}
		if seen {
			return c
		}
	}
	return nil
}

func text(f *File, n *sitter.Node) string {
	return parser.GetNodeText(n, f.Source)
}
