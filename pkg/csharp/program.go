// Package csharp loads C# plugin sources into an immutable program snapshot
// and provides the lightweight symbol binding the analysis engine consumes.
// Binding is name- and arity-based over the loaded program; it never fails,
// it only declines to resolve.
package csharp

import (
	"context"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/vestige-dev/vestige/internal/fileproc"
	"github.com/vestige-dev/vestige/pkg/attrs"
	"github.com/vestige-dev/vestige/pkg/parser"
	"github.com/vestige-dev/vestige/pkg/symbol"
)

// File is one parsed source file in the snapshot.
type File struct {
	Path   string
	Root   *sitter.Node
	Source []byte

	tree *sitter.Tree // retained so the AST stays valid for the snapshot's lifetime
}

// Declaration couples a method symbol with its syntax node and the canonical
// attribute kinds recognized on it at parse time.
type Declaration struct {
	ID         uint32
	Method     *symbol.Method
	File       *File
	Node       *sitter.Node
	Attributes []attrs.Kind
}

// nodeKey identifies a syntax node within the snapshot without relying on
// node pointer identity.
type nodeKey struct {
	path  string
	start uint32
	end   uint32
}

func keyOf(f *File, n *sitter.Node) nodeKey {
	return nodeKey{path: f.Path, start: n.StartByte(), end: n.EndByte()}
}

// Program is an immutable snapshot of parsed plugin sources: the syntax
// trees, every method-like declaration, and the indexes backing binding.
// Construct once per pass; safe for concurrent readers.
type Program struct {
	files []*File
	decls []*Declaration

	byName   map[string][]*Declaration
	declNode map[nodeKey]*Declaration

	// consts maps "Type.Name" and bare "Name" to compile-time string values.
	consts map[string]string

	catalog *attrs.Catalog
}

// Load parses the given files in parallel and builds a program snapshot.
// Files that fail to read or parse are skipped; analysis of the rest of the
// program must not be blocked by one bad file.
func Load(ctx context.Context, paths []string, catalog *attrs.Catalog) (*Program, error) {
	if catalog == nil {
		catalog = attrs.NewCatalog()
	}

	results := fileproc.MapFiles(paths, func(psr *parser.Parser, path string) (*parser.ParseResult, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return psr.ParseFile(path)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Parallel collection is unordered; sort for deterministic IDs.
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	p := &Program{
		byName:   make(map[string][]*Declaration),
		declNode: make(map[nodeKey]*Declaration),
		consts:   make(map[string]string),
		catalog:  catalog,
	}
	for _, res := range results {
		f := &File{
			Path:   res.Path,
			Root:   res.Tree.RootNode(),
			Source: res.Source,
			tree:   res.Tree,
		}
		p.files = append(p.files, f)
		p.collectFile(f)
	}
	p.assignIDs()
	return p, nil
}

// FromResults builds a snapshot from already-parsed sources. Used by tests
// and by hosts that manage parsing themselves.
func FromResults(results []*parser.ParseResult, catalog *attrs.Catalog) *Program {
	if catalog == nil {
		catalog = attrs.NewCatalog()
	}
	p := &Program{
		byName:   make(map[string][]*Declaration),
		declNode: make(map[nodeKey]*Declaration),
		consts:   make(map[string]string),
		catalog:  catalog,
	}
	for _, res := range results {
		f := &File{
			Path:   res.Path,
			Root:   res.Tree.RootNode(),
			Source: res.Source,
			tree:   res.Tree,
		}
		p.files = append(p.files, f)
		p.collectFile(f)
	}
	p.assignIDs()
	return p
}

func (p *Program) assignIDs() {
	for i, d := range p.decls {
		d.ID = uint32(i)
	}
}

// Files returns the snapshot's parsed files in path order.
func (p *Program) Files() []*File {
	return p.files
}

// Declarations returns every method-like declaration in the snapshot.
func (p *Program) Declarations() []*Declaration {
	return p.decls
}

// DeclarationCount returns the number of collected declarations.
func (p *Program) DeclarationCount() int {
	return len(p.decls)
}
