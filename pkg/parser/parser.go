// Package parser wraps tree-sitter parsing of C# plugin sources and provides
// the AST traversal helpers the analysis engine is built on.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

// Parser wraps a tree-sitter parser configured for C#.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed AST and source metadata.
type ParseResult struct {
	Tree   *sitter.Tree
	Source []byte
	Path   string
}

// New creates a new parser instance.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(csharp.GetLanguage())
	return &Parser{parser: p}
}

// ParseFile parses a plugin source file and returns the AST.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	if !IsPluginSource(path) {
		return nil, fmt.Errorf("not a plugin source file: %s", path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Parse(source, path)
}

// Parse parses in-memory source.
func (p *Parser) Parse(source []byte, path string) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	return &ParseResult{
		Tree:   tree,
		Source: source,
		Path:   path,
	}, nil
}

// IsPluginSource reports whether the path looks like a C# plugin source file.
func IsPluginSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".cs" || ext == ".csx"
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// NodeVisitor is a function that visits AST nodes. Returning false stops
// descent into the node's children.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// Walk traverses the AST calling visitor for each node.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}
	if !visitor(node, source) {
		return
	}
	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), source, visitor)
	}
}

// WalkErr traverses the AST with an error-returning visitor, stopping the
// whole walk on the first error. Used for cancellation-aware scans.
func WalkErr(node *sitter.Node, source []byte, visitor func(*sitter.Node, []byte) (bool, error)) error {
	if node == nil {
		return nil
	}
	descend, err := visitor(node, source)
	if err != nil {
		return err
	}
	if !descend {
		return nil
	}
	for i := range int(node.ChildCount()) {
		if err := WalkErr(node.Child(i), source, visitor); err != nil {
			return err
		}
	}
	return nil
}

// FindNodes returns all nodes matching a predicate.
func FindNodes(root *sitter.Node, source []byte, predicate func(*sitter.Node) bool) []*sitter.Node {
	var results []*sitter.Node
	Walk(root, source, func(node *sitter.Node, source []byte) bool {
		if predicate(node) {
			results = append(results, node)
		}
		return true
	})
	return results
}

// FindNodesByType returns all nodes of a specific type.
func FindNodesByType(root *sitter.Node, source []byte, nodeType string) []*sitter.Node {
	return FindNodes(root, source, func(n *sitter.Node) bool {
		return n.Type() == nodeType
	})
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}
