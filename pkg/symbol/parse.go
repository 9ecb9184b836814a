package symbol

import "strings"

// ParseType parses a source-style type spelling such as
// "Dictionary<string, List<int>>" into a TypeRef. Malformed input degrades to
// a TypeRef whose Name is the trimmed input; parsing is total.
func ParseType(s string) TypeRef {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '<')
	if open < 0 || !strings.HasSuffix(s, ">") {
		return TypeRef{Name: s}
	}
	name := strings.TrimSpace(s[:open])
	inner := s[open+1 : len(s)-1]
	args := splitTopLevel(inner)
	if name == "" || len(args) == 0 {
		return TypeRef{Name: s}
	}
	tr := TypeRef{Name: name, Args: make([]TypeRef, 0, len(args))}
	for _, a := range args {
		tr.Args = append(tr.Args, ParseType(a))
	}
	return tr
}

// ParseTypes parses a comma-separated parameter list, respecting nested
// generic argument lists.
func ParseTypes(s string) []TypeRef {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := splitTopLevel(s)
	refs := make([]TypeRef, 0, len(parts))
	for _, p := range parts {
		refs = append(refs, ParseType(p))
	}
	return refs
}

// splitTopLevel splits on commas that are not inside angle brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}
