// Package attrs maps raw attribute spellings found on plugin method
// declarations to canonical kinds. Normalization (qualification and the
// conventional "Attribute" suffix) happens once at catalog construction and
// lookup time, never during per-method analysis.
package attrs

import "strings"

// Kind is the canonical classification of a declaration attribute.
type Kind int

const (
	Unknown Kind = iota
	ChatCommand
	ConsoleCommand
	Command
	HookMethod
	Preserve
)

// String returns the canonical attribute name without suffix.
func (k Kind) String() string {
	switch k {
	case ChatCommand:
		return "ChatCommand"
	case ConsoleCommand:
		return "ConsoleCommand"
	case Command:
		return "Command"
	case HookMethod:
		return "HookMethod"
	case Preserve:
		return "Preserve"
	default:
		return "Unknown"
	}
}

// Exempts reports whether methods carrying this attribute are excluded from
// unused-method analysis. Command-style attributes mark registered handlers;
// HookMethod explicitly marks a framework callback; Preserve is an opt-out.
func (k Kind) Exempts() bool {
	switch k {
	case ChatCommand, ConsoleCommand, Command, HookMethod, Preserve:
		return true
	default:
		return false
	}
}

// ParseKind resolves a canonical kind name, case-insensitively. Used when
// reading kind names from configuration.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "chatcommand":
		return ChatCommand, true
	case "consolecommand":
		return ConsoleCommand, true
	case "command":
		return Command, true
	case "hookmethod":
		return HookMethod, true
	case "preserve":
		return Preserve, true
	default:
		return Unknown, false
	}
}

// Catalog resolves attribute names to canonical kinds. Immutable after
// construction; safe for concurrent readers.
type Catalog struct {
	kinds map[string]Kind
}

// NewCatalog returns a catalog preloaded with the conventional plugin
// attributes.
func NewCatalog() *Catalog {
	c := &Catalog{kinds: make(map[string]Kind)}
	for name, kind := range map[string]Kind{
		"ChatCommand":    ChatCommand,
		"ConsoleCommand": ConsoleCommand,
		"Command":        Command,
		"HookMethod":     HookMethod,
		"Preserve":       Preserve,
	} {
		c.kinds[name] = kind
	}
	return c
}

// Add registers an extra spelling for a canonical kind. The name is
// normalized the same way Lookup normalizes queries.
func (c *Catalog) Add(name string, kind Kind) {
	c.kinds[Normalize(name)] = kind
}

// Lookup resolves a raw attribute name as written in source. Both short and
// fully qualified spellings, with or without the trailing "Attribute" token,
// resolve to the same kind.
func (c *Catalog) Lookup(raw string) (Kind, bool) {
	k, ok := c.kinds[Normalize(raw)]
	return k, ok
}

// Normalize strips namespace qualification and the conventional "Attribute"
// suffix from a raw attribute name.
func Normalize(raw string) string {
	if i := strings.LastIndexByte(raw, '.'); i >= 0 {
		raw = raw[i+1:]
	}
	// "Attribute" alone is a legal (if odd) attribute name; only strip a
	// suffix that leaves something behind.
	if strings.HasSuffix(raw, "Attribute") && len(raw) > len("Attribute") {
		raw = raw[:len(raw)-len("Attribute")]
	}
	return raw
}
