// Package hooks provides read-only registries of framework hook signatures
// and the similarity matcher that suggests likely hooks for unmatched
// methods. Registries are immutable snapshots: any refresh happens by
// constructing a new Registry between analysis passes, never by mutation.
package hooks

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/vestige-dev/vestige/pkg/symbol"
)

// Origin identifies which registry a hook signature belongs to. The
// enumeration order is also the concatenation order for similarity results.
type Origin int

const (
	OriginBuiltin Origin = iota
	OriginPlugin
	OriginPlatform
	OriginDeprecated
)

// Origins lists all registry origins in enumeration order.
var Origins = []Origin{OriginBuiltin, OriginPlugin, OriginPlatform, OriginDeprecated}

// String returns the lowercase origin name.
func (o Origin) String() string {
	switch o {
	case OriginBuiltin:
		return "builtin"
	case OriginPlugin:
		return "plugin"
	case OriginPlatform:
		return "platform"
	case OriginDeprecated:
		return "deprecated"
	default:
		return "unknown"
	}
}

// ParseOrigin converts a string to an Origin.
func ParseOrigin(s string) (Origin, bool) {
	for _, o := range Origins {
		if o.String() == s {
			return o, true
		}
	}
	return 0, false
}

// MarshalText encodes the origin by name so serialized reports stay readable
// and round-trip exactly.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an origin name.
func (o *Origin) UnmarshalText(text []byte) error {
	parsed, ok := ParseOrigin(string(text))
	if !ok {
		return fmt.Errorf("unknown origin %q", text)
	}
	*o = parsed
	return nil
}

// Signature is one registry entry: a hook name with its expected parameter
// types.
type Signature struct {
	Name       string           `json:"name" toon:"name"`
	Params     []symbol.TypeRef `json:"params,omitempty" toon:"params,omitempty"`
	Origin     Origin           `json:"origin" toon:"origin"`
	OriginName string           `json:"origin_name,omitempty" toon:"origin_name,omitempty"`
}

// Display renders the signature with its origin for suggestion output.
func (s Signature) Display() string {
	m := symbol.Method{Name: s.Name, Params: s.Params}
	return m.Signature()
}

// Candidate is a non-exact registry entry scored against an unmatched method
// signature.
type Candidate struct {
	Signature `json:"signature" toon:"signature"`
	Score     float64 `json:"score" toon:"score"`
}

// Registry is an immutable snapshot of hook signatures for one origin.
// All queries are pure reads; a Registry is safe for concurrent use.
type Registry struct {
	origin  Origin
	entries []Signature
	byName  map[string][]int

	// variants maps a declared parameter type to spellings the framework also
	// accepts in that position, e.g. BasePlayer -> IPlayer. Used by
	// IsKnownHook and by positional assignability in similarity scoring.
	variants map[string][]string

	fingerprint uint64
}

// NewRegistry builds a snapshot from entries. The variants table may be nil.
func NewRegistry(origin Origin, entries []Signature, variants map[string][]string) *Registry {
	r := &Registry{
		origin:   origin,
		entries:  make([]Signature, len(entries)),
		byName:   make(map[string][]int),
		variants: variants,
	}
	for i, e := range entries {
		e.Origin = origin
		r.entries[i] = e
		r.byName[e.Name] = append(r.byName[e.Name], i)
	}
	r.fingerprint = r.computeFingerprint()
	return r
}

// Merge combines registries into one snapshot under the given origin.
// Entries concatenate in argument order; variant tables union. Registries
// carrying a different origin are ignored.
func Merge(origin Origin, registries ...*Registry) *Registry {
	var entries []Signature
	variants := make(map[string][]string)
	for _, r := range registries {
		if r == nil || r.origin != origin {
			continue
		}
		entries = append(entries, r.entries...)
		for k, vs := range r.variants {
			variants[k] = append(variants[k], vs...)
		}
	}
	if len(variants) == 0 {
		variants = nil
	}
	return NewRegistry(origin, entries, variants)
}

// Origin returns the registry's origin.
func (r *Registry) Origin() Origin {
	return r.origin
}

// Entries returns the snapshot contents. Callers must not mutate the result.
func (r *Registry) Entries() []Signature {
	return r.entries
}

// Len returns the number of registered signatures.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Fingerprint is a stable hash of the snapshot contents, used for cache keys.
func (r *Registry) Fingerprint() uint64 {
	return r.fingerprint
}

func (r *Registry) computeFingerprint() uint64 {
	h := xxhash.New()
	h.WriteString(r.origin.String())
	for _, e := range r.entries {
		h.WriteString("\x00")
		h.WriteString(e.Name)
		for _, p := range e.Params {
			h.WriteString("\x01")
			h.WriteString(p.String())
		}
		h.WriteString("\x02")
		h.WriteString(e.OriginName)
	}
	// Variant tables affect IsKnownHook results, so they are part of the key.
	keys := make([]string, 0, len(r.variants))
	for k := range r.variants {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.WriteString("\x03")
		h.WriteString(k)
		for _, v := range r.variants[k] {
			h.WriteString("\x04")
			h.WriteString(v)
		}
	}
	return h.Sum64()
}

// IsHook reports an exact structural match: name plus parameter-type sequence.
func (r *Registry) IsHook(name string, params []symbol.TypeRef) bool {
	for _, i := range r.byName[name] {
		if symbol.ParamsEqual(r.entries[i].Params, params) {
			return true
		}
	}
	return false
}

// IsKnownHook is the looser membership test used only for exemption: the name
// must match and each parameter position must be identical or an accepted
// variant of the registered type. Never used to decide an exact match.
func (r *Registry) IsKnownHook(name string, params []symbol.TypeRef) bool {
	for _, i := range r.byName[name] {
		if r.paramsAccepted(r.entries[i].Params, params) {
			return true
		}
	}
	return false
}

func (r *Registry) paramsAccepted(declared, got []symbol.TypeRef) bool {
	if len(declared) != len(got) {
		return false
	}
	for i := range declared {
		if !r.accepted(declared[i], got[i]) {
			return false
		}
	}
	return true
}

// accepted reports whether a parameter of type got may stand in for a
// declared hook parameter.
func (r *Registry) accepted(declared, got symbol.TypeRef) bool {
	if declared.Equal(got) {
		return true
	}
	for _, v := range r.variants[declared.Name] {
		if got.Name == v {
			return true
		}
	}
	// Accept the reverse direction too: registries list variants once.
	for _, v := range r.variants[got.Name] {
		if declared.Name == v {
			return true
		}
	}
	return false
}
