package hooks

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/vestige-dev/vestige/pkg/symbol"
)

// Scoring holds the similarity constants. The defaults are the contract the
// deterministic tests pin down; hosts that need to match another toolchain's
// suggestion lists may override them per Set.
type Scoring struct {
	NameWeight  float64
	ParamWeight float64
	Threshold   float64
	Limit       int
}

// DefaultScoring returns the standard weights: 0.6 name, 0.4 params,
// candidates below 0.5 excluded, at most 5 suggestions.
func DefaultScoring() Scoring {
	return Scoring{
		NameWeight:  0.6,
		ParamWeight: 0.4,
		Threshold:   0.5,
		Limit:       5,
	}
}

// nameSimilarity is 1 - normalized edit distance, case-insensitive.
func nameSimilarity(a, b string) float64 {
	return levenshtein.Similarity(strings.ToLower(a), strings.ToLower(b), nil)
}

// paramSimilarity is the fraction of positions where the types are identical
// or accepted variants of each other; 0 when arities differ. Two empty
// parameter lists are a perfect match.
func (r *Registry) paramSimilarity(declared, got []symbol.TypeRef) float64 {
	if len(declared) != len(got) {
		return 0
	}
	if len(declared) == 0 {
		return 1
	}
	matched := 0
	for i := range declared {
		if r.accepted(declared[i], got[i]) {
			matched++
		}
	}
	return float64(matched) / float64(len(declared))
}

// score computes the weighted similarity of a registry entry to a method
// signature.
func (r *Registry) score(entry Signature, name string, params []symbol.TypeRef, sc Scoring) float64 {
	return sc.NameWeight*nameSimilarity(entry.Name, name) +
		sc.ParamWeight*r.paramSimilarity(entry.Params, params)
}

// SimilarTo returns up to limit non-exact entries ranked by descending score,
// ties broken by ascending entry name. Entries exactly matching the query
// signature are excluded; they are hits, not suggestions.
func (r *Registry) SimilarTo(name string, params []symbol.TypeRef, sc Scoring, limit int) []Candidate {
	cands := r.scoreAll(name, params, sc)
	sortCandidates(cands)
	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}

// scoreAll scores every non-exact entry above the threshold, unranked.
func (r *Registry) scoreAll(name string, params []symbol.TypeRef, sc Scoring) []Candidate {
	var cands []Candidate
	for _, e := range r.entries {
		if e.Name == name && symbol.ParamsEqual(e.Params, params) {
			continue
		}
		s := r.score(e, name, params, sc)
		if s < sc.Threshold {
			continue
		}
		cands = append(cands, Candidate{Signature: e, Score: s})
	}
	return cands
}

// sortCandidates orders by descending score, then ascending name, then
// registry origin enumeration order.
func sortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Signature.Name != b.Signature.Name {
			return a.Signature.Name < b.Signature.Name
		}
		return a.Signature.Origin < b.Signature.Origin
	})
}

// Set is the ordered collection of the four registries consumed by one
// analysis pass. A Set is a read-only snapshot; see package comment.
type Set struct {
	registries map[Origin]*Registry
	scoring    Scoring
}

// NewSet builds a set from the given registries, filling absent origins with
// empty registries so queries stay total.
func NewSet(registries []*Registry, sc Scoring) *Set {
	s := &Set{
		registries: make(map[Origin]*Registry, len(Origins)),
		scoring:    sc,
	}
	for _, o := range Origins {
		s.registries[o] = NewRegistry(o, nil, nil)
	}
	for _, r := range registries {
		if r != nil {
			s.registries[r.origin] = r
		}
	}
	return s
}

// Registry returns the snapshot for one origin.
func (s *Set) Registry(o Origin) *Registry {
	return s.registries[o]
}

// Scoring returns the similarity constants in effect.
func (s *Set) Scoring() Scoring {
	return s.scoring
}

// IsHook reports an exact match in any registry.
func (s *Set) IsHook(m *symbol.Method) bool {
	for _, o := range Origins {
		if s.registries[o].IsHook(m.Name, m.Params) {
			return true
		}
	}
	return false
}

// IsKnownHook reports loose membership in any registry.
func (s *Set) IsKnownHook(m *symbol.Method) bool {
	for _, o := range Origins {
		if s.registries[o].IsKnownHook(m.Name, m.Params) {
			return true
		}
	}
	return false
}

// SimilarTo ranks candidates across all registries: each registry's scored
// entries are concatenated in origin enumeration order, the threshold and
// global limit apply to the combined list, and the combined list is re-sorted
// by score, name, then origin.
func (s *Set) SimilarTo(m *symbol.Method) []Candidate {
	var all []Candidate
	for _, o := range Origins {
		all = append(all, s.registries[o].scoreAll(m.Name, m.Params, s.scoring)...)
	}
	sortCandidates(all)
	if s.scoring.Limit > 0 && len(all) > s.scoring.Limit {
		all = all[:s.scoring.Limit]
	}
	return all
}

// Fingerprint combines the registry fingerprints and scoring constants into a
// stable snapshot key.
func (s *Set) Fingerprint() uint64 {
	var fp uint64
	for _, o := range Origins {
		fp = fp*1099511628211 ^ s.registries[o].Fingerprint()
	}
	fp = fp*1099511628211 ^ uint64(s.scoring.Limit)
	fp = fp*1099511628211 ^ uint64(s.scoring.Threshold*1e9)
	fp = fp*1099511628211 ^ uint64(s.scoring.NameWeight*1e9)
	fp = fp*1099511628211 ^ uint64(s.scoring.ParamWeight*1e9)
	return fp
}
