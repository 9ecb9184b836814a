package unused

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/vestige-dev/vestige/pkg/csharp"
	"github.com/vestige-dev/vestige/pkg/symbol"
)

// usageIndex is the merged evidence of one scan pass: which declarations
// have at least one live reference anywhere in the program. Built once per
// pass, then read-only during classification.
type usageIndex struct {
	used *roaring.Bitmap

	// byMethod folds resolved symbols (including generic instantiations,
	// via their unbound definition) back onto declarations.
	byMethod map[*symbol.Method]*csharp.Declaration
	// byName supports constant-string registration, which addresses the
	// handler by name alone. All same-named overloads count as registered.
	byName map[string][]*csharp.Declaration
}

func newUsageIndex(prog Program) *usageIndex {
	idx := &usageIndex{
		used:     roaring.New(),
		byMethod: make(map[*symbol.Method]*csharp.Declaration),
		byName:   make(map[string][]*csharp.Declaration),
	}
	for _, d := range prog.Declarations() {
		idx.byMethod[d.Method] = d
		idx.byName[d.Method.Name] = append(idx.byName[d.Method.Name], d)
	}
	return idx
}

// merge folds one file's evidence into the index. Callers serialize merges;
// reads only begin after every merge completes.
func (idx *usageIndex) merge(ev *fileEvidence) {
	for _, m := range ev.targets {
		idx.markMethod(m)
	}
	for _, name := range ev.registeredNames {
		for _, d := range idx.byName[name] {
			idx.used.Add(d.ID)
		}
	}
}

func (idx *usageIndex) markMethod(m *symbol.Method) {
	if d, ok := idx.byMethod[m]; ok {
		idx.used.Add(d.ID)
		return
	}
	// An instantiation that is not itself a declaration counts as a use of
	// its generic definition.
	if m.Origin != nil {
		if d, ok := idx.byMethod[m.Origin]; ok {
			idx.used.Add(d.ID)
			return
		}
	}
	// Binding handed back a symbol not in the snapshot; fall back to
	// structural identity so the evidence is not dropped.
	for _, d := range idx.byName[m.Name] {
		if d.Method.Equal(m) {
			idx.used.Add(d.ID)
		}
	}
}

// isUsed reports whether any evidence of use exists for the declaration.
// Override methods are always used: virtual dispatch targets cannot be
// proven dead by static text search.
func (idx *usageIndex) isUsed(d *csharp.Declaration) bool {
	if d.Method.IsOverride {
		return true
	}
	return idx.used.Contains(d.ID)
}

// usedCount returns how many declarations have direct scan evidence.
func (idx *usageIndex) usedCount() uint64 {
	return idx.used.GetCardinality()
}
