package hooks

import (
	"reflect"
	"testing"

	"github.com/vestige-dev/vestige/pkg/symbol"
)

func sig(name string, params ...string) Signature {
	var refs []symbol.TypeRef
	for _, p := range params {
		refs = append(refs, symbol.ParseType(p))
	}
	return Signature{Name: name, Params: refs}
}

func method(name string, params ...string) *symbol.Method {
	var refs []symbol.TypeRef
	for _, p := range params {
		refs = append(refs, symbol.ParseType(p))
	}
	return &symbol.Method{Name: name, Params: refs, Receiver: symbol.TypeRef{Name: "TestPlugin"}}
}

func TestIsHookExact(t *testing.T) {
	r := NewRegistry(OriginBuiltin, []Signature{
		sig("OnPlayerConnected", "BasePlayer"),
		sig("OnServerSave"),
	}, nil)

	if !r.IsHook("OnPlayerConnected", symbol.ParseTypes("BasePlayer")) {
		t.Error("exact signature should match")
	}
	if !r.IsHook("OnServerSave", nil) {
		t.Error("zero-arg hook should match")
	}
	if r.IsHook("OnPlayerConnected", symbol.ParseTypes("IPlayer")) {
		t.Error("IsHook must be strict about parameter types")
	}
	if r.IsHook("OnPlayerConnected", nil) {
		t.Error("arity mismatch must not match")
	}
}

func TestIsKnownHookVariants(t *testing.T) {
	r := NewRegistry(OriginBuiltin, []Signature{
		sig("OnPlayerConnected", "BasePlayer"),
	}, map[string][]string{
		"BasePlayer": {"IPlayer"},
	})

	if !r.IsKnownHook("OnPlayerConnected", symbol.ParseTypes("IPlayer")) {
		t.Error("accepted variant should satisfy IsKnownHook")
	}
	if r.IsHook("OnPlayerConnected", symbol.ParseTypes("IPlayer")) {
		t.Error("variant must never satisfy the exact query")
	}
	if r.IsKnownHook("OnPlayerConnected", symbol.ParseTypes("Item")) {
		t.Error("unrelated type must not match")
	}
}

func TestSimilarToThresholdAndOrder(t *testing.T) {
	r := NewRegistry(OriginBuiltin, []Signature{
		sig("ChatHelper", "BasePlayer", "string"),
		sig("OnServerSave"),
	}, nil)
	sc := DefaultScoring()

	cands := r.SimilarTo("ChatHelp", symbol.ParseTypes("BasePlayer, string"), sc, sc.Limit)
	if len(cands) != 1 {
		t.Fatalf("len(cands) = %d, want 1", len(cands))
	}
	if cands[0].Signature.Name != "ChatHelper" {
		t.Errorf("candidate = %s", cands[0].Signature.Name)
	}
	if cands[0].Score < sc.Threshold {
		t.Errorf("score %f below threshold", cands[0].Score)
	}
}

func TestSimilarToExcludesExactMatch(t *testing.T) {
	r := NewRegistry(OriginBuiltin, []Signature{
		sig("OnServerSave"),
	}, nil)
	sc := DefaultScoring()

	cands := r.SimilarTo("OnServerSave", nil, sc, sc.Limit)
	if len(cands) != 0 {
		t.Errorf("exact match must be excluded from suggestions, got %d", len(cands))
	}
}

// The ordering contract from the scoring formula: for an unused ChatHelp, the
// builtin ChatHelper outranks the plugin ChatHelpCmd because its name is
// closer, and the whole ranking is reproducible run to run.
func TestSetSimilarToCrossRegistryOrder(t *testing.T) {
	builtin := NewRegistry(OriginBuiltin, []Signature{
		sig("ChatHelper", "BasePlayer", "string"),
	}, nil)
	plugin := NewRegistry(OriginPlugin, []Signature{
		{Name: "ChatHelpCmd", Params: symbol.ParseTypes("BasePlayer, string"), OriginName: "HelpText"},
	}, nil)
	set := NewSet([]*Registry{builtin, plugin}, DefaultScoring())

	m := method("ChatHelp", "BasePlayer", "string")
	cands := set.SimilarTo(m)
	if len(cands) != 2 {
		t.Fatalf("len(cands) = %d, want 2", len(cands))
	}
	if cands[0].Signature.Name != "ChatHelper" || cands[0].Signature.Origin != OriginBuiltin {
		t.Errorf("first candidate = %s(%s)", cands[0].Signature.Name, cands[0].Signature.Origin)
	}
	if cands[1].Signature.Name != "ChatHelpCmd" || cands[1].Signature.Origin != OriginPlugin {
		t.Errorf("second candidate = %s(%s)", cands[1].Signature.Name, cands[1].Signature.Origin)
	}
	if cands[0].Score <= cands[1].Score {
		t.Errorf("scores not descending: %f then %f", cands[0].Score, cands[1].Score)
	}

	// Re-running the query yields the identical ranking.
	again := set.SimilarTo(m)
	for i := range cands {
		if !reflect.DeepEqual(cands[i], again[i]) {
			t.Errorf("ranking not reproducible at %d: %+v vs %+v", i, cands[i], again[i])
		}
	}
}

func TestSetSimilarToTieBreakByOrigin(t *testing.T) {
	// Identical entries in two registries tie on score and name; origin
	// enumeration order decides.
	builtin := NewRegistry(OriginBuiltin, []Signature{sig("OnPlayerSpawned", "BasePlayer")}, nil)
	deprecated := NewRegistry(OriginDeprecated, []Signature{sig("OnPlayerSpawned", "BasePlayer")}, nil)
	set := NewSet([]*Registry{deprecated, builtin}, DefaultScoring())

	cands := set.SimilarTo(method("OnPlayerSpawn", "BasePlayer"))
	if len(cands) != 2 {
		t.Fatalf("len(cands) = %d, want 2", len(cands))
	}
	if cands[0].Signature.Origin != OriginBuiltin || cands[1].Signature.Origin != OriginDeprecated {
		t.Errorf("tie not broken by origin order: %s, %s",
			cands[0].Signature.Origin, cands[1].Signature.Origin)
	}
}

func TestSetSimilarToGlobalLimit(t *testing.T) {
	entries := []Signature{
		sig("OnUserSpawn", "IPlayer"),
		sig("OnUserSpawned", "IPlayer"),
		sig("OnUserRespawn", "IPlayer"),
	}
	sc := DefaultScoring()
	sc.Limit = 2
	set := NewSet([]*Registry{NewRegistry(OriginPlatform, entries, nil)}, sc)

	cands := set.SimilarTo(method("OnUserSpawns", "IPlayer"))
	if len(cands) != 2 {
		t.Errorf("limit not applied globally: got %d", len(cands))
	}
}

func TestSetSimilarToDefaultLimitAcrossRegistries(t *testing.T) {
	// Six above-threshold candidates spread over three registries; the default
	// limit of 5 truncates the combined ranking, dropping the weakest match.
	builtin := NewRegistry(OriginBuiltin, []Signature{
		sig("OnUserBanned2", "IPlayer"),
		sig("OnUserBanner", "IPlayer"),
	}, nil)
	platform := NewRegistry(OriginPlatform, []Signature{
		sig("OnUserBanne", "IPlayer"),
		sig("OnUserBaned", "IPlayer"),
	}, nil)
	deprecated := NewRegistry(OriginDeprecated, []Signature{
		sig("OnUserBand", "IPlayer"),
		sig("OnUserKicked", "IPlayer"),
	}, nil)
	set := NewSet([]*Registry{builtin, platform, deprecated}, DefaultScoring())

	cands := set.SimilarTo(method("OnUserBanned", "IPlayer"))
	if len(cands) != DefaultScoring().Limit {
		t.Fatalf("len(cands) = %d, want %d", len(cands), DefaultScoring().Limit)
	}
	for i := 1; i < len(cands); i++ {
		if cands[i].Score > cands[i-1].Score {
			t.Errorf("scores not descending at %d: %f after %f", i, cands[i].Score, cands[i-1].Score)
		}
	}
	for _, c := range cands {
		if c.Signature.Name == "OnUserKicked" {
			t.Error("truncation kept the weakest candidate")
		}
	}
}

func TestSetEmptyOriginsAreTotal(t *testing.T) {
	set := NewSet(nil, DefaultScoring())
	m := method("Anything")
	if set.IsHook(m) || set.IsKnownHook(m) {
		t.Error("empty set should not match anything")
	}
	if got := set.SimilarTo(m); len(got) != 0 {
		t.Errorf("empty set should yield no candidates, got %d", len(got))
	}
}

func TestFingerprint(t *testing.T) {
	a := NewRegistry(OriginBuiltin, []Signature{sig("Init")}, nil)
	b := NewRegistry(OriginBuiltin, []Signature{sig("Init")}, nil)
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical snapshots should share a fingerprint")
	}
	c := NewRegistry(OriginBuiltin, []Signature{sig("Init", "bool")}, nil)
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different snapshots should not collide")
	}
	d := NewRegistry(OriginBuiltin, []Signature{sig("Init")}, map[string][]string{"A": {"B"}})
	if a.Fingerprint() == d.Fingerprint() {
		t.Error("variant table must be part of the fingerprint")
	}
}

func TestParseOrigin(t *testing.T) {
	for _, o := range Origins {
		got, ok := ParseOrigin(o.String())
		if !ok || got != o {
			t.Errorf("ParseOrigin(%q) = (%v, %v)", o.String(), got, ok)
		}
	}
	if _, ok := ParseOrigin("bogus"); ok {
		t.Error("bogus origin should not parse")
	}
}

func TestOriginTextRoundTrip(t *testing.T) {
	for _, o := range Origins {
		text, err := o.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", o, err)
		}
		var got Origin
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if got != o {
			t.Errorf("round trip %v -> %q -> %v", o, text, got)
		}
	}
	var o Origin
	if err := o.UnmarshalText([]byte("cosmic")); err == nil {
		t.Error("unknown origin name should fail to unmarshal")
	}
}

func TestMerge(t *testing.T) {
	a := NewRegistry(OriginPlugin, []Signature{sig("OnBackpackOpened", "BasePlayer")}, map[string][]string{"BasePlayer": {"IPlayer"}})
	b := NewRegistry(OriginPlugin, []Signature{sig("OnZoneEntered", "BasePlayer", "Zone")}, nil)
	other := NewRegistry(OriginBuiltin, []Signature{sig("Init")}, nil)

	merged := Merge(OriginPlugin, a, b, other, nil)
	if merged.Len() != 2 {
		t.Fatalf("merged length = %d, want 2 (mismatched origins ignored)", merged.Len())
	}
	if !merged.IsHook("OnZoneEntered", symbol.ParseTypes("BasePlayer, Zone")) {
		t.Error("merged registry should contain entries from both inputs")
	}
	if !merged.IsKnownHook("OnBackpackOpened", symbol.ParseTypes("IPlayer")) {
		t.Error("variant tables should survive merging")
	}
}
