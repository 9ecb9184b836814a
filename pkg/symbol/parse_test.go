package symbol

import "testing"

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"string", "string"},
		{" BasePlayer ", "BasePlayer"},
		{"List<string>", "List<string>"},
		{"Dictionary<string, List<int>>", "Dictionary<string, List<int>>"},
		{"Broken<", "Broken<"},
	}
	for _, tt := range tests {
		got := ParseType(tt.in)
		if got.String() != tt.want {
			t.Errorf("ParseType(%q).String() = %q, want %q", tt.in, got.String(), tt.want)
		}
	}
}

func TestParseTypeStructure(t *testing.T) {
	tr := ParseType("Dictionary<string, int>")
	if tr.Name != "Dictionary" || len(tr.Args) != 2 {
		t.Fatalf("unexpected structure: %+v", tr)
	}
	if tr.Args[0].Name != "string" || tr.Args[1].Name != "int" {
		t.Errorf("unexpected args: %+v", tr.Args)
	}
}

func TestParseTypes(t *testing.T) {
	refs := ParseTypes("BasePlayer, Dictionary<string, int>, bool")
	if len(refs) != 3 {
		t.Fatalf("len = %d, want 3", len(refs))
	}
	if refs[1].String() != "Dictionary<string, int>" {
		t.Errorf("refs[1] = %q", refs[1].String())
	}
	if got := ParseTypes("  "); got != nil {
		t.Errorf("blank input should parse to nil, got %v", got)
	}
}
