package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"text":     FormatText,
		"json":     FormatJSON,
		"JSON":     FormatJSON,
		"markdown": FormatMarkdown,
		"md":       FormatMarkdown,
		"toon":     FormatTOON,
		"bogus":    FormatText,
		"":         FormatText,
	}
	for in, want := range cases {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := New(WithFormat(FormatJSON), WithWriter(&buf))

	if err := f.Output(map[string]int{"count": 3}); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if decoded["count"] != 3 {
		t.Errorf("count = %d", decoded["count"])
	}
}

func TestFormatterTOON(t *testing.T) {
	var buf bytes.Buffer
	f := New(WithFormat(FormatTOON), WithWriter(&buf))

	if err := f.Output(map[string]string{"name": "vestige"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "vestige") {
		t.Errorf("toon output missing payload: %q", buf.String())
	}
}

func TestTableRenderText(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable("Results", []string{"Name", "Count"}, [][]string{
		{"alpha", "1"},
		{"beta", "2"},
	}, nil, nil)

	if err := table.RenderText(&buf, false); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"Results", "alpha", "beta"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable("Results", []string{"Name"}, [][]string{{"alpha"}}, nil, nil)

	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "## Results") {
		t.Errorf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "| alpha |") {
		t.Errorf("missing row:\n%s", out)
	}
}

func TestTableRenderData(t *testing.T) {
	table := NewTable("", []string{"Name", "Count"}, [][]string{{"alpha", "1"}}, nil, nil)

	data, ok := table.RenderData().([]map[string]string)
	if !ok {
		t.Fatalf("RenderData type = %T", table.RenderData())
	}
	if data[0]["Name"] != "alpha" || data[0]["Count"] != "1" {
		t.Errorf("data = %v", data)
	}

	wrapped := NewTable("", nil, nil, nil, 42)
	if wrapped.RenderData() != 42 {
		t.Error("explicit data must win")
	}
}
