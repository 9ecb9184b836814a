package csharp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vestige-dev/vestige/pkg/attrs"
	"github.com/vestige-dev/vestige/pkg/parser"
	"github.com/vestige-dev/vestige/pkg/symbol"
)

func load(t *testing.T, sources map[string]string) *Program {
	t.Helper()
	psr := parser.New()
	defer psr.Close()

	var results []*parser.ParseResult
	for path, src := range sources {
		res, err := psr.Parse([]byte(src), path)
		if err != nil {
			t.Fatalf("parse %s: %v", path, err)
		}
		results = append(results, res)
	}
	return FromResults(results, attrs.NewCatalog())
}

func findDecl(t *testing.T, p *Program, name string) *Declaration {
	t.Helper()
	for _, d := range p.Declarations() {
		if d.Method.Name == name {
			return d
		}
	}
	t.Fatalf("declaration %q not found", name)
	return nil
}

func TestCollectDeclarations(t *testing.T) {
	p := load(t, map[string]string{"plugin.cs": `
namespace Oxide.Plugins
{
    class MyPlugin
    {
        void Init() {}

        void OnPlayerChat(BasePlayer player, string message) {}

        public override string ToString() { return "x"; }

        MyPlugin() {}
    }
}
`})

	init := findDecl(t, p, "Init")
	if init.Method.Receiver.Name != "MyPlugin" {
		t.Errorf("receiver = %q, want MyPlugin", init.Method.Receiver.Name)
	}
	if init.Method.Kind != symbol.KindOrdinary {
		t.Errorf("Init kind = %v, want ordinary", init.Method.Kind)
	}
	if init.Method.Arity() != 0 {
		t.Errorf("Init arity = %d", init.Method.Arity())
	}

	chat := findDecl(t, p, "OnPlayerChat")
	if chat.Method.Arity() != 2 {
		t.Fatalf("OnPlayerChat arity = %d, want 2", chat.Method.Arity())
	}
	if chat.Method.Params[0].Name != "BasePlayer" || chat.Method.Params[1].Name != "string" {
		t.Errorf("params = %v", chat.Method.Params)
	}

	ts := findDecl(t, p, "ToString")
	if !ts.Method.IsOverride {
		t.Error("ToString should be marked override")
	}

	ctor := findDecl(t, p, "MyPlugin")
	if ctor.Method.Kind != symbol.KindConstructor {
		t.Errorf("constructor kind = %v", ctor.Method.Kind)
	}
}

func TestCollectNestedTypeReceiver(t *testing.T) {
	p := load(t, map[string]string{"plugin.cs": `
class Outer
{
    class Inner
    {
        void Deep() {}
    }
}
`})

	d := findDecl(t, p, "Deep")
	if d.Method.Receiver.Name != "Outer.Inner" {
		t.Errorf("receiver = %q, want Outer.Inner", d.Method.Receiver.Name)
	}
}

func TestCollectAttributes(t *testing.T) {
	p := load(t, map[string]string{"plugin.cs": `
class MyPlugin
{
    [ChatCommand("help")]
    void HelpCommand(BasePlayer player, string command, string[] args) {}

    [HookMethod("CustomHook")]
    void CustomHook() {}

    [Obsolete]
    void Old() {}
}
`})

	help := findDecl(t, p, "HelpCommand")
	if len(help.Attributes) != 1 || help.Attributes[0] != attrs.ChatCommand {
		t.Errorf("HelpCommand attributes = %v", help.Attributes)
	}

	hook := findDecl(t, p, "CustomHook")
	if len(hook.Attributes) != 1 || hook.Attributes[0] != attrs.HookMethod {
		t.Errorf("CustomHook attributes = %v", hook.Attributes)
	}

	// Unrecognized attributes are dropped, not errors.
	old := findDecl(t, p, "Old")
	if len(old.Attributes) != 0 {
		t.Errorf("Old attributes = %v", old.Attributes)
	}
}

func TestCollectConstants(t *testing.T) {
	p := load(t, map[string]string{"plugin.cs": `
class Commands
{
    public const string Help = "help";
    public const string Prefixed = "do." + Help;
}
`})

	if v, ok := p.consts["Commands.Help"]; !ok || v != "help" {
		t.Errorf("Commands.Help = %q, %v", v, ok)
	}
	if v, ok := p.consts["Prefixed"]; !ok || v != "do.help" {
		t.Errorf("Prefixed = %q, %v", v, ok)
	}
}

func TestLoadDeterministicIDs(t *testing.T) {
	dir := t.TempDir()
	for name, src := range map[string]string{
		"b.cs": "class B { void Beta() {} }",
		"a.cs": "class A { void Alpha() {} }",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	p, err := Load(context.Background(), []string{filepath.Join(dir, "b.cs"), filepath.Join(dir, "a.cs")}, nil)
	if err != nil {
		t.Fatal(err)
	}

	decls := p.Declarations()
	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(decls))
	}
	// Files sort by path, so a.cs declarations come first.
	if decls[0].Method.Name != "Alpha" || decls[0].ID != 0 {
		t.Errorf("first declaration = %s (id %d)", decls[0].Method.Name, decls[0].ID)
	}
	if decls[1].Method.Name != "Beta" || decls[1].ID != 1 {
		t.Errorf("second declaration = %s (id %d)", decls[1].Method.Name, decls[1].ID)
	}
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, []string{"whatever.cs"}, nil)
	if err == nil {
		t.Fatal("expected context error")
	}
}
