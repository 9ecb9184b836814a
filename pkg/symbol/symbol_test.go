package symbol

import "testing"

func ref(name string, args ...TypeRef) TypeRef {
	return TypeRef{Name: name, Args: args}
}

func TestTypeRefEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b TypeRef
		want bool
	}{
		{"same name", ref("string"), ref("string"), true},
		{"different name", ref("string"), ref("int"), false},
		{"nested args match", ref("List", ref("string")), ref("List", ref("string")), true},
		{"nested args differ", ref("List", ref("string")), ref("List", ref("int")), false},
		{"arity differs", ref("List", ref("string")), ref("List"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypeRefString(t *testing.T) {
	tr := ref("Dictionary", ref("string"), ref("List", ref("int")))
	want := "Dictionary<string, List<int>>"
	if got := tr.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindOrdinary, "ordinary"},
		{KindConstructor, "constructor"},
		{KindAccessor, "accessor"},
		{KindOperator, "operator"},
		{KindOther, "other"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestMethodEqual(t *testing.T) {
	base := &Method{
		Name:     "SendHelp",
		Params:   []TypeRef{ref("BasePlayer")},
		Receiver: ref("HelpPlugin"),
	}

	same := &Method{
		Name:     "SendHelp",
		Params:   []TypeRef{ref("BasePlayer")},
		Receiver: ref("HelpPlugin"),
	}
	if !base.Equal(same) {
		t.Error("structurally identical methods should be equal")
	}

	otherName := &Method{Name: "SendHint", Params: base.Params, Receiver: base.Receiver}
	if base.Equal(otherName) {
		t.Error("different names should not be equal")
	}

	otherRecv := &Method{Name: "SendHelp", Params: base.Params, Receiver: ref("OtherPlugin")}
	if base.Equal(otherRecv) {
		t.Error("different containing types should not be equal")
	}

	otherParams := &Method{Name: "SendHelp", Params: []TypeRef{ref("IPlayer")}, Receiver: base.Receiver}
	if base.Equal(otherParams) {
		t.Error("different parameter types should not be equal")
	}
}

func TestMethodEqualGenericInstantiation(t *testing.T) {
	generic := &Method{
		Name:     "Convert",
		Params:   []TypeRef{ref("T")},
		Receiver: ref("Utils"),
	}
	instantiated := &Method{
		Name:     "Convert",
		Params:   []TypeRef{ref("int")},
		Receiver: ref("Utils"),
		Origin:   generic,
	}

	if !instantiated.Equal(generic) {
		t.Error("instantiation should equal its unbound definition")
	}
	if !generic.Equal(instantiated) {
		t.Error("equality with an instantiation should be symmetric")
	}

	other := &Method{
		Name:     "Convert",
		Params:   []TypeRef{ref("int")},
		Receiver: ref("Utils"),
	}
	// A structurally matching concrete method still counts as the same use site.
	if !instantiated.Equal(other) {
		t.Error("structural match should win before origin comparison")
	}
}

func TestMethodEqualNil(t *testing.T) {
	var a *Method
	b := &Method{Name: "X"}
	if a.Equal(b) || b.Equal(a) {
		t.Error("nil should not equal a method")
	}
	if !a.Equal(nil) {
		t.Error("nil should equal nil")
	}
}

func TestSignature(t *testing.T) {
	m := &Method{
		Name:   "OnPlayerChat",
		Params: []TypeRef{ref("BasePlayer"), ref("string")},
	}
	want := "OnPlayerChat(BasePlayer, string)"
	if got := m.Signature(); got != want {
		t.Errorf("Signature() = %q, want %q", got, want)
	}
	if m.Arity() != 2 {
		t.Errorf("Arity() = %d, want 2", m.Arity())
	}
}
