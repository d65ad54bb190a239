package glshade_test

import (
	"math"
	"testing"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glshade"
)

func TestColorNameValue(t *testing.T) {
	v, err := glshade.ColorNameValue("Red")
	if err != nil {
		t.Fatal(err)
	}
	if v.Type() != glshade.TypeColor3 {
		t.Fatalf("want color3, got %s", v.Type())
	}
	got := v.Floats()
	if got[0] != 1 || got[1] != 0 || got[2] != 0 {
		t.Errorf("red: got %v", got)
	}
	_, err = glshade.ColorNameValue("notacolor")
	if err == nil {
		t.Error("expected error for unknown color")
	}
}

func TestValueValidate(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	for _, test := range []struct {
		v     glshade.Value
		valid bool
	}{
		{glshade.FloatValue(1), true},
		{glshade.Vec3Value(ms3.Vec{X: 1, Y: 2, Z: 3}), true},
		{glshade.IntValue(4), true},
		{glshade.FilenameValue("a.png"), true},
		{glshade.FloatArrayValue([]float32{1, 2}), true},
		{glshade.FloatValue(nan), false},
		{glshade.Color4Value(ms3.Vec{}, inf), false},
		{glshade.Value{}, false},
	} {
		err := test.v.Validate()
		if test.valid && err != nil {
			t.Errorf("%v: unexpected error %s", test.v, err)
		} else if !test.valid && err == nil {
			t.Errorf("%v: expected error", test.v)
		}
	}
}

func TestZeroAndIdentityValue(t *testing.T) {
	for _, typ := range glshade.Types() {
		z := glshade.ZeroValue(typ)
		if typ.IsClosure() || typ.IsShader() || typ == glshade.TypeNone {
			if z.IsValid() {
				t.Errorf("%s: closures and shaders have no literal", typ)
			}
			continue
		}
		if z.Type() != typ {
			t.Errorf("%s: zero value of type %s", typ, z.Type())
		}
		if err := z.Validate(); err != nil {
			t.Errorf("%s: %s", typ, err)
		}
	}
	m4 := glshade.IdentityValue(glshade.TypeMatrix44).Floats()
	if len(m4) != 16 {
		t.Fatalf("want 16 components, got %d", len(m4))
	}
	for i, f := range m4 {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if f != want {
			t.Errorf("mat4 component %d: want %v, got %v", i, want, f)
		}
	}
	m3 := glshade.IdentityValue(glshade.TypeMatrix33).Floats()
	if m3[0] != 1 || m3[4] != 1 || m3[8] != 1 || m3[1] != 0 {
		t.Errorf("bad mat3 identity %v", m3)
	}
	if f := glshade.IdentityValue(glshade.TypeFloat).Float(); f != 0 {
		t.Errorf("non matrix identity should be zero, got %v", f)
	}
}

func TestValueString(t *testing.T) {
	for _, test := range []struct {
		v    glshade.Value
		want string
	}{
		{glshade.FloatValue(0.5), "0.5"},
		{glshade.BoolValue(true), "true"},
		{glshade.IntValue(-3), "-3"},
		{glshade.StringValue("world"), "world"},
		{glshade.Value{}, "<none>"},
	} {
		if got := test.v.String(); got != test.want {
			t.Errorf("want %q, got %q", test.want, got)
		}
	}
}

func TestTypeByName(t *testing.T) {
	for _, typ := range glshade.Types() {
		got, ok := glshade.TypeByName(typ.Name())
		if !ok || got != typ {
			t.Errorf("type %s did not round trip by name", typ)
		}
	}
	if _, ok := glshade.TypeByName("vector5"); ok {
		t.Error("found nonexistent type")
	}
	if !glshade.TypeColor3.IsFloat3() || glshade.TypeColor4.IsFloat3() || !glshade.TypeVector2.IsFloat2() {
		t.Error("bad float arity predicates")
	}
}
