package ndlib_test

import (
	"testing"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/ndlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionsWellFormed(t *testing.T) {
	names := ndlib.Names()
	defs := ndlib.Defs()
	require.Equal(t, len(names), len(defs))
	require.NotEmpty(t, defs)
	seen := make(map[string]bool)
	for i, nd := range defs {
		if seen[nd.Name] {
			t.Errorf("duplicate node definition %q", nd.Name)
		}
		seen[nd.Name] = true
		if names[i] != nd.Name {
			t.Errorf("name %q listed for definition %q", names[i], nd.Name)
		}
		if nd.Name != nd.Impl.NodeDefName() {
			t.Errorf("%q resolves to %q", nd.Name, nd.Impl.NodeDefName())
		}
		if len(nd.Outputs) != 1 || nd.Outputs[0].Name != "out" || nd.OutputType() == nil {
			t.Errorf("%q: want a single typed \"out\" output", nd.Name)
		}
		inputs := make(map[string]bool)
		for _, in := range nd.Inputs {
			if inputs[in.Name] {
				t.Errorf("%q: duplicate input %q", nd.Name, in.Name)
			}
			inputs[in.Name] = true
			if err := glshade.ValidateIdentifier(in.Name); err != nil {
				t.Errorf("%q: %s", nd.Name, err)
			}
			if in.Type == nil || in.Type == glshade.TypeNone {
				t.Errorf("%q: input %q has no type", nd.Name, in.Name)
				continue
			}
			if !in.Value.IsValid() {
				continue
			}
			if in.Value.Type() != in.Type {
				t.Errorf("%q: default of %q is %s, want %s", nd.Name, in.Name, in.Value.Type(), in.Type)
			}
			if err := in.Value.Validate(); err != nil {
				t.Errorf("%q: default of %q: %s", nd.Name, in.Name, err)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	nd, ok := ndlib.For("add", glshade.TypeColor3, glshade.TypeFloat)
	require.True(t, ok)
	assert.Equal(t, "ND_add_color3_float", nd.Name)
	assert.Equal(t, glshade.TypeColor3, nd.OutputType())
	assert.Same(t, nd, ndlib.Get("ND_add_color3_float"))

	_, ok = ndlib.For("add", glshade.TypeFilename)
	assert.False(t, ok)
	_, ok = ndlib.Lookup("ND_nonexistent")
	assert.False(t, ok)
	assert.Panics(t, func() { ndlib.Get("ND_nonexistent") })
}

func TestShadingDefinitions(t *testing.T) {
	for _, test := range []struct {
		name  string
		class glshade.Classification
	}{
		{"ND_surface", glshade.ClassSurface | glshade.ClassShader},
		{"ND_uniform_edf", glshade.ClassClosure | glshade.ClassEDF},
		{"ND_layer_bsdf", glshade.ClassClosure | glshade.ClassBSDF | glshade.ClassLayer},
		{"ND_point_light", glshade.ClassLight | glshade.ClassShader},
		{"ND_thin_film_bsdf", glshade.ClassClosure | glshade.ClassBSDF | glshade.ClassThinFilm},
	} {
		nd, ok := ndlib.Lookup(test.name)
		if !ok {
			t.Errorf("missing %q", test.name)
			continue
		}
		n, err := glshade.NewStandaloneNode("n", nd)
		require.NoError(t, err)
		if !n.Has(test.class) {
			t.Errorf("%q: want classification %s, got %s", test.name, test.class, n.Classification())
		}
	}
	edf := ndlib.Get("ND_uniform_edf")
	require.Len(t, edf.Inputs, 1)
	assert.Equal(t, []float32{1, 1, 1}, edf.Inputs[0].Value.Floats())
}

func TestConvolutionDefinitions(t *testing.T) {
	for _, typ := range []string{"float", "color3", "color4", "vector2", "vector3", "vector4"} {
		nd, ok := ndlib.Lookup("ND_blur_" + typ)
		if !ok {
			t.Errorf("missing blur for %s", typ)
			continue
		}
		assert.Equal(t, typ, nd.OutputType().Name())
	}
	blur := ndlib.Get("ND_blur_color3")
	require.Len(t, blur.Inputs, 3)
	assert.Equal(t, "box", blur.Inputs[2].Value.Text())

	h := ndlib.Get("ND_heighttonormal_vector3")
	require.Len(t, h.Inputs, 2)
	assert.Equal(t, glshade.TypeFloat, h.Inputs[0].Type)
	assert.Equal(t, float32(1), h.Inputs[1].Value.Float())

	film := ndlib.Get("ND_thin_film_bsdf")
	require.Len(t, film.Inputs, 2)
	assert.Equal(t, float32(550), film.Inputs[0].Value.Float())
	assert.Equal(t, float32(1.5), film.Inputs[1].Value.Float())
}
