package glsllib_test

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/soypat/glshade/glbuild"
	"github.com/soypat/glshade/glbuild/glsllib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryFiles(t *testing.T) {
	names := []string{
		glsllib.Defines, glsllib.Math, glsllib.Microfacet, glsllib.Shadow,
		glsllib.AlbedoTable, glsllib.HSV, glsllib.Sampling,
		glsllib.TransformUVFile(false), glsllib.TransformUVFile(true),
		glsllib.NodeFile("dielectric_bsdf"), glsllib.NodeFile("point_light"),
	}
	for _, m := range []glbuild.SpecularEnvironmentMethod{
		glbuild.SpecularEnvironmentNone, glbuild.SpecularEnvironmentFIS, glbuild.SpecularEnvironmentPrefilter,
	} {
		name, err := glsllib.EnvironmentFile(m)
		require.NoError(t, err)
		names = append(names, name)
	}
	for _, name := range names {
		b, err := fs.ReadFile(glsllib.FS(), name)
		if err != nil {
			t.Errorf("%s: %s", name, err)
		} else if len(b) == 0 {
			t.Errorf("%s: empty library file", name)
		}
	}
	_, err := glsllib.EnvironmentFile(9)
	assert.ErrorIs(t, err, glbuild.ErrConfig)
}

func TestLibraryOverride(t *testing.T) {
	user := fstest.MapFS{glsllib.Math: {Data: []byte("// user math\n")}}
	ctx := glbuild.NewContext(glbuild.DefaultOptions(), user, glsllib.FS())
	b, err := ctx.ResolveSourceFile(glsllib.Math)
	require.NoError(t, err)
	assert.Equal(t, "// user math\n", string(b), "user files take precedence")
	b, err = ctx.ResolveSourceFile(glsllib.Shadow)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	_, err = ctx.ResolveSourceFile("pbrlib/genglsl/mx_missing.glsl")
	assert.ErrorIs(t, err, glbuild.ErrLookup)
}
