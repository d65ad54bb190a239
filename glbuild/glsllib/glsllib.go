// Package glsllib embeds the GLSL library sources generated shaders include.
// File names are relative to the returned file system and follow the
// <library>/genglsl layout so user search paths may override single files.
package glsllib

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/soypat/glshade/glbuild"
)

//go:embed pbrlib stdlib
var lib embed.FS

// FS returns the embedded library. Add it last to a [glbuild.Context]
// search path so user files take precedence.
func FS() fs.FS { return lib }

// Library files included by the stage emitters.
const (
	Defines     = "pbrlib/genglsl/lib/mx_defines.glsl"
	Math        = "pbrlib/genglsl/lib/mx_math.glsl"
	Microfacet  = "pbrlib/genglsl/lib/mx_microfacet.glsl"
	Shadow      = "pbrlib/genglsl/lib/mx_shadow.glsl"
	AlbedoTable = "pbrlib/genglsl/lib/mx_table.glsl"
	// HSV defines mx_hsvtorgb_color3 and mx_rgbtohsv_color3.
	HSV = "stdlib/genglsl/mx_hsv.glsl"
	// Sampling defines mx_compute_sample_size_uv and mx_normal_from_samples_sobel.
	Sampling = "stdlib/genglsl/lib/mx_sampling.glsl"

	environmentFIS       = "pbrlib/genglsl/lib/mx_environment_fis.glsl"
	environmentPrefilter = "pbrlib/genglsl/lib/mx_environment_prefilter.glsl"
	environmentNone      = "pbrlib/genglsl/lib/mx_environment_none.glsl"
	transformUV          = "stdlib/genglsl/lib/mx_transform_uv.glsl"
	transformUVFlip      = "stdlib/genglsl/lib/mx_transform_uv_vflip.glsl"
)

// EnvironmentFile returns the library implementing specular environment
// lighting with method m.
//
//	vec3 mx_environment_radiance(vec3 N, vec3 V, vec3 F0, float alpha)
//	vec3 mx_environment_irradiance(vec3 N)
func EnvironmentFile(m glbuild.SpecularEnvironmentMethod) (string, error) {
	switch m {
	case glbuild.SpecularEnvironmentFIS:
		return environmentFIS, nil
	case glbuild.SpecularEnvironmentPrefilter:
		return environmentPrefilter, nil
	case glbuild.SpecularEnvironmentNone:
		return environmentNone, nil
	}
	return "", fmt.Errorf("%w: invalid hardware specular environment method specified: '%d'", glbuild.ErrConfig, m)
}

// TransformUVFile returns the library substituted for the
// [glbuild.TokenFileTransformUv] token.
//
//	vec2 mx_transform_uv(vec2 uv, vec2 uv_scale, vec2 uv_offset)
func TransformUVFile(vflip bool) string {
	if vflip {
		return transformUVFlip
	}
	return transformUV
}

// NodeFile returns the library defining the functions of the node
// implementation named op, i.e: "pbrlib/genglsl/mx_dielectric_bsdf.glsl".
func NodeFile(op string) string { return "pbrlib/genglsl/mx_" + op + ".glsl" }
