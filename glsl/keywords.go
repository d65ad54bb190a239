package glsl

// reserved holds the GLSL keywords, reserved words and built-in function
// names, plus the names of types and functions generated shaders define.
var reserved = map[string]struct{}{
	// Types.
	"void": {}, "bool": {}, "int": {}, "uint": {}, "float": {}, "double": {},
	"vec2": {}, "vec3": {}, "vec4": {}, "ivec2": {}, "ivec3": {}, "ivec4": {},
	"uvec2": {}, "uvec3": {}, "uvec4": {}, "bvec2": {}, "bvec3": {}, "bvec4": {},
	"dvec2": {}, "dvec3": {}, "dvec4": {},
	"mat2": {}, "mat3": {}, "mat4": {}, "mat2x2": {}, "mat2x3": {}, "mat2x4": {},
	"mat3x2": {}, "mat3x3": {}, "mat3x4": {}, "mat4x2": {}, "mat4x3": {}, "mat4x4": {},
	"sampler1D": {}, "sampler2D": {}, "sampler3D": {}, "samplerCube": {},
	"sampler1DShadow": {}, "sampler2DShadow": {}, "samplerCubeShadow": {},
	"sampler1DArray": {}, "sampler2DArray": {}, "samplerBuffer": {}, "sampler2DMS": {},
	"isampler2D": {}, "usampler2D": {}, "image2D": {}, "atomic_uint": {},

	// Keywords.
	"attribute": {}, "const": {}, "uniform": {}, "varying": {}, "buffer": {}, "shared": {},
	"coherent": {}, "volatile": {}, "restrict": {}, "readonly": {}, "writeonly": {},
	"layout": {}, "centroid": {}, "flat": {}, "smooth": {}, "noperspective": {},
	"patch": {}, "sample": {}, "break": {}, "continue": {}, "do": {}, "for": {},
	"while": {}, "switch": {}, "case": {}, "default": {}, "if": {}, "else": {},
	"subroutine": {}, "in": {}, "out": {}, "inout": {}, "true": {}, "false": {},
	"invariant": {}, "precise": {}, "discard": {}, "return": {}, "struct": {},
	"lowp": {}, "mediump": {}, "highp": {}, "precision": {},

	// Reserved for future use.
	"common": {}, "partition": {}, "active": {}, "asm": {}, "class": {}, "union": {},
	"enum": {}, "typedef": {}, "template": {}, "this": {}, "resource": {}, "goto": {},
	"inline": {}, "noinline": {}, "public": {}, "static": {}, "extern": {}, "external": {},
	"interface": {}, "long": {}, "short": {}, "half": {}, "fixed": {}, "unsigned": {},
	"superp": {}, "input": {}, "output": {}, "filter": {}, "sizeof": {}, "cast": {},
	"namespace": {}, "using": {},

	// Built-in functions.
	"main": {}, "radians": {}, "degrees": {}, "sin": {}, "cos": {}, "tan": {},
	"asin": {}, "acos": {}, "atan": {}, "pow": {}, "exp": {}, "log": {}, "exp2": {},
	"log2": {}, "sqrt": {}, "inversesqrt": {}, "abs": {}, "sign": {}, "floor": {},
	"trunc": {}, "round": {}, "ceil": {}, "fract": {}, "mod": {}, "min": {}, "max": {},
	"clamp": {}, "mix": {}, "step": {}, "smoothstep": {}, "length": {}, "distance": {},
	"dot": {}, "cross": {}, "normalize": {}, "reflect": {}, "refract": {},
	"transpose": {}, "determinant": {}, "inverse": {}, "texture": {}, "textureLod": {},
	"textureSize": {}, "texelFetch": {}, "dFdx": {}, "dFdy": {}, "fwidth": {},

	// Defined by generated shaders.
	"BSDF": {}, "EDF": {}, "VDF": {}, "surfaceshader": {}, "volumeshader": {},
	"displacementshader": {}, "lightshader": {}, "material": {}, "LightData": {},
	"VertexData": {}, "vd": {}, "hPositionWorld": {},
	"numActiveLightSources": {}, "sampleLightSource": {},
}

func isReserved(name string) bool {
	_, ok := reserved[name]
	return ok
}
