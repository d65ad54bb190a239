// Package glbuild implements the target independent machinery of shader stage
// generation: node implementation registry, generation context and options,
// variable blocks, stages and the function definition and call emission shared
// by all node implementations.
package glbuild

import (
	"bytes"
	"errors"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrConfig is returned when generation options select an unrecognized mode.
	ErrConfig = errors.New("glbuild: invalid configuration")
	// ErrLookup is returned when a required implementation, definition or
	// library source cannot be found.
	ErrLookup = errors.New("glbuild: lookup failed")
)

// Stage names.
const (
	StageVertex = "vertex"
	StagePixel  = "pixel"
)

// Variable block names and instances.
const (
	BlockVertexInputs    = "VertexInputs"
	BlockVertexData      = "VertexData"
	BlockPrivateUniforms = "PrivateUniforms"
	BlockPublicUniforms  = "PublicUniforms"
	BlockLightData       = "LightData"
	BlockPixelOutputs    = "PixelOutputs"

	InstanceVertexData = "vd"
	InstanceLightData  = "u_lightData"
)

// Preprocessor defines emitted in the pixel stage.
const (
	DefineMaxLightSources       = "MAX_LIGHT_SOURCES"
	DefineDirectionalAlbedo     = "DIRECTIONAL_ALBEDO_METHOD"
	DefineEnvRadianceMaxSamples = "ENV_RADIANCE_MAX_SAMPLES"
)

// Tokens are placeholders written in emitted source and variable names.
// They are replaced by a single substitution pass once a stage is complete.
const (
	TokenWorldMatrix                 = "$worldMatrix"
	TokenWorldInverseMatrix          = "$worldInverseMatrix"
	TokenWorldTransposeMatrix        = "$worldTransposeMatrix"
	TokenWorldInverseTransposeMatrix = "$worldInverseTransposeMatrix"
	TokenViewProjectionMatrix        = "$viewProjectionMatrix"
	TokenViewPosition                = "$viewPosition"
	TokenInPosition                  = "$inPosition"
	TokenInNormal                    = "$inNormal"
	TokenInTangent                   = "$inTangent"
	TokenInTexcoord                  = "$inTexcoord"
	TokenInColor                     = "$inColor"
	TokenInGeomprop                  = "$inGeomprop"
	TokenPositionWorld               = "$positionWorld"
	TokenNormalWorld                 = "$normalWorld"
	TokenTangentWorld                = "$tangentWorld"
	TokenBitangentWorld              = "$bitangentWorld"
	TokenPositionObject              = "$positionObject"
	TokenNormalObject                = "$normalObject"
	TokenTangentObject               = "$tangentObject"
	TokenBitangentObject             = "$bitangentObject"
	TokenTexcoord                    = "$texcoord"
	TokenColor                       = "$color"
	TokenGeomprop                    = "$geomprop"
	TokenFrame                       = "$frame"
	TokenAlphaThreshold              = "$alphaThreshold"
	TokenNumActiveLightSources       = "$numActiveLightSources"
	TokenLightData                   = "$lightData"
	TokenShadowMap                   = "$shadowMap"
	TokenShadowMatrix                = "$shadowMatrix"
	TokenAmbOccMap                   = "$ambOccMap"
	TokenAmbOccGain                  = "$ambOccGain"
	TokenEnvMatrix                   = "$envMatrix"
	TokenEnvRadiance                 = "$envRadiance"
	TokenEnvIrradiance               = "$envIrradiance"
	TokenEnvRadianceMips             = "$envRadianceMips"
	TokenEnvRadianceSamples          = "$envRadianceSamples"
	TokenAlbedoTable                 = "$albedoTable"
	TokenAlbedoTableSize             = "$albedoTableSize"
	// TokenFileTransformUv resolves to the uv transform library source selected by
	// the vertical flip option.
	TokenFileTransformUv = "$fileTransformUv"
)

// Tokens returns the option independent token table: token to identifier.
func Tokens() map[string]string {
	return map[string]string{
		TokenWorldMatrix:                 "u_worldMatrix",
		TokenWorldInverseMatrix:          "u_worldInverseMatrix",
		TokenWorldTransposeMatrix:        "u_worldTransposeMatrix",
		TokenWorldInverseTransposeMatrix: "u_worldInverseTransposeMatrix",
		TokenViewProjectionMatrix:        "u_viewProjectionMatrix",
		TokenViewPosition:                "u_viewPosition",
		TokenInPosition:                  "i_position",
		TokenInNormal:                    "i_normal",
		TokenInTangent:                   "i_tangent",
		TokenInTexcoord:                  "i_texcoord",
		TokenInColor:                     "i_color",
		TokenInGeomprop:                  "i_geomprop",
		TokenPositionWorld:               "positionWorld",
		TokenNormalWorld:                 "normalWorld",
		TokenTangentWorld:                "tangentWorld",
		TokenBitangentWorld:              "bitangentWorld",
		TokenPositionObject:              "positionObject",
		TokenNormalObject:                "normalObject",
		TokenTangentObject:               "tangentObject",
		TokenBitangentObject:             "bitangentObject",
		TokenTexcoord:                    "texcoord",
		TokenColor:                       "color",
		TokenGeomprop:                    "u_geomprop",
		TokenFrame:                       "u_frame",
		TokenAlphaThreshold:              "u_alphaThreshold",
		TokenNumActiveLightSources:       "u_numActiveLightSources",
		TokenLightData:                   InstanceLightData,
		TokenShadowMap:                   "u_shadowMap",
		TokenShadowMatrix:                "u_shadowMatrix",
		TokenAmbOccMap:                   "u_ambOccMap",
		TokenAmbOccGain:                  "u_ambOccGain",
		TokenEnvMatrix:                   "u_envMatrix",
		TokenEnvRadiance:                 "u_envRadiance",
		TokenEnvIrradiance:               "u_envIrradiance",
		TokenEnvRadianceMips:             "u_envRadianceMips",
		TokenEnvRadianceSamples:          "u_envRadianceSamples",
		TokenAlbedoTable:                 "u_albedoTable",
		TokenAlbedoTableSize:             "u_albedoTableSize",
	}
}

// NewTokenReplacer returns a replacer performing a single pass over the
// tokens. Longer tokens are matched first so a token that prefixes another,
// like $envRadiance and $envRadianceMips, never shadows it.
func NewTokenReplacer(tokens map[string]string) *strings.Replacer {
	keys := make([]string, 0, len(tokens))
	for k := range tokens {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	oldnew := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		oldnew = append(oldnew, k, tokens[k])
	}
	return strings.NewReplacer(oldnew...)
}

// AppendDefineDecl appends a preprocessor define on its own line.
func AppendDefineDecl(b []byte, aliasToDefine, aliasReplace string) []byte {
	b = append(b, "#define "...)
	b = append(b, aliasToDefine...)
	b = append(b, ' ')
	b = append(b, aliasReplace...)
	b = append(b, '\n')
	return b
}

// AppendFloat appends the shortest decimal notation of v that parses back to
// v. The decimal separator is always followed by at least one digit so the
// literal is never parsed as an integer, i.e: 1 is written as "1.0".
func AppendFloat(b []byte, v float32) []byte {
	if v == 0 {
		// Also catches negative zero.
		return append(b, "0.0"...)
	}
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', -1, 32)
	if bytes.IndexByte(b[start:], '.') < 0 {
		b = append(b, '.', '0')
	}
	return b
}

// AppendFloats appends the values separated by sep.
func AppendFloats(b []byte, sep string, s ...float32) []byte {
	for i, v := range s {
		b = AppendFloat(b, v)
		if i != len(s)-1 {
			b = append(b, sep...)
		}
	}
	return b
}
