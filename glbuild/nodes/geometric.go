package nodes

import (
	"fmt"
	"strconv"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
)

const (
	spaceObject = "object"
	spaceWorld  = "world"
)

func spaceInput(node *glshade.Node, name string) string {
	switch s := stringInput(node, name, spaceObject); s {
	case "model":
		return spaceObject
	default:
		return s
	}
}

const (
	worldNormalExpr  = "normalize((" + glbuild.TokenWorldInverseTransposeMatrix + " * vec4(" + glbuild.TokenInNormal + ", 0.0)).xyz)"
	worldTangentExpr = "normalize((" + glbuild.TokenWorldMatrix + " * vec4(" + glbuild.TokenInTangent + ", 0.0)).xyz)"
)

// geomVarying describes how a geometric quantity reaches the pixel stage in
// one coordinate space.
type geomVarying struct {
	varying    string
	vertexExpr string
	attributes []string
	// uniforms are vertex stage matrices referenced by vertexExpr.
	uniforms  []string
	normalize bool
}

var geometry = map[string]map[string]geomVarying{
	"position": {
		spaceWorld:  {varying: glbuild.TokenPositionWorld, vertexExpr: "hPositionWorld.xyz"},
		spaceObject: {varying: glbuild.TokenPositionObject, vertexExpr: glbuild.TokenInPosition},
	},
	"normal": {
		spaceWorld: {
			varying: glbuild.TokenNormalWorld, vertexExpr: worldNormalExpr, normalize: true,
			attributes: []string{glbuild.TokenInNormal}, uniforms: []string{glbuild.TokenWorldInverseTransposeMatrix},
		},
		spaceObject: {
			varying: glbuild.TokenNormalObject, vertexExpr: glbuild.TokenInNormal, normalize: true,
			attributes: []string{glbuild.TokenInNormal},
		},
	},
	"tangent": {
		spaceWorld: {
			varying: glbuild.TokenTangentWorld, vertexExpr: worldTangentExpr, normalize: true,
			attributes: []string{glbuild.TokenInTangent},
		},
		spaceObject: {
			varying: glbuild.TokenTangentObject, vertexExpr: glbuild.TokenInTangent, normalize: true,
			attributes: []string{glbuild.TokenInTangent},
		},
	},
	"bitangent": {
		spaceWorld: {
			varying: glbuild.TokenBitangentWorld, vertexExpr: "cross(" + worldNormalExpr + ", " + worldTangentExpr + ")", normalize: true,
			attributes: []string{glbuild.TokenInNormal, glbuild.TokenInTangent}, uniforms: []string{glbuild.TokenWorldInverseTransposeMatrix},
		},
		spaceObject: {
			varying: glbuild.TokenBitangentObject, vertexExpr: "cross(" + glbuild.TokenInNormal + ", " + glbuild.TokenInTangent + ")", normalize: true,
			attributes: []string{glbuild.TokenInNormal, glbuild.TokenInTangent},
		},
	},
}

// Geometric emits the position, normal, tangent and bitangent nodes. The
// vertex stage computes the quantity in the space selected by the "space"
// input and passes it to the pixel stage as a varying.
type Geometric struct {
	glbuild.Base
	Op string
}

// NewGeometric returns a factory of emitters of the geometric node op.
func NewGeometric(op string) glbuild.Factory {
	return func() glbuild.Implementation { return &Geometric{Op: op} }
}

func (g *Geometric) lookup(node *glshade.Node) (geomVarying, error) {
	space := spaceInput(node, "space")
	gv, ok := geometry[g.Op][space]
	if !ok {
		return gv, fmt.Errorf("node %q: %s has no %q space", node.Name(), g.Op, space)
	}
	return gv, nil
}

func (g *Geometric) CreateVariables(node *glshade.Node, ctx *glbuild.Context, sh *glbuild.Shader) error {
	gv, err := g.lookup(node)
	if err != nil {
		return err
	}
	for _, attr := range gv.attributes {
		sh.AddVertexInput(glshade.TypeVector3, attr)
	}
	for _, u := range gv.uniforms {
		sh.AddPrivateUniform(sh.Vertex(), glshade.TypeMatrix44, u, glshade.Value{})
	}
	sh.AddStageConnector(glshade.TypeVector3, gv.varying)
	return nil
}

func (g *Geometric) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	gv, err := g.lookup(node)
	if err != nil {
		return err
	}
	if isVertex(st) {
		emitVarying(st, gv.varying, gv.vertexExpr)
		return nil
	}
	expr := glbuild.VaryingPrefix() + gv.varying
	if gv.normalize {
		expr = "normalize(" + expr + ")"
	}
	emitOutput(node, st, expr)
	return nil
}

// Indexed emits the texcoord and geomcolor nodes reading the vertex
// attribute set selected by the "index" input.
type Indexed struct {
	glbuild.Base
	Attribute string
	Varying   string
}

func NewTexcoord() glbuild.Implementation {
	return &Indexed{Attribute: glbuild.TokenInTexcoord, Varying: glbuild.TokenTexcoord}
}

func NewGeomColor() glbuild.Implementation {
	return &Indexed{Attribute: glbuild.TokenInColor, Varying: glbuild.TokenColor}
}

func (ix *Indexed) names(node *glshade.Node) (attr, varying string) {
	suffix := "_" + strconv.Itoa(intInput(node, "index"))
	return ix.Attribute + suffix, ix.Varying + suffix
}

func (ix *Indexed) CreateVariables(node *glshade.Node, ctx *glbuild.Context, sh *glbuild.Shader) error {
	attr, varying := ix.names(node)
	t := node.Output("").Type
	sh.AddVertexInput(t, attr)
	sh.AddStageConnector(t, varying)
	return nil
}

func (ix *Indexed) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	attr, varying := ix.names(node)
	if isVertex(st) {
		emitVarying(st, varying, attr)
		return nil
	}
	emitOutput(node, st, glbuild.VaryingPrefix()+varying)
	return nil
}

// addTexcoord declares texture coordinate set index as a vertex attribute
// passed to the pixel stage and returns the name of the varying.
func addTexcoord(sh *glbuild.Shader, index int) string {
	suffix := "_" + strconv.Itoa(index)
	sh.AddVertexInput(glshade.TypeVector2, glbuild.TokenInTexcoord+suffix)
	sh.AddStageConnector(glshade.TypeVector2, glbuild.TokenTexcoord+suffix)
	return glbuild.TokenTexcoord + suffix
}

func emitTexcoordVarying(st *glbuild.Stage, index int) {
	suffix := "_" + strconv.Itoa(index)
	emitVarying(st, glbuild.TokenTexcoord+suffix, glbuild.TokenInTexcoord+suffix)
}

// GeomPropValue reads the named geometric property from the "geomprop"
// input. Boolean and string properties are constant over a primitive and
// are read from uniforms, other types are interpolated vertex attributes.
type GeomPropValue struct{ glbuild.Base }

func NewGeomPropValue() glbuild.Implementation { return &GeomPropValue{} }

func (*GeomPropValue) isUniform(t *glshade.TypeDesc) bool {
	return t == glshade.TypeBoolean || t.BaseType() == glshade.BaseString
}

func (gp *GeomPropValue) name(node *glshade.Node) (string, error) {
	prop := stringInput(node, "geomprop", "")
	if err := glshade.ValidateIdentifier(prop); err != nil {
		return "", fmt.Errorf("node %q geomprop: %w", node.Name(), err)
	}
	if gp.isUniform(node.Output("").Type) {
		return glbuild.TokenGeomprop + "_" + prop, nil
	}
	return glbuild.TokenInGeomprop + "_" + prop, nil
}

func (gp *GeomPropValue) CreateVariables(node *glshade.Node, ctx *glbuild.Context, sh *glbuild.Shader) error {
	name, err := gp.name(node)
	if err != nil {
		return err
	}
	t := node.Output("").Type
	if gp.isUniform(t) {
		sh.AddPrivateUniform(sh.Pixel(), t, name, glshade.Value{})
		return nil
	}
	sh.AddVertexInput(t, name)
	sh.AddStageConnector(t, name)
	return nil
}

func (gp *GeomPropValue) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	name, err := gp.name(node)
	if err != nil {
		return err
	}
	uniform := gp.isUniform(node.Output("").Type)
	switch {
	case isVertex(st) && !uniform:
		emitVarying(st, name, name)
	case isPixel(st) && uniform:
		emitOutput(node, st, name)
	case isPixel(st):
		emitOutput(node, st, glbuild.VaryingPrefix()+name)
	}
	return nil
}

// Frame emits the current frame number.
type Frame struct{ glbuild.Base }

func NewFrame() glbuild.Implementation { return &Frame{} }

func (*Frame) CreateVariables(node *glshade.Node, ctx *glbuild.Context, sh *glbuild.Shader) error {
	sh.AddPrivateUniform(sh.Pixel(), glshade.TypeFloat, glbuild.TokenFrame, glshade.Value{})
	return nil
}

func (*Frame) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if isPixel(st) {
		emitOutput(node, st, glbuild.TokenFrame)
	}
	return nil
}

// Time emits the time in seconds derived from the frame number and the
// "fps" input.
type Time struct{ Frame }

func NewTime() glbuild.Implementation { return &Time{} }

func (*Time) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	fps, err := glbuild.InputExprByName(node, "fps", st)
	if err != nil {
		return err
	}
	emitOutput(node, st, glbuild.TokenFrame+" / "+fps)
	return nil
}

// Transform transforms the "in" input between the object and world spaces
// named by the "fromspace" and "tospace" inputs.
type Transform struct {
	glbuild.Base
	// Kind is one of "point", "vector" or "normal".
	Kind string
}

func NewTransform(kind string) glbuild.Factory {
	return func() glbuild.Implementation { return &Transform{Kind: kind} }
}

func (tf *Transform) matrix(node *glshade.Node) (string, error) {
	from, to := spaceInput(node, "fromspace"), spaceInput(node, "tospace")
	switch {
	case from == to:
		return "", nil
	case from == spaceObject && to == spaceWorld:
		if tf.Kind == "normal" {
			return glbuild.TokenWorldInverseTransposeMatrix, nil
		}
		return glbuild.TokenWorldMatrix, nil
	case from == spaceWorld && to == spaceObject:
		if tf.Kind == "normal" {
			return glbuild.TokenWorldTransposeMatrix, nil
		}
		return glbuild.TokenWorldInverseMatrix, nil
	}
	return "", fmt.Errorf("node %q: unsupported transform from %q to %q space", node.Name(), from, to)
}

func (tf *Transform) CreateVariables(node *glshade.Node, ctx *glbuild.Context, sh *glbuild.Shader) error {
	m, err := tf.matrix(node)
	if err == nil && m != "" {
		sh.AddPrivateUniform(sh.Pixel(), glshade.TypeMatrix44, m, glshade.Value{})
	}
	return err
}

func (tf *Transform) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	m, err := tf.matrix(node)
	if err != nil {
		return err
	}
	in, err := glbuild.InputExprByName(node, "in", st)
	if err != nil {
		return err
	}
	switch {
	case m == "":
		emitOutput(node, st, in)
	case tf.Kind == "point":
		emitOutput(node, st, "("+m+" * vec4("+in+", 1.0)).xyz")
	case tf.Kind == "normal":
		emitOutput(node, st, "normalize(("+m+" * vec4("+in+", 0.0)).xyz)")
	default:
		emitOutput(node, st, "("+m+" * vec4("+in+", 0.0)).xyz")
	}
	return nil
}
