package glbuild

import "github.com/soypat/glshade"

// Implementation emits the code of one node family for a target.
// Methods receive the stage being emitted and must emit nothing for stages
// they do not take part in.
type Implementation interface {
	// CreateVariables adds the uniforms, stage inputs and varyings the node
	// requires to the shader's variable blocks. Called once per node before
	// any stage is emitted.
	CreateVariables(node *glshade.Node, ctx *Context, sh *Shader) error
	// EmitFunctionDefinition emits the functions called by EmitFunctionCall.
	// Called once per stage for each distinct implementation.
	EmitFunctionDefinition(node *glshade.Node, ctx *Context, st *Stage) error
	// EmitFunctionCall emits the statements computing the node's outputs.
	EmitFunctionCall(node *glshade.Node, ctx *Context, st *Stage) error
	// IsEditable reports whether an unconnected input of the node may be
	// published as a uniform.
	IsEditable(in *glshade.Input) bool
}

// DependencyEmitter is implemented by emitters that emit the calls of
// their upstream nodes themselves, i.e: to evaluate an input under another
// closure context. See [EmitDependentFunctionCalls].
type DependencyEmitter interface {
	EmitDependencies(node *glshade.Node, ctx *Context, st *Stage, class glshade.Classification) error
}

// Syntax renders types and values as source text of a target language.
type Syntax interface {
	TypeName(t *glshade.TypeDesc) string
	// Value renders a literal. When uniform is true the literal is a uniform
	// initializer and types that cannot be initialized render as "".
	Value(t *glshade.TypeDesc, v glshade.Value, uniform bool) string
	// DefaultValue renders the zero literal of t.
	DefaultValue(t *glshade.TypeDesc, uniform bool) string
	// SwizzledVariable renders the channels of src as a dstType expression.
	SwizzledVariable(src string, srcType *glshade.TypeDesc, channels string, dstType *glshade.TypeDesc) (string, error)
	// ArrayVariableSuffix renders the array size of an array variable, i.e: "[4]".
	ArrayVariableSuffix(t *glshade.TypeDesc, v glshade.Value) string
	// MakeIdentifier returns name modified to be a valid, non reserved identifier.
	MakeIdentifier(name string) string

	ConstantQualifier() string
	UniformQualifier() string
	InputQualifier() string
	OutputQualifier() string
	FlatQualifier() string
}

var immutableInputs = map[string]bool{
	// Changing these requires regenerating the shader.
	"index":    true,
	"space":    true,
	"attrname": true,
	"channels": true,
}

// Base implements the methods of [Implementation] with no output. Node
// implementations embed it and override what they need.
type Base struct{}

func (Base) CreateVariables(*glshade.Node, *Context, *Shader) error      { return nil }
func (Base) EmitFunctionDefinition(*glshade.Node, *Context, *Stage) error { return nil }
func (Base) EmitFunctionCall(*glshade.Node, *Context, *Stage) error       { return nil }

// IsEditable reports false for inputs that select code paths such as
// "index" and "space", for strings and for closure or shader inputs.
func (Base) IsEditable(in *glshade.Input) bool {
	switch in.Type.BaseType() {
	case glshade.BaseStruct, glshade.BaseNone:
		return false
	case glshade.BaseString:
		return in.Type == glshade.TypeFilename
	}
	return !immutableInputs[in.Name]
}
