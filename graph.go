package glshade

import (
	"strings"
)

// Classification is a set of orthogonal capability flags carried by a node.
// Flags drive code generation dispatch; they do not form a type hierarchy.
type Classification uint16

const (
	ClassTexture Classification = 1 << iota
	ClassClosure
	ClassShader
	ClassSurface
	ClassBSDF
	ClassBSDFReflection
	ClassBSDFTransmission
	ClassEDF
	ClassVDF
	ClassLight
	ClassLayer
	ClassSample2D
	ClassConstant
	// ClassThinFilm marks a BSDF that modifies the Fresnel of the BSDF it is
	// layered over instead of contributing a response.
	ClassThinFilm
)

var classNames = [...]string{
	"TEXTURE", "CLOSURE", "SHADER", "SURFACE", "BSDF", "BSDF_R", "BSDF_T",
	"EDF", "VDF", "LIGHT", "LAYER", "SAMPLE2D", "CONSTANT", "THINFILM",
}

// Has reports whether all flags in c are set.
func (cl Classification) Has(c Classification) bool { return cl&c == c }

func (cl Classification) String() string {
	if cl == 0 {
		return "NONE"
	}
	var sb strings.Builder
	for i, name := range classNames {
		if cl&(1<<i) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(name)
	}
	return sb.String()
}

// DefaultClassification derives the classification of a node from the type it outputs.
func DefaultClassification(out *TypeDesc) Classification {
	switch out {
	case TypeBSDF:
		return ClassClosure | ClassBSDF
	case TypeEDF:
		return ClassClosure | ClassEDF
	case TypeVDF:
		return ClassClosure | ClassVDF
	case TypeSurfaceShader, TypeMaterial:
		return ClassSurface | ClassShader
	case TypeLightShader:
		return ClassLight | ClassShader
	case TypeVolumeShader, TypeDisplacementShader:
		return ClassShader
	}
	return ClassTexture
}

// Variant distinguishes overloads of an operation that share types but
// select on a different selector type.
type Variant uint8

const (
	VariantNone Variant = iota
	VariantInteger
	VariantBoolean
)

func (v Variant) suffix() string {
	switch v {
	case VariantInteger:
		return "I"
	case VariantBoolean:
		return "B"
	}
	return ""
}

// ImplID identifies the implementation of a node definition independent of target.
// It is the join key between nodes and registered code emitters.
type ImplID struct {
	// Op is the operation name, i.e: "add", "swizzle", "dielectric_bsdf".
	Op string
	// Signature enumerates the concrete types of the operation, i.e: "color3", "float_vector3".
	Signature string
	Variant   Variant
}

// Identity returns the conventional implementation name for the target:
//
//	IM_<op>_<signature><variant>_<target>
func (id ImplID) Identity(target string) string {
	var sb strings.Builder
	sb.WriteString("IM_")
	sb.WriteString(id.Op)
	if id.Signature != "" || id.Variant != VariantNone {
		sb.WriteByte('_')
		sb.WriteString(id.Signature)
		sb.WriteString(id.Variant.suffix())
	}
	sb.WriteByte('_')
	sb.WriteString(target)
	return sb.String()
}

func (id ImplID) String() string { return id.Identity("*") }

// NodeDefName returns the conventional name of the node definition
// implemented by id: ND_<op>_<signature><variant>.
func (id ImplID) NodeDefName() string {
	return "ND_" + strings.TrimPrefix(strings.TrimSuffix(id.Identity(""), "_"), "IM_")
}

// Signature joins the names of types into an [ImplID] signature, i.e:
// Signature(TypeColor3, TypeFloat) returns "color3_float".
func Signature(types ...*TypeDesc) string {
	var sb strings.Builder
	for i, t := range types {
		if i > 0 {
			sb.WriteByte('_')
		}
		sb.WriteString(t.name)
	}
	return sb.String()
}

// PortDef declares an input or output of a [NodeDef].
type PortDef struct {
	Name  string
	Type  *TypeDesc
	Value Value
	// Uniform marks inputs that must be bound as uniforms rather than literals.
	Uniform bool
}

// NodeDef is the declared signature of an operation.
type NodeDef struct {
	Name    string
	Impl    ImplID
	Inputs  []PortDef
	Outputs []PortDef
	// Class is OR'd with the classification derived from the first output type.
	Class Classification
}

// OutputType returns the type of the first output, or TypeNone.
func (nd *NodeDef) OutputType() *TypeDesc {
	if nd == nil || len(nd.Outputs) == 0 {
		return TypeNone
	}
	return nd.Outputs[0].Type
}

// PortFlags hold per-port generation state.
type PortFlags uint8

const (
	PortUniform PortFlags = 1 << iota
	PortEmitted
)

// Port is a typed named value. Stage variables and node inputs/outputs are all ports.
type Port struct {
	Name string
	// Variable is the identifier used for the port in generated code.
	Variable string
	Type     *TypeDesc
	Value    Value
	Semantic string
	Flags    PortFlags
}

// IsEmitted reports whether code assigning the port has been emitted.
func (p *Port) IsEmitted() bool { return p.Flags&PortEmitted != 0 }
func (p *Port) SetEmitted()     { p.Flags |= PortEmitted }

// Input is a node input or a graph's output socket.
type Input struct {
	Port
	node *Node
	conn *Output
}

// Node returns the owning node, nil for a graph output socket.
func (in *Input) Node() *Node { return in.node }

// Connection returns the upstream output, if any.
func (in *Input) Connection() *Output { return in.conn }
func (in *Input) IsConnected() bool   { return in.conn != nil }

// Output is a node output or a graph's input socket.
type Output struct {
	Port
	node  *Node
	conns []*Input
}

// Node returns the owning node, nil for a graph input socket.
func (out *Output) Node() *Node         { return out.node }
func (out *Output) Connections() []*Input { return out.conns }

// Node is an instance of a shading operation within a [Graph].
type Node struct {
	name    string
	def     *NodeDef
	class   Classification
	inputs  []*Input
	outputs []*Output
	graph   *Graph
}

func (n *Node) Name() string                   { return n.name }
func (n *Node) Def() *NodeDef                  { return n.def }
func (n *Node) Impl() ImplID                   { return n.def.Impl }
func (n *Node) Classification() Classification { return n.class }
func (n *Node) Has(c Classification) bool      { return n.class.Has(c) }
func (n *Node) Inputs() []*Input               { return n.inputs }
func (n *Node) Outputs() []*Output             { return n.outputs }

// Graph returns the graph containing the node, nil for standalone nodes.
func (n *Node) Graph() *Graph { return n.graph }

// Input returns the named input or nil.
func (n *Node) Input(name string) *Input {
	for _, in := range n.inputs {
		if in.Name == name {
			return in
		}
	}
	return nil
}

// Output returns the named output, or the first output when name is empty.
func (n *Node) Output(name string) *Output {
	if name == "" && len(n.outputs) > 0 {
		return n.outputs[0]
	}
	for _, out := range n.outputs {
		if out.Name == name {
			return out
		}
	}
	return nil
}

// Upstream returns the node connected to the named input, if any.
func (n *Node) Upstream(input string) *Node {
	in := n.Input(input)
	if in == nil || in.conn == nil {
		return nil
	}
	return in.conn.node
}

// Graph is a directed acyclic graph of nodes feeding one output socket.
// A Graph is read-only once built and safe for concurrent readers.
type Graph struct {
	name     string
	nodes    []*Node
	inputs   []*Output
	output   *Input
	channels string
	class    Classification
	def      *NodeDef
}

func (g *Graph) Name() string { return g.name }

// Nodes returns the graph's nodes in dependency order, upstream nodes first.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Inputs returns the graph's interface input sockets.
func (g *Graph) Inputs() []*Output { return g.inputs }

// Input returns the named input socket or nil.
func (g *Graph) Input(name string) *Output {
	for _, in := range g.inputs {
		if in.Name == name {
			return in
		}
	}
	return nil
}

// Output returns the graph's output socket.
func (g *Graph) Output() *Input { return g.output }

// Channels returns the swizzle applied to the output socket, empty for none.
func (g *Graph) Channels() string { return g.channels }

// Classification returns the classification of the node feeding the output socket.
func (g *Graph) Classification() Classification { return g.class }
func (g *Graph) Has(c Classification) bool      { return g.class.Has(c) }

// NodeDef returns the node definition implemented by the graph, nil if the
// graph is not a compound implementation.
func (g *Graph) NodeDef() *NodeDef { return g.def }
