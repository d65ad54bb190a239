package glshade

import (
	"errors"
	"fmt"
	"strings"
)

// Builder constructs a [Graph]. Provides error handling strategies with panics
// or error accumulation during graph construction.
type Builder struct {
	// NoPanic makes the builder accumulate errors instead of panicking.
	// Accumulated errors are returned by [Builder.Err] and [Builder.Graph].
	NoPanic   bool
	name      string
	nodes     []*Node
	byName    map[string]*Node
	inputs    []*Output
	output    *Input
	channels  string
	def       *NodeDef
	accumErrs []error
}

// NewBuilder returns a builder for a graph with the given name.
func NewBuilder(name string) *Builder {
	bld := &Builder{
		name:   name,
		byName: make(map[string]*Node),
		output: &Input{Port: Port{Name: "out", Variable: "out", Type: TypeNone}},
	}
	if err := ValidateIdentifier(name); err != nil {
		bld.errorf("graph name: %w", err)
	}
	return bld
}

func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

func (bld *Builder) errorf(msg string, args ...any) {
	err := fmt.Errorf(msg, args...)
	if !bld.NoPanic {
		panic(err.Error())
	}
	bld.accumErrs = append(bld.accumErrs, err)
}

// ValidateIdentifier checks name can be used verbatim as an identifier in
// generated source. Names starting with "gl_" or containing "__" are reserved.
func ValidateIdentifier(name string) error {
	if name == "" {
		return errors.New("empty identifier")
	}
	for i, c := range name {
		isAlpha := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if !isAlpha && !(isDigit && i > 0) {
			return fmt.Errorf("invalid identifier %q: bad character %q at %d", name, c, i)
		}
	}
	if strings.HasPrefix(name, "gl_") || strings.Contains(name, "__") {
		return fmt.Errorf("reserved identifier %q", name)
	}
	return nil
}

// AddNode instantiates the node definition nd under name.
func (bld *Builder) AddNode(name string, nd *NodeDef) *Node {
	if nd == nil {
		bld.errorf("node %q: nil node definition", name)
		return nil
	}
	if err := ValidateIdentifier(name); err != nil {
		bld.errorf("node: %w", err)
		return nil
	}
	if _, exists := bld.byName[name]; exists {
		bld.errorf("duplicate node name %q", name)
		return nil
	}
	n := newNode(name, nd)
	bld.nodes = append(bld.nodes, n)
	bld.byName[name] = n
	return n
}

// Node returns the node added under name or nil.
func (bld *Builder) Node(name string) *Node { return bld.byName[name] }

// NewStandaloneNode instantiates nd outside of any graph. Used for nodes
// that are generated on their own such as bound light shaders.
func NewStandaloneNode(name string, nd *NodeDef) (*Node, error) {
	if nd == nil {
		return nil, errors.New("nil node definition")
	}
	if err := ValidateIdentifier(name); err != nil {
		return nil, err
	}
	return newNode(name, nd), nil
}

func newNode(name string, nd *NodeDef) *Node {
	n := &Node{
		name:  name,
		def:   nd,
		class: DefaultClassification(nd.OutputType()) | nd.Class,
	}
	for _, pd := range nd.Inputs {
		in := &Input{
			Port: Port{Name: pd.Name, Variable: name + "_" + pd.Name, Type: pd.Type, Value: pd.Value},
			node: n,
		}
		if pd.Uniform || pd.Type == TypeFilename {
			in.Flags |= PortUniform
		}
		if !in.Value.IsValid() {
			in.Value = ZeroValue(pd.Type)
		}
		n.inputs = append(n.inputs, in)
	}
	for _, pd := range nd.Outputs {
		n.outputs = append(n.outputs, &Output{
			Port: Port{Name: pd.Name, Variable: name + "_" + pd.Name, Type: pd.Type},
			node: n,
		})
	}
	return n
}

// AddInput adds an interface input socket to the graph. Nodes of the graph
// may connect to it like to any node output.
func (bld *Builder) AddInput(name string, t *TypeDesc, v Value) *Output {
	if err := ValidateIdentifier(name); err != nil {
		bld.errorf("graph input: %w", err)
		return nil
	}
	if t == nil || t == TypeNone {
		bld.errorf("graph input %q: no type", name)
		return nil
	}
	for _, in := range bld.inputs {
		if in.Name == name {
			bld.errorf("duplicate graph input %q", name)
			return nil
		}
	}
	if v.IsValid() && v.Type() != t {
		bld.errorf("graph input %q: value of type %s for %s socket", name, v.Type(), t)
		return nil
	}
	if !v.IsValid() {
		v = ZeroValue(t)
	}
	out := &Output{Port: Port{Name: name, Variable: name, Type: t, Value: v}}
	bld.inputs = append(bld.inputs, out)
	return out
}

// Connect connects from to the named input of node to. An input accepts a
// single upstream connection while an output may feed many inputs.
func (bld *Builder) Connect(from *Output, to *Node, input string) {
	if from == nil || to == nil {
		bld.errorf("connect %q: nil endpoint", input)
		return
	}
	in := to.Input(input)
	switch {
	case in == nil:
		bld.errorf("node %q has no input %q", to.name, input)
	case in.conn != nil:
		bld.errorf("input %s.%s already connected to %s", to.name, input, in.conn.Variable)
	case in.Type != from.Type:
		bld.errorf("type mismatch connecting %s (%s) to %s.%s (%s)", from.Variable, from.Type, to.name, input, in.Type)
	default:
		in.conn = from
		from.conns = append(from.conns, in)
	}
}

// SetValue sets the literal value of an unconnected node input.
func (bld *Builder) SetValue(n *Node, input string, v Value) {
	if n == nil {
		bld.errorf("set value %q: nil node", input)
		return
	}
	in := n.Input(input)
	if in == nil {
		bld.errorf("node %q has no input %q", n.name, input)
		return
	}
	if v.Type() != in.Type {
		bld.errorf("value of type %s for %s.%s (%s)", v.Type(), n.name, input, in.Type)
		return
	}
	if err := v.Validate(); err != nil {
		bld.errorf("%s.%s: %w", n.name, input, err)
		return
	}
	in.Value = v
}

// SetOutput connects from to the graph's output socket. The socket
// takes the type of from unless a type was set beforehand.
func (bld *Builder) SetOutput(from *Output) {
	if from == nil {
		bld.errorf("set output: nil output")
		return
	}
	sock := bld.output
	if sock.conn != nil {
		bld.errorf("graph output already connected to %s", sock.conn.Variable)
		return
	}
	if sock.Type != TypeNone && sock.Type != from.Type {
		bld.errorf("type mismatch connecting %s (%s) to graph output (%s)", from.Variable, from.Type, sock.Type)
		return
	}
	sock.Type = from.Type
	sock.conn = from
	from.conns = append(from.conns, sock)
}

// SetOutputType sets the type of the output socket.
func (bld *Builder) SetOutputType(t *TypeDesc) {
	if bld.output.conn != nil && bld.output.conn.Type != t {
		bld.errorf("graph output connected to %s output, cannot set type %s", bld.output.conn.Type, t)
		return
	}
	bld.output.Type = t
}

// SetOutputValue sets the literal used for the output socket when it is
// not connected. Also sets the socket type.
func (bld *Builder) SetOutputValue(v Value) {
	if !v.IsValid() {
		bld.errorf("set output value: invalid value")
		return
	}
	if bld.output.conn != nil && bld.output.conn.Type != v.Type() {
		bld.errorf("output value type %s mismatches connected %s", v.Type(), bld.output.conn.Type)
		return
	}
	bld.output.Type = v.Type()
	bld.output.Value = v
}

// SetChannels sets a swizzle such as "rgb" or "xy" applied to the connected output.
func (bld *Builder) SetChannels(channels string) {
	if len(channels) > 4 {
		bld.errorf("channels %q: at most 4 channels", channels)
		return
	}
	for _, c := range channels {
		if !strings.ContainsRune("rgbaxyzw", c) {
			bld.errorf("channels %q: invalid channel %q", channels, c)
			return
		}
	}
	bld.channels = channels
}

// SetNodeDef marks the graph as the implementation of nd.
func (bld *Builder) SetNodeDef(nd *NodeDef) { bld.def = nd }

// Graph validates and returns the built graph. Nodes not reachable from the
// output socket are omitted; the remaining nodes are sorted upstream first.
func (bld *Builder) Graph() (*Graph, error) {
	if err := bld.Err(); err != nil {
		return nil, err
	}
	g := &Graph{
		name:     bld.name,
		inputs:   bld.inputs,
		output:   bld.output,
		channels: bld.channels,
		def:      bld.def,
	}
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[*Node]int, len(bld.nodes))
	var visit func(n *Node) error
	visit = func(n *Node) error {
		switch state[n] {
		case visiting:
			return fmt.Errorf("cycle detected at node %q", n.name)
		case visited:
			return nil
		}
		state[n] = visiting
		for _, in := range n.inputs {
			if in.conn == nil || in.conn.node == nil {
				continue
			}
			if err := visit(in.conn.node); err != nil {
				return err
			}
		}
		state[n] = visited
		g.nodes = append(g.nodes, n)
		return nil
	}
	if up := bld.output.conn; up != nil && up.node != nil {
		if err := visit(up.node); err != nil {
			return nil, err
		}
		g.class = up.node.class
	}
	// A cycle may hide upstream of nodes unreachable from the output.
	for _, n := range bld.nodes {
		if state[n] != unvisited {
			continue
		}
		sub := len(g.nodes)
		if err := visit(n); err != nil {
			return nil, err
		}
		g.nodes = g.nodes[:sub]
	}
	for _, n := range g.nodes {
		n.graph = g
	}
	return g, nil
}
