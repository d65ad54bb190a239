package glbuild

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"cogentcore.org/core/ordmap"
	"github.com/soypat/glshade"
)

// Context holds the options and optional collaborators of generation calls.
// A Context must not be shared by concurrent generation calls; it may be
// reused across sequential calls, i.e: when sweeping option variants.
type Context struct {
	Options Options
	// Bindings, if set, emits uniform declarations with explicit binding
	// points. It is re-initialized at the start of every generation call.
	Bindings ResourceBinding
	// LightShaders, if set, are the light shaders evaluated by light loops.
	LightShaders *LightShaders
	// SearchPath is searched in order for library sources.
	SearchPath []fs.FS
	// Logger receives debug records. Nil discards records.
	Logger *slog.Logger

	closures []*ClosureContext
}

// NewContext returns a context with the given options and library search path.
func NewContext(opts Options, searchPath ...fs.FS) *Context {
	return &Context{Options: opts, SearchPath: searchPath}
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Log returns the context's logger, never nil.
func (ctx *Context) Log() *slog.Logger {
	if ctx.Logger == nil {
		return discard
	}
	return ctx.Logger
}

// ResolveSourceFile reads name from the first file system of the search path containing it.
func (ctx *Context) ResolveSourceFile(name string) ([]byte, error) {
	for _, fsys := range ctx.SearchPath {
		b, err := fs.ReadFile(fsys, name)
		if err == nil {
			return b, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
	}
	return nil, fmt.Errorf("%w: source file %q not found in search path (%d entries)", ErrLookup, name, len(ctx.SearchPath))
}

// PushClosureContext makes cc the calling convention of closure function calls
// until the matching [Context.PopClosureContext].
func (ctx *Context) PushClosureContext(cc *ClosureContext) {
	ctx.closures = append(ctx.closures, cc)
}

func (ctx *Context) PopClosureContext() {
	if len(ctx.closures) == 0 {
		panic("glbuild: closure context stack underflow")
	}
	ctx.closures = ctx.closures[:len(ctx.closures)-1]
}

// ClosureContext returns the active closure calling convention or nil.
func (ctx *Context) ClosureContext() *ClosureContext {
	if len(ctx.closures) == 0 {
		return nil
	}
	return ctx.closures[len(ctx.closures)-1]
}

// ClosureKind enumerates closure calling conventions.
type ClosureKind uint8

const (
	ClosureDefault ClosureKind = iota
	ClosureReflection
	ClosureTransmission
	ClosureIndirect
	ClosureEmission
)

// ClosureContext describes how closure functions are called from a surface
// or light loop site: the function name suffix and the leading arguments.
type ClosureContext struct {
	Kind   ClosureKind
	Suffix string
	Args   []string
	// ThinFilm is the film layered over the BSDFs called under the
	// context, nil if there is none.
	ThinFilm *ThinFilm
}

// ThinFilm holds the source expressions of a thin film's thickness in
// nanometers and index of refraction.
type ThinFilm struct {
	Thickness, IOR string
}

// WithThinFilm returns a copy of cc calling BSDFs under the thin film tf.
func (cc *ClosureContext) WithThinFilm(tf *ThinFilm) *ClosureContext {
	c := *cc
	c.ThinFilm = tf
	return &c
}

// Standard closure calling conventions.
func NewReflectionContext() *ClosureContext {
	return &ClosureContext{Kind: ClosureReflection, Suffix: "_reflection", Args: []string{"L", "V", "P", "occlusion"}}
}

func NewTransmissionContext() *ClosureContext {
	return &ClosureContext{Kind: ClosureTransmission, Suffix: "_transmission", Args: []string{"V"}}
}

func NewIndirectContext() *ClosureContext {
	return &ClosureContext{Kind: ClosureIndirect, Suffix: "_indirect", Args: []string{"V"}}
}

func NewEmissionContext() *ClosureContext {
	return &ClosureContext{Kind: ClosureEmission, Args: []string{"N", "V"}}
}

// LightShaders is the ordered set of light shaders bound for light loops,
// keyed by light type identifier.
type LightShaders struct {
	m *ordmap.Map[uint32, *glshade.Node]
}

func NewLightShaders() *LightShaders {
	return &LightShaders{m: ordmap.New[uint32, *glshade.Node]()}
}

// Bind binds the light shader node to the light type id, replacing a previous binding.
func (ls *LightShaders) Bind(typeID uint32, light *glshade.Node) error {
	if light == nil {
		return errors.New("nil light shader")
	} else if !light.Has(glshade.ClassLight | glshade.ClassShader) {
		return fmt.Errorf("node %q is not a light shader (%s)", light.Name(), light.Classification())
	} else if typeID == 0 {
		return errors.New("light type id 0 is reserved for inactive lights")
	}
	ls.m.Add(typeID, light)
	return nil
}

func (ls *LightShaders) Unbind(typeID uint32) { ls.m.DeleteKey(typeID) }

func (ls *LightShaders) Len() int {
	if ls == nil {
		return 0
	}
	return ls.m.Len()
}

// Each calls fn for every bound light in binding order.
func (ls *LightShaders) Each(fn func(typeID uint32, light *glshade.Node) error) error {
	if ls == nil {
		return nil
	}
	for _, kv := range ls.m.Order {
		if err := fn(kv.Key, kv.Value); err != nil {
			return err
		}
	}
	return nil
}

// ResourceBinding emits uniform declarations annotated with explicit binding
// points in place of plain uniform declarations.
type ResourceBinding interface {
	// Initialize resets binding counters. Called at the start of every generation.
	Initialize()
	// EmitDirectives emits the preamble required by the binding model.
	EmitDirectives(ctx *Context, st *Stage)
	// EmitResourceBindings declares the uniforms of block.
	EmitResourceBindings(ctx *Context, block *VariableBlock, st *Stage) error
	// EmitStructuredResourceBindings declares block as an array of structs
	// named structName, i.e: the light data array.
	EmitStructuredResourceBindings(ctx *Context, block *VariableBlock, st *Stage, structName, arraySuffix string) error
}
