package glsl

import (
	"fmt"
	"strconv"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
)

// ResourceBindingContext declares uniforms with explicit binding points:
// plain uniforms are grouped in std140 uniform blocks and samplers are
// bound individually. Binding counters restart at every generation.
type ResourceBindingContext struct {
	UniformBinding int
	SamplerBinding int
	// SeparateBindingLocation numbers samplers from SamplerBinding rather
	// than sharing the uniform block counter.
	SeparateBindingLocation bool

	uniformLoc int
	samplerLoc int
}

var _ glbuild.ResourceBinding = (*ResourceBindingContext)(nil)

func NewResourceBindingContext(uniformBinding, samplerBinding int) *ResourceBindingContext {
	return &ResourceBindingContext{UniformBinding: uniformBinding, SamplerBinding: samplerBinding}
}

func (rb *ResourceBindingContext) Initialize() {
	rb.uniformLoc = rb.UniformBinding
	rb.samplerLoc = rb.SamplerBinding
}

func (rb *ResourceBindingContext) EmitDirectives(ctx *glbuild.Context, st *glbuild.Stage) {
	st.EmitLine("#extension GL_ARB_shading_language_420pack : enable", false)
}

func (rb *ResourceBindingContext) nextUniform() string {
	loc := rb.uniformLoc
	rb.uniformLoc++
	return strconv.Itoa(loc)
}

func (rb *ResourceBindingContext) nextSampler() string {
	if !rb.SeparateBindingLocation {
		return rb.nextUniform()
	}
	loc := rb.samplerLoc
	rb.samplerLoc++
	return strconv.Itoa(loc)
}

func (rb *ResourceBindingContext) EmitResourceBindings(ctx *glbuild.Context, block *glbuild.VariableBlock, st *glbuild.Stage) error {
	syn := st.Syntax()
	var plain, samplers []*glshade.Port
	for _, p := range block.Ports() {
		if p.Type == glshade.TypeFilename {
			samplers = append(samplers, p)
		} else {
			plain = append(plain, p)
		}
	}
	if len(plain) > 0 {
		st.EmitLine("layout (std140, binding="+rb.nextUniform()+") "+syn.UniformQualifier()+" "+block.Name()+"_"+st.Name(), false)
		st.EmitScopeBegin()
		for _, p := range plain {
			st.EmitLine(variableDecl(syn, p, "", false), true)
		}
		st.EmitScopeEnd(true, true)
		st.EmitLineBreak()
	}
	for _, p := range samplers {
		st.EmitLine("layout (binding="+rb.nextSampler()+") "+variableDecl(syn, p, syn.UniformQualifier(), false), true)
	}
	if len(samplers) > 0 {
		st.EmitLineBreak()
	}
	return nil
}

// EmitStructuredResourceBindings declares block as a struct padded to the
// std140 layout and a uniform block holding the instance array.
func (rb *ResourceBindingContext) EmitStructuredResourceBindings(ctx *glbuild.Context, block *glbuild.VariableBlock, st *glbuild.Stage, structName, arraySuffix string) error {
	syn := st.Syntax()
	st.EmitLine("struct "+structName, false)
	st.EmitScopeBegin()
	offset, pads := 0, 0
	pad := func(align int) {
		for offset%align != 0 {
			st.EmitLine("float pad"+strconv.Itoa(pads), true)
			pads++
			offset += 4
		}
	}
	for _, p := range block.Ports() {
		align, size, err := std140(p.Type)
		if err != nil {
			return fmt.Errorf("%s member %q: %w", structName, p.Variable, err)
		}
		pad(align)
		st.EmitLine(variableDecl(syn, p, "", false), true)
		offset += size
	}
	pad(16)
	st.EmitScopeEnd(true, true)
	st.EmitLineBreak()
	st.EmitLine("layout (std140, binding="+rb.nextUniform()+") "+syn.UniformQualifier()+" "+structName+"_"+st.Name(), false)
	st.EmitScopeBegin()
	st.EmitLine(structName+" "+block.Instance()+arraySuffix, true)
	st.EmitScopeEnd(true, true)
	st.EmitLineBreak()
	return nil
}

// std140 returns the base alignment and size in bytes of a std140 member of type t.
func std140(t *glshade.TypeDesc) (align, size int, err error) {
	switch {
	case t.IsScalar():
		return 4, 4, nil
	case t.IsFloat2():
		return 8, 8, nil
	case t.IsFloat3():
		return 16, 12, nil
	case t.IsFloat4():
		return 16, 16, nil
	case t == glshade.TypeMatrix33:
		return 16, 48, nil
	case t == glshade.TypeMatrix44:
		return 16, 64, nil
	}
	return 0, 0, fmt.Errorf("type %s has no std140 layout", t)
}
