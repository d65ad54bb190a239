package nodes

import (
	"strconv"

	"github.com/soypat/glshade"
	"github.com/soypat/glshade/glbuild"
	"github.com/soypat/glshade/glbuild/glsllib"
)

// sampledImage returns the image node connected to node's input named
// input, nil if the input is not sampled from an image.
func sampledImage(node *glshade.Node, input string) *glshade.Node {
	up := node.Upstream(input)
	if up == nil || !up.Has(glshade.ClassSample2D) {
		return nil
	}
	return up
}

// gridOffset returns the texture coordinates of sample i of a width by
// width grid centered on uv, rows ordered from the lowest v.
func gridOffset(uv string, i, width int) string {
	half := width / 2
	dx, dy := float32(i%width-half), float32(i/width-half)
	b := append([]byte(uv+" + sampleSize * vec2("), glbuild.AppendFloat(nil, dx)...)
	b = append(b, ", "...)
	b = glbuild.AppendFloat(b, dy)
	return string(append(b, ')'))
}

// Blur filters the image connected to the "in" input with a box or
// gaussian kernel, selected by "filtertype", over a grid of samples around
// the image's texture coordinates. The "size" input in [0,1] sets the
// kernel width. Inputs not sampled from an image pass through unfiltered.
type Blur struct{ glbuild.Base }

func NewBlur() glbuild.Implementation { return &Blur{} }

// binomial holds the 1D gaussian kernel weights per kernel width.
var binomial = map[int][]float32{
	3: {1. / 4, 2. / 4, 1. / 4},
	5: {1. / 16, 4. / 16, 6. / 16, 4. / 16, 1. / 16},
	7: {1. / 64, 6. / 64, 15. / 64, 20. / 64, 15. / 64, 6. / 64, 1. / 64},
}

// width returns the number of samples along each axis of the kernel.
func (*Blur) width(node *glshade.Node) int {
	var size float32
	if in := node.Input("size"); in != nil && in.Value.IsValid() {
		size = in.Value.Float()
	}
	switch {
	case size > 2./3:
		return 7
	case size > 1./3:
		return 5
	case size > 0:
		return 3
	}
	return 1
}

func (*Blur) EmitFunctionDefinition(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	return st.EmitInclude(ctx, glsllib.Sampling)
}

func (b *Blur) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	in := node.Input("in")
	if in == nil {
		return errNoInput(node, "in")
	}
	img := sampledImage(node, "in")
	width := b.width(node)
	if img == nil || width == 1 {
		emitOutput(node, st, glbuild.InputExpr(in, st))
		return nil
	}
	size, err := glbuild.InputExprByName(node, "size", st)
	if err != nil {
		return err
	}
	gaussian := stringInput(node, "filtertype", "box") == "gaussian"
	out := node.Output("")
	uv := imageTexcoord(img, st)
	st.EmitLine(st.OutputDecl(out, true), true)
	st.EmitScopeBegin()
	st.EmitLine("vec2 sampleSize = mx_compute_sample_size_uv("+uv+", "+size+", 0.0)", true)
	st.EmitLine(st.Syntax().TypeName(out.Type)+" s", true)
	for i := 0; i < width*width; i++ {
		if err := emitImageSample(img, gridOffset(uv, i, width), "s", st); err != nil {
			return err
		}
		weight := 1 / float32(width*width)
		if gaussian {
			weight = binomial[width][i%width] * binomial[width][i/width]
		}
		st.EmitLine(out.Variable+" += "+string(glbuild.AppendFloat(nil, weight))+" * s", true)
	}
	st.EmitScopeEnd(false, true)
	return nil
}

// IsEditable reports false for "size", which selects the kernel width.
func (*Blur) IsEditable(in *glshade.Input) bool {
	return in.Name != "size" && glbuild.Base{}.IsEditable(in)
}

// HeightToNormal converts the height image connected to the "in" input to
// a tangent space normal encoded in [0,1], from a Sobel filter over 3x3
// samples around the image's texture coordinates. The slope is multiplied
// by "scale". Inputs not sampled from an image produce the flat normal.
type HeightToNormal struct{ glbuild.Base }

func NewHeightToNormal() glbuild.Implementation { return &HeightToNormal{} }

func (*HeightToNormal) EmitFunctionDefinition(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	return st.EmitInclude(ctx, glsllib.Sampling)
}

func (*HeightToNormal) EmitFunctionCall(node *glshade.Node, ctx *glbuild.Context, st *glbuild.Stage) error {
	if !isPixel(st) {
		return nil
	}
	img := sampledImage(node, "in")
	if img == nil {
		emitOutput(node, st, "vec3(0.5, 0.5, 1.0)")
		return nil
	}
	scale, err := glbuild.InputExprByName(node, "scale", st)
	if err != nil {
		return err
	}
	const width = 3
	out := node.Output("")
	uv := imageTexcoord(img, st)
	st.EmitLine(st.OutputDecl(out, true), true)
	st.EmitScopeBegin()
	st.EmitLine("vec2 sampleSize = mx_compute_sample_size_uv("+uv+", 1.0, 0.0)", true)
	st.EmitLine("float S["+strconv.Itoa(width*width)+"]", true)
	for i := 0; i < width*width; i++ {
		if err := emitImageSample(img, gridOffset(uv, i, width), "S["+strconv.Itoa(i)+"]", st); err != nil {
			return err
		}
	}
	st.EmitLine(out.Variable+" = mx_normal_from_samples_sobel(S, "+scale+")", true)
	st.EmitScopeEnd(false, true)
	return nil
}
