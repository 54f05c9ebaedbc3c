package graph

import (
	"fmt"
	"io"

	"github.com/lanternml/lantern/graph/shapeinference"
)

// This file implements the neural-network layer operators: convolution,
// pooling, fully-connected, batch normalization and local response
// normalization. Pointwise, shaping and arithmetic operators live in
// ops_util.go.

// ConvolutionAttrs are the static attributes of a Convolution node. The
// operands are, in order: input [N, H, W, Cin], filter
// [Depth, Kernel, Kernel, Cin], bias [Depth].
type ConvolutionAttrs struct {
	Kernel, Stride, Pad, Depth int
}

func (a ConvolutionAttrs) kindOf() Kind { return KindConvolution }

func (a ConvolutionAttrs) String() string {
	return fmt.Sprintf("Convolution[k=%d, s=%d, p=%d, d=%d]", a.Kernel, a.Stride, a.Pad, a.Depth)
}

func (a ConvolutionAttrs) hashInto(w io.Writer) {
	hashInt(w, int64(a.Kernel))
	hashInt(w, int64(a.Stride))
	hashInt(w, int64(a.Pad))
	hashInt(w, int64(a.Depth))
}

func (a ConvolutionAttrs) clone() nodeAttrs { return a }

// NewConvolution creates a 2D convolution of input [N, H, W, Cin] with filter
// [depth, kernel, kernel, Cin] and bias [depth]. The result is
// [N, outH, outW, depth], with the spatial dimensions given by
// (in + 2*pad - kernel)/stride + 1; the division must be integral.
func (m *Module) NewConvolution(name string, input, filter, bias NodeValue, kernel, stride, pad, depth int) NodeValue {
	m.checkOperands(KindConvolution, name, input, filter, bias)
	output, err := shapeinference.ConvOutput(input.Shape(), filter.Shape(), bias.Shape(), kernel, stride, pad, depth)
	if err != nil {
		raise(err)
	}
	attrs := ConvolutionAttrs{Kernel: kernel, Stride: stride, Pad: pad, Depth: depth}
	n := m.newNode(KindConvolution, name, attrs, []*Type{m.TypeFromShape(output)}, input, filter, bias)
	return n.Value()
}

// ConvolutionAttrs returns the attributes of a Convolution node. Panics for
// other kinds.
func (n *Node) ConvolutionAttrs() ConvolutionAttrs {
	n.assertKind(KindConvolution)
	return n.attrs.(ConvolutionAttrs)
}

// PoolOpKind selects the reduction a Pool node applies over its window.
type PoolOpKind int

const (
	PoolMax PoolOpKind = iota
	PoolAvg
)

// String implements fmt.Stringer.
func (k PoolOpKind) String() string {
	switch k {
	case PoolMax:
		return "Max"
	case PoolAvg:
		return "Avg"
	}
	return fmt.Sprintf("PoolOpKind(%d)", k)
}

// PoolAttrs are the static attributes of a Pool node. The single operand is
// the input [N, H, W, C].
type PoolAttrs struct {
	Op                  PoolOpKind
	Kernel, Stride, Pad int
}

func (a PoolAttrs) kindOf() Kind { return KindPool }

func (a PoolAttrs) String() string {
	return fmt.Sprintf("Pool[%s, k=%d, s=%d, p=%d]", a.Op, a.Kernel, a.Stride, a.Pad)
}

func (a PoolAttrs) hashInto(w io.Writer) {
	hashInt(w, int64(a.Op))
	hashInt(w, int64(a.Kernel))
	hashInt(w, int64(a.Stride))
	hashInt(w, int64(a.Pad))
}

func (a PoolAttrs) clone() nodeAttrs { return a }

// NewPool creates a max or average pooling of input [N, H, W, C]. The result
// is [N, outH, outW, C], with the spatial dimensions given by the same window
// formula as convolution.
func (m *Module) NewPool(name string, op PoolOpKind, input NodeValue, kernel, stride, pad int) NodeValue {
	m.checkOperands(KindPool, name, input)
	output, err := shapeinference.PoolOutput(input.Shape(), kernel, stride, pad)
	if err != nil {
		raise(err)
	}
	attrs := PoolAttrs{Op: op, Kernel: kernel, Stride: stride, Pad: pad}
	n := m.newNode(KindPool, name, attrs, []*Type{m.TypeFromShape(output)}, input)
	return n.Value()
}

// PoolAttrs returns the attributes of a Pool node. Panics for other kinds.
func (n *Node) PoolAttrs() PoolAttrs {
	n.assertKind(KindPool)
	return n.attrs.(PoolAttrs)
}

// FullyConnectedAttrs are the static attributes of a FullyConnected node.
// The operands are, in order: input [N, Fin], filter [Depth, Fin],
// bias [Depth].
type FullyConnectedAttrs struct {
	Depth int
}

func (a FullyConnectedAttrs) kindOf() Kind { return KindFullyConnected }

func (a FullyConnectedAttrs) String() string {
	return fmt.Sprintf("FullyConnected[d=%d]", a.Depth)
}

func (a FullyConnectedAttrs) hashInto(w io.Writer) {
	hashInt(w, int64(a.Depth))
}

func (a FullyConnectedAttrs) clone() nodeAttrs { return a }

// NewFullyConnected creates a fully-connected layer of input [N, Fin] with
// filter [depth, Fin] and bias [depth]. The result is [N, depth].
func (m *Module) NewFullyConnected(name string, input, filter, bias NodeValue, depth int) NodeValue {
	m.checkOperands(KindFullyConnected, name, input, filter, bias)
	output, err := shapeinference.FullyConnectedOutput(input.Shape(), filter.Shape(), bias.Shape(), depth)
	if err != nil {
		raise(err)
	}
	attrs := FullyConnectedAttrs{Depth: depth}
	n := m.newNode(KindFullyConnected, name, attrs, []*Type{m.TypeFromShape(output)}, input, filter, bias)
	return n.Value()
}

// FullyConnectedAttrs returns the attributes of a FullyConnected node.
// Panics for other kinds.
func (n *Node) FullyConnectedAttrs() FullyConnectedAttrs {
	n.assertKind(KindFullyConnected)
	return n.attrs.(FullyConnectedAttrs)
}

// BatchNormalizationAttrs are the static attributes of a BatchNormalization
// node. The operands are, in order: input, scale, bias, mean, var -- the
// latter four 1-D tensors of length input.Dims()[ChannelIdx].
type BatchNormalizationAttrs struct {
	ChannelIdx int
	Epsilon    float32
	Momentum   float32
}

func (a BatchNormalizationAttrs) kindOf() Kind { return KindBatchNormalization }

func (a BatchNormalizationAttrs) String() string {
	return fmt.Sprintf("BatchNormalization[channel=%d, eps=%g]", a.ChannelIdx, a.Epsilon)
}

func (a BatchNormalizationAttrs) hashInto(w io.Writer) {
	hashInt(w, int64(a.ChannelIdx))
	hashFloat32(w, a.Epsilon)
	hashFloat32(w, a.Momentum)
}

func (a BatchNormalizationAttrs) clone() nodeAttrs { return a }

// NewBatchNormalization creates a batch normalization of input along the
// channel axis channelIdx. scale, bias, mean and variance must be 1-D tensors
// of length input.Dims()[channelIdx]. The result type equals the input type.
func (m *Module) NewBatchNormalization(name string, input, scale, bias, mean, variance NodeValue,
	channelIdx int, epsilon, momentum float32) NodeValue {
	m.checkOperands(KindBatchNormalization, name, input, scale, bias, mean, variance)
	output, err := shapeinference.BatchNormOutput(
		input.Shape(), scale.Shape(), bias.Shape(), mean.Shape(), variance.Shape(), channelIdx)
	if err != nil {
		raise(err)
	}
	attrs := BatchNormalizationAttrs{ChannelIdx: channelIdx, Epsilon: epsilon, Momentum: momentum}
	n := m.newNode(KindBatchNormalization, name, attrs, []*Type{m.TypeFromShape(output)},
		input, scale, bias, mean, variance)
	return n.Value()
}

// BatchNormalizationAttrs returns the attributes of a BatchNormalization
// node. Panics for other kinds.
func (n *Node) BatchNormalizationAttrs() BatchNormalizationAttrs {
	n.assertKind(KindBatchNormalization)
	return n.attrs.(BatchNormalizationAttrs)
}

// LocalResponseNormalizationAttrs are the static attributes of a
// LocalResponseNormalization node: the number of neighbouring channels on
// each side to sum over (HalfWindowSize), the scaling parameter Alpha, the
// exponent Beta and the offset K.
type LocalResponseNormalizationAttrs struct {
	HalfWindowSize int
	Alpha          float32
	Beta           float32
	K              float32
}

func (a LocalResponseNormalizationAttrs) kindOf() Kind { return KindLocalResponseNormalization }

func (a LocalResponseNormalizationAttrs) String() string {
	return fmt.Sprintf("LocalResponseNormalization[hw=%d, alpha=%g, beta=%g, k=%g]",
		a.HalfWindowSize, a.Alpha, a.Beta, a.K)
}

func (a LocalResponseNormalizationAttrs) hashInto(w io.Writer) {
	hashInt(w, int64(a.HalfWindowSize))
	hashFloat32(w, a.Alpha)
	hashFloat32(w, a.Beta)
	hashFloat32(w, a.K)
}

func (a LocalResponseNormalizationAttrs) clone() nodeAttrs { return a }

// NewLocalResponseNormalization creates a local response normalization of the
// input. The node has two results: result 0 is the normalized output and
// result 1 is the internal scale buffer, both with the input's type. The
// scale buffer is consumed by training-related lowerings.
func (m *Module) NewLocalResponseNormalization(name string, input NodeValue,
	halfWindowSize int, alpha, beta, k float32) NodeValue {
	m.checkOperands(KindLocalResponseNormalization, name, input)
	output, err := shapeinference.LocalResponseNormalizationOutput(input.Shape(), halfWindowSize)
	if err != nil {
		raise(err)
	}
	attrs := LocalResponseNormalizationAttrs{HalfWindowSize: halfWindowSize, Alpha: alpha, Beta: beta, K: k}
	outType := m.TypeFromShape(output)
	n := m.newNode(KindLocalResponseNormalization, name, attrs, []*Type{outType, outType}, input)
	return n.Value()
}

// LocalResponseNormalizationAttrs returns the attributes of a
// LocalResponseNormalization node. Panics for other kinds.
func (n *Node) LocalResponseNormalizationAttrs() LocalResponseNormalizationAttrs {
	n.assertKind(KindLocalResponseNormalization)
	return n.attrs.(LocalResponseNormalizationAttrs)
}

// MayShareBuffers reports whether the lowered instruction may reuse an
// operand buffer for its output. Convolution and FullyConnected must write to
// independent buffers.
func (n *Node) MayShareBuffers() bool {
	return n.kind != KindConvolution && n.kind != KindFullyConnected
}

// checkOperands validates operand handles before shape inference runs, so
// factories fail with ErrInvalidOperand instead of an internal panic.
func (m *Module) checkOperands(kind Kind, name string, operands ...NodeValue) {
	m.AssertValid()
	for ii, operand := range operands {
		if !operand.IsValid() {
			raisef(ErrInvalidOperand, "operand #%d of new node %q (%s) is invalid", ii, name, kind)
		}
		if operand.node.module != m {
			raisef(ErrInvalidOperand, "operand #%d of new node %q (%s) belongs to module %q, not %q",
				ii, name, kind, operand.node.module.name, m.name)
		}
	}
}
