package graph

import (
	"fmt"
	"io"
	"slices"

	"github.com/lanternml/lantern/graph/shapeinference"
	"github.com/lanternml/lantern/types/shapes"
)

// This file implements the pointwise nonlinearities, the loss heads and the
// shaping/arithmetic operators.

// newPointwise creates a single-operand node whose result type equals the
// input type.
func (m *Module) newPointwise(kind Kind, name string, input NodeValue) NodeValue {
	m.checkOperands(kind, name, input)
	n := m.newNode(kind, name, nil, []*Type{input.Type()}, input)
	return n.Value()
}

// NewRelu creates a rectified-linear pointwise node. The result type equals
// the input type.
func (m *Module) NewRelu(name string, input NodeValue) NodeValue {
	return m.newPointwise(KindRelu, name, input)
}

// NewSigmoid creates a sigmoid pointwise node. The result type equals the
// input type.
func (m *Module) NewSigmoid(name string, input NodeValue) NodeValue {
	return m.newPointwise(KindSigmoid, name, input)
}

// NewTanh creates a tanh pointwise node. The result type equals the input type.
func (m *Module) NewTanh(name string, input NodeValue) NodeValue {
	return m.newPointwise(KindTanh, name, input)
}

// NewSoftMax creates a softmax node over input [N, F] with the per-row target
// indices selected [N, 1] (integer element kind). The result type equals the
// input type. selected constrains the supervised loss: optimizers treat it as
// data, not control.
func (m *Module) NewSoftMax(name string, input, selected NodeValue) NodeValue {
	m.checkOperands(KindSoftMax, name, input, selected)
	output, err := shapeinference.SoftMaxOutput(input.Shape(), selected.Shape())
	if err != nil {
		raise(err)
	}
	n := m.newNode(KindSoftMax, name, nil, []*Type{m.TypeFromShape(output)}, input, selected)
	return n.Value()
}

// NewRegression creates a regression loss node of input against expected,
// which must have the same type. The result type equals the input type.
func (m *Module) NewRegression(name string, input, expected NodeValue) NodeValue {
	m.checkOperands(KindRegression, name, input, expected)
	output, err := shapeinference.RegressionOutput(input.Shape(), expected.Shape())
	if err != nil {
		raise(err)
	}
	n := m.newNode(KindRegression, name, nil, []*Type{m.TypeFromShape(output)}, input, expected)
	return n.Value()
}

// TransposeAttrs are the static attributes of a Transpose node: Shuffle is a
// permutation of [0 .. rank-1] and output axis i takes input axis Shuffle[i].
type TransposeAttrs struct {
	Shuffle []int
}

func (a TransposeAttrs) kindOf() Kind { return KindTranspose }

func (a TransposeAttrs) String() string {
	return fmt.Sprintf("Transpose[%v]", a.Shuffle)
}

func (a TransposeAttrs) hashInto(w io.Writer) {
	for _, axis := range a.Shuffle {
		hashInt(w, int64(axis))
	}
}

func (a TransposeAttrs) clone() nodeAttrs {
	return TransposeAttrs{Shuffle: slices.Clone(a.Shuffle)}
}

// NewTranspose creates a transposition of the input by the given shuffle,
// which must be a permutation of [0 .. rank-1]. The result shape is the input
// dimensions permuted by the shuffle.
func (m *Module) NewTranspose(name string, input NodeValue, shuffle []int) NodeValue {
	m.checkOperands(KindTranspose, name, input)
	output, err := shapeinference.TransposeOutput(input.Shape(), shuffle)
	if err != nil {
		raise(err)
	}
	attrs := TransposeAttrs{Shuffle: slices.Clone(shuffle)}
	n := m.newNode(KindTranspose, name, attrs, []*Type{m.TypeFromShape(output)}, input)
	return n.Value()
}

// TransposeAttrs returns the attributes of a Transpose node. Panics for other
// kinds. The shuffle slice is owned by the node and must not be modified.
func (n *Node) TransposeAttrs() TransposeAttrs {
	n.assertKind(KindTranspose)
	return n.attrs.(TransposeAttrs)
}

// ReshapeAttrs are the static attributes of a Reshape node.
type ReshapeAttrs struct {
	Dims []int
}

func (a ReshapeAttrs) kindOf() Kind { return KindReshape }

func (a ReshapeAttrs) String() string {
	return fmt.Sprintf("Reshape[%v]", a.Dims)
}

func (a ReshapeAttrs) hashInto(w io.Writer) {
	for _, dim := range a.Dims {
		hashInt(w, int64(dim))
	}
}

func (a ReshapeAttrs) clone() nodeAttrs {
	return ReshapeAttrs{Dims: slices.Clone(a.Dims)}
}

// NewReshape creates a reshape of the input to the given dims, whose product
// must equal the input's number of elements.
func (m *Module) NewReshape(name string, input NodeValue, dims []int) NodeValue {
	m.checkOperands(KindReshape, name, input)
	output, err := shapeinference.ReshapeOutput(input.Shape(), dims)
	if err != nil {
		raise(err)
	}
	attrs := ReshapeAttrs{Dims: slices.Clone(dims)}
	n := m.newNode(KindReshape, name, attrs, []*Type{m.TypeFromShape(output)}, input)
	return n.Value()
}

// ReshapeAttrs returns the attributes of a Reshape node. Panics for other
// kinds. The dims slice is owned by the node and must not be modified.
func (n *Node) ReshapeAttrs() ReshapeAttrs {
	n.assertKind(KindReshape)
	return n.attrs.(ReshapeAttrs)
}

// ConcatAttrs are the static attributes of a Concat node: the axis the
// inputs are concatenated along.
type ConcatAttrs struct {
	Dim int
}

func (a ConcatAttrs) kindOf() Kind { return KindConcat }

func (a ConcatAttrs) String() string {
	return fmt.Sprintf("Concat[dim=%d]", a.Dim)
}

func (a ConcatAttrs) hashInto(w io.Writer) {
	hashInt(w, int64(a.Dim))
}

func (a ConcatAttrs) clone() nodeAttrs { return a }

// NewConcat creates a concatenation of the inputs (at least one) along axis
// dim. All inputs must have the same element kind and rank, and agree on
// every axis other than dim; the result extent on dim is the sum of the
// inputs' extents.
func (m *Module) NewConcat(name string, dim int, inputs ...NodeValue) NodeValue {
	m.checkOperands(KindConcat, name, inputs...)
	inputShapes := make([]shapes.Shape, 0, len(inputs))
	for _, input := range inputs {
		inputShapes = append(inputShapes, input.Shape())
	}
	output, err := shapeinference.ConcatOutput(inputShapes, dim)
	if err != nil {
		raise(err)
	}
	n := m.newNode(KindConcat, name, ConcatAttrs{Dim: dim}, []*Type{m.TypeFromShape(output)}, inputs...)
	return n.Value()
}

// ConcatAttrs returns the attributes of a Concat node. Panics for other kinds.
func (n *Node) ConcatAttrs() ConcatAttrs {
	n.assertKind(KindConcat)
	return n.attrs.(ConcatAttrs)
}

// ArithmeticOpKind selects the element-wise operation of an Arithmetic node.
type ArithmeticOpKind int

const (
	ArithmeticAdd ArithmeticOpKind = iota
	ArithmeticMul
	ArithmeticSub
	ArithmeticDiv
	ArithmeticMax
	ArithmeticCmpLTE
)

// String implements fmt.Stringer.
func (k ArithmeticOpKind) String() string {
	switch k {
	case ArithmeticAdd:
		return "Add"
	case ArithmeticMul:
		return "Mul"
	case ArithmeticSub:
		return "Sub"
	case ArithmeticDiv:
		return "Div"
	case ArithmeticMax:
		return "Max"
	case ArithmeticCmpLTE:
		return "CmpLTE"
	}
	return fmt.Sprintf("ArithmeticOpKind(%d)", k)
}

// ArithmeticAttrs are the static attributes of an Arithmetic node. The
// operands are, in order: LHS, RHS.
type ArithmeticAttrs struct {
	Op ArithmeticOpKind
}

func (a ArithmeticAttrs) kindOf() Kind { return KindArithmetic }

func (a ArithmeticAttrs) String() string {
	return fmt.Sprintf("Arithmetic[%s]", a.Op)
}

func (a ArithmeticAttrs) hashInto(w io.Writer) {
	hashInt(w, int64(a.Op))
}

func (a ArithmeticAttrs) clone() nodeAttrs { return a }

// NewArithmetic creates an element-wise binary operation of lhs and rhs,
// which must have identical types (ErrTypeMismatch otherwise). The result
// type equals the LHS type.
func (m *Module) NewArithmetic(name string, op ArithmeticOpKind, lhs, rhs NodeValue) NodeValue {
	m.checkOperands(KindArithmetic, name, lhs, rhs)
	output, err := shapeinference.ArithmeticOutput(lhs.Shape(), rhs.Shape())
	if err != nil {
		raise(err)
	}
	n := m.newNode(KindArithmetic, name, ArithmeticAttrs{Op: op}, []*Type{m.TypeFromShape(output)}, lhs, rhs)
	return n.Value()
}

// ArithmeticAttrs returns the attributes of an Arithmetic node. Panics for
// other kinds.
func (n *Node) ArithmeticAttrs() ArithmeticAttrs {
	n.assertKind(KindArithmetic)
	return n.attrs.(ArithmeticAttrs)
}
