// Package shapeinference computes the result shape of each graph operator and
// validates its operand shapes and attributes.
//
// Every function here is pure: the output depends only on the operand shapes
// and the attributes, so repeated calls with equal inputs produce equal
// shapes. The graph package calls these at node construction time, before the
// node is registered, which guarantees a module never holds half-constructed
// nodes.
//
// Failures are classified by the sentinel errors ErrInvalidOperand,
// ErrShapeMismatch and ErrTypeMismatch -- test with errors.Is. The returned
// errors carry a stack trace (github.com/pkg/errors).
package shapeinference

import (
	"slices"

	"github.com/lanternml/lantern/types/shapes"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidOperand indicates a wrong operand count or a malformed
	// attribute, e.g. a transpose shuffle that is not a permutation.
	ErrInvalidOperand = errors.New("invalid operand")

	// ErrShapeMismatch indicates operand dimensions that violate the
	// operator's shape rule.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrTypeMismatch indicates operand element kinds (or full types, for
	// operators that require identical operands) that disagree.
	ErrTypeMismatch = errors.New("type mismatch")
)

// outputDim computes one spatial output dimension for convolution and pooling:
// (inputDim + 2*pad - kernel) / stride + 1. The division must be integral.
func outputDim(inputDim, kernel, stride, pad int) (int, error) {
	span := inputDim + 2*pad - kernel
	if span < 0 {
		return 0, errors.Wrapf(ErrShapeMismatch,
			"kernel %d with pad %d doesn't fit input dimension %d", kernel, pad, inputDim)
	}
	if span%stride != 0 {
		return 0, errors.Wrapf(ErrShapeMismatch,
			"stride %d doesn't evenly divide the span %d (input dimension %d, kernel %d, pad %d)",
			stride, span, inputDim, kernel, pad)
	}
	return span/stride + 1, nil
}

// checkWindowAttrs validates the kernel/stride/pad attributes shared by
// convolution and pooling.
func checkWindowAttrs(kernel, stride, pad int) error {
	if kernel <= 0 || stride <= 0 || pad < 0 {
		return errors.Wrapf(ErrInvalidOperand,
			"kernel and stride must be positive and pad non-negative, got kernel=%d, stride=%d, pad=%d",
			kernel, stride, pad)
	}
	return nil
}

// ConvOutput returns the output shape of a convolution with input
// [N, H, W, Cin], filter [depth, kernel, kernel, Cin] and bias [depth]:
// [N, outH, outW, depth] with outH/outW given by the usual window formula.
func ConvOutput(input, filter, bias shapes.Shape, kernel, stride, pad, depth int) (output shapes.Shape, err error) {
	if err = checkWindowAttrs(kernel, stride, pad); err != nil {
		return
	}
	if depth <= 0 {
		err = errors.Wrapf(ErrInvalidOperand, "convolution depth must be positive, got %d", depth)
		return
	}
	if input.Rank() != 4 {
		err = errors.Wrapf(ErrInvalidOperand, "convolution input must be rank-4 [N, H, W, C], got %s", input)
		return
	}
	if filter.DType != input.DType || bias.DType != input.DType {
		err = errors.Wrapf(ErrTypeMismatch,
			"convolution operands must share the input element kind %s, got filter %s and bias %s",
			input.DType, filter, bias)
		return
	}
	channelsIn := input.Dim(-1)
	if cerr := filter.CheckDims(depth, kernel, kernel, channelsIn); cerr != nil {
		err = errors.Wrapf(ErrShapeMismatch, "convolution filter %s doesn't match input %s: %v", filter, input, cerr)
		return
	}
	if cerr := bias.CheckDims(depth); cerr != nil {
		err = errors.Wrapf(ErrShapeMismatch, "convolution bias %s must be [depth=%d]", bias, depth)
		return
	}
	outH, herr := outputDim(input.Dim(1), kernel, stride, pad)
	if herr != nil {
		err = herr
		return
	}
	outW, werr := outputDim(input.Dim(2), kernel, stride, pad)
	if werr != nil {
		err = werr
		return
	}
	output = shapes.Make(input.DType, input.Dim(0), outH, outW, depth)
	return
}

// PoolOutput returns the output shape of a pooling over input [N, H, W, C]:
// [N, outH, outW, C], channels preserved.
func PoolOutput(input shapes.Shape, kernel, stride, pad int) (output shapes.Shape, err error) {
	if err = checkWindowAttrs(kernel, stride, pad); err != nil {
		return
	}
	if input.Rank() != 4 {
		err = errors.Wrapf(ErrInvalidOperand, "pool input must be rank-4 [N, H, W, C], got %s", input)
		return
	}
	outH, herr := outputDim(input.Dim(1), kernel, stride, pad)
	if herr != nil {
		err = herr
		return
	}
	outW, werr := outputDim(input.Dim(2), kernel, stride, pad)
	if werr != nil {
		err = werr
		return
	}
	output = shapes.Make(input.DType, input.Dim(0), outH, outW, input.Dim(3))
	return
}

// FullyConnectedOutput returns the output shape of a fully-connected layer
// with input [N, Fin], filter [depth, Fin] and bias [depth]: [N, depth].
func FullyConnectedOutput(input, filter, bias shapes.Shape, depth int) (output shapes.Shape, err error) {
	if depth <= 0 {
		err = errors.Wrapf(ErrInvalidOperand, "fully-connected depth must be positive, got %d", depth)
		return
	}
	if input.Rank() != 2 {
		err = errors.Wrapf(ErrInvalidOperand, "fully-connected input must be rank-2 [N, F], got %s", input)
		return
	}
	if filter.DType != input.DType || bias.DType != input.DType {
		err = errors.Wrapf(ErrTypeMismatch,
			"fully-connected operands must share the input element kind %s, got filter %s and bias %s",
			input.DType, filter, bias)
		return
	}
	if cerr := filter.CheckDims(depth, input.Dim(1)); cerr != nil {
		err = errors.Wrapf(ErrShapeMismatch, "fully-connected filter %s doesn't match input %s: %v", filter, input, cerr)
		return
	}
	if cerr := bias.CheckDims(depth); cerr != nil {
		err = errors.Wrapf(ErrShapeMismatch, "fully-connected bias %s must be [depth=%d]", bias, depth)
		return
	}
	output = shapes.Make(input.DType, input.Dim(0), depth)
	return
}

// TransposeOutput returns the input shape permuted by shuffle, which must be a
// permutation of [0 .. input.Rank()-1].
func TransposeOutput(input shapes.Shape, shuffle []int) (output shapes.Shape, err error) {
	if len(shuffle) != input.Rank() {
		err = errors.Wrapf(ErrInvalidOperand,
			"transpose shuffle %v must have one entry per input axis (input %s)", shuffle, input)
		return
	}
	seen := make([]bool, input.Rank())
	for _, axis := range shuffle {
		if axis < 0 || axis >= input.Rank() || seen[axis] {
			err = errors.Wrapf(ErrInvalidOperand,
				"transpose shuffle %v is not a permutation of [0 .. %d]", shuffle, input.Rank()-1)
			return
		}
		seen[axis] = true
	}
	dims := make([]int, input.Rank())
	for ii, axis := range shuffle {
		dims[ii] = input.Dimensions[axis]
	}
	output = shapes.Make(input.DType, dims...)
	return
}

// ReshapeOutput returns the shape with the given dims, which must hold the
// same number of elements as the input.
func ReshapeOutput(input shapes.Shape, dims []int) (output shapes.Shape, err error) {
	size := 1
	for _, dim := range dims {
		if dim < 0 {
			err = errors.Wrapf(ErrInvalidOperand, "reshape dimensions %v must be non-negative", dims)
			return
		}
		size *= dim
	}
	if size != input.Size() {
		err = errors.Wrapf(ErrShapeMismatch,
			"reshape to %v (%d elements) doesn't preserve the input size %s (%d elements)",
			dims, size, input, input.Size())
		return
	}
	output = shapes.Make(input.DType, dims...)
	return
}

// ConcatOutput returns the concatenation of the inputs along the given axis.
// All inputs must have the same dtype and rank, and agree on every axis other
// than dim; the output extent on dim is the sum of the inputs' extents.
func ConcatOutput(inputs []shapes.Shape, dim int) (output shapes.Shape, err error) {
	if len(inputs) == 0 {
		err = errors.Wrap(ErrInvalidOperand, "concat needs at least one input")
		return
	}
	first := inputs[0]
	if dim < 0 || dim >= first.Rank() {
		err = errors.Wrapf(ErrInvalidOperand, "concat axis %d out-of-range for rank %d", dim, first.Rank())
		return
	}
	total := 0
	for ii, input := range inputs {
		if input.DType != first.DType {
			err = errors.Wrapf(ErrTypeMismatch,
				"concat input #%d has element kind %s, want %s", ii, input.DType, first.DType)
			return
		}
		if input.Rank() != first.Rank() {
			err = errors.Wrapf(ErrShapeMismatch,
				"concat input #%d (%s) has rank %d, want %d", ii, input, input.Rank(), first.Rank())
			return
		}
		for axis := range first.Rank() {
			if axis != dim && input.Dimensions[axis] != first.Dimensions[axis] {
				err = errors.Wrapf(ErrShapeMismatch,
					"concat input #%d (%s) disagrees with input #0 (%s) on axis %d", ii, input, first, axis)
				return
			}
		}
		total += input.Dimensions[dim]
	}
	dims := slices.Clone(first.Dimensions)
	dims[dim] = total
	output = shapes.Make(first.DType, dims...)
	return
}

// BatchNormOutput validates batch normalization operands and returns the
// (unchanged) input shape. scale, bias, mean and variance must be 1-D tensors
// of length input.Dimensions[channelIdx], with the input's element kind.
func BatchNormOutput(input, scale, bias, mean, variance shapes.Shape, channelIdx int) (output shapes.Shape, err error) {
	if channelIdx < 0 || channelIdx >= input.Rank() {
		err = errors.Wrapf(ErrInvalidOperand,
			"batch normalization channel axis %d out-of-range for input %s", channelIdx, input)
		return
	}
	channels := input.Dimensions[channelIdx]
	for _, stat := range []struct {
		name  string
		shape shapes.Shape
	}{{"scale", scale}, {"bias", bias}, {"mean", mean}, {"var", variance}} {
		if stat.shape.DType != input.DType {
			err = errors.Wrapf(ErrTypeMismatch,
				"batch normalization %s has element kind %s, want %s", stat.name, stat.shape.DType, input.DType)
			return
		}
		if cerr := stat.shape.CheckDims(channels); cerr != nil {
			err = errors.Wrapf(ErrShapeMismatch,
				"batch normalization %s must be a 1-D tensor of length %d, got %s", stat.name, channels, stat.shape)
			return
		}
	}
	output = input.Clone()
	return
}

// ArithmeticOutput validates a binary arithmetic operation and returns the LHS
// shape. The operand types (element kind and dimensions) must be identical.
func ArithmeticOutput(lhs, rhs shapes.Shape) (output shapes.Shape, err error) {
	if !lhs.Equal(rhs) {
		err = errors.Wrapf(ErrTypeMismatch, "arithmetic operands must have identical types, got %s and %s", lhs, rhs)
		return
	}
	output = lhs.Clone()
	return
}

// SoftMaxOutput validates a softmax with its selected per-row target indices
// and returns the (unchanged) input shape. input must be [N, F] and selected
// [N, 1] with an integer element kind.
func SoftMaxOutput(input, selected shapes.Shape) (output shapes.Shape, err error) {
	if input.Rank() != 2 {
		err = errors.Wrapf(ErrInvalidOperand, "softmax input must be rank-2 [N, F], got %s", input)
		return
	}
	if !selected.DType.IsInt() {
		err = errors.Wrapf(ErrTypeMismatch,
			"softmax selected indices must have an integer element kind, got %s", selected)
		return
	}
	if cerr := selected.CheckDims(input.Dim(0), 1); cerr != nil {
		err = errors.Wrapf(ErrShapeMismatch,
			"softmax selected indices must be [N=%d, 1], got %s", input.Dim(0), selected)
		return
	}
	output = input.Clone()
	return
}

// RegressionOutput validates a regression node and returns the (unchanged)
// input shape. input and expected must have identical types.
func RegressionOutput(input, expected shapes.Shape) (output shapes.Shape, err error) {
	if expected.DType != input.DType {
		err = errors.Wrapf(ErrTypeMismatch,
			"regression expected values have element kind %s, want %s", expected.DType, input.DType)
		return
	}
	if !expected.EqualDimensions(input) {
		err = errors.Wrapf(ErrShapeMismatch,
			"regression expected values %s must match the input %s", expected, input)
		return
	}
	output = input.Clone()
	return
}

// LocalResponseNormalizationOutput validates the LRN attributes and returns
// the (unchanged) input shape.
func LocalResponseNormalizationOutput(input shapes.Shape, halfWindowSize int) (output shapes.Shape, err error) {
	if halfWindowSize < 0 {
		err = errors.Wrapf(ErrInvalidOperand,
			"local response normalization half window size must be non-negative, got %d", halfWindowSize)
		return
	}
	output = input.Clone()
	return
}
