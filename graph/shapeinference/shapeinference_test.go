package shapeinference

import (
	"testing"

	"github.com/janpfeifer/must"
	"github.com/lanternml/lantern/types/dtypes"
	"github.com/lanternml/lantern/types/shapes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// Aliases
var (
	F32 = dtypes.Float32
	F16 = dtypes.Float16
	I64 = dtypes.Int64

	MS = shapes.Make
)

func TestConvOutput(t *testing.T) {
	// Input [1,8,8,3], filter [16,3,3,3], kernel=3, stride=1, pad=1, depth=16
	// -> [1,8,8,16].
	output := must.M1(ConvOutput(MS(F32, 1, 8, 8, 3), MS(F32, 16, 3, 3, 3), MS(F32, 16), 3, 1, 1, 16))
	require.True(t, MS(F32, 1, 8, 8, 16).Equal(output))

	// Strided: [1,28,28,1], kernel=5, stride=1, pad=2, depth=8 -> [1,28,28,8].
	output = must.M1(ConvOutput(MS(F32, 1, 28, 28, 1), MS(F32, 8, 5, 5, 1), MS(F32, 8), 5, 1, 2, 8))
	require.True(t, MS(F32, 1, 28, 28, 8).Equal(output))

	// Non-integral division.
	_, err := ConvOutput(MS(F32, 1, 8, 8, 3), MS(F32, 16, 3, 3, 3), MS(F32, 16), 3, 2, 0, 16)
	require.ErrorIs(t, err, ErrShapeMismatch)

	// Channels-in disagree between input and filter.
	_, err = ConvOutput(MS(F32, 1, 8, 8, 4), MS(F32, 16, 3, 3, 3), MS(F32, 16), 3, 1, 1, 16)
	require.ErrorIs(t, err, ErrShapeMismatch)

	// Bias length must be depth.
	_, err = ConvOutput(MS(F32, 1, 8, 8, 3), MS(F32, 16, 3, 3, 3), MS(F32, 15), 3, 1, 1, 16)
	require.ErrorIs(t, err, ErrShapeMismatch)

	// Element kinds must agree.
	_, err = ConvOutput(MS(F32, 1, 8, 8, 3), MS(F16, 16, 3, 3, 3), MS(F32, 16), 3, 1, 1, 16)
	require.ErrorIs(t, err, ErrTypeMismatch)

	// Rank and attribute validation.
	_, err = ConvOutput(MS(F32, 8, 8, 3), MS(F32, 16, 3, 3, 3), MS(F32, 16), 3, 1, 1, 16)
	require.ErrorIs(t, err, ErrInvalidOperand)
	_, err = ConvOutput(MS(F32, 1, 8, 8, 3), MS(F32, 16, 3, 3, 3), MS(F32, 16), 3, 0, 1, 16)
	require.ErrorIs(t, err, ErrInvalidOperand)
}

func TestPoolOutput(t *testing.T) {
	// Input [1,8,8,16], kernel=2, stride=2, pad=0 -> [1,4,4,16].
	output := must.M1(PoolOutput(MS(F32, 1, 8, 8, 16), 2, 2, 0))
	require.True(t, MS(F32, 1, 4, 4, 16).Equal(output))

	// Kernel bigger than padded input.
	_, err := PoolOutput(MS(F32, 1, 2, 2, 16), 5, 1, 0)
	require.ErrorIs(t, err, ErrShapeMismatch)

	_, err = PoolOutput(MS(F32, 8, 8, 16), 2, 2, 0)
	require.ErrorIs(t, err, ErrInvalidOperand)
}

// TestWindowFormulaRoundTrip checks outDim*stride - 2*pad + kernel <= inDim + stride
// over a grid of window configurations.
func TestWindowFormulaRoundTrip(t *testing.T) {
	for inDim := 1; inDim <= 32; inDim++ {
		for kernel := 1; kernel <= 5; kernel++ {
			for stride := 1; stride <= 3; stride++ {
				for pad := 0; pad <= 2; pad++ {
					outDim, err := outputDim(inDim, kernel, stride, pad)
					if err != nil {
						continue
					}
					require.GreaterOrEqualf(t, inDim+stride, outDim*stride-2*pad+kernel,
						"inDim=%d kernel=%d stride=%d pad=%d outDim=%d", inDim, kernel, stride, pad, outDim)
				}
			}
		}
	}
}

func TestFullyConnectedOutput(t *testing.T) {
	output := must.M1(FullyConnectedOutput(MS(F32, 4, 784), MS(F32, 10, 784), MS(F32, 10), 10))
	require.True(t, MS(F32, 4, 10).Equal(output))

	_, err := FullyConnectedOutput(MS(F32, 4, 784), MS(F32, 10, 100), MS(F32, 10), 10)
	require.ErrorIs(t, err, ErrShapeMismatch)
	_, err = FullyConnectedOutput(MS(F32, 4, 784), MS(F16, 10, 784), MS(F32, 10), 10)
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = FullyConnectedOutput(MS(F32, 4, 1, 784), MS(F32, 10, 784), MS(F32, 10), 10)
	require.ErrorIs(t, err, ErrInvalidOperand)
}

func TestTransposeOutput(t *testing.T) {
	// [1,2,3,4] with shuffle [0,3,1,2] -> [1,4,2,3].
	output := must.M1(TransposeOutput(MS(F32, 1, 2, 3, 4), []int{0, 3, 1, 2}))
	require.True(t, MS(F32, 1, 4, 2, 3).Equal(output))

	// Not a permutation.
	_, err := TransposeOutput(MS(F32, 1, 2, 3, 4), []int{0, 0, 1, 2})
	require.ErrorIs(t, err, ErrInvalidOperand)
	// Wrong length.
	_, err = TransposeOutput(MS(F32, 1, 2, 3, 4), []int{0, 1, 2})
	require.ErrorIs(t, err, ErrInvalidOperand)
	// Out-of-range axis.
	_, err = TransposeOutput(MS(F32, 1, 2, 3, 4), []int{0, 1, 2, 4})
	require.ErrorIs(t, err, ErrInvalidOperand)
}

func TestReshapeOutput(t *testing.T) {
	// [2,3,4] -> [6,4].
	output := must.M1(ReshapeOutput(MS(F32, 2, 3, 4), []int{6, 4}))
	require.True(t, MS(F32, 6, 4).Equal(output))

	// Element count not preserved.
	_, err := ReshapeOutput(MS(F32, 2, 3, 4), []int{5, 5})
	require.ErrorIs(t, err, ErrShapeMismatch)
	_, err = ReshapeOutput(MS(F32, 2, 3, 4), []int{-6, -4})
	require.ErrorIs(t, err, ErrInvalidOperand)
}

func TestConcatOutput(t *testing.T) {
	// [2,3,4] ++ [2,5,4] along axis 1 -> [2,8,4].
	output := must.M1(ConcatOutput([]shapes.Shape{MS(F32, 2, 3, 4), MS(F32, 2, 5, 4)}, 1))
	require.True(t, MS(F32, 2, 8, 4).Equal(output))

	// Disagreement on a non-concat axis.
	_, err := ConcatOutput([]shapes.Shape{MS(F32, 2, 3, 4), MS(F32, 2, 3, 5)}, 1)
	require.ErrorIs(t, err, ErrShapeMismatch)

	// Rank mismatch.
	_, err = ConcatOutput([]shapes.Shape{MS(F32, 2, 3, 4), MS(F32, 2, 3)}, 1)
	require.ErrorIs(t, err, ErrShapeMismatch)

	// Element kind mismatch.
	_, err = ConcatOutput([]shapes.Shape{MS(F32, 2, 3, 4), MS(F16, 2, 5, 4)}, 1)
	require.ErrorIs(t, err, ErrTypeMismatch)

	// No inputs, bad axis.
	_, err = ConcatOutput(nil, 0)
	require.ErrorIs(t, err, ErrInvalidOperand)
	_, err = ConcatOutput([]shapes.Shape{MS(F32, 2, 3, 4)}, 3)
	require.ErrorIs(t, err, ErrInvalidOperand)

	// A single input is legal and is the identity.
	output = must.M1(ConcatOutput([]shapes.Shape{MS(F32, 2, 3, 4)}, 1))
	require.True(t, MS(F32, 2, 3, 4).Equal(output))
}

func TestBatchNormOutput(t *testing.T) {
	input := MS(F32, 2, 8, 8, 16)
	stat := MS(F32, 16)
	output := must.M1(BatchNormOutput(input, stat, stat, stat, stat, 3))
	require.True(t, input.Equal(output))

	_, err := BatchNormOutput(input, MS(F32, 15), stat, stat, stat, 3)
	require.ErrorIs(t, err, ErrShapeMismatch)
	_, err = BatchNormOutput(input, MS(F16, 16), stat, stat, stat, 3)
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = BatchNormOutput(input, stat, stat, stat, stat, 4)
	require.ErrorIs(t, err, ErrInvalidOperand)
}

func TestArithmeticOutput(t *testing.T) {
	lhs := MS(F32, 2, 3)
	output := must.M1(ArithmeticOutput(lhs, MS(F32, 2, 3)))
	require.True(t, lhs.Equal(output))

	// Both element kind and dimensions must match exactly.
	_, err := ArithmeticOutput(lhs, MS(F16, 2, 3))
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = ArithmeticOutput(lhs, MS(F32, 3, 2))
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSoftMaxOutput(t *testing.T) {
	input := MS(F32, 4, 10)
	output := must.M1(SoftMaxOutput(input, MS(I64, 4, 1)))
	require.True(t, input.Equal(output))

	_, err := SoftMaxOutput(input, MS(F32, 4, 1))
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = SoftMaxOutput(input, MS(I64, 5, 1))
	require.ErrorIs(t, err, ErrShapeMismatch)
	_, err = SoftMaxOutput(MS(F32, 4, 10, 1), MS(I64, 4, 1))
	require.ErrorIs(t, err, ErrInvalidOperand)
}

func TestRegressionOutput(t *testing.T) {
	input := MS(F32, 4, 10)
	output := must.M1(RegressionOutput(input, MS(F32, 4, 10)))
	require.True(t, input.Equal(output))

	_, err := RegressionOutput(input, MS(F32, 4, 11))
	require.ErrorIs(t, err, ErrShapeMismatch)
	_, err = RegressionOutput(input, MS(F16, 4, 10))
	require.ErrorIs(t, err, ErrTypeMismatch)
}

// TestPurity checks that inference depends only on its inputs: repeated calls
// return equal shapes.
func TestPurity(t *testing.T) {
	for range 3 {
		output := must.M1(ConvOutput(MS(F32, 1, 8, 8, 3), MS(F32, 16, 3, 3, 3), MS(F32, 16), 3, 1, 1, 16))
		require.True(t, MS(F32, 1, 8, 8, 16).Equal(output))
	}
}

func TestErrorsCarryStacks(t *testing.T) {
	_, err := PoolOutput(MS(F32, 8, 8, 16), 2, 2, 0)
	require.Error(t, err)
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	var st stackTracer
	require.True(t, errors.As(err, &st))
	require.NotEmpty(t, st.StackTrace())
}
