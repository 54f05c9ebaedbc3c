package shapes

import (
	"testing"

	"github.com/lanternml/lantern/types/dtypes"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3)
	require.True(t, s.Ok())
	require.Equal(t, dtypes.Float32, s.DType)
	require.Equal(t, []int{2, 3}, s.Dimensions)
	require.Equal(t, 2, s.Rank())
	require.Equal(t, 6, s.Size())
	require.Equal(t, uintptr(24), s.Memory())

	// Make clones the dimensions it is given.
	dims := []int{4, 5}
	s2 := Make(dtypes.Int64, dims...)
	dims[0] = 9
	require.Equal(t, []int{4, 5}, s2.Dimensions)

	// Zero-sized axes are legal; negative ones are not.
	empty := Make(dtypes.Float32, 0, 3)
	require.Equal(t, 0, empty.Size())
	require.Panics(t, func() { Make(dtypes.Float32, 2, -1) })
}

func TestScalar(t *testing.T) {
	s := Scalar[float64]()
	require.True(t, s.IsScalar())
	require.Equal(t, 0, s.Rank())
	require.Equal(t, 1, s.Size())
	require.Equal(t, dtypes.Float64, s.DType)
	require.Equal(t, "(Float64)", s.String())
}

func TestInvalid(t *testing.T) {
	require.False(t, Invalid().Ok())
	require.False(t, Shape{}.Ok())
	require.False(t, Invalid().IsScalar())
}

func TestDim(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3, 4)
	require.Equal(t, 2, s.Dim(0))
	require.Equal(t, 4, s.Dim(2))
	require.Equal(t, 4, s.Dim(-1))
	require.Equal(t, 2, s.Dim(-3))
	require.Panics(t, func() { s.Dim(3) })
	require.Panics(t, func() { s.Dim(-4) })
}

func TestEqual(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3)
	require.True(t, s.Equal(Make(dtypes.Float32, 2, 3)))
	require.False(t, s.Equal(Make(dtypes.Float64, 2, 3)))
	require.False(t, s.Equal(Make(dtypes.Float32, 3, 2)))
	require.False(t, s.Equal(Make(dtypes.Float32, 2, 3, 1)))

	require.True(t, s.EqualDimensions(Make(dtypes.Float64, 2, 3)))
	require.False(t, s.EqualDimensions(Make(dtypes.Float32, 3, 2)))
}

func TestClone(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3)
	clone := s.Clone()
	require.True(t, s.Equal(clone))
	clone.Dimensions[0] = 9
	require.Equal(t, 2, s.Dimensions[0])
}

func TestString(t *testing.T) {
	require.Equal(t, "(Float32)[2 3]", Make(dtypes.Float32, 2, 3).String())
	require.Equal(t, "(Int64)", Make(dtypes.Int64).String())
}

func TestCacheKey(t *testing.T) {
	// Distinct (dtype, dimensions) pairs must yield distinct keys; notably
	// [2,3] vs [23] and [1,11] vs [11,1].
	keys := map[string]Shape{}
	for _, s := range []Shape{
		Make(dtypes.Float32, 2, 3),
		Make(dtypes.Float32, 23),
		Make(dtypes.Float32, 1, 11),
		Make(dtypes.Float32, 11, 1),
		Make(dtypes.Float64, 2, 3),
		Make(dtypes.Float32),
		Make(dtypes.Float32, 0),
	} {
		key := s.CacheKey()
		prev, found := keys[key]
		require.Falsef(t, found, "shapes %s and %s collide on cache key %q", prev, s, key)
		keys[key] = s
	}
	require.Equal(t, Make(dtypes.Float32, 2, 3).CacheKey(), Make(dtypes.Float32, 2, 3).CacheKey())
}

func TestCheckDims(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3, 4)
	require.NoError(t, s.CheckDims(2, 3, 4))
	require.NoError(t, s.CheckDims(2, UncheckedAxis, 4))
	require.Error(t, s.CheckDims(2, 3))
	require.Error(t, s.CheckDims(2, 3, 5))

	require.NoError(t, s.Check(dtypes.Float32, 2, 3, 4))
	require.Error(t, s.Check(dtypes.Float64, 2, 3, 4))
}

func TestAsserts(t *testing.T) {
	s := Make(dtypes.Float32, 2, 3)
	require.NotPanics(t, func() { s.AssertDims(2, 3) })
	require.Panics(t, func() { s.AssertDims(3, 2) })
	require.NotPanics(t, func() { s.AssertRank(2) })
	require.Panics(t, func() { s.AssertRank(3) })
	require.Panics(t, func() { s.AssertScalar() })
	require.NotPanics(t, func() { Scalar[float32]().AssertScalar() })
}
