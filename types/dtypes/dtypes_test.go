package dtypes

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestPredicates(t *testing.T) {
	require.True(t, Float32.IsFloat())
	require.True(t, Float16.IsFloat())
	require.False(t, Int32.IsFloat())

	require.True(t, Int64.IsInt())
	require.True(t, Uint8.IsInt())
	require.False(t, Float64.IsInt())
	require.False(t, Bool.IsInt())

	require.True(t, Bool.IsSupported())
	require.True(t, Float64.IsSupported())
	require.False(t, InvalidDType.IsSupported())
	require.False(t, DType(999).IsSupported())
}

func TestMemory(t *testing.T) {
	require.Equal(t, uintptr(1), Bool.Memory())
	require.Equal(t, uintptr(2), Float16.Memory())
	require.Equal(t, uintptr(4), Float32.Memory())
	require.Equal(t, uintptr(8), Int64.Memory())
	require.Panics(t, func() { InvalidDType.Memory() })
}

func TestGoTypeRoundTrip(t *testing.T) {
	for _, dtype := range []DType{Bool, Int8, Int16, Int32, Int64, Uint8, Float16, Float32, Float64} {
		require.Equal(t, dtype, FromGoType(dtype.GoType()))
	}
	require.Panics(t, func() { InvalidDType.GoType() })
}

func TestFromGenericsType(t *testing.T) {
	require.Equal(t, Float32, FromGenericsType[float32]())
	require.Equal(t, Float16, FromGenericsType[float16.Float16]())
	require.Equal(t, Int64, FromGenericsType[int64]())
	require.Equal(t, Bool, FromGenericsType[bool]())

	// Plain uint16 is not a tensor element type, only float16.Float16 is.
	require.Equal(t, InvalidDType, FromGoType(reflect.TypeOf(uint16(0))))
	require.Equal(t, InvalidDType, FromGoType(reflect.TypeOf("")))
}

func TestString(t *testing.T) {
	require.Equal(t, "Float32", Float32.String())
	require.Equal(t, "InvalidDType", InvalidDType.String())
	require.Equal(t, "DType(999)", DType(999).String())
}

func TestAliases(t *testing.T) {
	require.Equal(t, Float32, F32)
	require.Equal(t, Float16, F16)
	require.Equal(t, Int64, I64)
}
