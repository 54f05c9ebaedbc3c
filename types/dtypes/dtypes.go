// Package dtypes defines DType, the enumeration of element kinds a tensor (or
// a node result in a computation graph) can have, and tools to convert between
// DType values and the corresponding Go types.
//
// Float16 is represented in Go with github.com/x448/float16.
package dtypes

import (
	"reflect"

	"github.com/gomlx/exceptions"
	"github.com/x448/float16"
)

// DType is the data type of the unit element of a tensor or of a computation
// graph node result. The enumeration is closed: the graph package dispatches
// on it exhaustively.
type DType int32

//go:generate stringer -type=DType

const (
	InvalidDType DType = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Float16
	Float32
	Float64
)

// Aliases for the commonly used dtypes.
const (
	I8  = Int8
	I32 = Int32
	I64 = Int64
	F16 = Float16
	F32 = Float32
	F64 = Float64
)

// IsFloat returns whether dtype is a floating point type.
func (dtype DType) IsFloat() bool {
	return dtype == Float16 || dtype == Float32 || dtype == Float64
}

// IsInt returns whether dtype is an integer type (signed or unsigned).
func (dtype DType) IsInt() bool {
	switch dtype {
	case Int8, Int16, Int32, Int64, Uint8:
		return true
	}
	return false
}

// IsSupported returns whether dtype is one of the valid enumeration values.
func (dtype DType) IsSupported() bool {
	return dtype > InvalidDType && dtype <= Float64
}

// Memory returns the number of bytes used to store one element of the given dtype.
func (dtype DType) Memory() uintptr {
	switch dtype {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Float16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	}
	exceptions.Panicf("dtypes.Memory: unknown dtype %s", dtype)
	return 0
}

// Supported lists the Go types that map 1:1 to a DType. Used as a generics
// constraint by the tensors and graph packages.
type Supported interface {
	bool | int8 | int16 | int32 | int64 | uint8 | float16.Float16 | float32 | float64
}

// FromGenericsType returns the DType for the given Go type.
func FromGenericsType[T Supported]() DType {
	var t T
	return FromGoType(reflect.TypeOf(t))
}

// FromGoType returns the DType that corresponds to the given Go type, or
// InvalidDType if there is no correspondence.
func FromGoType(t reflect.Type) DType {
	switch t.Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Int8:
		return Int8
	case reflect.Int16:
		return Int16
	case reflect.Int32:
		return Int32
	case reflect.Int64:
		return Int64
	case reflect.Uint8:
		return Uint8
	case reflect.Uint16:
		// Only float16.Float16 (an uint16 under the hood) is supported, plain
		// uint16 tensors are not.
		if t == reflect.TypeOf(float16.Float16(0)) {
			return Float16
		}
		return InvalidDType
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	default:
		return InvalidDType
	}
}

// GoType returns the Go type used to represent elements of the given dtype.
func (dtype DType) GoType() reflect.Type {
	switch dtype {
	case Bool:
		return reflect.TypeOf(false)
	case Int8:
		return reflect.TypeOf(int8(0))
	case Int16:
		return reflect.TypeOf(int16(0))
	case Int32:
		return reflect.TypeOf(int32(0))
	case Int64:
		return reflect.TypeOf(int64(0))
	case Uint8:
		return reflect.TypeOf(uint8(0))
	case Float16:
		return reflect.TypeOf(float16.Float16(0))
	case Float32:
		return reflect.TypeOf(float32(0))
	case Float64:
		return reflect.TypeOf(float64(0))
	}
	exceptions.Panicf("dtypes.GoType: unknown dtype %s", dtype)
	return nil
}
