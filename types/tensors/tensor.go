// Package tensors implements a minimal dense tensor: a shape plus a flat
// backing buffer in row-major order.
//
// It is the payload type owned by Variable nodes in the graph package. There
// are no compute kernels here -- execution is out of scope for the graph
// representation -- only creation, typed access, assignment and equality.
package tensors

import (
	"bytes"
	"unsafe"

	"github.com/gomlx/exceptions"
	"github.com/lanternml/lantern/types/dtypes"
	"github.com/lanternml/lantern/types/shapes"
	"github.com/pkg/errors"
)

// Tensor is a dense multi-dimensional array of one of the supported dtypes.
// The zero value is not valid: use FromShape or FromFlatDataAndDimensions.
type Tensor struct {
	shape shapes.Shape
	data  []byte
}

// FromShape returns a zero-initialized Tensor of the given shape.
func FromShape(shape shapes.Shape) *Tensor {
	if !shape.Ok() {
		exceptions.Panicf("tensors.FromShape: invalid shape %s", shape)
	}
	return &Tensor{
		shape: shape.Clone(),
		data:  make([]byte, shape.Memory()),
	}
}

// FromFlatDataAndDimensions creates a Tensor with the given dimensions,
// initialized from the flat (row-major) data. The length of data must match
// the product of the dimensions.
func FromFlatDataAndDimensions[T dtypes.Supported](data []T, dimensions ...int) *Tensor {
	shape := shapes.Make(dtypes.FromGenericsType[T](), dimensions...)
	if len(data) != shape.Size() {
		exceptions.Panicf("tensors.FromFlatDataAndDimensions: shape %s needs %d values, got %d",
			shape, shape.Size(), len(data))
	}
	t := FromShape(shape)
	copy(Data[T](t), data)
	return t
}

// FromScalar creates a rank-0 tensor holding the given value.
func FromScalar[T dtypes.Supported](value T) *Tensor {
	t := FromShape(shapes.Scalar[T]())
	Data[T](t)[0] = value
	return t
}

// Shape of the tensor.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType of the tensor elements.
func (t *Tensor) DType() dtypes.DType { return t.shape.DType }

// Rank of the tensor shape.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// Size is the number of elements stored, the product of the dimensions.
func (t *Tensor) Size() int { return t.shape.Size() }

// Data returns the flat data of the tensor as a mutable slice of the element
// Go type. It panics if T doesn't correspond to the tensor's dtype.
//
// The returned slice aliases the tensor's backing buffer.
func Data[T dtypes.Supported](t *Tensor) []T {
	want := dtypes.FromGenericsType[T]()
	if want != t.shape.DType {
		exceptions.Panicf("tensors.Data[%s]: tensor has dtype %s", want, t.shape.DType)
	}
	if t.Size() == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&t.data[0])), t.Size())
}

// Bytes returns the raw backing buffer of the tensor.
func (t *Tensor) Bytes() []byte { return t.data }

// CopyFrom copies the contents of other into t. It returns an error if the
// shapes (dtype and dimensions) don't match.
func (t *Tensor) CopyFrom(other *Tensor) error {
	if !t.shape.Equal(other.shape) {
		return errors.Errorf("Tensor.CopyFrom: shapes don't match, got %s, want %s", other.shape, t.shape)
	}
	copy(t.data, other.data)
	return nil
}

// Equal returns whether the two tensors have the same shape and byte-equal
// contents.
func (t *Tensor) Equal(other *Tensor) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	return t.shape.Equal(other.shape) && bytes.Equal(t.data, other.data)
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	t2 := FromShape(t.shape)
	copy(t2.data, t.data)
	return t2
}

// String pretty-prints the tensor shape and, for small tensors, its contents.
func (t *Tensor) String() string {
	if t == nil {
		return "Tensor(nil)"
	}
	return "Tensor" + t.shape.String()
}
