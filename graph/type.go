package graph

import (
	"github.com/lanternml/lantern/types/dtypes"
	"github.com/lanternml/lantern/types/shapes"
)

// Type is an immutable (element kind, dimensions) descriptor interned by a
// Module: the module deduplicates descriptors, so two types with equal dtype
// and dimensions are represented by the same *Type handle, and equality is
// pointer identity.
//
// A Type handle remains valid for the lifetime of its module.
type Type struct {
	module *Module
	shape  shapes.Shape
}

// Module that owns (interned) this type.
func (t *Type) Module() *Module { return t.module }

// DType is the element kind of the type.
func (t *Type) DType() dtypes.DType { return t.shape.DType }

// Dims returns the dimensions of the type. The returned slice is owned by the
// type and must not be modified.
func (t *Type) Dims() []int { return t.shape.Dimensions }

// Rank of the type, the number of dimensions.
func (t *Type) Rank() int { return t.shape.Rank() }

// Size is the number of elements described by the type.
func (t *Type) Size() int { return t.shape.Size() }

// Shape returns the type as a shapes.Shape value. It implements the
// shapes.HasShape interface. The dimensions slice is shared and must not be
// modified; use Shape().Clone() for a mutable copy.
func (t *Type) Shape() shapes.Shape { return t.shape }

// String implements fmt.Stringer.
func (t *Type) String() string { return t.shape.String() }

// TypeOf returns the unique interned type handle for (dtype, dims) in this
// module, creating it on first use.
func (m *Module) TypeOf(dtype dtypes.DType, dims ...int) *Type {
	return m.TypeFromShape(shapes.Make(dtype, dims...))
}

// TypeFromShape returns the unique interned type handle for the given shape,
// creating it on first use.
func (m *Module) TypeFromShape(shape shapes.Shape) *Type {
	m.AssertValid()
	if !shape.Ok() {
		raisef(ErrInvalidOperand, "cannot intern the invalid shape %s", shape)
	}
	key := shape.CacheKey()
	if t, found := m.types[key]; found {
		return t
	}
	t := &Type{module: m, shape: shape.Clone()}
	m.types[key] = t
	return t
}
