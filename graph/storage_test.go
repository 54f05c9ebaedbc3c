package graph

import (
	"testing"

	"github.com/lanternml/lantern/types/tensors"
	"github.com/stretchr/testify/require"
)

func TestVariable(t *testing.T) {
	m := New("storage")
	payload := tensors.FromFlatDataAndDimensions([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
	v := m.NewVariable("w", payload, VisibilityPublic, true)

	n := v.Node()
	require.Equal(t, KindVariable, n.Kind())
	require.True(t, n.IsStorage())
	require.True(t, n.IsTrainable())
	require.Equal(t, VisibilityPublic, n.Visibility())
	require.Equal(t, InitExtern, n.InitKind())
	require.Equal(t, 0, n.NumOperands())
	require.Same(t, payload, n.Payload())
	require.Same(t, m.TypeOf(F32, 2, 3), n.Type())
	require.Equal(t, []float32{1, 2, 3, 4, 5, 6}, VariableData[float32](n))

	err := catch(func() { m.NewVariable("nil", nil, VisibilityPublic, false) })
	require.ErrorIs(t, err, ErrInvalidOperand)
}

func TestVariableWithInit(t *testing.T) {
	m := New("storage-init")
	payload := tensors.FromShape(MS(F32, 10, 784))
	v := m.NewVariableWithInit("w", payload, VisibilityPrivate, true, InitXavier, 784)

	n := v.Node()
	require.Equal(t, InitXavier, n.InitKind())
	require.Equal(t, float64(784), n.InitValue())
	require.Equal(t, VisibilityPrivate, n.Visibility())

	b := m.NewVariableWithInit("b", tensors.FromShape(MS(F32, 10)),
		VisibilityPrivate, true, InitBroadcast, 0.1)
	require.Equal(t, InitBroadcast, b.Node().InitKind())
	require.Equal(t, 0.1, b.Node().InitValue())
}

func TestVariableAssign(t *testing.T) {
	m := New("assign")
	v := m.NewVariable("w", tensors.FromShape(MS(F32, 3)), VisibilityPublic, true).Node()

	v.Assign(tensors.FromFlatDataAndDimensions([]float32{7, 8, 9}, 3))
	require.Equal(t, []float32{7, 8, 9}, VariableData[float32](v))

	// Dimensions must match.
	err := catch(func() { v.Assign(tensors.FromShape(MS(F32, 4))) })
	require.ErrorIs(t, err, ErrTypeMismatch)
	// So must the element kind.
	err = catch(func() { v.Assign(tensors.FromShape(MS(I64, 3))) })
	require.ErrorIs(t, err, ErrTypeMismatch)
	require.Equal(t, []float32{7, 8, 9}, VariableData[float32](v))
}

func TestPlaceholder(t *testing.T) {
	m := New("placeholders")
	p := m.NewPlaceholder("input", m.TypeOf(F32, 8, 28, 28, 1), false)

	n := p.Node()
	require.Equal(t, KindPlaceholder, n.Kind())
	require.True(t, n.IsStorage())
	require.False(t, n.IsTrainable())
	require.Equal(t, []int{8, 28, 28, 1}, n.Dims())

	trainable := m.NewPlaceholder("state", m.TypeOf(F32, 4), true)
	require.True(t, trainable.Node().IsTrainable())

	// The type must be interned in the same module.
	other := New("other")
	err := catch(func() { m.NewPlaceholder("bad", other.TypeOf(F32, 4), false) })
	require.ErrorIs(t, err, ErrInvalidOperand)
	err = catch(func() { m.NewPlaceholder("bad", nil, false) })
	require.ErrorIs(t, err, ErrInvalidOperand)
}

func TestStorageAccessorsPanicOnWrongKind(t *testing.T) {
	_, _, relu := newTestModule(t, MS(F32, 2))
	n := relu.Node()
	require.Panics(t, func() { n.IsTrainable() })
	require.Panics(t, func() { n.Visibility() })
	require.Panics(t, func() { n.Payload() })
	require.Panics(t, func() { VariableData[float32](n) })
}

func TestVariableDataTypeChecked(t *testing.T) {
	m := New("typed-view")
	v := m.NewVariable("w", tensors.FromShape(MS(F32, 2)), VisibilityPublic, true).Node()
	require.Panics(t, func() { VariableData[int64](v) })
}
