package graph

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/gomlx/exceptions"
	"github.com/lanternml/lantern/types/dtypes"
	"github.com/lanternml/lantern/types/tensors"
)

// Visibility controls whether a Variable is part of the module's public
// interface (e.g. exported weights) or internal to it.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityPrivate
)

// String implements fmt.Stringer.
func (v Visibility) String() string {
	if v == VisibilityPublic {
		return "public"
	}
	return "private"
}

// InitKind describes how a Variable's payload is initialized before training.
// Initialization itself is performed by the runtime, not by the graph core;
// the kind and value are only recorded on the node.
type InitKind int

const (
	// InitExtern: the payload is supplied externally, e.g. loaded weights.
	InitExtern InitKind = iota
	// InitBroadcast: the payload is filled with the init value.
	InitBroadcast
	// InitXavier: the payload is sampled randomly, scaled by the init value.
	InitXavier
)

// String implements fmt.Stringer.
func (k InitKind) String() string {
	switch k {
	case InitExtern:
		return "extern"
	case InitBroadcast:
		return "broadcast"
	case InitXavier:
		return "xavier"
	}
	return fmt.Sprintf("InitKind(%d)", k)
}

type variableAttrs struct {
	visibility Visibility
	trainable  bool
	initKind   InitKind
	initValue  float64
	payload    *tensors.Tensor
}

func (a *variableAttrs) kindOf() Kind { return KindVariable }

func (a *variableAttrs) String() string {
	if a.trainable {
		return fmt.Sprintf("Variable[%s, trainable]", a.visibility)
	}
	return fmt.Sprintf("Variable[%s]", a.visibility)
}

func (a *variableAttrs) hashInto(w io.Writer) {
	hashInt(w, int64(a.visibility))
	hashBool(w, a.trainable)
	hashInt(w, int64(a.initKind))
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(a.initValue))
	_, _ = w.Write(buf[:])
	_, _ = w.Write(a.payload.Bytes())
}

func (a *variableAttrs) clone() nodeAttrs {
	a2 := *a
	a2.payload = a.payload.Clone()
	return &a2
}

type placeholderAttrs struct {
	trainable bool
}

func (a placeholderAttrs) kindOf() Kind { return KindPlaceholder }

func (a placeholderAttrs) String() string {
	if a.trainable {
		return "Placeholder[trainable]"
	}
	return "Placeholder"
}

func (a placeholderAttrs) hashInto(w io.Writer) {
	hashBool(w, a.trainable)
}

func (a placeholderAttrs) clone() nodeAttrs { return a }

func hashBool(w io.Writer, b bool) {
	if b {
		hashInt(w, 1)
	} else {
		hashInt(w, 0)
	}
}

// NewVariable creates a Variable storage node owning the given tensor
// payload. The node's single result type is derived from the payload shape.
// The init kind defaults to InitExtern; see NewVariableWithInit.
func (m *Module) NewVariable(name string, payload *tensors.Tensor, visibility Visibility, trainable bool) NodeValue {
	return m.NewVariableWithInit(name, payload, visibility, trainable, InitExtern, 0)
}

// NewVariableWithInit creates a Variable storage node recording how its
// payload is to be initialized: filled with initValue (InitBroadcast),
// randomly sampled scaled by initValue (InitXavier) or supplied externally
// (InitExtern).
func (m *Module) NewVariableWithInit(name string, payload *tensors.Tensor, visibility Visibility,
	trainable bool, initKind InitKind, initValue float64) NodeValue {
	m.AssertValid()
	if payload == nil {
		raisef(ErrInvalidOperand, "variable %q needs a tensor payload, got nil", name)
	}
	attrs := &variableAttrs{
		visibility: visibility,
		trainable:  trainable,
		initKind:   initKind,
		initValue:  initValue,
		payload:    payload,
	}
	n := m.newNode(KindVariable, name, attrs, []*Type{m.TypeFromShape(payload.Shape())})
	return n.Value()
}

// NewPlaceholder creates a Placeholder storage node: an unbound tensor slot
// whose concrete value is supplied by the runtime at execution time.
func (m *Module) NewPlaceholder(name string, t *Type, trainable bool) NodeValue {
	m.AssertValid()
	if t == nil || t.module != m {
		raisef(ErrInvalidOperand, "placeholder %q needs a type interned in module %q", name, m.name)
	}
	n := m.newNode(KindPlaceholder, name, placeholderAttrs{trainable: trainable}, []*Type{t})
	return n.Value()
}

// IsStorage reports whether the node is a storage node (Variable or
// Placeholder).
func (n *Node) IsStorage() bool { return n.kind.IsStorage() }

// IsTrainable reports whether the storage node participates in training.
// Panics if the node is not a storage node.
func (n *Node) IsTrainable() bool {
	switch n.kind {
	case KindVariable:
		return n.attrs.(*variableAttrs).trainable
	case KindPlaceholder:
		return n.attrs.(placeholderAttrs).trainable
	}
	exceptions.Panicf("Node.IsTrainable called on %q (%s), not a storage node", n.name, n.kind)
	return false
}

// Visibility of a Variable node. Panics for other kinds.
func (n *Node) Visibility() Visibility {
	n.assertKind(KindVariable)
	return n.attrs.(*variableAttrs).visibility
}

// InitKind of a Variable node. Panics for other kinds.
func (n *Node) InitKind() InitKind {
	n.assertKind(KindVariable)
	return n.attrs.(*variableAttrs).initKind
}

// InitValue of a Variable node. Panics for other kinds.
func (n *Node) InitValue() float64 {
	n.assertKind(KindVariable)
	return n.attrs.(*variableAttrs).initValue
}

// Payload returns the tensor owned by a Variable node. Panics for other kinds.
func (n *Node) Payload() *tensors.Tensor {
	n.assertKind(KindVariable)
	return n.attrs.(*variableAttrs).payload
}

// Assign copies the given tensor into the Variable's payload. It fails with
// ErrTypeMismatch unless the element kinds and dimensions match.
func (n *Node) Assign(t *tensors.Tensor) {
	n.AssertValid()
	n.assertKind(KindVariable)
	payload := n.attrs.(*variableAttrs).payload
	if !payload.Shape().Equal(t.Shape()) {
		raisef(ErrTypeMismatch, "cannot assign tensor %s to variable %q of type %s",
			t.Shape(), n.name, n.Type())
	}
	if err := payload.CopyFrom(t); err != nil {
		raise(err)
	}
}

// VariableData returns an element-typed view of a Variable's payload. It
// panics if T doesn't match the variable's element kind.
func VariableData[T dtypes.Supported](n *Node) []T {
	n.assertKind(KindVariable)
	return tensors.Data[T](n.attrs.(*variableAttrs).payload)
}

func (n *Node) assertKind(k Kind) {
	if n == nil {
		exceptions.Panicf("Node is nil")
	}
	if n.kind != k {
		exceptions.Panicf("node %q is a %s, not a %s", n.name, n.kind, k)
	}
}
